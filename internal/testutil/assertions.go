package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	// Error responses are plain text in this API
	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// DoJSON sends body as JSON with the device header set when deviceID is not
// empty. The caller closes the response body.
func DoJSON(t *testing.T, method, url string, body interface{}, deviceID string) *http.Response {
	t.Helper()

	req := CreateDeviceRequest(t, method, url, body, deviceID)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// AssertSlot verifies which character occupies a court slot. An empty name
// means the slot must be empty.
func AssertSlot(t *testing.T, court domain.TeamSlots, key domain.SlotKey, name string) {
	t.Helper()

	c, ok := court.Get(key)
	require.True(t, ok, "unknown slot %s", key)
	if name == "" {
		assert.Nil(t, c, "slot %s should be empty", key)
		return
	}
	if assert.NotNil(t, c, "slot %s should hold %s", key, name) {
		assert.Equal(t, name, c.Name, "unexpected character in %s", key)
	}
}

// AssertBench verifies the bench names in order, "" for an empty slot.
func AssertBench(t *testing.T, bench domain.Bench, names ...string) {
	t.Helper()

	got := make([]string, len(bench))
	for i, c := range bench {
		if c != nil {
			got[i] = c.Name
		}
	}
	want := make([]string, len(bench))
	copy(want, names)
	assert.Equal(t, want, got, "unexpected bench")
}
