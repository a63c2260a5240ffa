package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/dom/haikyu-team-builder/internal/service"
)

const deviceHeader = "X-Device-ID"

// APIClient handles HTTP communication with the builder API
type APIClient struct {
	baseURL    string
	deviceID   string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, deviceID string) *APIClient {
	return &APIClient{
		baseURL:  strings.TrimRight(baseURL, "/") + "/api/v1",
		deviceID: deviceID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RosterFilter narrows ListCharacters. Empty fields are not sent.
type RosterFilter struct {
	Position string
	School   string
	Search   string
}

func (f RosterFilter) query() string {
	q := url.Values{}
	if f.Position != "" {
		q.Set("position", f.Position)
	}
	if f.School != "" {
		q.Set("school", f.School)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListCharacters fetches the roster
func (c *APIClient) ListCharacters(ctx context.Context, filter RosterFilter) ([]*domain.Character, error) {
	var result struct {
		Characters []*domain.Character `json:"characters"`
	}
	if err := c.do(ctx, http.MethodGet, "/characters"+filter.query(), nil, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return result.Characters, nil
}

// CreateCharacter adds a character through the admin API
func (c *APIClient) CreateCharacter(ctx context.Context, in service.CharacterInput) (*domain.Character, error) {
	var created domain.Character
	if err := c.do(ctx, http.MethodPost, "/admin/characters", in, http.StatusCreated, &created); err != nil {
		return nil, fmt.Errorf("create %q: %w", in.Name, err)
	}
	return &created, nil
}

// ReloadRoster asks the server to drop its cached roster
func (c *APIClient) ReloadRoster(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/admin/roster/reload", nil, http.StatusOK, nil)
}

// ImportKey imports an export key into the device's saved teams
func (c *APIClient) ImportKey(ctx context.Context, key, name string) (*service.ImportResult, error) {
	if c.deviceID == "" {
		return nil, fmt.Errorf("a device id is required to import")
	}
	body := map[string]string{"key": key, "name": name}

	var result service.ImportResult
	if err := c.do(ctx, http.MethodPost, "/saved-teams/import", body, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	return &result, nil
}

// ListSavedTeams returns the device's saved teams
func (c *APIClient) ListSavedTeams(ctx context.Context) ([]domain.SavedTeam, error) {
	if c.deviceID == "" {
		return nil, fmt.Errorf("a device id is required to list saved teams")
	}
	var result struct {
		Teams []domain.SavedTeam `json:"teams"`
	}
	if err := c.do(ctx, http.MethodGet, "/saved-teams", nil, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("list saved teams: %w", err)
	}
	return result.Teams, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body interface{}, want int, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.deviceID != "" {
		req.Header.Set(deviceHeader, c.deviceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
