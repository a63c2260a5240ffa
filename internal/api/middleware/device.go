package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type contextKey string

const (
	DeviceIDKey contextKey = "deviceID"

	// DeviceIDHeader names the browser-generated id that scopes saved teams.
	DeviceIDHeader = "X-Device-ID"

	maxDeviceIDLength = 128
)

// Device requires the X-Device-ID header and stores it in the request context.
func Device(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID := strings.TrimSpace(r.Header.Get(DeviceIDHeader))
			if deviceID == "" {
				logger.Warn("missing device id", zap.String("path", r.URL.Path))
				http.Error(w, DeviceIDHeader+" header required", http.StatusBadRequest)
				return
			}
			if len(deviceID) > maxDeviceIDLength {
				http.Error(w, "Invalid device id", http.StatusBadRequest)
				return
			}

			ctx := context.WithValue(r.Context(), DeviceIDKey, deviceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetDeviceID(ctx context.Context) (string, bool) {
	deviceID, ok := ctx.Value(DeviceIDKey).(string)
	return deviceID, ok
}
