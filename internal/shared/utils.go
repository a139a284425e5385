// Package shared
package shared

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

func SafeEnv(env string) (string, error) {
	// Lookup env variable, and error if not present
	res, present := os.LookupEnv(env)
	if !present {
		return "", fmt.Errorf("missing environment variable %s", env)
	}
	return res, nil
}

func GetEnv(env, fallback string) string {
	if value, ok := os.LookupEnv(env); ok {
		return value
	}
	return fallback
}

// NormalizeBaseURL applies the base-url rules every entrypoint shares:
// empty means the local default, and all trailing slashes are stripped so
// route paths can be appended directly.
func NormalizeBaseURL(raw string) string {
	if raw == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(raw, "/")
}

// NewRequestID builds a client-side request id, prefix plus epoch millis.
func NewRequestID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixMilli())
}

var requestIDSeq atomic.Uint64

// NewGatewayRequestID builds a server-side request id. The sequence
// suffix keeps ids unique within a millisecond.
func NewGatewayRequestID() string {
	seq := requestIDSeq.Add(1) - 1
	return fmt.Sprintf("%s-%d-%d", GatewayRequestIDPrefix, time.Now().UnixMilli(), seq)
}

// ExtractVirtualKey pulls the caller's key token from the authorization
// bearer header or either api-key style header.
func ExtractVirtualKey(c echo.Context) (string, bool) {
	if auth := c.Request().Header.Get(HeaderAuthorization); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && parts[1] != "" {
			return parts[1], true
		}
	}
	if key := c.Request().Header.Get(HeaderAPIKey); key != "" {
		return key, true
	}
	if key := c.Request().Header.Get(HeaderVirtualKey); key != "" {
		return key, true
	}
	return "", false
}

// ExtractAdminToken pulls the admin token from the authorization bearer
// header or the x-admin-token header.
func ExtractAdminToken(c echo.Context) (string, bool) {
	if auth := c.Request().Header.Get(HeaderAuthorization); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && parts[1] != "" {
			return parts[1], true
		}
	}
	if token := c.Request().Header.Get(HeaderAdminToken); token != "" {
		return token, true
	}
	return "", false
}

// EstimateTokens approximates a token count as ceil(len/4), the same
// heuristic the gateway bills limits against.
func EstimateTokens(body []byte) uint64 {
	if len(body) == 0 {
		return 0
	}
	return (uint64(len(body)) + 3) / 4
}

// SplitCSV splits a comma separated flag value, dropping empty entries.
func SplitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
