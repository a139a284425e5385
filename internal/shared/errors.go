package shared

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the CLI before any request is made. The
// text is the full diagnostic a caller prints, so keep it stable.
var (
	ErrMissingToken      = errors.New("missing DITTO_VK_TOKEN")
	ErrMissingAdminToken = errors.New("missing DITTO_ADMIN_TOKEN")
)

// StatusError is returned by the client when the gateway answers with a
// non-2xx status. The body is carried verbatim so callers can surface
// exactly what the gateway said.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// LimitError reports a blown per-key rate limit. Kind is "rpm" or "tpm".
type LimitError struct {
	Kind  string
	Limit uint32
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %s>%d", e.Kind, e.Limit)
}

// GatewayError is the OpenAI-compatible error envelope the gateway
// returns on /v1 routes.
type GatewayError struct {
	Error GatewayErrorDetail `json:"error"`
}

type GatewayErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

func NewAuthError(msg string) GatewayError {
	return GatewayError{Error: GatewayErrorDetail{
		Message: msg,
		Type:    "authentication_error",
		Code:    "invalid_api_key",
	}}
}

func NewInvalidRequestError(msg string) GatewayError {
	return GatewayError{Error: GatewayErrorDetail{
		Message: msg,
		Type:    "invalid_request_error",
	}}
}

func NewRateLimitError(msg string) GatewayError {
	return GatewayError{Error: GatewayErrorDetail{
		Message: msg,
		Type:    "rate_limit_error",
		Code:    "rate_limited",
	}}
}

func NewInternalError(msg string) GatewayError {
	return GatewayError{Error: GatewayErrorDetail{
		Message: msg,
		Type:    "internal_error",
	}}
}

// AdminError is the envelope for /admin routes. Note the field order
// differs from GatewayError; admin tooling matches on the code.
type AdminError struct {
	Error AdminErrorDetail `json:"error"`
}

type AdminErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewAdminError(code, msg string) AdminError {
	return AdminError{Error: AdminErrorDetail{Code: code, Message: msg}}
}

// AnthropicError is the envelope for the anthropic-flavored routes.
type AnthropicError struct {
	Type  string               `json:"type"`
	Error AnthropicErrorDetail `json:"error"`
}

type AnthropicErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewAnthropicError(kind, msg string) AnthropicError {
	return AnthropicError{
		Type:  "error",
		Error: AnthropicErrorDetail{Type: kind, Message: msg},
	}
}
