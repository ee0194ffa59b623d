package remote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/journai/journai-core/internal/core/domain"
)

// maxErrorBody caps how much of an error body is kept on a StatusError.
const maxErrorBody = 512

// StatusError is a non-2xx response that is neither 429 nor 503.
type StatusError struct {
	Service string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: API returned status %d", e.Service, e.Code)
	}
	return fmt.Sprintf("%s: API returned status %d: %s", e.Service, e.Code, e.Message)
}

// classifyStatus maps a response status and body to an error.
// It returns nil for 2xx.
func classifyStatus(service string, code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}
	msg := errorMessage(body)
	switch code {
	case http.StatusServiceUnavailable:
		if msg == "" {
			return fmt.Errorf("%s: %w", service, domain.ErrServiceUnavailable)
		}
		return fmt.Errorf("%s: %w: %s", service, domain.ErrServiceUnavailable, msg)
	case http.StatusTooManyRequests:
		if msg == "" {
			return fmt.Errorf("%s: %w", service, domain.ErrRateLimited)
		}
		return fmt.Errorf("%s: %w: %s", service, domain.ErrRateLimited, msg)
	default:
		return &StatusError{Service: service, Code: code, Message: msg}
	}
}

// errorMessage pulls a readable message out of an error body. Vendors use
// {"error":{"message":...}}, {"error":"..."} or plain text.
func errorMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &nested); err == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}

	var flat struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &flat); err == nil {
		if flat.Error != "" {
			return flat.Error
		}
		if flat.Message != "" {
			return flat.Message
		}
	}

	if len(trimmed) > maxErrorBody {
		return trimmed[:maxErrorBody]
	}
	return trimmed
}
