package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// StatusError is returned by the REST strategies for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Classify maps any error onto a *Failure. A *Failure passes through unchanged.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}
	if f, ok := AsFailure(err); ok {
		return f
	}

	f := &Failure{Kind: KindUnknown, Detail: summarize(err.Error()), Err: err}

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	var statusErr *StatusError
	var netErr net.Error

	switch {
	case errors.Is(err, context.Canceled):
		f.Kind = KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		f.Kind = KindTimeout
	case errors.As(err, &apiErr):
		f.Kind = kindForStatus(apiErr.Code, apiErr.Status+" "+apiErr.Message)
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		f.Kind = kindForStatus(apiErrPtr.Code, apiErrPtr.Status+" "+apiErrPtr.Message)
	case errors.As(err, &statusErr):
		f.Kind = kindForStatus(statusErr.StatusCode, statusErr.Body)
	case errors.As(err, &netErr) && netErr.Timeout():
		f.Kind = KindTimeout
	case errors.As(err, &netErr):
		f.Kind = KindNetwork
	default:
		f.Kind = kindForMessage(strings.ToLower(err.Error()))
	}
	return f
}

func kindForStatus(code int, message string) Kind {
	msg := strings.ToLower(message)
	switch {
	case code == http.StatusNotFound:
		return KindModelUnavailable
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusTooManyRequests:
		return KindQuota
	case code == http.StatusMethodNotAllowed || code == http.StatusNotImplemented:
		return KindUnsupported
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return KindTimeout
	case code >= 500:
		return KindUnavailable
	case code == http.StatusBadRequest:
		// Gemini reports bad keys and unsupported methods as INVALID_ARGUMENT.
		if k := kindForMessage(msg); k == KindAuth || k == KindUnsupported || k == KindModelUnavailable {
			return k
		}
		return KindInvalidRequest
	case code >= 400:
		return KindInvalidRequest
	}
	return kindForMessage(msg)
}

func kindForMessage(msg string) Kind {
	switch {
	case containsAny(msg, "api key", "api_key", "unauthorized", "unauthenticated", "permission_denied", "permission denied"):
		return KindAuth
	case containsAny(msg, "quota", "rate limit", "resource_exhausted", "resource exhausted", "429"):
		return KindQuota
	case containsAny(msg, "is not found for api version", "model not found", "unknown model", "no such model"):
		return KindModelUnavailable
	case containsAny(msg, "not supported", "unsupported", "method not allowed", "unimplemented"):
		return KindUnsupported
	case containsAny(msg, "timeout", "deadline exceeded", "timed out"):
		return KindTimeout
	case containsAny(msg, "connection", "network", "dial", "dns", "no such host", "unreachable", "eof"):
		return KindNetwork
	case containsAny(msg, "unavailable", "overloaded", "internal error"):
		return KindUnavailable
	}
	return KindUnknown
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// summarize keeps failure details short enough for logs.
func summarize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	const limit = 240
	if r := []rune(s); len(r) > limit {
		return string(r[:limit]) + "..."
	}
	return s
}
