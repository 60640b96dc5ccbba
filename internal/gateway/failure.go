package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies why a completion failed.
type Kind string

const (
	KindUnconfigured     Kind = "unconfigured"      // no credential or no usable strategy
	KindUnsupported      Kind = "unsupported"       // the strategy cannot serve this call
	KindModelUnavailable Kind = "model_unavailable" // model missing or not enabled for the action
	KindEmptyResponse    Kind = "empty_response"    // call succeeded without usable text
	KindAuth             Kind = "auth"
	KindQuota            Kind = "quota"
	KindNetwork          Kind = "network"
	KindTimeout          Kind = "timeout"
	KindUnavailable      Kind = "unavailable" // provider 5xx
	KindInvalidRequest   Kind = "invalid_request"
	KindCanceled         Kind = "canceled"
	KindUnknown          Kind = "unknown"
)

// probes reports whether the gateway may try another strategy or model after
// a failure of this kind. Everything else ends the call.
func (k Kind) probes() bool {
	switch k {
	case KindUnsupported, KindEmptyResponse, KindModelUnavailable:
		return true
	}
	return false
}

// Failure is the only error type returned by the gateway.
type Failure struct {
	Kind     Kind
	Detail   string
	Strategy string
	Model    string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	msg := fmt.Sprintf("gateway %s", f.Kind)
	if f.Strategy != "" {
		msg += fmt.Sprintf(" (strategy=%s model=%s)", f.Strategy, f.Model)
	}
	if f.Detail != "" {
		msg += ": " + f.Detail
	}
	return msg
}

// Unwrap returns the underlying provider error, if any.
func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func newFailure(kind Kind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
