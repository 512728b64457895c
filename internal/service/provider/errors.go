package provider

import (
	"errors"
	"fmt"
)

// Kind classifies a provider failure into the closed set of caller-facing
// categories. Classification is driven by transport status codes, never by
// re-parsing error message text.
type Kind string

const (
	// KindMissingCredential means the session holds no key for the provider.
	KindMissingCredential Kind = "missing_credential"
	// KindInvalidCredential means the provider rejected the supplied key
	// with an authentication-class status.
	KindInvalidCredential Kind = "invalid_credential"
	// KindUnavailable means the provider could not be reached at all
	// (network failure, timeout).
	KindUnavailable Kind = "provider_unavailable"
	// KindRejected covers every other non-success provider response.
	KindRejected Kind = "provider_rejected"
)

// Error is the structured failure surfaced by every outbound provider call.
type Error struct {
	Kind     Kind
	Provider string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Provider, e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
}

// IsKind reports whether err is a provider Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var perr *Error
	if !errors.As(err, &perr) {
		return false
	}
	return perr.Kind == kind
}

// MissingCredential builds the error returned before any network call is
// attempted for a session without a stored key.
func MissingCredential(providerName string) *Error {
	return &Error{
		Kind:     KindMissingCredential,
		Provider: providerName,
		Message:  "no credential stored for this session",
	}
}

// classifyStatus maps a non-success HTTP status to an error kind. Both
// providers signal bad keys with 400 or 401.
func classifyStatus(status int) Kind {
	switch status {
	case 400, 401:
		return KindInvalidCredential
	default:
		return KindRejected
	}
}
