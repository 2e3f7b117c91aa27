package provider

import (
	"errors"
	"fmt"

	"github.com/stockyhq/stocky/internal/models"
)

// Kind classifies a provider failure. Search-level failures are
// recovered into per-provider status entries; detail-lookup failures
// propagate to the caller.
type Kind string

const (
	KindMissingCredential Kind = "MissingCredential"
	KindHTTPError         Kind = "ProviderHttpError"
	KindTimeout           Kind = "ProviderTimeout"
	KindMalformedResponse Kind = "MalformedResponse"
	KindNotFound          Kind = "NotFound"
	KindInvalidID         Kind = "InvalidId"
	KindInvalidParameter  Kind = "InvalidParameter"
)

// Error is the failure type every adapter returns. Provider is empty
// for request-level failures (InvalidId, InvalidParameter) that happen
// before any adapter is involved.
type Error struct {
	Provider models.Provider
	Kind     Kind
	Message  string
	Status   int // HTTP status, set for KindHTTPError
}

func (e *Error) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
}

// NewError builds a provider-scoped error.
func NewError(p models.Provider, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Provider: p, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsError unwraps err into *Error, or wraps it as an unclassified
// malformed-response failure so callers always see a typed error.
func AsError(p models.Provider, err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{Provider: p, Kind: KindMalformedResponse, Message: err.Error()}
}

// IsKind reports whether err is a provider error of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}
