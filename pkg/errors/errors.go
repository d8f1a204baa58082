package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/domain"
)

// Sentinels for errors.Is checks across packages
var (
	ErrNotFound        = errors.New("not found")
	ErrTransport       = errors.New("transport error")
	ErrRejectedPayload = errors.New("payload rejected")
	ErrMalformedInput  = errors.New("malformed input")
	ErrRunInProgress   = errors.New("a sync run is already in progress")
)

// NotFoundError is returned when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TransportError wraps a failed or non-2xx call to an external system.
type TransportError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned status %d: %v", e.Service, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// UserError is one entry of a Shopify userErrors array
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// RejectedPayloadError is returned when the storefront accepted the request
// but refused the listing payload.
type RejectedPayloadError struct {
	UserErrors []UserError
}

func (e *RejectedPayloadError) Error() string {
	msgs := make([]string, 0, len(e.UserErrors))
	for _, ue := range e.UserErrors {
		if len(ue.Field) > 0 {
			msgs = append(msgs, strings.Join(ue.Field, ".")+": "+ue.Message)
		} else {
			msgs = append(msgs, ue.Message)
		}
	}
	return "payload rejected: " + strings.Join(msgs, "; ")
}

func (e *RejectedPayloadError) Is(target error) bool {
	return target == ErrRejectedPayload
}

// SnapshotFetchError is run-fatal: the storefront catalog could not be read.
type SnapshotFetchError struct {
	Err error
}

func (e *SnapshotFetchError) Error() string {
	return fmt.Sprintf("storefront snapshot fetch failed: %v", e.Err)
}

func (e *SnapshotFetchError) Unwrap() error { return e.Err }

// SupplierLookupError is item-local; the item is counted as unmatched.
type SupplierLookupError struct {
	EAN string
	Err error
}

func (e *SupplierLookupError) Error() string {
	if errors.Is(e.Err, ErrNotFound) {
		return fmt.Sprintf("no supplier record for EAN %s", e.EAN)
	}
	return fmt.Sprintf("supplier lookup for EAN %s failed: %v", e.EAN, e.Err)
}

func (e *SupplierLookupError) Unwrap() error { return e.Err }

// ApplyError is item-local; the item is counted as failed.
type ApplyError struct {
	EAN    string
	Action domain.Action
	Err    error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s of EAN %s failed: %v", e.Action, e.EAN, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// MalformedInputError is returned for an input line that cannot be parsed
type MalformedInputError struct {
	Line    int
	Raw     string
	Message string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("line %d %q: %s", e.Line, e.Raw, e.Message)
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// ErrValidation is returned when validation fails
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}
