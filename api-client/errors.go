package apiclient

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrCredentialMissing is returned at construction when no API key was
	// given and the credential source has none.
	ErrCredentialMissing = errors.New("credential missing")
	// ErrCredentialInvalid is returned when the credential source holds a value
	// that is not usable text.
	ErrCredentialInvalid = errors.New("credential invalid")
	// ErrEmptyParameter is returned before any request is built when a required
	// string parameter is empty.
	ErrEmptyParameter = errors.New("required parameter is empty")
)

// TransportError wraps a failure of the transport primitive: connection,
// timeout, DNS or context cancellation. It is never retried.
type TransportError struct {
	URL string // key redacted
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a body that could not be turned into the requested
// resource variant. Field is empty when the failure is not tied to one field.
type DecodeError struct {
	Variant string
	Field   string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decoding %s: %v", e.Variant, e.Err)
	}
	return fmt.Sprintf("decoding %s: field %s: %v", e.Variant, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// APIError is the logical failure the API reports inside a well-formed body.
// The client never returns it; see ResourceEnvelope.Err.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("covalent api error: %s", e.Message)
	}
	return fmt.Sprintf("covalent api error %d: %s", e.Code, e.Message)
}

func requireParams(params ...string) error {
	for i := 0; i+1 < len(params); i += 2 {
		if params[i+1] == "" {
			return errors.Wrapf(ErrEmptyParameter, "%s", params[i])
		}
	}
	return nil
}
