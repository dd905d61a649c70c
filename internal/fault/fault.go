// Package fault defines the classified errors the bridge can return to a
// caller. Every fallible step produces one of these kinds so the HTTP layer
// can map failures to responses without inspecting error strings.
package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies the failure classification.
type Kind int

const (
	// KindDecode signals a request or payload that does not match the
	// expected shape.
	KindDecode Kind = iota
	// KindMethod signals an HTTP method outside the supported set.
	KindMethod
	// KindEvent signals a POST that is not a pull_request event.
	KindEvent
	// KindSignature signals a missing or invalid webhook signature.
	KindSignature
	// KindConfig signals a required setting that is absent or malformed.
	KindConfig
	// KindRemote signals a failed call to the remote task store.
	KindRemote
	// KindInternal signals a defect; its detail never reaches the client.
	KindInternal
)

// Kinds lists every classification, in declaration order.
var Kinds = []Kind{
	KindDecode,
	KindMethod,
	KindEvent,
	KindSignature,
	KindConfig,
	KindRemote,
	KindInternal,
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode_failure"
	case KindMethod:
		return "unsupported_method"
	case KindEvent:
		return "invalid_event"
	case KindSignature:
		return "signature_failure"
	case KindConfig:
		return "configuration_failure"
	case KindRemote:
		return "remote_store_failure"
	case KindInternal:
		return "internal_error"
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

// Fault is a classified error value.
type Fault struct {
	Kind    Kind
	Reason  string
	Details map[string]any
	cause   error
}

// New creates a fault of the given kind.
func New(kind Kind, reason string) *Fault {
	return &Fault{Kind: kind, Reason: reason}
}

// Newf creates a fault with a formatted reason.
func Newf(kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Wrap creates a fault that records err as its cause.
func Wrap(kind Kind, reason string, err error) *Fault {
	return &Fault{Kind: kind, Reason: reason, cause: err}
}

// With attaches a detail entry and returns the fault for chaining.
func (f *Fault) With(key string, value any) *Fault {
	if f.Details == nil {
		f.Details = make(map[string]any)
	}
	f.Details[key] = value
	return f
}

// Error implements error.
func (f *Fault) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Reason, f.cause)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Reason)
}

// Unwrap exposes the cause for errors.Is/As chains.
func (f *Fault) Unwrap() error { return f.cause }

// HTTPStatus maps the kind to a response status code.
func (f *Fault) HTTPStatus() int {
	switch f.Kind {
	case KindMethod:
		return http.StatusMethodNotAllowed
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Public returns the client-facing response body. Internal faults render an
// opaque marker; their reason and cause are for server-side logs only.
func (f *Fault) Public() map[string]any {
	if f.Kind == KindInternal {
		return map[string]any{"error": "internal server error"}
	}
	body := map[string]any{"error": f.Reason}
	if len(f.Details) > 0 {
		body["details"] = f.Details
	}
	return body
}

// From classifies err as a fault. A *Fault anywhere in the chain is returned
// as-is; anything else is a defect and becomes a KindInternal fault.
func From(err error) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return Wrap(KindInternal, "unexpected error", err)
}
