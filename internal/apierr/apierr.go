package apierr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure and decides the HTTP status it is reported with.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindPayloadTooLarge
	KindRateLimited
	KindUpstream
	KindAggregation
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindPayloadTooLarge:
		return "payload_too_large"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstream:
		return "upstream"
	case KindAggregation:
		return "aggregation"
	default:
		return "internal"
	}
}

// Status maps the kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is an API-facing failure. Message is safe to show to callers;
// Err carries the real cause and is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
	// Code, when non-zero, replaces the kind's status. Relayed downstream
	// statuses with no kind of their own use it.
	Code int
	// Details is reported to callers under "errors" when set.
	Details any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns Code when set, otherwise the status of the error kind.
func (e *Error) Status() int {
	if e.Code != 0 {
		return e.Code
	}
	return e.Kind.Status()
}

// WithDetails attaches caller-visible detail, usually field errors.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func BadRequest(message string, cause error) *Error { return New(KindBadRequest, message, cause) }

func Validation(message string) *Error { return New(KindValidation, message, nil) }

func Unauthorized(message string) *Error { return New(KindUnauthorized, message, nil) }

func Forbidden(message string) *Error { return New(KindForbidden, message, nil) }

func NotFound(message string) *Error { return New(KindNotFound, message, nil) }

func PayloadTooLarge(message string) *Error { return New(KindPayloadTooLarge, message, nil) }

func RateLimited(message string) *Error { return New(KindRateLimited, message, nil) }

// Upstream wraps a downstream transport failure behind a generic message.
func Upstream(message string, cause error) *Error { return New(KindUpstream, message, cause) }

// Aggregation wraps a failed report sub-query behind a generic message.
func Aggregation(message string, cause error) *Error { return New(KindAggregation, message, cause) }

// FromStatus classifies a status answered by a downstream service. Statuses
// without a kind of their own are kept as Code on an upstream error.
func FromStatus(status int, message string, cause error) *Error {
	for _, k := range []Kind{KindBadRequest, KindValidation, KindUnauthorized, KindForbidden, KindNotFound, KindPayloadTooLarge, KindRateLimited} {
		if k.Status() == status {
			return New(k, message, cause)
		}
	}
	e := Upstream(message, cause)
	if status != http.StatusInternalServerError {
		e.Code = status
	}
	return e
}

// StatusOf returns the HTTP status for any error; non-API errors are 500.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status()
	}
	return http.StatusInternalServerError
}

// MessageOf returns the caller-safe message for err, falling back to def.
func MessageOf(err error, def string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return def
}

// Envelope builds the uniform error body for err and the status to send it
// with. Non-API errors get def as their message.
func Envelope(err error, def string) (int, map[string]any) {
	body := map[string]any{"success": false, "message": MessageOf(err, def)}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Details != nil {
		body["errors"] = apiErr.Details
	}
	return StatusOf(err), body
}
