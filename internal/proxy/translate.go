package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/PratikDhanave/backoffice-gateway/internal/apierr"
)

// Failure is the caller-facing form of an unsuccessful forward. Cause is
// the underlying error, if any, and is only logged.
type Failure struct {
	Status  int
	Message string
	Details json.RawMessage
	Cause   error
}

// Timeout reports whether the failure came from the call deadline.
func (f *Failure) Timeout() bool {
	return f != nil && errors.Is(f.Cause, context.DeadlineExceeded)
}

// Err converts the failure into the API error reported to the caller.
func (f *Failure) Err() *apierr.Error {
	e := apierr.FromStatus(f.Status, f.Message, f.Cause)
	if len(f.Details) > 0 {
		e.Details = f.Details
	}
	return e
}

type downstreamError struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

// Translate classifies a forward outcome. It returns nil when res is a
// 2xx response that should be relayed as is.
//
// A non-2xx JSON response keeps its status and message. Everything else,
// transport errors and deadlines included, becomes a 500 with fallback.
func Translate(res *Result, err error, fallback string) *Failure {
	if err != nil {
		return &Failure{Status: http.StatusInternalServerError, Message: fallback, Cause: err}
	}
	if res == nil {
		return &Failure{Status: http.StatusInternalServerError, Message: fallback}
	}
	if res.Status >= 200 && res.Status < 300 {
		return nil
	}

	var body downstreamError
	if !isJSON(res.Header.Get("Content-Type"), res.Body) || json.Unmarshal(res.Body, &body) != nil {
		return &Failure{
			Status:  http.StatusInternalServerError,
			Message: fallback,
			Cause:   &StatusError{Status: res.Status},
		}
	}

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = fallback
	}
	f := &Failure{Status: res.Status, Message: msg}
	if len(body.Errors) > 0 && string(body.Errors) != "null" {
		f.Details = body.Errors
	}
	return f
}

// StatusError records a downstream error response that carried no usable body.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return "downstream answered " + http.StatusText(e.Status) + " without a JSON body"
}

func isJSON(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "json") {
		return true
	}
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "{")
}
