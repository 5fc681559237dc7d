package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	maxJSONBody   = 8 << 20
	maxBinaryBody = 64 << 20
)

// ErrBodyTooLarge is returned when a downstream response exceeds the read limit.
var ErrBodyTooLarge = errors.New("downstream response body too large")

// Call is everything needed to forward one inbound request. It is built once
// by the handler and not modified afterwards.
type Call struct {
	Method        string
	URL           string
	RawQuery      string
	Body          []byte
	ContentType   string
	Authorization string
	RequestID     string
	Timeout       time.Duration
	// Binary raises the body read limit for document downloads.
	Binary bool
}

// Result is a downstream response, whatever its status.
type Result struct {
	Status int
	Header http.Header
	Body   []byte
}

// Dispatcher forwards calls to downstream services. Each call is attempted
// exactly once.
type Dispatcher struct {
	client *http.Client
}

// New returns a dispatcher over client. A nil client gets a dedicated
// transport; per-call deadlines come from Call.Timeout.
func New(client *http.Client) *Dispatcher {
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 32,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &Dispatcher{client: client}
}

// Forward sends call downstream and reads the whole response. Transport
// failures, including the call deadline, are returned as errors; any HTTP
// response, including 4xx and 5xx, is returned as a Result.
func (d *Dispatcher) Forward(ctx context.Context, call Call) (*Result, error) {
	if call.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, call.Timeout)
		defer cancel()
	}

	target := call.URL
	if call.RawQuery != "" {
		target += "?" + call.RawQuery
	}

	var body io.Reader
	if call.Body != nil {
		body = bytes.NewReader(call.Body)
	}
	req, err := http.NewRequestWithContext(ctx, call.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build downstream request: %w", err)
	}
	if call.Authorization != "" {
		req.Header.Set("Authorization", call.Authorization)
	}
	if call.Body != nil {
		ct := call.ContentType
		if ct == "" {
			ct = "application/json"
		}
		req.Header.Set("Content-Type", ct)
	}
	if call.RequestID != "" {
		req.Header.Set("X-Request-ID", call.RequestID)
	}
	req.Header.Set("Accept", "application/json, application/pdf, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", call.Method, call.URL, err)
	}
	defer resp.Body.Close()

	limit := int64(maxJSONBody)
	if call.Binary {
		limit = maxBinaryBody
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read downstream body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrBodyTooLarge
	}
	return &Result{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: data}, nil
}
