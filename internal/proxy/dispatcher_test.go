package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/backoffice-gateway/internal/apierr"
)

func TestForwardPassesRequestThrough(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"9"}}`))
	}))
	defer srv.Close()

	res, err := New(srv.Client()).Forward(context.Background(), Call{
		Method:        http.MethodPost,
		URL:           srv.URL + "/api/invoices",
		RawQuery:      "estado=pagada&page=2",
		Body:          []byte(`{"total":10}`),
		Authorization: "Bearer abc",
		RequestID:     "req-1",
		Timeout:       time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.Status)
	assert.JSONEq(t, `{"success":true,"data":{"id":"9"}}`, string(res.Body))

	assert.Equal(t, "/api/invoices", got.URL.Path)
	assert.Equal(t, "estado=pagada&page=2", got.URL.RawQuery)
	assert.Equal(t, "Bearer abc", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "req-1", got.Header.Get("X-Request-ID"))
	assert.Equal(t, `{"total":10}`, string(gotBody))

	assert.Nil(t, Translate(res, nil, "Error al crear factura"))
}

func TestForwardTimeoutTranslatesToFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	start := time.Now()
	res, err := New(srv.Client()).Forward(context.Background(), Call{
		Method:  http.MethodGet,
		URL:     srv.URL + "/api/users",
		Timeout: 50 * time.Millisecond,
	})
	assert.Less(t, time.Since(start), time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	f := Translate(res, err, "Error al obtener usuarios")
	require.NotNil(t, f)
	assert.Equal(t, http.StatusInternalServerError, f.Status)
	assert.Equal(t, "Error al obtener usuarios", f.Message)
	assert.True(t, f.Timeout())
}

func TestForwardNeverRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	res, err := New(srv.Client()).Forward(context.Background(), Call{Method: http.MethodGet, URL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	f := Translate(res, nil, "Error al obtener facturas")
	require.NotNil(t, f)
	assert.Equal(t, http.StatusInternalServerError, f.Status)
	assert.Equal(t, "Error al obtener facturas", f.Message)
	var se *StatusError
	assert.ErrorAs(t, f.Cause, &se)
}

func TestForwardConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res, err := New(nil).Forward(context.Background(), Call{Method: http.MethodGet, URL: url, Timeout: time.Second})
	f := Translate(res, err, "Error al obtener órdenes")
	require.NotNil(t, f)
	assert.Equal(t, http.StatusInternalServerError, f.Status)
	assert.Equal(t, "Error al obtener órdenes", f.Message)
	assert.Error(t, f.Cause)
	assert.False(t, f.Timeout())
}

func TestForwardBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxJSONBody+1)))
	}))
	defer srv.Close()

	_, err := New(srv.Client()).Forward(context.Background(), Call{Method: http.MethodGet, URL: srv.URL, Timeout: 5 * time.Second})
	assert.ErrorIs(t, err, ErrBodyTooLarge)

	res, err := New(srv.Client()).Forward(context.Background(), Call{Method: http.MethodGet, URL: srv.URL, Timeout: 5 * time.Second, Binary: true})
	require.NoError(t, err)
	assert.Len(t, res.Body, maxJSONBody+1)
}

func TestTranslateDownstreamErrors(t *testing.T) {
	jsonHeader := http.Header{"Content-Type": []string{"application/json"}}

	f := Translate(&Result{Status: http.StatusNotFound, Header: jsonHeader, Body: []byte(`{"success":false,"message":"Factura no encontrada"}`)}, nil, "Error al obtener factura")
	require.NotNil(t, f)
	assert.Equal(t, http.StatusNotFound, f.Status)
	assert.Equal(t, "Factura no encontrada", f.Message)

	f = Translate(&Result{Status: http.StatusUnprocessableEntity, Header: jsonHeader, Body: []byte(`{"message":"Datos inválidos","errors":{"email":["requerido"]}}`)}, nil, "Error al crear usuario")
	require.NotNil(t, f)
	assert.Equal(t, http.StatusUnprocessableEntity, f.Status)
	assert.Equal(t, "Datos inválidos", f.Message)
	var details map[string][]string
	require.NoError(t, json.Unmarshal(f.Details, &details))
	assert.Equal(t, []string{"requerido"}, details["email"])

	f = Translate(&Result{Status: http.StatusUnauthorized, Header: jsonHeader, Body: []byte(`{"error":"Unauthenticated"}`)}, nil, "Error al obtener usuario")
	assert.Equal(t, http.StatusUnauthorized, f.Status)
	assert.Equal(t, "Unauthenticated", f.Message)

	f = Translate(&Result{Status: http.StatusBadRequest, Header: jsonHeader, Body: []byte(`{}`)}, nil, "Error en registro")
	assert.Equal(t, http.StatusBadRequest, f.Status)
	assert.Equal(t, "Error en registro", f.Message)

	f = Translate(&Result{Status: http.StatusInternalServerError, Header: http.Header{"Content-Type": []string{"text/html"}}, Body: []byte("<h1>oops</h1>")}, nil, "Error al generar reporte")
	assert.Equal(t, http.StatusInternalServerError, f.Status)
	assert.Equal(t, "Error al generar reporte", f.Message)
}

func TestFailureErrCarriesStatusAndDetails(t *testing.T) {
	jsonHeader := http.Header{"Content-Type": []string{"application/json"}}

	f := Translate(&Result{Status: http.StatusUnprocessableEntity, Header: jsonHeader, Body: []byte(`{"message":"Datos inválidos","errors":{"email":["requerido"]}}`)}, nil, "Error al crear usuario")
	e := f.Err()
	assert.Equal(t, apierr.KindValidation, e.Kind)
	assert.Equal(t, http.StatusUnprocessableEntity, e.Status())
	assert.JSONEq(t, `{"email":["requerido"]}`, string(e.Details.(json.RawMessage)))

	f = Translate(&Result{Status: http.StatusConflict, Header: jsonHeader, Body: []byte(`{"message":"Email ya registrado"}`)}, nil, "Error al crear usuario")
	e = f.Err()
	assert.Equal(t, http.StatusConflict, e.Status())
	assert.Nil(t, e.Details)

	cause := errors.New("connection refused")
	e = Translate(nil, cause, "Error al obtener facturas").Err()
	assert.Equal(t, apierr.KindUpstream, e.Kind)
	assert.Equal(t, http.StatusInternalServerError, e.Status())
	assert.ErrorIs(t, e, cause)
}
