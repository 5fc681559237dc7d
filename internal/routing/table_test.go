package routing

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/backoffice-gateway/internal/config"
)

var testTargets = config.Targets{
	Auth:       "http://auth:8001",
	Users:      "http://users:8002",
	Invoices:   "http://invoices:5000",
	WorkOrders: "http://workorders:5001",
	Reports:    "http://reports:8004",
}

func defaultTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable(DefaultRoutes(testTargets))
	require.NoError(t, err)
	return tbl
}

func TestLookupLongestPrefix(t *testing.T) {
	tbl := defaultTable(t)

	m, ok := tbl.Lookup(http.MethodPost, "/api/auth/login")
	require.True(t, ok)
	assert.Equal(t, "auth-login", m.Route.Name)
	assert.False(t, m.Route.AuthRequired)
	assert.Equal(t, "http://auth:8001/api/auth/login", m.UpstreamURL())

	m, ok = tbl.Lookup(http.MethodGet, "/api/auth/me")
	require.True(t, ok)
	assert.Equal(t, "auth", m.Route.Name)
	assert.True(t, m.Route.AuthRequired)
	assert.Equal(t, "Error al obtener usuario", m.Fallback())
}

func TestLookupNoBacktracking(t *testing.T) {
	tbl := defaultTable(t)

	// GET is not an operation of the login route; the shorter /api/auth prefix is not consulted.
	_, ok := tbl.Lookup(http.MethodGet, "/api/auth/login")
	assert.False(t, ok)
}

func TestLookupSegmentBoundary(t *testing.T) {
	tbl := defaultTable(t)

	_, ok := tbl.Lookup(http.MethodGet, "/api/usersx")
	assert.False(t, ok)

	_, ok = tbl.Lookup(http.MethodGet, "/api/unknown")
	assert.False(t, ok)
}

func TestLookupParamsAndRewrite(t *testing.T) {
	tbl := defaultTable(t)

	m, ok := tbl.Lookup(http.MethodPost, "/api/workorders/abc123/tasks")
	require.True(t, ok)
	assert.Equal(t, "abc123", m.Params["id"])
	assert.Equal(t, "/api/workorders/abc123/add-task", m.UpstreamPath())
	assert.Equal(t, "Error al agregar tarea", m.Fallback())

	m, ok = tbl.Lookup(http.MethodPatch, "/api/invoices/42/pay")
	require.True(t, ok)
	assert.True(t, m.Endpoint.EmptyBody)
	assert.Equal(t, "http://invoices:5000/api/invoices/42/pay", m.UpstreamURL())
}

func TestLookupKeepsEscapedSegments(t *testing.T) {
	tbl := defaultTable(t)

	m, ok := tbl.Lookup(http.MethodGet, "/api/invoices/1%3Fadmin=true")
	require.True(t, ok)
	assert.Equal(t, "/api/invoices/1%3Fadmin=true", m.UpstreamPath())

	m, ok = tbl.Lookup(http.MethodGet, "/api/invoices/1%23frag")
	require.True(t, ok)
	assert.Equal(t, "http://invoices:5000/api/invoices/1%23frag", m.UpstreamURL())

	m, ok = tbl.Lookup(http.MethodPost, "/api/workorders/a%2Fb%3F/tasks")
	require.True(t, ok)
	assert.Equal(t, "a/b?", m.Params["id"])
	assert.Equal(t, "/api/workorders/a%2Fb%3F/add-task", m.UpstreamPath())
}

func TestLookupCollectionRootAndTrailingSlash(t *testing.T) {
	tbl := defaultTable(t)

	for _, p := range []string{"/api/users", "/api/users/"} {
		m, ok := tbl.Lookup(http.MethodGet, p)
		require.True(t, ok, p)
		assert.Equal(t, "Error al obtener usuarios", m.Fallback())
		assert.Equal(t, "/api/users", m.UpstreamPath())
	}
}

func TestReportRoutesUseReportClass(t *testing.T) {
	tbl := defaultTable(t)

	m, ok := tbl.Lookup(http.MethodGet, "/api/reports/dashboard")
	require.True(t, ok)
	assert.True(t, m.Binary())
	assert.Equal(t, 30*time.Second, m.Timeout())
	assert.Equal(t, "Error al generar dashboard", m.Fallback())

	m, ok = tbl.Lookup(http.MethodGet, "/api/invoices/1")
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, m.Timeout())
}

func TestRouteWithoutEndpointsForwardsAnything(t *testing.T) {
	tbl, err := NewTable([]Route{{Name: "misc", Prefix: "/api/misc", Target: "http://misc:1", Fallback: "misc failed"}})
	require.NoError(t, err)

	m, ok := tbl.Lookup(http.MethodDelete, "/api/misc/a/b")
	require.True(t, ok)
	assert.Nil(t, m.Endpoint)
	assert.Equal(t, "/api/misc/a/b", m.UpstreamPath())
	assert.Equal(t, "misc failed", m.Fallback())
}

func TestNewTableValidation(t *testing.T) {
	cases := map[string][]Route{
		"duplicate prefix": {
			{Name: "a", Prefix: "/api/a", Target: "http://a:1"},
			{Name: "b", Prefix: "/api/a", Target: "http://b:1"},
		},
		"relative prefix": {{Name: "a", Prefix: "api/a", Target: "http://a:1"}},
		"trailing slash":  {{Name: "a", Prefix: "/api/a/", Target: "http://a:1"}},
		"relative target": {{Name: "a", Prefix: "/api/a", Target: "a:1"}},
		"bad method":      {{Name: "a", Prefix: "/api/a", Target: "http://a:1", Endpoints: []Endpoint{{Method: "TRACE"}}}},
		"bad pattern":     {{Name: "a", Prefix: "/api/a", Target: "http://a:1", Endpoints: []Endpoint{{Method: "GET", Pattern: ":id"}}}},
		"root prefix":     {{Name: "a", Prefix: "/", Target: "http://a:1"}},
	}
	for name, routes := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewTable(routes)
			assert.Error(t, err)
		})
	}
}

func TestParseRoutesYAML(t *testing.T) {
	data := []byte(`
routes:
  - name: invoices
    prefix: /api/invoices
    target: invoices
    auth: true
    fallback: Error al obtener facturas
    endpoints:
      - {method: get, pattern: "", fallback: Error al obtener facturas}
  - name: reports
    prefix: /api/reports
    target: http://other-reports:9000
    auth: true
    class: report
`)
	routes, err := ParseRoutes(data, testTargets)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	assert.Equal(t, "http://invoices:5000", routes[0].Target)
	assert.Equal(t, http.MethodGet, routes[0].Endpoints[0].Method)
	assert.Equal(t, ClassReport, routes[1].Class)
	assert.Equal(t, "http://other-reports:9000", routes[1].Target)

	tbl, err := NewTable(routes)
	require.NoError(t, err)
	m, ok := tbl.Lookup(http.MethodGet, "/api/reports/anything")
	require.True(t, ok)
	assert.Equal(t, "http://other-reports:9000/api/reports/anything", m.UpstreamURL())
}

func TestParseRoutesRejectsUnknownClass(t *testing.T) {
	_, err := ParseRoutes([]byte("routes:\n  - {name: a, prefix: /api/a, target: auth, class: batch}\n"), testTargets)
	assert.Error(t, err)

	_, err = ParseRoutes([]byte("routes: []\n"), testTargets)
	assert.Error(t, err)
}
