package routing

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Class groups routes by how long a forwarded call may take.
type Class int

const (
	// ClassCRUD covers plain record operations.
	ClassCRUD Class = iota
	// ClassReport covers calls that wait on cross-store aggregation and document rendering.
	ClassReport
)

// Timeout is the deadline applied to one forwarded call of this class.
func (c Class) Timeout() time.Duration {
	if c == ClassReport {
		return 30 * time.Second
	}
	return 5 * time.Second
}

func (c Class) String() string {
	if c == ClassReport {
		return "report"
	}
	return "crud"
}

// ParseClass accepts "crud" (or empty) and "report".
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "crud":
		return ClassCRUD, nil
	case "report":
		return ClassReport, nil
	default:
		return ClassCRUD, fmt.Errorf("unknown route class %q", s)
	}
}

// Endpoint is one forwarded operation below a route prefix.
//
// Pattern is relative to the route prefix ("" for the prefix itself, "/:id/pay").
// Upstream, when set, is the pattern used to build the downstream path instead of Pattern.
// Download names the file served when the downstream answers with a document.
type Endpoint struct {
	Method    string
	Pattern   string
	Upstream  string
	Fallback  string
	Download  string
	EmptyBody bool
}

// Route maps a path prefix to a downstream service.
type Route struct {
	Name         string
	Prefix       string
	Target       string
	AuthRequired bool
	Class        Class
	Fallback     string
	// Endpoints restricts which operations are forwarded. Empty means any
	// method and any remainder below Prefix.
	Endpoints []Endpoint
}

// Match is the successful result of a table lookup. Remainder keeps the
// escaping of the looked-up path; Params hold decoded segment values.
type Match struct {
	Route     *Route
	Endpoint  *Endpoint
	Remainder string
	Params    map[string]string
}

// Fallback is the generic message reported when the downstream call fails without a usable error.
func (m Match) Fallback() string {
	if m.Endpoint != nil && m.Endpoint.Fallback != "" {
		return m.Endpoint.Fallback
	}
	if m.Route.Fallback != "" {
		return m.Route.Fallback
	}
	return "Error interno del servidor"
}

// Timeout is the per-call deadline for the matched route.
func (m Match) Timeout() time.Duration { return m.Route.Class.Timeout() }

// Binary reports whether the downstream answers with a document rather than JSON.
func (m Match) Binary() bool { return m.Endpoint != nil && m.Endpoint.Download != "" }

// UpstreamPath is the downstream path: the route prefix followed by the
// remainder, rewritten through Endpoint.Upstream when one is configured.
func (m Match) UpstreamPath() string {
	rest := m.Remainder
	if m.Endpoint != nil && m.Endpoint.Upstream != "" {
		rest = expand(m.Endpoint.Upstream, m.Params)
	}
	return m.Route.Prefix + rest
}

// UpstreamURL joins the route target with UpstreamPath.
func (m Match) UpstreamURL() string {
	return strings.TrimRight(m.Route.Target, "/") + m.UpstreamPath()
}

// Table is an immutable, validated set of routes.
type Table struct {
	// routes ordered by descending prefix length, so the first hit is the longest prefix.
	routes []Route
}

// NewTable validates routes and builds a lookup table.
func NewTable(routes []Route) (*Table, error) {
	seen := make(map[string]string, len(routes))
	out := make([]Route, 0, len(routes))
	for i, r := range routes {
		if err := validateRoute(r); err != nil {
			return nil, fmt.Errorf("route %d (%s): %w", i, r.Name, err)
		}
		if other, ok := seen[r.Prefix]; ok {
			return nil, fmt.Errorf("route %s: prefix %s already used by %s", r.Name, r.Prefix, other)
		}
		seen[r.Prefix] = r.Name
		r.Endpoints = append([]Endpoint(nil), r.Endpoints...)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Prefix) > len(out[j].Prefix)
	})
	return &Table{routes: out}, nil
}

// Routes returns a copy of the registered routes, longest prefix first.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Lookup resolves method and an escaped request path (url.URL.EscapedPath).
// The longest prefix that matches on a segment boundary selects the route;
// there is no backtracking to shorter prefixes when none of that route's
// endpoints accept the request.
func (t *Table) Lookup(method, path string) (Match, bool) {
	for i := range t.routes {
		r := &t.routes[i]
		rest, ok := underPrefix(path, r.Prefix)
		if !ok {
			continue
		}
		if len(r.Endpoints) == 0 {
			return Match{Route: r, Remainder: rest, Params: map[string]string{}}, true
		}
		for j := range r.Endpoints {
			ep := &r.Endpoints[j]
			if !strings.EqualFold(ep.Method, method) {
				continue
			}
			if params, ok := matchPattern(ep.Pattern, rest); ok {
				return Match{Route: r, Endpoint: ep, Remainder: rest, Params: params}, true
			}
		}
		return Match{}, false
	}
	return Match{}, false
}

func underPrefix(path, prefix string) (string, bool) {
	if path == prefix {
		return "", true
	}
	if !strings.HasPrefix(path, prefix+"/") {
		return "", false
	}
	rest := path[len(prefix):]
	if rest == "/" {
		return "", true
	}
	return strings.TrimSuffix(rest, "/"), true
}

func splitSegments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchPattern(pattern, rest string) (map[string]string, bool) {
	want := splitSegments(pattern)
	got := splitSegments(rest)
	if len(want) != len(got) {
		return nil, false
	}
	params := make(map[string]string, len(want))
	for i, seg := range want {
		value := unescapeSegment(got[i])
		if strings.HasPrefix(seg, ":") {
			if value == "" {
				return nil, false
			}
			params[seg[1:]] = value
			continue
		}
		if seg != value {
			return nil, false
		}
	}
	return params, true
}

func unescapeSegment(seg string) string {
	if v, err := url.PathUnescape(seg); err == nil {
		return v
	}
	return seg
}

func expand(pattern string, params map[string]string) string {
	segs := splitSegments(pattern)
	if len(segs) == 0 {
		return ""
	}
	for i, seg := range segs {
		if strings.HasPrefix(seg, ":") {
			segs[i] = url.PathEscape(params[seg[1:]])
		}
	}
	return "/" + strings.Join(segs, "/")
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

func validateRoute(r Route) error {
	if !strings.HasPrefix(r.Prefix, "/") || r.Prefix == "/" {
		return fmt.Errorf("prefix %q must be an absolute path below /", r.Prefix)
	}
	if strings.HasSuffix(r.Prefix, "/") {
		return fmt.Errorf("prefix %q must not end with /", r.Prefix)
	}
	u, err := url.Parse(r.Target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("target %q must be an absolute URL", r.Target)
	}
	for _, ep := range r.Endpoints {
		if !allowedMethods[strings.ToUpper(ep.Method)] {
			return fmt.Errorf("endpoint %s %s: unsupported method", ep.Method, ep.Pattern)
		}
		if ep.Pattern != "" && !strings.HasPrefix(ep.Pattern, "/") {
			return fmt.Errorf("endpoint pattern %q must start with /", ep.Pattern)
		}
		if ep.Upstream != "" && !strings.HasPrefix(ep.Upstream, "/") {
			return fmt.Errorf("endpoint upstream %q must start with /", ep.Upstream)
		}
	}
	return nil
}
