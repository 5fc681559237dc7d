package routing

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/PratikDhanave/backoffice-gateway/internal/config"
)

// fileConfig is the on-disk shape of a route table override.
//
//	routes:
//	  - name: invoices
//	    prefix: /api/invoices
//	    target: invoices        # service name or absolute URL
//	    auth: true
//	    class: crud
//	    fallback: Error al obtener facturas
//	    endpoints:
//	      - {method: GET, pattern: "", fallback: Error al obtener facturas}
type fileConfig struct {
	Routes []fileRoute `yaml:"routes"`
}

type fileRoute struct {
	Name      string         `yaml:"name"`
	Prefix    string         `yaml:"prefix"`
	Target    string         `yaml:"target"`
	Auth      bool           `yaml:"auth"`
	Class     string         `yaml:"class"`
	Fallback  string         `yaml:"fallback"`
	Endpoints []fileEndpoint `yaml:"endpoints"`
}

type fileEndpoint struct {
	Method    string `yaml:"method"`
	Pattern   string `yaml:"pattern"`
	Upstream  string `yaml:"upstream"`
	Fallback  string `yaml:"fallback"`
	Download  string `yaml:"download"`
	EmptyBody bool   `yaml:"empty_body"`
}

// LoadRoutes reads a YAML route table from path. Targets may name a
// configured service (auth, users, invoices, workorders, reports) or be an
// absolute URL.
func LoadRoutes(path string, targets config.Targets) ([]Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes file: %w", err)
	}
	return ParseRoutes(data, targets)
}

// ParseRoutes decodes a YAML route table.
func ParseRoutes(data []byte, targets config.Targets) ([]Route, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse routes file: %w", err)
	}
	if len(fc.Routes) == 0 {
		return nil, fmt.Errorf("routes file defines no routes")
	}

	named := map[string]string{
		"auth":       targets.Auth,
		"users":      targets.Users,
		"invoices":   targets.Invoices,
		"workorders": targets.WorkOrders,
		"reports":    targets.Reports,
	}

	routes := make([]Route, 0, len(fc.Routes))
	for _, fr := range fc.Routes {
		class, err := ParseClass(fr.Class)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", fr.Name, err)
		}
		target := fr.Target
		if base, ok := named[strings.ToLower(target)]; ok {
			target = base
		}
		r := Route{
			Name:         fr.Name,
			Prefix:       fr.Prefix,
			Target:       target,
			AuthRequired: fr.Auth,
			Class:        class,
			Fallback:     fr.Fallback,
		}
		for _, fe := range fr.Endpoints {
			r.Endpoints = append(r.Endpoints, Endpoint{
				Method:    strings.ToUpper(fe.Method),
				Pattern:   fe.Pattern,
				Upstream:  fe.Upstream,
				Fallback:  fe.Fallback,
				Download:  fe.Download,
				EmptyBody: fe.EmptyBody,
			})
		}
		routes = append(routes, r)
	}
	return routes, nil
}
