package routing

import (
	"net/http"

	"github.com/PratikDhanave/backoffice-gateway/internal/config"
)

// DefaultRoutes is the production route table of the gateway.
func DefaultRoutes(t config.Targets) []Route {
	return []Route{
		{
			Name:     "auth-login",
			Prefix:   "/api/auth/login",
			Target:   t.Auth,
			Class:    ClassCRUD,
			Fallback: "Error en autenticación",
			Endpoints: []Endpoint{
				{Method: http.MethodPost, Fallback: "Error en autenticación"},
			},
		},
		{
			Name:     "auth-register",
			Prefix:   "/api/auth/register",
			Target:   t.Auth,
			Class:    ClassCRUD,
			Fallback: "Error en registro",
			Endpoints: []Endpoint{
				{Method: http.MethodPost, Fallback: "Error en registro"},
			},
		},
		{
			Name:         "auth",
			Prefix:       "/api/auth",
			Target:       t.Auth,
			AuthRequired: true,
			Class:        ClassCRUD,
			Fallback:     "Error en autenticación",
			Endpoints: []Endpoint{
				{Method: http.MethodPost, Pattern: "/logout", Fallback: "Error en logout", EmptyBody: true},
				{Method: http.MethodGet, Pattern: "/me", Fallback: "Error al obtener usuario"},
			},
		},
		{
			Name:         "users",
			Prefix:       "/api/users",
			Target:       t.Users,
			AuthRequired: true,
			Class:        ClassCRUD,
			Fallback:     "Error al obtener usuarios",
			Endpoints: []Endpoint{
				{Method: http.MethodGet, Fallback: "Error al obtener usuarios"},
				{Method: http.MethodPost, Fallback: "Error al crear usuario"},
				{Method: http.MethodGet, Pattern: "/:id", Fallback: "Error al obtener usuario"},
				{Method: http.MethodPut, Pattern: "/:id", Fallback: "Error al actualizar usuario"},
				{Method: http.MethodDelete, Pattern: "/:id", Fallback: "Error al eliminar usuario"},
				{Method: http.MethodPatch, Pattern: "/:id/role", Fallback: "Error al cambiar rol"},
				{Method: http.MethodPatch, Pattern: "/:id/toggle-active", Fallback: "Error al cambiar estado del usuario"},
			},
		},
		{
			Name:         "invoices",
			Prefix:       "/api/invoices",
			Target:       t.Invoices,
			AuthRequired: true,
			Class:        ClassCRUD,
			Fallback:     "Error al obtener facturas",
			Endpoints: []Endpoint{
				{Method: http.MethodGet, Fallback: "Error al obtener facturas"},
				{Method: http.MethodPost, Fallback: "Error al crear factura"},
				{Method: http.MethodGet, Pattern: "/:id", Fallback: "Error al obtener factura"},
				{Method: http.MethodPut, Pattern: "/:id", Fallback: "Error al actualizar factura"},
				{Method: http.MethodPatch, Pattern: "/:id/pay", Fallback: "Error al marcar factura como pagada", EmptyBody: true},
				{Method: http.MethodDelete, Pattern: "/:id", Fallback: "Error al eliminar factura"},
			},
		},
		{
			Name:         "workorders",
			Prefix:       "/api/workorders",
			Target:       t.WorkOrders,
			AuthRequired: true,
			Class:        ClassCRUD,
			Fallback:     "Error al obtener órdenes",
			Endpoints: []Endpoint{
				{Method: http.MethodGet, Fallback: "Error al obtener órdenes"},
				{Method: http.MethodPost, Fallback: "Error al crear orden"},
				{Method: http.MethodGet, Pattern: "/:id", Fallback: "Error al obtener orden"},
				{Method: http.MethodPut, Pattern: "/:id", Fallback: "Error al actualizar orden"},
				{Method: http.MethodPatch, Pattern: "/:id/assign", Fallback: "Error al asignar técnico"},
				{Method: http.MethodPatch, Pattern: "/:id/status", Fallback: "Error al cambiar estado"},
				{Method: http.MethodPost, Pattern: "/:id/tasks", Upstream: "/:id/add-task", Fallback: "Error al agregar tarea"},
				{Method: http.MethodDelete, Pattern: "/:id", Fallback: "Error al eliminar orden"},
			},
		},
		{
			Name:         "reports",
			Prefix:       "/api/reports",
			Target:       t.Reports,
			AuthRequired: true,
			Class:        ClassReport,
			Fallback:     "Error al generar reporte",
			Endpoints: []Endpoint{
				{Method: http.MethodGet, Pattern: "/ventas", Fallback: "Error al generar reporte", Download: "Reporte_Ventas"},
				{Method: http.MethodGet, Pattern: "/ordenes", Fallback: "Error al generar reporte", Download: "Reporte_Ordenes"},
				{Method: http.MethodGet, Pattern: "/dashboard", Fallback: "Error al generar dashboard", Download: "Dashboard"},
			},
		},
	}
}
