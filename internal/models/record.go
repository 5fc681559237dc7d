package models

// Invoice is one invoice document as stored by the billing service.
// Every field is optional in the store, so absent values decode to nil.
type Invoice struct {
	NumeroFactura *string  `bson:"numero_factura" json:"numero_factura,omitempty"`
	ClienteNombre *string  `bson:"cliente_nombre" json:"cliente_nombre,omitempty"`
	Total         *float64 `bson:"total" json:"total,omitempty"`
	Estado        *string  `bson:"estado" json:"estado,omitempty"`
	// FechaCreacion is the ISO-8601 creation timestamp written by the billing service.
	FechaCreacion string `bson:"fecha_creacion" json:"fecha_creacion,omitempty"`
}

// WorkOrder is one work order document as stored by the orders service.
type WorkOrder struct {
	NumeroOrden     *string  `bson:"numero_orden" json:"numero_orden,omitempty"`
	ClienteNombre   *string  `bson:"cliente_nombre" json:"cliente_nombre,omitempty"`
	TecnicoAsignado *string  `bson:"tecnico_asignado" json:"tecnico_asignado,omitempty"`
	Estado          *string  `bson:"estado" json:"estado,omitempty"`
	HorasTrabajadas *float64 `bson:"horas_trabajadas" json:"horas_trabajadas,omitempty"`
	Prioridad       *string  `bson:"prioridad" json:"prioridad,omitempty"`
}

// Work order states understood by the summaries.
const (
	EstadoPendiente  = "pendiente"
	EstadoEnProgreso = "en_progreso"
	EstadoCompletada = "completada"
	EstadoCancelada  = "cancelada"
)

// Str dereferences an optional string, returning def when it is nil or empty.
func Str(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}

// Num dereferences an optional number, returning 0 when it is nil.
func Num(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
