// Package notify entrega la proyección de facturas a consumidores posteriores al commit.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// LogNotifier registra cada evento con un resumen de la proyección. Hace las veces de
// correo/PDF/resumen mientras esos servicios viven fuera de este repositorio.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify nunca falla.
func (n *LogNotifier) Notify(_ context.Context, event string, view *dto.InvoiceView) error {
	n.log.Info().
		Str("event", event).
		Str("tenant_id", view.TenantID).
		Str("invoice_id", view.ID).
		Int64("number", view.Number).
		Str("status", view.Status).
		Str("currency", view.Currency).
		Float64("grand_total", view.GrandTotal).
		Float64("remaining", view.Remaining).
		Bool("is_paid", view.IsPaid).
		Int("items", len(view.Items)).
		Int("payments", len(view.Payments)).
		Msg("invoice notification")
	return nil
}

// Recorder guarda los eventos recibidos; útil en pruebas y para encadenar varios notificadores.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
	Err    error
}

// Event evento recibido por Recorder.
type Event struct {
	Name string
	View *dto.InvoiceView
}

// Notify guarda el evento y devuelve Err.
func (r *Recorder) Notify(_ context.Context, event string, view *dto.InvoiceView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Event{Name: event, View: view})
	return r.Err
}
