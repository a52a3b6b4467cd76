package worker

// pdf_worker.go
// Renders the receipt of a confirmed sale from its frozen snapshot, stores
// it and, when the customer left an address, enqueues the email.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PDFVentaPayload is the job envelope sent to QueueDocumentos.
type PDFVentaPayload struct {
	VentaID string  `json:"venta_id"`
	Email   *string `json:"email,omitempty"`
}

// DocumentoVenta describes a stored receipt.
type DocumentoVenta struct {
	Path    string
	Numero  int
	Cliente string
}

// ReciboRenderer renders and stores the receipt of a sale, recording the
// path on the sale. Implemented by the sales service.
type ReciboRenderer interface {
	GenerarPDF(ctx context.Context, ventaID uuid.UUID) (*DocumentoVenta, error)
}

type PDFWorker struct {
	renderer   ReciboRenderer
	dispatcher *Dispatcher
	empresa    string
}

func NewPDFWorker(renderer ReciboRenderer, dispatcher *Dispatcher, empresa string) *PDFWorker {
	return &PDFWorker{renderer: renderer, dispatcher: dispatcher, empresa: empresa}
}

func (w *PDFWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload PDFVentaPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Permanente(fmt.Errorf("pdf_worker: invalid payload: %w", err))
	}
	id, err := uuid.Parse(payload.VentaID)
	if err != nil {
		return Permanente(fmt.Errorf("pdf_worker: venta_id: %w", err))
	}

	doc, err := w.renderer.GenerarPDF(ctx, id)
	if err != nil {
		return fmt.Errorf("pdf_worker: venta %s: %w", payload.VentaID, err)
	}
	log.Info().Int("numero", doc.Numero).Str("path", doc.Path).Msg("pdf_worker: recibo stored")

	if payload.Email == nil || *payload.Email == "" {
		return nil
	}
	return w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: *payload.Email,
		Subject: fmt.Sprintf("%s - Comprobante de venta #%06d", w.empresa, doc.Numero),
		Body:    fmt.Sprintf("Hola %s,\n\nAdjuntamos el comprobante de su compra.\n\nGracias,\n%s", clienteOConsumidor(doc.Cliente), w.empresa),
		DocPath: doc.Path,
		Nombre:  fmt.Sprintf("venta-%06d.pdf", doc.Numero),
	})
}

func clienteOConsumidor(c string) string {
	if c == "" {
		return "cliente"
	}
	return c
}
