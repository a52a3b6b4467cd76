package worker

// email_worker.go
// Processes email jobs from QueueEmail.
// Sends stored PDF documents to customers via SMTP.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Martin-Comito/alambrados/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	// DocPath is a DocumentStore path; empty sends no attachment.
	DocPath string `json:"doc_path,omitempty"`
	Nombre  string `json:"nombre,omitempty"`
}

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	mailer *infra.Mailer
	store  infra.DocumentStore
}

func NewEmailWorker(mailer *infra.Mailer, store infra.DocumentStore) *EmailWorker {
	return &EmailWorker{mailer: mailer, store: store}
}

// Process sends the email with the stored document attached. SMTP failures
// are returned for retry; a missing document or bad payload is permanent.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Permanente(fmt.Errorf("email_worker: invalid payload: %w", err))
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}
	if !w.mailer.Habilitado() {
		log.Warn().Str("to", payload.ToEmail).Msg("email_worker: SMTP not configured, skipping")
		return nil
	}

	var adjuntos []infra.Adjunto
	if payload.DocPath != "" {
		data, err := w.store.Abrir(ctx, payload.DocPath)
		if errors.Is(err, infra.ErrDocumentoNoEncontrado) {
			return Permanente(fmt.Errorf("email_worker: %s: %w", payload.DocPath, err))
		}
		if err != nil {
			return fmt.Errorf("email_worker: abrir %s: %w", payload.DocPath, err)
		}
		nombre := payload.Nombre
		if nombre == "" {
			nombre = "comprobante.pdf"
		}
		adjuntos = append(adjuntos, infra.Adjunto{Nombre: nombre, Datos: data})
	}

	if err := w.mailer.Enviar(payload.ToEmail, payload.Subject, payload.Body, adjuntos...); err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: comprobante sent successfully")
	return nil
}
