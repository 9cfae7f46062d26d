package worker

// email_worker.go
// Processes email jobs from QueueEmail: delivers generated production
// reports via SMTP. Sends go through the circuit breaker so a downed
// SMTP server fails fast instead of blocking the pool.

import (
	"context"
	"encoding/json"
	"errors"

	"panifpro/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail     string `json:"to_email"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	ArquivoPath string `json:"arquivo_path"`
}

// EmailWorker delivers report files to the requested address.
type EmailWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

// Process sends an email with the generated report as attachment.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return
	}

	sendErr := withRetry(ctx, 3, func(attempt int) error {
		err := w.cb.Execute(func() error {
			return w.mailer.SendRelatorio(payload.ToEmail, payload.Subject, payload.Body, payload.ArquivoPath)
		})
		if errors.Is(err, infra.ErrCircuitOpen) {
			// No point retrying while the breaker is open
			return err
		}
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("to", payload.ToEmail).
				Msg("email_worker: send attempt failed, retrying")
		}
		return err
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Str("to", payload.ToEmail).Msg("email_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: relatório enviado")
}
