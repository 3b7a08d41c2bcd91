package worker

// recibo_worker.go
// Processes receipt-emission jobs from QueueRecibo.
// Creates the Recibo record, notifies the customer through the Notificador
// sidecar with exponential backoff, renders the PDF and enqueues the email.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loteparatodos/internal/infra"
	"loteparatodos/internal/model"
	"loteparatodos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxReciboRetries caps the cron re-attempts before a recibo goes to the DLQ.
const MaxReciboRetries = 5

// ReciboJobPayload is the job envelope sent to QueueRecibo.
type ReciboJobPayload struct {
	PagoID       string  `json:"pago_id"`
	ClienteEmail *string `json:"cliente_email,omitempty"`
}

// ReciboWorker emits receipts for registered payments.
type ReciboWorker struct {
	notificador    *infra.NotificadorClient
	reciboRepo     repository.ReciboRepository
	pagoRepo       repository.PagoRepository
	contratoRepo   repository.ContratoRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewReciboWorker(
	notificador *infra.NotificadorClient,
	reciboRepo repository.ReciboRepository,
	pagoRepo repository.PagoRepository,
	contratoRepo repository.ContratoRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *ReciboWorker {
	return &ReciboWorker{
		notificador:    notificador,
		reciboRepo:     reciboRepo,
		pagoRepo:       pagoRepo,
		contratoRepo:   contratoRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single recibo job:
//  1. Parse ReciboJobPayload from the job envelope
//  2. Fetch the Pago and its Contrato
//  3. Create the Recibo record with estado="pendiente" (idempotent per pago)
//  4. Call the Notificador sidecar with exponential backoff (max 3 attempts)
//  5. Update the Recibo (estado / next_retry_at on failure)
//  6. Render the PDF receipt
//  7. Enqueue the email job when a customer address is known
func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return
	}

	pagoID, err := uuid.Parse(payload.PagoID)
	if err != nil {
		log.Error().Str("pago_id", payload.PagoID).Msg("recibo_worker: invalid pago_id")
		return
	}

	pago, err := w.pagoRepo.FindByID(ctx, pagoID)
	if err != nil {
		log.Error().Err(err).Str("pago_id", payload.PagoID).Msg("recibo_worker: pago not found")
		return
	}
	contrato, err := w.contratoRepo.FindByID(ctx, pago.ContratoID)
	if err != nil {
		log.Error().Err(err).Str("contrato_id", pago.ContratoID.String()).Msg("recibo_worker: contrato not found")
		return
	}

	// A requeued job must not duplicate the recibo row.
	recibo, err := w.reciboRepo.FindByPagoID(ctx, pagoID)
	if err != nil {
		recibo = &model.Recibo{
			PagoID:     pagoID,
			ContratoID: pago.ContratoID,
			Monto:      pago.Monto,
			Estado:     "pendiente",
		}
		if err := w.reciboRepo.Create(ctx, recibo); err != nil {
			log.Error().Err(err).Str("pago_id", payload.PagoID).Msg("recibo_worker: failed to create recibo")
			return
		}
	}

	notifPayload := buildNotificacion(recibo, pago, contrato)
	notifErr := withRetry(ctx, 3, func(attempt int) error {
		_, err := w.notificador.Notificar(ctx, notifPayload)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("recibo_id", recibo.ID.String()).
				Msg("recibo_worker: notificador attempt failed, retrying")
		}
		return err
	})

	if notifErr != nil {
		// Stays pendiente; the cron picks it up via next_retry_at.
		recibo.RetryCount = 0
		errMsg := notifErr.Error()
		recibo.LastError = &errMsg
		next := time.Now().Add(computeRetryBackoff(1))
		recibo.NextRetryAt = &next
		_ = w.reciboRepo.Update(ctx, recibo)
		log.Error().Err(notifErr).Str("recibo_id", recibo.ID.String()).Msg("recibo_worker: notificador failed after all retries")
	} else {
		recibo.Estado = "emitido"
		recibo.NextRetryAt = nil
		recibo.LastError = nil
		_ = w.reciboRepo.Update(ctx, recibo)
		log.Info().Str("recibo_id", recibo.ID.String()).Msg("recibo_worker: recibo emitido")
	}

	pdfPath, pdfErr := infra.GenerateReciboPDF(recibo, pago, contrato, w.pdfStoragePath)
	if pdfErr != nil {
		log.Warn().Err(pdfErr).Str("recibo_id", recibo.ID.String()).Msg("recibo_worker: PDF generation failed")
	} else {
		recibo.PDFPath = &pdfPath
		_ = w.reciboRepo.Update(ctx, recibo)
		log.Info().Str("pdf", pdfPath).Str("recibo_id", recibo.ID.String()).Msg("recibo_worker: PDF generated")
	}

	email := payload.ClienteEmail
	if email == nil && contrato.Cliente != nil {
		email = contrato.Cliente.Email
	}
	if email != nil && *email != "" && pdfPath != "" {
		emailJob := EmailJobPayload{
			ToEmail: *email,
			Subject: "Recibo de pago — Lote Para Todos",
			Body:    fmt.Sprintf("Adjunto encontrarás tu recibo de pago.\nMonto: $%s", pago.Monto.StringFixed(2)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *email).Msg("recibo_worker: failed to enqueue email")
		} else {
			log.Info().Str("email", *email).Msg("recibo_worker: email job enqueued")
		}
	}
}

func buildNotificacion(recibo *model.Recibo, pago *model.Pago, contrato *model.Contrato) infra.NotificacionPayload {
	p := infra.NotificacionPayload{
		ReciboID:   recibo.ID.String(),
		ContratoID: contrato.ID.String(),
		Concepto:   pago.Descripcion,
		Monto:      pago.Monto.InexactFloat64(),
	}
	if p.Concepto == "" {
		p.Concepto = "Pago " + pago.Tipo
	}
	if contrato.Cliente != nil {
		p.Cliente = contrato.Cliente.Nombre
		p.Telefono = contrato.Cliente.Telefono
	}
	return p
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// computeRetryBackoff returns the cron wait before re-attempt n (1-based).
// Schedule: 1m, 2m, 4m, 8m … capped at 30m.
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	backoff := time.Duration(1<<uint(retryCount-1)) * time.Minute
	if backoff > 30*time.Minute {
		backoff = 30 * time.Minute
	}
	return backoff
}
