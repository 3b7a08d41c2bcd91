package worker

// retry_cron.go
// Background goroutine that periodically re-attempts Notificador calls for
// recibos stuck in estado='pendiente' with a next_retry_at in the past.
// Uses the Circuit Breaker to avoid hammering a downed sidecar.

import (
	"context"
	"fmt"
	"time"

	"loteparatodos/internal/infra"
	"loteparatodos/internal/model"
	"loteparatodos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	ReciboRepo   repository.ReciboRepository
	PagoRepo     repository.PagoRepository
	ContratoRepo repository.ContratoRepository
	Notificador  *infra.NotificadorClient
	CB           *infra.CircuitBreaker
	RDB          *redis.Client
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries pending recibos, and re-attempts Notificador calls through the CB.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely — don't hammer a downed sidecar
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	now := time.Now()
	recibos, err := cfg.ReciboRepo.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}

	if len(recibos) == 0 {
		return
	}

	log.Info().Int("count", len(recibos)).Msg("retry_cron: processing pending recibos")

	for i := range recibos {
		recibo := &recibos[i]

		// Check CB state before each call — it may have tripped mid-batch
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		payload, err := retryPayload(ctx, cfg, recibo)
		if err != nil {
			log.Error().Err(err).Str("recibo_id", recibo.ID.String()).Msg("retry_cron: cannot rebuild payload")
			continue
		}

		cbErr := cfg.CB.Execute(func() error {
			_, err := cfg.Notificador.Notificar(ctx, *payload)
			return err
		})

		if cbErr != nil {
			// Failure — increment retry count, schedule next attempt
			recibo.RetryCount++
			errMsg := cbErr.Error()
			recibo.LastError = &errMsg
			nextRetry := time.Now().Add(computeRetryBackoff(recibo.RetryCount))
			recibo.NextRetryAt = &nextRetry

			if recibo.RetryCount >= MaxReciboRetries {
				recibo.Estado = "error"
				recibo.NextRetryAt = nil
				log.Error().
					Str("recibo_id", recibo.ID.String()).
					Str("pago_id", recibo.PagoID.String()).
					Int("retries", recibo.RetryCount).
					Msg("retry_cron: max retries exceeded, moving to error/DLQ")

				// Send to DLQ for manual inspection
				dlqPayload := fmt.Sprintf(`{"pago_id":"%s","recibo_id":"%s"}`, recibo.PagoID, recibo.ID)
				SendToDLQ(ctx, cfg.RDB, QueueRecibo, "recibo", []byte(dlqPayload),
					fmt.Sprintf("max retries (%d) exceeded: %s", MaxReciboRetries, errMsg),
					recibo.RetryCount)
			} else {
				log.Warn().
					Str("recibo_id", recibo.ID.String()).
					Int("retry_count", recibo.RetryCount).
					Time("next_retry_at", *recibo.NextRetryAt).
					Msg("retry_cron: notificador retry failed, scheduled next attempt")
			}

			_ = cfg.ReciboRepo.Update(ctx, recibo)
			continue
		}

		// Success path
		recibo.Estado = "emitido"
		recibo.NextRetryAt = nil
		recibo.LastError = nil
		_ = cfg.ReciboRepo.Update(ctx, recibo)

		log.Info().
			Str("recibo_id", recibo.ID.String()).
			Int("total_retries", recibo.RetryCount).
			Msg("retry_cron: recibo emitido after retry")
	}
}

func retryPayload(ctx context.Context, cfg RetryCronConfig, recibo *model.Recibo) (*infra.NotificacionPayload, error) {
	pago, err := cfg.PagoRepo.FindByID(ctx, recibo.PagoID)
	if err != nil {
		return nil, err
	}
	contrato, err := cfg.ContratoRepo.FindByID(ctx, recibo.ContratoID)
	if err != nil {
		return nil, err
	}
	p := buildNotificacion(recibo, pago, contrato)
	return &p, nil
}
