package service

// vencimiento_cron.go
// Goroutine diario que recorre los contratos activos, arma su plan de cuotas
// y encola un email recordatorio por cada cuota que vence dentro de la
// ventana de aviso configurada (DIAS_AVISO_VENCIMIENTO).

import (
	"context"
	"fmt"
	"time"

	"loteparatodos/internal/dto"
	"loteparatodos/internal/model"
	"loteparatodos/internal/repository"
	"loteparatodos/internal/worker"

	"github.com/rs/zerolog/log"
)

const (
	vencimientoTickInterval = 24 * time.Hour
	vencimientoPageSize     = 100
)

// VencimientoCronConfig agrupa las dependencias del cron de recordatorios.
type VencimientoCronConfig struct {
	ContratoRepo repository.ContratoRepository
	Dispatcher   *worker.Dispatcher
	DiasAviso    int

	// Now se inyecta en tests; nil usa time.Now.
	Now func() time.Time
}

// StartVencimientoCron lanza el goroutine de recordatorios de vencimiento.
// Corre una pasada inmediata al arrancar y después una por día.
func StartVencimientoCron(ctx context.Context, cfg VencimientoCronConfig) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	go func() {
		ticker := time.NewTicker(vencimientoTickInterval)
		defer ticker.Stop()

		log.Info().Int("dias_aviso", cfg.DiasAviso).Msg("vencimiento_cron: started")
		procesarVencimientos(ctx, cfg)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("vencimiento_cron: shutting down")
				return
			case <-ticker.C:
				procesarVencimientos(ctx, cfg)
			}
		}
	}()
}

func procesarVencimientos(ctx context.Context, cfg VencimientoCronConfig) {
	now := cfg.Now()
	enviados := 0

	for page := 1; ; page++ {
		contratos, _, err := cfg.ContratoRepo.List(ctx, dto.ContratoFilter{
			Estado: "activo",
			Page:   page,
			Limit:  vencimientoPageSize,
		})
		if err != nil {
			log.Error().Err(err).Msg("vencimiento_cron: failed to list contratos")
			return
		}
		if len(contratos) == 0 {
			break
		}

		for i := range contratos {
			enviados += recordarContrato(ctx, cfg, &contratos[i], now)
		}

		if len(contratos) < vencimientoPageSize {
			break
		}
	}

	log.Info().Int("recordatorios", enviados).Msg("vencimiento_cron: pass completed")
}

// recordarContrato encola un recordatorio por cada cuota pendiente del
// contrato que vence dentro de la ventana de aviso. Devuelve cuántos encoló.
func recordarContrato(ctx context.Context, cfg VencimientoCronConfig, contrato *model.Contrato, now time.Time) int {
	if contrato.Cliente == nil || contrato.Cliente.Email == nil || *contrato.Cliente.Email == "" {
		return 0
	}

	plan, err := ArmarPlanCuotas(contrato, now)
	if err != nil {
		log.Warn().Err(err).Str("contrato_id", contrato.ID.String()).
			Msg("vencimiento_cron: skipping contrato with invalid terms")
		return 0
	}

	limite := now.AddDate(0, 0, cfg.DiasAviso)
	enviados := 0

	for _, ciclo := range plan.Ciclos {
		for _, cuota := range ciclo.Cuotas {
			if cuota.Estado != CuotaPendiente {
				continue
			}
			if cuota.Fecha.Before(now) || cuota.Fecha.After(limite) {
				continue
			}

			job := worker.EmailJobPayload{
				ToEmail: *contrato.Cliente.Email,
				Subject: fmt.Sprintf("Recordatorio: cuota %d vence el %s", cuota.Numero, cuota.Fecha.Format("02/01/2006")),
				Body: fmt.Sprintf(
					"Hola %s,\n\nLe recordamos que la cuota %d de su contrato vence el %s por un monto de $%s.\n\nLote Para Todos",
					contrato.Cliente.Nombre, cuota.Numero,
					cuota.Fecha.Format("02/01/2006"), cuota.Monto.StringFixed(2)),
			}
			if err := cfg.Dispatcher.EnqueueEmail(ctx, job); err != nil {
				log.Error().Err(err).Str("contrato_id", contrato.ID.String()).
					Int("cuota", cuota.Numero).
					Msg("vencimiento_cron: failed to enqueue reminder")
				continue
			}
			enviados++
		}
	}
	return enviados
}
