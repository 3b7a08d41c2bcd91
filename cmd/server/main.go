package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loteparatodos/internal/config"
	"loteparatodos/internal/infra"
	"loteparatodos/internal/repository"
	"loteparatodos/internal/router"
	"loteparatodos/internal/service"
	"loteparatodos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Start goroutine worker pool for async tasks (recibos, PDF, email).
	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notificador := infra.NewNotificadorClient(cfg.NotificadorURL)
	notificadorCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	reciboRepo := repository.NewReciboRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	contratoRepo := repository.NewContratoRepository(db)

	handlers := worker.Handlers{
		Recibo: worker.NewReciboWorker(notificador, reciboRepo, pagoRepo, contratoRepo, dispatcher, cfg.PDFStoragePath),
		Email:  worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	// Background crons: recibo re-emission and cuota due-date reminders
	worker.StartRetryCron(ctx, worker.RetryCronConfig{
		ReciboRepo:   reciboRepo,
		PagoRepo:     pagoRepo,
		ContratoRepo: contratoRepo,
		Notificador:  notificador,
		CB:           notificadorCB,
		RDB:          rdb,
	})
	service.StartVencimientoCron(ctx, service.VencimientoCronConfig{
		ContratoRepo: contratoRepo,
		Dispatcher:   dispatcher,
		DiasAviso:    cfg.DiasAvisoVencimiento,
	})

	r := router.New(cfg, db, rdb, notificadorCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Lote Para Todos backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
