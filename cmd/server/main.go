package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"panifpro/internal/config"
	"panifpro/internal/infra"
	"panifpro/internal/repository"
	"panifpro/internal/router"
	"panifpro/internal/service"
	"panifpro/internal/worker"

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Async pipeline: report generation and email delivery run on the
	// goroutine worker pool; SMTP sends go through the circuit breaker.
	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)

	relatorioRepo := repository.NewRelatorioRepository(db)
	ordemRepo := repository.NewOrdemRepository(db)
	receitaRepo := repository.NewReceitaRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	movimentoRepo := repository.NewMovimentoEstoqueRepository(db)
	ordemSvc := service.NewOrdemService(ordemRepo, receitaRepo, produtoRepo, movimentoRepo)

	relatorioWorker := worker.NewRelatorioWorker(relatorioRepo, ordemSvc, dispatcher, rdb, cfg.ReportStoragePath)
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, worker.Handlers{
		Relatorio: relatorioWorker,
		Email:     worker.NewEmailWorker(mailer, smtpCB),
	})
	worker.StartRetryCron(ctx, worker.RetryCronConfig{
		RelatorioRepo: relatorioRepo,
		Relatorios:    relatorioWorker,
		CB:            smtpCB,
	})

	r := router.New(cfg, db, rdb, dispatcher, smtpCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("PanifPro backend listening on :%d", cfg.Port)
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
