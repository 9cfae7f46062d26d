package worker

// retry_cron.go
// Background goroutine that periodically re-attempts reports stuck in
// status='erro' with a next_retry_at in the past. Skips ticks while the
// SMTP circuit breaker is open: regenerating would immediately re-enqueue
// deliveries against a downed server.

import (
	"context"
	"time"

	"panifpro/internal/infra"
	"panifpro/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	RelatorioRepo repository.RelatorioRepository
	Relatorios    *RelatorioWorker
	CB            *infra.CircuitBreaker
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries failed reports and re-runs generation for each. It respects
// the context for graceful shutdown.
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
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	rels, err := cfg.RelatorioRepo.ListPendingRetries(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(rels) == 0 {
		return
	}

	log.Info().Int("count", len(rels)).Msg("retry_cron: reprocessing failed relatórios")

	for i := range rels {
		select {
		case <-ctx.Done():
			return
		default:
		}
		cfg.Relatorios.Gerar(ctx, &rels[i])
	}
}
