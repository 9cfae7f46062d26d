package worker

// relatorio_worker.go
// Processes report generation jobs from QueueRelatorios: renders the
// requested document (PDF or XLSX), stores it on disk and, when the
// request carries an email address, enqueues the delivery job.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"panifpro/internal/dto"
	"panifpro/internal/infra"
	"panifpro/internal/model"
	"panifpro/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MaxRelatorioRetries is the cap applied by the retry cron before a
// failed report is parked in the DLQ.
const MaxRelatorioRetries = 5

// RelatorioJobPayload is the job envelope sent to QueueRelatorios.
type RelatorioJobPayload struct {
	RelatorioID string `json:"relatorio_id"`
}

// OrdemCalculadora is the slice of the order service the worker needs:
// the two calculators whose output feeds the rendered documents.
type OrdemCalculadora interface {
	CalcularMateriais(ctx context.Context, empresaID, id uuid.UUID) (*dto.MateriaisResponse, error)
	CalcularPrePesagem(ctx context.Context, empresaID, id uuid.UUID) (*dto.PrePesagemResponse, error)
}

// RelatorioWorker renders production reports out of band.
type RelatorioWorker struct {
	relatorioRepo repository.RelatorioRepository
	ordens        OrdemCalculadora
	dispatcher    *Dispatcher
	rdb           *redis.Client
	storagePath   string
}

func NewRelatorioWorker(
	relatorioRepo repository.RelatorioRepository,
	ordens OrdemCalculadora,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	storagePath string,
) *RelatorioWorker {
	return &RelatorioWorker{
		relatorioRepo: relatorioRepo,
		ordens:        ordens,
		dispatcher:    dispatcher,
		rdb:           rdb,
		storagePath:   storagePath,
	}
}

// Process handles a single report job:
//  1. Parse RelatorioJobPayload from the job envelope
//  2. Fetch the RelatorioProducao record
//  3. Render the document and update the record
func (w *RelatorioWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload RelatorioJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("relatorio_worker: invalid payload")
		return
	}

	relID, err := uuid.Parse(payload.RelatorioID)
	if err != nil {
		log.Error().Str("relatorio_id", payload.RelatorioID).Msg("relatorio_worker: invalid relatorio_id")
		return
	}

	rel, err := w.relatorioRepo.FindByID(ctx, relID)
	if err != nil {
		log.Error().Err(err).Str("relatorio_id", payload.RelatorioID).Msg("relatorio_worker: relatório not found")
		return
	}
	if rel.Status == "gerado" {
		// Duplicate job (e.g. retry cron plus queue) — already done
		log.Debug().Str("relatorio_id", payload.RelatorioID).Msg("relatorio_worker: already generated, skipping")
		return
	}

	w.Gerar(ctx, rel)
}

// Gerar renders the document for rel and persists the outcome. It is
// shared between the queue path and the retry cron.
func (w *RelatorioWorker) Gerar(ctx context.Context, rel *model.RelatorioProducao) {
	var (
		arquivoPath string
		numero      string
	)

	// A second immediate attempt covers fleeting disk errors; everything
	// else falls through to the retry cron.
	renderErr := withRetry(ctx, 2, func(attempt int) error {
		path, num, err := w.render(ctx, rel)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("relatorio_id", rel.ID.String()).
				Msg("relatorio_worker: render attempt failed")
			return err
		}
		arquivoPath, numero = path, num
		return nil
	})

	if renderErr != nil {
		w.registrarFalha(ctx, rel, renderErr)
		return
	}

	rel.Status = "gerado"
	// The row keeps only the file name; REPORT_STORAGE_PATH may move.
	nomeArquivo := filepath.Base(arquivoPath)
	rel.ArquivoPath = &nomeArquivo
	rel.LastError = nil
	rel.NextRetryAt = nil
	if err := w.relatorioRepo.Update(ctx, rel); err != nil {
		log.Error().Err(err).Str("relatorio_id", rel.ID.String()).Msg("relatorio_worker: failed to update relatório")
		return
	}
	log.Info().
		Str("relatorio_id", rel.ID.String()).
		Str("arquivo", arquivoPath).
		Msg("relatorio_worker: relatório gerado")

	if rel.Email != nil && *rel.Email != "" {
		emailJob := EmailJobPayload{
			ToEmail:     *rel.Email,
			Subject:     fmt.Sprintf("PanifPro — %s da ordem %s", tituloRelatorio(rel.Tipo), numero),
			Body:        fmt.Sprintf("Segue em anexo o documento de produção da ordem %s.", numero),
			ArquivoPath: arquivoPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *rel.Email).Msg("relatorio_worker: failed to enqueue email")
		} else {
			log.Info().Str("email", *rel.Email).Msg("relatorio_worker: email job enqueued")
		}
	}
}

// render produces the file for rel.Tipo and returns its path plus the
// order number used in notifications.
func (w *RelatorioWorker) render(ctx context.Context, rel *model.RelatorioProducao) (string, string, error) {
	switch rel.Tipo {
	case "materiais_pdf":
		res, err := w.ordens.CalcularMateriais(ctx, rel.EmpresaID, rel.OrdemID)
		if err != nil {
			return "", "", err
		}
		path, err := infra.GerarMateriaisPDF(res, w.storagePath)
		return path, res.Numero, err
	case "materiais_xlsx":
		res, err := w.ordens.CalcularMateriais(ctx, rel.EmpresaID, rel.OrdemID)
		if err != nil {
			return "", "", err
		}
		path, err := infra.GerarMateriaisXLSX(res, w.storagePath)
		return path, res.Numero, err
	case "pre_pesagem_pdf":
		res, err := w.ordens.CalcularPrePesagem(ctx, rel.EmpresaID, rel.OrdemID)
		if err != nil {
			return "", "", err
		}
		path, err := infra.GerarPrePesagemPDF(res, w.storagePath)
		return path, res.Numero, err
	default:
		return "", "", errors.New("tipo de relatório desconhecido: " + rel.Tipo)
	}
}

// registrarFalha marks rel as failed, schedules the next retry and, past
// the retry cap, parks the job in the DLQ for manual inspection.
func (w *RelatorioWorker) registrarFalha(ctx context.Context, rel *model.RelatorioProducao, cause error) {
	rel.Status = "erro"
	rel.RetryCount++
	errMsg := cause.Error()
	rel.LastError = &errMsg

	if rel.RetryCount >= MaxRelatorioRetries {
		rel.NextRetryAt = nil
		log.Error().
			Str("relatorio_id", rel.ID.String()).
			Int("retries", rel.RetryCount).
			Msg("relatorio_worker: max retries exceeded, moving to DLQ")

		payload, _ := json.Marshal(RelatorioJobPayload{RelatorioID: rel.ID.String()})
		SendToDLQ(ctx, w.rdb, QueueRelatorios, "relatorio", payload,
			fmt.Sprintf("max retries (%d) exceeded: %s", MaxRelatorioRetries, errMsg),
			rel.RetryCount)
	} else {
		next := time.Now().Add(computeRetryBackoff(rel.RetryCount))
		rel.NextRetryAt = &next
		log.Warn().
			Err(cause).
			Str("relatorio_id", rel.ID.String()).
			Int("retry_count", rel.RetryCount).
			Time("next_retry_at", next).
			Msg("relatorio_worker: render failed, scheduled next attempt")
	}

	if err := w.relatorioRepo.Update(ctx, rel); err != nil {
		log.Error().Err(err).Str("relatorio_id", rel.ID.String()).Msg("relatorio_worker: failed to persist failure")
	}
}

// computeRetryBackoff returns the delay before the next cron attempt:
// 1m, 2m, 4m, 8m… capped at 30m.
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	d := time.Minute << uint(retryCount-1)
	if d > 30*time.Minute {
		d = 30 * time.Minute
	}
	return d
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

func tituloRelatorio(tipo string) string {
	switch tipo {
	case "materiais_pdf", "materiais_xlsx":
		return "lista de materiais"
	case "pre_pesagem_pdf":
		return "pré-pesagem"
	default:
		return "relatório"
	}
}
