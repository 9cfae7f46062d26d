package service

import (
	"context"
	"errors"
	"time"

	"panifpro/internal/dto"
	"panifpro/internal/model"
	"panifpro/internal/repository"
	"panifpro/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RelatorioService records report export requests and hands them to the
// async worker pool. Generation itself (PDF/XLSX rendering, email
// delivery) happens out of band.
type RelatorioService interface {
	Gerar(ctx context.Context, empresaID, ordemID uuid.UUID, req dto.GerarRelatorioRequest) (*dto.RelatorioResponse, error)
	Obter(ctx context.Context, empresaID, id uuid.UUID) (*dto.RelatorioResponse, error)
	ListarPorOrdem(ctx context.Context, empresaID, ordemID uuid.UUID) ([]dto.RelatorioResponse, error)
}

type relatorioService struct {
	repo       repository.RelatorioRepository
	ordens     repository.OrdemRepository
	dispatcher *worker.Dispatcher
}

func NewRelatorioService(
	repo repository.RelatorioRepository,
	ordens repository.OrdemRepository,
	dispatcher *worker.Dispatcher,
) RelatorioService {
	return &relatorioService{repo: repo, ordens: ordens, dispatcher: dispatcher}
}

func (s *relatorioService) Gerar(ctx context.Context, empresaID, ordemID uuid.UUID, req dto.GerarRelatorioRequest) (*dto.RelatorioResponse, error) {
	if _, err := s.ordens.FindByID(ctx, empresaID, ordemID); err != nil {
		return nil, errors.New("ordem de produção não encontrada")
	}

	rel := &model.RelatorioProducao{
		EmpresaID: empresaID,
		OrdemID:   ordemID,
		Tipo:      req.Tipo,
		Status:    "pendente",
		Email:     req.Email,
	}
	if err := s.repo.Create(ctx, rel); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		payload := worker.RelatorioJobPayload{RelatorioID: rel.ID.String()}
		if err := s.dispatcher.EnqueueRelatorio(ctx, payload); err != nil {
			// The row stays "pendente"; the retry cron will pick it up.
			log.Warn().Err(err).Str("relatorio_id", rel.ID.String()).Msg("relatorio: falha ao enfileirar geração")
		}
	}
	return relatorioParaResponse(rel), nil
}

func (s *relatorioService) Obter(ctx context.Context, empresaID, id uuid.UUID) (*dto.RelatorioResponse, error) {
	rel, err := s.repo.FindByID(ctx, id)
	if err != nil || rel.EmpresaID != empresaID {
		return nil, errors.New("relatório não encontrado")
	}
	return relatorioParaResponse(rel), nil
}

func (s *relatorioService) ListarPorOrdem(ctx context.Context, empresaID, ordemID uuid.UUID) ([]dto.RelatorioResponse, error) {
	rels, err := s.repo.ListByOrdem(ctx, empresaID, ordemID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RelatorioResponse, 0, len(rels))
	for i := range rels {
		resp = append(resp, *relatorioParaResponse(&rels[i]))
	}
	return resp, nil
}

func relatorioParaResponse(rel *model.RelatorioProducao) *dto.RelatorioResponse {
	return &dto.RelatorioResponse{
		ID:          rel.ID.String(),
		OrdemID:     rel.OrdemID.String(),
		Tipo:        rel.Tipo,
		Status:      rel.Status,
		ArquivoPath: rel.ArquivoPath,
		Email:       rel.Email,
		LastError:   rel.LastError,
		CreatedAt:   rel.CreatedAt.Format(time.RFC3339),
	}
}
