package service

import (
	"context"
	"fmt"
	"strings"

	"panifpro/internal/dto"
	"panifpro/internal/model"
	"panifpro/internal/repository"

	"github.com/google/uuid"
)

type TipoProdutoService interface {
	Criar(ctx context.Context, empresaID uuid.UUID, req dto.CriarTipoProdutoRequest) (*dto.TipoProdutoResponse, error)
	Listar(ctx context.Context, empresaID uuid.UUID) ([]dto.TipoProdutoResponse, error)
}

type tipoProdutoService struct {
	repo repository.TipoProdutoRepository
}

func NewTipoProdutoService(repo repository.TipoProdutoRepository) TipoProdutoService {
	return &tipoProdutoService{repo: repo}
}

func (s *tipoProdutoService) Criar(ctx context.Context, empresaID uuid.UUID, req dto.CriarTipoProdutoRequest) (*dto.TipoProdutoResponse, error) {
	nome := strings.TrimSpace(req.Nome)
	// Reserved names collide with the types provisioned at onboarding.
	for _, sistema := range []string{model.TipoReceita, model.TipoSubReceita, model.TipoMateriaPrima} {
		if strings.EqualFold(nome, sistema) {
			return nil, fmt.Errorf("%q é um tipo de sistema e não pode ser recriado", sistema)
		}
	}
	if existente, err := s.repo.FindByNome(ctx, empresaID, nome); err == nil && existente != nil {
		return nil, fmt.Errorf("já existe tipo de produto com o nome %q", nome)
	}

	t := &model.TipoProduto{EmpresaID: empresaID, Nome: nome, Descricao: req.Descricao, Ativo: true}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return tipoParaResponse(t), nil
}

func (s *tipoProdutoService) Listar(ctx context.Context, empresaID uuid.UUID) ([]dto.TipoProdutoResponse, error) {
	tipos, err := s.repo.List(ctx, empresaID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TipoProdutoResponse, 0, len(tipos))
	for i := range tipos {
		resp = append(resp, *tipoParaResponse(&tipos[i]))
	}
	return resp, nil
}

func tipoParaResponse(t *model.TipoProduto) *dto.TipoProdutoResponse {
	return &dto.TipoProdutoResponse{ID: t.ID, Nome: t.Nome, Descricao: t.Descricao, Sistema: t.Sistema}
}
