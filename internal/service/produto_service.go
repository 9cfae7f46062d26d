package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"panifpro/internal/dto"
	"panifpro/internal/model"
	"panifpro/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// custoCacheTTL bounds staleness of the cached cost lookup.
const custoCacheTTL = 60 * time.Second

// ProdutoService defines the business logic contract for catalog products.
type ProdutoService interface {
	Criar(ctx context.Context, empresaID uuid.UUID, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	Obter(ctx context.Context, empresaID, id uuid.UUID) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context, empresaID uuid.UUID, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error)
	Atualizar(ctx context.Context, empresaID, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	Desativar(ctx context.Context, empresaID, id uuid.UUID) error
	Reativar(ctx context.Context, empresaID, id uuid.UUID) error
	// ConsultaCusto is the hot read path used by terminals on the shop
	// floor; results are cached in Redis for a short window.
	ConsultaCusto(ctx context.Context, empresaID, id uuid.UUID) (*dto.ConsultaCustoResponse, error)
	HistoricoCustos(ctx context.Context, empresaID, id uuid.UUID, page, limit int) (*dto.HistoricoCustoListResponse, error)
}

type produtoService struct {
	repo      repository.ProdutoRepository
	receitas  repository.ReceitaRepository
	historico repository.HistoricoCustoRepository
	rdb       *redis.Client
}

func NewProdutoService(
	repo repository.ProdutoRepository,
	receitas repository.ReceitaRepository,
	historico repository.HistoricoCustoRepository,
	rdb *redis.Client,
) ProdutoService {
	return &produtoService{repo: repo, receitas: receitas, historico: historico, rdb: rdb}
}

func (s *produtoService) Criar(ctx context.Context, empresaID uuid.UUID, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	if existente, err := s.repo.FindByNome(ctx, empresaID, req.Nome); err == nil && existente != nil {
		return nil, fmt.Errorf("já existe produto com o nome %q", req.Nome)
	}

	p := &model.Produto{
		EmpresaID:     empresaID,
		Nome:          req.Nome,
		Unidade:       req.Unidade,
		Custo:         req.Custo,
		PesoUnitario:  req.PesoUnitario,
		PesoKg:        req.PesoKg,
		EstoqueAtual:  req.EstoqueAtual,
		EstoqueMinimo: req.EstoqueMinimo,
		Ativo:         true,
	}
	var err error
	if p.TipoProdutoID, err = parseUUIDPtr(req.TipoProdutoID); err != nil {
		return nil, errors.New("tipo_produto_id inválido")
	}
	if p.GrupoID, err = parseUUIDPtr(req.GrupoID); err != nil {
		return nil, errors.New("grupo_id inválido")
	}
	if p.SubgrupoID, err = parseUUIDPtr(req.SubgrupoID); err != nil {
		return nil, errors.New("subgrupo_id inválido")
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return produtoParaResponse(p), nil
}

func (s *produtoService) Obter(ctx context.Context, empresaID, id uuid.UUID) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, empresaID, id)
	if err != nil {
		return nil, errors.New("produto não encontrado")
	}
	return produtoParaResponse(p), nil
}

func (s *produtoService) Listar(ctx context.Context, empresaID uuid.UUID, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	produtos, total, err := s.repo.List(ctx, empresaID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		data = append(data, *produtoParaResponse(&produtos[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.ProdutoListResponse{
		Data: data, Total: total, Page: filter.Page, Limit: filter.Limit, TotalPages: totalPages,
	}, nil
}

func (s *produtoService) Atualizar(ctx context.Context, empresaID, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, empresaID, id)
	if err != nil {
		return nil, errors.New("produto não encontrado")
	}

	if req.Nome != nil {
		p.Nome = *req.Nome
	}
	if req.Unidade != nil {
		p.Unidade = *req.Unidade
	}
	if req.Custo != nil {
		// Manual cost override; recipe-linked products are overwritten
		// again on the next roll-up.
		p.Custo = *req.Custo
	}
	if req.PesoUnitario != nil {
		p.PesoUnitario = req.PesoUnitario
	}
	if req.PesoKg != nil {
		p.PesoKg = req.PesoKg
	}
	if req.EstoqueMinimo != nil {
		p.EstoqueMinimo = *req.EstoqueMinimo
	}
	if req.TipoProdutoID != nil {
		if p.TipoProdutoID, err = parseUUIDPtr(req.TipoProdutoID); err != nil {
			return nil, errors.New("tipo_produto_id inválido")
		}
	}
	if req.GrupoID != nil {
		if p.GrupoID, err = parseUUIDPtr(req.GrupoID); err != nil {
			return nil, errors.New("grupo_id inválido")
		}
	}
	if req.SubgrupoID != nil {
		if p.SubgrupoID, err = parseUUIDPtr(req.SubgrupoID); err != nil {
			return nil, errors.New("subgrupo_id inválido")
		}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return produtoParaResponse(p), nil
}

func (s *produtoService) Desativar(ctx context.Context, empresaID, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, empresaID, id)
}

func (s *produtoService) Reativar(ctx context.Context, empresaID, id uuid.UUID) error {
	return s.repo.Reativar(ctx, empresaID, id)
}

func (s *produtoService) ConsultaCusto(ctx context.Context, empresaID, id uuid.UUID) (*dto.ConsultaCustoResponse, error) {
	key := fmt.Sprintf("custo:%s:%s", empresaID, id)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp dto.ConsultaCustoResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByID(ctx, empresaID, id)
	if err != nil {
		return nil, errors.New("produto não encontrado")
	}
	resp := &dto.ConsultaCustoResponse{
		Nome:    p.Nome,
		Unidade: p.Unidade,
		Custo:   p.Custo,
	}
	if p.ReceitaID != nil {
		if rec, err := s.receitas.FindByID(ctx, empresaID, *p.ReceitaID); err == nil {
			resp.CustoKg = &rec.CustoKg
			resp.CustoUnidade = rec.CustoUnidade
		}
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, data, custoCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("produto: falha gravando cache de custo")
			}
		}
	}
	return resp, nil
}

func (s *produtoService) HistoricoCustos(ctx context.Context, empresaID, id uuid.UUID, page, limit int) (*dto.HistoricoCustoListResponse, error) {
	if _, err := s.repo.FindByID(ctx, empresaID, id); err != nil {
		return nil, errors.New("produto não encontrado")
	}
	rows, total, err := s.historico.ListByProduto(ctx, id, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.HistoricoCustoItem, 0, len(rows))
	for _, h := range rows {
		item := dto.HistoricoCustoItem{
			ID:          h.ID.String(),
			ProdutoID:   h.ProdutoID.String(),
			CustoAntes:  h.CustoAntes,
			CustoDepois: h.CustoDepois,
			Motivo:      h.Motivo,
			CreatedAt:   h.CreatedAt.Format(time.RFC3339),
		}
		if h.ReceitaID != nil {
			rid := h.ReceitaID.String()
			item.ReceitaID = &rid
			if h.Receita != nil {
				item.ReceitaNome = &h.Receita.Nome
			}
		}
		data = append(data, item)
	}
	return &dto.HistoricoCustoListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func parseUUIDPtr(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func produtoParaResponse(p *model.Produto) *dto.ProdutoResponse {
	resp := &dto.ProdutoResponse{
		ID:            p.ID.String(),
		Nome:          p.Nome,
		Unidade:       p.Unidade,
		Custo:         p.Custo,
		PesoUnitario:  p.PesoUnitario,
		PesoKg:        p.PesoKg,
		EstoqueAtual:  p.EstoqueAtual,
		EstoqueMinimo: p.EstoqueMinimo,
		Ativo:         p.Ativo,
	}
	if p.ReceitaID != nil {
		rid := p.ReceitaID.String()
		resp.ReceitaID = &rid
	}
	if p.TipoProduto != nil {
		resp.TipoProduto = &p.TipoProduto.Nome
	}
	if p.Grupo != nil {
		resp.Grupo = &p.Grupo.Nome
	}
	return resp
}
