package service

import (
	"context"
	"errors"
	"time"

	"panifpro/internal/dto"
	"panifpro/internal/model"
	"panifpro/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EstoqueService covers manual stock adjustments, the movement ledger
// and the low-stock alert list. Production deductions live in
// OrdemService.Confirmar.
type EstoqueService interface {
	Ajustar(ctx context.Context, empresaID, produtoID uuid.UUID, req dto.AjusteEstoqueRequest) (*dto.MovimentoEstoqueResponse, error)
	ListarMovimentos(ctx context.Context, empresaID uuid.UUID, filter dto.MovimentoEstoqueFilter) (*dto.MovimentoEstoqueListResponse, error)
	Alertas(ctx context.Context, empresaID uuid.UUID) ([]dto.AlertaEstoqueResponse, error)
}

type estoqueService struct {
	produtos   repository.ProdutoRepository
	movimentos repository.MovimentoEstoqueRepository
}

func NewEstoqueService(
	produtos repository.ProdutoRepository,
	movimentos repository.MovimentoEstoqueRepository,
) EstoqueService {
	return &estoqueService{produtos: produtos, movimentos: movimentos}
}

func (s *estoqueService) Ajustar(ctx context.Context, empresaID, produtoID uuid.UUID, req dto.AjusteEstoqueRequest) (*dto.MovimentoEstoqueResponse, error) {
	p, err := s.produtos.FindByID(ctx, empresaID, produtoID)
	if err != nil {
		return nil, errors.New("produto não encontrado")
	}

	anterior := p.EstoqueAtual
	novo := anterior.Add(req.Quantidade)

	tipo := "entrada"
	if req.Quantidade.IsNegative() {
		tipo = "saida"
	}

	mov := &model.MovimentoEstoque{
		EmpresaID:       empresaID,
		ProdutoID:       produtoID,
		Tipo:            tipo,
		Quantidade:      req.Quantidade,
		EstoqueAnterior: anterior,
		EstoqueNovo:     novo,
		Motivo:          req.Motivo,
	}

	txErr := runTx(ctx, s.produtos.DB(), func(tx *gorm.DB) error {
		if err := s.produtos.AjustarEstoqueTx(tx, produtoID, req.Quantidade); err != nil {
			return err
		}
		return s.movimentos.CreateTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := movimentoParaResponse(mov)
	resp.ProdutoNome = p.Nome
	return resp, nil
}

func (s *estoqueService) ListarMovimentos(ctx context.Context, empresaID uuid.UUID, filter dto.MovimentoEstoqueFilter) (*dto.MovimentoEstoqueListResponse, error) {
	movimentos, total, err := s.movimentos.List(ctx, empresaID, filter)
	if err != nil {
		return nil, err
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 100
	}
	data := make([]dto.MovimentoEstoqueResponse, 0, len(movimentos))
	for i := range movimentos {
		resp := movimentoParaResponse(&movimentos[i])
		if movimentos[i].Produto != nil {
			resp.ProdutoNome = movimentos[i].Produto.Nome
		}
		data = append(data, *resp)
	}
	return &dto.MovimentoEstoqueListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *estoqueService) Alertas(ctx context.Context, empresaID uuid.UUID) ([]dto.AlertaEstoqueResponse, error) {
	produtos, err := s.produtos.ListAbaixoMinimo(ctx, empresaID)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaEstoqueResponse, 0, len(produtos))
	for _, p := range produtos {
		alertas = append(alertas, dto.AlertaEstoqueResponse{
			ProdutoID:     p.ID.String(),
			Nome:          p.Nome,
			Unidade:       p.Unidade,
			EstoqueAtual:  p.EstoqueAtual,
			EstoqueMinimo: p.EstoqueMinimo,
		})
	}
	return alertas, nil
}

func movimentoParaResponse(m *model.MovimentoEstoque) *dto.MovimentoEstoqueResponse {
	resp := &dto.MovimentoEstoqueResponse{
		ID:              m.ID.String(),
		ProdutoID:       m.ProdutoID.String(),
		Tipo:            m.Tipo,
		Quantidade:      m.Quantidade,
		EstoqueAnterior: m.EstoqueAnterior,
		EstoqueNovo:     m.EstoqueNovo,
		Motivo:          m.Motivo,
		CreatedAt:       m.CreatedAt.Format(time.RFC3339),
	}
	if m.ReferenciaID != nil {
		ref := m.ReferenciaID.String()
		resp.ReferenciaID = &ref
	}
	return resp
}
