package service

import (
	"context"
	"errors"
	"fmt"

	"panifpro/internal/bom"
	"panifpro/internal/dto"
	"panifpro/internal/model"
	"panifpro/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustoService owns the cost roll-up: recomputing one recipe's cost from
// its direct ingredients and propagating the result to the linked
// product, plus the dependency-ordered batch recompute.
type CustoService interface {
	RecalcularCusto(ctx context.Context, empresaID, receitaID uuid.UUID) (*bom.ResumoCusto, error)
	RecalcularTodos(ctx context.Context, empresaID uuid.UUID) (*dto.RecalculoLoteResponse, error)
}

type custoService struct {
	receitas  repository.ReceitaRepository
	produtos  repository.ProdutoRepository
	historico repository.HistoricoCustoRepository
	rdb       *redis.Client
}

func NewCustoService(
	receitas repository.ReceitaRepository,
	produtos repository.ProdutoRepository,
	historico repository.HistoricoCustoRepository,
	rdb *redis.Client,
) CustoService {
	return &custoService{receitas: receitas, produtos: produtos, historico: historico, rdb: rdb}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RecalcularCusto ──────────────────────────────────────────────────────────
// Single-level roll-up. Sub-recipe lines are priced by the sub-recipe's
// stored CustoKg; keeping those current is the batch recompute's job.
// Persistence order inside one transaction:
//  1. ingredient cost snapshots
//  2. recipe aggregate (custo_kg / custo_unidade)
//  3. linked product cost + immutable history row

func (s *custoService) RecalcularCusto(ctx context.Context, empresaID, receitaID uuid.UUID) (*bom.ResumoCusto, error) {
	rec, err := s.receitas.FindByID(ctx, empresaID, receitaID)
	if err != nil {
		return nil, errors.New("receita não encontrada")
	}

	fonte := novaFonteCatalogo(s.receitas, empresaID)
	ingredientes, err := fonte.Ingredientes(ctx, receitaID)
	if err != nil {
		return nil, err
	}

	resumo, err := bom.CalcularCusto(receitaParaBOM(rec), ingredientes)
	if err != nil {
		return nil, err
	}

	// Linked product is resolved before the tx; absence is not an error,
	// recipes without a catalog product just skip step 3.
	produto, prodErr := s.produtos.FindByReceitaID(ctx, empresaID, receitaID)

	txErr := runTx(ctx, s.receitas.DB(), func(tx *gorm.DB) error {
		for _, linha := range resumo.Linhas {
			if err := s.receitas.UpdateCustoIngredienteTx(tx, linha.IngredienteID, linha.CustoUnitario, linha.CustoTotal); err != nil {
				return err
			}
		}
		if err := s.receitas.UpdateCustoTx(tx, receitaID, resumo.CustoKg, resumo.CustoUnidade); err != nil {
			return err
		}

		if prodErr != nil || produto == nil {
			return nil
		}
		novoCusto := custoDoProduto(produto, resumo)
		if produto.Custo.Equal(novoCusto) {
			return nil
		}
		if err := s.produtos.UpdateCustoTx(tx, produto.ID, novoCusto); err != nil {
			return err
		}
		recID := receitaID
		return s.historico.CreateTx(tx, &model.HistoricoCusto{
			ProdutoID:   produto.ID,
			ReceitaID:   &recID,
			CustoAntes:  produto.Custo,
			CustoDepois: novoCusto,
			Motivo:      "recalculo_custo",
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	if produto != nil {
		s.invalidarCacheCusto(ctx, empresaID, produto.ID)
	}
	return resumo, nil
}

// custoDoProduto derives the product cost from a roll-up result
// depending on how the product is sold.
func custoDoProduto(p *model.Produto, resumo *bom.ResumoCusto) decimal.Decimal {
	if p.Unidade == "UN" {
		if resumo.CustoUnidade != nil {
			return *resumo.CustoUnidade
		}
		if p.PesoUnitario != nil {
			return resumo.CustoKg.Mul(*p.PesoUnitario)
		}
	}
	return resumo.CustoKg
}

func (s *custoService) invalidarCacheCusto(ctx context.Context, empresaID, produtoID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	key := fmt.Sprintf("custo:%s:%s", empresaID, produtoID)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("custo: falha ao invalidar cache")
	}
}

// ── RecalcularTodos ──────────────────────────────────────────────────────────
// Batch recompute in dependency order: every sub-recipe is recomputed
// before any recipe that consumes it, so parents always read fresh
// CustoKg values. Cycles abort the whole batch.

func (s *custoService) RecalcularTodos(ctx context.Context, empresaID uuid.UUID) (*dto.RecalculoLoteResponse, error) {
	receitas, err := s.receitas.ListAtivas(ctx, empresaID)
	if err != nil {
		return nil, err
	}

	nos := make([]uuid.UUID, 0, len(receitas))
	arestas := make(map[uuid.UUID][]uuid.UUID, len(receitas))
	for _, rec := range receitas {
		nos = append(nos, rec.ID)
		linhas, err := s.receitas.ListIngredientes(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		for _, l := range linhas {
			if l.EhSubReceita && l.SubReceitaID != nil {
				arestas[rec.ID] = append(arestas[rec.ID], *l.SubReceitaID)
			}
		}
	}

	ordem, err := bom.OrdenarPorDependencia(nos, arestas)
	if err != nil {
		return nil, err
	}

	resp := &dto.RecalculoLoteResponse{}
	for _, id := range ordem {
		if _, err := s.RecalcularCusto(ctx, empresaID, id); err != nil {
			resp.ComErro++
			resp.Erros = append(resp.Erros, fmt.Sprintf("%s: %v", id, err))
			log.Warn().Err(err).Str("receita_id", id.String()).Msg("custo: falha no recálculo em lote")
			continue
		}
		resp.Recalculadas++
	}
	return resp, nil
}
