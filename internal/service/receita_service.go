package service

import (
	"context"
	"errors"
	"fmt"

	"panifpro/internal/dto"
	"panifpro/internal/model"
	"panifpro/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReceitaService interface {
	Criar(ctx context.Context, empresaID uuid.UUID, req dto.CriarReceitaRequest) (*dto.ReceitaResponse, error)
	Obter(ctx context.Context, empresaID, id uuid.UUID) (*dto.ReceitaResponse, error)
	Listar(ctx context.Context, empresaID uuid.UUID, filter dto.ReceitaFilter) (*dto.ReceitaListResponse, error)
	Atualizar(ctx context.Context, empresaID, id uuid.UUID, req dto.AtualizarReceitaRequest) (*dto.ReceitaResponse, error)
	Excluir(ctx context.Context, empresaID, id uuid.UUID) error
}

type receitaService struct {
	receitas repository.ReceitaRepository
	produtos repository.ProdutoRepository
	tipos    repository.TipoProdutoRepository
	custos   CustoService
}

func NewReceitaService(
	receitas repository.ReceitaRepository,
	produtos repository.ProdutoRepository,
	tipos repository.TipoProdutoRepository,
	custos CustoService,
) ReceitaService {
	return &receitaService{receitas: receitas, produtos: produtos, tipos: tipos, custos: custos}
}

// ── Criar ────────────────────────────────────────────────────────────────────

func (s *receitaService) Criar(ctx context.Context, empresaID uuid.UUID, req dto.CriarReceitaRequest) (*dto.ReceitaResponse, error) {
	if req.RendimentoKg.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("rendimento_kg deve ser maior que zero")
	}
	if existente, err := s.receitas.FindByNome(ctx, empresaID, req.Nome); err == nil && existente != nil {
		return nil, fmt.Errorf("já existe receita com o nome %q", req.Nome)
	}

	rec := &model.Receita{
		EmpresaID:          empresaID,
		Nome:               req.Nome,
		Codigo:             req.Codigo,
		RendimentoKg:       req.RendimentoKg,
		RendimentoUnidades: req.RendimentoUnidades,
		Ativo:              true,
	}

	ingredientes := make([]model.IngredienteReceita, 0, len(req.Ingredientes))
	for i, ingReq := range req.Ingredientes {
		ing, err := s.montarIngrediente(ingReq, rec.ID)
		if err != nil {
			return nil, fmt.Errorf("ingrediente %d: %w", i+1, err)
		}
		ingredientes = append(ingredientes, *ing)
	}

	txErr := runTx(ctx, s.receitas.DB(), func(tx *gorm.DB) error {
		if err := s.receitas.Create(ctx, tx, rec); err != nil {
			return err
		}
		for i := range ingredientes {
			ingredientes[i].ReceitaID = rec.ID
			if err := s.receitas.CreateIngredienteTx(tx, &ingredientes[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if _, err := s.custos.RecalcularCusto(ctx, empresaID, rec.ID); err != nil {
		log.Warn().Err(err).Str("receita_id", rec.ID.String()).Msg("receita: falha no cálculo inicial de custo")
	}

	aviso := s.sincronizarProduto(ctx, empresaID, rec.ID)
	return s.montarResposta(ctx, empresaID, rec.ID, aviso)
}

// ── Obter / Listar ───────────────────────────────────────────────────────────

func (s *receitaService) Obter(ctx context.Context, empresaID, id uuid.UUID) (*dto.ReceitaResponse, error) {
	return s.montarResposta(ctx, empresaID, id, nil)
}

func (s *receitaService) Listar(ctx context.Context, empresaID uuid.UUID, filter dto.ReceitaFilter) (*dto.ReceitaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	receitas, total, err := s.receitas.List(ctx, empresaID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ReceitaResponse, 0, len(receitas))
	for i := range receitas {
		data = append(data, *receitaParaResponse(&receitas[i], nil, nil))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.ReceitaListResponse{
		Data: data, Total: total, Page: filter.Page, Limit: filter.Limit, TotalPages: totalPages,
	}, nil
}

// ── Atualizar ────────────────────────────────────────────────────────────────

func (s *receitaService) Atualizar(ctx context.Context, empresaID, id uuid.UUID, req dto.AtualizarReceitaRequest) (*dto.ReceitaResponse, error) {
	rec, err := s.receitas.FindByID(ctx, empresaID, id)
	if err != nil {
		return nil, errors.New("receita não encontrada")
	}

	if req.Nome != nil {
		rec.Nome = *req.Nome
	}
	if req.Codigo != nil {
		rec.Codigo = *req.Codigo
	}
	if req.RendimentoKg != nil {
		if req.RendimentoKg.LessThanOrEqual(decimal.Zero) {
			return nil, errors.New("rendimento_kg deve ser maior que zero")
		}
		rec.RendimentoKg = *req.RendimentoKg
	}
	if req.RendimentoUnidades != nil {
		rec.RendimentoUnidades = req.RendimentoUnidades
	}

	var novos []model.IngredienteReceita
	if req.Ingredientes != nil {
		for i, ingReq := range req.Ingredientes {
			ing, err := s.montarIngrediente(ingReq, id)
			if err != nil {
				return nil, fmt.Errorf("ingrediente %d: %w", i+1, err)
			}
			if ing.SubReceitaID != nil && *ing.SubReceitaID == id {
				return nil, errors.New("receita não pode referenciar a si mesma como subreceita")
			}
			novos = append(novos, *ing)
		}
	}

	txErr := runTx(ctx, s.receitas.DB(), func(tx *gorm.DB) error {
		if err := s.receitas.Update(ctx, tx, rec); err != nil {
			return err
		}
		if req.Ingredientes == nil {
			return nil
		}
		// Full list replacement keeps the diff logic out of the API;
		// cost snapshots are rebuilt right after by the roll-up.
		for _, antigo := range rec.Ingredientes {
			if err := s.receitas.DeleteIngredienteTx(tx, antigo.ID); err != nil {
				return err
			}
		}
		for i := range novos {
			if err := s.receitas.CreateIngredienteTx(tx, &novos[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if _, err := s.custos.RecalcularCusto(ctx, empresaID, id); err != nil {
		log.Warn().Err(err).Str("receita_id", id.String()).Msg("receita: falha no recálculo pós-edição")
	}

	aviso := s.sincronizarProduto(ctx, empresaID, id)
	return s.montarResposta(ctx, empresaID, id, aviso)
}

// ── Excluir ──────────────────────────────────────────────────────────────────
// Soft delete. The mirror product is soft-deleted in the same
// transaction, so the recipe stops being consumable as an ingredient;
// expansions that still reference it skip the line with a warning.

func (s *receitaService) Excluir(ctx context.Context, empresaID, id uuid.UUID) error {
	if _, err := s.receitas.FindByID(ctx, empresaID, id); err != nil {
		return errors.New("receita não encontrada")
	}
	produto, _ := s.produtos.FindByReceitaID(ctx, empresaID, id)
	return runTx(ctx, s.receitas.DB(), func(tx *gorm.DB) error {
		if err := s.receitas.SoftDeleteTx(tx, empresaID, id); err != nil {
			return err
		}
		if produto != nil {
			return s.produtos.SoftDeleteTx(tx, empresaID, produto.ID)
		}
		return nil
	})
}

// ── Sincronização receita → produto ──────────────────────────────────────────
// Every recipe mirrors into a catalog product so it can be consumed as
// an ingredient and stocked. The product type follows the recipe code:
// "SUB" prefix maps to the "subreceita" system type, anything else to
// "receita". A missing system type skips the sync with a warning
// instead of failing the recipe save.

func (s *receitaService) sincronizarProduto(ctx context.Context, empresaID, receitaID uuid.UUID) *string {
	rec, err := s.receitas.FindByID(ctx, empresaID, receitaID)
	if err != nil {
		return nil
	}

	tipoNome := model.TipoReceita
	if rec.EhSubReceita() {
		tipoNome = model.TipoSubReceita
	}
	tipo, err := s.tipos.FindByNome(ctx, empresaID, tipoNome)
	if err != nil {
		aviso := fmt.Sprintf("tipo de produto %q não cadastrado; produto não sincronizado", tipoNome)
		log.Warn().
			Str("receita_id", receitaID.String()).
			Str("tipo", tipoNome).
			Msg("receita: tipo de produto de sistema ausente, sincronização ignorada")
		return &aviso
	}

	// Sub-receitas entram noutras receitas por peso, então o espelho é
	// sempre em Kg mesmo quando o rendimento declara unidades.
	unidade := "Kg"
	var pesoUnitario, pesoKg *decimal.Decimal
	custo := rec.CustoKg
	if !rec.EhSubReceita() && rec.RendimentoUnidades != nil && *rec.RendimentoUnidades > 0 {
		unidade = "UN"
		peso := rec.RendimentoKg.Div(decimal.NewFromInt(int64(*rec.RendimentoUnidades)))
		pesoUnitario = &peso
		if rec.CustoUnidade != nil {
			custo = *rec.CustoUnidade
		}
	} else {
		rend := rec.RendimentoKg
		pesoKg = &rend
	}

	produto, err := s.produtos.FindByReceitaID(ctx, empresaID, receitaID)
	if err != nil {
		// No linked product yet. Adopt a same-named orphan if one
		// exists, otherwise create the mirror product.
		if existente, nomeErr := s.produtos.FindByNome(ctx, empresaID, rec.Nome); nomeErr == nil && existente.ReceitaID == nil {
			produto = existente
		}
	}

	if produto == nil {
		recID := rec.ID
		novo := &model.Produto{
			EmpresaID:     empresaID,
			Nome:          rec.Nome,
			Unidade:       unidade,
			Custo:         custo,
			PesoUnitario:  pesoUnitario,
			PesoKg:        pesoKg,
			ReceitaID:     &recID,
			TipoProdutoID: &tipo.ID,
			Ativo:         true,
		}
		if err := s.produtos.Create(ctx, novo); err != nil {
			aviso := "falha ao criar produto vinculado à receita"
			log.Error().Err(err).Str("receita_id", receitaID.String()).Msg("receita: falha criando produto espelho")
			return &aviso
		}
		return nil
	}

	recID := rec.ID
	produto.Nome = rec.Nome
	produto.Unidade = unidade
	produto.Custo = custo
	produto.PesoUnitario = pesoUnitario
	produto.PesoKg = pesoKg
	produto.ReceitaID = &recID
	produto.TipoProdutoID = &tipo.ID
	if err := s.produtos.Update(ctx, produto); err != nil {
		aviso := "falha ao atualizar produto vinculado à receita"
		log.Error().Err(err).Str("receita_id", receitaID.String()).Msg("receita: falha atualizando produto espelho")
		return &aviso
	}
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *receitaService) montarIngrediente(req dto.IngredienteRequest, receitaID uuid.UUID) (*model.IngredienteReceita, error) {
	if req.Quantidade.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("quantidade deve ser maior que zero")
	}
	unidade := req.Unidade
	if unidade == "" {
		unidade = "Kg"
	}
	ing := &model.IngredienteReceita{
		ReceitaID:    receitaID,
		EhSubReceita: req.EhSubReceita,
		Quantidade:   req.Quantidade,
		Unidade:      unidade,
		Etapa:        req.Etapa,
	}
	if req.EhSubReceita {
		if req.SubReceitaID == nil {
			return nil, errors.New("sub_receita_id é obrigatório quando eh_sub_receita=true")
		}
		subID, err := uuid.Parse(*req.SubReceitaID)
		if err != nil {
			return nil, errors.New("sub_receita_id inválido")
		}
		ing.SubReceitaID = &subID
		return ing, nil
	}
	if req.ProdutoID == nil {
		return nil, errors.New("produto_id é obrigatório quando eh_sub_receita=false")
	}
	prodID, err := uuid.Parse(*req.ProdutoID)
	if err != nil {
		return nil, errors.New("produto_id inválido")
	}
	ing.ProdutoID = &prodID
	return ing, nil
}

func (s *receitaService) montarResposta(ctx context.Context, empresaID, id uuid.UUID, aviso *string) (*dto.ReceitaResponse, error) {
	rec, err := s.receitas.FindByID(ctx, empresaID, id)
	if err != nil {
		return nil, errors.New("receita não encontrada")
	}
	var produtoID *string
	if produto, err := s.produtos.FindByReceitaID(ctx, empresaID, id); err == nil && produto != nil {
		pid := produto.ID.String()
		produtoID = &pid
	}
	return receitaParaResponse(rec, produtoID, aviso), nil
}

func receitaParaResponse(rec *model.Receita, produtoID, aviso *string) *dto.ReceitaResponse {
	resp := &dto.ReceitaResponse{
		ID:                 rec.ID.String(),
		Nome:               rec.Nome,
		Codigo:             rec.Codigo,
		SubReceita:         rec.EhSubReceita(),
		RendimentoKg:       rec.RendimentoKg,
		RendimentoUnidades: rec.RendimentoUnidades,
		CustoKg:            rec.CustoKg,
		CustoUnidade:       rec.CustoUnidade,
		ProdutoID:          produtoID,
		Ativo:              rec.Ativo,
		Aviso:              aviso,
	}
	for _, ing := range rec.Ingredientes {
		item := dto.IngredienteResponse{
			ID:           ing.ID.String(),
			EhSubReceita: ing.EhSubReceita,
			Quantidade:   ing.Quantidade,
			Unidade:      ing.Unidade,
			Custo:        ing.Custo,
			CustoTotal:   ing.CustoTotal,
			Etapa:        ing.Etapa,
		}
		if ing.ProdutoID != nil {
			pid := ing.ProdutoID.String()
			item.ProdutoID = &pid
			if ing.Produto != nil {
				item.Nome = ing.Produto.Nome
			}
		}
		if ing.SubReceitaID != nil {
			sid := ing.SubReceitaID.String()
			item.SubReceitaID = &sid
			if ing.SubReceita != nil {
				item.Nome = ing.SubReceita.Nome
			}
		}
		resp.Ingredientes = append(resp.Ingredientes, item)
	}
	return resp
}
