package service

import (
	"context"
	"errors"

	"panifpro/internal/bom"
	"panifpro/internal/model"
	"panifpro/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fonteCatalogo adapts the recipe repository to the bom.Fonte interface.
// One instance is built per request, pinned to the caller's tenant.
type fonteCatalogo struct {
	receitas  repository.ReceitaRepository
	empresaID uuid.UUID
}

func novaFonteCatalogo(receitas repository.ReceitaRepository, empresaID uuid.UUID) bom.Fonte {
	return &fonteCatalogo{receitas: receitas, empresaID: empresaID}
}

func (f *fonteCatalogo) Receita(ctx context.Context, id uuid.UUID) (*bom.Receita, error) {
	rec, err := f.receitas.FindByID(ctx, f.empresaID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return receitaParaBOM(rec), nil
}

func (f *fonteCatalogo) Ingredientes(ctx context.Context, receitaID uuid.UUID) ([]bom.Ingrediente, error) {
	linhas, err := f.receitas.ListIngredientes(ctx, receitaID)
	if err != nil {
		return nil, err
	}
	out := make([]bom.Ingrediente, 0, len(linhas))
	for _, l := range linhas {
		out = append(out, ingredienteParaBOM(&l))
	}
	return out, nil
}

func receitaParaBOM(rec *model.Receita) *bom.Receita {
	unidades := 0
	if rec.RendimentoUnidades != nil {
		unidades = *rec.RendimentoUnidades
	}
	return &bom.Receita{
		ID:                 rec.ID,
		Nome:               rec.Nome,
		Codigo:             rec.Codigo,
		RendimentoKg:       rec.RendimentoKg,
		RendimentoUnidades: unidades,
		CustoKg:            rec.CustoKg,
	}
}

// ingredienteParaBOM resolves the unit cost of one BOM line: the linked
// product's cost for raw materials, the sub-recipe's CustoKg otherwise.
// Lines whose reference is missing or soft-deleted come back flagged
// NaoResolvido so the core skips them instead of pricing stale data.
func ingredienteParaBOM(l *model.IngredienteReceita) bom.Ingrediente {
	ing := bom.Ingrediente{
		ID:           l.ID,
		EhSubReceita: l.EhSubReceita,
		ProdutoID:    l.ProdutoID,
		SubReceitaID: l.SubReceitaID,
		Quantidade:   l.Quantidade,
		Unidade:      l.Unidade,
		Etapa:        l.Etapa,
	}
	if l.EhSubReceita {
		if l.SubReceita == nil || !l.SubReceita.Ativo {
			ing.NaoResolvido = true
			return ing
		}
		ing.Nome = l.SubReceita.Nome
		ing.CustoUnitario = l.SubReceita.CustoKg
		return ing
	}
	if l.Produto == nil || !l.Produto.Ativo {
		ing.NaoResolvido = true
		return ing
	}
	ing.Nome = l.Produto.Nome
	ing.CustoUnitario = l.Produto.Custo
	return ing
}
