package bom

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// LinhaCusto is the per-ingredient cost snapshot computed by the
// roll-up: unit cost at calculation time and unit cost × quantity.
type LinhaCusto struct {
	IngredienteID uuid.UUID
	CustoUnitario decimal.Decimal
	CustoTotal    decimal.Decimal
}

// ResumoCusto is the result of one single-level cost roll-up.
// CustoUnidade is nil when the recipe declares no discrete yield.
type ResumoCusto struct {
	Linhas       []LinhaCusto
	CustoTotal   decimal.Decimal
	CustoKg      decimal.Decimal
	CustoUnidade *decimal.Decimal
}

// CalcularCusto rolls up a recipe's cost from its direct ingredients.
// The roll-up is single-level: sub-recipe lines use the sub-recipe's own
// already-current CustoKg, never a recursive expansion. Ingredients with
// dangling references are skipped with a warning.
func CalcularCusto(r *Receita, ingredientes []Ingrediente) (*ResumoCusto, error) {
	if r.RendimentoKg.LessThanOrEqual(decimal.Zero) {
		return nil, &RendimentoInvalidoError{ReceitaID: r.ID, Nome: r.Nome}
	}

	resumo := &ResumoCusto{Linhas: make([]LinhaCusto, 0, len(ingredientes))}
	for _, ing := range ingredientes {
		if ing.NaoResolvido {
			log.Warn().
				Str("receita_id", r.ID.String()).
				Str("ingrediente_id", ing.ID.String()).
				Msg("bom: ingrediente sem produto/subreceita resolvido, ignorado no custo")
			continue
		}
		linha := LinhaCusto{
			IngredienteID: ing.ID,
			CustoUnitario: ing.CustoUnitario,
			CustoTotal:    ing.CustoUnitario.Mul(ing.Quantidade),
		}
		resumo.Linhas = append(resumo.Linhas, linha)
		resumo.CustoTotal = resumo.CustoTotal.Add(linha.CustoTotal)
	}

	resumo.CustoKg = resumo.CustoTotal.Div(r.RendimentoKg)
	if r.RendimentoUnidades > 0 {
		cu := resumo.CustoTotal.Div(decimal.NewFromInt(int64(r.RendimentoUnidades)))
		resumo.CustoUnidade = &cu
	}
	return resumo, nil
}
