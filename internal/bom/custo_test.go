package bom_test

import (
	"testing"

	"panifpro/internal/bom"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receitaPaoFrances() (*bom.Receita, []bom.Ingrediente) {
	pid := uuid.New()
	sid := uuid.New()
	r := &bom.Receita{
		ID:                 uuid.New(),
		Nome:               "Pão Francês",
		Codigo:             "REC-010",
		RendimentoKg:       decimal.NewFromInt(10),
		RendimentoUnidades: 100,
	}
	ingredientes := []bom.Ingrediente{
		{
			ID:            uuid.New(),
			ProdutoID:     &pid,
			Nome:          "Farinha",
			Quantidade:    decimal.NewFromInt(6),
			Unidade:       "Kg",
			CustoUnitario: decimal.NewFromFloat(2.00),
		},
		{
			ID:            uuid.New(),
			EhSubReceita:  true,
			SubReceitaID:  &sid,
			Nome:          "Massa Fermentada",
			Quantidade:    decimal.NewFromInt(4),
			Unidade:       "Kg",
			CustoUnitario: decimal.NewFromFloat(1.50),
		},
	}
	return r, ingredientes
}

func TestCalcularCusto_CenarioPaoFrances(t *testing.T) {
	// 6×2.00 + 4×1.50 = 18.00 → custo/kg 1.80, custo/unidade 0.18
	r, ingredientes := receitaPaoFrances()

	resumo, err := bom.CalcularCusto(r, ingredientes)
	require.NoError(t, err)

	assert.True(t, resumo.CustoTotal.Equal(decimal.NewFromFloat(18.00)), "total: %s", resumo.CustoTotal)
	assert.True(t, resumo.CustoKg.Equal(decimal.NewFromFloat(1.80)), "custo/kg: %s", resumo.CustoKg)
	require.NotNil(t, resumo.CustoUnidade)
	assert.True(t, resumo.CustoUnidade.Equal(decimal.NewFromFloat(0.18)), "custo/un: %s", resumo.CustoUnidade)

	require.Len(t, resumo.Linhas, 2)
	assert.True(t, resumo.Linhas[0].CustoTotal.Equal(decimal.NewFromInt(12)))
	assert.True(t, resumo.Linhas[1].CustoTotal.Equal(decimal.NewFromInt(6)))
}

func TestCalcularCusto_Idempotente(t *testing.T) {
	r, ingredientes := receitaPaoFrances()

	primeiro, err := bom.CalcularCusto(r, ingredientes)
	require.NoError(t, err)
	segundo, err := bom.CalcularCusto(r, ingredientes)
	require.NoError(t, err)

	assert.True(t, primeiro.CustoKg.Equal(segundo.CustoKg))
	assert.True(t, primeiro.CustoUnidade.Equal(*segundo.CustoUnidade))
}

func TestCalcularCusto_SemRendimentoUnidades(t *testing.T) {
	r, ingredientes := receitaPaoFrances()
	r.RendimentoUnidades = 0

	resumo, err := bom.CalcularCusto(r, ingredientes)
	require.NoError(t, err)
	assert.Nil(t, resumo.CustoUnidade)
}

func TestCalcularCusto_RendimentoInvalido(t *testing.T) {
	r, ingredientes := receitaPaoFrances()
	r.RendimentoKg = decimal.Zero

	_, err := bom.CalcularCusto(r, ingredientes)
	var rendimento *bom.RendimentoInvalidoError
	require.ErrorAs(t, err, &rendimento)
}

func TestCalcularCusto_IngredienteNaoResolvidoIgnorado(t *testing.T) {
	r, ingredientes := receitaPaoFrances()
	ingredientes = append(ingredientes, bom.Ingrediente{
		ID:            uuid.New(),
		Nome:          "Produto Excluído",
		Quantidade:    decimal.NewFromInt(100),
		CustoUnitario: decimal.NewFromInt(999),
		NaoResolvido:  true,
	})

	resumo, err := bom.CalcularCusto(r, ingredientes)
	require.NoError(t, err)
	assert.True(t, resumo.CustoTotal.Equal(decimal.NewFromInt(18)), "linha não resolvida não entra no custo")
	assert.Len(t, resumo.Linhas, 2)
}
