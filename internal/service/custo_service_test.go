package service_test

import (
	"context"
	"testing"

	"panifpro/internal/model"
	"panifpro/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type custoFixture struct {
	empresaID uuid.UUID
	produtos  *stubProdutoRepo
	receitas  *stubReceitaRepo
	historico *stubHistoricoRepo
	svc       service.CustoService
}

func novoCustoFixture() *custoFixture {
	produtos := newStubProdutoRepo()
	receitas := newStubReceitaRepo(produtos)
	historico := newStubHistoricoRepo()
	return &custoFixture{
		empresaID: uuid.New(),
		produtos:  produtos,
		receitas:  receitas,
		historico: historico,
		svc:       service.NewCustoService(receitas, produtos, historico, nil),
	}
}

func (f *custoFixture) novaReceita(t *testing.T, nome, codigo, rendKg string, rendUn *int) uuid.UUID {
	t.Helper()
	rec := &model.Receita{
		EmpresaID:          f.empresaID,
		Nome:               nome,
		Codigo:             codigo,
		RendimentoKg:       dec(t, rendKg),
		RendimentoUnidades: rendUn,
		Ativo:              true,
	}
	require.NoError(t, f.receitas.Create(context.Background(), nil, rec))
	return rec.ID
}

func (f *custoFixture) novaLinhaProduto(t *testing.T, receitaID, produtoID uuid.UUID, qtd string) uuid.UUID {
	t.Helper()
	ing := &model.IngredienteReceita{
		ReceitaID:  receitaID,
		ProdutoID:  &produtoID,
		Quantidade: dec(t, qtd),
		Unidade:    "Kg",
	}
	require.NoError(t, f.receitas.CreateIngredienteTx(nil, ing))
	return ing.ID
}

func (f *custoFixture) novaLinhaSub(t *testing.T, receitaID, subID uuid.UUID, qtd string) {
	t.Helper()
	ing := &model.IngredienteReceita{
		ReceitaID:    receitaID,
		SubReceitaID: &subID,
		EhSubReceita: true,
		Quantidade:   dec(t, qtd),
		Unidade:      "Kg",
	}
	require.NoError(t, f.receitas.CreateIngredienteTx(nil, ing))
}

func (f *custoFixture) novaMateriaPrima(t *testing.T, nome, custo string) uuid.UUID {
	t.Helper()
	p := &model.Produto{EmpresaID: f.empresaID, Nome: nome, Unidade: "Kg", Custo: dec(t, custo), Ativo: true}
	require.NoError(t, f.produtos.Create(context.Background(), p))
	return p.ID
}

func TestRecalcularCusto_SnapshotsEAgregados(t *testing.T) {
	f := novoCustoFixture()
	ctx := context.Background()

	farinha := f.novaMateriaPrima(t, "Farinha de Trigo", "2.00")
	sal := f.novaMateriaPrima(t, "Sal Refinado", "1.50")

	recID := f.novaReceita(t, "Pão Italiano", "REC-050", "10", nil)
	linhaFarinha := f.novaLinhaProduto(t, recID, farinha, "10")
	linhaSal := f.novaLinhaProduto(t, recID, sal, "0.2")

	resumo, err := f.svc.RecalcularCusto(ctx, f.empresaID, recID)
	require.NoError(t, err)
	require.Len(t, resumo.Linhas, 2)

	// 10×2.00 + 0.2×1.50 = 20.30 total over 10 kg.
	assert.True(t, resumo.CustoTotal.Equal(dec(t, "20.30")))
	assert.True(t, resumo.CustoKg.Equal(dec(t, "2.03")))
	assert.Nil(t, resumo.CustoUnidade)

	rec, err := f.receitas.FindByID(ctx, f.empresaID, recID)
	require.NoError(t, err)
	assert.True(t, rec.CustoKg.Equal(dec(t, "2.03")))

	for _, ing := range rec.Ingredientes {
		switch ing.ID {
		case linhaFarinha:
			assert.True(t, ing.Custo.Equal(dec(t, "2.00")))
			assert.True(t, ing.CustoTotal.Equal(dec(t, "20.00")))
		case linhaSal:
			assert.True(t, ing.Custo.Equal(dec(t, "1.50")))
			assert.True(t, ing.CustoTotal.Equal(dec(t, "0.30")))
		default:
			t.Fatalf("ingrediente inesperado %s", ing.ID)
		}
	}
}

func TestRecalcularCusto_PropagaProdutoEHistorico(t *testing.T) {
	f := novoCustoFixture()
	ctx := context.Background()

	farinha := f.novaMateriaPrima(t, "Farinha de Trigo", "2.00")
	recID := f.novaReceita(t, "Focaccia", "REC-060", "10", nil)
	f.novaLinhaProduto(t, recID, farinha, "10")

	espelho := &model.Produto{
		EmpresaID: f.empresaID,
		Nome:      "Focaccia",
		Unidade:   "Kg",
		Custo:     dec(t, "1.00"),
		ReceitaID: &recID,
		Ativo:     true,
	}
	require.NoError(t, f.produtos.Create(ctx, espelho))

	_, err := f.svc.RecalcularCusto(ctx, f.empresaID, recID)
	require.NoError(t, err)

	produto, err := f.produtos.FindByID(ctx, f.empresaID, espelho.ID)
	require.NoError(t, err)
	assert.True(t, produto.Custo.Equal(dec(t, "2.00")))

	require.Len(t, f.historico.registros, 1)
	reg := f.historico.registros[0]
	assert.Equal(t, espelho.ID, reg.ProdutoID)
	assert.Equal(t, "recalculo_custo", reg.Motivo)
	assert.True(t, reg.CustoAntes.Equal(dec(t, "1.00")))
	assert.True(t, reg.CustoDepois.Equal(dec(t, "2.00")))

	// Unchanged cost must not pile up history rows.
	_, err = f.svc.RecalcularCusto(ctx, f.empresaID, recID)
	require.NoError(t, err)
	assert.Len(t, f.historico.registros, 1)
}

func TestRecalcularTodos_SubReceitasPrimeiro(t *testing.T) {
	f := novoCustoFixture()
	ctx := context.Background()

	farinha := f.novaMateriaPrima(t, "Farinha de Trigo", "2.00")

	// Stored CustoKg of the sub starts stale at zero; only the
	// dependency-ordered batch gives the parent the fresh value.
	subID := f.novaReceita(t, "Massa Base", "SUB-001", "10", nil)
	f.novaLinhaProduto(t, subID, farinha, "10")

	paiID := f.novaReceita(t, "Pão Rústico", "REC-070", "5", nil)
	f.novaLinhaSub(t, paiID, subID, "5")

	resp, err := f.svc.RecalcularTodos(ctx, f.empresaID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Recalculadas)
	assert.Equal(t, 0, resp.ComErro)

	sub, err := f.receitas.FindByID(ctx, f.empresaID, subID)
	require.NoError(t, err)
	assert.True(t, sub.CustoKg.Equal(dec(t, "2.00")))

	pai, err := f.receitas.FindByID(ctx, f.empresaID, paiID)
	require.NoError(t, err)
	assert.True(t, pai.CustoKg.Equal(dec(t, "2.00")), "custo_kg do pai = %s", pai.CustoKg)
}

func TestRecalcularTodos_ColetaErros(t *testing.T) {
	f := novoCustoFixture()
	ctx := context.Background()

	farinha := f.novaMateriaPrima(t, "Farinha de Trigo", "2.00")

	boaID := f.novaReceita(t, "Baguete", "REC-080", "4", nil)
	f.novaLinhaProduto(t, boaID, farinha, "4")

	// Yield zero slips in straight through the stub, cost math must
	// refuse it without aborting the rest of the batch.
	f.novaReceita(t, "Receita Quebrada", "REC-090", "0", nil)

	resp, err := f.svc.RecalcularTodos(ctx, f.empresaID)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Recalculadas)
	assert.Equal(t, 1, resp.ComErro)
	require.Len(t, resp.Erros, 1)

	boa, err := f.receitas.FindByID(ctx, f.empresaID, boaID)
	require.NoError(t, err)
	assert.True(t, boa.CustoKg.Equal(dec(t, "2.00")))
}
