package service_test

import (
	"context"
	"testing"

	"panifpro/internal/dto"
	"panifpro/internal/model"
	"panifpro/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type estoqueFixture struct {
	empresaID  uuid.UUID
	produtos   *stubProdutoRepo
	movimentos *stubMovimentoRepo
	svc        service.EstoqueService
}

func novoEstoqueFixture() *estoqueFixture {
	produtos := newStubProdutoRepo()
	movimentos := newStubMovimentoRepo()
	return &estoqueFixture{
		empresaID:  uuid.New(),
		produtos:   produtos,
		movimentos: movimentos,
		svc:        service.NewEstoqueService(produtos, movimentos),
	}
}

func (f *estoqueFixture) novoProduto(t *testing.T, nome, estoque, minimo string) uuid.UUID {
	t.Helper()
	p := &model.Produto{
		EmpresaID:     f.empresaID,
		Nome:          nome,
		Unidade:       "Kg",
		EstoqueAtual:  dec(t, estoque),
		EstoqueMinimo: dec(t, minimo),
		Ativo:         true,
	}
	require.NoError(t, f.produtos.Create(context.Background(), p))
	return p.ID
}

func TestAjustarEstoque_EntradaESaida(t *testing.T) {
	f := novoEstoqueFixture()
	ctx := context.Background()
	produtoID := f.novoProduto(t, "Farinha de Trigo", "10", "5")

	resp, err := f.svc.Ajustar(ctx, f.empresaID, produtoID, dto.AjusteEstoqueRequest{
		Quantidade: dec(t, "25"),
		Motivo:     "Recebimento fornecedor",
	})
	require.NoError(t, err)
	assert.Equal(t, "entrada", resp.Tipo)
	assert.True(t, resp.EstoqueAnterior.Equal(dec(t, "10")))
	assert.True(t, resp.EstoqueNovo.Equal(dec(t, "35")))
	assert.Equal(t, "Farinha de Trigo", resp.ProdutoNome)

	resp, err = f.svc.Ajustar(ctx, f.empresaID, produtoID, dto.AjusteEstoqueRequest{
		Quantidade: dec(t, "-5"),
		Motivo:     "Perda por validade",
	})
	require.NoError(t, err)
	assert.Equal(t, "saida", resp.Tipo)
	assert.True(t, resp.EstoqueNovo.Equal(dec(t, "30")))

	produto, err := f.produtos.FindByID(ctx, f.empresaID, produtoID)
	require.NoError(t, err)
	assert.True(t, produto.EstoqueAtual.Equal(dec(t, "30")))

	movimentos, err := f.svc.ListarMovimentos(ctx, f.empresaID, dto.MovimentoEstoqueFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), movimentos.Total)
}

func TestAjustarEstoque_ProdutoInexistente(t *testing.T) {
	f := novoEstoqueFixture()

	_, err := f.svc.Ajustar(context.Background(), f.empresaID, uuid.New(), dto.AjusteEstoqueRequest{
		Quantidade: dec(t, "1"),
		Motivo:     "Teste",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produto não encontrado")
}

func TestAlertasEstoque_AbaixoDoMinimo(t *testing.T) {
	f := novoEstoqueFixture()
	ctx := context.Background()

	f.novoProduto(t, "Farinha de Trigo", "50", "20")
	baixoID := f.novoProduto(t, "Fermento Biológico", "0.4", "0.5")

	alertas, err := f.svc.Alertas(ctx, f.empresaID)
	require.NoError(t, err)
	require.Len(t, alertas, 1)
	assert.Equal(t, baixoID.String(), alertas[0].ProdutoID)
	assert.Equal(t, "Fermento Biológico", alertas[0].Nome)
}
