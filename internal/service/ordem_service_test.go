package service_test

import (
	"context"
	"testing"
	"time"

	"panifpro/internal/dto"
	"panifpro/internal/model"
	"panifpro/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ordemFixture struct {
	empresaID  uuid.UUID
	produtos   *stubProdutoRepo
	receitas   *stubReceitaRepo
	ordens     *stubOrdemRepo
	movimentos *stubMovimentoRepo
	svc        service.OrdemService

	farinhaID  uuid.UUID
	aguaID     uuid.UUID
	fermentoID uuid.UUID
	subID      uuid.UUID
	finalID    uuid.UUID
}

// novoOrdemFixture seeds a small catalog:
//
//	Massa Fermentada (SUB-001, 4 kg): 3 kg farinha + 0.1 kg fermento
//	Pão Francês (REC-001, 10 kg / 200 un): 7 kg farinha + 4.5 kg água
//	                                       + 2 kg de Massa Fermentada
func novoOrdemFixture(t *testing.T) *ordemFixture {
	t.Helper()
	produtos := newStubProdutoRepo()
	receitas := newStubReceitaRepo(produtos)
	ordens := newStubOrdemRepo(receitas)
	movimentos := newStubMovimentoRepo()

	f := &ordemFixture{
		empresaID:  uuid.New(),
		produtos:   produtos,
		receitas:   receitas,
		ordens:     ordens,
		movimentos: movimentos,
		svc:        service.NewOrdemService(ordens, receitas, produtos, movimentos),
	}

	f.farinhaID = f.novaMateriaPrima(t, "Farinha de Trigo", "2.00", "20")
	f.aguaID = f.novaMateriaPrima(t, "Água", "0", "100")
	f.fermentoID = f.novaMateriaPrima(t, "Fermento Biológico", "10.00", "0.05")

	f.subID = f.novaReceita(t, "Massa Fermentada", "SUB-001", "4", nil)
	f.novaLinha(t, f.subID, f.farinhaID, "3", "Kg")
	f.novaLinha(t, f.subID, f.fermentoID, "0.1", "Kg")

	f.finalID = f.novaReceita(t, "Pão Francês", "REC-001", "10", intPtr(200))
	f.novaLinha(t, f.finalID, f.farinhaID, "7", "Kg")
	f.novaLinha(t, f.finalID, f.aguaID, "4.5", "Kg")
	f.novaLinhaSub(t, f.finalID, f.subID, "2")

	return f
}

func (f *ordemFixture) novaMateriaPrima(t *testing.T, nome, custo, estoque string) uuid.UUID {
	t.Helper()
	p := &model.Produto{
		EmpresaID:    f.empresaID,
		Nome:         nome,
		Unidade:      "Kg",
		Custo:        dec(t, custo),
		EstoqueAtual: dec(t, estoque),
		Ativo:        true,
	}
	require.NoError(t, f.produtos.Create(context.Background(), p))
	return p.ID
}

func (f *ordemFixture) novaReceita(t *testing.T, nome, codigo, rendKg string, rendUn *int) uuid.UUID {
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

func (f *ordemFixture) novaLinha(t *testing.T, receitaID, produtoID uuid.UUID, qtd, unidade string) {
	t.Helper()
	require.NoError(t, f.receitas.CreateIngredienteTx(nil, &model.IngredienteReceita{
		ReceitaID:  receitaID,
		ProdutoID:  &produtoID,
		Quantidade: dec(t, qtd),
		Unidade:    unidade,
	}))
}

func (f *ordemFixture) novaLinhaSub(t *testing.T, receitaID, subID uuid.UUID, qtd string) {
	t.Helper()
	require.NoError(t, f.receitas.CreateIngredienteTx(nil, &model.IngredienteReceita{
		ReceitaID:    receitaID,
		SubReceitaID: &subID,
		EhSubReceita: true,
		Quantidade:   dec(t, qtd),
		Unidade:      "Kg",
	}))
}

func (f *ordemFixture) novaOrdem(t *testing.T, receitaID uuid.UUID, qtd, unidade string) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Criar(context.Background(), f.empresaID, dto.CriarOrdemRequest{
		DataProgramada: time.Now().Add(24 * time.Hour),
		Itens: []dto.ItemOrdemRequest{
			{ReceitaID: receitaID.String(), Quantidade: dec(t, qtd), Unidade: unidade},
		},
	})
	require.NoError(t, err)
	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	return id
}

func materialPorNome(t *testing.T, itens []dto.MaterialItem, nome string) dto.MaterialItem {
	t.Helper()
	for _, item := range itens {
		if item.Nome == nome {
			return item
		}
	}
	t.Fatalf("material %q ausente", nome)
	return dto.MaterialItem{}
}

func TestCriarOrdem_Validacoes(t *testing.T) {
	f := novoOrdemFixture(t)
	ctx := context.Background()
	amanha := time.Now().Add(24 * time.Hour)

	_, err := f.svc.Criar(ctx, f.empresaID, dto.CriarOrdemRequest{
		DataProgramada: amanha,
		Itens: []dto.ItemOrdemRequest{
			{ReceitaID: f.finalID.String(), Quantidade: decimal.Zero, Unidade: "Kg"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantidade deve ser maior que zero")

	// SUB-001 has no discrete yield, planning it in units is refused.
	_, err = f.svc.Criar(ctx, f.empresaID, dto.CriarOrdemRequest{
		DataProgramada: amanha,
		Itens: []dto.ItemOrdemRequest{
			{ReceitaID: f.subID.String(), Quantidade: dec(t, "50"), Unidade: "UN"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendimento em unidades")

	resp, err := f.svc.Criar(ctx, f.empresaID, dto.CriarOrdemRequest{
		DataProgramada: amanha,
		Itens: []dto.ItemOrdemRequest{
			{ReceitaID: f.finalID.String(), Quantidade: dec(t, "20"), Unidade: "Kg"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "OP-0001", resp.Numero)
	assert.Equal(t, "pendente", resp.Status)
	require.Len(t, resp.Itens, 1)

	ordemID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	obtida, err := f.svc.Obter(ctx, f.empresaID, ordemID)
	require.NoError(t, err)
	assert.Equal(t, "Pão Francês", obtida.Itens[0].ReceitaNome)
}

func TestCalcularMateriais_AgregaExpansao(t *testing.T) {
	f := novoOrdemFixture(t)
	ctx := context.Background()
	ordemID := f.novaOrdem(t, f.finalID, "20", "Kg")

	resp, err := f.svc.CalcularMateriais(ctx, f.empresaID, ordemID)
	require.NoError(t, err)
	assert.Empty(t, resp.Avisos)
	require.Len(t, resp.Materiais, 3)

	// 20 kg doubles the recipe: 14 kg direct flour plus the 4 kg
	// intermediate batch (3 kg flour, 0.1 kg yeast at that scale).
	farinha := materialPorNome(t, resp.Materiais, "Farinha de Trigo")
	assert.True(t, farinha.Quantidade.Equal(dec(t, "17")), "farinha = %s", farinha.Quantidade)

	agua := materialPorNome(t, resp.Materiais, "Água")
	assert.True(t, agua.Quantidade.Equal(dec(t, "9")))

	fermento := materialPorNome(t, resp.Materiais, "Fermento Biológico")
	assert.True(t, fermento.Quantidade.Equal(dec(t, "0.1")))
}

func TestCalcularMateriais_ConflitoDeUnidade(t *testing.T) {
	f := novoOrdemFixture(t)
	ctx := context.Background()

	// Second recipe uses flour in grams; the aggregate keeps summing
	// but must flag the mismatch.
	outraID := f.novaReceita(t, "Cobertura Crocante", "REC-002", "2", nil)
	f.novaLinha(t, outraID, f.farinhaID, "0.5", "g")

	resp, err := f.svc.Criar(ctx, f.empresaID, dto.CriarOrdemRequest{
		DataProgramada: time.Now().Add(24 * time.Hour),
		Itens: []dto.ItemOrdemRequest{
			{ReceitaID: f.finalID.String(), Quantidade: dec(t, "10"), Unidade: "Kg"},
			{ReceitaID: outraID.String(), Quantidade: dec(t, "2"), Unidade: "Kg"},
		},
	})
	require.NoError(t, err)
	ordemID, _ := uuid.Parse(resp.ID)

	materiais, err := f.svc.CalcularMateriais(ctx, f.empresaID, ordemID)
	require.NoError(t, err)
	require.Len(t, materiais.Avisos, 1)
	assert.Contains(t, materiais.Avisos[0], "unidades conflitantes")
	assert.Contains(t, materiais.Avisos[0], "Farinha de Trigo")
}

func TestCalcularPrePesagem_LotesAntesDosFinais(t *testing.T) {
	f := novoOrdemFixture(t)
	ctx := context.Background()
	ordemID := f.novaOrdem(t, f.finalID, "20", "Kg")

	resp, err := f.svc.CalcularPrePesagem(ctx, f.empresaID, ordemID)
	require.NoError(t, err)
	require.Len(t, resp.Lotes, 2)

	lote := resp.Lotes[0]
	assert.True(t, lote.SubReceita)
	assert.Equal(t, "Massa Fermentada", lote.Nome)
	assert.True(t, lote.AlvoKg.Equal(dec(t, "4")))
	require.Len(t, lote.Linhas, 2)
	assert.Equal(t, "Farinha de Trigo", lote.Linhas[0].Nome)
	assert.True(t, lote.Linhas[0].Quantidade.Equal(dec(t, "3")))

	final := resp.Lotes[1]
	assert.False(t, final.SubReceita)
	assert.Equal(t, "Pão Francês", final.Nome)
	assert.True(t, final.AlvoKg.Equal(dec(t, "20")))
	require.Len(t, final.Linhas, 3)

	// Sub-recipe batch weighed first, raw materials after, by name.
	assert.Equal(t, "Massa Fermentada", final.Linhas[0].Nome)
	assert.True(t, final.Linhas[0].SubReceita)
	assert.True(t, final.Linhas[0].Quantidade.Equal(dec(t, "4")))
	assert.Equal(t, "Farinha de Trigo", final.Linhas[1].Nome)
	assert.True(t, final.Linhas[1].Quantidade.Equal(dec(t, "14")))
	assert.Equal(t, "Água", final.Linhas[2].Nome)
	assert.True(t, final.Linhas[2].Quantidade.Equal(dec(t, "9")))
}

func TestCalcularPrePesagem_ItemEmUnidades(t *testing.T) {
	f := novoOrdemFixture(t)
	ctx := context.Background()

	// 100 un × (10 kg / 200 un) = 5 kg alvo.
	ordemID := f.novaOrdem(t, f.finalID, "100", "UN")

	resp, err := f.svc.CalcularPrePesagem(ctx, f.empresaID, ordemID)
	require.NoError(t, err)
	require.Len(t, resp.Lotes, 2)
	assert.True(t, resp.Lotes[1].AlvoKg.Equal(dec(t, "5")))
}

func TestAtualizarStatus_Transicoes(t *testing.T) {
	f := novoOrdemFixture(t)
	ctx := context.Background()
	ordemID := f.novaOrdem(t, f.finalID, "10", "Kg")

	_, err := f.svc.AtualizarStatus(ctx, f.empresaID, ordemID, "concluida")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirmação da ordem")

	resp, err := f.svc.AtualizarStatus(ctx, f.empresaID, ordemID, "em_andamento")
	require.NoError(t, err)
	assert.Equal(t, "em_andamento", resp.Status)

	_, err = f.svc.AtualizarStatus(ctx, f.empresaID, ordemID, "pendente")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transição de status inválida")

	resp, err = f.svc.AtualizarStatus(ctx, f.empresaID, ordemID, "cancelada")
	require.NoError(t, err)
	assert.Equal(t, "cancelada", resp.Status)
}

func TestAtualizarOrdem_ItensSoPendente(t *testing.T) {
	f := novoOrdemFixture(t)
	ctx := context.Background()
	ordemID := f.novaOrdem(t, f.finalID, "10", "Kg")

	_, err := f.svc.AtualizarStatus(ctx, f.empresaID, ordemID, "em_andamento")
	require.NoError(t, err)

	_, err = f.svc.Atualizar(ctx, f.empresaID, ordemID, dto.AtualizarOrdemRequest{
		Itens: []dto.ItemOrdemRequest{
			{ReceitaID: f.subID.String(), Quantidade: dec(t, "4"), Unidade: "Kg"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pendente")
}

func TestConfirmarOrdem_BaixaEstoque(t *testing.T) {
	f := novoOrdemFixture(t)
	ctx := context.Background()
	ordemID := f.novaOrdem(t, f.finalID, "20", "Kg")

	resp, err := f.svc.Confirmar(ctx, f.empresaID, ordemID)
	require.NoError(t, err)
	assert.Equal(t, "concluida", resp.Status)
	require.Len(t, resp.Baixas, 3)

	// Yeast stock was 0.05 kg against a 0.1 kg need.
	require.Len(t, resp.Insuficientes, 1)
	assert.Equal(t, "Fermento Biológico", resp.Insuficientes[0].Nome)

	farinha, err := f.produtos.FindByID(ctx, f.empresaID, f.farinhaID)
	require.NoError(t, err)
	assert.True(t, farinha.EstoqueAtual.Equal(dec(t, "3")), "estoque farinha = %s", farinha.EstoqueAtual)

	fermento, err := f.produtos.FindByID(ctx, f.empresaID, f.fermentoID)
	require.NoError(t, err)
	assert.True(t, fermento.EstoqueAtual.Equal(dec(t, "-0.05")))

	require.Len(t, f.movimentos.movimentos, 3)
	for _, mov := range f.movimentos.movimentos {
		assert.Equal(t, "producao", mov.Tipo)
		assert.Contains(t, mov.Motivo, "OP-0001")
		require.NotNil(t, mov.ReferenciaID)
		assert.Equal(t, ordemID, *mov.ReferenciaID)
		assert.True(t, mov.Quantidade.IsNegative())
	}

	ordem, err := f.svc.Obter(ctx, f.empresaID, ordemID)
	require.NoError(t, err)
	assert.Equal(t, "concluida", ordem.Status)

	_, err = f.svc.Confirmar(ctx, f.empresaID, ordemID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "não pode ser confirmada")
}
