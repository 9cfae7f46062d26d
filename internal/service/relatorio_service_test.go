package service_test

import (
	"context"
	"testing"
	"time"

	"panifpro/internal/dto"
	"panifpro/internal/model"
	"panifpro/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGerarRelatorio_RegistraPendente(t *testing.T) {
	produtos := newStubProdutoRepo()
	receitas := newStubReceitaRepo(produtos)
	ordens := newStubOrdemRepo(receitas)
	relatorios := newStubRelatorioRepo()
	empresaID := uuid.New()

	ordem := &model.OrdemProducao{
		EmpresaID:      empresaID,
		Numero:         "OP-0001",
		DataProgramada: time.Now(),
		Status:         "pendente",
	}
	require.NoError(t, ordens.Create(context.Background(), ordem))

	// Without a dispatcher the row still lands as "pendente"; only the
	// retry cron would pick it up later.
	svc := service.NewRelatorioService(relatorios, ordens, nil)

	resp, err := svc.Gerar(context.Background(), empresaID, ordem.ID, dto.GerarRelatorioRequest{
		Tipo:  "materiais_pdf",
		Email: strPtr("producao@padaria.com.br"),
	})
	require.NoError(t, err)
	assert.Equal(t, "pendente", resp.Status)
	assert.Equal(t, "materiais_pdf", resp.Tipo)
	assert.Nil(t, resp.ArquivoPath)

	listados, err := svc.ListarPorOrdem(context.Background(), empresaID, ordem.ID)
	require.NoError(t, err)
	require.Len(t, listados, 1)
	assert.Equal(t, resp.ID, listados[0].ID)
}

func TestGerarRelatorio_OrdemDeOutraEmpresa(t *testing.T) {
	produtos := newStubProdutoRepo()
	receitas := newStubReceitaRepo(produtos)
	ordens := newStubOrdemRepo(receitas)
	relatorios := newStubRelatorioRepo()

	ordem := &model.OrdemProducao{
		EmpresaID:      uuid.New(),
		Numero:         "OP-0001",
		DataProgramada: time.Now(),
		Status:         "pendente",
	}
	require.NoError(t, ordens.Create(context.Background(), ordem))

	svc := service.NewRelatorioService(relatorios, ordens, nil)

	outraEmpresa := uuid.New()
	_, err := svc.Gerar(context.Background(), outraEmpresa, ordem.ID, dto.GerarRelatorioRequest{Tipo: "materiais_pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "não encontrada")
}

func TestObterRelatorio_IsoladoPorEmpresa(t *testing.T) {
	relatorios := newStubRelatorioRepo()
	empresaID := uuid.New()

	rel := &model.RelatorioProducao{
		EmpresaID: empresaID,
		OrdemID:   uuid.New(),
		Tipo:      "pre_pesagem_pdf",
		Status:    "gerado",
	}
	require.NoError(t, relatorios.Create(context.Background(), rel))

	svc := service.NewRelatorioService(relatorios, newStubOrdemRepo(newStubReceitaRepo(newStubProdutoRepo())), nil)

	resp, err := svc.Obter(context.Background(), empresaID, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, "gerado", resp.Status)

	_, err = svc.Obter(context.Background(), uuid.New(), rel.ID)
	require.Error(t, err)
}
