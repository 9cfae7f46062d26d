package bom_test

import (
	"testing"

	"panifpro/internal/bom"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indiceDe(t *testing.T, ordem []uuid.UUID, id uuid.UUID) int {
	t.Helper()
	for i, o := range ordem {
		if o == id {
			return i
		}
	}
	t.Fatalf("id %s ausente da ordenação", id)
	return -1
}

func TestOrdenarPorDependencia_SubReceitasAntesDosPais(t *testing.T) {
	// pão → massa → fermento natural: duas camadas de subreceita, o caso
	// que o corte ingênuo por prefixo de código não ordenava.
	pao := uuid.New()
	massa := uuid.New()
	fermento := uuid.New()

	ordem, err := bom.OrdenarPorDependencia(
		[]uuid.UUID{pao, massa, fermento},
		map[uuid.UUID][]uuid.UUID{
			pao:   {massa},
			massa: {fermento},
		},
	)
	require.NoError(t, err)
	require.Len(t, ordem, 3)

	assert.Less(t, indiceDe(t, ordem, fermento), indiceDe(t, ordem, massa))
	assert.Less(t, indiceDe(t, ordem, massa), indiceDe(t, ordem, pao))
}

func TestOrdenarPorDependencia_DependenciaCompartilhada(t *testing.T) {
	bolo := uuid.New()
	torta := uuid.New()
	recheio := uuid.New()

	ordem, err := bom.OrdenarPorDependencia(
		[]uuid.UUID{bolo, torta, recheio},
		map[uuid.UUID][]uuid.UUID{
			bolo:  {recheio},
			torta: {recheio},
		},
	)
	require.NoError(t, err)
	require.Len(t, ordem, 3)
	assert.Less(t, indiceDe(t, ordem, recheio), indiceDe(t, ordem, bolo))
	assert.Less(t, indiceDe(t, ordem, recheio), indiceDe(t, ordem, torta))
}

func TestOrdenarPorDependencia_Ciclo(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	_, err := bom.OrdenarPorDependencia(
		[]uuid.UUID{a, b},
		map[uuid.UUID][]uuid.UUID{a: {b}, b: {a}},
	)
	var ciclo *bom.CicloError
	require.ErrorAs(t, err, &ciclo)
}
