package bom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrReceitaNaoEncontrada is returned when the root recipe of an
// expansion does not resolve.
var ErrReceitaNaoEncontrada = errors.New("receita não encontrada")

// RendimentoInvalidoError: rendimento_kg <= 0 — fatal, the operation must
// not proceed with the division.
type RendimentoInvalidoError struct {
	ReceitaID uuid.UUID
	Nome      string
}

func (e *RendimentoInvalidoError) Error() string {
	return fmt.Sprintf("receita %q (%s) tem rendimento_kg inválido (<= 0)", e.Nome, e.ReceitaID)
}

// CicloError: a BOM walk revisited a recipe already on the current
// recursion path. Cadeia holds the offending id chain, root first,
// repeated recipe last.
type CicloError struct {
	Cadeia []uuid.UUID
	Nomes  []string
}

func (e *CicloError) Error() string {
	if len(e.Nomes) > 0 {
		return "ciclo detectado na ficha técnica: " + strings.Join(e.Nomes, " -> ")
	}
	ids := make([]string, len(e.Cadeia))
	for i, id := range e.Cadeia {
		ids[i] = id.String()
	}
	return "ciclo detectado na ficha técnica: " + strings.Join(ids, " -> ")
}
