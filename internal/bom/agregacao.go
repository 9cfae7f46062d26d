package bom

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TotalMaterial is the merged requirement for one raw material across an
// entire expansion (or across several order lines).
type TotalMaterial struct {
	ProdutoID  uuid.UUID
	Nome       string
	Quantidade decimal.Decimal
	Unidade    string
}

// ConflitoUnidade flags a raw material that appeared with more than one
// unit across occurrences. The quantities were still summed under the
// first-seen unit; the conflict is a data-quality finding for the
// caller to surface, never silently resolved.
type ConflitoUnidade struct {
	ProdutoID uuid.UUID
	Nome      string
	Unidades  []string
}

// AgregarNecessidades merges requirements by product id, summing
// quantities. Name and unit follow the first occurrence. Output is
// sorted by name for deterministic print/export ordering.
func AgregarNecessidades(necessidades []Necessidade) ([]TotalMaterial, []ConflitoUnidade) {
	totais := make(map[uuid.UUID]*TotalMaterial)
	unidades := make(map[uuid.UUID]map[string]bool)
	ordem := make([]uuid.UUID, 0, len(necessidades))

	for _, n := range necessidades {
		t, ok := totais[n.ProdutoID]
		if !ok {
			t = &TotalMaterial{ProdutoID: n.ProdutoID, Nome: n.Nome, Unidade: n.Unidade}
			totais[n.ProdutoID] = t
			unidades[n.ProdutoID] = make(map[string]bool)
			ordem = append(ordem, n.ProdutoID)
		}
		t.Quantidade = t.Quantidade.Add(n.Quantidade)
		unidades[n.ProdutoID][n.Unidade] = true
	}

	var conflitos []ConflitoUnidade
	saida := make([]TotalMaterial, 0, len(ordem))
	for _, id := range ordem {
		saida = append(saida, *totais[id])
		if len(unidades[id]) > 1 {
			us := make([]string, 0, len(unidades[id]))
			for u := range unidades[id] {
				us = append(us, u)
			}
			sort.Strings(us)
			conflitos = append(conflitos, ConflitoUnidade{
				ProdutoID: id,
				Nome:      totais[id].Nome,
				Unidades:  us,
			})
		}
	}

	sort.SliceStable(saida, func(i, j int) bool { return saida[i].Nome < saida[j].Nome })
	return saida, conflitos
}
