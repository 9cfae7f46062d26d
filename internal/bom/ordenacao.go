package bom

import "github.com/google/uuid"

// OrdenarPorDependencia returns the recipe ids ordered so that every
// sub-recipe precedes the recipes that consume it, at any nesting depth.
// arestas maps a recipe to the sub-recipes it uses. Nodes absent from
// arestas are treated as leaves. Returns CicloError when the dependency
// graph is cyclic.
//
// The batch cost recompute runs recipes in this order, replacing the
// naive "regular before SUB-coded" two-phase split that only held for
// one level of nesting.
func OrdenarPorDependencia(nos []uuid.UUID, arestas map[uuid.UUID][]uuid.UUID) ([]uuid.UUID, error) {
	const (
		branco = iota // not visited
		cinza         // on the current path
		preto         // done
	)
	cor := make(map[uuid.UUID]int, len(nos))
	ordem := make([]uuid.UUID, 0, len(nos))

	var visitar func(id uuid.UUID, caminho []uuid.UUID) error
	visitar = func(id uuid.UUID, caminho []uuid.UUID) error {
		switch cor[id] {
		case preto:
			return nil
		case cinza:
			return &CicloError{Cadeia: append(append([]uuid.UUID{}, caminho...), id)}
		}
		cor[id] = cinza
		caminho = append(caminho, id)
		for _, dep := range arestas[id] {
			if err := visitar(dep, caminho); err != nil {
				return err
			}
		}
		cor[id] = preto
		ordem = append(ordem, id)
		return nil
	}

	for _, id := range nos {
		if err := visitar(id, nil); err != nil {
			return nil, err
		}
	}
	return ordem, nil
}
