package bom

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Necessidade is one raw-material requirement emitted by the expansion,
// already scaled to the caller's target quantity.
type Necessidade struct {
	ProdutoID  uuid.UUID
	Nome       string
	Quantidade decimal.Decimal
	Unidade    string
}

// LoteSubReceita records one distinct sub-recipe reached during an
// expansion: how many times it was needed and the aggregate quantity,
// for the "weigh this batch as one" workflow.
type LoteSubReceita struct {
	ReceitaID    uuid.UUID
	Nome         string
	Codigo       string
	Ocorrencias  int
	QuantidadeKg decimal.Decimal
}

// Expansor walks a recipe's BOM recursively, rescaling ingredient
// quantities to the requested output and splicing sub-recipe ingredients
// in place of the sub-recipe itself.
type Expansor struct {
	fonte Fonte
}

func NewExpansor(fonte Fonte) *Expansor { return &Expansor{fonte: fonte} }

// Expandir returns the flat raw-material requirements to produce alvoKg
// of the given recipe. Ingredient quantities stored on a recipe are
// relative to its own declared yield, so each line is rescaled by
// quantidade/rendimento_kg × target before being emitted or recursed.
//
// Fails with RendimentoInvalidoError or CicloError; dangling ingredient
// references are skipped with a warning (best-effort expansion).
func (e *Expansor) Expandir(ctx context.Context, receitaID uuid.UUID, alvoKg decimal.Decimal) ([]Necessidade, error) {
	necessidades, _, err := e.ExpandirComLotes(ctx, receitaID, alvoKg)
	return necessidades, err
}

// ExpandirComLotes additionally returns one batch entry per distinct
// sub-recipe encountered, in first-seen order.
func (e *Expansor) ExpandirComLotes(ctx context.Context, receitaID uuid.UUID, alvoKg decimal.Decimal) ([]Necessidade, []LoteSubReceita, error) {
	w := &caminhada{fonte: e.fonte, lotes: make(map[uuid.UUID]*LoteSubReceita)}
	raiz, err := e.fonte.Receita(ctx, receitaID)
	if err != nil {
		return nil, nil, err
	}
	if raiz == nil {
		return nil, nil, ErrReceitaNaoEncontrada
	}
	if err := w.visitar(ctx, raiz, alvoKg); err != nil {
		return nil, nil, err
	}

	lotes := make([]LoteSubReceita, 0, len(w.ordemLotes))
	for _, id := range w.ordemLotes {
		lotes = append(lotes, *w.lotes[id])
	}
	return w.saida, lotes, nil
}

// caminhada carries the walk state: the explicit recursion path for
// cycle detection and the accumulated output.
type caminhada struct {
	fonte      Fonte
	caminho    []uuid.UUID
	nomes      []string
	saida      []Necessidade
	lotes      map[uuid.UUID]*LoteSubReceita
	ordemLotes []uuid.UUID
}

func (w *caminhada) visitar(ctx context.Context, r *Receita, alvoKg decimal.Decimal) error {
	for i, id := range w.caminho {
		if id == r.ID {
			return &CicloError{
				Cadeia: append(append([]uuid.UUID{}, w.caminho[i:]...), r.ID),
				Nomes:  append(append([]string{}, w.nomes[i:]...), r.Nome),
			}
		}
	}
	if r.RendimentoKg.LessThanOrEqual(decimal.Zero) {
		return &RendimentoInvalidoError{ReceitaID: r.ID, Nome: r.Nome}
	}

	w.caminho = append(w.caminho, r.ID)
	w.nomes = append(w.nomes, r.Nome)
	defer func() {
		w.caminho = w.caminho[:len(w.caminho)-1]
		w.nomes = w.nomes[:len(w.nomes)-1]
	}()

	ingredientes, err := w.fonte.Ingredientes(ctx, r.ID)
	if err != nil {
		return err
	}

	fator := alvoKg.Div(r.RendimentoKg)
	for _, ing := range ingredientes {
		if ing.NaoResolvido {
			log.Warn().
				Str("receita_id", r.ID.String()).
				Str("ingrediente_id", ing.ID.String()).
				Msg("bom: ingrediente sem produto/subreceita resolvido, ignorado na expansão")
			continue
		}
		escalada := ing.Quantidade.Mul(fator)

		if !ing.EhSubReceita {
			w.saida = append(w.saida, Necessidade{
				ProdutoID:  *ing.ProdutoID,
				Nome:       ing.Nome,
				Quantidade: escalada,
				Unidade:    ing.Unidade,
			})
			continue
		}

		sub, err := w.fonte.Receita(ctx, *ing.SubReceitaID)
		if err != nil {
			return err
		}
		if sub == nil {
			log.Warn().
				Str("receita_id", r.ID.String()).
				Str("subreceita_id", ing.SubReceitaID.String()).
				Msg("bom: subreceita inexistente ou excluída, ignorada na expansão")
			continue
		}

		lote, ok := w.lotes[sub.ID]
		if !ok {
			lote = &LoteSubReceita{ReceitaID: sub.ID, Nome: sub.Nome, Codigo: sub.Codigo}
			w.lotes[sub.ID] = lote
			w.ordemLotes = append(w.ordemLotes, sub.ID)
		}
		lote.Ocorrencias++
		lote.QuantidadeKg = lote.QuantidadeKg.Add(escalada)

		if err := w.visitar(ctx, sub, escalada); err != nil {
			return err
		}
	}
	return nil
}
