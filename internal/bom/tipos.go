// Package bom implementa o núcleo de fichas técnicas: expansão recursiva
// de ingredientes (BOM), agregação de matérias-primas, cálculo de custo e
// ordenação topológica por dependência entre receitas.
//
// O pacote é puro: não conhece GORM nem HTTP. Os dados chegam através da
// interface Fonte, implementada pela camada de serviço sobre os
// repositórios do catálogo.
package bom

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receita is the slice of recipe state the core needs.
// RendimentoUnidades = 0 means the recipe has no discrete yield.
type Receita struct {
	ID                 uuid.UUID
	Nome               string
	Codigo             string
	RendimentoKg       decimal.Decimal
	RendimentoUnidades int
	CustoKg            decimal.Decimal
}

// Ingrediente is one BOM line, already joined with its referenced
// product or sub-recipe.
//
// CustoUnitario is the resolved unit cost: produto.Custo for raw
// materials, subreceita.CustoKg for sub-recipe lines.
// NaoResolvido=true marks a dangling reference (the product or
// sub-recipe no longer exists); expansion and roll-up skip the line
// with a logged warning instead of failing.
type Ingrediente struct {
	ID            uuid.UUID
	EhSubReceita  bool
	ProdutoID     *uuid.UUID
	SubReceitaID  *uuid.UUID
	Nome          string
	Quantidade    decimal.Decimal
	Unidade       string
	CustoUnitario decimal.Decimal
	// Etapa is the preparation stage label, carried through for the
	// pre-weighing sheets.
	Etapa        string
	NaoResolvido bool
}

// Fonte feeds recipe rows to the expander.
// Receita returns (nil, nil) when the id does not resolve to an active
// recipe; soft-deleted rows must never be visible here.
type Fonte interface {
	Receita(ctx context.Context, id uuid.UUID) (*Receita, error)
	Ingredientes(ctx context.Context, receitaID uuid.UUID) ([]Ingrediente, error)
}
