package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receita is a formula producing either a finished good or an
// intermediate (sub-recipe). The "SUB" code prefix marks sub-recipes.
// RendimentoKg must be > 0, enforced at save time, never defaulted.
// CustoKg / CustoUnidade are derived by the cost roll-up; they are never
// authoritative input.
type Receita struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Nome               string    `gorm:"not null;index"`
	Codigo             string    `gorm:"not null"`
	RendimentoKg       decimal.Decimal  `gorm:"type:decimal(12,3);not null"`
	RendimentoUnidades *int
	CustoKg            decimal.Decimal  `gorm:"type:decimal(12,4);not null;default:0"`
	CustoUnidade       *decimal.Decimal `gorm:"type:decimal(12,4)"`
	Ativo              bool             `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Ingredientes []IngredienteReceita `gorm:"foreignKey:ReceitaID;constraint:OnDelete:CASCADE"`
}

func (Receita) TableName() string { return "receitas" }

// EhSubReceita reports whether the code carries the "SUB" prefix.
func (r *Receita) EhSubReceita() bool {
	return strings.HasPrefix(strings.ToUpper(r.Codigo), "SUB")
}

// IngredienteReceita is one BOM line of a recipe. Exactly one of
// ProdutoID / SubReceitaID is set; EhSubReceita disambiguates.
// Custo and CustoTotal are snapshots written by the roll-up, not input.
type IngredienteReceita struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReceitaID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProdutoID    *uuid.UUID `gorm:"type:uuid;index"`
	SubReceitaID *uuid.UUID `gorm:"type:uuid;index"`
	EhSubReceita bool       `gorm:"not null;default:false"`
	Quantidade   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Unidade      string          `gorm:"type:varchar(10);not null;default:'Kg'"`
	Custo        decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	CustoTotal   decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	// Etapa is the free-text preparation stage shown to kitchen staff.
	Etapa     string
	CreatedAt time.Time
	UpdatedAt time.Time

	Produto    *Produto `gorm:"foreignKey:ProdutoID"`
	SubReceita *Receita `gorm:"foreignKey:SubReceitaID"`
}

func (IngredienteReceita) TableName() string { return "ingredientes_receita" }
