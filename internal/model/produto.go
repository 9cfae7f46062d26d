package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto is a catalog entity: raw material, intermediate (sub-recipe
// output) or finished good.
//
// Unidade decides which weight field is meaningful:
//   - "UN": PesoUnitario = kg per discrete unit, Custo is per unit.
//   - "Kg": PesoKg = kg yield of the linked recipe (nil for raw
//     materials priced per kg directly), Custo is per kg.
//
// ReceitaID back-references the recipe that produces this product; the
// reference is weak, the product may outlive a soft-deleted recipe.
type Produto struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_produto_empresa_nome"`
	Nome          string    `gorm:"not null;uniqueIndex:idx_produto_empresa_nome"`
	Unidade       string    `gorm:"type:varchar(2);not null;default:'Kg'"` // "Kg" | "UN"
	Custo         decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	PesoUnitario  *decimal.Decimal `gorm:"type:decimal(12,4)"`
	PesoKg        *decimal.Decimal `gorm:"type:decimal(12,3)"`
	ReceitaID     *uuid.UUID       `gorm:"type:uuid;index"`
	TipoProdutoID *uuid.UUID       `gorm:"type:uuid;index"`
	GrupoID       *uuid.UUID       `gorm:"type:uuid;index"`
	SubgrupoID    *uuid.UUID       `gorm:"type:uuid"`
	EstoqueAtual  decimal.Decimal  `gorm:"type:decimal(12,3);not null;default:0"`
	EstoqueMinimo decimal.Decimal  `gorm:"type:decimal(12,3);not null;default:0"`
	Ativo         bool             `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	TipoProduto *TipoProduto `gorm:"foreignKey:TipoProdutoID"`
	Grupo       *Grupo       `gorm:"foreignKey:GrupoID"`
	Subgrupo    *Subgrupo    `gorm:"foreignKey:SubgrupoID"`
}

func (Produto) TableName() string { return "produtos" }
