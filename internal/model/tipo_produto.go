package model

import (
	"time"

	"github.com/google/uuid"
)

// TipoProduto classifies catalog products ("receita", "subreceita",
// "materia_prima", plus any tenant-defined types).
// Sistema=true marks types provisioned at tenant onboarding; they cannot
// be renamed or deleted through the API.
type TipoProduto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tipo_empresa_nome"`
	Nome      string    `gorm:"not null;uniqueIndex:idx_tipo_empresa_nome"`
	Descricao *string
	Sistema   bool `gorm:"not null;default:false"`
	Ativo     bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TipoProduto) TableName() string { return "tipos_produto" }

// System type names. ReceitaSync resolves these when deriving the linked
// product of a recipe.
const (
	TipoReceita      = "receita"
	TipoSubReceita   = "subreceita"
	TipoMateriaPrima = "materia_prima"
)
