package model

import (
	"time"

	"github.com/google/uuid"
)

// Grupo is a top-level product classification (e.g. "Pães", "Confeitaria").
type Grupo struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nome      string    `gorm:"not null"`
	Descricao *string
	Ativo     bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Grupo) TableName() string { return "grupos" }

// Subgrupo refines a Grupo. Cascade-owned by its parent group.
type Subgrupo struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GrupoID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Nome      string    `gorm:"not null"`
	Ativo     bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Grupo *Grupo `gorm:"foreignKey:GrupoID"`
}

func (Subgrupo) TableName() string { return "subgrupos" }
