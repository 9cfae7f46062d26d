package model

import (
	"time"

	"github.com/google/uuid"
)

// Empresa is the tenant. Every catalog row is scoped by EmpresaID;
// no query may cross tenants.
type Empresa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"uniqueIndex;not null"`
	Ativo     bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Empresa) TableName() string { return "empresas" }
