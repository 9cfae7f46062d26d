package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrdemProducao schedules one production run.
// Status: "pendente" | "em_andamento" | "concluida" | "cancelada"
type OrdemProducao struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Numero         string    `gorm:"not null;index"`
	DataProgramada time.Time `gorm:"not null"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pendente'"`
	Observacoes    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Itens []ItemOrdemProducao `gorm:"foreignKey:OrdemID;constraint:OnDelete:CASCADE"`
}

func (OrdemProducao) TableName() string { return "ordens_producao" }

// ItemOrdemProducao pairs a recipe with a planned quantity.
// Unidade "Kg" plans by weight; "UN" plans by discrete units and is
// converted to kg through the recipe yield before expansion.
type ItemOrdemProducao struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdemID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReceitaID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantidade decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Unidade    string          `gorm:"type:varchar(2);not null;default:'Kg'"`

	Receita *Receita `gorm:"foreignKey:ReceitaID"`
}

func (ItemOrdemProducao) TableName() string { return "itens_ordem_producao" }
