package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistoricoCusto registra cada mudança de custo de um produto vinculado a
// uma receita. Os registros são imutáveis, nunca se alteram.
type HistoricoCusto struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutoID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ReceitaID   *uuid.UUID `gorm:"type:uuid;index"`
	CustoAntes  decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	CustoDepois decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	Motivo      string          `gorm:"not null;default:'recalculo_custo'"` // recalculo_custo | recalculo_lote | manual
	CreatedAt   time.Time

	Produto Produto  `gorm:"foreignKey:ProdutoID"`
	Receita *Receita `gorm:"foreignKey:ReceitaID"`
}

func (HistoricoCusto) TableName() string { return "historico_custos" }
