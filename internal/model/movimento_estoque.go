package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovimentoEstoque registra cada variação de estoque de um produto.
// Criado automaticamente ao confirmar uma ordem de produção ou por
// ajuste manual.
type MovimentoEstoque struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ProdutoID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo            string    `gorm:"type:varchar(20);not null"` // "entrada" | "saida" | "ajuste" | "producao"
	Quantidade      decimal.Decimal `gorm:"type:decimal(12,3);not null"` // positive = entrada, negative = saída
	EstoqueAnterior decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	EstoqueNovo     decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Motivo          string
	ReferenciaID    *uuid.UUID `gorm:"type:uuid"` // ordem_producao_id when Tipo="producao"
	CreatedAt       time.Time

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (MovimentoEstoque) TableName() string { return "movimentos_estoque" }
