package model

import (
	"time"

	"github.com/google/uuid"
)

// RelatorioProducao tracks one report export request for a production
// order.
// Tipo: "materiais_pdf" | "materiais_xlsx" | "pre_pesagem_pdf"
// Status: "pendente" | "gerado" | "erro"
type RelatorioProducao struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID uuid.UUID `gorm:"type:uuid;not null;index"`
	OrdemID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo      string    `gorm:"type:varchar(30);not null"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pendente'"`
	// ArquivoPath is relative to REPORT_STORAGE_PATH env var
	ArquivoPath *string
	// Email, when set, receives the generated file as attachment
	Email *string
	// Retry fields used by retry_cron to re-attempt failed exports
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Ordem *OrdemProducao `gorm:"foreignKey:OrdemID"`
}

func (RelatorioProducao) TableName() string { return "relatorios_producao" }
