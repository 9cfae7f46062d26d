package repository

import (
	"context"
	"time"

	"panifpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RelatorioRepository interface {
	Create(ctx context.Context, rel *model.RelatorioProducao) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RelatorioProducao, error)
	ListByOrdem(ctx context.Context, empresaID, ordemID uuid.UUID) ([]model.RelatorioProducao, error)
	Update(ctx context.Context, rel *model.RelatorioProducao) error
	// ListPendingRetries retorna relatórios com erro cujo next_retry_at já
	// passou, para o cron de reprocessamento.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.RelatorioProducao, error)
}

type relatorioRepo struct{ db *gorm.DB }

func NewRelatorioRepository(db *gorm.DB) RelatorioRepository {
	return &relatorioRepo{db: db}
}

func (r *relatorioRepo) Create(ctx context.Context, rel *model.RelatorioProducao) error {
	return r.db.WithContext(ctx).Create(rel).Error
}

func (r *relatorioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.RelatorioProducao, error) {
	var rel model.RelatorioProducao
	err := r.db.WithContext(ctx).Preload("Ordem").First(&rel, id).Error
	return &rel, err
}

func (r *relatorioRepo) ListByOrdem(ctx context.Context, empresaID, ordemID uuid.UUID) ([]model.RelatorioProducao, error) {
	var rels []model.RelatorioProducao
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND ordem_id = ?", empresaID, ordemID).
		Order("created_at DESC").
		Find(&rels).Error
	return rels, err
}

func (r *relatorioRepo) Update(ctx context.Context, rel *model.RelatorioProducao) error {
	return r.db.WithContext(ctx).Save(rel).Error
}

func (r *relatorioRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.RelatorioProducao, error) {
	var rels []model.RelatorioProducao
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", "erro", now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&rels).Error
	return rels, err
}
