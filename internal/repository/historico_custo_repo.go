package repository

import (
	"context"

	"panifpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoricoCustoRepository interface {
	CreateTx(tx *gorm.DB, h *model.HistoricoCusto) error
	ListByProduto(ctx context.Context, produtoID uuid.UUID, page, limit int) ([]model.HistoricoCusto, int64, error)
}

type historicoCustoRepo struct{ db *gorm.DB }

func NewHistoricoCustoRepository(db *gorm.DB) HistoricoCustoRepository {
	return &historicoCustoRepo{db: db}
}

func (r *historicoCustoRepo) CreateTx(tx *gorm.DB, h *model.HistoricoCusto) error {
	return tx.Create(h).Error
}

// ListByProduto returns paginated cost-change records for one product,
// newest-first (append-only table, so this reflects natural insert order).
func (r *historicoCustoRepo) ListByProduto(ctx context.Context, produtoID uuid.UUID, page, limit int) ([]model.HistoricoCusto, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.HistoricoCusto{}).
		Where("produto_id = ?", produtoID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.HistoricoCusto
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("produto_id = ?", produtoID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Preload("Receita").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
