package repository

import (
	"context"

	"panifpro/internal/dto"
	"panifpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrdemRepository manages production orders and their lines.
type OrdemRepository interface {
	Create(ctx context.Context, o *model.OrdemProducao) error
	FindByID(ctx context.Context, empresaID, id uuid.UUID) (*model.OrdemProducao, error)
	List(ctx context.Context, empresaID uuid.UUID, filter dto.OrdemFilter) ([]model.OrdemProducao, int64, error)
	Update(ctx context.Context, o *model.OrdemProducao) error
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	// ReplaceItensTx swaps the whole item list of an order.
	ReplaceItensTx(tx *gorm.DB, ordemID uuid.UUID, itens []model.ItemOrdemProducao) error
	// NextNumero allocates the next sequential order number for a tenant.
	NextNumero(ctx context.Context, empresaID uuid.UUID) (string, error)

	DB() *gorm.DB
}

type ordemRepo struct{ db *gorm.DB }

func NewOrdemRepository(db *gorm.DB) OrdemRepository { return &ordemRepo{db: db} }

func (r *ordemRepo) Create(ctx context.Context, o *model.OrdemProducao) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *ordemRepo) FindByID(ctx context.Context, empresaID, id uuid.UUID) (*model.OrdemProducao, error) {
	var o model.OrdemProducao
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND id = ?", empresaID, id).
		Preload("Itens").
		Preload("Itens.Receita").
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ordemRepo) List(ctx context.Context, empresaID uuid.UUID, filter dto.OrdemFilter) ([]model.OrdemProducao, int64, error) {
	var ordens []model.OrdemProducao
	var total int64

	q := r.db.WithContext(ctx).Model(&model.OrdemProducao{}).
		Where("empresa_id = ?", empresaID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.De != nil {
		q = q.Where("data_programada >= ?", *filter.De)
	}
	if filter.Ate != nil {
		q = q.Where("data_programada <= ?", *filter.Ate)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("data_programada DESC").Limit(filter.Limit).Offset(offset).
		Preload("Itens").
		Preload("Itens.Receita").
		Find(&ordens).Error
	return ordens, total, err
}

func (r *ordemRepo) Update(ctx context.Context, o *model.OrdemProducao) error {
	return r.db.WithContext(ctx).Omit("Itens").Save(o).Error
}

func (r *ordemRepo) ReplaceItensTx(tx *gorm.DB, ordemID uuid.UUID, itens []model.ItemOrdemProducao) error {
	if err := tx.Delete(&model.ItemOrdemProducao{}, "ordem_id = ?", ordemID).Error; err != nil {
		return err
	}
	for i := range itens {
		itens[i].OrdemID = ordemID
	}
	if len(itens) == 0 {
		return nil
	}
	return tx.Create(&itens).Error
}

func (r *ordemRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.OrdemProducao{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *ordemRepo) NextNumero(ctx context.Context, empresaID uuid.UUID) (string, error) {
	var numero string
	err := r.db.WithContext(ctx).Raw(`
		SELECT 'OP-' || LPAD((COUNT(*) + 1)::text, 6, '0')
		FROM ordens_producao WHERE empresa_id = ?
	`, empresaID).Scan(&numero).Error
	return numero, err
}

func (r *ordemRepo) DB() *gorm.DB { return r.db }
