package repository

import (
	"context"

	"panifpro/internal/dto"
	"panifpro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReceitaRepository is the catalog access surface for recipes and their
// BOM lines. Soft-deleted recipes are invisible to every finder.
type ReceitaRepository interface {
	// Create persists a recipe; tx may be nil to use the base connection.
	Create(ctx context.Context, tx *gorm.DB, r *model.Receita) error
	FindByID(ctx context.Context, empresaID, id uuid.UUID) (*model.Receita, error)
	FindByNome(ctx context.Context, empresaID uuid.UUID, nome string) (*model.Receita, error)
	List(ctx context.Context, empresaID uuid.UUID, filter dto.ReceitaFilter) ([]model.Receita, int64, error)
	// ListAtivas returns every active recipe of a tenant without
	// ingredient preloads — used by the batch cost recompute.
	ListAtivas(ctx context.Context, empresaID uuid.UUID) ([]model.Receita, error)
	Update(ctx context.Context, tx *gorm.DB, r *model.Receita) error
	SoftDeleteTx(tx *gorm.DB, empresaID, id uuid.UUID) error

	// Ingredientes, always joined with product / sub-recipe rows.
	ListIngredientes(ctx context.Context, receitaID uuid.UUID) ([]model.IngredienteReceita, error)
	CreateIngredienteTx(tx *gorm.DB, ing *model.IngredienteReceita) error
	UpdateIngredienteTx(tx *gorm.DB, ing *model.IngredienteReceita) error
	DeleteIngredienteTx(tx *gorm.DB, id uuid.UUID) error

	// Cost snapshots. The roll-up writes ingredient lines first, then
	// the recipe aggregate, then the linked product.
	UpdateCustoIngredienteTx(tx *gorm.DB, id uuid.UUID, custo, custoTotal decimal.Decimal) error
	UpdateCustoTx(tx *gorm.DB, id uuid.UUID, custoKg decimal.Decimal, custoUnidade *decimal.Decimal) error

	DB() *gorm.DB
}

type receitaRepo struct{ db *gorm.DB }

func NewReceitaRepository(db *gorm.DB) ReceitaRepository { return &receitaRepo{db: db} }

func (r *receitaRepo) Create(ctx context.Context, tx *gorm.DB, rec *model.Receita) error {
	if tx != nil {
		return tx.Create(rec).Error
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *receitaRepo) FindByID(ctx context.Context, empresaID, id uuid.UUID) (*model.Receita, error) {
	var rec model.Receita
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND id = ? AND ativo = true", empresaID, id).
		Preload("Ingredientes").
		Preload("Ingredientes.Produto").
		Preload("Ingredientes.SubReceita").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *receitaRepo) FindByNome(ctx context.Context, empresaID uuid.UUID, nome string) (*model.Receita, error) {
	var rec model.Receita
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND lower(nome) = lower(?) AND ativo = true", empresaID, nome).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *receitaRepo) List(ctx context.Context, empresaID uuid.UUID, filter dto.ReceitaFilter) ([]model.Receita, int64, error) {
	var receitas []model.Receita
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Receita{}).
		Where("empresa_id = ? AND ativo = true", empresaID)

	if filter.Nome != "" {
		q = q.Where("nome ILIKE ?", "%"+filter.Nome+"%")
	}
	switch filter.Tipo {
	case "sub":
		q = q.Where("upper(codigo) LIKE 'SUB%'")
	case "final":
		q = q.Where("upper(codigo) NOT LIKE 'SUB%'")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nome ASC").Limit(filter.Limit).Offset(offset).Find(&receitas).Error
	return receitas, total, err
}

func (r *receitaRepo) ListAtivas(ctx context.Context, empresaID uuid.UUID) ([]model.Receita, error) {
	var receitas []model.Receita
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND ativo = true", empresaID).
		Find(&receitas).Error
	return receitas, err
}

func (r *receitaRepo) Update(ctx context.Context, tx *gorm.DB, rec *model.Receita) error {
	if tx != nil {
		return tx.Omit("Ingredientes").Save(rec).Error
	}
	return r.db.WithContext(ctx).Omit("Ingredientes").Save(rec).Error
}

func (r *receitaRepo) SoftDeleteTx(tx *gorm.DB, empresaID, id uuid.UUID) error {
	return tx.Model(&model.Receita{}).
		Where("empresa_id = ? AND id = ?", empresaID, id).
		Update("ativo", false).Error
}

func (r *receitaRepo) ListIngredientes(ctx context.Context, receitaID uuid.UUID) ([]model.IngredienteReceita, error) {
	var ingredientes []model.IngredienteReceita
	err := r.db.WithContext(ctx).
		Where("receita_id = ?", receitaID).
		Preload("Produto").
		Preload("SubReceita").
		Order("created_at ASC").
		Find(&ingredientes).Error
	return ingredientes, err
}

func (r *receitaRepo) CreateIngredienteTx(tx *gorm.DB, ing *model.IngredienteReceita) error {
	return tx.Create(ing).Error
}

func (r *receitaRepo) UpdateIngredienteTx(tx *gorm.DB, ing *model.IngredienteReceita) error {
	return tx.Omit("Produto", "SubReceita").Save(ing).Error
}

func (r *receitaRepo) DeleteIngredienteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.IngredienteReceita{}, "id = ?", id).Error
}

func (r *receitaRepo) UpdateCustoIngredienteTx(tx *gorm.DB, id uuid.UUID, custo, custoTotal decimal.Decimal) error {
	return tx.Model(&model.IngredienteReceita{}).Where("id = ?", id).Updates(map[string]interface{}{
		"custo":       custo,
		"custo_total": custoTotal,
	}).Error
}

func (r *receitaRepo) UpdateCustoTx(tx *gorm.DB, id uuid.UUID, custoKg decimal.Decimal, custoUnidade *decimal.Decimal) error {
	return tx.Model(&model.Receita{}).Where("id = ?", id).Updates(map[string]interface{}{
		"custo_kg":      custoKg,
		"custo_unidade": custoUnidade,
	}).Error
}

func (r *receitaRepo) DB() *gorm.DB { return r.db }
