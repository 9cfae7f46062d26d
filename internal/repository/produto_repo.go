package repository

import (
	"context"

	"panifpro/internal/dto"
	"panifpro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProdutoRepository defines the data access contract for catalog
// products. Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via stubs.
//
// Every finder is tenant-scoped and excludes soft-deleted rows, so a
// soft-deleted product never reaches cost or expansion code. That rule
// lives here, not at call sites.
type ProdutoRepository interface {
	Create(ctx context.Context, p *model.Produto) error
	FindByID(ctx context.Context, empresaID, id uuid.UUID) (*model.Produto, error)
	FindByNome(ctx context.Context, empresaID uuid.UUID, nome string) (*model.Produto, error)
	// FindByReceitaID resolves the active product linked to a recipe.
	FindByReceitaID(ctx context.Context, empresaID, receitaID uuid.UUID) (*model.Produto, error)
	List(ctx context.Context, empresaID uuid.UUID, filter dto.ProdutoFilter) ([]model.Produto, int64, error)
	// ListAbaixoMinimo returns active products at or below minimum stock.
	ListAbaixoMinimo(ctx context.Context, empresaID uuid.UUID) ([]model.Produto, error)
	Update(ctx context.Context, p *model.Produto) error
	SoftDelete(ctx context.Context, empresaID, id uuid.UUID) error
	Reativar(ctx context.Context, empresaID, id uuid.UUID) error

	// Used inside transactions; callers must pass the tx instance
	UpdateCustoTx(tx *gorm.DB, id uuid.UUID, custo decimal.Decimal) error
	AjustarEstoqueTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error
	SoftDeleteTx(tx *gorm.DB, empresaID, id uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) Create(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produtoRepo) FindByID(ctx context.Context, empresaID, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND id = ? AND ativo = true", empresaID, id).
		Preload("TipoProduto").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) FindByNome(ctx context.Context, empresaID uuid.UUID, nome string) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND lower(nome) = lower(?) AND ativo = true", empresaID, nome).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) FindByReceitaID(ctx context.Context, empresaID, receitaID uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND receita_id = ? AND ativo = true", empresaID, receitaID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) List(ctx context.Context, empresaID uuid.UUID, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var produtos []model.Produto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Produto{}).Where("empresa_id = ?", empresaID)

	// Ativo filter: "false" = inativos, "all" = todos, default = ativos
	switch filter.Ativo {
	case "false":
		q = q.Where("ativo = false")
	case "all":
		// no filter
	default:
		q = q.Where("ativo = true")
	}

	if filter.Nome != "" {
		q = q.Where("nome ILIKE ?", "%"+filter.Nome+"%")
	}
	if filter.TipoProdutoID != "" {
		q = q.Where("tipo_produto_id = ?", filter.TipoProdutoID)
	}
	if filter.GrupoID != "" {
		q = q.Where("grupo_id = ?", filter.GrupoID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nome ASC").Limit(filter.Limit).Offset(offset).
		Preload("TipoProduto").
		Find(&produtos).Error
	return produtos, total, err
}

func (r *produtoRepo) ListAbaixoMinimo(ctx context.Context, empresaID uuid.UUID) ([]model.Produto, error) {
	var produtos []model.Produto
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND ativo = true AND estoque_minimo > 0 AND estoque_atual <= estoque_minimo", empresaID).
		Order("nome ASC").
		Find(&produtos).Error
	return produtos, err
}

func (r *produtoRepo) Update(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *produtoRepo) SoftDelete(ctx context.Context, empresaID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Produto{}).
		Where("empresa_id = ? AND id = ?", empresaID, id).
		Update("ativo", false).Error
}

func (r *produtoRepo) Reativar(ctx context.Context, empresaID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Produto{}).
		Where("empresa_id = ? AND id = ?", empresaID, id).
		Update("ativo", true).Error
}

func (r *produtoRepo) UpdateCustoTx(tx *gorm.DB, id uuid.UUID, custo decimal.Decimal) error {
	return tx.Model(&model.Produto{}).Where("id = ?", id).
		Update("custo", custo).Error
}

func (r *produtoRepo) AjustarEstoqueTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.Produto{}).Where("id = ? AND ativo = true", id).
		Update("estoque_atual", gorm.Expr("estoque_atual + ?", delta)).Error
}

func (r *produtoRepo) SoftDeleteTx(tx *gorm.DB, empresaID, id uuid.UUID) error {
	return tx.Model(&model.Produto{}).
		Where("empresa_id = ? AND id = ?", empresaID, id).
		Update("ativo", false).Error
}

func (r *produtoRepo) DB() *gorm.DB { return r.db }
