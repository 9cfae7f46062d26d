package repository

import (
	"context"

	"panifpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TipoProdutoRepository resolves and provisions product types.
type TipoProdutoRepository interface {
	Create(ctx context.Context, t *model.TipoProduto) error
	List(ctx context.Context, empresaID uuid.UUID) ([]model.TipoProduto, error)
	FindByNome(ctx context.Context, empresaID uuid.UUID, nome string) (*model.TipoProduto, error)
	// EnsureSistema provisions the system types ("receita", "subreceita",
	// "materia_prima") for a tenant. Idempotent; run once at onboarding,
	// not on every catalog read.
	EnsureSistema(ctx context.Context, empresaID uuid.UUID) error
}

type tipoProdutoRepo struct{ db *gorm.DB }

func NewTipoProdutoRepository(db *gorm.DB) TipoProdutoRepository {
	return &tipoProdutoRepo{db: db}
}

func (r *tipoProdutoRepo) Create(ctx context.Context, t *model.TipoProduto) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tipoProdutoRepo) List(ctx context.Context, empresaID uuid.UUID) ([]model.TipoProduto, error) {
	var tipos []model.TipoProduto
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND ativo = true", empresaID).
		Order("nome asc").
		Find(&tipos).Error
	return tipos, err
}

func (r *tipoProdutoRepo) FindByNome(ctx context.Context, empresaID uuid.UUID, nome string) (*model.TipoProduto, error) {
	var t model.TipoProduto
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND lower(nome) = lower(?) AND ativo = true", empresaID, nome).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tipoProdutoRepo) EnsureSistema(ctx context.Context, empresaID uuid.UUID) error {
	sistema := []string{model.TipoReceita, model.TipoSubReceita, model.TipoMateriaPrima}
	for _, nome := range sistema {
		err := r.db.WithContext(ctx).Exec(`
			INSERT INTO tipos_produto (empresa_id, nome, sistema, ativo)
			VALUES (?, ?, true, true)
			ON CONFLICT (empresa_id, nome) DO NOTHING
		`, empresaID, nome).Error
		if err != nil {
			return err
		}
	}
	return nil
}
