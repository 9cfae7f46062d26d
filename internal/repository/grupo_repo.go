package repository

import (
	"context"

	"panifpro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GrupoRepository defines CRUD operations for Grupo and Subgrupo.
type GrupoRepository interface {
	Create(ctx context.Context, g *model.Grupo) error
	List(ctx context.Context, empresaID uuid.UUID) ([]model.Grupo, error)
	FindByID(ctx context.Context, empresaID, id uuid.UUID) (*model.Grupo, error)
	FindByNome(ctx context.Context, empresaID uuid.UUID, nome string) (*model.Grupo, error)
	Update(ctx context.Context, g *model.Grupo) error
	Desativar(ctx context.Context, empresaID, id uuid.UUID) error

	CreateSubgrupo(ctx context.Context, s *model.Subgrupo) error
	ListSubgrupos(ctx context.Context, grupoID uuid.UUID) ([]model.Subgrupo, error)
	FindSubgrupoByID(ctx context.Context, id uuid.UUID) (*model.Subgrupo, error)
	DesativarSubgrupo(ctx context.Context, id uuid.UUID) error
}

type grupoRepo struct{ db *gorm.DB }

func NewGrupoRepository(db *gorm.DB) GrupoRepository { return &grupoRepo{db: db} }

func (r *grupoRepo) Create(ctx context.Context, g *model.Grupo) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *grupoRepo) List(ctx context.Context, empresaID uuid.UUID) ([]model.Grupo, error) {
	var grupos []model.Grupo
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND ativo = true", empresaID).
		Order("nome asc").
		Find(&grupos).Error
	return grupos, err
}

func (r *grupoRepo) FindByID(ctx context.Context, empresaID, id uuid.UUID) (*model.Grupo, error) {
	var g model.Grupo
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND id = ? AND ativo = true", empresaID, id).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *grupoRepo) FindByNome(ctx context.Context, empresaID uuid.UUID, nome string) (*model.Grupo, error) {
	var g model.Grupo
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND lower(nome) = lower(?) AND ativo = true", empresaID, nome).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *grupoRepo) Update(ctx context.Context, g *model.Grupo) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *grupoRepo) Desativar(ctx context.Context, empresaID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Grupo{}).
		Where("empresa_id = ? AND id = ?", empresaID, id).
		Update("ativo", false).Error
}

func (r *grupoRepo) CreateSubgrupo(ctx context.Context, s *model.Subgrupo) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *grupoRepo) ListSubgrupos(ctx context.Context, grupoID uuid.UUID) ([]model.Subgrupo, error) {
	var subs []model.Subgrupo
	err := r.db.WithContext(ctx).
		Where("grupo_id = ? AND ativo = true", grupoID).
		Order("nome asc").
		Find(&subs).Error
	return subs, err
}

func (r *grupoRepo) FindSubgrupoByID(ctx context.Context, id uuid.UUID) (*model.Subgrupo, error) {
	var s model.Subgrupo
	err := r.db.WithContext(ctx).
		Where("id = ? AND ativo = true", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *grupoRepo) DesativarSubgrupo(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Subgrupo{}).
		Where("id = ?", id).
		Update("ativo", false).Error
}
