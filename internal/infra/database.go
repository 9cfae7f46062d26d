package infra

import (
	"fmt"

	"panifpro/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (partial indexes, expression indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests
// against a disposable database.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() defaults require pgcrypto on Postgres < 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Empresa{},
		&model.Usuario{},
		&model.TipoProduto{},
		&model.Grupo{},
		&model.Subgrupo{},
		&model.Produto{},
		&model.Receita{},
		&model.IngredienteReceita{},
		&model.OrdemProducao{},
		&model.ItemOrdemProducao{},
		&model.MovimentoEstoque{},
		&model.HistoricoCusto{},
		&model.RelatorioProducao{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Names are unique per tenant among ACTIVE rows only; a soft-deleted
		// product may be re-created and later re-adopted by a recipe.
		{"unique active produto name per empresa", `
CREATE UNIQUE INDEX IF NOT EXISTS uni_produtos_empresa_nome_ativo
    ON produtos (empresa_id, lower(nome))
    WHERE ativo = true`},
		{"unique active receita name per empresa", `
CREATE UNIQUE INDEX IF NOT EXISTS uni_receitas_empresa_nome_ativo
    ON receitas (empresa_id, lower(nome))
    WHERE ativo = true`},
		{"unique active receita codigo per empresa", `
CREATE UNIQUE INDEX IF NOT EXISTS uni_receitas_empresa_codigo_ativo
    ON receitas (empresa_id, upper(codigo))
    WHERE ativo = true`},
		// Partial index backing the retry cron query
		{"pending retry index on relatorios_producao", `
CREATE INDEX IF NOT EXISTS idx_relatorios_pending_retry
    ON relatorios_producao (next_retry_at)
    WHERE status = 'erro' AND next_retry_at IS NOT NULL`},
		// Order numbers are sequential per tenant
		{"unique ordem numero per empresa", `
CREATE UNIQUE INDEX IF NOT EXISTS uni_ordens_empresa_numero
    ON ordens_producao (empresa_id, numero)`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", p.descr, err)
		}
	}
	return nil
}
