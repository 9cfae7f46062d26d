package service_test

import (
	"context"
	"fmt"
	"time"

	"panifpro/internal/dto"
	"panifpro/internal/model"
	"panifpro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories shared by the service tests. DB() returns nil,
// which makes runTx call the closures outside any transaction.

// stubProdutoRepo is an in-memory ProdutoRepository.
type stubProdutoRepo struct {
	produtos map[uuid.UUID]*model.Produto
}

func newStubProdutoRepo() *stubProdutoRepo {
	return &stubProdutoRepo{produtos: make(map[uuid.UUID]*model.Produto)}
}

func (r *stubProdutoRepo) Create(_ context.Context, p *model.Produto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.produtos[p.ID] = &cp
	return nil
}

func (r *stubProdutoRepo) FindByID(_ context.Context, empresaID, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.produtos[id]
	if !ok || p.EmpresaID != empresaID || !p.Ativo {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProdutoRepo) FindByNome(_ context.Context, empresaID uuid.UUID, nome string) (*model.Produto, error) {
	for _, p := range r.produtos {
		if p.EmpresaID == empresaID && p.Nome == nome && p.Ativo {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProdutoRepo) FindByReceitaID(_ context.Context, empresaID, receitaID uuid.UUID) (*model.Produto, error) {
	for _, p := range r.produtos {
		if p.EmpresaID == empresaID && p.Ativo && p.ReceitaID != nil && *p.ReceitaID == receitaID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProdutoRepo) List(_ context.Context, empresaID uuid.UUID, _ dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var out []model.Produto
	for _, p := range r.produtos {
		if p.EmpresaID == empresaID && p.Ativo {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProdutoRepo) ListAbaixoMinimo(_ context.Context, empresaID uuid.UUID) ([]model.Produto, error) {
	var out []model.Produto
	for _, p := range r.produtos {
		if p.EmpresaID == empresaID && p.Ativo && p.EstoqueAtual.LessThanOrEqual(p.EstoqueMinimo) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProdutoRepo) Update(_ context.Context, p *model.Produto) error {
	if _, ok := r.produtos[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	r.produtos[p.ID] = &cp
	return nil
}

func (r *stubProdutoRepo) SoftDelete(_ context.Context, empresaID, id uuid.UUID) error {
	p, ok := r.produtos[id]
	if !ok || p.EmpresaID != empresaID {
		return gorm.ErrRecordNotFound
	}
	p.Ativo = false
	return nil
}

func (r *stubProdutoRepo) Reativar(_ context.Context, empresaID, id uuid.UUID) error {
	p, ok := r.produtos[id]
	if !ok || p.EmpresaID != empresaID {
		return gorm.ErrRecordNotFound
	}
	p.Ativo = true
	return nil
}

func (r *stubProdutoRepo) UpdateCustoTx(_ *gorm.DB, id uuid.UUID, custo decimal.Decimal) error {
	p, ok := r.produtos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Custo = custo
	return nil
}

func (r *stubProdutoRepo) AjustarEstoqueTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	p, ok := r.produtos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.EstoqueAtual = p.EstoqueAtual.Add(delta)
	return nil
}

func (r *stubProdutoRepo) SoftDeleteTx(_ *gorm.DB, empresaID, id uuid.UUID) error {
	p, ok := r.produtos[id]
	if !ok || p.EmpresaID != empresaID {
		return gorm.ErrRecordNotFound
	}
	p.Ativo = false
	return nil
}

func (r *stubProdutoRepo) DB() *gorm.DB { return nil }

var _ repository.ProdutoRepository = (*stubProdutoRepo)(nil)

// stubReceitaRepo is an in-memory ReceitaRepository. It resolves the
// Produto / SubReceita joins of ingredient lines against the product
// stub, the way the GORM preloads do.
type stubReceitaRepo struct {
	receitas     map[uuid.UUID]*model.Receita
	ingredientes map[uuid.UUID][]*model.IngredienteReceita
	produtos     *stubProdutoRepo
}

func newStubReceitaRepo(produtos *stubProdutoRepo) *stubReceitaRepo {
	return &stubReceitaRepo{
		receitas:     make(map[uuid.UUID]*model.Receita),
		ingredientes: make(map[uuid.UUID][]*model.IngredienteReceita),
		produtos:     produtos,
	}
}

func (r *stubReceitaRepo) join(ing model.IngredienteReceita) model.IngredienteReceita {
	if ing.ProdutoID != nil {
		if p, ok := r.produtos.produtos[*ing.ProdutoID]; ok {
			cp := *p
			ing.Produto = &cp
		}
	}
	if ing.SubReceitaID != nil {
		if sub, ok := r.receitas[*ing.SubReceitaID]; ok {
			cp := *sub
			ing.SubReceita = &cp
		}
	}
	return ing
}

func (r *stubReceitaRepo) Create(_ context.Context, _ *gorm.DB, rec *model.Receita) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	cp := *rec
	cp.Ingredientes = nil
	r.receitas[rec.ID] = &cp
	return nil
}

func (r *stubReceitaRepo) FindByID(_ context.Context, empresaID, id uuid.UUID) (*model.Receita, error) {
	rec, ok := r.receitas[id]
	if !ok || rec.EmpresaID != empresaID || !rec.Ativo {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rec
	for _, ing := range r.ingredientes[id] {
		cp.Ingredientes = append(cp.Ingredientes, r.join(*ing))
	}
	return &cp, nil
}

func (r *stubReceitaRepo) FindByNome(_ context.Context, empresaID uuid.UUID, nome string) (*model.Receita, error) {
	for _, rec := range r.receitas {
		if rec.EmpresaID == empresaID && rec.Nome == nome && rec.Ativo {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubReceitaRepo) List(_ context.Context, empresaID uuid.UUID, _ dto.ReceitaFilter) ([]model.Receita, int64, error) {
	var out []model.Receita
	for _, rec := range r.receitas {
		if rec.EmpresaID == empresaID && rec.Ativo {
			out = append(out, *rec)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubReceitaRepo) ListAtivas(_ context.Context, empresaID uuid.UUID) ([]model.Receita, error) {
	var out []model.Receita
	for _, rec := range r.receitas {
		if rec.EmpresaID == empresaID && rec.Ativo {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *stubReceitaRepo) Update(_ context.Context, _ *gorm.DB, rec *model.Receita) error {
	if _, ok := r.receitas[rec.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *rec
	cp.Ingredientes = nil
	r.receitas[rec.ID] = &cp
	return nil
}

func (r *stubReceitaRepo) SoftDeleteTx(_ *gorm.DB, empresaID, id uuid.UUID) error {
	rec, ok := r.receitas[id]
	if !ok || rec.EmpresaID != empresaID {
		return gorm.ErrRecordNotFound
	}
	rec.Ativo = false
	return nil
}

func (r *stubReceitaRepo) ListIngredientes(_ context.Context, receitaID uuid.UUID) ([]model.IngredienteReceita, error) {
	var out []model.IngredienteReceita
	for _, ing := range r.ingredientes[receitaID] {
		out = append(out, r.join(*ing))
	}
	return out, nil
}

func (r *stubReceitaRepo) CreateIngredienteTx(_ *gorm.DB, ing *model.IngredienteReceita) error {
	if ing.ID == uuid.Nil {
		ing.ID = uuid.New()
	}
	cp := *ing
	r.ingredientes[ing.ReceitaID] = append(r.ingredientes[ing.ReceitaID], &cp)
	return nil
}

func (r *stubReceitaRepo) UpdateIngredienteTx(_ *gorm.DB, ing *model.IngredienteReceita) error {
	for _, existente := range r.ingredientes[ing.ReceitaID] {
		if existente.ID == ing.ID {
			*existente = *ing
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubReceitaRepo) DeleteIngredienteTx(_ *gorm.DB, id uuid.UUID) error {
	for recID, ings := range r.ingredientes {
		for i, ing := range ings {
			if ing.ID == id {
				r.ingredientes[recID] = append(ings[:i], ings[i+1:]...)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubReceitaRepo) UpdateCustoIngredienteTx(_ *gorm.DB, id uuid.UUID, custo, custoTotal decimal.Decimal) error {
	for _, ings := range r.ingredientes {
		for _, ing := range ings {
			if ing.ID == id {
				ing.Custo = custo
				ing.CustoTotal = custoTotal
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubReceitaRepo) UpdateCustoTx(_ *gorm.DB, id uuid.UUID, custoKg decimal.Decimal, custoUnidade *decimal.Decimal) error {
	rec, ok := r.receitas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	rec.CustoKg = custoKg
	rec.CustoUnidade = custoUnidade
	return nil
}

func (r *stubReceitaRepo) DB() *gorm.DB { return nil }

var _ repository.ReceitaRepository = (*stubReceitaRepo)(nil)

// stubOrdemRepo is an in-memory OrdemRepository with a per-instance
// sequential number allocator.
type stubOrdemRepo struct {
	ordens   map[uuid.UUID]*model.OrdemProducao
	receitas *stubReceitaRepo
	seq      int
}

func newStubOrdemRepo(receitas *stubReceitaRepo) *stubOrdemRepo {
	return &stubOrdemRepo{ordens: make(map[uuid.UUID]*model.OrdemProducao), receitas: receitas}
}

func (r *stubOrdemRepo) Create(_ context.Context, o *model.OrdemProducao) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Itens {
		if o.Itens[i].ID == uuid.Nil {
			o.Itens[i].ID = uuid.New()
		}
		o.Itens[i].OrdemID = o.ID
	}
	cp := *o
	r.ordens[o.ID] = &cp
	return nil
}

func (r *stubOrdemRepo) FindByID(_ context.Context, empresaID, id uuid.UUID) (*model.OrdemProducao, error) {
	o, ok := r.ordens[id]
	if !ok || o.EmpresaID != empresaID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	cp.Itens = append([]model.ItemOrdemProducao(nil), o.Itens...)
	for i := range cp.Itens {
		if rec, ok := r.receitas.receitas[cp.Itens[i].ReceitaID]; ok {
			rc := *rec
			cp.Itens[i].Receita = &rc
		}
	}
	return &cp, nil
}

func (r *stubOrdemRepo) List(_ context.Context, empresaID uuid.UUID, _ dto.OrdemFilter) ([]model.OrdemProducao, int64, error) {
	var out []model.OrdemProducao
	for _, o := range r.ordens {
		if o.EmpresaID == empresaID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubOrdemRepo) Update(_ context.Context, o *model.OrdemProducao) error {
	if _, ok := r.ordens[o.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *o
	r.ordens[o.ID] = &cp
	return nil
}

func (r *stubOrdemRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	o, ok := r.ordens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *stubOrdemRepo) ReplaceItensTx(_ *gorm.DB, ordemID uuid.UUID, itens []model.ItemOrdemProducao) error {
	o, ok := r.ordens[ordemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range itens {
		if itens[i].ID == uuid.Nil {
			itens[i].ID = uuid.New()
		}
		itens[i].OrdemID = ordemID
	}
	o.Itens = itens
	return nil
}

func (r *stubOrdemRepo) NextNumero(_ context.Context, _ uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("OP-%04d", r.seq), nil
}

func (r *stubOrdemRepo) DB() *gorm.DB { return nil }

var _ repository.OrdemRepository = (*stubOrdemRepo)(nil)

// stubMovimentoRepo is an in-memory MovimentoEstoqueRepository.
type stubMovimentoRepo struct {
	movimentos []*model.MovimentoEstoque
}

func newStubMovimentoRepo() *stubMovimentoRepo { return &stubMovimentoRepo{} }

func (r *stubMovimentoRepo) Create(_ context.Context, m *model.MovimentoEstoque) error {
	return r.CreateTx(nil, m)
}

func (r *stubMovimentoRepo) CreateTx(_ *gorm.DB, m *model.MovimentoEstoque) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	cp := *m
	r.movimentos = append(r.movimentos, &cp)
	return nil
}

func (r *stubMovimentoRepo) List(_ context.Context, empresaID uuid.UUID, _ dto.MovimentoEstoqueFilter) ([]model.MovimentoEstoque, int64, error) {
	var out []model.MovimentoEstoque
	for _, m := range r.movimentos {
		if m.EmpresaID == empresaID {
			out = append(out, *m)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.MovimentoEstoqueRepository = (*stubMovimentoRepo)(nil)

// stubHistoricoRepo is an in-memory HistoricoCustoRepository.
type stubHistoricoRepo struct {
	registros []*model.HistoricoCusto
}

func newStubHistoricoRepo() *stubHistoricoRepo { return &stubHistoricoRepo{} }

func (r *stubHistoricoRepo) CreateTx(_ *gorm.DB, h *model.HistoricoCusto) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	cp := *h
	r.registros = append(r.registros, &cp)
	return nil
}

func (r *stubHistoricoRepo) ListByProduto(_ context.Context, produtoID uuid.UUID, _, _ int) ([]model.HistoricoCusto, int64, error) {
	var out []model.HistoricoCusto
	for _, h := range r.registros {
		if h.ProdutoID == produtoID {
			out = append(out, *h)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.HistoricoCustoRepository = (*stubHistoricoRepo)(nil)

// stubTipoProdutoRepo is an in-memory TipoProdutoRepository.
type stubTipoProdutoRepo struct {
	tipos map[uuid.UUID]*model.TipoProduto
}

func newStubTipoProdutoRepo() *stubTipoProdutoRepo {
	return &stubTipoProdutoRepo{tipos: make(map[uuid.UUID]*model.TipoProduto)}
}

func (r *stubTipoProdutoRepo) Create(_ context.Context, t *model.TipoProduto) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cp := *t
	r.tipos[t.ID] = &cp
	return nil
}

func (r *stubTipoProdutoRepo) List(_ context.Context, empresaID uuid.UUID) ([]model.TipoProduto, error) {
	var out []model.TipoProduto
	for _, t := range r.tipos {
		if t.EmpresaID == empresaID && t.Ativo {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTipoProdutoRepo) FindByNome(_ context.Context, empresaID uuid.UUID, nome string) (*model.TipoProduto, error) {
	for _, t := range r.tipos {
		if t.EmpresaID == empresaID && t.Nome == nome && t.Ativo {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTipoProdutoRepo) EnsureSistema(ctx context.Context, empresaID uuid.UUID) error {
	for _, nome := range []string{model.TipoReceita, model.TipoSubReceita, model.TipoMateriaPrima} {
		if _, err := r.FindByNome(ctx, empresaID, nome); err == nil {
			continue
		}
		if err := r.Create(ctx, &model.TipoProduto{EmpresaID: empresaID, Nome: nome, Sistema: true, Ativo: true}); err != nil {
			return err
		}
	}
	return nil
}

var _ repository.TipoProdutoRepository = (*stubTipoProdutoRepo)(nil)

// stubRelatorioRepo is an in-memory RelatorioRepository.
type stubRelatorioRepo struct {
	relatorios map[uuid.UUID]*model.RelatorioProducao
}

func newStubRelatorioRepo() *stubRelatorioRepo {
	return &stubRelatorioRepo{relatorios: make(map[uuid.UUID]*model.RelatorioProducao)}
}

func (r *stubRelatorioRepo) Create(_ context.Context, rel *model.RelatorioProducao) error {
	if rel.ID == uuid.Nil {
		rel.ID = uuid.New()
	}
	cp := *rel
	r.relatorios[rel.ID] = &cp
	return nil
}

func (r *stubRelatorioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.RelatorioProducao, error) {
	rel, ok := r.relatorios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rel
	return &cp, nil
}

func (r *stubRelatorioRepo) ListByOrdem(_ context.Context, empresaID, ordemID uuid.UUID) ([]model.RelatorioProducao, error) {
	var out []model.RelatorioProducao
	for _, rel := range r.relatorios {
		if rel.EmpresaID == empresaID && rel.OrdemID == ordemID {
			out = append(out, *rel)
		}
	}
	return out, nil
}

func (r *stubRelatorioRepo) Update(_ context.Context, rel *model.RelatorioProducao) error {
	if _, ok := r.relatorios[rel.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *rel
	r.relatorios[rel.ID] = &cp
	return nil
}

func (r *stubRelatorioRepo) ListPendingRetries(_ context.Context, now time.Time, limit int) ([]model.RelatorioProducao, error) {
	var out []model.RelatorioProducao
	for _, rel := range r.relatorios {
		if rel.Status == "erro" && rel.NextRetryAt != nil && !rel.NextRetryAt.After(now) {
			out = append(out, *rel)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

var _ repository.RelatorioRepository = (*stubRelatorioRepo)(nil)
