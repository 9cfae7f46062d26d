package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarProdutoRequest struct {
	Nome          string           `json:"nome"           validate:"required,min=2,max=120"`
	Unidade       string           `json:"unidade"        validate:"required,oneof=Kg UN"`
	Custo         decimal.Decimal  `json:"custo"          validate:"min=0"`
	PesoUnitario  *decimal.Decimal `json:"peso_unitario"`
	PesoKg        *decimal.Decimal `json:"peso_kg"`
	TipoProdutoID *string          `json:"tipo_produto_id" validate:"omitempty,uuid"`
	GrupoID       *string          `json:"grupo_id"        validate:"omitempty,uuid"`
	SubgrupoID    *string          `json:"subgrupo_id"     validate:"omitempty,uuid"`
	EstoqueAtual  decimal.Decimal  `json:"estoque_atual"   validate:"min=0"`
	EstoqueMinimo decimal.Decimal  `json:"estoque_minimo"  validate:"min=0"`
}

type AtualizarProdutoRequest struct {
	Nome          *string          `json:"nome"           validate:"omitempty,min=2,max=120"`
	Unidade       *string          `json:"unidade"        validate:"omitempty,oneof=Kg UN"`
	Custo         *decimal.Decimal `json:"custo"`
	PesoUnitario  *decimal.Decimal `json:"peso_unitario"`
	PesoKg        *decimal.Decimal `json:"peso_kg"`
	TipoProdutoID *string          `json:"tipo_produto_id" validate:"omitempty,uuid"`
	GrupoID       *string          `json:"grupo_id"        validate:"omitempty,uuid"`
	SubgrupoID    *string          `json:"subgrupo_id"     validate:"omitempty,uuid"`
	EstoqueMinimo *decimal.Decimal `json:"estoque_minimo"`
}

type AjusteEstoqueRequest struct {
	Quantidade decimal.Decimal `json:"quantidade" validate:"required"`
	Motivo     string          `json:"motivo"     validate:"required,min=3"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProdutoFilter struct {
	Nome          string `form:"nome"`
	TipoProdutoID string `form:"tipo_produto_id"`
	GrupoID       string `form:"grupo_id"`
	Ativo         string `form:"ativo"` // "" ativos | "false" inativos | "all" todos
	Page          int    `form:"page,default=1"  validate:"min=1"`
	Limit         int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProdutoResponse struct {
	ID            string           `json:"id"`
	Nome          string           `json:"nome"`
	Unidade       string           `json:"unidade"`
	Custo         decimal.Decimal  `json:"custo"`
	PesoUnitario  *decimal.Decimal `json:"peso_unitario,omitempty"`
	PesoKg        *decimal.Decimal `json:"peso_kg,omitempty"`
	ReceitaID     *string          `json:"receita_id,omitempty"`
	TipoProduto   *string          `json:"tipo_produto,omitempty"`
	Grupo         *string          `json:"grupo,omitempty"`
	EstoqueAtual  decimal.Decimal  `json:"estoque_atual"`
	EstoqueMinimo decimal.Decimal  `json:"estoque_minimo"`
	Ativo         bool             `json:"ativo"`
}

type ProdutoListResponse struct {
	Data       []ProdutoResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ConsultaCustoResponse is returned by the cached cost lookup endpoint.
type ConsultaCustoResponse struct {
	Nome         string           `json:"nome"`
	Unidade      string           `json:"unidade"`
	Custo        decimal.Decimal  `json:"custo"`
	CustoKg      *decimal.Decimal `json:"custo_kg,omitempty"`
	CustoUnidade *decimal.Decimal `json:"custo_unidade,omitempty"`
}
