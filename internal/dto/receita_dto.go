package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// IngredienteRequest is one BOM line. Exactly one of produto_id /
// sub_receita_id must be set, matching eh_sub_receita.
type IngredienteRequest struct {
	ProdutoID    *string         `json:"produto_id"     validate:"omitempty,uuid"`
	SubReceitaID *string         `json:"sub_receita_id" validate:"omitempty,uuid"`
	EhSubReceita bool            `json:"eh_sub_receita"`
	Quantidade   decimal.Decimal `json:"quantidade"     validate:"required"`
	Unidade      string          `json:"unidade"        validate:"omitempty,max=10"`
	Etapa        string          `json:"etapa"          validate:"omitempty,max=200"`
}

type CriarReceitaRequest struct {
	Nome               string               `json:"nome"                validate:"required,min=2,max=150"`
	Codigo             string               `json:"codigo"              validate:"required,min=1,max=30"`
	RendimentoKg       decimal.Decimal      `json:"rendimento_kg"       validate:"required"`
	RendimentoUnidades *int                 `json:"rendimento_unidades" validate:"omitempty,min=1"`
	Ingredientes       []IngredienteRequest `json:"ingredientes"        validate:"omitempty,dive"`
}

type AtualizarReceitaRequest struct {
	Nome               *string              `json:"nome"                validate:"omitempty,min=2,max=150"`
	Codigo             *string              `json:"codigo"              validate:"omitempty,min=1,max=30"`
	RendimentoKg       *decimal.Decimal     `json:"rendimento_kg"`
	RendimentoUnidades *int                 `json:"rendimento_unidades" validate:"omitempty,min=1"`
	// Ingredientes, when present, replaces the whole ingredient list.
	Ingredientes []IngredienteRequest `json:"ingredientes" validate:"omitempty,dive"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ReceitaFilter struct {
	Nome  string `form:"nome"`
	Tipo  string `form:"tipo"` // "" todas | "sub" subreceitas | "final" finais
	Page  int    `form:"page,default=1"  validate:"min=1"`
	Limit int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type IngredienteResponse struct {
	ID           string          `json:"id"`
	ProdutoID    *string         `json:"produto_id,omitempty"`
	SubReceitaID *string         `json:"sub_receita_id,omitempty"`
	EhSubReceita bool            `json:"eh_sub_receita"`
	Nome         string          `json:"nome"`
	Quantidade   decimal.Decimal `json:"quantidade"`
	Unidade      string          `json:"unidade"`
	Custo        decimal.Decimal `json:"custo"`
	CustoTotal   decimal.Decimal `json:"custo_total"`
	Etapa        string          `json:"etapa,omitempty"`
}

type ReceitaResponse struct {
	ID                 string                `json:"id"`
	Nome               string                `json:"nome"`
	Codigo             string                `json:"codigo"`
	SubReceita         bool                  `json:"sub_receita"`
	RendimentoKg       decimal.Decimal       `json:"rendimento_kg"`
	RendimentoUnidades *int                  `json:"rendimento_unidades,omitempty"`
	CustoKg            decimal.Decimal       `json:"custo_kg"`
	CustoUnidade       *decimal.Decimal      `json:"custo_unidade,omitempty"`
	ProdutoID          *string               `json:"produto_id,omitempty"`
	Ingredientes       []IngredienteResponse `json:"ingredientes,omitempty"`
	Ativo              bool                  `json:"ativo"`
	// Aviso carries non-fatal warnings, e.g. product sync skipped because
	// the system product type is missing.
	Aviso *string `json:"aviso,omitempty"`
}

type ReceitaListResponse struct {
	Data       []ReceitaResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// RecalculoLoteResponse summarizes a batch cost recompute.
type RecalculoLoteResponse struct {
	Recalculadas int      `json:"recalculadas"`
	ComErro      int      `json:"com_erro"`
	Erros        []string `json:"erros,omitempty"`
}
