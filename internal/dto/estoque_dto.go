package dto

import "github.com/shopspring/decimal"

// ─── Movimento Estoque ───────────────────────────────────────────────────────

type MovimentoEstoqueFilter struct {
	ProdutoID string `form:"produto_id"`
	Tipo      string `form:"tipo"` // entrada | saida | ajuste | producao
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovimentoEstoqueResponse struct {
	ID              string          `json:"id"`
	ProdutoID       string          `json:"produto_id"`
	ProdutoNome     string          `json:"produto_nome"`
	Tipo            string          `json:"tipo"`
	Quantidade      decimal.Decimal `json:"quantidade"`
	EstoqueAnterior decimal.Decimal `json:"estoque_anterior"`
	EstoqueNovo     decimal.Decimal `json:"estoque_novo"`
	Motivo          string          `json:"motivo"`
	ReferenciaID    *string         `json:"referencia_id,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type MovimentoEstoqueListResponse struct {
	Data  []MovimentoEstoqueResponse `json:"data"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}

// AlertaEstoqueResponse is one product at or below its minimum stock.
type AlertaEstoqueResponse struct {
	ProdutoID     string          `json:"produto_id"`
	Nome          string          `json:"nome"`
	Unidade       string          `json:"unidade"`
	EstoqueAtual  decimal.Decimal `json:"estoque_atual"`
	EstoqueMinimo decimal.Decimal `json:"estoque_minimo"`
}
