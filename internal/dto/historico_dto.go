package dto

import "github.com/shopspring/decimal"

// HistoricoCustoItem is one row in the cost-history list.
type HistoricoCustoItem struct {
	ID          string          `json:"id"`
	ProdutoID   string          `json:"produto_id"`
	ReceitaID   *string         `json:"receita_id,omitempty"`
	ReceitaNome *string         `json:"receita_nome,omitempty"`
	CustoAntes  decimal.Decimal `json:"custo_antes"`
	CustoDepois decimal.Decimal `json:"custo_depois"`
	Motivo      string          `json:"motivo"`
	CreatedAt   string          `json:"created_at"`
}

// HistoricoCustoListResponse is returned by GET /v1/produtos/:id/historico-custos.
type HistoricoCustoListResponse struct {
	Data  []HistoricoCustoItem `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
