package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemOrdemRequest struct {
	ReceitaID  string          `json:"receita_id" validate:"required,uuid"`
	Quantidade decimal.Decimal `json:"quantidade" validate:"required"`
	Unidade    string          `json:"unidade"    validate:"required,oneof=Kg UN"`
}

type CriarOrdemRequest struct {
	DataProgramada time.Time          `json:"data_programada" validate:"required"`
	Observacoes    *string            `json:"observacoes"`
	Itens          []ItemOrdemRequest `json:"itens" validate:"required,min=1,dive"`
}

type AtualizarOrdemRequest struct {
	DataProgramada *time.Time `json:"data_programada"`
	Observacoes    *string    `json:"observacoes"`
	// Itens, when present, replaces the whole item list. Only allowed
	// while the order is still "pendente".
	Itens []ItemOrdemRequest `json:"itens" validate:"omitempty,min=1,dive"`
}

type AtualizarStatusOrdemRequest struct {
	Status string `json:"status" validate:"required,oneof=pendente em_andamento concluida cancelada"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type OrdemFilter struct {
	Status string     `form:"status"` // pendente | em_andamento | concluida | cancelada
	De     *time.Time `form:"de"  time_format:"2006-01-02"`
	Ate    *time.Time `form:"ate" time_format:"2006-01-02"`
	Page   int        `form:"page,default=1"  validate:"min=1"`
	Limit  int        `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemOrdemResponse struct {
	ID          string          `json:"id"`
	ReceitaID   string          `json:"receita_id"`
	ReceitaNome string          `json:"receita_nome"`
	Quantidade  decimal.Decimal `json:"quantidade"`
	Unidade     string          `json:"unidade"`
}

type OrdemResponse struct {
	ID             string              `json:"id"`
	Numero         string              `json:"numero"`
	DataProgramada string              `json:"data_programada"`
	Status         string              `json:"status"`
	Observacoes    *string             `json:"observacoes,omitempty"`
	Itens          []ItemOrdemResponse `json:"itens"`
	CreatedAt      string              `json:"created_at"`
}

type OrdemListResponse struct {
	Data       []OrdemResponse `json:"data"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// ─── Materiais / Pré-pesagem ─────────────────────────────────────────────────

// MaterialItem is one aggregated raw-material need across the whole order.
type MaterialItem struct {
	ProdutoID  string          `json:"produto_id"`
	Nome       string          `json:"nome"`
	Quantidade decimal.Decimal `json:"quantidade"`
	Unidade    string          `json:"unidade"`
}

// LoteSubReceitaItem is one intermediate batch the kitchen must produce
// before assembling the final recipes.
type LoteSubReceitaItem struct {
	ReceitaID    string          `json:"receita_id"`
	Nome         string          `json:"nome"`
	Codigo       string          `json:"codigo"`
	Ocorrencias  int             `json:"ocorrencias"`
	QuantidadeKg decimal.Decimal `json:"quantidade_kg"`
}

type MateriaisResponse struct {
	OrdemID   string         `json:"ordem_id"`
	Numero    string         `json:"numero"`
	Materiais []MaterialItem `json:"materiais"`
	// Avisos lists unit conflicts and unresolved ingredients skipped
	// during expansion.
	Avisos []string `json:"avisos,omitempty"`
}

// PesagemLinha is one weighing step for a single recipe of the order.
type PesagemLinha struct {
	Etapa      string          `json:"etapa,omitempty"`
	Nome       string          `json:"nome"`
	Quantidade decimal.Decimal `json:"quantidade"`
	Unidade    string          `json:"unidade"`
	SubReceita bool            `json:"sub_receita"`
}

// PesagemReceita groups the weighing lines of one order item.
type PesagemReceita struct {
	ReceitaID  string          `json:"receita_id"`
	Nome       string          `json:"nome"`
	Codigo     string          `json:"codigo"`
	AlvoKg     decimal.Decimal `json:"alvo_kg"`
	Linhas     []PesagemLinha  `json:"linhas"`
	SubReceita bool            `json:"sub_receita"`
}

type PrePesagemResponse struct {
	OrdemID string `json:"ordem_id"`
	Numero  string `json:"numero"`
	// Lotes lists intermediate batches first, in dependency order, then
	// the final recipes.
	Lotes  []PesagemReceita `json:"lotes"`
	Avisos []string         `json:"avisos,omitempty"`
}

// ConfirmarOrdemResponse reports the stock deductions applied when an
// order is completed.
type ConfirmarOrdemResponse struct {
	OrdemID    string         `json:"ordem_id"`
	Numero     string         `json:"numero"`
	Status     string         `json:"status"`
	Baixas     []MaterialItem `json:"baixas"`
	Insuficientes []MaterialItem `json:"insuficientes,omitempty"`
}
