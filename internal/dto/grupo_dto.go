package dto

import "github.com/google/uuid"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CriarGrupoRequest struct {
	Nome      string  `json:"nome"      validate:"required,min=2,max=100"`
	Descricao *string `json:"descricao"`
}

type AtualizarGrupoRequest struct {
	Nome      *string `json:"nome"      validate:"omitempty,min=2,max=100"`
	Descricao *string `json:"descricao"`
	Ativo     *bool   `json:"ativo"`
}

type CriarSubgrupoRequest struct {
	Nome string `json:"nome" validate:"required,min=2,max=100"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type SubgrupoResponse struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
}

type GrupoResponse struct {
	ID        uuid.UUID          `json:"id"`
	Nome      string             `json:"nome"`
	Descricao *string            `json:"descricao,omitempty"`
	Ativo     bool               `json:"ativo"`
	Subgrupos []SubgrupoResponse `json:"subgrupos,omitempty"`
}
