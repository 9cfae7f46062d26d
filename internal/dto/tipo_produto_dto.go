package dto

import "github.com/google/uuid"

type CriarTipoProdutoRequest struct {
	Nome      string  `json:"nome"      validate:"required,min=2,max=100"`
	Descricao *string `json:"descricao"`
}

type TipoProdutoResponse struct {
	ID        uuid.UUID `json:"id"`
	Nome      string    `json:"nome"`
	Descricao *string   `json:"descricao,omitempty"`
	// Sistema marks the reserved types created at tenant provisioning;
	// they cannot be renamed or removed.
	Sistema bool `json:"sistema"`
}
