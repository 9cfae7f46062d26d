package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type GerarRelatorioRequest struct {
	Tipo string `json:"tipo" validate:"required,oneof=materiais_pdf materiais_xlsx pre_pesagem_pdf"`
	// Email, when set, receives the generated file as attachment.
	Email *string `json:"email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RelatorioResponse struct {
	ID          string  `json:"id"`
	OrdemID     string  `json:"ordem_id"`
	Tipo        string  `json:"tipo"`
	Status      string  `json:"status"`
	ArquivoPath *string `json:"arquivo_path,omitempty"`
	Email       *string `json:"email,omitempty"`
	LastError   *string `json:"last_error,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
