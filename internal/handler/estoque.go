package handler

import (
	"net/http"

	"panifpro/internal/apierror"
	"panifpro/internal/dto"
	"panifpro/internal/middleware"
	"panifpro/internal/service"

	"github.com/gin-gonic/gin"
)

type EstoqueHandler struct{ svc service.EstoqueService }

func NewEstoqueHandler(svc service.EstoqueService) *EstoqueHandler {
	return &EstoqueHandler{svc: svc}
}

func (h *EstoqueHandler) ListarMovimentos(c *gin.Context) {
	var filter dto.MovimentoEstoqueFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarMovimentos(c.Request.Context(), middleware.GetEmpresaID(c), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar movimentos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alertas lists active products at or below their minimum stock level.
func (h *EstoqueHandler) Alertas(c *gin.Context) {
	resp, err := h.svc.Alertas(c.Request.Context(), middleware.GetEmpresaID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao consultar alertas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
