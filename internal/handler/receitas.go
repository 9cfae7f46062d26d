package handler

import (
	"net/http"

	"panifpro/internal/apierror"
	"panifpro/internal/dto"
	"panifpro/internal/middleware"
	"panifpro/internal/service"

	"github.com/gin-gonic/gin"
)

type ReceitasHandler struct {
	svc    service.ReceitaService
	custos service.CustoService
}

func NewReceitasHandler(svc service.ReceitaService, custos service.CustoService) *ReceitasHandler {
	return &ReceitasHandler{svc: svc, custos: custos}
}

// Criar godoc
// @Summary      Cadastrar receita
// @Description  Cria a receita com a lista de ingredientes, calcula o custo e sincroniza o produto espelho.
// @Tags         receitas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CriarReceitaRequest true "Receita"
// @Success      201 {object} dto.ReceitaResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/receitas [post]
func (h *ReceitasHandler) Criar(c *gin.Context) {
	var req dto.CriarReceitaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), middleware.GetEmpresaID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReceitasHandler) Listar(c *gin.Context) {
	var filter dto.ReceitaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetEmpresaID(c), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar receitas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReceitasHandler) Obter(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obter(c.Request.Context(), middleware.GetEmpresaID(c), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Receita não encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReceitasHandler) Atualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarReceitaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), middleware.GetEmpresaID(c), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReceitasHandler) Excluir(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), middleware.GetEmpresaID(c), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// RecalcularCusto forces a cost roll-up of a single recipe, e.g. after a
// raw material price change.
func (h *ReceitasHandler) RecalcularCusto(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resumo, err := h.custos.RecalcularCusto(c.Request.Context(), middleware.GetEmpresaID(c), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resumo)
}

// RecalcularTodos godoc
// @Summary      Recalcular custos em lote
// @Description  Recalcula todas as receitas ativas em ordem de dependência (subreceitas primeiro).
// @Tags         receitas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.RecalculoLoteResponse
// @Failure      500 {object} apierror.APIError
// @Router       /v1/receitas/recalcular-custos [post]
func (h *ReceitasHandler) RecalcularTodos(c *gin.Context) {
	resp, err := h.custos.RecalcularTodos(c.Request.Context(), middleware.GetEmpresaID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
