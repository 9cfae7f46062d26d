package handler

import (
	"net/http"
	"path/filepath"

	"panifpro/internal/apierror"
	"panifpro/internal/dto"
	"panifpro/internal/middleware"
	"panifpro/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdensHandler struct {
	svc         service.OrdemService
	relatorios  service.RelatorioService
	storagePath string
}

func NewOrdensHandler(svc service.OrdemService, relatorios service.RelatorioService, storagePath string) *OrdensHandler {
	return &OrdensHandler{svc: svc, relatorios: relatorios, storagePath: storagePath}
}

func (h *OrdensHandler) Criar(c *gin.Context) {
	var req dto.CriarOrdemRequest
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

func (h *OrdensHandler) Listar(c *gin.Context) {
	var filter dto.OrdemFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetEmpresaID(c), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar ordens"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdensHandler) Obter(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obter(c.Request.Context(), middleware.GetEmpresaID(c), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Ordem de produção não encontrada"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdensHandler) Atualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarOrdemRequest
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

func (h *OrdensHandler) AtualizarStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarStatusOrdemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarStatus(c.Request.Context(), middleware.GetEmpresaID(c), id, req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Materiais godoc
// @Summary      Lista de materiais da ordem
// @Description  Expande as receitas da ordem e agrega as matérias-primas necessárias.
// @Tags         ordens
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da ordem"
// @Success      200 {object} dto.MateriaisResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/ordens/{id}/materiais [get]
func (h *OrdensHandler) Materiais(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.CalcularMateriais(c.Request.Context(), middleware.GetEmpresaID(c), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PrePesagem godoc
// @Summary      Plano de pré-pesagem da ordem
// @Description  Lotes de subreceitas em ordem de produção, seguidos das receitas finais, com as linhas de pesagem escaladas.
// @Tags         ordens
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da ordem"
// @Success      200 {object} dto.PrePesagemResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/ordens/{id}/pre-pesagem [get]
func (h *OrdensHandler) PrePesagem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.CalcularPrePesagem(c.Request.Context(), middleware.GetEmpresaID(c), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Confirmar completes the order: deducts stock and moves it to "concluida".
func (h *OrdensHandler) Confirmar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Confirmar(c.Request.Context(), middleware.GetEmpresaID(c), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Relatórios ───────────────────────────────────────────────────────────────

func (h *OrdensHandler) GerarRelatorio(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.GerarRelatorioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.relatorios.Gerar(c.Request.Context(), middleware.GetEmpresaID(c), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

func (h *OrdensHandler) ListarRelatorios(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.relatorios.ListarPorOrdem(c.Request.Context(), middleware.GetEmpresaID(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar relatórios"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdensHandler) ObterRelatorio(c *gin.Context) {
	id, ok := parseIDParam(c, "relatorioId")
	if !ok {
		return
	}
	resp, err := h.relatorios.Obter(c.Request.Context(), middleware.GetEmpresaID(c), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BaixarRelatorio streams the generated file. 409 while the report has
// not finished generating.
func (h *OrdensHandler) BaixarRelatorio(c *gin.Context) {
	id, ok := parseIDParam(c, "relatorioId")
	if !ok {
		return
	}
	resp, err := h.relatorios.Obter(c.Request.Context(), middleware.GetEmpresaID(c), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	if resp.Status != "gerado" || resp.ArquivoPath == nil {
		c.JSON(http.StatusConflict, apierror.New("Relatório ainda não gerado"))
		return
	}
	c.FileAttachment(filepath.Join(h.storagePath, *resp.ArquivoPath), filepath.Base(*resp.ArquivoPath))
}
