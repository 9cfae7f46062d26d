package handler

// catalogo.go — handlers dos cadastros auxiliares: tipos de produto e
// grupos/subgrupos.

import (
	"net/http"

	"panifpro/internal/apierror"
	"panifpro/internal/dto"
	"panifpro/internal/middleware"
	"panifpro/internal/service"

	"github.com/gin-gonic/gin"
)

type TiposProdutoHandler struct{ svc service.TipoProdutoService }

func NewTiposProdutoHandler(svc service.TipoProdutoService) *TiposProdutoHandler {
	return &TiposProdutoHandler{svc: svc}
}

func (h *TiposProdutoHandler) Criar(c *gin.Context) {
	var req dto.CriarTipoProdutoRequest
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

func (h *TiposProdutoHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetEmpresaID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar tipos de produto"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Grupos ───────────────────────────────────────────────────────────────────

type GruposHandler struct{ svc service.GrupoService }

func NewGruposHandler(svc service.GrupoService) *GruposHandler {
	return &GruposHandler{svc: svc}
}

func (h *GruposHandler) Criar(c *gin.Context) {
	var req dto.CriarGrupoRequest
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

func (h *GruposHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetEmpresaID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar grupos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GruposHandler) Atualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarGrupoRequest
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

func (h *GruposHandler) Desativar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desativar(c.Request.Context(), middleware.GetEmpresaID(c), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GruposHandler) CriarSubgrupo(c *gin.Context) {
	grupoID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CriarSubgrupoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarSubgrupo(c.Request.Context(), middleware.GetEmpresaID(c), grupoID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *GruposHandler) DesativarSubgrupo(c *gin.Context) {
	grupoID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	subID, ok := parseIDParam(c, "subId")
	if !ok {
		return
	}
	if err := h.svc.DesativarSubgrupo(c.Request.Context(), middleware.GetEmpresaID(c), grupoID, subID); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
