package handler

import (
	"net/http"

	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/service"

	"github.com/gin-gonic/gin"
)

type CajaHandler struct {
	cajas *service.CajaService
}

func NewCajaHandler(cajas *service.CajaService) *CajaHandler {
	return &CajaHandler{cajas: cajas}
}

func (h *CajaHandler) Actual(c *gin.Context) {
	resp, err := h.cajas.Actual(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) Abrir(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.cajas.Abrir(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CajaHandler) Cerrar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.cajas.Cerrar(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Controlar is admin-only (router applies RequireAdmin).
func (h *CajaHandler) Controlar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.cajas.Controlar(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) Historial(c *gin.Context) {
	var f dto.CajaFilter
	if !bindQueryAndValidate(c, &f) {
		return
	}

	resp, err := h.cajas.Historial(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajaHandler) Obtener(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.cajas.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReportePDF streams the closing report as a download.
func (h *CajaHandler) ReportePDF(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	path, err := h.cajas.ReportePDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="reporte_caja.pdf"`)
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}
