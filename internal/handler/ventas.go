package handler

import (
	"net/http"

	"github.com/dmbruno/Ananda/internal/apierror"
	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/service"

	"github.com/gin-gonic/gin"
)

type VentaHandler struct {
	ventas *service.VentaService
}

func NewVentaHandler(ventas *service.VentaService) *VentaHandler {
	return &VentaHandler{ventas: ventas}
}

func (h *VentaHandler) Crear(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CrearVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.ventas.Crear(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VentaHandler) Listar(c *gin.Context) {
	var f dto.VentaFilter
	if !bindQueryAndValidate(c, &f) {
		return
	}

	resp, err := h.ventas.Listar(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentaHandler) Obtener(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.ventas.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentaHandler) Actualizar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.ventas.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentaHandler) Eliminar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.ventas.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.NewMessage("Venta eliminada y stock restaurado"))
}

func (h *VentaHandler) Estadisticas(c *gin.Context) {
	resp, err := h.ventas.EstadisticasUltimos10Dias(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentaHandler) Inconsistencias(c *gin.Context) {
	resp, err := h.ventas.Inconsistencias(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
