package handler

import (
	"net/http"

	"github.com/dmbruno/Ananda/internal/apierror"
	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/service"

	"github.com/gin-gonic/gin"
)

type ClienteHandler struct {
	clientes *service.ClienteService
}

func NewClienteHandler(clientes *service.ClienteService) *ClienteHandler {
	return &ClienteHandler{clientes: clientes}
}

func (h *ClienteHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.clientes.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClienteHandler) Listar(c *gin.Context) {
	incluirInactivos := c.Query("incluir_inactivos") == "true"
	resp, err := h.clientes.Listar(c.Request.Context(), incluirInactivos)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClienteHandler) Obtener(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.clientes.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClienteHandler) Actualizar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.clientes.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClienteHandler) Eliminar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.clientes.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.NewMessage("Cliente desactivado"))
}

func (h *ClienteHandler) Reactivar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.clientes.Reactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.NewMessage("Cliente reactivado"))
}

// Cumples feeds the birthday panel with this month's birthdays.
func (h *ClienteHandler) Cumples(c *gin.Context) {
	resp, err := h.clientes.CumplesDelMes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Saludo stamps the last-greeting timestamp.
func (h *ClienteHandler) Saludo(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.clientes.MarcarSaludo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
