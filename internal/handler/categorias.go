package handler

import (
	"net/http"

	"github.com/dmbruno/Ananda/internal/apierror"
	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoriaHandler struct {
	categorias *service.CategoriaService
}

func NewCategoriaHandler(categorias *service.CategoriaService) *CategoriaHandler {
	return &CategoriaHandler{categorias: categorias}
}

func (h *CategoriaHandler) Crear(c *gin.Context) {
	var req dto.CrearCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.categorias.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CategoriaHandler) Listar(c *gin.Context) {
	incluirInactivas := c.Query("incluir_inactivas") == "true"
	resp, err := h.categorias.Listar(c.Request.Context(), incluirInactivas)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriaHandler) Obtener(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.categorias.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriaHandler) Actualizar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.CrearCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.categorias.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriaHandler) Eliminar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.categorias.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.NewMessage("Categoria desactivada"))
}

func (h *CategoriaHandler) Reactivar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.categorias.Reactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.NewMessage("Categoria reactivada"))
}

// ─── Subcategorias ───────────────────────────────────────────────────────────

func (h *CategoriaHandler) CrearSubcategoria(c *gin.Context) {
	var req dto.CrearSubcategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.categorias.CrearSubcategoria(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CategoriaHandler) ListarSubcategorias(c *gin.Context) {
	var categoriaID *uuid.UUID
	if raw := c.Query("categoria_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("categoria_id invalido"))
			return
		}
		categoriaID = &id
	}

	resp, err := h.categorias.ListarSubcategorias(c.Request.Context(), categoriaID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriaHandler) ActualizarSubcategoria(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Nombre string `json:"nombre" validate:"required"`
	}
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.categorias.ActualizarSubcategoria(c.Request.Context(), id, req.Nombre)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriaHandler) EliminarSubcategoria(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.categorias.EliminarSubcategoria(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.NewMessage("Subcategoria desactivada"))
}
