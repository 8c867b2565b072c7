package handler

import (
	"net/http"
	"strconv"

	"github.com/dmbruno/Ananda/internal/apierror"
	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductoHandler struct {
	productos *service.ProductoService
}

func NewProductoHandler(productos *service.ProductoService) *ProductoHandler {
	return &ProductoHandler{productos: productos}
}

func (h *ProductoHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.productos.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductoHandler) Listar(c *gin.Context) {
	var f dto.ProductoFilter
	if !bindQueryAndValidate(c, &f) {
		return
	}

	resp, err := h.productos.Listar(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductoHandler) Obtener(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.productos.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductoHandler) Actualizar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.productos.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductoHandler) Eliminar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.productos.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.NewMessage("Producto desactivado"))
}

func (h *ProductoHandler) Reactivar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.productos.Reactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.NewMessage("Producto reactivado"))
}

// SubirImagen accepts a multipart "imagen" file.
func (h *ProductoHandler) SubirImagen(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("imagen")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo de imagen"))
		return
	}

	imagenURL, err := h.productos.SubirImagen(c.Request.Context(), id, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imagen_url": imagenURL})
}

func (h *ProductoHandler) StockBajo(c *gin.Context) {
	resp, err := h.productos.StockBajo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductoHandler) AjustarStock(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.productos.AjustarStock(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AjusteMasivo applies the bulk price adjustment. Admin only.
func (h *ProductoHandler) AjusteMasivo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.AjusteMasivoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	// Scope-specific selector presence.
	switch req.Alcance {
	case "categoria":
		if req.CategoriaID == nil {
			c.JSON(http.StatusBadRequest, apierror.New("categoria_id es requerido para el alcance categoria"))
			return
		}
	case "subcategoria":
		if req.SubcategoriaID == nil {
			c.JSON(http.StatusBadRequest, apierror.New("subcategoria_id es requerido para el alcance subcategoria"))
			return
		}
	case "productos_especificos":
		if len(req.ProductosIDs) == 0 {
			c.JSON(http.StatusBadRequest, apierror.New("productos_ids es requerido para el alcance productos_especificos"))
			return
		}
	}

	resp, err := h.productos.AjusteMasivoPrecios(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductoHandler) HistorialPrecios(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.productos.HistorialPrecios(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductoHandler) MovimientosStock(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.productos.MovimientosStock(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Precio is the public price check by product code.
func (h *ProductoHandler) Precio(c *gin.Context) {
	codigo := c.Param("codigo")
	if codigo == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Codigo requerido"))
		return
	}

	resp, err := h.productos.PrecioPorCodigo(c.Request.Context(), codigo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
