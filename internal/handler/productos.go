package handler

import (
	"net/http"
	"time"

	"github.com/Martin-Comito/alambrados/internal/apierror"
	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/middleware"
	"github.com/Martin-Comito/alambrados/internal/service"

	"github.com/gin-gonic/gin"
)

// maxPlanilla caps uploaded spreadsheets.
const maxPlanilla = 10 << 20

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		responderError(c, err, "Error al crear el producto")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err, "Error al listar productos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err, "Error al obtener el producto")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorCodigo returns the first product with the code plus a duplicate
// advisory when the code is shared.
func (h *ProductosHandler) ObtenerPorCodigo(c *gin.Context) {
	resp, err := h.svc.ObtenerPorCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		responderError(c, err, "Error al obtener el producto")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.UsuarioID(c), id, req)
	if err != nil {
		responderError(c, err, "Error al actualizar el producto")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) AjustarStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarStock(c.Request.Context(), middleware.UsuarioID(c), id, req)
	if err != nil {
		responderError(c, err, "Error al ajustar el stock")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) AjustarReservado(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarReservado(c.Request.Context(), middleware.UsuarioID(c), id, req)
	if err != nil {
		responderError(c, err, "Error al ajustar lo reservado")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReemplazarCatalogo replaces the whole inventory with the request body.
func (h *ProductosHandler) ReemplazarCatalogo(c *gin.Context) {
	var req dto.ReemplazarCatalogoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ReemplazarCatalogo(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		responderError(c, err, "Error al reemplazar el catalogo")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ImportarPlanilla accepts a multipart "archivo" field with a .csv or .xlsx
// inventory sheet.
func (h *ProductosHandler) ImportarPlanilla(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPlanilla)
	fh, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo (campo 'archivo')"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}
	defer f.Close()

	resp, err := h.svc.ImportarPlanilla(c.Request.Context(), middleware.UsuarioID(c), fh.Filename, f)
	if err != nil {
		responderError(c, err, "Error al importar la planilla")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) ExportarXLSX(c *gin.Context) {
	data, err := h.svc.ExportarXLSX(c.Request.Context())
	if err != nil {
		responderError(c, err, "Error al exportar el inventario")
		return
	}
	enviarArchivo(c, contentTypeXLSX, "inventario_"+time.Now().Format("20060102")+".xlsx", data)
}
