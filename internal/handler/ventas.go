package handler

import (
	"net/http"
	"time"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/middleware"
	"github.com/Martin-Comito/alambrados/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Confirmar godoc
// @Summary      Confirmar una venta
// @Description  Aplica la venta al inventario en una sola transaccion: descuenta stock (inmediata) o reserva (acopio) y congela precios.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ConfirmarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) Confirmar(c *gin.Context) {
	var req dto.ConfirmarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Confirmar(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		responderError(c, err, "Error al confirmar la venta")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err, "Error al listar ventas")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) ObtenerPorID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err, "Error al obtener la venta")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) Recibo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Recibo(c.Request.Context(), id)
	if err != nil {
		responderError(c, err, "Error al obtener el recibo")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DescargarPDF returns the stored receipt PDF, rendering it if the worker
// has not done it yet.
func (h *VentasHandler) DescargarPDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	data, nombre, err := h.svc.ReimprimirPDF(c.Request.Context(), id)
	if err != nil {
		responderError(c, err, "Error al generar el PDF")
		return
	}
	enviarArchivo(c, "application/pdf", nombre, data)
}

func (h *VentasHandler) Resumen(c *gin.Context) {
	var filter dto.ResumenFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err, "Error al calcular el resumen")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) ExportarXLSX(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	data, err := h.svc.ExportarXLSX(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err, "Error al exportar ventas")
		return
	}
	enviarArchivo(c, contentTypeXLSX, "ventas_"+time.Now().Format("20060102")+".xlsx", data)
}

// EntregarAcopio releases goods held in the yard for a customer.
func (h *VentasHandler) EntregarAcopio(c *gin.Context) {
	var req dto.EntregarAcopioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EntregarAcopio(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		responderError(c, err, "Error al registrar la entrega")
		return
	}
	c.JSON(http.StatusOK, resp)
}
