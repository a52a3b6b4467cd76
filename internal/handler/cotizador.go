package handler

import (
	"net/http"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/service"

	"github.com/gin-gonic/gin"
)

type CotizadorHandler struct{ svc service.CotizadorService }

func NewCotizadorHandler(svc service.CotizadorService) *CotizadorHandler {
	return &CotizadorHandler{svc: svc}
}

// CalcularObra estimates the materials of a fence and prices them. With
// cargar_carrito the caller's cart is replaced by the materials.
func (h *CotizadorHandler) CalcularObra(c *gin.Context) {
	uid, ok := usuarioActual(c)
	if !ok {
		return
	}
	var req dto.CotizarObraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CalcularObra(c.Request.Context(), uid.String(), req)
	if err != nil {
		responderError(c, err, "Error al calcular la obra")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CotizadorHandler) PresupuestoPDF(c *gin.Context) {
	var req dto.CotizarObraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	data, nombre, err := h.svc.PresupuestoPDF(c.Request.Context(), req)
	if err != nil {
		responderError(c, err, "Error al generar el presupuesto")
		return
	}
	enviarArchivo(c, "application/pdf", nombre, data)
}
