package handler

import (
	"net/http"
	"strconv"

	"github.com/Martin-Comito/alambrados/internal/apierror"
	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/service"

	"github.com/gin-gonic/gin"
)

// CarritoHandler serves the caller's own quote cart. The cart is keyed by
// the authenticated user, never by a request parameter.
type CarritoHandler struct {
	carritos service.CarritoService
	ventas   service.VentaService
}

func NewCarritoHandler(carritos service.CarritoService, ventas service.VentaService) *CarritoHandler {
	return &CarritoHandler{carritos: carritos, ventas: ventas}
}

func (h *CarritoHandler) Obtener(c *gin.Context) {
	uid, ok := usuarioActual(c)
	if !ok {
		return
	}
	resp, err := h.carritos.Obtener(c.Request.Context(), uid.String())
	if err != nil {
		responderError(c, err, "Error al obtener el carrito")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) AgregarLinea(c *gin.Context) {
	uid, ok := usuarioActual(c)
	if !ok {
		return
	}
	var req dto.AgregarLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.carritos.AgregarLinea(c.Request.Context(), uid.String(), req)
	if err != nil {
		responderError(c, err, "Error al agregar al carrito")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) QuitarLinea(c *gin.Context) {
	uid, ok := usuarioActual(c)
	if !ok {
		return
	}
	indice, err := strconv.Atoi(c.Param("indice"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Indice invalido"))
		return
	}
	resp, err := h.carritos.QuitarLinea(c.Request.Context(), uid.String(), indice)
	if err != nil {
		responderError(c, err, "Error al quitar la linea")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) Vaciar(c *gin.Context) {
	uid, ok := usuarioActual(c)
	if !ok {
		return
	}
	if err := h.carritos.Vaciar(c.Request.Context(), uid.String()); err != nil {
		responderError(c, err, "Error al vaciar el carrito")
		return
	}
	c.Status(http.StatusNoContent)
}

// Confirmar sells the cart and discards it.
func (h *CarritoHandler) Confirmar(c *gin.Context) {
	uid, ok := usuarioActual(c)
	if !ok {
		return
	}
	var req dto.ConfirmarCarritoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ventas.ConfirmarCarrito(c.Request.Context(), uid, req)
	if err != nil {
		responderError(c, err, "Error al confirmar el carrito")
		return
	}
	c.JSON(http.StatusCreated, resp)
}
