package handler

import (
	"net/http"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/middleware"
	"github.com/Martin-Comito/alambrados/internal/service"

	"github.com/gin-gonic/gin"
)

type GastosHandler struct{ svc service.GastoService }

func NewGastosHandler(svc service.GastoService) *GastosHandler { return &GastosHandler{svc: svc} }

// Registrar records a supply purchase and adds it to stock.
func (h *GastosHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarGastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		responderError(c, err, "Error al registrar el gasto")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *GastosHandler) Listar(c *gin.Context) {
	var filter dto.GastoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err, "Error al listar gastos")
		return
	}
	c.JSON(http.StatusOK, resp)
}
