package handler

import (
	"net/http"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/middleware"
	"github.com/Martin-Comito/alambrados/internal/service"

	"github.com/gin-gonic/gin"
)

type ProduccionHandler struct{ svc service.ProduccionService }

func NewProduccionHandler(svc service.ProduccionService) *ProduccionHandler {
	return &ProduccionHandler{svc: svc}
}

func (h *ProduccionHandler) RegistrarLote(c *gin.Context) {
	var req dto.RegistrarLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarLote(c.Request.Context(), middleware.UsuarioID(c), req)
	if err != nil {
		responderError(c, err, "Error al registrar el lote")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarLotes returns active batches, or every batch with ?todos=true.
func (h *ProduccionHandler) ListarLotes(c *gin.Context) {
	var filter dto.LoteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarLotes(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err, "Error al listar lotes")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProduccionHandler) LotesListos(c *gin.Context) {
	resp, err := h.svc.LotesListos(c.Request.Context())
	if err != nil {
		responderError(c, err, "Error al listar lotes")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProduccionHandler) FinalizarLote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.FinalizarLote(c.Request.Context(), middleware.UsuarioID(c), id)
	if err != nil {
		responderError(c, err, "Error al finalizar el lote")
		return
	}
	c.JSON(http.StatusOK, resp)
}
