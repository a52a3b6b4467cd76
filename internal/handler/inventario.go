package handler

import (
	"net/http"

	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct {
	svc     service.InventarioService
	recetas service.RecetaService
}

func NewInventarioHandler(svc service.InventarioService, recetas service.RecetaService) *InventarioHandler {
	return &InventarioHandler{svc: svc, recetas: recetas}
}

// ObtenerAlertas lists items below minimum, negative, over-reserved and
// shared codes.
func (h *InventarioHandler) ObtenerAlertas(c *gin.Context) {
	resp, err := h.svc.ObtenerAlertas(c.Request.Context())
	if err != nil {
		responderError(c, err, "Error al obtener alertas")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err, "Error al listar movimientos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Recetas ───────────────────────────────────────────────────────────────────

func (h *InventarioHandler) ListarRecetas(c *gin.Context) {
	resp, err := h.recetas.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err, "Error al listar recetas")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReemplazarRecetas overwrites the recipe table.
func (h *InventarioHandler) ReemplazarRecetas(c *gin.Context) {
	var req dto.ReemplazarRecetasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.recetas.Reemplazar(c.Request.Context(), req)
	if err != nil {
		responderError(c, err, "Error al guardar las recetas")
		return
	}
	c.JSON(http.StatusOK, resp)
}
