package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/Martin-Comito/alambrados/internal/apierror"
	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/middleware"
	"github.com/Martin-Comito/alambrados/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	return validar(c, filter)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range ves {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// usuarioActual is the authenticated user's id; routes behind JWTAuth always
// carry one.
func usuarioActual(c *gin.Context) (uuid.UUID, bool) {
	id := middleware.UsuarioID(c)
	if id == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido"))
		return uuid.Nil, false
	}
	return *id, true
}

// ── Error mapping ─────────────────────────────────────────────────────────────

type errorHTTP struct {
	err    error
	status int
	codigo string
}

// Order matters: the first match wins.
var erroresHTTP = []errorHTTP{
	{ledger.ErrNoEncontrado, http.StatusNotFound, "no_encontrado"},
	{service.ErrDatoInvalido, http.StatusBadRequest, "dato_invalido"},
	{ledger.ErrStockInsuficiente, http.StatusConflict, "stock_insuficiente"},
	{ledger.ErrAcopioInsuficiente, http.StatusConflict, "acopio_insuficiente"},
	{ledger.ErrLoteFinalizado, http.StatusConflict, "lote_finalizado"},
	{ledger.ErrLoteNoListo, http.StatusConflict, "lote_no_listo"},
	{ledger.ErrCodigoDuplicado, http.StatusConflict, "codigo_duplicado"},
	{ledger.ErrNombreDuplicado, http.StatusConflict, "nombre_duplicado"},
	{ledger.ErrIDDuplicado, http.StatusConflict, "id_duplicado"},
	{ledger.ErrCantidadInvalida, http.StatusUnprocessableEntity, "cantidad_invalida"},
	{ledger.ErrMontoNegativo, http.StatusUnprocessableEntity, "monto_negativo"},
	{ledger.ErrEntregaInvalida, http.StatusUnprocessableEntity, "entrega_invalida"},
	{ledger.ErrProductoRequerido, http.StatusUnprocessableEntity, "producto_requerido"},
	{ledger.ErrParametroInvalido, http.StatusUnprocessableEntity, "parametro_invalido"},
	{service.ErrCredenciales, http.StatusUnauthorized, "credenciales"},
	{service.ErrRefreshToken, http.StatusUnauthorized, "refresh_token"},
	{service.ErrUsuarioInactivo, http.StatusUnauthorized, "usuario_inactivo"},
	{infra.ErrLockTimeout, http.StatusServiceUnavailable, "inventario_ocupado"},
	{infra.ErrDocumentoNoEncontrado, http.StatusNotFound, "documento_no_encontrado"},
}

// responderError writes the response for a service error. Known domain errors
// keep their message; anything else is logged and answered with a generic 500.
func responderError(c *gin.Context, err error, fallback string) {
	for _, e := range erroresHTTP {
		if errors.Is(err, e.err) {
			c.JSON(e.status, apierror.NewCodigo(e.codigo, err.Error()))
			return
		}
	}
	log.Error().
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.FullPath()).
		Err(err).
		Msg(fallback)
	c.JSON(http.StatusInternalServerError, apierror.New(fallback))
}

// enviarArchivo answers with a downloadable document.
func enviarArchivo(c *gin.Context, contentType, nombre string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nombre))
	c.Data(http.StatusOK, contentType, data)
}

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
