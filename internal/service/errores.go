package service

import (
	"errors"

	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrDatoInvalido marks request data the service could not interpret
// (dates, ids, CSV rows). Handlers answer 400.
var ErrDatoInvalido = errors.New("dato invalido")

type noEncontradoError struct{ msg string }

func (e noEncontradoError) Error() string        { return e.msg }
func (e noEncontradoError) Is(target error) bool { return target == ledger.ErrNoEncontrado }

// noEncontrado turns a missing row into an error that matches
// ledger.ErrNoEncontrado; other errors pass through.
func noEncontrado(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return noEncontradoError{msg: msg}
	}
	return err
}

type datoInvalidoError struct{ msg string }

func (e datoInvalidoError) Error() string        { return e.msg }
func (e datoInvalidoError) Is(target error) bool { return target == ErrDatoInvalido }

func datoInvalido(err error) error {
	if err == nil {
		return nil
	}
	return datoInvalidoError{msg: err.Error()}
}

// registrarAdvertencias logs and counts the advisories of an operation.
func registrarAdvertencias(operacion string, advs []ledger.Advertencia) {
	for _, a := range advs {
		infra.Advertencias.WithLabelValues(string(a.Tipo)).Inc()
		log.Warn().
			Str("operacion", operacion).
			Str("tipo", string(a.Tipo)).
			Str("codigo", a.Codigo).
			Str("nombre", a.Nombre).
			Msg(a.Detalle)
	}
}

func vacioSiNil(advs []ledger.Advertencia) []ledger.Advertencia {
	if advs == nil {
		return []ledger.Advertencia{}
	}
	return advs
}
