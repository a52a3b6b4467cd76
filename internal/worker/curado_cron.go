package worker

// curado_cron.go
// Background goroutine that notices production batches whose curing period
// is over and publishes lote.listo once per batch. The stored batch state is
// not touched; finalizing stays a manual step.

import (
	"context"
	"time"

	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/repository"

	"github.com/rs/zerolog/log"
)

// CuradoCronConfig holds all dependencies for the curing check.
type CuradoCronConfig struct {
	Lotes     repository.LoteRepository
	Publisher infra.Publisher
	Interval  time.Duration
	// Hoy returns the shop's current calendar day as UTC midnight.
	Hoy func() time.Time
}

// StartCuradoCron runs one check right away and then every Interval.
func StartCuradoCron(ctx context.Context, cfg CuradoCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("curado_cron: started")
		RevisarCurados(ctx, cfg)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("curado_cron: shutting down")
				return
			case <-ticker.C:
				RevisarCurados(ctx, cfg)
			}
		}
	}()
}

// RevisarCurados publishes lote.listo for every ready batch not yet notified
// and returns how many were marked.
func RevisarCurados(ctx context.Context, cfg CuradoCronConfig) int {
	hoy := cfg.Hoy()
	lotes, err := cfg.Lotes.ListListosSinAviso(ctx, hoy)
	if err != nil {
		log.Error().Err(err).Msg("curado_cron: failed to list batches")
		return 0
	}

	marcados := 0
	for _, l := range lotes {
		ev := infra.Evento{
			Tipo: infra.EventoLoteListo,
			Key:  l.ID.String(),
			Datos: map[string]any{
				"lote_id":     l.ID.String(),
				"producto":    l.Producto,
				"cantidad":    l.Cantidad.String(),
				"fecha_listo": l.FechaListo.Format("2006-01-02"),
			},
		}
		if err := cfg.Publisher.Publish(ctx, ev); err != nil {
			// retried on the next tick
			log.Warn().Err(err).Str("lote_id", l.ID.String()).Msg("curado_cron: publish failed")
			continue
		}
		if err := cfg.Lotes.MarcarAviso(ctx, l.ID, time.Now().UTC()); err != nil {
			log.Error().Err(err).Str("lote_id", l.ID.String()).Msg("curado_cron: failed to mark batch")
			continue
		}
		log.Info().
			Str("lote_id", l.ID.String()).
			Str("producto", l.Producto).
			Str("cantidad", l.Cantidad.String()).
			Msg("curado_cron: lote listo para finalizar")
		marcados++
	}
	return marcados
}
