package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/model"
	"github.com/Martin-Comito/alambrados/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nuevoDispatcher(t *testing.T) (*Dispatcher, context.Context) {
	t.Helper()
	d := NewDispatcher(nil)
	d.backoff = func(int) time.Duration { return time.Millisecond }
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		d.Wait()
	})
	return d, ctx
}

func TestDispatcher_ReintentaHastaExito(t *testing.T) {
	d, ctx := nuevoDispatcher(t)

	var intentos atomic.Int32
	listo := make(chan PDFVentaPayload, 1)
	d.Registrar(TipoPDFVenta, func(_ context.Context, raw json.RawMessage) error {
		if intentos.Add(1) < 3 {
			return errors.New("storage caido")
		}
		var p PDFVentaPayload
		require.NoError(t, json.Unmarshal(raw, &p))
		listo <- p
		return nil
	})
	d.Start(ctx, 2)

	id := uuid.NewString()
	require.NoError(t, d.EnqueuePDFVenta(ctx, PDFVentaPayload{VentaID: id}))

	select {
	case p := <-listo:
		assert.Equal(t, id, p.VentaID)
	case <-time.After(2 * time.Second):
		t.Fatal("job never succeeded")
	}
	assert.Equal(t, int32(3), intentos.Load())
	n, err := d.DLQLength(ctx, QueueDocumentos)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDispatcher_AgotaIntentosVaADLQ(t *testing.T) {
	d, ctx := nuevoDispatcher(t)

	var intentos atomic.Int32
	d.Registrar(TipoEmail, func(context.Context, json.RawMessage) error {
		intentos.Add(1)
		return errors.New("smtp timeout")
	})
	d.Start(ctx, 1)
	require.NoError(t, d.EnqueueEmail(ctx, EmailJobPayload{ToEmail: "a@b.com"}))

	require.Eventually(t, func() bool {
		n, _ := d.DLQLength(ctx, QueueEmail)
		return n == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(maxIntentos), intentos.Load())
}

func TestDispatcher_ErrorPermanenteNoReintenta(t *testing.T) {
	d, ctx := nuevoDispatcher(t)

	var intentos atomic.Int32
	d.Registrar(TipoEmail, func(context.Context, json.RawMessage) error {
		intentos.Add(1)
		return Permanente(errors.New("payload roto"))
	})
	d.Start(ctx, 1)
	require.NoError(t, d.EnqueueEmail(ctx, EmailJobPayload{ToEmail: "a@b.com"}))

	require.Eventually(t, func() bool {
		n, _ := d.DLQLength(ctx, QueueEmail)
		return n == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), intentos.Load())
}

// ── PDF worker ────────────────────────────────────────────────────────────────

type fakeRenderer struct {
	doc *DocumentoVenta
	err error
}

func (f fakeRenderer) GenerarPDF(context.Context, uuid.UUID) (*DocumentoVenta, error) {
	return f.doc, f.err
}

func TestPDFWorker_EncolaEmail(t *testing.T) {
	d, ctx := nuevoDispatcher(t)
	emails := make(chan EmailJobPayload, 1)
	d.Registrar(TipoEmail, func(_ context.Context, raw json.RawMessage) error {
		var p EmailJobPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		emails <- p
		return nil
	})
	w := NewPDFWorker(fakeRenderer{doc: &DocumentoVenta{Path: "recibo/2024/03/x.pdf", Numero: 12, Cliente: "Juan"}}, d, "Alambrados")
	d.Registrar(TipoPDFVenta, w.Process)
	d.Start(ctx, 1)

	mail := "juan@example.com"
	require.NoError(t, d.EnqueuePDFVenta(ctx, PDFVentaPayload{VentaID: uuid.NewString(), Email: &mail}))

	select {
	case p := <-emails:
		assert.Equal(t, mail, p.ToEmail)
		assert.Equal(t, "recibo/2024/03/x.pdf", p.DocPath)
		assert.Equal(t, "venta-000012.pdf", p.Nombre)
		assert.Contains(t, p.Subject, "#000012")
	case <-time.After(2 * time.Second):
		t.Fatal("email job not enqueued")
	}
}

func TestPDFWorker_PayloadInvalidoEsPermanente(t *testing.T) {
	w := NewPDFWorker(fakeRenderer{}, NewDispatcher(nil), "X")
	err := w.Process(context.Background(), json.RawMessage(`{"venta_id":"no-es-uuid"}`))
	var perm errPermanente
	assert.True(t, errors.As(err, &perm))
}

// ── Curing cron ───────────────────────────────────────────────────────────────

type publisherEnMemoria struct {
	mu      sync.Mutex
	eventos []infra.Evento
}

func (p *publisherEnMemoria) Publish(_ context.Context, ev infra.Evento) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eventos = append(p.eventos, ev)
	return nil
}

func (p *publisherEnMemoria) Close() error { return nil }

func TestRevisarCurados_UnAvisoPorLote(t *testing.T) {
	db, err := infra.OpenSQLite("file:curado_cron?mode=memory&cache=shared")
	require.NoError(t, err)
	repo := repository.NewLoteRepository(db)

	hoy := time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC)
	nuevo := func(producto string, inicio time.Time, estado ledger.EstadoLote) {
		l := model.LoteProduccion{
			Producto:     producto,
			Cantidad:     decimal.NewFromInt(20),
			FechaInicio:  inicio,
			DiasFraguado: 28,
			FechaListo:   inicio.AddDate(0, 0, 28),
			Estado:       string(estado),
		}
		require.NoError(t, repo.CreateTx(db, &l))
	}
	nuevo("POSTE OLIMPICO", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ledger.LoteEnProceso)
	nuevo("POSTE REFUERZO", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), ledger.LoteEnProceso)
	nuevo("POSTE ESQUINERO", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), ledger.LoteFinalizado)

	pub := &publisherEnMemoria{}
	cfg := CuradoCronConfig{Lotes: repo, Publisher: pub, Hoy: func() time.Time { return hoy }}

	assert.Equal(t, 1, RevisarCurados(context.Background(), cfg))
	require.Len(t, pub.eventos, 1)
	assert.Equal(t, infra.EventoLoteListo, pub.eventos[0].Tipo)

	// already notified
	assert.Equal(t, 0, RevisarCurados(context.Background(), cfg))

	cfg.Hoy = func() time.Time { return hoy.AddDate(0, 0, 1) }
	assert.Equal(t, 1, RevisarCurados(context.Background(), cfg))
	assert.Len(t, pub.eventos, 2)
}
