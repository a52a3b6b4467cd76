package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Martin-Comito/alambrados/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueDocumentos = "jobs:documentos"
	QueueEmail      = "jobs:email"

	TipoPDFVenta = "pdf_venta"
	TipoEmail    = "email"

	maxIntentos = 3
)

var colaDeTipo = map[string]string{
	TipoPDFVenta: QueueDocumentos,
	TipoEmail:    QueueEmail,
}

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Intentos int             `json:"intentos"`
}

// Handler processes one job payload. A returned error schedules a retry
// unless it was wrapped with Permanente.
type Handler func(ctx context.Context, payload json.RawMessage) error

type errPermanente struct{ err error }

func (e errPermanente) Error() string { return e.err.Error() }
func (e errPermanente) Unwrap() error { return e.err }

// Permanente marks an error that retrying cannot fix; the job goes straight
// to the dead-letter queue.
func Permanente(err error) error { return errPermanente{err: err} }

// Dispatcher enqueues async jobs into Redis lists and runs the worker pool
// that consumes them. With a nil client the jobs go through an in-process
// channel instead, so single-PC installs still render and mail receipts.
type Dispatcher struct {
	rdb      *redis.Client
	local    chan encolado
	handlers map[string]Handler
	backoff  func(intento int) time.Duration

	mu  sync.Mutex
	dlq map[string][]DLQEntry // in-process mode only
	wg  sync.WaitGroup
}

type encolado struct {
	queue string
	raw   []byte
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	d := &Dispatcher{
		rdb:      rdb,
		handlers: make(map[string]Handler),
		backoff:  func(intento int) time.Duration { return time.Duration(1<<intento) * time.Second },
		dlq:      make(map[string][]DLQEntry),
	}
	if rdb == nil {
		d.local = make(chan encolado, 256)
	}
	return d
}

// Registrar binds a handler to a job type. Call before Start.
func (d *Dispatcher) Registrar(tipo string, h Handler) {
	d.handlers[tipo] = h
}

// EnqueuePDFVenta asks for the receipt of a sale to be rendered and stored.
func (d *Dispatcher) EnqueuePDFVenta(ctx context.Context, p PDFVentaPayload) error {
	return d.enqueue(ctx, TipoPDFVenta, p)
}

// EnqueueEmail pushes an email job.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, p EmailJobPayload) error {
	return d.enqueue(ctx, TipoEmail, p)
}

func (d *Dispatcher) enqueue(ctx context.Context, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return d.push(ctx, Job{Type: jobType, Payload: data})
}

func (d *Dispatcher) push(ctx context.Context, job Job) error {
	queue, ok := colaDeTipo[job.Type]
	if !ok {
		return fmt.Errorf("tipo de job desconocido: %q", job.Type)
	}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if d.rdb != nil {
		return d.rdb.LPush(ctx, queue, encoded).Err()
	}
	select {
	case d.local <- encolado{queue: queue, raw: encoded}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start launches numWorkers goroutines consuming both queues. They return
// when ctx is cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		d.wg.Add(1)
		go d.runWorker(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Bool("redis", d.rdb != nil).Msg("worker pool started")
}

func (d *Dispatcher) Wait() { d.wg.Wait() }

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	defer d.wg.Done()
	queues := []string{QueueDocumentos, QueueEmail}
	for {
		if d.rdb == nil {
			select {
			case <-ctx.Done():
				log.Info().Msgf("worker %d shutting down", id)
				return
			case e := <-d.local:
				d.processJob(ctx, e.queue, e.raw)
			}
			continue
		}

		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := d.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil || len(result) < 2 {
				continue
			}
			d.processJob(ctx, result[0], []byte(result[1]))
		}
	}
}

func (d *Dispatcher) processJob(ctx context.Context, queue string, raw []byte) {
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h, ok := d.handlers[job.Type]
	if !ok {
		d.SendToDLQ(ctx, queue, job, "sin handler registrado")
		return
	}

	job.Intentos++
	err := h(ctx, job.Payload)
	if err == nil {
		infra.JobsProcesados.WithLabelValues(job.Type, "ok").Inc()
		return
	}

	var perm errPermanente
	if errors.As(err, &perm) || job.Intentos >= maxIntentos {
		infra.JobsProcesados.WithLabelValues(job.Type, "dlq").Inc()
		d.SendToDLQ(ctx, queue, job, err.Error())
		return
	}

	infra.JobsProcesados.WithLabelValues(job.Type, "reintento").Inc()
	espera := d.backoff(job.Intentos)
	log.Warn().Err(err).Str("type", job.Type).Int("intento", job.Intentos).
		Dur("espera", espera).Msg("job failed, retrying")
	time.AfterFunc(espera, func() {
		if ctx.Err() != nil {
			return
		}
		if err := d.push(ctx, job); err != nil {
			log.Error().Err(err).Str("type", job.Type).Msg("re-enqueue failed")
		}
	})
}
