package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/ledger"
	"github.com/Martin-Comito/alambrados/internal/model"
	"github.com/Martin-Comito/alambrados/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerLockKey serializes every catalog writer.
const LedgerLockKey = "ledger:catalogo"

// ── LedgerStore ───────────────────────────────────────────────────────────────
// Every stock-changing operation runs through Ejecutar:
//   1. take the ledger write lock
//   2. open a transaction and load the catalog snapshot
//   3. run the ledger operation against the snapshot
//   4. Operacion.Guardar diffs the snapshot and writes products + movements
//   5. commit, then invalidate cached prices of the touched codes

type LedgerStore struct {
	db        *gorm.DB
	locker    infra.Locker
	productos repository.ProductoRepository
	movs      repository.MovimientoStockRepository
	politica  ledger.Politica
	precios   *repository.PrecioCache
}

func NewLedgerStore(
	db *gorm.DB,
	locker infra.Locker,
	productos repository.ProductoRepository,
	movs repository.MovimientoStockRepository,
	politica ledger.Politica,
	precios *repository.PrecioCache,
) *LedgerStore {
	return &LedgerStore{
		db:        db,
		locker:    locker,
		productos: productos,
		movs:      movs,
		politica:  politica,
		precios:   precios,
	}
}

func (s *LedgerStore) Politica() ledger.Politica { return s.politica }

// Snapshot loads a read-only copy of the catalog without taking the lock.
func (s *LedgerStore) Snapshot(ctx context.Context) (*ledger.Catalogo, error) {
	rows, err := s.productos.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ledger.Item, len(rows))
	for i, p := range rows {
		items[i] = itemDesdeModelo(p)
	}
	return ledger.NuevoCatalogo(items, s.politica), nil
}

// Operacion is the unit of work handed to Ejecutar's callback.
type Operacion struct {
	Tx        *gorm.DB
	Catalogo  *ledger.Catalogo
	UsuarioID *uuid.UUID

	store    *LedgerStore
	modelos  map[uuid.UUID]model.Producto
	tocados  map[string]struct{}
	ahora    time.Time
	cambios  int
	altas    int
	bajas    int
}

// Ejecutar runs fn under the ledger lock inside one transaction. Any error
// returned by fn rolls back every write.
func (s *LedgerStore) Ejecutar(ctx context.Context, usuarioID *uuid.UUID, fn func(op *Operacion) error) error {
	start := time.Now()
	unlock, err := s.locker.Lock(ctx, LedgerLockKey)
	if err != nil {
		return err
	}
	defer unlock()
	infra.LedgerLockEspera.Observe(time.Since(start).Seconds())

	var op *Operacion
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.productos.ListAllTx(tx)
		if err != nil {
			return fmt.Errorf("cargar catalogo: %w", err)
		}
		items := make([]ledger.Item, len(rows))
		modelos := make(map[uuid.UUID]model.Producto, len(rows))
		for i, p := range rows {
			items[i] = itemDesdeModelo(p)
			modelos[p.ID] = p
		}
		op = &Operacion{
			Tx:        tx,
			Catalogo:  ledger.NuevoCatalogo(items, s.politica),
			UsuarioID: usuarioID,
			store:     s,
			modelos:   modelos,
			tocados:   make(map[string]struct{}),
			ahora:     time.Now().UTC(),
		}
		return fn(op)
	})
	if err != nil {
		return err
	}

	if len(op.tocados) > 0 {
		codigos := make([]string, 0, len(op.tocados))
		for c := range op.tocados {
			codigos = append(codigos, c)
		}
		if err := s.precios.Invalidar(ctx, codigos...); err != nil {
			log.Warn().Err(err).Strs("codigos", codigos).Msg("ledger: invalidar cache de precios")
		}
	}
	return nil
}

// Guardar writes every change made to the snapshot since the last Guardar
// (or since the load) and records one movement per changed quantity. tipo
// and motivo label the movements; ref links them to a sale or batch.
func (op *Operacion) Guardar(tipo, motivo string, ref *uuid.UUID) error {
	actuales := op.Catalogo.Items()
	vistos := make(map[uuid.UUID]struct{}, len(actuales))
	var movs []model.MovimientoStock

	for pos, it := range actuales {
		vistos[it.ID] = struct{}{}
		prev, existia := op.modelos[it.ID]

		if !existia {
			p := modeloDesdeItem(model.Producto{}, it, pos)
			if err := op.store.productos.CreateTx(op.Tx, &p); err != nil {
				return fmt.Errorf("crear producto %q: %w", it.Nombre, err)
			}
			op.modelos[p.ID] = p
			op.tocar(it.Codigo)
			op.altas++
			movs = append(movs, op.movimientos(p, decimal.Zero, decimal.Zero, tipo, motivo, ref)...)
			continue
		}

		if !cambio(prev, it, pos) {
			continue
		}
		p := modeloDesdeItem(prev, it, pos)
		if err := op.store.productos.SaveTx(op.Tx, &p); err != nil {
			return fmt.Errorf("guardar producto %q: %w", it.Nombre, err)
		}
		op.modelos[p.ID] = p
		op.tocar(prev.Codigo)
		op.tocar(it.Codigo)
		op.cambios++
		movs = append(movs, op.movimientos(p, prev.Cantidad, prev.Reservado, tipo, motivo, ref)...)
	}

	for id, prev := range op.modelos {
		if _, ok := vistos[id]; ok {
			continue
		}
		if err := op.store.productos.DeleteTx(op.Tx, id); err != nil {
			return fmt.Errorf("borrar producto %q: %w", prev.Nombre, err)
		}
		delete(op.modelos, id)
		op.tocar(prev.Codigo)
		op.bajas++
		baja := prev
		baja.Cantidad, baja.Reservado = decimal.Zero, decimal.Zero
		movs = append(movs, op.movimientos(baja, prev.Cantidad, prev.Reservado, tipo, motivo, ref)...)
	}

	if len(movs) == 0 {
		return nil
	}
	return op.store.movs.CreateBatchTx(op.Tx, movs)
}

// Modelo returns the persisted row of an item after Guardar.
func (op *Operacion) Modelo(id uuid.UUID) (model.Producto, bool) {
	p, ok := op.modelos[id]
	return p, ok
}

// Resumen counts the rows created, updated and deleted so far.
func (op *Operacion) Resumen() (altas, cambios, bajas int) {
	return op.altas, op.cambios, op.bajas
}

// Ahora is the operation's timestamp (UTC).
func (op *Operacion) Ahora() time.Time { return op.ahora }

func (op *Operacion) tocar(codigo string) {
	if codigo != "" {
		op.tocados[codigo] = struct{}{}
	}
}

func (op *Operacion) movimientos(p model.Producto, cantAntes, resAntes decimal.Decimal, tipo, motivo string, ref *uuid.UUID) []model.MovimientoStock {
	var out []model.MovimientoStock
	add := func(campo string, antes, despues decimal.Decimal) {
		if antes.Equal(despues) {
			return
		}
		out = append(out, model.MovimientoStock{
			ProductoID:   p.ID,
			Codigo:       p.Codigo,
			Nombre:       p.Nombre,
			Tipo:         tipo,
			Campo:        campo,
			Cantidad:     despues.Sub(antes),
			Anterior:     antes,
			Nuevo:        despues,
			Motivo:       motivo,
			ReferenciaID: ref,
			UsuarioID:    op.UsuarioID,
			CreatedAt:    op.ahora,
		})
	}
	add(model.CampoCantidad, cantAntes, p.Cantidad)
	add(model.CampoReservado, resAntes, p.Reservado)
	return out
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func itemDesdeModelo(p model.Producto) ledger.Item {
	return ledger.Item{
		ID:          p.ID,
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Unidad:      p.Unidad,
		PrecioCosto: p.PrecioCosto,
		PrecioVenta: p.PrecioVenta,
		Cantidad:    p.Cantidad,
		Reservado:   p.Reservado,
		StockMinimo: p.StockMinimo,
	}
}

func modeloDesdeItem(base model.Producto, it ledger.Item, pos int) model.Producto {
	base.ID = it.ID
	base.Posicion = pos
	base.Codigo = it.Codigo
	base.Nombre = it.Nombre
	base.Unidad = it.Unidad
	base.PrecioCosto = it.PrecioCosto
	base.PrecioVenta = it.PrecioVenta
	base.Cantidad = it.Cantidad
	base.Reservado = it.Reservado
	base.StockMinimo = it.StockMinimo
	return base
}

func cambio(p model.Producto, it ledger.Item, pos int) bool {
	return p.Posicion != pos ||
		p.Codigo != it.Codigo ||
		p.Nombre != it.Nombre ||
		p.Unidad != it.Unidad ||
		!p.PrecioCosto.Equal(it.PrecioCosto) ||
		!p.PrecioVenta.Equal(it.PrecioVenta) ||
		!p.Cantidad.Equal(it.Cantidad) ||
		!p.Reservado.Equal(it.Reservado) ||
		!p.StockMinimo.Equal(it.StockMinimo)
}
