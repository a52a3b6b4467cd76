// cmd/seed/main.go: creates the admin user and, on an empty database, a
// sample catalog.
// Uso: go run ./cmd/seed [-password X] [-catalogo=false]
//
//	go run ./cmd/seed -hash X   prints the bcrypt hash of X and exits
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/Martin-Comito/alambrados/internal/config"
	"github.com/Martin-Comito/alambrados/internal/dto"
	"github.com/Martin-Comito/alambrados/internal/infra"
	"github.com/Martin-Comito/alambrados/internal/model"
	"github.com/Martin-Comito/alambrados/internal/repository"
	"github.com/Martin-Comito/alambrados/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	hash := flag.String("hash", "", "imprime el hash bcrypt de la clave y termina")
	username := flag.String("usuario", "admin", "usuario administrador")
	password := flag.String("password", "alambrados2026", "clave del administrador")
	catalogo := flag.Bool("catalogo", true, "carga el catalogo de ejemplo si no hay productos")
	flag.Parse()

	if *hash != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(*hash), 12)
		if err != nil {
			log.Fatal().Err(err).Msg("bcrypt")
		}
		fmt.Println(string(h))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	ctx := context.Background()

	usuarios := repository.NewUsuarioRepository(db)
	if err := seedAdmin(ctx, usuarios, cfg, *username, *password); err != nil {
		log.Fatal().Err(err).Msg("admin")
	}

	if !*catalogo {
		return
	}
	productos := repository.NewProductoRepository(db)
	existentes, err := productos.ListAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listar productos")
	}
	if len(existentes) > 0 {
		log.Info().Int("productos", len(existentes)).Msg("catalogo ya cargado, no se modifica")
		return
	}

	precios := repository.NewPrecioCache(nil)
	store := service.NewLedgerStore(db, infra.NewMemoryLocker(), productos, repository.NewMovimientoStockRepository(db), cfg.Politica(), precios)
	svc := service.NewProductoService(productos, store, precios, infra.LogPublisher{})
	resp, err := svc.ReemplazarCatalogo(ctx, nil, dto.ReemplazarCatalogoRequest{Productos: catalogoEjemplo()})
	if err != nil {
		log.Fatal().Err(err).Msg("cargar catalogo")
	}
	log.Info().Int("productos", resp.Productos).Int("altas", resp.Altas).Msg("catalogo de ejemplo cargado")
}

func seedAdmin(ctx context.Context, repo repository.UsuarioRepository, cfg *config.Config, username, password string) error {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	u, err := repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		svc := service.NewAuthService(repo, cfg)
		if _, err := svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{
			Username: username,
			Nombre:   "Administrador",
			Password: password,
			Rol:      model.RolAdministrador,
		}); err != nil {
			return err
		}
		log.Info().Str("usuario", username).Msg("administrador creado")
		return nil
	case err != nil:
		return err
	}
	u.PasswordHash = string(h)
	u.Rol = model.RolAdministrador
	u.Activo = true
	if err := repo.Update(ctx, u); err != nil {
		return err
	}
	log.Info().Str("usuario", username).Msg("administrador actualizado")
	return nil
}

// catalogoEjemplo mirrors the shop's sheet, shared codes included.
func catalogoEjemplo() []dto.ProductoItemRequest {
	p := func(codigo, nombre, unidad, costo, venta, cantidad, minimo string) dto.ProductoItemRequest {
		return dto.ProductoItemRequest{
			Codigo:      codigo,
			Nombre:      nombre,
			Unidad:      unidad,
			PrecioCosto: decimal.RequireFromString(costo),
			PrecioVenta: decimal.RequireFromString(venta),
			Cantidad:    decimal.RequireFromString(cantidad),
			Reservado:   decimal.Zero,
			StockMinimo: decimal.RequireFromString(minimo),
		}
	}
	return []dto.ProductoItemRequest{
		p("27", "POSTE OLIMPICO", "un.", "12000", "17999", "40", "10"),
		p("10", "POSTE INTERMEDIO 2.40", "un.", "6000", "9000", "120", "30"),
		p("11", "POSTE REFUERZO 2.40", "un.", "10000", "15000", "30", "8"),
		p("3", "TEJIDO ROMBOIDAL 1.50", "m", "1400", "2100", "200", "50"),
		p("3", "TEJIDO ROMBOIDAL 1.80", "m", "1700", "2500", "150", "50"),
		p("5", "ALAMBRE LISO 17/15 x 100m", "rollo", "18000", "26000", "12", "4"),
		p("15", "ALAMBRE DE PUAS x 100m", "rollo", "22000", "31000", "8", "2"),
		p("15", "TORNIQUETE N7", "un.", "900", "1500", "60", "20"),
		p("40", "CEMENTO x 50kg", "bolsa", "8500", "11000", "25", "10"),
		p("41", "ARENA", "m3", "25000", "38000", "6", "2"),
		p("42", "HIERRO 4.2", "barra", "3500", "5200", "80", "20"),
	}
}
