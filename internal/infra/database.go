package infra

import (
	"errors"
	"fmt"

	"github.com/Martin-Comito/alambrados/internal/config"
	"github.com/Martin-Comito/alambrados/internal/model"
	"github.com/Martin-Comito/alambrados/migrations"

	"github.com/glebarez/sqlite"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the configured driver and brings the schema up to date.
// PostgreSQL is migrated with the versioned SQL files in migrations/; SQLite
// (single-PC installs and tests) uses AutoMigrate.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "postgres":
		return openPostgres(cfg.DatabaseURL)
	case "sqlite":
		return OpenSQLite(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("DB_DRIVER desconocido: %q", cfg.DBDriver)
	}
}

func openPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

// OpenSQLite opens a SQLite file (or ":memory:"-style DSN) and auto-migrates
// every model. SQLite serializes writers, so the pool is capped at one
// connection.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}
	return db, nil
}

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&model.Producto{},
		&model.MovimientoStock{},
		&model.Usuario{},
		&model.Venta{},
		&model.VentaItem{},
		&model.LoteProduccion{},
		&model.RecetaItem{},
		&model.Gasto{},
	}
}

// RunMigrations applies the embedded SQL migrations to a PostgreSQL database.
// Already-applied versions are skipped.
func RunMigrations(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	// m.Close would also close the shared *sql.DB
	return nil
}
