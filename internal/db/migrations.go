package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Migrate applies all pending up migrations. It is idempotent.
func Migrate(d *DB) error {
	m, done, err := newMigrator(d)
	if err != nil {
		return err
	}
	defer done()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// MigrateDown rolls back every applied migration.
func MigrateDown(d *DB) error {
	m, done, err := newMigrator(d)
	if err != nil {
		return err
	}
	defer done()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rolling back migrations: %w", err)
	}
	return nil
}

// Reset drops the schema and recreates it from scratch.
func Reset(d *DB) error {
	if err := MigrateDown(d); err != nil {
		return err
	}
	return Migrate(d)
}

// Version reports the currently applied migration version.
// A database without migrations reports version 0.
func Version(d *DB) (uint, bool, error) {
	m, done, err := newMigrator(d)
	if err != nil {
		return 0, false, err
	}
	defer done()

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading migration version: %w", err)
	}
	return v, dirty, nil
}

// newMigrator builds a migrator over the embedded migrations for d's dialect.
// The returned func releases it.
//
// SQLite migrates through the shared pool, which must stay open, so the
// migrator is not closed. Postgres gets a dedicated pool that the migrator
// owns and closes.
func newMigrator(d *DB) (*migrate.Migrate, func(), error) {
	src, err := iofs.New(migrationsFS, "migrations/"+migrationsDir(d.Driver))
	if err != nil {
		return nil, nil, fmt.Errorf("loading migrations: %w", err)
	}

	var drv database.Driver
	done := func() {}
	switch d.Driver {
	case DriverSQLite:
		drv, err = sqlite.WithInstance(d.DB, &sqlite.Config{})
	case DriverPostgres:
		var pool *sql.DB
		pool, err = sql.Open("pgx", d.dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("opening migration connection: %w", err)
		}
		drv, err = migratepgx.WithInstance(pool, &migratepgx.Config{})
		if err != nil {
			pool.Close()
		}
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", d.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("preparing migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(d.Driver), drv)
	if err != nil {
		if d.Driver == DriverPostgres {
			drv.Close()
		}
		return nil, nil, fmt.Errorf("creating migrator: %w", err)
	}
	if d.Driver == DriverPostgres {
		done = func() {
			if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
				slog.Warn("closing migrator", "source_error", srcErr, "database_error", dbErr)
			}
		}
	}
	return m, done, nil
}

func migrationsDir(driver Driver) string {
	if driver == DriverPostgres {
		return "postgres"
	}
	return "sqlite"
}
