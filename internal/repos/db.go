package repos

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

// Driver picks the database/sql driver for a DSN: postgres URLs go to
// lib/pq, everything else is treated as a SQLite path.
func Driver(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

// OpenDB connects, pings and migrates the database to the latest version.
func OpenDB(dsn string) (*sqlx.DB, error) {
	driver := Driver(dsn)
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// one connection keeps :memory: databases coherent and serialises writers
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded migrations for the connection's dialect.
func Migrate(db *sqlx.DB) error {
	dialect := "sqlite"
	if db.DriverName() == "postgres" {
		dialect = "postgres"
	}

	src, err := iofs.New(migrationsFS, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	// m.Close would also close the shared *sql.DB, so only the source is released.
	defer src.Close()

	var drv database.Driver
	if dialect == "postgres" {
		// the driver pins a connection; it goes back to the pool on return
		conn, cerr := db.DB.Conn(context.Background())
		if cerr != nil {
			return fmt.Errorf("migration conn: %w", cerr)
		}
		defer conn.Close()
		drv, err = postgres.WithConnection(context.Background(), conn, &postgres.Config{})
	} else {
		drv, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, drv)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	v, dirty, err := m.Version()
	if err == nil {
		log.Printf("[db] schema version %d (dirty=%t)", v, dirty)
	}
	return nil
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// DemoPassword is the password of every seeded demo profile.
const DemoPassword = "Passw0rd!"

// Seed inserts demo profiles and listings when the database has no
// profiles yet. Safe to run on every start.
func Seed(ctx context.Context, db *sqlx.DB, hash func(string) (string, error)) error {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM profiles`); err != nil {
		return fmt.Errorf("count profiles: %w", err)
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo profiles and listings")

	h, err := hash(DemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range demoProfiles(h) {
		if _, err := tx.NamedExecContext(ctx, insertProfileSQL, p); err != nil {
			return fmt.Errorf("seed profile %s: %w", p.Email, err)
		}
	}
	for _, p := range demoProperties() {
		if _, err := tx.NamedExecContext(ctx, insertPropertySQL, p); err != nil {
			return fmt.Errorf("seed property %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}
