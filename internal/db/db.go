package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"hawaii-climate/internal/config"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// RequiredTables must exist before the server accepts requests.
var RequiredTables = []string{"measurement", "station"}

// Open opens the climate database read-only. With cfg.LogSQL set, every
// statement is logged at debug level through the logging connector.
func Open(cfg config.Config) (*sql.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if cfg.LogSQL {
		drv, err := lookupDriver(cfg.Driver)
		if err != nil {
			return nil, err
		}
		connector, err := NewLoggingConnector(drv, dsn, slog.Default())
		if err != nil {
			return nil, fmt.Errorf("db connector: %w", err)
		}
		db = sql.OpenDB(connector)
	} else {
		db, err = sql.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// Validate connectivity early
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// VerifySchema returns an error naming the first of tables that does not exist.
func VerifySchema(ctx context.Context, db *sql.DB, tables ...string) error {
	for _, table := range tables {
		var n int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&n)
		if err != nil {
			return fmt.Errorf("lookup table %s: %w", table, err)
		}
		if n == 0 {
			return fmt.Errorf("missing table %q", table)
		}
	}
	return nil
}

// lookupDriver returns the driver registered under name without connecting.
func lookupDriver(name string) (driver.Driver, error) {
	probe, err := sql.Open(name, "")
	if err != nil {
		return nil, fmt.Errorf("db driver %q: %w", name, err)
	}
	drv := probe.Driver()
	if err := probe.Close(); err != nil {
		return nil, fmt.Errorf("db driver %q: %w", name, err)
	}
	return drv, nil
}

func buildDSN(cfg config.Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	path := cfg.Path
	if !strings.HasPrefix(path, "file:") {
		// The database is produced elsewhere; never let sqlite create an empty one.
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("sqlite database %s: %w", path, err)
		}
	}

	// mode=ro is a SQLite URI parameter understood by both drivers; the busy
	// timeout is spelled differently per driver.
	params := []string{"mode=ro"}
	switch cfg.Driver {
	case "sqlite":
		params = append(params, "_pragma=busy_timeout(5000)")
	default:
		params = append(params, "_busy_timeout=5000")
	}

	// If caller provided something like "file:/data/hawaii.sqlite?x=y" as Path, don't double-wrap
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}

	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}
