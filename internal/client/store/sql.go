package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrijs2005/notetake/internal/client/migrations"
	"github.com/dmitrijs2005/notetake/internal/dbx"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQL drivers accepted by OpenSQL.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLBackend keeps every key as one row of the kv table.
type SQLBackend struct {
	db      dbx.DBTX
	dialect string
	closer  func() error
}

func NewSQLBackend(db dbx.DBTX, dialect string) *SQLBackend {
	return &SQLBackend{db: db, dialect: dialect}
}

// OpenSQL opens the database for driver, applies the embedded migrations and
// returns a backend that owns the connection pool.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLBackend, error) {
	var sqlDriver, dialect string
	switch driver {
	case DriverSQLite:
		sqlDriver, dialect = "sqlite", dbx.DialectSQLite
	case DriverPostgres:
		sqlDriver, dialect = "pgx", dbx.DialectPostgres
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one connection, so ":memory:" databases are shared and writes serialize
		db.SetMaxOpenConns(1)
	}

	if err := RunMigrations(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}

	b := NewSQLBackend(db, dialect)
	b.closer = db.Close
	return b, nil
}

// RunMigrations applies the kv schema for the given driver.
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	goose.SetBaseFS(migrations.Migrations)

	dir, dialect := "sqlite", dbx.DialectSQLite
	if driver == DriverPostgres {
		dir, dialect = "postgres", dbx.DialectPostgres
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (r *SQLBackend) q(query string) string {
	return dbx.Rebind(r.dialect, query)
}

func (r *SQLBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, r.q(`SELECT value FROM kv WHERE key = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLBackend) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, r.q(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`), key, value)
	if err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLBackend) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, r.q(`DELETE FROM kv WHERE key = ?`), key)
	if err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLBackend) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv`)
	if err != nil {
		return fmt.Errorf("failed to clear kv: %w", err)
	}
	return nil
}

func (r *SQLBackend) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM kv`)
	if err != nil {
		return nil, fmt.Errorf("failed to list kv: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan kv row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kv rows: %w", err)
	}

	return result, nil
}

// Replace swaps the whole kv table in one transaction, so a failed import
// leaves the previous state in place.
func (r *SQLBackend) Replace(ctx context.Context, values map[string][]byte) error {
	db, ok := r.db.(*sql.DB)
	if !ok {
		return r.replace(ctx, r.db, values)
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return r.replace(ctx, tx, values)
	})
}

func (r *SQLBackend) replace(ctx context.Context, db dbx.DBTX, values map[string][]byte) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return fmt.Errorf("failed to clear kv: %w", err)
	}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		_, err := db.ExecContext(ctx, r.q(`INSERT INTO kv (key, value) VALUES (?, ?)`), key, values[key])
		if err != nil {
			return fmt.Errorf("failed to set kv[%s]: %w", key, err)
		}
	}
	return nil
}

// Close releases the connection pool when the backend was opened by OpenSQL.
func (r *SQLBackend) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
