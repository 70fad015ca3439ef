// Package sqlite keeps sales that could not reach sales history in a local
// SQLite file, so a lost database link never loses a closed sale.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"pos/internal/core/ports"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema versions:
// 1 - spooled_sales
const currentSchemaVersion = 1

// Spool implements ports.SalesSpool on SQLite in WAL mode.
type Spool struct {
	db    *sql.DB
	clock func() time.Time
}

// Open creates or opens the spool file at path. It is safe to call on an
// existing file.
func Open(path string) (*Spool, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spool: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to spool: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err = applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if err = applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Spool{db: db, clock: time.Now}, nil
}

func (s *Spool) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put spools a sale. Spooling the same order twice keeps the first copy.
func (s *Spool) Put(ctx context.Context, record ports.SaleRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode spooled sale: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO spooled_sales (order_id, record, spooled_at)
		VALUES (?, ?, ?)
		ON CONFLICT (order_id) DO NOTHING
	`, record.OrderID, string(raw), s.clock().UnixMilli())
	return err
}

// Pending returns up to limit sales, oldest first.
func (s *Spool) Pending(ctx context.Context, limit int) ([]ports.SpooledSale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record, attempts
		FROM spooled_sales
		ORDER BY spooled_at, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]ports.SpooledSale, 0)
	for rows.Next() {
		var (
			sale ports.SpooledSale
			raw  string
		)
		if err = rows.Scan(&sale.ID, &raw, &sale.Attempts); err != nil {
			return nil, err
		}
		if err = json.Unmarshal([]byte(raw), &sale.Record); err != nil {
			return nil, fmt.Errorf("decode spooled sale %d: %w", sale.ID, err)
		}
		sales = append(sales, sale)
	}

	return sales, rows.Err()
}

func (s *Spool) Remove(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM spooled_sales WHERE id = ?`, id)
	return err
}

func (s *Spool) MarkFailed(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE spooled_sales
		SET attempts = attempts + 1, last_error_at = ?
		WHERE id = ?
	`, s.clock().UnixMilli(), id)
	return err
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply spool schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version == currentSchemaVersion {
		return nil
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
