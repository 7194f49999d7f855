// Package sqlite is the default, file-backed confirmation store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"

	"casa-nova-rsvp/internal/models"
	"casa-nova-rsvp/internal/storage"
)

var _ storage.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS confirmacoes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    nome TEXT NOT NULL,
    data_confirmacao DATETIME NOT NULL,
    status TEXT NOT NULL DEFAULT 'Confirmado'
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_confirmacoes_nome ON confirmacoes(nome);
CREATE INDEX IF NOT EXISTS idx_confirmacoes_data ON confirmacoes(data_confirmacao);
`

// Store keeps confirmations in a SQLite database
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path and ensures the schema exists.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// CreateConfirmation inserts a confirmation and sets its ID.
func (s *Store) CreateConfirmation(ctx context.Context, c *models.Confirmation) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO confirmacoes (nome, data_confirmacao, status) VALUES (?, ?, ?)",
		c.Name, c.ConfirmedAt.UTC(), c.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateName
		}
		return fmt.Errorf("failed to insert confirmation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read confirmation id: %w", err)
	}
	c.ID = id
	return nil
}

// GetConfirmationByName looks up a confirmation by exact name.
func (s *Store) GetConfirmationByName(ctx context.Context, name string) (*models.Confirmation, error) {
	var c models.Confirmation
	err := s.db.QueryRowContext(ctx,
		"SELECT id, nome, data_confirmacao, status FROM confirmacoes WHERE nome = ?",
		name,
	).Scan(&c.ID, &c.Name, &c.ConfirmedAt, &c.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get confirmation: %w", err)
	}
	return &c, nil
}

// ListConfirmations returns all confirmations ordered by confirmation time, newest first.
func (s *Store) ListConfirmations(ctx context.Context) ([]models.Confirmation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, nome, data_confirmacao, status FROM confirmacoes ORDER BY data_confirmacao DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmations: %w", err)
	}
	defer rows.Close()

	confirmations := make([]models.Confirmation, 0)
	for rows.Next() {
		var c models.Confirmation
		if err := rows.Scan(&c.ID, &c.Name, &c.ConfirmedAt, &c.Status); err != nil {
			return nil, fmt.Errorf("failed to scan confirmation: %w", err)
		}
		confirmations = append(confirmations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate confirmations: %w", err)
	}
	return confirmations, nil
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
