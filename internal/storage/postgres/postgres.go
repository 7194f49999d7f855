// Package postgres implements storage.Store on PostgreSQL through the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"casa-nova-rsvp/internal/models"
	"casa-nova-rsvp/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS confirmacoes (
		id BIGSERIAL PRIMARY KEY,
		nome TEXT NOT NULL,
		data_confirmacao TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL DEFAULT 'Confirmado',
		CONSTRAINT confirmacoes_nome_key UNIQUE (nome)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_confirmacoes_data ON confirmacoes (data_confirmacao)`,
}

// Store keeps confirmations in PostgreSQL
type Store struct {
	db *sql.DB
}

// Open connects to the database at url, configures the pool and creates the
// table if it does not exist yet.
func Open(ctx context.Context, url string) (*Store, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := New(db)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the confirmations table and its indexes when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (s *Store) CreateConfirmation(ctx context.Context, c *models.Confirmation) error {
	query := `
		INSERT INTO confirmacoes (nome, data_confirmacao, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, c.Name, c.ConfirmedAt, c.Status).Scan(&c.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return storage.ErrDuplicateName
		}
		return fmt.Errorf("failed to insert confirmation: %w", err)
	}
	return nil
}

func (s *Store) GetConfirmationByName(ctx context.Context, name string) (*models.Confirmation, error) {
	query := `
		SELECT id, nome, data_confirmacao, status
		FROM confirmacoes
		WHERE nome = $1
	`

	var c models.Confirmation
	err := s.db.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.Name, &c.ConfirmedAt, &c.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get confirmation: %w", err)
	}
	return &c, nil
}

func (s *Store) ListConfirmations(ctx context.Context) ([]models.Confirmation, error) {
	query := `
		SELECT id, nome, data_confirmacao, status
		FROM confirmacoes
		ORDER BY data_confirmacao DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
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

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
