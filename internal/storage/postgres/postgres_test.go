package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casa-nova-rsvp/internal/models"
	"casa-nova-rsvp/internal/storage"
)

var confirmationColumns = []string{"id", "nome", "data_confirmacao", "status"}

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestEnsureSchema(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS confirmacoes").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_confirmacoes_data").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, New(db).EnsureSchema(context.Background()))
}

func TestCreateConfirmation(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO confirmacoes").
		WithArgs("Ana Souza", now, models.StatusConfirmed).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	c := &models.Confirmation{Name: "Ana Souza", ConfirmedAt: now, Status: models.StatusConfirmed}
	require.NoError(t, New(db).CreateConfirmation(context.Background(), c))
	assert.Equal(t, int64(7), c.ID)
}

func TestCreateConfirmation_UniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO confirmacoes").
		WithArgs("Ana Souza", now, models.StatusConfirmed).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "confirmacoes_nome_key"})

	c := &models.Confirmation{Name: "Ana Souza", ConfirmedAt: now, Status: models.StatusConfirmed}
	err := New(db).CreateConfirmation(context.Background(), c)
	assert.ErrorIs(t, err, storage.ErrDuplicateName)
	assert.Zero(t, c.ID)
}

func TestCreateConfirmation_OtherError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("INSERT INTO confirmacoes").
		WillReturnError(errors.New("connection reset"))

	c := &models.Confirmation{Name: "Ana Souza", ConfirmedAt: time.Now(), Status: models.StatusConfirmed}
	err := New(db).CreateConfirmation(context.Background(), c)
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrDuplicateName)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestGetConfirmationByName(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectQuery("SELECT .+ FROM confirmacoes WHERE nome = \\$1").
		WithArgs("Ana Souza").
		WillReturnRows(sqlmock.NewRows(confirmationColumns).AddRow(1, "Ana Souza", now, models.StatusConfirmed))

	got, err := New(db).GetConfirmationByName(context.Background(), "Ana Souza")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "Ana Souza", got.Name)
	assert.True(t, now.Equal(got.ConfirmedAt))
}

func TestGetConfirmationByName_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT .+ FROM confirmacoes WHERE nome = \\$1").
		WithArgs("Ninguém").
		WillReturnRows(sqlmock.NewRows(confirmationColumns))

	got, err := New(db).GetConfirmationByName(context.Background(), "Ninguém")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListConfirmations(t *testing.T) {
	db, mock := newMockDB(t)
	later := time.Date(2026, 1, 5, 18, 30, 0, 0, time.UTC)
	earlier := later.Add(-time.Hour)

	mock.ExpectQuery("SELECT .+ FROM confirmacoes\\s+ORDER BY data_confirmacao DESC, id DESC").
		WillReturnRows(sqlmock.NewRows(confirmationColumns).
			AddRow(2, "Bruno Lima", later, models.StatusConfirmed).
			AddRow(1, "Ana Souza", earlier, models.StatusConfirmed))

	all, err := New(db).ListConfirmations(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bruno Lima", all[0].Name)
	assert.Equal(t, "Ana Souza", all[1].Name)
}

func TestListConfirmations_QueryError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT .+ FROM confirmacoes").WillReturnError(errors.New("boom"))

	_, err := New(db).ListConfirmations(context.Background())
	assert.Error(t, err)
}
