package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(ctx context.Context, query string, args ...any) (int64, error) { return 0, nil }
func (t *fakeTx) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRow(ctx context.Context, query string, args ...any) Row { return nil }
func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}
func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeDB struct {
	DB
	tx *fakeTx
}

func (d *fakeDB) Begin(ctx context.Context) (Tx, error) { return d.tx, nil }

func TestWithTx_Commits(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	err := WithTx(context.Background(), db, func(tx Tx) error { return nil })
	require.NoError(t, err)
	assert.True(t, db.tx.committed)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	boom := errors.New("boom")
	err := WithTx(context.Background(), db, func(tx Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, db.tx.committed)
	assert.True(t, db.tx.rolledBack)
}

func TestErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: CodeUniqueViolation})
	fk := &pgconn.PgError{Code: CodeForeignKeyViolation}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(errors.New("other")))
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.True(t, IsNoRows(fmt.Errorf("scan: %w", sql.ErrNoRows)))
	assert.False(t, IsNoRows(nil))
}
