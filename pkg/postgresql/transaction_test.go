package postgresql_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetanav/trading-system/pkg/postgresql"
	"github.com/thetanav/trading-system/pkg/postgresql/mock"
	"go.uber.org/mock/gomock"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	return nil
}

func TestWithTx(t *testing.T) {
	testCases := []struct {
		name           string
		fn             func(ctx context.Context) error
		expectErr      bool
		expectCommit   bool
		expectRollback bool
	}{
		{
			name: "commits on success",
			fn: func(ctx context.Context) error {
				_, ok := postgresql.GetTx(ctx)
				if !ok {
					return fmt.Errorf("tx missing from context")
				}
				return nil
			},
			expectCommit: true,
		},
		{
			name:           "rolls back on error",
			fn:             func(context.Context) error { return fmt.Errorf("insert failed") },
			expectErr:      true,
			expectRollback: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			db := mock.NewMockPostgreSQLClient(ctrl)
			tx := &fakeTx{}
			db.EXPECT().BeginTx(gomock.Any(), pgx.TxOptions{}).Return(tx, nil)

			err := postgresql.WithTx(context.Background(), db, tc.fn)

			if tc.expectErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.expectCommit, tx.committed)
			assert.Equal(t, tc.expectRollback, tx.rolledBack)
		})
	}
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	db := mock.NewMockPostgreSQLClient(ctrl)
	tx := &fakeTx{}
	db.EXPECT().BeginTx(gomock.Any(), gomock.Any()).Return(tx, nil)

	assert.Panics(t, func() {
		_ = postgresql.WithTx(context.Background(), db, func(context.Context) error {
			panic("boom")
		})
	})
	assert.True(t, tx.rolledBack)
}

func TestWithTx_JoinsOuterTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	db := mock.NewMockPostgreSQLClient(ctrl)
	outer := &fakeTx{}
	ctx := postgresql.ContextWithTx(context.Background(), outer)

	err := postgresql.WithTx(ctx, db, func(inner context.Context) error {
		tx, ok := postgresql.GetTx(inner)
		require.True(t, ok)
		assert.Same(t, outer, tx)
		return nil
	})

	require.NoError(t, err)
	assert.False(t, outer.committed)
}

func TestWithTx_BeginFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	db := mock.NewMockPostgreSQLClient(ctrl)
	db.EXPECT().BeginTx(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("pool exhausted"))

	called := false
	err := postgresql.WithTx(context.Background(), db, func(context.Context) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool exhausted")
	assert.False(t, called)
}

func TestCheckHealth_PingFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	db := mock.NewMockPostgreSQLClient(ctrl)
	db.EXPECT().Ping(gomock.Any()).Return(fmt.Errorf("connection refused"))

	health := postgresql.CheckHealth(context.Background(), db)

	assert.Equal(t, "unhealthy", health.Status)
	assert.Contains(t, health.Error, "connection refused")
}

type versionRow struct {
	version string
	err     error
}

func (r versionRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.version
	return nil
}

func TestChecker(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := mock.NewMockPostgreSQLClient(ctrl)
		db.EXPECT().Ping(gomock.Any()).Return(nil)
		db.EXPECT().QueryRow(gomock.Any(), "SELECT version()").Return(versionRow{version: "PostgreSQL 16.3"})

		assert.NoError(t, postgresql.Checker(db)(context.Background()))
	})

	t.Run("version query fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := mock.NewMockPostgreSQLClient(ctrl)
		db.EXPECT().Ping(gomock.Any()).Return(nil)
		db.EXPECT().QueryRow(gomock.Any(), "SELECT version()").Return(versionRow{err: pgx.ErrNoRows})

		err := postgresql.Checker(db)(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "version query failed")
	})

	t.Run("ping fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := mock.NewMockPostgreSQLClient(ctrl)
		db.EXPECT().Ping(gomock.Any()).Return(fmt.Errorf("connection refused"))

		err := postgresql.Checker(db)(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestConfig_ConnString(t *testing.T) {
	cfg := postgresql.Config{Host: "db", Port: 5432, Database: "trading", Username: "u", Password: "p"}
	assert.Equal(t, "postgres://u:p@db:5432/trading?sslmode=disable", cfg.ConnString())
}
