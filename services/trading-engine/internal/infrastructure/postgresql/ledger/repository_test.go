package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetanav/trading-system/pkg/logger"
	mockLogger "github.com/thetanav/trading-system/pkg/logger/mock"
	"github.com/thetanav/trading-system/pkg/money"
	mockPg "github.com/thetanav/trading-system/pkg/postgresql/mock"
	ledgerv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/ledger/v1"
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

var createdAt = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

func testRecord() ledgerv1.SettlementRecord {
	return ledgerv1.SettlementRecord{
		Seller: ledgerv1.Account{ID: "seller", Cash: money.MustParse("1010.50"), Inventory: 4},
		Buyer:  ledgerv1.Account{ID: "buyer", Cash: money.MustParse("989.50"), Inventory: 6},
		SellTransaction: ledgerv1.Transaction{
			ID: 1, AccountID: "seller", Type: ledgerv1.TransactionSell, Quantity: 1, Price: money.MustParse("10.50"), CreatedAt: createdAt,
		},
		BuyTransaction: ledgerv1.Transaction{
			ID: 2, AccountID: "buyer", Type: ledgerv1.TransactionBuy, Quantity: 1, Price: money.MustParse("10.50"), CreatedAt: createdAt,
		},
	}
}

func TestRepository_CreateAccount(t *testing.T) {
	ctx := context.Background()
	account := ledgerv1.Account{
		ID: "a1", Name: "Alice", Email: "alice@example.com", Cash: money.FromUnits(1000), Inventory: 5, CreatedAt: createdAt,
	}

	testCases := []struct {
		name     string
		mockFn   func(pg *mockPg.MockPostgreSQLClient, log *mockLogger.MockInterface)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success",
			mockFn: func(pg *mockPg.MockPostgreSQLClient, _ *mockLogger.MockInterface) {
				pg.EXPECT().
					Exec(ctx, insertUserQuery, "a1", "Alice", "alice@example.com", money.FromUnits(1000).Decimal(), int64(5), createdAt).
					Return(pgconn.NewCommandTag("INSERT 0 1"), nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "duplicate email",
			mockFn: func(pg *mockPg.MockPostgreSQLClient, _ *mockLogger.MockInterface) {
				pg.EXPECT().
					Exec(ctx, insertUserQuery, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(pgconn.CommandTag{}, &pgconn.PgError{Code: uniqueViolation})
			},
			assertFn: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ledgerv1.ErrAccountExists)
			},
		},
		{
			name: "error",
			mockFn: func(pg *mockPg.MockPostgreSQLClient, log *mockLogger.MockInterface) {
				pg.EXPECT().
					Exec(ctx, insertUserQuery, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(pgconn.CommandTag{}, errors.New("connection refused"))
				log.EXPECT().
					ErrorContext(ctx, gomock.Any(), logger.NewField("accountID", "a1"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "connection refused")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			log := mockLogger.NewMockInterface(ctrl)
			repo := NewRepository(pg, log)

			tc.mockFn(pg, log)

			tc.assertFn(t, repo.CreateAccount(ctx, account))
		})
	}
}

func TestRepository_ApplySettlement(t *testing.T) {
	t.Run("writes everything in one transaction", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		pg := mockPg.NewMockPostgreSQLClient(ctrl)
		log := mockLogger.NewMockInterface(ctrl)
		repo := NewRepository(pg, log)
		tx := &fakeTx{}
		record := testRecord()

		pg.EXPECT().BeginTx(gomock.Any(), pgx.TxOptions{}).Return(tx, nil)
		gomock.InOrder(
			pg.EXPECT().Exec(gomock.Any(), updateBalanceQuery, money.MustParse("1010.50").Decimal(), int64(4), "seller").
				Return(pgconn.NewCommandTag("UPDATE 1"), nil),
			pg.EXPECT().Exec(gomock.Any(), updateBalanceQuery, money.MustParse("989.50").Decimal(), int64(6), "buyer").
				Return(pgconn.NewCommandTag("UPDATE 1"), nil),
			pg.EXPECT().Exec(gomock.Any(), insertTransactionQuery, int64(1), "seller", "sell", int64(1), money.MustParse("10.50").Decimal(), createdAt).
				Return(pgconn.NewCommandTag("INSERT 0 1"), nil),
			pg.EXPECT().Exec(gomock.Any(), insertTransactionQuery, int64(2), "buyer", "buy", int64(1), money.MustParse("10.50").Decimal(), createdAt).
				Return(pgconn.NewCommandTag("INSERT 0 1"), nil),
		)
		log.EXPECT().DebugContext(gomock.Any(), "Settlement persisted", gomock.Any(), gomock.Any())

		require.NoError(t, repo.ApplySettlement(context.Background(), record))
		assert.True(t, tx.committed)
		assert.False(t, tx.rolledBack)
	})

	t.Run("missing user rolls back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		pg := mockPg.NewMockPostgreSQLClient(ctrl)
		log := mockLogger.NewMockInterface(ctrl)
		repo := NewRepository(pg, log)
		tx := &fakeTx{}

		pg.EXPECT().BeginTx(gomock.Any(), gomock.Any()).Return(tx, nil)
		pg.EXPECT().Exec(gomock.Any(), updateBalanceQuery, gomock.Any(), gomock.Any(), "seller").
			Return(pgconn.NewCommandTag("UPDATE 0"), nil)
		log.EXPECT().ErrorContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

		err := repo.ApplySettlement(context.Background(), testRecord())

		assert.ErrorIs(t, err, ledgerv1.ErrAccountNotFound)
		assert.True(t, tx.rolledBack)
		assert.False(t, tx.committed)
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		pg := mockPg.NewMockPostgreSQLClient(ctrl)
		log := mockLogger.NewMockInterface(ctrl)
		repo := NewRepository(pg, log)
		tx := &fakeTx{}

		pg.EXPECT().BeginTx(gomock.Any(), gomock.Any()).Return(tx, nil)
		pg.EXPECT().Exec(gomock.Any(), updateBalanceQuery, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.NewCommandTag("UPDATE 1"), nil).Times(2)
		pg.EXPECT().Exec(gomock.Any(), insertTransactionQuery, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag{}, errors.New("check constraint"))
		log.EXPECT().ErrorContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

		err := repo.ApplySettlement(context.Background(), testRecord())

		assert.ErrorContains(t, err, "check constraint")
		assert.True(t, tx.rolledBack)
	})
}

func TestRepository_LoadAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	pg := mockPg.NewMockPostgreSQLClient(ctrl)
	rows := mockPg.NewMockRowsInterface(ctrl)
	repo := NewRepository(pg, logger.NewNop())
	ctx := context.Background()

	pg.EXPECT().Query(ctx, selectUsersQuery).Return(rows, nil)
	gomock.InOrder(
		rows.EXPECT().Next().Return(true),
		rows.EXPECT().Scan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(dest ...any) error {
				*dest[0].(*string) = "a1"
				*dest[1].(*string) = "Alice"
				*dest[2].(*string) = "alice@example.com"
				*dest[3].(*decimal.Decimal) = decimal.RequireFromString("999.90")
				*dest[4].(*int64) = 7
				*dest[5].(*time.Time) = createdAt
				return nil
			}),
		rows.EXPECT().Next().Return(false),
		rows.EXPECT().Err().Return(nil),
		rows.EXPECT().Close(),
	)

	accounts, err := repo.LoadAccounts(ctx)

	require.NoError(t, err)
	assert.Equal(t, []ledgerv1.Account{{
		ID: "a1", Name: "Alice", Email: "alice@example.com", Cash: money.MustParse("999.90"), Inventory: 7, CreatedAt: createdAt,
	}}, accounts)
}

func TestRepository_LoadTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		pg := mockPg.NewMockPostgreSQLClient(ctrl)
		rows := mockPg.NewMockRowsInterface(ctrl)
		repo := NewRepository(pg, logger.NewNop())

		pg.EXPECT().Query(ctx, selectTransactionQuery).Return(rows, nil)
		gomock.InOrder(
			rows.EXPECT().Next().Return(true),
			rows.EXPECT().Scan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(dest ...any) error {
					*dest[0].(*int64) = 3
					*dest[1].(*string) = "a1"
					*dest[2].(*string) = "buy"
					*dest[3].(*int64) = 2
					*dest[4].(*decimal.Decimal) = decimal.RequireFromString("12.25")
					*dest[5].(*time.Time) = createdAt
					return nil
				}),
			rows.EXPECT().Next().Return(false),
			rows.EXPECT().Err().Return(nil),
			rows.EXPECT().Close(),
		)

		transactions, err := repo.LoadTransactions(ctx)

		require.NoError(t, err)
		assert.Equal(t, []ledgerv1.Transaction{{
			ID: 3, AccountID: "a1", Type: ledgerv1.TransactionBuy, Quantity: 2, Price: money.MustParse("12.25"), CreatedAt: createdAt,
		}}, transactions)
	})

	t.Run("query error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		pg := mockPg.NewMockPostgreSQLClient(ctrl)
		repo := NewRepository(pg, logger.NewNop())

		pg.EXPECT().Query(ctx, selectTransactionQuery).Return(nil, errors.New("relation does not exist"))

		_, err := repo.LoadTransactions(ctx)
		assert.ErrorContains(t, err, "relation does not exist")
	})
}
