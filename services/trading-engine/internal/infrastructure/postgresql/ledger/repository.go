package ledger

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/thetanav/trading-system/pkg/errors"
	"github.com/thetanav/trading-system/pkg/logger"
	"github.com/thetanav/trading-system/pkg/money"
	"github.com/thetanav/trading-system/pkg/postgresql"
	ledgerv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/ledger/v1"
)

const (
	insertUserQuery        = `INSERT INTO users (id, name, email, cash, stock, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	updateBalanceQuery     = `UPDATE users SET cash = $1, stock = $2 WHERE id = $3`
	insertTransactionQuery = `INSERT INTO transactions (id, user_id, type, quantity, price, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	selectUsersQuery       = `SELECT id, name, email, cash, stock, created_at FROM users ORDER BY created_at, id`
	selectTransactionQuery = `SELECT id, user_id, type, quantity, price, created_at FROM transactions ORDER BY id`

	uniqueViolation = "23505"
)

// repository stores ledger state in the users and transactions tables.
type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

var _ ledgerv1.Repository = (*repository)(nil)

// NewRepository creates a new repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// CreateAccount inserts a new user row.
func (r *repository) CreateAccount(ctx context.Context, account ledgerv1.Account) error {
	_, err := r.db.Exec(ctx, insertUserQuery,
		account.ID,
		account.Name,
		account.Email,
		account.Cash.Decimal(),
		account.Inventory,
		account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ledgerv1.ErrAccountExists
		}
		r.logger.ErrorContext(ctx, err, logger.NewField("accountID", account.ID))
		return errors.TracerFromError(err)
	}
	return nil
}

// ApplySettlement writes both balances and both history rows in one transaction.
func (r *repository) ApplySettlement(ctx context.Context, record ledgerv1.SettlementRecord) error {
	err := postgresql.WithTx(ctx, r.db, func(ctx context.Context) error {
		for _, account := range []ledgerv1.Account{record.Seller, record.Buyer} {
			if err := r.updateBalance(ctx, account); err != nil {
				return err
			}
		}
		for _, tx := range []ledgerv1.Transaction{record.SellTransaction, record.BuyTransaction} {
			if err := r.insertTransaction(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.ErrorContext(ctx, err,
			logger.NewField("seller", record.Seller.ID),
			logger.NewField("buyer", record.Buyer.ID),
		)
		return err
	}

	r.logger.DebugContext(ctx, "Settlement persisted",
		logger.NewField("sellTransactionID", record.SellTransaction.ID),
		logger.NewField("buyTransactionID", record.BuyTransaction.ID),
	)
	return nil
}

func (r *repository) updateBalance(ctx context.Context, account ledgerv1.Account) error {
	cmd, err := r.db.Exec(ctx, updateBalanceQuery, account.Cash.Decimal(), account.Inventory, account.ID)
	if err != nil {
		return errors.TracerFromError(err)
	}
	if cmd.RowsAffected() != 1 {
		return errors.NewTracerf("update balance of %s", account.ID).Wrap(ledgerv1.ErrAccountNotFound)
	}
	return nil
}

func (r *repository) insertTransaction(ctx context.Context, tx ledgerv1.Transaction) error {
	_, err := r.db.Exec(ctx, insertTransactionQuery,
		tx.ID,
		tx.AccountID,
		string(tx.Type),
		tx.Quantity,
		tx.Price.Decimal(),
		tx.CreatedAt,
	)
	if err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}

// LoadAccounts reads every user, oldest first.
func (r *repository) LoadAccounts(ctx context.Context) ([]ledgerv1.Account, error) {
	rows, err := r.db.Query(ctx, selectUsersQuery)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	var accounts []ledgerv1.Account
	for rows.Next() {
		var (
			account ledgerv1.Account
			cash    decimal.Decimal
		)
		if err := rows.Scan(&account.ID, &account.Name, &account.Email, &cash, &account.Inventory, &account.CreatedAt); err != nil {
			return nil, errors.TracerFromError(err)
		}
		if account.Cash, err = money.FromDecimal(cash); err != nil {
			return nil, errors.NewTracerf("cash of %s", account.ID).Wrap(err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}
	return accounts, nil
}

// LoadTransactions reads the whole history in id order.
func (r *repository) LoadTransactions(ctx context.Context) ([]ledgerv1.Transaction, error) {
	rows, err := r.db.Query(ctx, selectTransactionQuery)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	var transactions []ledgerv1.Transaction
	for rows.Next() {
		var (
			tx     ledgerv1.Transaction
			txType string
			price  decimal.Decimal
		)
		if err := rows.Scan(&tx.ID, &tx.AccountID, &txType, &tx.Quantity, &price, &tx.CreatedAt); err != nil {
			return nil, errors.TracerFromError(err)
		}
		tx.Type = ledgerv1.TransactionType(txType)
		if tx.Price, err = money.FromDecimal(price); err != nil {
			return nil, errors.NewTracerf("price of transaction %d", tx.ID).Wrap(err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}
	return transactions, nil
}
