package ledgerv1

import "context"

// Ledger owns balances and the transaction log.
type Ledger interface {
	Settle(ctx context.Context, s Settlement) error
	OpenAccount(ctx context.Context, req OpenAccountRequest) (Account, error)
	Account(id string) (Account, bool)
	Accounts() []Account
	Transactions(accountID string) []Transaction
}

// Repository persists ledger state.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=ledgerv1_mock
type Repository interface {
	CreateAccount(ctx context.Context, account Account) error
	ApplySettlement(ctx context.Context, record SettlementRecord) error
	LoadAccounts(ctx context.Context) ([]Account, error)
	LoadTransactions(ctx context.Context) ([]Transaction, error)
}
