package ledgerv1

import (
	"time"

	"github.com/thetanav/trading-system/pkg/money"
)

// Account holds one user's cash and inventory. Both are never negative.
type Account struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Cash      money.Cents `json:"cash"`
	Inventory int64       `json:"inventory"`
	CreatedAt time.Time   `json:"createdAt"`
}

// TransactionType tags a transaction row from the account's point of view.
type TransactionType string

const (
	// TransactionBuy is recorded for the account that received inventory.
	TransactionBuy TransactionType = "buy"
	// TransactionSell is recorded for the account that delivered inventory.
	TransactionSell TransactionType = "sell"
)

// Transaction is one append-only history row.
type Transaction struct {
	ID        int64           `json:"id"`
	AccountID string          `json:"accountId"`
	Type      TransactionType `json:"type"`
	Quantity  int64           `json:"quantity"`
	Price     money.Cents     `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Settlement moves Quantity units from SellerID to BuyerID at Price per unit.
type Settlement struct {
	SellerID string
	BuyerID  string
	Quantity int64
	Price    money.Cents
	At       time.Time
}

// Notional is the cash paid by the buyer.
func (s Settlement) Notional() money.Cents {
	return s.Price.Mul(s.Quantity)
}

// SettlementRecord is the persisted unit of a settlement: both resulting
// balances and both history rows.
type SettlementRecord struct {
	Seller          Account
	Buyer           Account
	SellTransaction Transaction
	BuyTransaction  Transaction
}

// OpenAccountRequest is the signup payload.
type OpenAccountRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Seed is the starting balance given to every new account.
type Seed struct {
	Cash      money.Cents
	Inventory int64
}
