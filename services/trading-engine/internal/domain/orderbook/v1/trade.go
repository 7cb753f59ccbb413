package orderbookv1

import (
	"time"

	"github.com/thetanav/trading-system/pkg/money"
)

// Trade is one fill between a resting maker order and an incoming taker order.
// Price is always the maker's price.
type Trade struct {
	ID             string      `json:"id"`
	MakerOrderID   string      `json:"makerOrderId"`
	TakerOrderID   string      `json:"takerOrderId"`
	MakerAccountID string      `json:"makerAccountId"`
	TakerAccountID string      `json:"takerAccountId"`
	TakerSide      Side        `json:"takerSide"`
	Quantity       int64       `json:"quantity"`
	Price          money.Cents `json:"price"`
	Timestamp      time.Time   `json:"timestamp"`
}

// SellerAccountID returns the account that delivered inventory.
func (t Trade) SellerAccountID() string {
	if t.TakerSide == SideAsk {
		return t.TakerAccountID
	}
	return t.MakerAccountID
}

// BuyerAccountID returns the account that paid cash.
func (t Trade) BuyerAccountID() string {
	if t.TakerSide == SideBid {
		return t.TakerAccountID
	}
	return t.MakerAccountID
}

// Notional is the cash that changed hands.
func (t Trade) Notional() money.Cents {
	return t.Price.Mul(t.Quantity)
}
