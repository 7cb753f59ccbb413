package orderreaderv1

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
)

// OrderCommand is one message on the order intake topic: a limit or market
// order to submit, or a cancel of a resting order.
type OrderCommand struct {
	Type      orderbookv1.OrderType `json:"type"`
	AccountID string                `json:"accountId"`
	Side      string                `json:"side"`
	Price     decimal.Decimal       `json:"price"`
	Quantity  decimal.Decimal       `json:"quantity"`
	OrderID   string                `json:"orderId,omitempty"`
	Offset    int64                 `json:"-"`
}

// ToBytes encodes the command as JSON.
func (c OrderCommand) ToBytes() ([]byte, error) {
	return json.Marshal(c)
}

// IsCancel reports whether the command cancels a resting order.
func (c OrderCommand) IsCancel() bool {
	return c.Type == orderbookv1.OrderTypeCancel
}
