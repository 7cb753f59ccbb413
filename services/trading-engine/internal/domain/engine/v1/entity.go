package enginev1

import (
	"fmt"

	"github.com/shopspring/decimal"
	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
)

// SubmitOrderRequest is an order as received from a client. Price and
// Quantity arrive as decimals so that malformed values are rejected with a
// typed reason rather than a decode error.
type SubmitOrderRequest struct {
	AccountID string                `json:"accountId"`
	Type      orderbookv1.OrderType `json:"type"`
	Side      string                `json:"side"`
	Price     decimal.Decimal       `json:"price"`
	Quantity  decimal.Decimal       `json:"quantity"`
}

// CancelOrderRequest identifies a resting order. An empty Side matches either side.
type CancelOrderRequest struct {
	OrderID   string `json:"orderId"`
	AccountID string `json:"accountId"`
	Side      string `json:"side"`
}

// OutcomeStatus is the terminal state of an admitted order.
type OutcomeStatus string

const (
	// StatusFullyFilled means nothing remains.
	StatusFullyFilled OutcomeStatus = "fully_filled"
	// StatusPartiallyFilled means a market order ran out of liquidity; the remainder was dropped.
	StatusPartiallyFilled OutcomeStatus = "partially_filled"
	// StatusResting means a limit order's remainder was placed in the book.
	StatusResting OutcomeStatus = "partially_filled_resting"
)

// SubmitOutcome describes what happened to an admitted order.
type SubmitOutcome struct {
	OrderID   string              `json:"orderId"`
	Status    OutcomeStatus       `json:"status"`
	Filled    int64               `json:"filled"`
	Remaining int64               `json:"remaining"`
	Trades    []orderbookv1.Trade `json:"trades"`
}

// Message renders the outcome the way the web client displays it.
func (o SubmitOutcome) Message() string {
	switch o.Status {
	case StatusFullyFilled:
		return fmt.Sprintf("All quantity of %d is filled.", o.Filled)
	case StatusPartiallyFilled:
		return fmt.Sprintf("Market order partially filled. %d filled.", o.Filled)
	default:
		return fmt.Sprintf("%d filled. %d placed in orderbook.", o.Filled, o.Remaining)
	}
}
