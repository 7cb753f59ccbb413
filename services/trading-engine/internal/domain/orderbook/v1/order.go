package orderbookv1

import (
	"strings"
	"time"

	"github.com/thetanav/trading-system/pkg/money"
)

// Side is the side of the book an order rests on.
type Side string

const (
	// SideBid is a buy order.
	SideBid Side = "bid"
	// SideAsk is a sell order.
	SideAsk Side = "ask"
)

// ParseSide accepts bid/ask and the buy/sell aliases used by the web client.
func ParseSide(s string) (Side, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bid", "buy":
		return SideBid, true
	case "ask", "sell":
		return SideAsk, true
	}
	return "", false
}

// Opposite returns the side an order of this side matches against.
func (s Side) Opposite() Side {
	if s == SideBid {
		return SideAsk
	}
	return SideBid
}

// Valid reports whether s is bid or ask.
func (s Side) Valid() bool {
	return s == SideBid || s == SideAsk
}

// OrderType represents the type of order.
type OrderType string

const (
	// OrderTypeMarket represents a market order.
	OrderTypeMarket OrderType = "market"
	// OrderTypeLimit represents a limit order.
	OrderTypeLimit OrderType = "limit"
	// OrderTypeCancel represents a cancel request.
	OrderTypeCancel OrderType = "cancel"
)

// Order represents a single order. Quantity is the remaining unfilled amount.
type Order struct {
	ID        string      `json:"id"`
	AccountID string      `json:"accountId"`
	Side      Side        `json:"side"`
	Price     money.Cents `json:"price"`
	Quantity  int64       `json:"quantity"`
	IsMarket  bool        `json:"isMarket"`
	Seq       uint64      `json:"seq"`
	CreatedAt time.Time   `json:"createdAt"`
	Limit     *Limit      `json:"-"`
}

// IsBid checks if the order is a bid (buy) order.
func (o *Order) IsBid() bool {
	return o.Side == SideBid
}

// IsAsk checks if the order is an ask (sell) order.
func (o *Order) IsAsk() bool {
	return o.Side == SideAsk
}

// IsFilled checks if the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.Quantity == 0
}

// Notional is the cash value of the remaining quantity at the order's price.
func (o *Order) Notional() money.Cents {
	return o.Price.Mul(o.Quantity)
}

// Crosses reports whether o may trade against the resting order maker on price alone.
func (o *Order) Crosses(maker *Order) bool {
	if o.IsMarket {
		return true
	}
	if o.IsBid() {
		return maker.Price <= o.Price
	}
	return maker.Price >= o.Price
}
