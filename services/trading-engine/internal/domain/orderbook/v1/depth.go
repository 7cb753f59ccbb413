package orderbookv1

import (
	"slices"

	"github.com/thetanav/trading-system/pkg/money"
)

// PriceLevel is the aggregated resting quantity at one price.
type PriceLevel struct {
	Price    money.Cents `json:"price"`
	Quantity int64       `json:"quantity"`
}

// Depth is a point-in-time view of both sides, best price first.
type Depth struct {
	Asks []PriceLevel `json:"asks"`
	Bids []PriceLevel `json:"bids"`
}

// NewDepth returns a Depth with empty, non-nil sides.
func NewDepth() Depth {
	return Depth{
		Asks: []PriceLevel{},
		Bids: []PriceLevel{},
	}
}

// Equal reports whether both depths hold the same levels.
func (d Depth) Equal(other Depth) bool {
	return slices.Equal(d.Asks, other.Asks) && slices.Equal(d.Bids, other.Bids)
}

// BestAsk returns the lowest ask level.
func (d Depth) BestAsk() (PriceLevel, bool) {
	if len(d.Asks) == 0 {
		return PriceLevel{}, false
	}
	return d.Asks[0], true
}

// BestBid returns the highest bid level.
func (d Depth) BestBid() (PriceLevel, bool) {
	if len(d.Bids) == 0 {
		return PriceLevel{}, false
	}
	return d.Bids[0], true
}

// RestingOrder is one of an account's orders as shown in its own order list.
type RestingOrder struct {
	OrderID  string      `json:"orderId"`
	Price    money.Cents `json:"price"`
	Quantity int64       `json:"quantity"`
}

// AccountOrders lists an account's resting orders in matching priority.
type AccountOrders struct {
	Asks []RestingOrder `json:"asks"`
	Bids []RestingOrder `json:"bids"`
}

// Exposure is what an account has committed to resting orders.
type Exposure struct {
	BidNotional money.Cents `json:"bidNotional"`
	AskQuantity int64       `json:"askQuantity"`
}
