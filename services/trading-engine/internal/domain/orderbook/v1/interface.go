package orderbookv1

import "github.com/thetanav/trading-system/pkg/money"

// Orderbook keeps resting orders for one instrument in price-time priority.
// Implementations are not safe for concurrent use.
type Orderbook interface {
	BestOpposing(side Side) (*Order, bool)
	NextOpposing(side Side, skip func(*Order) bool) (*Order, bool)
	ReduceOrRemove(orderID string, filledQty int64) error
	Insert(order *Order) error
	Cancel(orderID, accountID string) (*Order, bool)
	Order(orderID string) (*Order, bool)
	BestPrice(side Side) (money.Cents, bool)
	Snapshot() Depth
	OrdersOf(accountID string) AccountOrders
	Exposure(accountID string) Exposure
	Len() int
}
