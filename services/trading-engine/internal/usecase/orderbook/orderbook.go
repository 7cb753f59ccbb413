package orderbook

import (
	"fmt"

	"github.com/google/btree"
	"github.com/thetanav/trading-system/pkg/money"
	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
)

const btreeDegree = 32

// Orderbook keeps resting orders in two price-ordered trees of levels. Each
// tree's Ascend walks its side in matching priority. Not safe for concurrent use.
type Orderbook struct {
	asks     *btree.BTreeG[*orderbookv1.Limit]
	bids     *btree.BTreeG[*orderbookv1.Limit]
	orders   map[string]*orderbookv1.Order
	exposure map[string]orderbookv1.Exposure
}

var _ orderbookv1.Orderbook = (*Orderbook)(nil)

// NewOrderbook creates an empty order book.
func NewOrderbook() *Orderbook {
	return &Orderbook{
		asks: btree.NewG(btreeDegree, func(a, b *orderbookv1.Limit) bool {
			return a.Price < b.Price
		}),
		bids: btree.NewG(btreeDegree, func(a, b *orderbookv1.Limit) bool {
			return a.Price > b.Price
		}),
		orders:   make(map[string]*orderbookv1.Order),
		exposure: make(map[string]orderbookv1.Exposure),
	}
}

func (ob *Orderbook) side(side orderbookv1.Side) *btree.BTreeG[*orderbookv1.Limit] {
	if side == orderbookv1.SideBid {
		return ob.bids
	}
	return ob.asks
}

// BestOpposing returns the highest-priority order an incoming order of side would meet.
func (ob *Orderbook) BestOpposing(side orderbookv1.Side) (*orderbookv1.Order, bool) {
	limit, ok := ob.side(side.Opposite()).Min()
	if !ok {
		return nil, false
	}
	return limit.Orders[0], true
}

// NextOpposing walks the opposite side in priority order and returns the first
// order for which skip reports false.
func (ob *Orderbook) NextOpposing(side orderbookv1.Side, skip func(*orderbookv1.Order) bool) (*orderbookv1.Order, bool) {
	var found *orderbookv1.Order
	ob.side(side.Opposite()).Ascend(func(limit *orderbookv1.Limit) bool {
		for _, order := range limit.Orders {
			if skip == nil || !skip(order) {
				found = order
				return false
			}
		}
		return true
	})
	return found, found != nil
}

// Insert rests a limit order on its side.
func (ob *Orderbook) Insert(order *orderbookv1.Order) error {
	if order == nil {
		return orderbookv1.ErrNilOrder
	}
	if order.ID == "" || !order.Side.Valid() || order.IsMarket {
		return fmt.Errorf("%w: %q", orderbookv1.ErrCannotRest, order.ID)
	}
	if order.Price <= 0 {
		return orderbookv1.ErrInvalidPrice
	}
	if order.Quantity <= 0 {
		return orderbookv1.ErrInvalidQuantity
	}
	if _, exists := ob.orders[order.ID]; exists {
		return fmt.Errorf("%w: %s", orderbookv1.ErrDuplicateOrder, order.ID)
	}

	tree := ob.side(order.Side)
	limit, ok := tree.Get(&orderbookv1.Limit{Price: order.Price})
	if !ok {
		limit = orderbookv1.NewLimit(order.Price)
		tree.ReplaceOrInsert(limit)
	}
	if err := limit.AddOrder(order); err != nil {
		return err
	}

	ob.orders[order.ID] = order
	ob.adjustExposure(order, order.Quantity)

	return nil
}

// ReduceOrRemove takes filledQty off a resting order and drops it once empty.
func (ob *Orderbook) ReduceOrRemove(orderID string, filledQty int64) error {
	order, ok := ob.orders[orderID]
	if !ok {
		return fmt.Errorf("%w: %s", orderbookv1.ErrOrderNotFound, orderID)
	}

	limit := order.Limit
	if err := limit.Reduce(order, filledQty); err != nil {
		return err
	}
	ob.adjustExposure(order, -filledQty)

	if order.IsFilled() {
		ob.remove(order)
	}
	return nil
}

// Cancel removes orderID when it rests and belongs to accountID.
func (ob *Orderbook) Cancel(orderID, accountID string) (*orderbookv1.Order, bool) {
	order, ok := ob.orders[orderID]
	if !ok || order.AccountID != accountID {
		return nil, false
	}

	ob.adjustExposure(order, -order.Quantity)
	ob.remove(order)
	return order, true
}

func (ob *Orderbook) remove(order *orderbookv1.Order) {
	limit := order.Limit
	_ = limit.RemoveOrder(order)
	if limit.IsEmpty() {
		ob.side(order.Side).Delete(limit)
	}
	delete(ob.orders, order.ID)
}

func (ob *Orderbook) adjustExposure(order *orderbookv1.Order, qty int64) {
	exp := ob.exposure[order.AccountID]
	if order.IsBid() {
		exp.BidNotional += order.Price.Mul(qty)
	} else {
		exp.AskQuantity += qty
	}

	if exp == (orderbookv1.Exposure{}) {
		delete(ob.exposure, order.AccountID)
		return
	}
	ob.exposure[order.AccountID] = exp
}

// Order returns a resting order by id.
func (ob *Orderbook) Order(orderID string) (*orderbookv1.Order, bool) {
	order, ok := ob.orders[orderID]
	return order, ok
}

// Exposure returns what accountID has committed to resting orders.
func (ob *Orderbook) Exposure(accountID string) orderbookv1.Exposure {
	return ob.exposure[accountID]
}

// Len returns the number of resting orders.
func (ob *Orderbook) Len() int {
	return len(ob.orders)
}

// Snapshot aggregates both sides per price level, best price first.
func (ob *Orderbook) Snapshot() orderbookv1.Depth {
	depth := orderbookv1.NewDepth()
	ob.asks.Ascend(func(limit *orderbookv1.Limit) bool {
		depth.Asks = append(depth.Asks, orderbookv1.PriceLevel{Price: limit.Price, Quantity: limit.TotalVolume})
		return true
	})
	ob.bids.Ascend(func(limit *orderbookv1.Limit) bool {
		depth.Bids = append(depth.Bids, orderbookv1.PriceLevel{Price: limit.Price, Quantity: limit.TotalVolume})
		return true
	})
	return depth
}

// OrdersOf lists accountID's resting orders in matching priority.
func (ob *Orderbook) OrdersOf(accountID string) orderbookv1.AccountOrders {
	result := orderbookv1.AccountOrders{
		Asks: []orderbookv1.RestingOrder{},
		Bids: []orderbookv1.RestingOrder{},
	}
	collect := func(dst *[]orderbookv1.RestingOrder) func(*orderbookv1.Limit) bool {
		return func(limit *orderbookv1.Limit) bool {
			for _, order := range limit.Orders {
				if order.AccountID == accountID {
					*dst = append(*dst, orderbookv1.RestingOrder{
						OrderID:  order.ID,
						Price:    order.Price,
						Quantity: order.Quantity,
					})
				}
			}
			return true
		}
	}
	ob.asks.Ascend(collect(&result.Asks))
	ob.bids.Ascend(collect(&result.Bids))
	return result
}

// Validate cross-checks levels, the order index and exposure.
func (ob *Orderbook) Validate() error {
	seen := 0
	exposure := make(map[string]orderbookv1.Exposure)
	var err error

	check := func(side orderbookv1.Side) func(*orderbookv1.Limit) bool {
		return func(limit *orderbookv1.Limit) bool {
			if err = limit.Validate(); err != nil {
				return false
			}
			if limit.IsEmpty() {
				err = fmt.Errorf("empty %s level at %s", side, limit.Price)
				return false
			}
			for _, order := range limit.Orders {
				if order.Side != side || ob.orders[order.ID] != order || order.Limit != limit || order.Price != limit.Price {
					err = fmt.Errorf("order %s is misplaced", order.ID)
					return false
				}
				exp := exposure[order.AccountID]
				if side == orderbookv1.SideBid {
					exp.BidNotional += order.Notional()
				} else {
					exp.AskQuantity += order.Quantity
				}
				exposure[order.AccountID] = exp
				seen++
			}
			return true
		}
	}

	ob.asks.Ascend(check(orderbookv1.SideAsk))
	if err != nil {
		return err
	}
	ob.bids.Ascend(check(orderbookv1.SideBid))
	if err != nil {
		return err
	}

	if seen != len(ob.orders) {
		return fmt.Errorf("index holds %d orders, levels hold %d", len(ob.orders), seen)
	}
	if len(exposure) != len(ob.exposure) {
		return fmt.Errorf("exposure tracks %d accounts, expected %d", len(ob.exposure), len(exposure))
	}
	for account, exp := range exposure {
		if ob.exposure[account] != exp {
			return fmt.Errorf("exposure mismatch for %s", account)
		}
	}
	return nil
}

// TotalVolume returns the resting quantity on side.
func (ob *Orderbook) TotalVolume(side orderbookv1.Side) int64 {
	var total int64
	ob.side(side).Ascend(func(limit *orderbookv1.Limit) bool {
		total += limit.TotalVolume
		return true
	})
	return total
}

// BestPrice returns the best price resting on side.
func (ob *Orderbook) BestPrice(side orderbookv1.Side) (money.Cents, bool) {
	limit, ok := ob.side(side).Min()
	if !ok {
		return 0, false
	}
	return limit.Price, true
}
