package orderbookv1

import (
	"fmt"
	"sort"

	"github.com/thetanav/trading-system/pkg/money"
)

// Limit represents a price level with its resting orders in time priority.
type Limit struct {
	Price       money.Cents `json:"price"`
	Orders      []*Order    `json:"orders"`
	TotalVolume int64       `json:"totalVolume"`
}

// NewLimit creates a new Limit with the specified price.
func NewLimit(price money.Cents) *Limit {
	return &Limit{
		Price:  price,
		Orders: make([]*Order, 0),
	}
}

// AddOrder adds an order to the level, keeping Orders sorted by Seq.
func (l *Limit) AddOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.Quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, order.Quantity)
	}

	i := sort.Search(len(l.Orders), func(i int) bool {
		return l.Orders[i].Seq > order.Seq
	})
	l.Orders = append(l.Orders, nil)
	copy(l.Orders[i+1:], l.Orders[i:])
	l.Orders[i] = order

	order.Limit = l
	l.TotalVolume += order.Quantity

	return nil
}

// RemoveOrder removes an order from the level and updates the total volume.
func (l *Limit) RemoveOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}

	for i, o := range l.Orders {
		if o == order {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			l.TotalVolume -= order.Quantity
			order.Limit = nil
			return nil
		}
	}

	return ErrOrderNotFound
}

// Reduce takes qty off a resting order at this level.
func (l *Limit) Reduce(order *Order, qty int64) error {
	if qty <= 0 || qty > order.Quantity {
		return fmt.Errorf("%w: cannot fill %d of %d", ErrInvalidQuantity, qty, order.Quantity)
	}
	order.Quantity -= qty
	l.TotalVolume -= qty
	return nil
}

// IsEmpty checks if the limit has no orders
func (l *Limit) IsEmpty() bool {
	return len(l.Orders) == 0
}

// Validate checks that the stored volume matches the orders at the level.
func (l *Limit) Validate() error {
	if l.Price <= 0 {
		return fmt.Errorf("limit price %s is not positive", l.Price)
	}

	var volume int64
	for i, order := range l.Orders {
		if order == nil {
			return ErrNilOrder
		}
		if order.Quantity <= 0 {
			return fmt.Errorf("%w: order %s has quantity %d", ErrInvalidQuantity, order.ID, order.Quantity)
		}
		if i > 0 && l.Orders[i-1].Seq >= order.Seq {
			return fmt.Errorf("orders out of time priority at %s", l.Price)
		}
		volume += order.Quantity
	}

	if volume != l.TotalVolume {
		return fmt.Errorf("volume mismatch: calculated %d, stored %d", volume, l.TotalVolume)
	}

	return nil
}
