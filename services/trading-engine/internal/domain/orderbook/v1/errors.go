package orderbookv1

import "github.com/thetanav/trading-system/pkg/errors"

var (
	// ErrNilOrder is returned when a nil order is passed to the book.
	ErrNilOrder = errors.NewErrorDetails("order cannot be nil", string(errors.GeneralBadRequestError), "order")
	// ErrInvalidQuantity is returned when a quantity cannot be placed or filled.
	ErrInvalidQuantity = errors.NewErrorDetails("quantity must be positive", string(errors.InvalidQuantityError), "quantity")
	// ErrInvalidPrice is returned when a resting order has no positive price.
	ErrInvalidPrice = errors.NewErrorDetails("price must be positive", string(errors.InvalidPriceError), "price")
	// ErrDuplicateOrder is returned when an order id already rests in the book.
	ErrDuplicateOrder = errors.NewErrorDetails("order already exists", string(errors.GeneralBadRequestError), "id")
	// ErrCannotRest is returned for market orders and orders without an id or side.
	ErrCannotRest = errors.NewErrorDetails("order cannot rest in the book", string(errors.GeneralBadRequestError), "order")
	// ErrOrderNotFound is returned when an order is not resting in the book.
	ErrOrderNotFound = errors.NewErrorDetails("order not found", string(errors.OrderNotFoundError), "id")
)
