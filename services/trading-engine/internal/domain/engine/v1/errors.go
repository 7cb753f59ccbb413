package enginev1

import "github.com/thetanav/trading-system/pkg/errors"

var (
	// ErrInvalidPrice is returned for a limit price that is not positive, exceeds the
	// maximum or has more than two decimals.
	ErrInvalidPrice = errors.NewErrorDetails("Invalid price.", string(errors.InvalidPriceError), "price")
	// ErrInvalidQuantity is returned for a quantity that is not a positive integer within bounds.
	ErrInvalidQuantity = errors.NewErrorDetails("Invalid quantity.", string(errors.InvalidQuantityError), "quantity")
	// ErrInvalidSide is returned when the side is neither bid nor ask.
	ErrInvalidSide = errors.NewErrorDetails("Invalid side.", string(errors.InvalidSideError), "side")
	// ErrInvalidOrderType is returned when the type is neither limit nor market.
	ErrInvalidOrderType = errors.NewErrorDetails("Invalid order type.", string(errors.GeneralBadRequestError), "type")
	// ErrInsufficientFunds is returned when a bid is not covered by available cash.
	ErrInsufficientFunds = errors.NewErrorDetails("Not enough cash.", string(errors.InsufficientFundsError), "price")
	// ErrInsufficientInventory is returned when an ask is not covered by available inventory.
	ErrInsufficientInventory = errors.NewErrorDetails("Not enough quantity.", string(errors.InsufficientInventoryError), "quantity")
	// ErrNoLiquidity is returned when a market order has nothing to trade against.
	ErrNoLiquidity = errors.NewErrorDetails("No orders available to match.", string(errors.NoLiquidityError), "type")
	// ErrOrderNotFound is returned when a cancel target is not resting for the caller.
	ErrOrderNotFound = errors.NewErrorDetails("Order not found or you don't have permission.", string(errors.OrderNotFoundError), "orderId")
	// ErrEngineHalted is returned by every call after a ledger consistency failure.
	ErrEngineHalted = errors.NewErrorDetails("Trading is halted.", string(errors.EngineHaltedError), "engine")
)
