package enginev1

import (
	"context"

	"github.com/shopspring/decimal"
	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
)

// Engine is the single entry point for trading on the instrument.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=enginev1_mock
type Engine interface {
	Submit(ctx context.Context, req SubmitOrderRequest) (*SubmitOutcome, error)
	Cancel(ctx context.Context, req CancelOrderRequest) error
	Snapshot() orderbookv1.Depth
	OrdersOf(accountID string) orderbookv1.AccountOrders
	MidPrice() (decimal.Decimal, bool)
	Halted() error
}
