package tradepublisherv1

import (
	"context"

	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
)

// TradePublisher forwards executed trades to downstream consumers.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=tradepublisherv1_mock
type TradePublisher interface {
	PublishTrades(ctx context.Context, version uint64, trades []orderbookv1.Trade) error
	Close() error
}
