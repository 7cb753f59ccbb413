package marketdatav1

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
)

// DepthSink receives depth snapshots after the book changes.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=marketdatav1_mock
type DepthSink interface {
	PushDepth(ctx context.Context, version uint64, depth orderbookv1.Depth) error
}

// CandleStore keeps closed candles outside the process.
type CandleStore interface {
	AppendCandle(ctx context.Context, candle Candle, retention int) error
	LoadCandles(ctx context.Context, limit int) ([]Candle, error)
}

// Publisher derives depth pushes and candles from the engine.
type Publisher interface {
	OnBookChanged(ctx context.Context, version uint64, depth orderbookv1.Depth) bool
	OnIntervalTick(ctx context.Context, now time.Time, mid decimal.Decimal, ok bool)
	Candles() []Candle
}
