package marketdata

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetanav/trading-system/pkg/errors"
	"github.com/thetanav/trading-system/pkg/interval"
	"github.com/thetanav/trading-system/pkg/logger"
	marketdatav1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/marketdata/v1"
	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
)

// DefaultRetention is the number of candles kept, twelve hours of one minute buckets.
const DefaultRetention = 720

// Publisher fans depth snapshots out to sinks and aggregates the mid price into candles.
type Publisher struct {
	mu sync.Mutex

	lastVersion uint64
	lastDepth   orderbookv1.Depth
	published   bool
	sinks       []marketdatav1.DepthSink

	store     marketdatav1.CandleStore
	interval  interval.Interval
	retention int
	history   []marketdatav1.Candle
	open      *marketdatav1.Candle

	logger logger.Interface
}

var _ marketdatav1.Publisher = (*Publisher)(nil)

// Option configures a Publisher.
type Option func(*Publisher)

// WithDepthSinks registers sinks that receive every new depth snapshot.
func WithDepthSinks(sinks ...marketdatav1.DepthSink) Option {
	return func(p *Publisher) {
		p.sinks = append(p.sinks, sinks...)
	}
}

// WithCandleStore forwards closed candles to store.
func WithCandleStore(store marketdatav1.CandleStore) Option {
	return func(p *Publisher) {
		p.store = store
	}
}

// WithInterval sets the candle bucket width.
func WithInterval(i interval.Interval) Option {
	return func(p *Publisher) {
		p.interval = i
	}
}

// WithRetention caps the candle history.
func WithRetention(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.retention = n
		}
	}
}

// NewPublisher creates a publisher with one minute candles.
func NewPublisher(log logger.Interface, opts ...Option) *Publisher {
	p := &Publisher{
		interval:  interval.Interval1m,
		retention: DefaultRetention,
		logger:    log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnBookChanged pushes depth to every sink unless version is stale or depth
// matches the last pushed snapshot. It reports whether a push happened.
func (p *Publisher) OnBookChanged(ctx context.Context, version uint64, depth orderbookv1.Depth) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.published && version <= p.lastVersion {
		return false
	}
	p.lastVersion = version
	if p.published && depth.Equal(p.lastDepth) {
		return false
	}
	p.lastDepth = depth
	p.published = true

	for _, sink := range p.sinks {
		if err := sink.PushDepth(ctx, version, depth); err != nil {
			p.logger.ErrorContext(ctx, errors.TracerFromError(err), logger.NewField("version", version))
		}
	}
	return true
}

// OnIntervalTick closes the open candle once now has left its bucket and, when
// ok, samples mid into the candle for now's bucket.
func (p *Publisher) OnIntervalTick(ctx context.Context, now time.Time, mid decimal.Decimal, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open != nil && !p.interval.IsInBucket(now, p.open.Time) {
		if now.Before(p.open.Time) {
			return
		}
		p.closeCandle(ctx)
	}

	if !ok {
		return
	}
	if p.open == nil {
		candle := marketdatav1.NewCandle(p.interval.CalculateBucketTime(now), mid)
		p.open = &candle
		return
	}
	p.open.Sample(mid)
}

func (p *Publisher) closeCandle(ctx context.Context) {
	closed := *p.open
	p.open = nil

	p.history = append(p.history, closed)
	if excess := len(p.history) - p.retention; excess > 0 {
		p.history = append(p.history[:0:0], p.history[excess:]...)
	}

	if p.store == nil {
		return
	}
	if err := p.store.AppendCandle(ctx, closed, p.retention); err != nil {
		p.logger.ErrorContext(ctx, errors.TracerFromError(err), logger.NewField("candle", closed.Time))
	}
}

// Candles returns the closed candles followed by the open one, oldest first,
// bounded by the retention.
func (p *Publisher) Candles() []marketdatav1.Candle {
	p.mu.Lock()
	defer p.mu.Unlock()

	candles := make([]marketdatav1.Candle, 0, len(p.history)+1)
	candles = append(candles, p.history...)
	if p.open != nil {
		candles = append(candles, *p.open)
	}
	if excess := len(candles) - p.retention; excess > 0 {
		candles = candles[excess:]
	}
	return candles
}

// Restore loads the closed candle history from the store.
func (p *Publisher) Restore(ctx context.Context) error {
	if p.store == nil {
		return nil
	}

	candles, err := p.store.LoadCandles(ctx, p.retention)
	if err != nil {
		return errors.NewTracer("failed to load candles").Wrap(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.history = candles
	if excess := len(p.history) - p.retention; excess > 0 {
		p.history = p.history[excess:]
	}
	return nil
}
