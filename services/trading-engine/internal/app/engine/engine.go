package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetanav/trading-system/pkg/errors"
	"github.com/thetanav/trading-system/pkg/logger"
	"github.com/thetanav/trading-system/pkg/money"
	enginev1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/engine/v1"
	ledgerv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/ledger/v1"
	marketdatav1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/marketdata/v1"
	orderreaderv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/order-reader/v1"
	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
	tradepublisherv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/trade-publisher/v1"
)

var two = decimal.NewFromInt(2)

// Engine matches orders for the single instrument and settles every fill
// through the ledger. All book and settlement work runs under one lock.
type Engine struct {
	// Core components
	orderbook      orderbookv1.Orderbook
	ledger         ledgerv1.Ledger
	publisher      marketdatav1.Publisher
	tradePublisher tradepublisherv1.TradePublisher
	orderReader    orderreaderv1.OrderReader
	logger         logger.Interface
	options        *Options

	// Guards the book, seq, version and halted.
	mu      sync.Mutex
	seq     uint64
	version uint64
	halted  error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	totalTrades int64
	tradesMutex sync.RWMutex
}

var _ enginev1.Engine = (*Engine)(nil)

// NewEngine creates a new instance of Engine with the provided dependencies.
// tradePublisher and orderReader may be nil.
func NewEngine(
	orderbook orderbookv1.Orderbook,
	ledger ledgerv1.Ledger,
	publisher marketdatav1.Publisher,
	tradePublisher tradepublisherv1.TradePublisher,
	orderReader orderreaderv1.OrderReader,
	logger logger.Interface,
) *Engine {
	return NewEngineWithOptions(orderbook, ledger, publisher, tradePublisher, orderReader, logger, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options.
func NewEngineWithOptions(
	orderbook orderbookv1.Orderbook,
	ledger ledgerv1.Ledger,
	publisher marketdatav1.Publisher,
	tradePublisher tradepublisherv1.TradePublisher,
	orderReader orderreaderv1.OrderReader,
	logger logger.Interface,
	options *Options,
) *Engine {
	return &Engine{
		orderbook:      orderbook,
		ledger:         ledger,
		publisher:      publisher,
		tradePublisher: tradePublisher,
		orderReader:    orderReader,
		logger:         logger,
		options:        options.withDefaults(),
	}
}

// Start launches the candle sampler and, when an order reader is set, the order processor.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(1)
	go e.runCandleSampler()

	if e.orderReader != nil {
		e.wg.Add(1)
		go e.runOrderProcessor()
	}

	e.logger.Info("Engine started",
		logger.NewField("sampleInterval", e.options.SampleInterval.String()),
		logger.NewField("orderStream", e.orderReader != nil),
	)
	return nil
}

// Stop gracefully shuts down the engine.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// Submit validates, admits and matches an order. Rejections leave the book and
// ledger untouched.
func (e *Engine) Submit(ctx context.Context, req enginev1.SubmitOrderRequest) (*enginev1.SubmitOutcome, error) {
	order, err := e.newOrder(req)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.halted != nil {
		e.mu.Unlock()
		return nil, enginev1.ErrEngineHalted
	}

	availableCash, err := e.admit(order)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	e.seq++
	order.Seq = e.seq
	order.ID = e.options.NewOrderID()
	order.CreatedAt = e.options.Now()
	requested := order.Quantity

	trades, matchErr := e.match(ctx, order, availableCash)

	outcome := &enginev1.SubmitOutcome{
		OrderID: order.ID,
		Filled:  requested - order.Quantity,
		Trades:  trades,
	}
	rested := false
	if matchErr == nil {
		switch {
		case order.Quantity == 0:
			outcome.Status = enginev1.StatusFullyFilled
		case order.IsMarket:
			outcome.Status = enginev1.StatusPartiallyFilled
		default:
			if err := e.orderbook.Insert(order); err != nil {
				matchErr = e.halt(ctx, errors.NewTracerf("rest order %s", order.ID).Wrap(err))
				break
			}
			rested = true
			outcome.Status = enginev1.StatusResting
			outcome.Remaining = order.Quantity
		}
	}

	version, depth, changed := e.bookChanged(len(trades) > 0 || rested)
	e.mu.Unlock()

	if changed {
		e.afterBookChange(ctx, version, depth, trades)
	}
	if matchErr != nil {
		return nil, matchErr
	}

	e.logger.DebugContext(ctx, "Order processed",
		logger.NewField("orderID", order.ID),
		logger.NewField("accountID", order.AccountID),
		logger.NewField("side", order.Side),
		logger.NewField("status", outcome.Status),
		logger.NewField("filled", outcome.Filled),
	)
	return outcome, nil
}

// newOrder checks the request fields and builds an unadmitted order. Every
// invalid field is reported in one BaseError.
func (e *Engine) newOrder(req enginev1.SubmitOrderRequest) (*orderbookv1.Order, error) {
	invalid := errors.NewBaseError()

	side, ok := orderbookv1.ParseSide(req.Side)
	if !ok {
		invalid.AddErrorDetails(enginev1.ErrInvalidSide)
	}

	var isMarket bool
	switch req.Type {
	case orderbookv1.OrderTypeLimit, "":
	case orderbookv1.OrderTypeMarket:
		isMarket = true
	default:
		invalid.AddErrorDetails(enginev1.ErrInvalidOrderType)
	}

	qty := req.Quantity
	if !qty.IsInteger() || qty.LessThan(decimal.NewFromInt(1)) || qty.GreaterThan(decimal.NewFromInt(e.options.MaxQuantity)) {
		invalid.AddErrorDetails(enginev1.ErrInvalidQuantity)
	}

	var price money.Cents
	if !isMarket {
		var err error
		price, err = money.FromDecimal(req.Price)
		if err != nil || price <= 0 || price > e.options.MaxPrice {
			invalid.AddErrorDetails(enginev1.ErrInvalidPrice)
		}
	}

	if invalid.HasDetails() {
		return nil, invalid
	}

	return &orderbookv1.Order{
		AccountID: req.AccountID,
		Side:      side,
		Price:     price,
		Quantity:  qty.IntPart(),
		IsMarket:  isMarket,
	}, nil
}

// admit checks the order against the account's available balance, net of what
// its resting orders already commit. It returns the cash a bid may spend.
// Callers must hold e.mu.
func (e *Engine) admit(order *orderbookv1.Order) (money.Cents, error) {
	account, ok := e.ledger.Account(order.AccountID)
	if !ok {
		return 0, ledgerv1.ErrAccountNotFound
	}
	exposure := e.orderbook.Exposure(order.AccountID)

	if order.IsAsk() {
		if account.Inventory-exposure.AskQuantity < order.Quantity {
			return 0, enginev1.ErrInsufficientInventory
		}
		if order.IsMarket {
			if _, ok := e.orderbook.NextOpposing(order.Side, selfTrade(order)); !ok {
				return 0, enginev1.ErrNoLiquidity
			}
		}
		return 0, nil
	}

	available := account.Cash - exposure.BidNotional
	price := order.Price
	if order.IsMarket {
		best, ok := e.orderbook.NextOpposing(order.Side, selfTrade(order))
		if !ok {
			return 0, enginev1.ErrNoLiquidity
		}
		price = best.Price
	}
	if price.Mul(order.Quantity) > available {
		return 0, enginev1.ErrInsufficientFunds
	}
	return available, nil
}

func selfTrade(order *orderbookv1.Order) func(*orderbookv1.Order) bool {
	return func(resting *orderbookv1.Order) bool {
		return resting.AccountID == order.AccountID
	}
}

// match runs the order against the opposite side until it is filled or no
// eligible maker is left. Callers must hold e.mu.
func (e *Engine) match(ctx context.Context, order *orderbookv1.Order, availableCash money.Cents) ([]orderbookv1.Trade, error) {
	var trades []orderbookv1.Trade
	skip := selfTrade(order)

	for order.Quantity > 0 {
		maker, ok := e.orderbook.NextOpposing(order.Side, skip)
		if !ok || !order.Crosses(maker) {
			break
		}

		fillQty := min(order.Quantity, maker.Quantity)
		if order.IsMarket && order.IsBid() {
			affordable := int64(availableCash / maker.Price)
			if affordable == 0 {
				break
			}
			fillQty = min(fillQty, affordable)
		}

		trade := orderbookv1.Trade{
			ID:             e.options.NewTradeID(),
			MakerOrderID:   maker.ID,
			TakerOrderID:   order.ID,
			MakerAccountID: maker.AccountID,
			TakerAccountID: order.AccountID,
			TakerSide:      order.Side,
			Quantity:       fillQty,
			Price:          maker.Price,
			Timestamp:      e.options.Now(),
		}

		err := e.ledger.Settle(ctx, ledgerv1.Settlement{
			SellerID: trade.SellerAccountID(),
			BuyerID:  trade.BuyerAccountID(),
			Quantity: fillQty,
			Price:    trade.Price,
			At:       trade.Timestamp,
		})
		if err != nil {
			return trades, e.halt(ctx, err)
		}

		if err := e.orderbook.ReduceOrRemove(maker.ID, fillQty); err != nil {
			return trades, e.halt(ctx, errors.NewTracerf("reduce maker %s", maker.ID).Wrap(err))
		}
		order.Quantity -= fillQty
		if order.IsBid() {
			availableCash -= trade.Notional()
		}
		trades = append(trades, trade)
	}

	return trades, nil
}

// halt stops all further trading. Callers must hold e.mu.
func (e *Engine) halt(ctx context.Context, cause error) error {
	e.halted = cause
	e.logger.ErrorContext(ctx, cause, logger.NewField("action", "halt_engine"))
	return fmt.Errorf("%w: %w", enginev1.ErrEngineHalted, cause)
}

// bookChanged bumps the version and captures depth when the book was mutated.
// Callers must hold e.mu.
func (e *Engine) bookChanged(mutated bool) (uint64, orderbookv1.Depth, bool) {
	if !mutated {
		return 0, orderbookv1.Depth{}, false
	}
	e.version++
	return e.version, e.orderbook.Snapshot(), true
}

// afterBookChange notifies the publisher and the trade stream. It runs
// without e.mu held.
func (e *Engine) afterBookChange(ctx context.Context, version uint64, depth orderbookv1.Depth, trades []orderbookv1.Trade) {
	e.publisher.OnBookChanged(ctx, version, depth)

	if len(trades) == 0 {
		return
	}
	e.recordTrades(trades)

	if e.tradePublisher == nil {
		return
	}
	if err := e.tradePublisher.PublishTrades(ctx, version, trades); err != nil {
		e.logger.ErrorContext(ctx, err,
			logger.NewField("action", "publish_trades"),
			logger.NewField("version", version),
		)
	}
}

func (e *Engine) recordTrades(trades []orderbookv1.Trade) {
	e.tradesMutex.Lock()
	e.totalTrades += int64(len(trades))
	currentTotal := e.totalTrades
	e.tradesMutex.Unlock()

	e.logger.Info("Trades executed",
		logger.NewField("tradeCount", len(trades)),
		logger.NewField("totalTrades", currentTotal),
	)
}

// Cancel removes a resting order owned by req.AccountID. An empty req.Side
// matches either side.
func (e *Engine) Cancel(ctx context.Context, req enginev1.CancelOrderRequest) error {
	var side orderbookv1.Side
	if req.Side != "" {
		parsed, ok := orderbookv1.ParseSide(req.Side)
		if !ok {
			return enginev1.ErrInvalidSide
		}
		side = parsed
	}

	e.mu.Lock()
	if e.halted != nil {
		e.mu.Unlock()
		return enginev1.ErrEngineHalted
	}

	order, ok := e.orderbook.Order(req.OrderID)
	if !ok || order.AccountID != req.AccountID || (side != "" && order.Side != side) {
		e.mu.Unlock()
		return enginev1.ErrOrderNotFound
	}
	if _, ok := e.orderbook.Cancel(req.OrderID, req.AccountID); !ok {
		e.mu.Unlock()
		return enginev1.ErrOrderNotFound
	}

	version, depth, _ := e.bookChanged(true)
	e.mu.Unlock()

	e.afterBookChange(ctx, version, depth, nil)

	e.logger.DebugContext(ctx, "Order cancelled",
		logger.NewField("orderID", req.OrderID),
		logger.NewField("accountID", req.AccountID),
	)
	return nil
}

// Snapshot returns the current depth.
func (e *Engine) Snapshot() orderbookv1.Depth {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orderbook.Snapshot()
}

// OrdersOf returns accountID's resting orders.
func (e *Engine) OrdersOf(accountID string) orderbookv1.AccountOrders {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.orderbook.OrdersOf(accountID)
}

// MidPrice returns the average of the best bid and best ask when both exist.
func (e *Engine) MidPrice() (decimal.Decimal, bool) {
	e.mu.Lock()
	bid, hasBid := e.orderbook.BestPrice(orderbookv1.SideBid)
	ask, hasAsk := e.orderbook.BestPrice(orderbookv1.SideAsk)
	e.mu.Unlock()

	if !hasBid || !hasAsk {
		return decimal.Zero, false
	}
	return bid.Decimal().Add(ask.Decimal()).Div(two), true
}

// Halted returns the failure that stopped trading, or nil.
func (e *Engine) Halted() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.halted
}

// DepthSnapshot returns the current depth together with the book version it
// was taken at. The version is bumped on every mutation.
func (e *Engine) DepthSnapshot() (uint64, orderbookv1.Depth) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version, e.orderbook.Snapshot()
}

// TotalTrades returns the number of trades executed since start.
func (e *Engine) TotalTrades() int64 {
	e.tradesMutex.RLock()
	defer e.tradesMutex.RUnlock()
	return e.totalTrades
}

// runCandleSampler feeds the mid price to the publisher once per SampleInterval.
func (e *Engine) runCandleSampler() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.options.SampleInterval)
	defer ticker.Stop()

	e.logger.Info("Starting candle sampler")

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Candle sampler shutting down")
			return
		case <-ticker.C:
			e.sampleCandle(e.ctx, e.options.Now())
		}
	}
}

func (e *Engine) sampleCandle(ctx context.Context, now time.Time) {
	mid, ok := e.MidPrice()
	e.publisher.OnIntervalTick(ctx, now, mid, ok)
}

// runOrderProcessor reads order commands from the stream and applies them.
func (e *Engine) runOrderProcessor() {
	defer e.wg.Done()

	e.logger.Info("Starting order processor")

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Order processor shutting down")
			if err := e.orderReader.Close(); err != nil {
				e.logger.Error(err, logger.NewField("action", "close_order_reader"))
			}
			return
		default:
			msg, cmd, err := e.orderReader.ReadMessage(e.ctx)
			if err != nil {
				if e.ctx.Err() != nil {
					continue
				}
				e.logger.ErrorContext(e.ctx, err, logger.NewField("action", "read_order_message"))
				select {
				case <-e.ctx.Done():
				case <-time.After(e.options.ReadBackoff):
				}
				continue
			}

			if err := e.processCommand(e.ctx, cmd); err != nil {
				e.logger.WarnContext(e.ctx, "Order command rejected",
					logger.NewField("offset", msg.Offset),
					logger.NewField("accountID", cmd.AccountID),
					logger.NewField("reason", err.Error()),
				)
			}

			if err := e.orderReader.CommitMessages(e.ctx, msg); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.NewField("action", "commit_order_message"))
			}
		}
	}
}

// processCommand applies a single command from the order stream.
func (e *Engine) processCommand(ctx context.Context, cmd *orderreaderv1.OrderCommand) error {
	if cmd.IsCancel() {
		return e.Cancel(ctx, enginev1.CancelOrderRequest{
			OrderID:   cmd.OrderID,
			AccountID: cmd.AccountID,
			Side:      cmd.Side,
		})
	}

	_, err := e.Submit(ctx, enginev1.SubmitOrderRequest{
		AccountID: cmd.AccountID,
		Type:      cmd.Type,
		Side:      cmd.Side,
		Price:     cmd.Price,
		Quantity:  cmd.Quantity,
	})
	return err
}
