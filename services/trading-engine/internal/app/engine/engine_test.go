package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetanav/trading-system/pkg/errors"
	"github.com/thetanav/trading-system/pkg/logger"
	"github.com/thetanav/trading-system/pkg/money"
	enginev1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/engine/v1"
	ledgerv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/ledger/v1"
	ledgerv1_mock "github.com/thetanav/trading-system/services/trading-engine/internal/domain/ledger/v1/mock"
	marketdatav1_mock "github.com/thetanav/trading-system/services/trading-engine/internal/domain/marketdata/v1/mock"
	orderreaderv1_mock "github.com/thetanav/trading-system/services/trading-engine/internal/domain/order-reader/v1/mock"
	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
	tradepublisherv1_mock "github.com/thetanav/trading-system/services/trading-engine/internal/domain/trade-publisher/v1/mock"
	"github.com/thetanav/trading-system/services/trading-engine/internal/usecase/ledger"
	"github.com/thetanav/trading-system/services/trading-engine/internal/usecase/orderbook"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

var testSeed = ledgerv1.Seed{Cash: money.FromUnits(10_000), Inventory: 100}

// Test fixtures and helpers
type testFixture struct {
	ctrl               *gomock.Controller
	mockPublisher      *marketdatav1_mock.MockPublisher
	mockTradePublisher *tradepublisherv1_mock.MockTradePublisher
	mockOrderReader    *orderreaderv1_mock.MockOrderReader
	orderbook          *orderbook.Orderbook
	ledger             *ledger.Ledger
	engine             *Engine
}

func counter(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func testOptions() *Options {
	opts := DefaultEngineOptions()
	opts.SampleInterval = time.Hour
	opts.ReadBackoff = time.Millisecond
	opts.NewOrderID = counter("order")
	opts.NewTradeID = counter("trade")
	opts.Now = func() time.Time { return testNow }
	return opts
}

func setupTestFixture(t *testing.T) *testFixture {
	ctrl := gomock.NewController(t)

	f := &testFixture{
		ctrl:               ctrl,
		mockPublisher:      marketdatav1_mock.NewMockPublisher(ctrl),
		mockTradePublisher: tradepublisherv1_mock.NewMockTradePublisher(ctrl),
		mockOrderReader:    orderreaderv1_mock.NewMockOrderReader(ctrl),
		orderbook:          orderbook.NewOrderbook(),
		ledger: ledger.NewLedger(logger.NewNop(),
			ledger.WithSeed(testSeed),
			ledger.WithIDGenerator(counter("acct")),
			ledger.WithClock(func() time.Time { return testNow }),
		),
	}
	f.engine = NewEngineWithOptions(f.orderbook, f.ledger, f.mockPublisher, f.mockTradePublisher, f.mockOrderReader, logger.NewNop(), testOptions())
	return f
}

// allowPublishing accepts any number of depth and trade notifications.
func (f *testFixture) allowPublishing() {
	f.mockPublisher.EXPECT().OnBookChanged(gomock.Any(), gomock.Any(), gomock.Any()).Return(true).AnyTimes()
	f.mockTradePublisher.EXPECT().PublishTrades(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (f *testFixture) openAccount(t *testing.T, name string) string {
	t.Helper()
	account, err := f.ledger.OpenAccount(context.Background(), ledgerv1.OpenAccountRequest{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return account.ID
}

func (f *testFixture) account(t *testing.T, id string) ledgerv1.Account {
	t.Helper()
	account, ok := f.ledger.Account(id)
	require.True(t, ok)
	return account
}

func limitOrder(accountID, side, price string, qty int64) enginev1.SubmitOrderRequest {
	return enginev1.SubmitOrderRequest{
		AccountID: accountID,
		Type:      orderbookv1.OrderTypeLimit,
		Side:      side,
		Price:     decimal.RequireFromString(price),
		Quantity:  decimal.NewFromInt(qty),
	}
}

func marketOrder(accountID, side string, qty int64) enginev1.SubmitOrderRequest {
	return enginev1.SubmitOrderRequest{
		AccountID: accountID,
		Type:      orderbookv1.OrderTypeMarket,
		Side:      side,
		Quantity:  decimal.NewFromInt(qty),
	}
}

func (f *testFixture) mustSubmit(t *testing.T, req enginev1.SubmitOrderRequest) *enginev1.SubmitOutcome {
	t.Helper()
	outcome, err := f.engine.Submit(context.Background(), req)
	require.NoError(t, err)
	return outcome
}

func level(price string, qty int64) orderbookv1.PriceLevel {
	return orderbookv1.PriceLevel{Price: money.MustParse(price), Quantity: qty}
}

func TestEngine_Submit_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(req *enginev1.SubmitOrderRequest)
		wantErr error
	}{
		{name: "unknown side", mutate: func(r *enginev1.SubmitOrderRequest) { r.Side = "hold" }, wantErr: enginev1.ErrInvalidSide},
		{name: "unknown type", mutate: func(r *enginev1.SubmitOrderRequest) { r.Type = "stop" }, wantErr: enginev1.ErrInvalidOrderType},
		{name: "zero quantity", mutate: func(r *enginev1.SubmitOrderRequest) { r.Quantity = decimal.Zero }, wantErr: enginev1.ErrInvalidQuantity},
		{name: "negative quantity", mutate: func(r *enginev1.SubmitOrderRequest) { r.Quantity = decimal.NewFromInt(-2) }, wantErr: enginev1.ErrInvalidQuantity},
		{name: "fractional quantity", mutate: func(r *enginev1.SubmitOrderRequest) { r.Quantity = decimal.RequireFromString("1.5") }, wantErr: enginev1.ErrInvalidQuantity},
		{name: "quantity above bound", mutate: func(r *enginev1.SubmitOrderRequest) { r.Quantity = decimal.NewFromInt(1_000_001) }, wantErr: enginev1.ErrInvalidQuantity},
		{name: "three decimals", mutate: func(r *enginev1.SubmitOrderRequest) { r.Price = decimal.RequireFromString("10.001") }, wantErr: enginev1.ErrInvalidPrice},
		{name: "zero price", mutate: func(r *enginev1.SubmitOrderRequest) { r.Price = decimal.Zero }, wantErr: enginev1.ErrInvalidPrice},
		{name: "negative price", mutate: func(r *enginev1.SubmitOrderRequest) { r.Price = decimal.RequireFromString("-1") }, wantErr: enginev1.ErrInvalidPrice},
		{name: "price above bound", mutate: func(r *enginev1.SubmitOrderRequest) { r.Price = decimal.RequireFromString("1000000.01") }, wantErr: enginev1.ErrInvalidPrice},
		{name: "unknown account", mutate: func(r *enginev1.SubmitOrderRequest) { r.AccountID = "ghost" }, wantErr: ledgerv1.ErrAccountNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t)
			buyer := f.openAccount(t, "buyer")
			req := limitOrder(buyer, "bid", "10.00", 1)
			tc.mutate(&req)

			outcome, err := f.engine.Submit(context.Background(), req)

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, outcome)
			assert.Equal(t, 0, f.orderbook.Len())
			version, _ := f.engine.DepthSnapshot()
			assert.Equal(t, uint64(0), version)
		})
	}

	t.Run("every invalid field is reported", func(t *testing.T) {
		f := setupTestFixture(t)
		buyer := f.openAccount(t, "buyer")
		req := limitOrder(buyer, "hold", "10.001", 0)

		outcome, err := f.engine.Submit(context.Background(), req)

		assert.Nil(t, outcome)
		assert.ErrorIs(t, err, enginev1.ErrInvalidSide)
		assert.ErrorIs(t, err, enginev1.ErrInvalidQuantity)
		assert.ErrorIs(t, err, enginev1.ErrInvalidPrice)

		var invalid *errors.BaseError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, []*errors.ErrorDetails{enginev1.ErrInvalidSide, enginev1.ErrInvalidQuantity, enginev1.ErrInvalidPrice}, invalid.GetDetails())
		assert.Equal(t, string(errors.InvalidSideError), errors.CodeOf(err))
	})

	t.Run("trailing zeros and aliases are accepted", func(t *testing.T) {
		f := setupTestFixture(t)
		f.allowPublishing()
		buyer := f.openAccount(t, "buyer")

		outcome := f.mustSubmit(t, limitOrder(buyer, "buy", "12.340", 2))

		assert.Equal(t, enginev1.StatusResting, outcome.Status)
		assert.Equal(t, []orderbookv1.PriceLevel{level("12.34", 2)}, f.engine.Snapshot().Bids)
	})
}

func TestEngine_Submit_RejectionWithoutMutation(t *testing.T) {
	testCases := []struct {
		name    string
		setup   func(t *testing.T, f *testFixture, buyer, seller string)
		req     func(buyer, seller string) enginev1.SubmitOrderRequest
		wantErr error
	}{
		{
			name:    "bid above cash",
			req:     func(buyer, _ string) enginev1.SubmitOrderRequest { return limitOrder(buyer, "bid", "100.00", 101) },
			wantErr: enginev1.ErrInsufficientFunds,
		},
		{
			name: "bid above cash net of resting bids",
			setup: func(t *testing.T, f *testFixture, buyer, _ string) {
				f.mustSubmit(t, limitOrder(buyer, "bid", "100.00", 60))
			},
			req:     func(buyer, _ string) enginev1.SubmitOrderRequest { return limitOrder(buyer, "bid", "100.00", 41) },
			wantErr: enginev1.ErrInsufficientFunds,
		},
		{
			name:    "ask above inventory",
			req:     func(_, seller string) enginev1.SubmitOrderRequest { return limitOrder(seller, "ask", "1.00", 101) },
			wantErr: enginev1.ErrInsufficientInventory,
		},
		{
			name: "ask above inventory net of resting asks",
			setup: func(t *testing.T, f *testFixture, _, seller string) {
				f.mustSubmit(t, limitOrder(seller, "ask", "50.00", 99))
			},
			req:     func(_, seller string) enginev1.SubmitOrderRequest { return limitOrder(seller, "ask", "60.00", 2) },
			wantErr: enginev1.ErrInsufficientInventory,
		},
		{
			name:    "market bid on empty book",
			req:     func(buyer, _ string) enginev1.SubmitOrderRequest { return marketOrder(buyer, "bid", 1) },
			wantErr: enginev1.ErrNoLiquidity,
		},
		{
			name: "market bid against own asks only",
			setup: func(t *testing.T, f *testFixture, _, seller string) {
				f.mustSubmit(t, limitOrder(seller, "ask", "5.00", 3))
			},
			req:     func(_, seller string) enginev1.SubmitOrderRequest { return marketOrder(seller, "bid", 1) },
			wantErr: enginev1.ErrNoLiquidity,
		},
		{
			name: "market bid priced at best ask above cash",
			setup: func(t *testing.T, f *testFixture, _, seller string) {
				f.mustSubmit(t, limitOrder(seller, "ask", "5000.00", 3))
			},
			req:     func(buyer, _ string) enginev1.SubmitOrderRequest { return marketOrder(buyer, "bid", 3) },
			wantErr: enginev1.ErrInsufficientFunds,
		},
		{
			name:    "market ask on empty book",
			req:     func(_, seller string) enginev1.SubmitOrderRequest { return marketOrder(seller, "ask", 1) },
			wantErr: enginev1.ErrNoLiquidity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t)
			f.allowPublishing()
			buyer := f.openAccount(t, "buyer")
			seller := f.openAccount(t, "seller")
			if tc.setup != nil {
				tc.setup(t, f, buyer, seller)
			}

			depthBefore := f.engine.Snapshot()
			accountsBefore := f.ledger.Accounts()
			versionBefore, _ := f.engine.DepthSnapshot()

			outcome, err := f.engine.Submit(context.Background(), tc.req(buyer, seller))

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, outcome)
			assert.Equal(t, depthBefore, f.engine.Snapshot())
			assert.Equal(t, accountsBefore, f.ledger.Accounts())
			versionAfter, _ := f.engine.DepthSnapshot()
			assert.Equal(t, versionBefore, versionAfter)
			assert.Empty(t, f.ledger.Transactions(buyer))
			assert.Empty(t, f.ledger.Transactions(seller))
		})
	}
}

func TestEngine_Submit_ResidualRests(t *testing.T) {
	f := setupTestFixture(t)
	f.allowPublishing()
	seller := f.openAccount(t, "seller")
	buyer := f.openAccount(t, "buyer")

	ask := f.mustSubmit(t, limitOrder(seller, "ask", "99.00", 6))
	require.Equal(t, enginev1.StatusResting, ask.Status)

	outcome := f.mustSubmit(t, limitOrder(buyer, "bid", "100.00", 10))

	assert.Equal(t, enginev1.StatusResting, outcome.Status)
	assert.Equal(t, int64(6), outcome.Filled)
	assert.Equal(t, int64(4), outcome.Remaining)
	assert.Equal(t, "6 filled. 4 placed in orderbook.", outcome.Message())
	require.Len(t, outcome.Trades, 1)
	assert.Equal(t, orderbookv1.Trade{
		ID:             "trade-1",
		MakerOrderID:   ask.OrderID,
		TakerOrderID:   outcome.OrderID,
		MakerAccountID: seller,
		TakerAccountID: buyer,
		TakerSide:      orderbookv1.SideBid,
		Quantity:       6,
		Price:          money.MustParse("99.00"),
		Timestamp:      testNow,
	}, outcome.Trades[0])

	assert.Equal(t, orderbookv1.Depth{
		Asks: []orderbookv1.PriceLevel{},
		Bids: []orderbookv1.PriceLevel{level("100.00", 4)},
	}, f.engine.Snapshot())

	s := f.account(t, seller)
	assert.Equal(t, money.MustParse("10594.00"), s.Cash)
	assert.Equal(t, int64(94), s.Inventory)
	b := f.account(t, buyer)
	assert.Equal(t, money.MustParse("9406.00"), b.Cash)
	assert.Equal(t, int64(106), b.Inventory)

	require.Len(t, f.ledger.Transactions(seller), 1)
	assert.Equal(t, ledgerv1.TransactionSell, f.ledger.Transactions(seller)[0].Type)
	require.Len(t, f.ledger.Transactions(buyer), 1)
	assert.Equal(t, ledgerv1.TransactionBuy, f.ledger.Transactions(buyer)[0].Type)

	assert.Equal(t, int64(1), f.engine.TotalTrades())
	version, depth := f.engine.DepthSnapshot()
	assert.Equal(t, uint64(2), version)
	assert.Equal(t, f.engine.Snapshot(), depth)
}

func TestEngine_Submit_PriceTimePriority(t *testing.T) {
	t.Run("earlier order at the same price fills first", func(t *testing.T) {
		f := setupTestFixture(t)
		f.allowPublishing()
		first := f.openAccount(t, "first")
		second := f.openAccount(t, "second")
		buyer := f.openAccount(t, "buyer")

		a1 := f.mustSubmit(t, limitOrder(first, "ask", "10.00", 2))
		a2 := f.mustSubmit(t, limitOrder(second, "ask", "10.00", 2))

		outcome := f.mustSubmit(t, limitOrder(buyer, "bid", "10.00", 3))

		assert.Equal(t, enginev1.StatusFullyFilled, outcome.Status)
		assert.Equal(t, "All quantity of 3 is filled.", outcome.Message())
		require.Len(t, outcome.Trades, 2)
		assert.Equal(t, a1.OrderID, outcome.Trades[0].MakerOrderID)
		assert.Equal(t, int64(2), outcome.Trades[0].Quantity)
		assert.Equal(t, a2.OrderID, outcome.Trades[1].MakerOrderID)
		assert.Equal(t, int64(1), outcome.Trades[1].Quantity)

		mine := f.engine.OrdersOf(second)
		require.Len(t, mine.Asks, 1)
		assert.Equal(t, int64(1), mine.Asks[0].Quantity)
		assert.Empty(t, f.engine.OrdersOf(first).Asks)
	})

	t.Run("better price fills first at the maker's price", func(t *testing.T) {
		f := setupTestFixture(t)
		f.allowPublishing()
		seller := f.openAccount(t, "seller")
		buyer := f.openAccount(t, "buyer")

		f.mustSubmit(t, limitOrder(seller, "ask", "11.00", 1))
		f.mustSubmit(t, limitOrder(seller, "ask", "10.00", 1))

		outcome := f.mustSubmit(t, limitOrder(buyer, "bid", "11.00", 1))

		require.Len(t, outcome.Trades, 1)
		assert.Equal(t, money.MustParse("10.00"), outcome.Trades[0].Price)
		assert.Equal(t, money.MustParse("9990.00"), f.account(t, buyer).Cash)
		assert.Equal(t, []orderbookv1.PriceLevel{level("11.00", 1)}, f.engine.Snapshot().Asks)
	})

	t.Run("ask taker fills the highest bid", func(t *testing.T) {
		f := setupTestFixture(t)
		f.allowPublishing()
		seller := f.openAccount(t, "seller")
		buyer := f.openAccount(t, "buyer")

		f.mustSubmit(t, limitOrder(buyer, "bid", "9.00", 1))
		f.mustSubmit(t, limitOrder(buyer, "bid", "9.50", 1))

		outcome := f.mustSubmit(t, limitOrder(seller, "ask", "8.00", 1))

		require.Len(t, outcome.Trades, 1)
		assert.Equal(t, money.MustParse("9.50"), outcome.Trades[0].Price)
		assert.Equal(t, buyer, outcome.Trades[0].BuyerAccountID())
		assert.Equal(t, seller, outcome.Trades[0].SellerAccountID())
	})
}

func TestEngine_Submit_NoSelfTrade(t *testing.T) {
	f := setupTestFixture(t)
	f.allowPublishing()
	alice := f.openAccount(t, "alice")
	bob := f.openAccount(t, "bob")

	own := f.mustSubmit(t, limitOrder(alice, "ask", "10.00", 5))
	f.mustSubmit(t, limitOrder(bob, "ask", "11.00", 5))

	outcome := f.mustSubmit(t, limitOrder(alice, "bid", "11.00", 3))

	require.Len(t, outcome.Trades, 1)
	assert.Equal(t, bob, outcome.Trades[0].MakerAccountID)
	assert.Equal(t, money.MustParse("11.00"), outcome.Trades[0].Price)
	assert.Equal(t, enginev1.StatusFullyFilled, outcome.Status)

	resting, ok := f.orderbook.Order(own.OrderID)
	require.True(t, ok)
	assert.Equal(t, int64(5), resting.Quantity)
	assert.Equal(t, []orderbookv1.PriceLevel{level("10.00", 5), level("11.00", 2)}, f.engine.Snapshot().Asks)

	t.Run("rests when only own orders cross", func(t *testing.T) {
		outcome := f.mustSubmit(t, limitOrder(alice, "bid", "10.00", 1))

		assert.Empty(t, outcome.Trades)
		assert.Equal(t, enginev1.StatusResting, outcome.Status)
		assert.Equal(t, "0 filled. 1 placed in orderbook.", outcome.Message())
	})
}

func TestEngine_Submit_MarketOrders(t *testing.T) {
	t.Run("market ask drops the unfilled remainder", func(t *testing.T) {
		f := setupTestFixture(t)
		f.allowPublishing()
		b1 := f.openAccount(t, "b1")
		b2 := f.openAccount(t, "b2")
		seller := f.openAccount(t, "seller")

		f.mustSubmit(t, limitOrder(b1, "bid", "10.00", 1))
		f.mustSubmit(t, limitOrder(b2, "bid", "9.00", 3))

		outcome := f.mustSubmit(t, marketOrder(seller, "ask", 10))

		assert.Equal(t, enginev1.StatusPartiallyFilled, outcome.Status)
		assert.Equal(t, int64(4), outcome.Filled)
		assert.Equal(t, "Market order partially filled. 4 filled.", outcome.Message())
		assert.Equal(t, orderbookv1.NewDepth(), f.engine.Snapshot())
		assert.Equal(t, 0, f.orderbook.Len())
		assert.Equal(t, int64(96), f.account(t, seller).Inventory)
		assert.Equal(t, money.MustParse("10037.00"), f.account(t, seller).Cash)
	})

	t.Run("market bid fills across levels", func(t *testing.T) {
		f := setupTestFixture(t)
		f.allowPublishing()
		seller := f.openAccount(t, "seller")
		buyer := f.openAccount(t, "buyer")

		f.mustSubmit(t, limitOrder(seller, "ask", "10.00", 2))
		f.mustSubmit(t, limitOrder(seller, "ask", "12.00", 2))

		outcome := f.mustSubmit(t, marketOrder(buyer, "bid", 3))

		assert.Equal(t, enginev1.StatusFullyFilled, outcome.Status)
		require.Len(t, outcome.Trades, 2)
		assert.Equal(t, money.MustParse("10.00"), outcome.Trades[0].Price)
		assert.Equal(t, money.MustParse("12.00"), outcome.Trades[1].Price)
		assert.Equal(t, money.MustParse("9968.00"), f.account(t, buyer).Cash)
	})

	t.Run("market bid stops when cash runs out", func(t *testing.T) {
		f := setupTestFixture(t)
		f.allowPublishing()
		s1 := f.openAccount(t, "s1")
		s2 := f.openAccount(t, "s2")
		buyer := f.openAccount(t, "buyer")

		f.mustSubmit(t, limitOrder(s1, "ask", "1000.00", 5))
		f.mustSubmit(t, limitOrder(s2, "ask", "2000.00", 5))

		outcome := f.mustSubmit(t, marketOrder(buyer, "bid", 9))

		assert.Equal(t, enginev1.StatusPartiallyFilled, outcome.Status)
		assert.Equal(t, int64(7), outcome.Filled)
		assert.Equal(t, money.MustParse("1000.00"), f.account(t, buyer).Cash)
		assert.Equal(t, []orderbookv1.PriceLevel{level("2000.00", 3)}, f.engine.Snapshot().Asks)
	})

	t.Run("market bid keeps cash reserved for resting bids", func(t *testing.T) {
		f := setupTestFixture(t)
		f.allowPublishing()
		seller := f.openAccount(t, "seller")
		buyer := f.openAccount(t, "buyer")

		f.mustSubmit(t, limitOrder(buyer, "bid", "1.00", 5000))
		f.mustSubmit(t, limitOrder(seller, "ask", "1000.00", 10))

		outcome := f.mustSubmit(t, marketOrder(buyer, "bid", 5))

		assert.Equal(t, int64(5), outcome.Filled)
		b := f.account(t, buyer)
		assert.Equal(t, money.MustParse("5000.00"), b.Cash)
		assert.Equal(t, money.MustParse("5000.00"), f.orderbook.Exposure(buyer).BidNotional)
	})
}

func TestEngine_Cancel(t *testing.T) {
	setup := func(t *testing.T) (*testFixture, string, string, string) {
		f := setupTestFixture(t)
		f.allowPublishing()
		alice := f.openAccount(t, "alice")
		bob := f.openAccount(t, "bob")
		outcome := f.mustSubmit(t, limitOrder(bob, "bid", "10.00", 2))
		return f, alice, bob, outcome.OrderID
	}

	testCases := []struct {
		name    string
		req     func(alice, bob, orderID string) enginev1.CancelOrderRequest
		wantErr error
	}{
		{
			name:    "not the owner",
			req:     func(alice, _, id string) enginev1.CancelOrderRequest { return enginev1.CancelOrderRequest{OrderID: id, AccountID: alice} },
			wantErr: enginev1.ErrOrderNotFound,
		},
		{
			name:    "wrong side",
			req:     func(_, bob, id string) enginev1.CancelOrderRequest { return enginev1.CancelOrderRequest{OrderID: id, AccountID: bob, Side: "ask"} },
			wantErr: enginev1.ErrOrderNotFound,
		},
		{
			name:    "unknown order",
			req:     func(_, bob, _ string) enginev1.CancelOrderRequest { return enginev1.CancelOrderRequest{OrderID: "nope", AccountID: bob} },
			wantErr: enginev1.ErrOrderNotFound,
		},
		{
			name:    "invalid side",
			req:     func(_, bob, id string) enginev1.CancelOrderRequest { return enginev1.CancelOrderRequest{OrderID: id, AccountID: bob, Side: "up"} },
			wantErr: enginev1.ErrInvalidSide,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, alice, bob, orderID := setup(t)
			before := f.engine.Snapshot()

			err := f.engine.Cancel(context.Background(), tc.req(alice, bob, orderID))

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, before, f.engine.Snapshot())
			_, ok := f.orderbook.Order(orderID)
			assert.True(t, ok)
		})
	}

	t.Run("owner cancels", func(t *testing.T) {
		f, _, bob, orderID := setup(t)

		require.NoError(t, f.engine.Cancel(context.Background(), enginev1.CancelOrderRequest{OrderID: orderID, AccountID: bob, Side: "bid"}))

		assert.Equal(t, orderbookv1.NewDepth(), f.engine.Snapshot())
		assert.Equal(t, orderbookv1.Exposure{}, f.orderbook.Exposure(bob))
		assert.ErrorIs(t, f.engine.Cancel(context.Background(), enginev1.CancelOrderRequest{OrderID: orderID, AccountID: bob}), enginev1.ErrOrderNotFound)
	})
}

func TestEngine_SnapshotIsIdempotent(t *testing.T) {
	f := setupTestFixture(t)
	f.allowPublishing()
	seller := f.openAccount(t, "seller")
	buyer := f.openAccount(t, "buyer")
	f.mustSubmit(t, limitOrder(seller, "ask", "10.00", 3))
	f.mustSubmit(t, limitOrder(seller, "ask", "10.00", 1))
	f.mustSubmit(t, limitOrder(buyer, "bid", "9.00", 2))

	first := f.engine.Snapshot()
	second := f.engine.Snapshot()

	assert.Equal(t, first, second)
	assert.Equal(t, orderbookv1.Depth{
		Asks: []orderbookv1.PriceLevel{level("10.00", 4)},
		Bids: []orderbookv1.PriceLevel{level("9.00", 2)},
	}, first)
}

func TestEngine_Notifications(t *testing.T) {
	f := setupTestFixture(t)
	seller := f.openAccount(t, "seller")
	buyer := f.openAccount(t, "buyer")

	restingDepth := orderbookv1.Depth{Asks: []orderbookv1.PriceLevel{level("10.00", 2)}, Bids: []orderbookv1.PriceLevel{}}
	matchedDepth := orderbookv1.Depth{Asks: []orderbookv1.PriceLevel{level("10.00", 1)}, Bids: []orderbookv1.PriceLevel{}}

	gomock.InOrder(
		f.mockPublisher.EXPECT().OnBookChanged(gomock.Any(), uint64(1), restingDepth).Return(true),
		f.mockPublisher.EXPECT().OnBookChanged(gomock.Any(), uint64(2), matchedDepth).DoAndReturn(
			func(_ context.Context, _ uint64, depth orderbookv1.Depth) bool {
				// the engine lock is released before notifying
				assert.Equal(t, depth, f.engine.Snapshot())
				return true
			}),
	)
	f.mockTradePublisher.EXPECT().PublishTrades(gomock.Any(), uint64(2), gomock.Len(1)).Return(fmt.Errorf("broker unavailable"))

	f.mustSubmit(t, limitOrder(seller, "ask", "10.00", 2))
	outcome := f.mustSubmit(t, limitOrder(buyer, "bid", "10.00", 1))

	assert.Equal(t, enginev1.StatusFullyFilled, outcome.Status)
}

func TestEngine_HaltsOnConsistencyFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLedger := ledgerv1_mock.NewMockLedger(ctrl)
	mockPublisher := marketdatav1_mock.NewMockPublisher(ctrl)
	ob := orderbook.NewOrderbook()
	e := NewEngineWithOptions(ob, mockLedger, mockPublisher, nil, nil, logger.NewNop(), testOptions())

	mockLedger.EXPECT().Account(gomock.Any()).DoAndReturn(func(id string) (ledgerv1.Account, bool) {
		return ledgerv1.Account{ID: id, Cash: testSeed.Cash, Inventory: testSeed.Inventory}, true
	}).AnyTimes()
	mockPublisher.EXPECT().OnBookChanged(gomock.Any(), uint64(1), gomock.Any()).Return(true)
	mockLedger.EXPECT().Settle(gomock.Any(), gomock.Any()).Return(fmt.Errorf("%w: disk full", ledgerv1.ErrInternalConsistency))

	_, err := e.Submit(context.Background(), limitOrder("seller", "ask", "10.00", 1))
	require.NoError(t, err)
	restingID := ob.OrdersOf("seller").Asks[0].OrderID

	outcome, err := e.Submit(context.Background(), limitOrder("buyer", "bid", "10.00", 1))

	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, enginev1.ErrEngineHalted)
	assert.ErrorIs(t, err, ledgerv1.ErrInternalConsistency)
	assert.ErrorIs(t, e.Halted(), ledgerv1.ErrInternalConsistency)
	assert.Equal(t, 1, ob.Len(), "the maker is untouched")
	version, _ := e.DepthSnapshot()
	assert.Equal(t, uint64(1), version)

	_, err = e.Submit(context.Background(), limitOrder("buyer", "bid", "1.00", 1))
	assert.ErrorIs(t, err, enginev1.ErrEngineHalted)
	assert.ErrorIs(t, e.Cancel(context.Background(), enginev1.CancelOrderRequest{OrderID: restingID, AccountID: "seller"}), enginev1.ErrEngineHalted)
	assert.Equal(t, 1, ob.Len())
}

func TestEngine_MidPriceAndSampling(t *testing.T) {
	f := setupTestFixture(t)
	f.allowPublishing()
	seller := f.openAccount(t, "seller")
	buyer := f.openAccount(t, "buyer")

	_, ok := f.engine.MidPrice()
	assert.False(t, ok)

	f.mockPublisher.EXPECT().OnIntervalTick(gomock.Any(), testNow, decimal.Zero, false)
	f.engine.sampleCandle(context.Background(), testNow)

	f.mustSubmit(t, limitOrder(buyer, "bid", "10.00", 1))
	f.mustSubmit(t, limitOrder(seller, "ask", "10.01", 1))

	mid, ok := f.engine.MidPrice()
	require.True(t, ok)
	assert.Equal(t, "10.005", mid.String())

	later := testNow.Add(time.Second)
	f.mockPublisher.EXPECT().OnIntervalTick(gomock.Any(), later, gomock.Any(), true).Do(
		func(_ context.Context, _ time.Time, got decimal.Decimal, _ bool) {
			assert.True(t, got.Equal(mid))
		})
	f.engine.sampleCandle(context.Background(), later)
}
