package main

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thetanav/trading-system/pkg/money"
	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
)

func TestGenerateCommands(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	base := decimal.RequireFromString("100.00")
	spread := decimal.RequireFromString("5.00")
	accounts := []string{"a1", "a2"}

	commands := generateCommands(rng, accounts, 200, base, spread)

	require.Len(t, commands, 200)
	for _, cmd := range commands {
		assert.Contains(t, accounts, cmd.AccountID)
		assert.Contains(t, []orderbookv1.OrderType{orderbookv1.OrderTypeLimit, orderbookv1.OrderTypeMarket}, cmd.Type)

		side, ok := orderbookv1.ParseSide(cmd.Side)
		require.True(t, ok)

		_, err := money.FromDecimal(cmd.Price)
		assert.NoError(t, err, "price %s has more than two decimals", cmd.Price)
		if side == orderbookv1.SideBid {
			assert.True(t, cmd.Price.LessThanOrEqual(base))
		} else {
			assert.True(t, cmd.Price.GreaterThanOrEqual(base))
		}

		assert.True(t, cmd.Quantity.IsInteger())
		assert.True(t, cmd.Quantity.IsPositive())
	}
}
