package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/thetanav/trading-system/pkg/money"
)

// Options represents configuration options for the Engine.
type Options struct {
	// SampleInterval is how often the mid price is fed to the candle publisher.
	SampleInterval time.Duration
	// ReadBackoff is the pause after a failed read from the order stream.
	ReadBackoff time.Duration
	MaxPrice    money.Cents
	MaxQuantity int64

	NewOrderID func() string
	NewTradeID func() string
	Now        func() time.Time
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		SampleInterval: time.Second,
		ReadBackoff:    100 * time.Millisecond,
		MaxPrice:       money.FromUnits(1_000_000),
		MaxQuantity:    1_000_000,
		NewOrderID:     uuid.NewString,
		NewTradeID: func() string {
			return ulid.Make().String()
		},
		Now: time.Now,
	}
}

func (o *Options) withDefaults() *Options {
	def := DefaultEngineOptions()
	if o == nil {
		return def
	}
	out := *o
	if out.SampleInterval <= 0 {
		out.SampleInterval = def.SampleInterval
	}
	if out.ReadBackoff <= 0 {
		out.ReadBackoff = def.ReadBackoff
	}
	if out.MaxPrice <= 0 {
		out.MaxPrice = def.MaxPrice
	}
	if out.MaxQuantity <= 0 {
		out.MaxQuantity = def.MaxQuantity
	}
	if out.NewOrderID == nil {
		out.NewOrderID = def.NewOrderID
	}
	if out.NewTradeID == nil {
		out.NewTradeID = def.NewTradeID
	}
	if out.Now == nil {
		out.Now = def.Now
	}
	return &out
}
