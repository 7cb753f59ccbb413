package marketdata

import (
	"context"
	"encoding/json"

	"github.com/thetanav/trading-system/pkg/errors"
	"github.com/thetanav/trading-system/pkg/logger"
	"github.com/thetanav/trading-system/pkg/redis"
	marketdatav1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/marketdata/v1"
)

// CandleStore keeps closed candles in a capped Redis list, oldest first.
type CandleStore struct {
	client redis.Client
	key    string
	logger logger.Interface
}

var _ marketdatav1.CandleStore = (*CandleStore)(nil)

// NewCandleStore creates a new CandleStore writing to the list at key.
func NewCandleStore(client redis.Client, key string, logger logger.Interface) *CandleStore {
	return &CandleStore{
		client: client,
		key:    key,
		logger: logger,
	}
}

// AppendCandle pushes candle and trims the list to the last retention entries.
func (s *CandleStore) AppendCandle(ctx context.Context, candle marketdatav1.Candle, retention int) error {
	buf, err := json.Marshal(candle)
	if err != nil {
		return errors.NewTracer("candle_marshal_error").Wrap(err)
	}

	if _, err := s.client.RPush(ctx, s.key, string(buf)); err != nil {
		s.logger.ErrorContext(ctx, err, logger.NewField("key", s.key))
		return errors.NewTracerf("push %s", s.key).Wrap(err)
	}
	if retention > 0 {
		if err := s.client.LTrim(ctx, s.key, -int64(retention), -1); err != nil {
			s.logger.ErrorContext(ctx, err, logger.NewField("key", s.key))
			return errors.NewTracerf("trim %s", s.key).Wrap(err)
		}
	}
	return nil
}

// LoadCandles returns up to limit of the most recent candles, oldest first.
func (s *CandleStore) LoadCandles(ctx context.Context, limit int) ([]marketdatav1.Candle, error) {
	if limit <= 0 {
		return nil, nil
	}

	values, err := s.client.LRange(ctx, s.key, -int64(limit), -1)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.NewField("key", s.key))
		return nil, errors.NewTracerf("read %s", s.key).Wrap(err)
	}

	candles := make([]marketdatav1.Candle, 0, len(values))
	for _, value := range values {
		var candle marketdatav1.Candle
		if err := json.Unmarshal([]byte(value), &candle); err != nil {
			s.logger.WarnContext(ctx, "Skipping malformed candle", logger.NewField("key", s.key))
			continue
		}
		candles = append(candles, candle)
	}
	return candles, nil
}
