package trade

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/thetanav/trading-system/pkg/errors"
	"github.com/thetanav/trading-system/pkg/logger"
	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
	tradepublisherv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/trade-publisher/v1"
	"github.com/thetanav/trading-system/services/trading-engine/pkg/config"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes executed trades to the trade topic.
type Publisher struct {
	kafkaWriter messageWriter
	logger      logger.Interface
}

var _ tradepublisherv1.TradePublisher = (*Publisher)(nil)

// NewPublisher creates a new Kafka publisher for trade events.
func NewPublisher(config config.KafkaConfig, logger logger.Interface) *Publisher {
	kafkaWriter := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.TradeTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}

	return newPublisher(kafkaWriter, logger)
}

func newPublisher(writer messageWriter, logger logger.Interface) *Publisher {
	return &Publisher{
		kafkaWriter: writer,
		logger:      logger,
	}
}

// PublishTrades writes one message per trade, keyed by maker order id.
func (p *Publisher) PublishTrades(ctx context.Context, version uint64, trades []orderbookv1.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(trades))
	for _, trade := range trades {
		value, err := tradepublisherv1.NewTradeEvent(trade, version).ToBytes()
		if err != nil {
			return errors.NewTracer("trade_marshal_error").Wrap(err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(trade.MakerOrderID),
			Value: value,
		})
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msgs...); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "bookVersion", Value: version},
			logger.Field{Key: "trades", Value: len(trades)},
		)
		return errors.NewTracer("failed to publish trades").Wrap(err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	if err := p.kafkaWriter.Close(); err != nil {
		p.logger.Error(err, logger.Field{Key: "operation", Value: "Close"})
		return err
	}
	return nil
}
