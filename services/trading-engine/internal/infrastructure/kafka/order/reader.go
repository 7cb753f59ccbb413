package order

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"github.com/thetanav/trading-system/pkg/errors"
	"github.com/thetanav/trading-system/pkg/logger"
	orderreaderv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/order-reader/v1"
	"github.com/thetanav/trading-system/services/trading-engine/pkg/config"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Reader consumes order commands from the order intake topic.
type Reader struct {
	kafkaReader messageReader
	logger      logger.Interface
}

var _ orderreaderv1.OrderReader = (*Reader)(nil)

// NewReader creates a new consumer-group reader on the order topic.
func NewReader(config config.KafkaConfig, log logger.Interface) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.OrderTopic,
		GroupID:     config.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return newReader(kafkaReader, log)
}

func newReader(reader messageReader, log logger.Interface) *Reader {
	return &Reader{
		kafkaReader: reader,
		logger:      log,
	}
}

func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "error", Value: err.Error()},
		logger.Field{Key: "operation", Value: operation},
	)
}

// ReadMessage blocks for the next decodable command. Messages that cannot be
// decoded are committed and skipped so they are not redelivered.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *orderreaderv1.OrderCommand, error) {
	for {
		msg, err := r.kafkaReader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				r.logError(err, "FetchMessage")
			}
			return kafka.Message{}, nil, err
		}

		var cmd orderreaderv1.OrderCommand
		if err := json.Unmarshal(msg.Value, &cmd); err != nil {
			r.logger.WarnContext(ctx, "Skipping malformed order command",
				logger.Field{Key: "offset", Value: msg.Offset},
				logger.Field{Key: "partition", Value: msg.Partition},
				logger.Field{Key: "error", Value: err.Error()},
			)
			if err := r.CommitMessages(ctx, msg); err != nil {
				return kafka.Message{}, nil, err
			}
			continue
		}

		r.logger.DebugContext(ctx, "ReadMessage",
			logger.Field{Key: "accountId", Value: cmd.AccountID},
			logger.Field{Key: "type", Value: cmd.Type},
			logger.Field{Key: "side", Value: cmd.Side},
			logger.Field{Key: "offset", Value: msg.Offset},
		)

		cmd.Offset = msg.Offset
		return msg, &cmd, nil
	}
}

// CommitMessages commits the messages to Kafka after processing.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if err := r.kafkaReader.CommitMessages(ctx, msgs...); err != nil {
		r.logError(err, "CommitMessages")
		return errors.NewTracer("failed to commit order commands").Wrap(err)
	}
	return nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}
