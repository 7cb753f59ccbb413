package order

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/thetanav/trading-system/pkg/errors"
	"github.com/thetanav/trading-system/pkg/logger"
	orderreaderv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/order-reader/v1"
	"github.com/thetanav/trading-system/services/trading-engine/pkg/config"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Writer produces order commands onto the order intake topic.
type Writer struct {
	kafkaWriter messageWriter
	logger      logger.Interface
}

var _ orderreaderv1.OrderWriter = (*Writer)(nil)

// NewWriter creates a new producer for the order topic.
func NewWriter(config config.KafkaConfig, log logger.Interface) *Writer {
	kafkaWriter := &kafka.Writer{
		Addr:                   kafka.TCP(config.Brokers...),
		Topic:                  config.OrderTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	return newWriter(kafkaWriter, log)
}

func newWriter(writer messageWriter, log logger.Interface) *Writer {
	return &Writer{
		kafkaWriter: writer,
		logger:      log,
	}
}

// WriteCommands writes the commands keyed by account id, so that one
// account's commands keep their relative order.
func (w *Writer) WriteCommands(ctx context.Context, commands ...orderreaderv1.OrderCommand) error {
	msgs := make([]kafka.Message, 0, len(commands))
	for _, cmd := range commands {
		value, err := cmd.ToBytes()
		if err != nil {
			return errors.NewTracer("order_marshal_error").Wrap(err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(cmd.AccountID),
			Value: value,
		})
	}
	if len(msgs) == 0 {
		return nil
	}

	if err := w.kafkaWriter.WriteMessages(ctx, msgs...); err != nil {
		w.logger.ErrorContext(ctx, err, logger.Field{Key: "commands", Value: len(msgs)})
		return errors.NewTracer("failed to write order commands").Wrap(err)
	}
	return nil
}

// Close flushes and closes the writer.
func (w *Writer) Close() error {
	return w.kafkaWriter.Close()
}
