package orderreaderv1

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// OrderReader defines the interface for reading order commands from a stream.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderreaderv1_mock
type OrderReader interface {
	// ReadMessage blocks for the next message and decodes it.
	ReadMessage(ctx context.Context) (kafka.Message, *OrderCommand, error)
	// CommitMessages marks messages as processed.
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	// Close closes the reader
	Close() error
}

// OrderWriter publishes order commands onto the intake stream.
type OrderWriter interface {
	WriteCommands(ctx context.Context, commands ...OrderCommand) error
	Close() error
}
