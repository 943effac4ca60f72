package stream

import "context"

// StreamConsumer serves run requests read from a message stream.
type StreamConsumer interface {
	Setup(ctx context.Context) error
	Start(ctx context.Context) error
	Stop() error
}
