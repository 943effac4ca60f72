package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . StreamClient

// StreamClient is the subset of the Redis API the consumer and publisher use.
// *redis.Client satisfies it.
type StreamClient interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}
