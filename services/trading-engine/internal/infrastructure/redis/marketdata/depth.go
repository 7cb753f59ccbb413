package marketdata

import (
	"context"
	"encoding/json"

	"github.com/thetanav/trading-system/pkg/errors"
	"github.com/thetanav/trading-system/pkg/logger"
	"github.com/thetanav/trading-system/pkg/redis"
	marketdatav1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/marketdata/v1"
	orderbookv1 "github.com/thetanav/trading-system/services/trading-engine/internal/domain/orderbook/v1"
)

// DepthKeys names the Redis keys and channel the depth is mirrored to.
type DepthKeys struct {
	Asks    string
	Bids    string
	Version string
	Channel string
}

// NewDepthKeys builds the default key names, passing each through key (usually redis.Config.Key).
func NewDepthKeys(key func(string) string) DepthKeys {
	if key == nil {
		key = func(k string) string { return k }
	}
	return DepthKeys{
		Asks:    key("orderbook:asks"),
		Bids:    key("orderbook:bids"),
		Version: key("orderbook:version"),
		Channel: key("orderbook"),
	}
}

// DepthMessage is the payload published on the depth channel.
type DepthMessage struct {
	Version uint64            `json:"version"`
	Depth   orderbookv1.Depth `json:"depth"`
}

// DepthCache mirrors every published depth into Redis.
type DepthCache struct {
	client redis.Client
	keys   DepthKeys
	logger logger.Interface
}

var _ marketdatav1.DepthSink = (*DepthCache)(nil)

// NewDepthCache creates a new DepthCache.
func NewDepthCache(client redis.Client, keys DepthKeys, logger logger.Interface) *DepthCache {
	return &DepthCache{
		client: client,
		keys:   keys,
		logger: logger,
	}
}

// Reset drops the mirrored depth. The book starts empty on every boot, so
// anything left over from a previous run is stale.
func (c *DepthCache) Reset(ctx context.Context) error {
	if _, err := c.client.Del(ctx, c.keys.Asks, c.keys.Bids, c.keys.Version); err != nil {
		return errors.NewTracer("depth_reset_error").Wrap(err)
	}
	return nil
}

// PushDepth replaces both level lists, stores the version and publishes the depth.
func (c *DepthCache) PushDepth(ctx context.Context, version uint64, depth orderbookv1.Depth) error {
	asks, err := encodeLevels(depth.Asks)
	if err != nil {
		return errors.NewTracer("depth_marshal_error").Wrap(err)
	}
	bids, err := encodeLevels(depth.Bids)
	if err != nil {
		return errors.NewTracer("depth_marshal_error").Wrap(err)
	}

	if err := c.client.ReplaceList(ctx, c.keys.Asks, asks...); err != nil {
		return errors.NewTracerf("replace %s", c.keys.Asks).Wrap(err)
	}
	if err := c.client.ReplaceList(ctx, c.keys.Bids, bids...); err != nil {
		return errors.NewTracerf("replace %s", c.keys.Bids).Wrap(err)
	}
	if err := c.client.Set(ctx, c.keys.Version, version, 0); err != nil {
		return errors.NewTracerf("set %s", c.keys.Version).Wrap(err)
	}

	buf, err := json.Marshal(DepthMessage{Version: version, Depth: depth})
	if err != nil {
		return errors.NewTracer("depth_marshal_error").Wrap(err)
	}
	if _, err := c.client.Publish(ctx, c.keys.Channel, buf); err != nil {
		return errors.NewTracerf("publish %s", c.keys.Channel).Wrap(err)
	}

	c.logger.DebugContext(ctx, "Depth mirrored to Redis", logger.NewField("version", version))
	return nil
}

func encodeLevels(levels []orderbookv1.PriceLevel) ([]any, error) {
	values := make([]any, 0, len(levels))
	for _, level := range levels {
		buf, err := json.Marshal(level)
		if err != nil {
			return nil, err
		}
		values = append(values, string(buf))
	}
	return values, nil
}
