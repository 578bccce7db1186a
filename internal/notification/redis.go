package notification

import (
	"context"
	"encoding/json"
	"fmt"

	platformredis "hireflow/internal/platform/redis"
)

// channelPrefix namespaces per-tenant channels so subscribed frontends only
// see their own tenant's notices.
const channelPrefix = "hireflow:notices:"

// Redis publishes notices on a per-tenant pub/sub channel. Connected clients
// (websocket gateways, in-app notification feeds) subscribe to their
// tenant's channel.
type Redis struct {
	client *platformredis.Client
}

func NewRedis(client *platformredis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Notify(ctx context.Context, notice Notice) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}
	channel := channelPrefix + notice.TenantID.String()
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}
	return nil
}

// Channel returns the pub/sub channel name for a tenant; exported for
// subscribers and integration tests.
func Channel(tenantID string) string {
	return channelPrefix + tenantID
}
