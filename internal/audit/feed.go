package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avast/retry-go"
	"github.com/redis/go-redis/v9"

	"gymdesk/internal/logger"
)

const feedKey = "audit_feed"

// Feed pushes ledger entries onto a Redis list for external consumers
// (alerting, notification dispatch). Delivery is best-effort.
type Feed struct {
	redis *redis.Client
}

func NewFeed(client *redis.Client) *Feed {
	return &Feed{redis: client}
}

func (f *Feed) Publish(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return retry.Do(
		func() error {
			return f.redis.LPush(ctx, feedKey, data).Err()
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(100*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			logger.Debugf("audit feed push retry %d: %v", n+1, err)
		}),
	)
}
