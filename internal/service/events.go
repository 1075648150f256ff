package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/refurb_shop/pkg/logging"
)

// publish is best effort: a failed send is logged and the caller carries on.
func publish(ctx context.Context, p Publisher, topic, key string, ev Event) {
	if p == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := p.Publish(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_error", "topic", topic, "type", ev.Type, "error", err)
	}
}
