package service

import (
	"context"

	"github.com/Skotchmaster/colormania/internal/events"
	"github.com/Skotchmaster/colormania/internal/logging"
)

// publish is fire-and-forget: a broker outage never fails the request that
// produced the event.
func publish(ctx context.Context, p events.Publisher, topic, key, typ string, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, topic, key, events.New(typ, data)); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "type", typ, "error", err)
	}
}
