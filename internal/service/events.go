package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/witthaya/shopapi/pkg/logging"
)

const (
	TopicUserEvents    = "user_events"
	TopicProductEvents = "product_events"
	TopicOrderEvents   = "order_events"
)

// EventPublisher is satisfied by mykafka.Producer. A nil publisher
// disables eventing without branching at every call site.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// publish sends a domain event after the triggering mutation committed.
// Delivery problems are logged, never surfaced: events must not fail the
// request that produced them.
func publish(ctx context.Context, p EventPublisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}

	event["event_id"] = uuid.NewString()

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "error", err)
	}
}

func entityKey(id uint) string { return fmt.Sprint(id) }
