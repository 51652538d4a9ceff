package events

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"
)

// LogSubscriber logs every narrative event at INFO. It returns the
// subscription IDs so callers can unsubscribe.
func LogSubscriber(bus rpgevents.EventBus, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}

	ids := make([]string, 0, len(AllTypes()))
	for _, eventType := range AllTypes() {
		ids = append(ids, bus.SubscribeFunc(eventType, 0, func(ctx context.Context, e rpgevents.Event) error {
			attrs := []any{"event_type", e.Type()}
			if src := e.Source(); src != nil {
				attrs = append(attrs, "source_type", src.GetType(), "source_id", src.GetID())
			}
			for _, key := range []string{KeyScenarioID, KeyPartyID, KeyEffect, KeyToPlayer} {
				if v, ok := e.Context().Get(key); ok {
					attrs = append(attrs, key, v)
				}
			}
			logger.InfoContext(ctx, "Narrative event", attrs...)
			return nil
		}))
	}
	return ids
}

func entityOf(v any) core.Entity {
	if e, ok := v.(core.Entity); ok {
		return e
	}
	return nil
}
