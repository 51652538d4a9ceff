// Package events publishes narrative domain events on an rpg-toolkit bus.
//
// Events are observational. A failed publish is logged and never changes
// the outcome of the operation that raised it.
package events

import (
	"context"
	"log/slog"

	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
)

// Event types
const (
	EventEffectResolved    = "narrative.effect.resolved"
	EventCharacterDied     = "narrative.character.died"
	EventPartyTurnAdvanced = "narrative.party.turn_advanced"
	EventPartyEnded        = "narrative.party.ended"
)

// Event context keys
const (
	KeyEffect      = "effect"
	KeyScenarioID  = "scenario_id"
	KeyCheckFailed = "check_failed"
	KeyHealth      = "health"
	KeyPartyID     = "party_id"
	KeyFromPlayer  = "from_player_id"
	KeyToPlayer    = "to_player_id"
)

// AllTypes lists every event type the publisher raises
func AllTypes() []string {
	return []string{
		EventEffectResolved,
		EventCharacterDied,
		EventPartyTurnAdvanced,
		EventPartyEnded,
	}
}

// Publisher raises narrative events. A nil *Publisher drops everything.
type Publisher struct {
	bus rpgevents.EventBus
}

// NewPublisher creates a Publisher on bus
func NewPublisher(bus rpgevents.EventBus) *Publisher {
	return &Publisher{bus: bus}
}

// Bus returns the underlying bus
func (p *Publisher) Bus() rpgevents.EventBus {
	if p == nil {
		return nil
	}
	return p.bus
}

// EffectResolved announces that an effect was applied to a character
func (p *Publisher) EffectResolved(ctx context.Context, c *entities.Character, effect entities.Effect, failed bool, scenarioID string) {
	p.publish(ctx, EventEffectResolved, c, nil, map[string]any{
		KeyEffect:      effect.String(),
		KeyScenarioID:  scenarioID,
		KeyCheckFailed: failed,
		KeyHealth:      c.Health,
	})
}

// CharacterDied announces that a character's health reached zero
func (p *Publisher) CharacterDied(ctx context.Context, c *entities.Character, scenarioID string) {
	p.publish(ctx, EventCharacterDied, c, nil, map[string]any{
		KeyScenarioID: scenarioID,
		KeyPartyID:    c.PartyID,
	})
}

// TurnAdvanced announces that a party's turn moved between members
func (p *Publisher) TurnAdvanced(ctx context.Context, party *entities.Party, from string) {
	p.publish(ctx, EventPartyTurnAdvanced, party, nil, map[string]any{
		KeyPartyID:    party.ID,
		KeyScenarioID: party.SharedScenarioID,
		KeyFromPlayer: from,
		KeyToPlayer:   party.CurrentTurnPlayerID,
	})
}

// PartyEnded announces that a party was ended
func (p *Publisher) PartyEnded(ctx context.Context, party *entities.Party) {
	p.publish(ctx, EventPartyEnded, party, nil, map[string]any{
		KeyPartyID:    party.ID,
		KeyScenarioID: party.SharedScenarioID,
	})
}

func (p *Publisher) publish(ctx context.Context, eventType string, source, target any, data map[string]any) {
	if p == nil || p.bus == nil {
		return
	}

	event := rpgevents.NewGameEvent(eventType, entityOf(source), entityOf(target))
	for k, v := range data {
		event.Context().Set(k, v)
	}

	if err := p.bus.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish event",
			"event_type", eventType,
			"error", err)
	}
}
