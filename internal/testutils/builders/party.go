package builders

import (
	"github.com/KirkDiggler/rpg-narrative/internal/entities"
)

// PartyBuilder provides a fluent interface for building test parties
type PartyBuilder struct {
	party entities.Party
}

// NewPartyBuilder creates an active party led by leaderID at scenarioID
func NewPartyBuilder(id, leaderID, scenarioID string) *PartyBuilder {
	return &PartyBuilder{
		party: entities.Party{
			ID:                  id,
			Name:                "Party " + id,
			LeaderID:            leaderID,
			MemberIDs:           []string{leaderID},
			SharedScenarioID:    scenarioID,
			CurrentTurnPlayerID: leaderID,
			Status:              entities.PartyStatusActive,
		},
	}
}

// WithMembers appends members after the leader
func (b *PartyBuilder) WithMembers(ids ...string) *PartyBuilder {
	for _, id := range ids {
		b.party.AddMember(id)
	}
	return b
}

// WithTurn sets the player whose turn it is
func (b *PartyBuilder) WithTurn(playerID string) *PartyBuilder {
	b.party.CurrentTurnPlayerID = playerID
	return b
}

// Ended marks the party ended
func (b *PartyBuilder) Ended() *PartyBuilder {
	b.party.Status = entities.PartyStatusEnded
	return b
}

// Build returns a pointer to a copy of the built party
func (b *PartyBuilder) Build() *entities.Party {
	p := b.party.Clone()
	return &p
}
