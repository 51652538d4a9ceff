// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/rpg-narrative/internal/entities"
)

// CharacterBuilder provides a fluent interface for building test characters
type CharacterBuilder struct {
	character entities.Character
}

// NewCharacterBuilder creates a builder with the defaults of a fresh character
func NewCharacterBuilder(playerID string) *CharacterBuilder {
	return &CharacterBuilder{
		character: entities.NewCharacter(playerID, "Hero "+playerID, "start"),
	}
}

// WithName sets the display name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.character.DisplayName = name
	return b
}

// WithHealth sets current health
func (b *CharacterBuilder) WithHealth(health int) *CharacterBuilder {
	b.character.Health = health
	return b
}

// Dead sets health to zero
func (b *CharacterBuilder) Dead() *CharacterBuilder {
	return b.WithHealth(0)
}

// WithStat sets a single stat
func (b *CharacterBuilder) WithStat(name string, value int) *CharacterBuilder {
	b.character.Stats[name] = value
	return b
}

// WithItems replaces the inventory
func (b *CharacterBuilder) WithItems(items ...string) *CharacterBuilder {
	b.character.Inventory = append([]string{}, items...)
	return b
}

// AtScenario sets the current scenario
func (b *CharacterBuilder) AtScenario(id string) *CharacterBuilder {
	b.character.CurrentScenarioID = id
	return b
}

// InParty binds the character to a party
func (b *CharacterBuilder) InParty(partyID string) *CharacterBuilder {
	b.character.PartyID = partyID
	return b
}

// WithVersion sets the stored version
func (b *CharacterBuilder) WithVersion(v int64) *CharacterBuilder {
	b.character.Version = v
	return b
}

// Build returns a pointer to a copy of the built character
func (b *CharacterBuilder) Build() *entities.Character {
	c := b.character.Clone()
	return &c
}
