package entities

import (
	"fmt"
	"strings"
)

// Character defaults applied on first contact with a player identity.
const (
	DefaultHealth    = 100
	DefaultMaxHealth = 100
	DefaultLevel     = 1

	// EntityTypeCharacter is the core.Entity type of a Character
	EntityTypeCharacter = "character"
)

// DefaultStats returns the starting stats of a new character
func DefaultStats() map[string]int {
	return map[string]int{
		"stealth":  10,
		"strength": 10,
	}
}

// Character is the durable per-player state. The player identity is the ID.
type Character struct {
	ID                string         `json:"id"`
	DisplayName       string         `json:"display_name"`
	Health            int            `json:"health"`
	MaxHealth         int            `json:"max_health"`
	Level             int            `json:"level"`
	Stats             map[string]int `json:"stats"`
	Inventory         []string       `json:"inventory"`
	CurrentScenarioID string         `json:"current_scenario_id"`
	CampaignID        string         `json:"campaign_id,omitempty"`
	FactionTag        string         `json:"faction_tag,omitempty"`
	PartyID           string         `json:"party_id,omitempty"`
	PartyTurn         int64          `json:"party_turn,omitempty"`
	Version           int64          `json:"version"`
	CreatedAt         int64          `json:"created_at"`
	UpdatedAt         int64          `json:"updated_at"`
}

// NewCharacter builds a character with default vitals positioned at
// startScenarioID.
func NewCharacter(id, displayName, startScenarioID string) Character {
	return Character{
		ID:                id,
		DisplayName:       displayName,
		Health:            DefaultHealth,
		MaxHealth:         DefaultMaxHealth,
		Level:             DefaultLevel,
		Stats:             DefaultStats(),
		Inventory:         []string{},
		CurrentScenarioID: startScenarioID,
	}
}

// GetID implements core.Entity
func (c *Character) GetID() string {
	return c.ID
}

// GetType implements core.Entity
func (c *Character) GetType() string {
	return EntityTypeCharacter
}

// IsAlive reports whether the character still has health left
func (c Character) IsAlive() bool {
	return c.Health > 0
}

// Stat returns the named stat, zero when unset
func (c Character) Stat(name string) int {
	return c.Stats[name]
}

// Clone returns a copy that shares no maps or slices with c
func (c Character) Clone() Character {
	out := c
	out.Stats = make(map[string]int, len(c.Stats))
	for k, v := range c.Stats {
		out.Stats[k] = v
	}
	out.Inventory = append([]string{}, c.Inventory...)
	return out
}

// ApplyStats overlays stats onto the character, replacing existing values
func (c *Character) ApplyStats(stats map[string]int) {
	if c.Stats == nil {
		c.Stats = make(map[string]int, len(stats))
	}
	for k, v := range stats {
		c.Stats[k] = v
	}
}

// StatusLine renders the one-line status summary shown after every move.
func (c Character) StatusLine(catalog *Catalog) string {
	items := "none"
	if len(c.Inventory) > 0 {
		names := make([]string, 0, len(c.Inventory))
		for _, id := range c.Inventory {
			names = append(names, catalog.DisplayName(id))
		}
		items = strings.Join(names, ", ")
	}

	return fmt.Sprintf("Hero: %s | HP: %d/%d | Level: %d | Items: %s",
		c.DisplayName, c.Health, c.MaxHealth, c.Level, items)
}
