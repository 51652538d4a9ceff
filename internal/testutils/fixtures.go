package testutils

import (
	"github.com/KirkDiggler/rpg-narrative/internal/entities"
)

// Scenario IDs of the fixture graph
const (
	ScenarioStart  = "start"
	ScenarioForest = "forest"
	ScenarioCave   = "cave"
	ScenarioEnd    = "end"
	ScenarioLoop   = "loop"

	// CampaignTest starts at ScenarioForest
	CampaignTest = "test_campaign"
)

// FixtureScenarios returns a small graph:
//
//	start  --"Attack" hp-15-->        end
//	forest --"Sneak" check:stealth:12--> cave
//	forest --"Heal" heal:20-->        forest
//	forest --"Trap" hp-100-->         cave
//	forest --"Lost" -->               missing (no such scenario)
//	cave   --"Grab key" add:key-->    loop
//	cave   --"Leave" -->              end
//	loop   --"Again" -->              loop
//	end    (terminal)
func FixtureScenarios() []entities.Scenario {
	return []entities.Scenario{
		{
			ID:          ScenarioStart,
			Description: "A goblin blocks the road.",
			Choices: []entities.Choice{
				{Text: "Attack", NextScenarioID: ScenarioEnd, Effect: entities.Damage(15), RawEffect: "hp-15"},
			},
		},
		{
			ID:          ScenarioForest,
			Description: "The forest is dark.",
			Choices: []entities.Choice{
				{Text: "Sneak", NextScenarioID: ScenarioCave, Effect: entities.CheckStat("stealth", 12), RawEffect: "check:stealth:12"},
				{Text: "Heal", NextScenarioID: ScenarioForest, Effect: entities.Heal(20), RawEffect: "heal:20"},
				{Text: "Trap", NextScenarioID: ScenarioCave, Effect: entities.Damage(100), RawEffect: "hp-100"},
				{Text: "Lost", NextScenarioID: "missing"},
			},
		},
		{
			ID:          ScenarioCave,
			Description: "A cave with a key on the floor.",
			Choices: []entities.Choice{
				{Text: "Grab key", NextScenarioID: ScenarioLoop, Effect: entities.AddItem("key"), RawEffect: "add:key"},
				{Text: "Leave", NextScenarioID: ScenarioEnd},
			},
		},
		{
			ID:          ScenarioLoop,
			Description: "The path circles back.",
			Choices: []entities.Choice{
				{Text: "Again", NextScenarioID: ScenarioLoop},
			},
		},
		{
			ID:          ScenarioEnd,
			Description: "The road is clear.",
		},
	}
}

// FixtureCampaigns returns the campaigns of the fixture graph
func FixtureCampaigns() []entities.Campaign {
	return []entities.Campaign{
		{
			ID:              CampaignTest,
			Name:            "Test Campaign",
			Description:     "Into the forest.",
			StartScenarioID: ScenarioForest,
			FactionTag:      "Ranger",
			StartStats:      "stealth:14,strength:8",
		},
	}
}
