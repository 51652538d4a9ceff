package v1alpha1

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/errors"
)

func stringField(req *structpb.Struct, name string) string {
	if req == nil {
		return ""
	}
	return req.GetFields()[name].GetStringValue()
}

func boolField(req *structpb.Struct, name string) bool {
	if req == nil {
		return false
	}
	return req.GetFields()[name].GetBoolValue()
}

func toStruct(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode response")
	}
	return out, nil
}

func anySlice(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func responseToMap(r entities.Response) map[string]any {
	out := map[string]any{
		"type":    string(r.Type),
		"message": r.Message,
	}
	if r.Choices != nil {
		out["choices"] = anySlice(r.Choices)
	}
	if r.PlayerStatus != "" {
		out["player_status"] = r.PlayerStatus
	}
	if r.ErrorKey != entities.ErrorKeyNone {
		out["error_key"] = string(r.ErrorKey)
	}
	if r.ScenarioID != "" {
		out["scenario_id"] = r.ScenarioID
	}
	return out
}

func characterToMap(c *entities.Character) map[string]any {
	stats := make(map[string]any, len(c.Stats))
	for k, v := range c.Stats {
		stats[k] = v
	}
	return map[string]any{
		"id":                  c.ID,
		"display_name":        c.DisplayName,
		"health":              c.Health,
		"max_health":          c.MaxHealth,
		"level":               c.Level,
		"stats":               stats,
		"inventory":           anySlice(c.Inventory),
		"current_scenario_id": c.CurrentScenarioID,
		"campaign_id":         c.CampaignID,
		"faction_tag":         c.FactionTag,
		"party_id":            c.PartyID,
		"version":             c.Version,
	}
}

func campaignToMap(c *entities.Campaign) map[string]any {
	return map[string]any{
		"id":                c.ID,
		"name":              c.Name,
		"description":       c.Description,
		"start_scenario_id": c.StartScenarioID,
		"faction_tag":       c.FactionTag,
		"start_stats":       c.StartStats,
	}
}

func partyToMap(p *entities.Party) map[string]any {
	return map[string]any{
		"id":                     p.ID,
		"name":                   p.Name,
		"leader_id":              p.LeaderID,
		"member_ids":             anySlice(p.MemberIDs),
		"shared_scenario_id":     p.SharedScenarioID,
		"campaign_id":            p.CampaignID,
		"current_turn_player_id": p.CurrentTurnPlayerID,
		"turn":                   p.Turn,
		"status":                 string(p.Status),
		"version":                p.Version,
	}
}

func invitationToMap(i *entities.Invitation) map[string]any {
	return map[string]any{
		"party_id":          i.PartyID,
		"invited_player_id": i.InvitedPlayerID,
		"inviter_id":        i.InviterID,
		"status":            string(i.Status),
		"created_at":        i.CreatedAt,
		"updated_at":        i.UpdatedAt,
	}
}
