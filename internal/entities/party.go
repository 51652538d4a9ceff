package entities

import "slices"

// PartyStatus is the lifecycle state of a party
type PartyStatus string

// Party statuses
const (
	PartyStatusActive PartyStatus = "active"
	PartyStatusEnded  PartyStatus = "ended"

	// EntityTypeParty is the core.Entity type of a Party
	EntityTypeParty = "party"
)

// Party is a group of players sharing one scenario cursor and a strict turn
// order. MemberIDs order is the rotation order; the leader is always a member.
// Turn counts resolved moves; a member's PartyTurn equals Turn+1 only while
// the move that resolved it is waiting to be committed.
type Party struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	LeaderID            string      `json:"leader_id"`
	MemberIDs           []string    `json:"member_ids"`
	SharedScenarioID    string      `json:"shared_scenario_id"`
	CampaignID          string      `json:"campaign_id,omitempty"`
	CurrentTurnPlayerID string      `json:"current_turn_player_id"`
	Turn                int64       `json:"turn"`
	Status              PartyStatus `json:"status"`
	Version             int64       `json:"version"`
	CreatedAt           int64       `json:"created_at"`
	UpdatedAt           int64       `json:"updated_at"`
}

// GetID implements core.Entity
func (p *Party) GetID() string {
	return p.ID
}

// GetType implements core.Entity
func (p *Party) GetType() string {
	return EntityTypeParty
}

// IsActive reports whether the party still accepts moves
func (p *Party) IsActive() bool {
	return p.Status == PartyStatusActive
}

// HasMember reports whether playerID belongs to the party
func (p *Party) HasMember(playerID string) bool {
	return slices.Contains(p.MemberIDs, playerID)
}

// AddMember appends playerID to the rotation unless already present.
// It reports whether the member list changed.
func (p *Party) AddMember(playerID string) bool {
	if p.HasMember(playerID) {
		return false
	}
	p.MemberIDs = append(p.MemberIDs, playerID)
	return true
}

// NextTurnAfter returns the member following playerID in rotation order,
// wrapping around. An unknown player hands the turn to the first member.
func (p *Party) NextTurnAfter(playerID string) string {
	if len(p.MemberIDs) == 0 {
		return ""
	}
	idx := slices.Index(p.MemberIDs, playerID)
	return p.MemberIDs[(idx+1)%len(p.MemberIDs)]
}

// Clone returns a copy that shares no slices with p
func (p Party) Clone() Party {
	out := p
	out.MemberIDs = append([]string{}, p.MemberIDs...)
	return out
}

// InvitationStatus is the state of an invitation
type InvitationStatus string

// Invitation statuses
const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation asks a player to join a party. There is one record per
// (PartyID, InvitedPlayerID) pair; re-inviting replaces it.
type Invitation struct {
	PartyID         string           `json:"party_id"`
	InvitedPlayerID string           `json:"invited_player_id"`
	InviterID       string           `json:"inviter_id"`
	Status          InvitationStatus `json:"status"`
	CreatedAt       int64            `json:"created_at"`
	UpdatedAt       int64            `json:"updated_at"`
}

// IsPending reports whether the invitation awaits an answer
func (i *Invitation) IsPending() bool {
	return i.Status == InvitationPending
}
