package party

import (
	"github.com/KirkDiggler/rpg-narrative/internal/entities"
)

// CreatePartyInput defines the request for creating a party
type CreatePartyInput struct {
	LeaderID   string
	CampaignID string
	Name       string
}

// CreatePartyOutput defines the response for creating a party
type CreatePartyOutput struct {
	Party    *entities.Party
	Response entities.Response
}

// InviteInput defines the request for inviting a player
type InviteInput struct {
	PartyID   string
	InviterID string
	InvitedID string
}

// InviteOutput defines the response for inviting a player
type InviteOutput struct {
	Invitation *entities.Invitation
}

// RespondToInvitationInput defines the request for answering an invitation
type RespondToInvitationInput struct {
	PlayerID string
	PartyID  string
	Accept   bool
}

// RespondToInvitationOutput defines the response for answering an
// invitation. Party is the party after the answer.
type RespondToInvitationOutput struct {
	Invitation *entities.Invitation
	Party      *entities.Party
}

// ListInvitationsInput defines the request for listing invitations
type ListInvitationsInput struct {
	PlayerID string
}

// ListInvitationsOutput defines the response for listing invitations
type ListInvitationsOutput struct {
	Invitations []*entities.Invitation
}

// GetPartyInput defines the request for getting a party
type GetPartyInput struct {
	PartyID string
}

// GetPartyOutput defines the response for getting a party. Members follows
// rotation order and omits members whose character is gone.
type GetPartyOutput struct {
	Party   *entities.Party
	Members []*entities.Character
}

// SubmitInput defines the request for submitting party input. The party is
// the one the player's character belongs to.
type SubmitInput struct {
	PlayerID string
	Input    string
}

// SubmitOutput defines the response for submitting party input. Party is
// nil when the player has no party.
type SubmitOutput struct {
	Response entities.Response
	Party    *entities.Party
}
