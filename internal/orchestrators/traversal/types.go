package traversal

import (
	"github.com/KirkDiggler/rpg-narrative/internal/entities"
)

// CreateCharacterInput defines the request for creating a character
type CreateCharacterInput struct {
	PlayerID    string
	DisplayName string
}

// CreateCharacterOutput defines the response for creating a character
type CreateCharacterOutput struct {
	Character *entities.Character
}

// ListCampaignsInput defines the request for listing campaigns
type ListCampaignsInput struct{}

// ListCampaignsOutput defines the response for listing campaigns
type ListCampaignsOutput struct {
	Campaigns []*entities.Campaign
}

// SelectCampaignInput defines the request for choosing a campaign
type SelectCampaignInput struct {
	PlayerID   string
	CampaignID string
}

// SelectCampaignOutput defines the response for choosing a campaign
type SelectCampaignOutput struct {
	Response  entities.Response
	Character *entities.Character
}

// StartInput defines the request for starting a session
type StartInput struct {
	PlayerID string
}

// StartOutput defines the response for starting a session
type StartOutput struct {
	Response entities.Response
}

// SubmitInput defines the request for submitting raw player input
type SubmitInput struct {
	PlayerID string
	Input    string
}

// SubmitOutput defines the response for submitting raw player input.
// Character is the state after the submission, or nil when the player is
// unknown.
type SubmitOutput struct {
	Response  entities.Response
	Character *entities.Character
}
