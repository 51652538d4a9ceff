// Package content provides the read-only scenario graph and campaign list.
//
// Two backends satisfy Repository: Memory, compiled from YAML bundles, and
// SQLiteStore, which keeps content in the campaigns/scenarios/choices tables.
// Effect strings are parsed when content is loaded; strings outside the
// grammar become "no effect", are logged at WARN and show up in Diagnostics.
package content

//go:generate mockgen -destination=mock/mock_repository.go -package=contentmock github.com/KirkDiggler/rpg-narrative/internal/repositories/content Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
)

// Repository defines the interface for scenario and campaign content
type Repository interface {
	// GetScenario retrieves a scenario by ID
	// Returns errors.NotFound if the scenario doesn't exist
	GetScenario(ctx context.Context, input GetScenarioInput) (*GetScenarioOutput, error)

	// ListScenarioIDs lists every scenario ID in sorted order
	ListScenarioIDs(ctx context.Context, input ListScenarioIDsInput) (*ListScenarioIDsOutput, error)

	// ListCampaigns lists campaigns in authoring order
	ListCampaigns(ctx context.Context, input ListCampaignsInput) (*ListCampaignsOutput, error)

	// GetCampaign retrieves a campaign by ID
	// Returns errors.NotFound if the campaign doesn't exist
	GetCampaign(ctx context.Context, input GetCampaignInput) (*GetCampaignOutput, error)

	// Diagnostics lists effect strings that failed to parse
	Diagnostics(ctx context.Context, input DiagnosticsInput) (*DiagnosticsOutput, error)
}

// GetScenarioInput defines the input for getting a scenario
type GetScenarioInput struct {
	ID string
}

// GetScenarioOutput defines the output for getting a scenario
type GetScenarioOutput struct {
	Scenario *entities.Scenario
}

// ListScenarioIDsInput defines the input for listing scenario IDs
type ListScenarioIDsInput struct{}

// ListScenarioIDsOutput defines the output for listing scenario IDs
type ListScenarioIDsOutput struct {
	IDs []string
}

// ListCampaignsInput defines the input for listing campaigns
type ListCampaignsInput struct{}

// ListCampaignsOutput defines the output for listing campaigns
type ListCampaignsOutput struct {
	Campaigns []*entities.Campaign
}

// GetCampaignInput defines the input for getting a campaign
type GetCampaignInput struct {
	ID string
}

// GetCampaignOutput defines the output for getting a campaign
type GetCampaignOutput struct {
	Campaign *entities.Campaign
}

// DiagnosticsInput defines the input for listing diagnostics
type DiagnosticsInput struct{}

// DiagnosticsOutput defines the output for listing diagnostics
type DiagnosticsOutput struct {
	Diagnostics []entities.EffectDiagnostic
}
