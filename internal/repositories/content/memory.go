package content

import (
	"context"
	"sort"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/errors"
)

// Memory is an immutable in-memory Repository
type Memory struct {
	startScenarioID string
	scenarios       map[string]*entities.Scenario
	scenarioIDs     []string
	campaigns       []*entities.Campaign
	diagnostics     []entities.EffectDiagnostic
}

var _ Repository = (*Memory)(nil)

// NewMemory compiles a bundle. Effects that fail to parse are kept as no
// effect and reported by Diagnostics.
func NewMemory(ctx context.Context, bundle *Bundle) (*Memory, error) {
	if bundle == nil {
		return nil, errors.InvalidArgument("bundle is required")
	}

	m := &Memory{
		startScenarioID: bundle.StartScenarioID(),
		scenarios:       make(map[string]*entities.Scenario, len(bundle.Scenarios)),
	}

	for _, doc := range bundle.Scenarios {
		if doc.ID == "" {
			return nil, errors.InvalidArgument("scenario without id")
		}
		if _, dup := m.scenarios[doc.ID]; dup {
			return nil, errors.AlreadyExistsf("scenario %q defined twice", doc.ID)
		}
		choices, diags := compileChoices(ctx, doc.ID, doc.Choices)
		m.scenarios[doc.ID] = &entities.Scenario{
			ID:          doc.ID,
			Description: doc.Description,
			Choices:     choices,
		}
		m.scenarioIDs = append(m.scenarioIDs, doc.ID)
		m.diagnostics = append(m.diagnostics, diags...)
	}
	sort.Strings(m.scenarioIDs)

	for _, doc := range bundle.Campaigns {
		if doc.ID == "" {
			return nil, errors.InvalidArgument("campaign without id")
		}
		m.campaigns = append(m.campaigns, compileCampaign(doc))
	}

	return m, nil
}

// NewMemoryFromEntities builds a Memory from already compiled content
func NewMemoryFromEntities(startScenarioID string, scenarios []entities.Scenario, campaigns []entities.Campaign) *Memory {
	m := &Memory{
		startScenarioID: startScenarioID,
		scenarios:       make(map[string]*entities.Scenario, len(scenarios)),
	}
	for i := range scenarios {
		sc := scenarios[i]
		m.scenarios[sc.ID] = &sc
		m.scenarioIDs = append(m.scenarioIDs, sc.ID)
	}
	sort.Strings(m.scenarioIDs)
	for i := range campaigns {
		c := campaigns[i]
		m.campaigns = append(m.campaigns, &c)
	}
	return m
}

// StartScenarioID returns the designated start node
func (m *Memory) StartScenarioID() string {
	return m.startScenarioID
}

// GetScenario implements Repository
func (m *Memory) GetScenario(_ context.Context, input GetScenarioInput) (*GetScenarioOutput, error) {
	sc, ok := m.scenarios[input.ID]
	if !ok {
		return nil, errors.NotFoundf("scenario %q not found", input.ID)
	}
	out := *sc
	out.Choices = append([]entities.Choice(nil), sc.Choices...)
	return &GetScenarioOutput{Scenario: &out}, nil
}

// ListScenarioIDs implements Repository
func (m *Memory) ListScenarioIDs(_ context.Context, _ ListScenarioIDsInput) (*ListScenarioIDsOutput, error) {
	return &ListScenarioIDsOutput{IDs: append([]string{}, m.scenarioIDs...)}, nil
}

// ListCampaigns implements Repository
func (m *Memory) ListCampaigns(_ context.Context, _ ListCampaignsInput) (*ListCampaignsOutput, error) {
	out := make([]*entities.Campaign, 0, len(m.campaigns))
	for _, c := range m.campaigns {
		cp := *c
		out = append(out, &cp)
	}
	return &ListCampaignsOutput{Campaigns: out}, nil
}

// GetCampaign implements Repository
func (m *Memory) GetCampaign(_ context.Context, input GetCampaignInput) (*GetCampaignOutput, error) {
	for _, c := range m.campaigns {
		if c.ID == input.ID {
			cp := *c
			return &GetCampaignOutput{Campaign: &cp}, nil
		}
	}
	return nil, errors.NotFoundf("campaign %q not found", input.ID)
}

// Diagnostics implements Repository
func (m *Memory) Diagnostics(_ context.Context, _ DiagnosticsInput) (*DiagnosticsOutput, error) {
	return &DiagnosticsOutput{Diagnostics: append([]entities.EffectDiagnostic{}, m.diagnostics...)}, nil
}
