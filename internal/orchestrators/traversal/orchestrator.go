// Package traversal implements the single-player traversal engine: a state
// machine over a character's scenario position and aliveness.
package traversal

//go:generate mockgen -destination=mock/mock_service.go -package=traversalmock github.com/KirkDiggler/rpg-narrative/internal/orchestrators/traversal Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-narrative/internal/engine"
	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/errors"
	"github.com/KirkDiggler/rpg-narrative/internal/events"
	"github.com/KirkDiggler/rpg-narrative/internal/orchestrators/session"
	"github.com/KirkDiggler/rpg-narrative/internal/pkg/keylock"
	"github.com/KirkDiggler/rpg-narrative/internal/repositories/character"
	"github.com/KirkDiggler/rpg-narrative/internal/repositories/content"
	partyrepo "github.com/KirkDiggler/rpg-narrative/internal/repositories/party"
)

// DefaultDisplayName is used when a character is created without a name
const DefaultDisplayName = "Hero"

// Service defines the interface for single-player traversal
type Service interface {
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)
	ListCampaigns(ctx context.Context, input *ListCampaignsInput) (*ListCampaignsOutput, error)
	SelectCampaign(ctx context.Context, input *SelectCampaignInput) (*SelectCampaignOutput, error)

	// Start renders the scenario at the character's stored position
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)

	// Submit processes one line of player input. Input problems come back as
	// Error responses; a returned error always means persistence failed.
	// Members of an active party get an in_party Error response.
	Submit(ctx context.Context, input *SubmitInput) (*SubmitOutput, error)
}

// Config holds the dependencies for the traversal orchestrator
type Config struct {
	CharacterRepo   character.Repository
	PartyRepo       partyrepo.Repository
	ContentRepo     content.Repository
	Resolver        engine.Resolver
	Catalog         *entities.Catalog
	Locker          keylock.Locker
	Events          *events.Publisher
	StartScenarioID string
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.PartyRepo == nil {
		vb.RequiredField("PartyRepo")
	}
	if c.ContentRepo == nil {
		vb.RequiredField("ContentRepo")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Locker == nil {
		vb.RequiredField("Locker")
	}
	if c.StartScenarioID == "" {
		vb.RequiredField("StartScenarioID")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo   character.Repository
	partyRepo       partyrepo.Repository
	contentRepo     content.Repository
	resolver        engine.Resolver
	locker          keylock.Locker
	events          *events.Publisher
	responses       *session.Builder
	startScenarioID string
}

// NewOrchestrator creates a new traversal orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		characterRepo:   cfg.CharacterRepo,
		partyRepo:       cfg.PartyRepo,
		contentRepo:     cfg.ContentRepo,
		resolver:        cfg.Resolver,
		locker:          cfg.Locker,
		events:          cfg.Events,
		responses:       session.NewBuilder(cfg.Catalog),
		startScenarioID: cfg.StartScenarioID,
	}, nil
}

var _ Service = (*orchestrator)(nil)

// LockKey is the keylock key guarding a solo player's state
func LockKey(playerID string) string {
	return "player:" + playerID
}

// CreateCharacter creates a default character at the start scenario
func (o *orchestrator) CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	name := input.DisplayName
	if name == "" {
		name = DefaultDisplayName
	}

	c := entities.NewCharacter(input.PlayerID, name, o.startScenarioID)
	out, err := o.characterRepo.Create(ctx, character.CreateInput{Character: &c})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create character")
	}

	slog.InfoContext(ctx, "Character created",
		"player_id", input.PlayerID,
		"scenario_id", o.startScenarioID)

	return &CreateCharacterOutput{Character: out.Character}, nil
}

// ListCampaigns lists the campaigns a character may select
func (o *orchestrator) ListCampaigns(ctx context.Context, _ *ListCampaignsInput) (*ListCampaignsOutput, error) {
	out, err := o.contentRepo.ListCampaigns(ctx, content.ListCampaignsInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list campaigns")
	}
	return &ListCampaignsOutput{Campaigns: out.Campaigns}, nil
}

// SelectCampaign moves the character to the campaign's start scenario and
// overlays the campaign's starting stats.
func (o *orchestrator) SelectCampaign(ctx context.Context, input *SelectCampaignInput) (*SelectCampaignOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}
	if input.CampaignID == "" {
		return nil, errors.InvalidArgument("campaign ID is required")
	}

	campaignOut, err := o.contentRepo.GetCampaign(ctx, content.GetCampaignInput{ID: input.CampaignID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get campaign %s", input.CampaignID)
	}
	campaign := campaignOut.Campaign

	var output *SelectCampaignOutput
	err = o.locker.Do(ctx, LockKey(input.PlayerID), func(ctx context.Context) error {
		c, found, err := o.loadCharacter(ctx, input.PlayerID)
		if err != nil {
			return err
		}
		if !found {
			output = &SelectCampaignOutput{Response: o.responses.PlayerNotFound()}
			return nil
		}

		inParty, err := o.inActiveParty(ctx, c)
		if err != nil {
			return err
		}
		if inParty {
			output = &SelectCampaignOutput{Response: o.responses.InParty(), Character: c}
			return nil
		}

		c.CampaignID = campaign.ID
		c.FactionTag = campaign.FactionTag
		c.ApplyStats(campaign.Stats())

		saved, err := o.save(ctx, c, campaign.StartScenarioID)
		if err != nil {
			return err
		}

		resp, err := o.render(ctx, campaign.StartScenarioID, session.MessageGameStarted, saved)
		if err != nil {
			return err
		}
		output = &SelectCampaignOutput{Response: resp, Character: saved}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if output.Response.IsError() {
		return output, nil
	}

	slog.InfoContext(ctx, "Campaign selected",
		"player_id", input.PlayerID,
		"campaign_id", campaign.ID)

	return output, nil
}

// Start renders the scenario at the character's stored position
func (o *orchestrator) Start(ctx context.Context, input *StartInput) (*StartOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	c, found, err := o.loadCharacter(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if !found {
		return &StartOutput{Response: o.responses.PlayerNotFound()}, nil
	}

	resp, err := o.render(ctx, o.position(c), "", c)
	if err != nil {
		return nil, err
	}
	return &StartOutput{Response: resp}, nil
}

// Submit processes one line of player input
func (o *orchestrator) Submit(ctx context.Context, input *SubmitInput) (*SubmitOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	var output *SubmitOutput
	err := o.locker.Do(ctx, LockKey(input.PlayerID), func(ctx context.Context) error {
		var err error
		output, err = o.submit(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

func (o *orchestrator) submit(ctx context.Context, input *SubmitInput) (*SubmitOutput, error) {
	c, found, err := o.loadCharacter(ctx, input.PlayerID)
	if err != nil {
		return nil, err
	}
	if !found {
		return &SubmitOutput{Response: o.responses.PlayerNotFound()}, nil
	}

	inParty, err := o.inActiveParty(ctx, c)
	if err != nil {
		return nil, err
	}
	if inParty {
		return &SubmitOutput{Response: o.responses.InParty(), Character: c}, nil
	}

	if !c.IsAlive() {
		return &SubmitOutput{Response: o.responses.Dead(session.MessageDead, c), Character: c}, nil
	}

	if cmd, ok := session.ParseCommand(input.Input); ok {
		if cmd == session.CommandExit {
			if c, err = o.save(ctx, c, ""); err != nil {
				return nil, err
			}
		}
		return &SubmitOutput{Response: o.responses.Command(cmd, c), Character: c}, nil
	}

	current := o.position(c)
	sc, err := o.scenario(ctx, current)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return &SubmitOutput{Response: o.responses.End(current, session.MessagePathEnds, c), Character: c}, nil
	}
	if sc.IsTerminal() {
		return &SubmitOutput{Response: o.responses.End(current, session.MessageEnd, c), Character: c}, nil
	}

	idx, key := session.ParseChoice(input.Input, len(sc.Choices))
	if key != entities.ErrorKeyNone {
		return &SubmitOutput{Response: o.responses.InputError(key, sc, c), Character: c}, nil
	}
	choice := sc.Choices[idx]

	resolved, failed := o.resolver.Resolve(*c, choice.Effect)
	if !choice.Effect.IsNone() {
		o.events.EffectResolved(ctx, &resolved, choice.Effect, failed, current)
	}

	if !resolved.IsAlive() {
		saved, err := o.save(ctx, &resolved, current)
		if err != nil {
			return nil, err
		}
		o.events.CharacterDied(ctx, saved, current)
		slog.InfoContext(ctx, "Character died",
			"player_id", saved.ID,
			"scenario_id", current)
		return &SubmitOutput{Response: o.responses.Dead(session.MessageDiedOfWounds, saved), Character: saved}, nil
	}

	saved, err := o.save(ctx, &resolved, choice.NextScenarioID)
	if err != nil {
		return nil, err
	}

	resp, err := o.render(ctx, choice.NextScenarioID, "", saved)
	if err != nil {
		return nil, err
	}
	return &SubmitOutput{Response: resp, Character: saved}, nil
}

// loadCharacter reports found=false instead of a NotFound error
func (o *orchestrator) loadCharacter(ctx context.Context, playerID string) (*entities.Character, bool, error) {
	out, err := o.characterRepo.Get(ctx, character.GetInput{PlayerID: playerID})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "failed to load character %s", playerID)
	}
	return out.Character, true, nil
}

// inActiveParty reports whether c belongs to a party that still accepts
// moves. A reference to an ended or missing party is cleared on c and goes
// away with the next save.
func (o *orchestrator) inActiveParty(ctx context.Context, c *entities.Character) (bool, error) {
	if c.PartyID == "" {
		return false, nil
	}

	out, err := o.partyRepo.Get(ctx, partyrepo.GetInput{PartyID: c.PartyID})
	if err != nil && !errors.IsNotFound(err) {
		return false, errors.Wrapf(err, "failed to load party %s", c.PartyID)
	}
	if err == nil && out.Party.IsActive() {
		return true, nil
	}

	slog.InfoContext(ctx, "Dropping stale party reference",
		"player_id", c.ID,
		"party_id", c.PartyID)
	c.PartyID = ""
	return false, nil
}

func (o *orchestrator) save(ctx context.Context, c *entities.Character, scenarioID string) (*entities.Character, error) {
	out, err := o.characterRepo.Save(ctx, character.SaveInput{Character: c, ScenarioID: scenarioID})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to save character",
			"player_id", c.ID,
			"scenario_id", scenarioID,
			"error", err)
		return nil, errors.Wrapf(err, "failed to save character %s", c.ID)
	}
	return out.Character, nil
}

// scenario returns nil for unknown IDs
func (o *orchestrator) scenario(ctx context.Context, id string) (*entities.Scenario, error) {
	out, err := o.contentRepo.GetScenario(ctx, content.GetScenarioInput{ID: id})
	if err != nil {
		if errors.IsNotFound(err) {
			slog.WarnContext(ctx, "Scenario not found", "scenario_id", id)
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to get scenario %s", id)
	}
	return out.Scenario, nil
}

func (o *orchestrator) render(ctx context.Context, scenarioID, message string, c *entities.Character) (entities.Response, error) {
	sc, err := o.scenario(ctx, scenarioID)
	if err != nil {
		return entities.Response{}, err
	}
	if sc == nil {
		return o.responses.End(scenarioID, session.MessagePathEnds, c), nil
	}
	return o.responses.Scenario(sc, message, c), nil
}

func (o *orchestrator) position(c *entities.Character) string {
	if c.CurrentScenarioID == "" {
		return o.startScenarioID
	}
	return c.CurrentScenarioID
}
