// Package party implements the party turn coordinator. Members share one
// scenario cursor and take turns in join order; every choice applies its
// effect to the whole party.
package party

//go:generate mockgen -destination=mock/mock_service.go -package=partymock github.com/KirkDiggler/rpg-narrative/internal/orchestrators/party Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-narrative/internal/engine"
	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/errors"
	"github.com/KirkDiggler/rpg-narrative/internal/events"
	"github.com/KirkDiggler/rpg-narrative/internal/orchestrators/session"
	"github.com/KirkDiggler/rpg-narrative/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-narrative/internal/pkg/keylock"
	characterrepo "github.com/KirkDiggler/rpg-narrative/internal/repositories/character"
	"github.com/KirkDiggler/rpg-narrative/internal/repositories/content"
	partyrepo "github.com/KirkDiggler/rpg-narrative/internal/repositories/party"
)

// Reasons attached to refused party operations, read with errors.GetReason
const (
	ReasonNotPartyLeader = "not_party_leader"
	ReasonAlreadyInParty = "already_in_party"
)

// Service defines the interface for party play
type Service interface {
	CreateParty(ctx context.Context, input *CreatePartyInput) (*CreatePartyOutput, error)

	// Invite fails with PermissionDenied unless the inviter leads the party
	Invite(ctx context.Context, input *InviteInput) (*InviteOutput, error)

	RespondToInvitation(ctx context.Context, input *RespondToInvitationInput) (*RespondToInvitationOutput, error)
	ListInvitations(ctx context.Context, input *ListInvitationsInput) (*ListInvitationsOutput, error)
	GetParty(ctx context.Context, input *GetPartyInput) (*GetPartyOutput, error)

	// Submit processes one line of input from the player whose turn it is.
	// Turn and status violations come back as Error responses.
	Submit(ctx context.Context, input *SubmitInput) (*SubmitOutput, error)
}

// Config holds the dependencies for the party orchestrator
type Config struct {
	PartyRepo     partyrepo.Repository
	CharacterRepo characterrepo.Repository
	ContentRepo   content.Repository
	Resolver      engine.Resolver
	Catalog       *entities.Catalog
	Locker        keylock.Locker
	IDGenerator   idgen.Generator
	Events        *events.Publisher
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.PartyRepo == nil {
		vb.RequiredField("PartyRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
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
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	partyRepo     partyrepo.Repository
	characterRepo characterrepo.Repository
	contentRepo   content.Repository
	resolver      engine.Resolver
	locker        keylock.Locker
	idGen         idgen.Generator
	events        *events.Publisher
	responses     *session.Builder
}

// NewOrchestrator creates a new party orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		partyRepo:     cfg.PartyRepo,
		characterRepo: cfg.CharacterRepo,
		contentRepo:   cfg.ContentRepo,
		resolver:      cfg.Resolver,
		locker:        cfg.Locker,
		idGen:         cfg.IDGenerator,
		events:        cfg.Events,
		responses:     session.NewBuilder(cfg.Catalog),
	}, nil
}

var _ Service = (*orchestrator)(nil)

// LockKey is the keylock key guarding a party's state
func LockKey(partyID string) string {
	return "party:" + partyID
}

// CreateParty starts a party at the campaign's first scenario with the
// leader as its only member.
func (o *orchestrator) CreateParty(ctx context.Context, input *CreatePartyInput) (*CreatePartyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("leader_id", input.LeaderID, vb)
	errors.ValidateRequired("campaign_id", input.CampaignID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	campaignOut, err := o.contentRepo.GetCampaign(ctx, content.GetCampaignInput{ID: input.CampaignID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get campaign %s", input.CampaignID)
	}
	campaign := campaignOut.Campaign

	leader, err := o.character(ctx, input.LeaderID)
	if err != nil {
		return nil, err
	}
	if err := o.ensurePartyless(ctx, leader, ""); err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = leader.DisplayName + "'s party"
	}

	created, err := o.partyRepo.Create(ctx, partyrepo.CreateInput{Party: &entities.Party{
		ID:                  o.idGen.Generate(),
		Name:                name,
		LeaderID:            leader.ID,
		MemberIDs:           []string{leader.ID},
		SharedScenarioID:    campaign.StartScenarioID,
		CampaignID:          campaign.ID,
		CurrentTurnPlayerID: leader.ID,
		Status:              entities.PartyStatusActive,
	}})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create party")
	}
	p := created.Party

	leader.ApplyStats(campaign.Stats())
	saved, err := o.bind(ctx, leader, p)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Party created",
		"party_id", p.ID,
		"leader_id", p.LeaderID,
		"campaign_id", p.CampaignID)

	resp, err := o.render(ctx, p.SharedScenarioID, session.MessageGameStarted, []*entities.Character{saved})
	if err != nil {
		return nil, err
	}

	return &CreatePartyOutput{Party: p, Response: resp}, nil
}

// Invite writes a pending invitation, replacing any earlier one
func (o *orchestrator) Invite(ctx context.Context, input *InviteInput) (*InviteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("party_id", input.PartyID, vb)
	errors.ValidateRequired("inviter_id", input.InviterID, vb)
	errors.ValidateRequired("invited_id", input.InvitedID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	p, err := o.party(ctx, input.PartyID)
	if err != nil {
		return nil, err
	}
	if p.LeaderID != input.InviterID {
		return nil, errors.PermissionDenied("only the party leader can invite players").
			WithReason(ReasonNotPartyLeader)
	}
	if !p.IsActive() {
		return nil, errors.FailedPreconditionf("party %s is not active", p.ID)
	}
	if p.HasMember(input.InvitedID) {
		return nil, errors.AlreadyExistsf("player %s is already in party %s", input.InvitedID, p.ID)
	}
	if _, err := o.character(ctx, input.InvitedID); err != nil {
		return nil, err
	}

	out, err := o.partyRepo.CreateInvitation(ctx, partyrepo.CreateInvitationInput{
		PartyID:         p.ID,
		InvitedPlayerID: input.InvitedID,
		InviterID:       input.InviterID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create invitation")
	}

	slog.InfoContext(ctx, "Player invited",
		"party_id", p.ID,
		"invited_id", input.InvitedID)

	return &InviteOutput{Invitation: out.Invitation}, nil
}

// RespondToInvitation accepts or declines a pending invitation. Accepting
// appends the player to the end of the rotation and moves their character
// to the party's scenario.
func (o *orchestrator) RespondToInvitation(ctx context.Context, input *RespondToInvitationInput) (*RespondToInvitationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("player_id", input.PlayerID, vb)
	errors.ValidateRequired("party_id", input.PartyID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	var output *RespondToInvitationOutput
	err := o.locker.Do(ctx, LockKey(input.PartyID), func(ctx context.Context) error {
		invOut, err := o.partyRepo.GetInvitation(ctx, partyrepo.GetInvitationInput{
			PartyID:  input.PartyID,
			PlayerID: input.PlayerID,
		})
		if err != nil {
			return errors.Wrap(err, "failed to get invitation")
		}
		if !invOut.Invitation.IsPending() {
			return errors.FailedPreconditionf("invitation to party %s was already %s",
				input.PartyID, invOut.Invitation.Status)
		}

		p, err := o.party(ctx, input.PartyID)
		if err != nil {
			return err
		}

		status := entities.InvitationDeclined
		if input.Accept {
			if p, err = o.join(ctx, p, input.PlayerID); err != nil {
				return err
			}
			status = entities.InvitationAccepted
		}

		updated, err := o.partyRepo.UpdateInvitationStatus(ctx, partyrepo.UpdateInvitationStatusInput{
			PartyID:  input.PartyID,
			PlayerID: input.PlayerID,
			Status:   status,
		})
		if err != nil {
			return errors.Wrap(err, "failed to update invitation")
		}

		output = &RespondToInvitationOutput{Invitation: updated.Invitation, Party: p}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Invitation answered",
		"party_id", input.PartyID,
		"player_id", input.PlayerID,
		"accepted", input.Accept)

	return output, nil
}

func (o *orchestrator) join(ctx context.Context, p *entities.Party, playerID string) (*entities.Party, error) {
	if !p.IsActive() {
		return nil, errors.FailedPreconditionf("party %s is not active", p.ID)
	}

	member, err := o.character(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := o.ensurePartyless(ctx, member, p.ID); err != nil {
		return nil, err
	}

	if p.AddMember(playerID) {
		updated, err := o.partyRepo.Update(ctx, partyrepo.UpdateInput{Party: p})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to add %s to party %s", playerID, p.ID)
		}
		p = updated.Party
	}

	if _, err := o.bind(ctx, member, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListInvitations lists a player's pending invitations
func (o *orchestrator) ListInvitations(ctx context.Context, input *ListInvitationsInput) (*ListInvitationsOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	out, err := o.partyRepo.ListPendingInvitations(ctx, partyrepo.ListPendingInvitationsInput{PlayerID: input.PlayerID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list invitations")
	}
	return &ListInvitationsOutput{Invitations: out.Invitations}, nil
}

// GetParty returns a party and its members' characters
func (o *orchestrator) GetParty(ctx context.Context, input *GetPartyInput) (*GetPartyOutput, error) {
	if input == nil || input.PartyID == "" {
		return nil, errors.InvalidArgument("party ID is required")
	}

	p, err := o.party(ctx, input.PartyID)
	if err != nil {
		return nil, err
	}

	members, err := o.members(ctx, p)
	if err != nil {
		return nil, err
	}
	return &GetPartyOutput{Party: p, Members: members}, nil
}

// Submit processes one line of input for the acting player's party
func (o *orchestrator) Submit(ctx context.Context, input *SubmitInput) (*SubmitOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.InvalidArgument("player ID is required")
	}

	actor, err := o.character(ctx, input.PlayerID)
	if err != nil {
		if errors.IsNotFound(err) {
			return &SubmitOutput{Response: o.responses.PlayerNotFound()}, nil
		}
		return nil, err
	}
	if actor.PartyID == "" {
		return &SubmitOutput{Response: o.responses.PartyNotActive()}, nil
	}

	var output *SubmitOutput
	err = o.locker.Do(ctx, LockKey(actor.PartyID), func(ctx context.Context) error {
		var err error
		output, err = o.submit(ctx, actor.PartyID, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return output, nil
}

func (o *orchestrator) submit(ctx context.Context, partyID string, input *SubmitInput) (*SubmitOutput, error) {
	p, err := o.party(ctx, partyID)
	if err != nil {
		if errors.IsNotFound(err) {
			return &SubmitOutput{Response: o.responses.PartyNotActive()}, nil
		}
		return nil, err
	}

	if !p.IsActive() {
		return &SubmitOutput{Response: o.responses.PartyNotActive(), Party: p}, nil
	}
	if input.PlayerID != p.CurrentTurnPlayerID {
		return &SubmitOutput{Response: o.responses.NotYourTurn(o.displayName(ctx, p.CurrentTurnPlayerID)), Party: p}, nil
	}

	members, err := o.members(ctx, p)
	if err != nil {
		return nil, err
	}

	if cmd, ok := session.ParseCommand(input.Input); ok {
		if cmd == session.CommandExit {
			if err := o.saveActor(ctx, members, input.PlayerID); err != nil {
				return nil, err
			}
		}
		return &SubmitOutput{Response: o.responses.Command(cmd, members...), Party: p}, nil
	}

	sc, err := o.scenario(ctx, p.SharedScenarioID)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return &SubmitOutput{Response: o.responses.End(p.SharedScenarioID, session.MessagePathEnds, members...), Party: p}, nil
	}
	if sc.IsTerminal() {
		return &SubmitOutput{Response: o.responses.End(sc.ID, session.MessageEnd, members...), Party: p}, nil
	}

	idx, key := session.ParseChoice(input.Input, len(sc.Choices))
	if key != entities.ErrorKeyNone {
		return &SubmitOutput{Response: o.responses.InputError(key, sc, members...), Party: p}, nil
	}
	choice := sc.Choices[idx]

	resolved, err := o.applyToAll(ctx, p, sc.ID, choice)
	if err != nil {
		return nil, err
	}

	p.Turn++
	if !anyAlive(resolved) {
		p.Status = entities.PartyStatusEnded
		updated, err := o.partyRepo.Update(ctx, partyrepo.UpdateInput{Party: p})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to end party %s", p.ID)
		}
		o.events.PartyEnded(ctx, updated.Party)

		slog.InfoContext(ctx, "Party defeated",
			"party_id", p.ID,
			"scenario_id", sc.ID)

		released, err := o.release(ctx, updated.Party, resolved)
		if err != nil {
			return nil, err
		}

		return &SubmitOutput{
			Response: o.responses.Dead(session.MessagePartyDefeated, released...),
			Party:    updated.Party,
		}, nil
	}

	from := p.CurrentTurnPlayerID
	p.SharedScenarioID = choice.NextScenarioID
	p.CurrentTurnPlayerID = p.NextTurnAfter(input.PlayerID)
	updated, err := o.partyRepo.Update(ctx, partyrepo.UpdateInput{Party: p})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to advance party %s", p.ID)
	}
	o.events.TurnAdvanced(ctx, updated.Party, from)

	resp, err := o.render(ctx, choice.NextScenarioID, "", resolved)
	if err != nil {
		return nil, err
	}
	return &SubmitOutput{Response: resp, Party: updated.Party}, nil
}

// applyToAll resolves the choice's effect against a fresh read of every
// member and saves each at the choice's target, stamped with the party turn
// being played. It stops at the first failed save. Members already stamped
// by an earlier attempt at the same turn keep their resolved state, so a
// retried turn never applies an effect twice.
func (o *orchestrator) applyToAll(ctx context.Context, p *entities.Party, scenarioID string, choice entities.Choice) ([]*entities.Character, error) {
	turn := p.Turn + 1
	out := make([]*entities.Character, 0, len(p.MemberIDs))
	for _, id := range p.MemberIDs {
		c, err := o.character(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "Party member has no character",
					"party_id", p.ID,
					"player_id", id)
				continue
			}
			return nil, err
		}

		if c.PartyID == p.ID && c.PartyTurn == turn {
			slog.InfoContext(ctx, "Party member already resolved for turn",
				"party_id", p.ID,
				"player_id", id,
				"turn", turn)
			if c.CurrentScenarioID != choice.NextScenarioID {
				moved, err := o.characterRepo.Save(ctx, characterrepo.SaveInput{
					Character:  c,
					ScenarioID: choice.NextScenarioID,
				})
				if err != nil {
					return nil, errors.Wrapf(err, "failed to save character %s", id)
				}
				c = moved.Character
			}
			out = append(out, c)
			continue
		}

		wasAlive := c.IsAlive()
		resolved, failed := o.resolver.Resolve(*c, choice.Effect)
		resolved.PartyTurn = turn
		saved, err := o.characterRepo.Save(ctx, characterrepo.SaveInput{
			Character:  &resolved,
			ScenarioID: choice.NextScenarioID,
		})
		if err != nil {
			slog.ErrorContext(ctx, "Failed to save party member",
				"party_id", p.ID,
				"player_id", id,
				"error", err)
			return nil, errors.Wrapf(err, "failed to save character %s", id)
		}

		if !choice.Effect.IsNone() {
			o.events.EffectResolved(ctx, saved.Character, choice.Effect, failed, scenarioID)
		}
		if wasAlive && !saved.Character.IsAlive() {
			o.events.CharacterDied(ctx, saved.Character, scenarioID)
		}
		out = append(out, saved.Character)
	}
	return out, nil
}

// release drops the party reference from the members of an ended party
func (o *orchestrator) release(ctx context.Context, p *entities.Party, members []*entities.Character) ([]*entities.Character, error) {
	out := make([]*entities.Character, 0, len(members))
	for _, c := range members {
		if c.PartyID != p.ID {
			out = append(out, c)
			continue
		}
		c.PartyID = ""
		saved, err := o.characterRepo.Save(ctx, characterrepo.SaveInput{Character: c})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to release character %s from party %s", c.ID, p.ID)
		}
		out = append(out, saved.Character)
	}
	return out, nil
}

func (o *orchestrator) saveActor(ctx context.Context, members []*entities.Character, playerID string) error {
	for _, c := range members {
		if c.ID != playerID {
			continue
		}
		if _, err := o.characterRepo.Save(ctx, characterrepo.SaveInput{Character: c}); err != nil {
			return errors.Wrapf(err, "failed to save character %s", playerID)
		}
	}
	return nil
}

// bind points a character at the party and its shared scenario
func (o *orchestrator) bind(ctx context.Context, c *entities.Character, p *entities.Party) (*entities.Character, error) {
	c.PartyID = p.ID
	c.PartyTurn = p.Turn
	c.CampaignID = p.CampaignID
	out, err := o.characterRepo.Save(ctx, characterrepo.SaveInput{Character: c, ScenarioID: p.SharedScenarioID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to bind character %s to party %s", c.ID, p.ID)
	}
	return out.Character, nil
}

// ensurePartyless rejects players still bound to a different active party
func (o *orchestrator) ensurePartyless(ctx context.Context, c *entities.Character, joining string) error {
	if c.PartyID == "" || c.PartyID == joining {
		return nil
	}

	current, err := o.party(ctx, c.PartyID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}
	if !current.IsActive() {
		return nil
	}

	return errors.FailedPreconditionf("player %s is already in party %s", c.ID, current.ID).
		WithReason(ReasonAlreadyInParty)
}

func (o *orchestrator) members(ctx context.Context, p *entities.Party) ([]*entities.Character, error) {
	out := make([]*entities.Character, 0, len(p.MemberIDs))
	for _, id := range p.MemberIDs {
		c, err := o.character(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (o *orchestrator) displayName(ctx context.Context, playerID string) string {
	c, err := o.character(ctx, playerID)
	if err != nil || c.DisplayName == "" {
		return playerID
	}
	return c.DisplayName
}

func (o *orchestrator) character(ctx context.Context, playerID string) (*entities.Character, error) {
	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{PlayerID: playerID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load character %s", playerID)
	}
	return out.Character, nil
}

func (o *orchestrator) party(ctx context.Context, partyID string) (*entities.Party, error) {
	out, err := o.partyRepo.Get(ctx, partyrepo.GetInput{PartyID: partyID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load party %s", partyID)
	}
	return out.Party, nil
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

func (o *orchestrator) render(ctx context.Context, scenarioID, message string, members []*entities.Character) (entities.Response, error) {
	sc, err := o.scenario(ctx, scenarioID)
	if err != nil {
		return entities.Response{}, err
	}
	if sc == nil {
		return o.responses.End(scenarioID, session.MessagePathEnds, members...), nil
	}
	return o.responses.Scenario(sc, message, members...), nil
}

func anyAlive(chars []*entities.Character) bool {
	for _, c := range chars {
		if c.IsAlive() {
			return true
		}
	}
	return false
}
