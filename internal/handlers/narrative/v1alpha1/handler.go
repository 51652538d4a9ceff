package v1alpha1

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-narrative/internal/errors"
	"github.com/KirkDiggler/rpg-narrative/internal/orchestrators/party"
	"github.com/KirkDiggler/rpg-narrative/internal/orchestrators/traversal"
)

// HandlerConfig holds dependencies for the narrative handler
type HandlerConfig struct {
	TraversalService traversal.Service
	PartyService     party.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.TraversalService == nil {
		vb.RequiredField("TraversalService")
	}
	if c.PartyService == nil {
		vb.RequiredField("PartyService")
	}

	return vb.Build()
}

// Handler implements NarrativeServiceServer
type Handler struct {
	traversalService traversal.Service
	partyService     party.Service
}

// NewHandler creates a new narrative handler
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		traversalService: cfg.TraversalService,
		partyService:     cfg.PartyService,
	}, nil
}

var _ NarrativeServiceServer = (*Handler)(nil)

// required rejects the request when any named field is blank
func required(req *structpb.Struct, names ...string) error {
	for _, name := range names {
		if stringField(req, name) == "" {
			return errors.ToGRPCError(errors.InvalidArgumentf("%s is required", name))
		}
	}
	return nil
}

func reply(fields map[string]any) (*structpb.Struct, error) {
	out, err := toStruct(fields)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return out, nil
}

// CreateCharacter creates a default character for a player
func (h *Handler) CreateCharacter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := required(req, "player_id"); err != nil {
		return nil, err
	}

	out, err := h.traversalService.CreateCharacter(ctx, &traversal.CreateCharacterInput{
		PlayerID:    stringField(req, "player_id"),
		DisplayName: stringField(req, "display_name"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return reply(map[string]any{"character": characterToMap(out.Character)})
}

// ListCampaigns lists the selectable campaigns
func (h *Handler) ListCampaigns(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.traversalService.ListCampaigns(ctx, &traversal.ListCampaignsInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	campaigns := make([]any, 0, len(out.Campaigns))
	for _, c := range out.Campaigns {
		campaigns = append(campaigns, campaignToMap(c))
	}
	return reply(map[string]any{"campaigns": campaigns})
}

// SelectCampaign moves a player's character to a campaign start
func (h *Handler) SelectCampaign(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := required(req, "player_id", "campaign_id"); err != nil {
		return nil, err
	}

	out, err := h.traversalService.SelectCampaign(ctx, &traversal.SelectCampaignInput{
		PlayerID:   stringField(req, "player_id"),
		CampaignID: stringField(req, "campaign_id"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	fields := map[string]any{"response": responseToMap(out.Response)}
	if out.Character != nil {
		fields["character"] = characterToMap(out.Character)
	}
	return reply(fields)
}

// StartSession renders the player's current scenario
func (h *Handler) StartSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := required(req, "player_id"); err != nil {
		return nil, err
	}

	out, err := h.traversalService.Start(ctx, &traversal.StartInput{PlayerID: stringField(req, "player_id")})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return reply(map[string]any{"response": responseToMap(out.Response)})
}

// SubmitInput processes solo player input
func (h *Handler) SubmitInput(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := required(req, "player_id"); err != nil {
		return nil, err
	}

	out, err := h.traversalService.Submit(ctx, &traversal.SubmitInput{
		PlayerID: stringField(req, "player_id"),
		Input:    stringField(req, "input"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	fields := map[string]any{"response": responseToMap(out.Response)}
	if out.Character != nil {
		fields["character"] = characterToMap(out.Character)
	}
	return reply(fields)
}

// CreateParty forms a party led by the caller
func (h *Handler) CreateParty(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := required(req, "leader_id", "campaign_id"); err != nil {
		return nil, err
	}

	out, err := h.partyService.CreateParty(ctx, &party.CreatePartyInput{
		LeaderID:   stringField(req, "leader_id"),
		CampaignID: stringField(req, "campaign_id"),
		Name:       stringField(req, "name"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return reply(map[string]any{
		"party":    partyToMap(out.Party),
		"response": responseToMap(out.Response),
	})
}

// Invite invites a player into a party
func (h *Handler) Invite(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := required(req, "party_id", "inviter_id", "invited_id"); err != nil {
		return nil, err
	}

	out, err := h.partyService.Invite(ctx, &party.InviteInput{
		PartyID:   stringField(req, "party_id"),
		InviterID: stringField(req, "inviter_id"),
		InvitedID: stringField(req, "invited_id"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return reply(map[string]any{"invitation": invitationToMap(out.Invitation)})
}

// RespondToInvitation accepts or declines an invitation
func (h *Handler) RespondToInvitation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := required(req, "player_id", "party_id"); err != nil {
		return nil, err
	}

	out, err := h.partyService.RespondToInvitation(ctx, &party.RespondToInvitationInput{
		PlayerID: stringField(req, "player_id"),
		PartyID:  stringField(req, "party_id"),
		Accept:   boolField(req, "accept"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return reply(map[string]any{
		"invitation": invitationToMap(out.Invitation),
		"party":      partyToMap(out.Party),
	})
}

// ListInvitations lists a player's pending invitations
func (h *Handler) ListInvitations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := required(req, "player_id"); err != nil {
		return nil, err
	}

	out, err := h.partyService.ListInvitations(ctx, &party.ListInvitationsInput{PlayerID: stringField(req, "player_id")})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	invitations := make([]any, 0, len(out.Invitations))
	for _, inv := range out.Invitations {
		invitations = append(invitations, invitationToMap(inv))
	}
	return reply(map[string]any{"invitations": invitations})
}

// GetParty returns a party with its members
func (h *Handler) GetParty(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := required(req, "party_id"); err != nil {
		return nil, err
	}

	out, err := h.partyService.GetParty(ctx, &party.GetPartyInput{PartyID: stringField(req, "party_id")})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	members := make([]any, 0, len(out.Members))
	for _, c := range out.Members {
		members = append(members, characterToMap(c))
	}
	return reply(map[string]any{
		"party":   partyToMap(out.Party),
		"members": members,
	})
}

// SubmitPartyInput processes input from the player whose turn it is
func (h *Handler) SubmitPartyInput(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := required(req, "player_id"); err != nil {
		return nil, err
	}

	out, err := h.partyService.Submit(ctx, &party.SubmitInput{
		PlayerID: stringField(req, "player_id"),
		Input:    stringField(req, "input"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	fields := map[string]any{"response": responseToMap(out.Response)}
	if out.Party != nil {
		fields["party"] = partyToMap(out.Party)
	}
	return reply(fields)
}
