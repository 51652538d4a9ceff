package v1alpha1_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/errors"
	"github.com/KirkDiggler/rpg-narrative/internal/handlers/narrative/v1alpha1"
	"github.com/KirkDiggler/rpg-narrative/internal/orchestrators/party"
	partymock "github.com/KirkDiggler/rpg-narrative/internal/orchestrators/party/mock"
	"github.com/KirkDiggler/rpg-narrative/internal/orchestrators/traversal"
	traversalmock "github.com/KirkDiggler/rpg-narrative/internal/orchestrators/traversal/mock"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockTraversal *traversalmock.MockService
	mockParty     *partymock.MockService
	handler       *v1alpha1.Handler
	ctx           context.Context
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockTraversal = traversalmock.NewMockService(s.ctrl)
	s.mockParty = partymock.NewMockService(s.ctrl)
	s.ctx = context.Background()

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		TraversalService: s.mockTraversal,
		PartyService:     s.mockParty,
	})
	s.Require().NoError(err)
	s.handler = handler
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) request(fields map[string]any) *structpb.Struct {
	req, err := structpb.NewStruct(fields)
	s.Require().NoError(err)
	return req
}

func (s *HandlerTestSuite) TestNewHandler_Validation() {
	_, err := v1alpha1.NewHandler(nil)
	s.Error(err)

	_, err = v1alpha1.NewHandler(&v1alpha1.HandlerConfig{TraversalService: s.mockTraversal})
	s.Error(err)
	s.Contains(err.Error(), "PartyService")
}

func (s *HandlerTestSuite) TestSubmitInput_Success() {
	s.mockTraversal.EXPECT().
		Submit(s.ctx, &traversal.SubmitInput{PlayerID: "alice", Input: "1"}).
		Return(&traversal.SubmitOutput{
			Response: entities.Response{
				Type:       entities.ResponseNormal,
				Message:    "A dark cave.",
				Choices:    []string{"1. Enter", "2. Leave"},
				ScenarioID: "cave",
			},
			Character: &entities.Character{ID: "alice", Health: 90, MaxHealth: 100, Version: 3},
		}, nil)

	resp, err := s.handler.SubmitInput(s.ctx, s.request(map[string]any{
		"player_id": "alice",
		"input":     "1",
	}))
	s.Require().NoError(err)

	out := resp.AsMap()
	response := out["response"].(map[string]any)
	s.Equal("normal", response["type"])
	s.Equal("A dark cave.", response["message"])
	s.Equal([]any{"1. Enter", "2. Leave"}, response["choices"])
	s.Equal("cave", response["scenario_id"])

	character := out["character"].(map[string]any)
	s.Equal("alice", character["id"])
	s.Equal(float64(90), character["health"])
	s.Equal(float64(3), character["version"])
}

func (s *HandlerTestSuite) TestRequiredFields() {
	testCases := []struct {
		name   string
		call   func(context.Context, *structpb.Struct) (*structpb.Struct, error)
		fields map[string]any
		errMsg string
	}{
		{
			name:   "submit without player",
			call:   s.handler.SubmitInput,
			fields: map[string]any{"input": "1"},
			errMsg: "player_id is required",
		},
		{
			name:   "select without campaign",
			call:   s.handler.SelectCampaign,
			fields: map[string]any{"player_id": "alice"},
			errMsg: "campaign_id is required",
		},
		{
			name:   "invite without invitee",
			call:   s.handler.Invite,
			fields: map[string]any{"party_id": "party_1", "inviter_id": "alice"},
			errMsg: "invited_id is required",
		},
		{
			name:   "get party without id",
			call:   s.handler.GetParty,
			fields: map[string]any{},
			errMsg: "party_id is required",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := tc.call(s.ctx, s.request(tc.fields))
			s.Require().Error(err)

			st, ok := status.FromError(err)
			s.Require().True(ok)
			s.Equal(codes.InvalidArgument, st.Code())
			s.Contains(st.Message(), tc.errMsg)
		})
	}
}

func (s *HandlerTestSuite) TestServiceErrorsMapToGRPC() {
	s.mockParty.EXPECT().
		Submit(s.ctx, &party.SubmitInput{PlayerID: "bob", Input: "1"}).
		Return(nil, errors.Aborted("party was modified concurrently"))

	_, err := s.handler.SubmitPartyInput(s.ctx, s.request(map[string]any{
		"player_id": "bob",
		"input":     "1",
	}))
	s.Require().Error(err)

	st, ok := status.FromError(err)
	s.Require().True(ok)
	s.Equal(codes.Aborted, st.Code())
}

func (s *HandlerTestSuite) TestListCampaigns() {
	s.mockTraversal.EXPECT().
		ListCampaigns(s.ctx, &traversal.ListCampaignsInput{}).
		Return(&traversal.ListCampaignsOutput{
			Campaigns: []*entities.Campaign{
				{ID: "goblin_caves", Name: "The Goblin Caves", StartScenarioID: "cave_entrance"},
				{ID: "haunted_manor", Name: "The Haunted Manor", StartScenarioID: "manor_gate"},
			},
		}, nil)

	resp, err := s.handler.ListCampaigns(s.ctx, s.request(nil))
	s.Require().NoError(err)

	campaigns := resp.AsMap()["campaigns"].([]any)
	s.Require().Len(campaigns, 2)
	s.Equal("goblin_caves", campaigns[0].(map[string]any)["id"])
	s.Equal("manor_gate", campaigns[1].(map[string]any)["start_scenario_id"])
}

func (s *HandlerTestSuite) TestRespondToInvitation() {
	s.mockParty.EXPECT().
		RespondToInvitation(s.ctx, &party.RespondToInvitationInput{PlayerID: "bob", PartyID: "party_1", Accept: true}).
		Return(&party.RespondToInvitationOutput{
			Invitation: &entities.Invitation{
				PartyID:         "party_1",
				InvitedPlayerID: "bob",
				InviterID:       "alice",
				Status:          entities.InvitationAccepted,
			},
			Party: &entities.Party{
				ID:                  "party_1",
				LeaderID:            "alice",
				MemberIDs:           []string{"alice", "bob"},
				CurrentTurnPlayerID: "alice",
				Status:              entities.PartyStatusActive,
			},
		}, nil)

	resp, err := s.handler.RespondToInvitation(s.ctx, s.request(map[string]any{
		"player_id": "bob",
		"party_id":  "party_1",
		"accept":    true,
	}))
	s.Require().NoError(err)

	out := resp.AsMap()
	s.Equal("accepted", out["invitation"].(map[string]any)["status"])
	s.Equal([]any{"alice", "bob"}, out["party"].(map[string]any)["member_ids"])
}

func (s *HandlerTestSuite) TestRoundTripOverGRPC() {
	lis := bufconn.Listen(1024 * 1024)
	server := grpc.NewServer()
	v1alpha1.RegisterNarrativeServiceServer(server, s.handler)
	go func() {
		_ = server.Serve(lis)
	}()
	defer server.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	defer func() { _ = conn.Close() }()

	client := v1alpha1.NewClient(conn)

	s.mockTraversal.EXPECT().
		Start(gomock.Any(), &traversal.StartInput{PlayerID: "alice"}).
		Return(&traversal.StartOutput{
			Response: entities.Response{Type: entities.ResponseNormal, Message: "You wake up."},
		}, nil)

	resp, err := client.Call(s.ctx, v1alpha1.MethodStartSession, map[string]any{"player_id": "alice"})
	s.Require().NoError(err)
	s.Equal("You wake up.", resp.AsMap()["response"].(map[string]any)["message"])

	s.mockParty.EXPECT().
		Invite(gomock.Any(), &party.InviteInput{PartyID: "party_1", InviterID: "bob", InvitedID: "cara"}).
		Return(nil, errors.PermissionDenied("only the party leader can invite").
			WithReason(party.ReasonNotPartyLeader))

	_, err = client.Call(s.ctx, v1alpha1.MethodInvite, map[string]any{
		"party_id":   "party_1",
		"inviter_id": "bob",
		"invited_id": "cara",
	})
	s.Require().Error(err)

	converted := errors.FromGRPCError(err)
	s.True(errors.IsPermissionDenied(converted))
	s.Equal(party.ReasonNotPartyLeader, errors.GetReason(converted))
}
