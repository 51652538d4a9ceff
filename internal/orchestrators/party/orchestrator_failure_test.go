package party_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-narrative/internal/engine"
	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/errors"
	"github.com/KirkDiggler/rpg-narrative/internal/orchestrators/party"
	"github.com/KirkDiggler/rpg-narrative/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-narrative/internal/pkg/keylock"
	characterrepo "github.com/KirkDiggler/rpg-narrative/internal/repositories/character"
	charactermock "github.com/KirkDiggler/rpg-narrative/internal/repositories/character/mock"
	"github.com/KirkDiggler/rpg-narrative/internal/repositories/content"
	partyrepo "github.com/KirkDiggler/rpg-narrative/internal/repositories/party"
	partyrepomock "github.com/KirkDiggler/rpg-narrative/internal/repositories/party/mock"
	"github.com/KirkDiggler/rpg-narrative/internal/testutils"
	"github.com/KirkDiggler/rpg-narrative/internal/testutils/builders"
)

type FailureTestSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	ctx           context.Context
	mockPartyRepo *partyrepomock.MockRepository
	mockCharRepo  *charactermock.MockRepository
	orchestrator  party.Service
	party         *entities.Party
}

func TestFailureSuite(t *testing.T) {
	suite.Run(t, new(FailureTestSuite))
}

func (s *FailureTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	s.mockPartyRepo = partyrepomock.NewMockRepository(s.ctrl)
	s.mockCharRepo = charactermock.NewMockRepository(s.ctrl)

	var err error
	s.orchestrator, err = party.NewOrchestrator(&party.Config{
		PartyRepo:     s.mockPartyRepo,
		CharacterRepo: s.mockCharRepo,
		ContentRepo: content.NewMemoryFromEntities(
			testutils.ScenarioStart, testutils.FixtureScenarios(), testutils.FixtureCampaigns()),
		Resolver:    engine.NewDefault(),
		Catalog:     entities.DefaultCatalog(),
		Locker:      keylock.New(),
		IDGenerator: idgen.NewSequential("party"),
	})
	s.Require().NoError(err)

	s.party = builders.NewPartyBuilder("party_1", leaderID, testutils.ScenarioStart).
		WithMembers(memberB).
		Build()
}

func (s *FailureTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *FailureTestSuite) expectCharacter(id string) {
	s.mockCharRepo.EXPECT().
		Get(gomock.Any(), characterrepo.GetInput{PlayerID: id}).
		Return(&characterrepo.GetOutput{Character: builders.NewCharacterBuilder(id).InParty(s.party.ID).Build()}, nil).
		AnyTimes()
}

func (s *FailureTestSuite) expectParty() {
	s.mockPartyRepo.EXPECT().
		Get(gomock.Any(), partyrepo.GetInput{PartyID: s.party.ID}).
		Return(&partyrepo.GetOutput{Party: s.party}, nil)
}

func (s *FailureTestSuite) TestNewOrchestratorValidatesConfig() {
	_, err := party.NewOrchestrator(&party.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *FailureTestSuite) TestStalePartyUpdateIsAborted() {
	s.expectCharacter(leaderID)
	s.expectCharacter(memberB)
	s.expectParty()
	s.mockCharRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input characterrepo.SaveInput) (*characterrepo.SaveOutput, error) {
			s.Equal(testutils.ScenarioEnd, input.ScenarioID)
			s.Equal(85, input.Character.Health)
			return &characterrepo.SaveOutput{Character: input.Character}, nil
		}).
		Times(2)
	s.mockPartyRepo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		Return(nil, errors.Aborted("party moved on"))

	out, err := s.orchestrator.Submit(s.ctx, &party.SubmitInput{PlayerID: leaderID, Input: "1"})
	s.Require().Error(err)
	s.Nil(out)
	s.True(errors.IsAborted(err))
}

func (s *FailureTestSuite) TestMemberSaveFailureStopsSubmission() {
	s.expectCharacter(leaderID)
	s.expectCharacter(memberB)
	s.expectParty()
	s.mockCharRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil, errors.Internal("redis down"))

	_, err := s.orchestrator.Submit(s.ctx, &party.SubmitInput{PlayerID: leaderID, Input: "1"})
	s.Require().Error(err)
	s.True(errors.IsInternal(err))
}

func (s *FailureTestSuite) TestPartyLoadFailure() {
	s.expectCharacter(leaderID)
	s.mockPartyRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(nil, errors.Internal("redis down"))

	_, err := s.orchestrator.Submit(s.ctx, &party.SubmitInput{PlayerID: leaderID, Input: "1"})
	s.Require().Error(err)
	s.True(errors.IsInternal(err))
}

func (s *FailureTestSuite) TestInviteByMemberIsDenied() {
	s.expectParty()

	_, err := s.orchestrator.Invite(s.ctx, &party.InviteInput{PartyID: s.party.ID, InviterID: memberB, InvitedID: "dan"})
	s.Require().Error(err)
	s.True(errors.IsPermissionDenied(err))
}
