package party_test

import (
	"context"
	"testing"

	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-narrative/internal/engine"
	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/errors"
	"github.com/KirkDiggler/rpg-narrative/internal/events"
	"github.com/KirkDiggler/rpg-narrative/internal/orchestrators/party"
	"github.com/KirkDiggler/rpg-narrative/internal/orchestrators/session"
	"github.com/KirkDiggler/rpg-narrative/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-narrative/internal/pkg/keylock"
	characterrepo "github.com/KirkDiggler/rpg-narrative/internal/repositories/character"
	"github.com/KirkDiggler/rpg-narrative/internal/repositories/content"
	partyrepo "github.com/KirkDiggler/rpg-narrative/internal/repositories/party"
	"github.com/KirkDiggler/rpg-narrative/internal/testutils"
	"github.com/KirkDiggler/rpg-narrative/internal/testutils/builders"
)

const (
	leaderID = "alice"
	memberB  = "bob"
	memberC  = "cara"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx           context.Context
	cleanup       func()
	characterRepo characterrepo.Repository
	partyRepo     partyrepo.Repository
	orchestrator  party.Service
	publisher     *events.Publisher
	published     []string
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()

	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	var err error
	s.characterRepo, err = characterrepo.NewRedis(&characterrepo.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.partyRepo, err = partyrepo.NewRedis(&partyrepo.RedisConfig{Client: client})
	s.Require().NoError(err)

	bus := rpgevents.NewBus()
	s.published = nil
	for _, eventType := range []string{events.EventPartyTurnAdvanced, events.EventPartyEnded, events.EventCharacterDied} {
		bus.SubscribeFunc(eventType, 0, func(_ context.Context, e rpgevents.Event) error {
			s.published = append(s.published, e.Type())
			return nil
		})
	}

	s.publisher = events.NewPublisher(bus)
	s.orchestrator = s.newOrchestrator(s.partyRepo, s.characterRepo)
}

func (s *OrchestratorTestSuite) newOrchestrator(partyRepo partyrepo.Repository, characterRepo characterrepo.Repository) party.Service {
	orch, err := party.NewOrchestrator(&party.Config{
		PartyRepo:     partyRepo,
		CharacterRepo: characterRepo,
		ContentRepo: content.NewMemoryFromEntities(
			testutils.ScenarioStart, testutils.FixtureScenarios(), testutils.FixtureCampaigns()),
		Resolver:    engine.NewDefault(),
		Catalog:     entities.DefaultCatalog(),
		Locker:      keylock.New(),
		IDGenerator: idgen.NewSequential("party"),
		Events:      s.publisher,
	})
	s.Require().NoError(err)
	return orch
}

// failingUpdates rejects the next few party updates as stale
type failingUpdates struct {
	partyrepo.Repository
	remaining int
}

func (r *failingUpdates) Update(ctx context.Context, input partyrepo.UpdateInput) (*partyrepo.UpdateOutput, error) {
	if r.remaining > 0 {
		r.remaining--
		return nil, errors.Aborted("party moved on")
	}
	return r.Repository.Update(ctx, input)
}

// failingSave rejects saves of one player until disarmed
type failingSave struct {
	characterrepo.Repository
	playerID string
	armed    bool
}

func (r *failingSave) Save(ctx context.Context, input characterrepo.SaveInput) (*characterrepo.SaveOutput, error) {
	if r.armed && input.Character.ID == r.playerID {
		r.armed = false
		return nil, errors.Unavailable("redis down")
	}
	return r.Repository.Save(ctx, input)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *OrchestratorTestSuite) seed(b *builders.CharacterBuilder) {
	_, err := s.characterRepo.Create(s.ctx, characterrepo.CreateInput{Character: b.Build()})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) character(id string) *entities.Character {
	out, err := s.characterRepo.Get(s.ctx, characterrepo.GetInput{PlayerID: id})
	s.Require().NoError(err)
	return out.Character
}

func (s *OrchestratorTestSuite) party(id string) *entities.Party {
	out, err := s.partyRepo.Get(s.ctx, partyrepo.GetInput{PartyID: id})
	s.Require().NoError(err)
	return out.Party
}

// createParty seeds every player and forms a party led by the first
func (s *OrchestratorTestSuite) createParty(players ...*builders.CharacterBuilder) *entities.Party {
	for _, p := range players {
		s.seed(p)
	}

	leader := players[0].Build().ID
	out, err := s.orchestrator.CreateParty(s.ctx, &party.CreatePartyInput{
		LeaderID:   leader,
		CampaignID: testutils.CampaignTest,
	})
	s.Require().NoError(err)

	for _, p := range players[1:] {
		id := p.Build().ID
		_, err := s.orchestrator.Invite(s.ctx, &party.InviteInput{PartyID: out.Party.ID, InviterID: leader, InvitedID: id})
		s.Require().NoError(err)
		_, err = s.orchestrator.RespondToInvitation(s.ctx, &party.RespondToInvitationInput{
			PlayerID: id, PartyID: out.Party.ID, Accept: true,
		})
		s.Require().NoError(err)
	}

	s.published = nil
	return s.party(out.Party.ID)
}

func (s *OrchestratorTestSuite) submit(playerID, input string) *party.SubmitOutput {
	out, err := s.orchestrator.Submit(s.ctx, &party.SubmitInput{PlayerID: playerID, Input: input})
	s.Require().NoError(err)
	return out
}

func (s *OrchestratorTestSuite) TestCreateParty() {
	s.seed(builders.NewCharacterBuilder(leaderID).WithName("Alice"))

	out, err := s.orchestrator.CreateParty(s.ctx, &party.CreatePartyInput{
		LeaderID:   leaderID,
		CampaignID: testutils.CampaignTest,
	})
	s.Require().NoError(err)

	s.Equal("party_1", out.Party.ID)
	s.Equal("Alice's party", out.Party.Name)
	s.Equal([]string{leaderID}, out.Party.MemberIDs)
	s.Equal(leaderID, out.Party.CurrentTurnPlayerID)
	s.Equal(testutils.ScenarioForest, out.Party.SharedScenarioID)
	s.Equal(entities.PartyStatusActive, out.Party.Status)
	s.Equal(entities.ResponseNormal, out.Response.Type)
	s.Equal(testutils.ScenarioForest, out.Response.ScenarioID)

	c := s.character(leaderID)
	s.Equal("party_1", c.PartyID)
	s.Equal(testutils.ScenarioForest, c.CurrentScenarioID)
	s.Equal(14, c.Stat("stealth"))
}

func (s *OrchestratorTestSuite) TestCreatePartyRequiresLeaderAndCampaign() {
	_, err := s.orchestrator.CreateParty(s.ctx, &party.CreatePartyInput{LeaderID: "ghost", CampaignID: testutils.CampaignTest})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))

	s.seed(builders.NewCharacterBuilder(leaderID))
	_, err = s.orchestrator.CreateParty(s.ctx, &party.CreatePartyInput{LeaderID: leaderID, CampaignID: "nope"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))

	_, err = s.orchestrator.CreateParty(s.ctx, &party.CreatePartyInput{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestCreatePartyWhileInActiveParty() {
	s.createParty(builders.NewCharacterBuilder(leaderID))

	_, err := s.orchestrator.CreateParty(s.ctx, &party.CreatePartyInput{LeaderID: leaderID, CampaignID: testutils.CampaignTest})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
	s.Equal(party.ReasonAlreadyInParty, errors.GetReason(err))
}

func (s *OrchestratorTestSuite) TestInviteRequiresLeader() {
	p := s.createParty(builders.NewCharacterBuilder(leaderID), builders.NewCharacterBuilder(memberB))
	s.seed(builders.NewCharacterBuilder(memberC))

	_, err := s.orchestrator.Invite(s.ctx, &party.InviteInput{PartyID: p.ID, InviterID: memberB, InvitedID: memberC})
	s.Require().Error(err)
	s.True(errors.IsPermissionDenied(err))
	s.Equal(party.ReasonNotPartyLeader, errors.GetReason(err))

	invites, err := s.orchestrator.ListInvitations(s.ctx, &party.ListInvitationsInput{PlayerID: memberC})
	s.Require().NoError(err)
	s.Empty(invites.Invitations)
}

func (s *OrchestratorTestSuite) TestInviteExistingMember() {
	p := s.createParty(builders.NewCharacterBuilder(leaderID), builders.NewCharacterBuilder(memberB))

	_, err := s.orchestrator.Invite(s.ctx, &party.InviteInput{PartyID: p.ID, InviterID: leaderID, InvitedID: memberB})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *OrchestratorTestSuite) TestDeclineDoesNotAddMember() {
	p := s.createParty(builders.NewCharacterBuilder(leaderID))
	s.seed(builders.NewCharacterBuilder(memberB))

	_, err := s.orchestrator.Invite(s.ctx, &party.InviteInput{PartyID: p.ID, InviterID: leaderID, InvitedID: memberB})
	s.Require().NoError(err)

	invites, err := s.orchestrator.ListInvitations(s.ctx, &party.ListInvitationsInput{PlayerID: memberB})
	s.Require().NoError(err)
	s.Require().Len(invites.Invitations, 1)
	s.Equal(p.ID, invites.Invitations[0].PartyID)

	out, err := s.orchestrator.RespondToInvitation(s.ctx, &party.RespondToInvitationInput{
		PlayerID: memberB, PartyID: p.ID, Accept: false,
	})
	s.Require().NoError(err)
	s.Equal(entities.InvitationDeclined, out.Invitation.Status)
	s.Equal([]string{leaderID}, s.party(p.ID).MemberIDs)
	s.Empty(s.character(memberB).PartyID)

	invites, err = s.orchestrator.ListInvitations(s.ctx, &party.ListInvitationsInput{PlayerID: memberB})
	s.Require().NoError(err)
	s.Empty(invites.Invitations)
}

func (s *OrchestratorTestSuite) TestAcceptJoinsAtEndOfRotation() {
	p := s.createParty(builders.NewCharacterBuilder(leaderID), builders.NewCharacterBuilder(memberB))
	s.seed(builders.NewCharacterBuilder(memberC).AtScenario(testutils.ScenarioStart))

	_, err := s.orchestrator.Invite(s.ctx, &party.InviteInput{PartyID: p.ID, InviterID: leaderID, InvitedID: memberC})
	s.Require().NoError(err)

	out, err := s.orchestrator.RespondToInvitation(s.ctx, &party.RespondToInvitationInput{
		PlayerID: memberC, PartyID: p.ID, Accept: true,
	})
	s.Require().NoError(err)
	s.Equal(entities.InvitationAccepted, out.Invitation.Status)
	s.Equal([]string{leaderID, memberB, memberC}, out.Party.MemberIDs)
	s.Equal(leaderID, out.Party.CurrentTurnPlayerID)

	c := s.character(memberC)
	s.Equal(p.ID, c.PartyID)
	s.Equal(testutils.ScenarioForest, c.CurrentScenarioID)

	_, err = s.orchestrator.RespondToInvitation(s.ctx, &party.RespondToInvitationInput{
		PlayerID: memberC, PartyID: p.ID, Accept: true,
	})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestRespondWithoutInvitation() {
	p := s.createParty(builders.NewCharacterBuilder(leaderID))
	s.seed(builders.NewCharacterBuilder(memberB))

	_, err := s.orchestrator.RespondToInvitation(s.ctx, &party.RespondToInvitationInput{
		PlayerID: memberB, PartyID: p.ID, Accept: true,
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestOutOfTurn() {
	p := s.createParty(builders.NewCharacterBuilder(leaderID), builders.NewCharacterBuilder(memberB).WithName("Bob"))

	out := s.submit(memberB, "2")
	s.Equal(entities.ResponseError, out.Response.Type)
	s.Equal(entities.ErrorKeyNotYourTurn, out.Response.ErrorKey)

	s.submit(leaderID, "2")

	out = s.submit(leaderID, "2")
	s.Equal(entities.ErrorKeyNotYourTurn, out.Response.ErrorKey)
	s.Contains(out.Response.Message, "Bob")

	stored := s.party(p.ID)
	s.Equal(memberB, stored.CurrentTurnPlayerID)
	s.Equal(int64(p.Version+1), stored.Version)
}

func (s *OrchestratorTestSuite) TestRotationReturnsToStart() {
	p := s.createParty(
		builders.NewCharacterBuilder(leaderID),
		builders.NewCharacterBuilder(memberB),
		builders.NewCharacterBuilder(memberC),
	)

	order := []string{leaderID, memberB, memberC}
	for i, player := range order {
		out := s.submit(player, "2")
		s.Equal(entities.ResponseNormal, out.Response.Type)
		s.Equal(order[(i+1)%len(order)], out.Party.CurrentTurnPlayerID)
	}

	s.Equal(leaderID, s.party(p.ID).CurrentTurnPlayerID)
	s.Equal([]string{
		events.EventPartyTurnAdvanced,
		events.EventPartyTurnAdvanced,
		events.EventPartyTurnAdvanced,
	}, s.published)
}

func (s *OrchestratorTestSuite) TestEffectAppliesToEveryMember() {
	p := s.createParty(
		builders.NewCharacterBuilder(leaderID).WithHealth(50),
		builders.NewCharacterBuilder(memberB).WithHealth(30),
	)

	out := s.submit(leaderID, "2")

	s.Equal(entities.ResponseNormal, out.Response.Type)
	s.Equal(70, s.character(leaderID).Health)
	s.Equal(50, s.character(memberB).Health)
	s.Equal(testutils.ScenarioForest, s.party(p.ID).SharedScenarioID)
	s.Contains(out.Response.PlayerStatus, "HP: 70/100")
	s.Contains(out.Response.PlayerStatus, "HP: 50/100")
}

func (s *OrchestratorTestSuite) TestOneDeathDoesNotEndParty() {
	p := s.createParty(
		builders.NewCharacterBuilder(leaderID),
		builders.NewCharacterBuilder(memberB).WithHealth(20),
	)

	// alice has campaign stealth 14 and passes; bob has 10 and takes 20
	out := s.submit(leaderID, "1")

	s.Equal(entities.ResponseNormal, out.Response.Type)
	s.Equal(100, s.character(leaderID).Health)
	s.Equal(0, s.character(memberB).Health)

	stored := s.party(p.ID)
	s.True(stored.IsActive())
	s.Equal(testutils.ScenarioCave, stored.SharedScenarioID)
	s.Equal(memberB, stored.CurrentTurnPlayerID)
	s.Equal([]string{events.EventCharacterDied, events.EventPartyTurnAdvanced}, s.published)
}

func (s *OrchestratorTestSuite) TestRetriedTurnAppliesEffectOnce() {
	p := s.createParty(
		builders.NewCharacterBuilder(leaderID),
		builders.NewCharacterBuilder(memberB),
	)
	orch := s.newOrchestrator(&failingUpdates{Repository: s.partyRepo, remaining: 1}, s.characterRepo)

	// bob fails the stealth check and takes 20 before the party write is lost
	_, err := orch.Submit(s.ctx, &party.SubmitInput{PlayerID: leaderID, Input: "1"})
	s.Require().Error(err)
	s.True(errors.IsAborted(err))
	s.True(errors.IsRetryable(err))
	s.Equal(80, s.character(memberB).Health)

	stored := s.party(p.ID)
	s.Equal(testutils.ScenarioForest, stored.SharedScenarioID)
	s.Equal(leaderID, stored.CurrentTurnPlayerID)
	s.Equal(int64(0), stored.Turn)

	out, err := orch.Submit(s.ctx, &party.SubmitInput{PlayerID: leaderID, Input: "1"})
	s.Require().NoError(err)
	s.Equal(entities.ResponseNormal, out.Response.Type)

	s.Equal(100, s.character(leaderID).Health)
	s.Equal(80, s.character(memberB).Health)

	stored = s.party(p.ID)
	s.Equal(testutils.ScenarioCave, stored.SharedScenarioID)
	s.Equal(memberB, stored.CurrentTurnPlayerID)
	s.Equal(int64(1), stored.Turn)
	for _, id := range stored.MemberIDs {
		c := s.character(id)
		s.Equal(testutils.ScenarioCave, c.CurrentScenarioID)
		s.Equal(stored.Turn, c.PartyTurn)
	}

	// the next turn resolves normally again
	s.Equal(entities.ResponseNormal, s.submit(memberB, "1").Response.Type)
	s.Equal([]string{"key"}, s.character(leaderID).Inventory)
	s.Equal(int64(2), s.party(p.ID).Turn)
}

func (s *OrchestratorTestSuite) TestRetryAfterMemberSaveFailure() {
	p := s.createParty(
		builders.NewCharacterBuilder(leaderID).WithHealth(50),
		builders.NewCharacterBuilder(memberB).WithHealth(50),
	)
	orch := s.newOrchestrator(s.partyRepo, &failingSave{Repository: s.characterRepo, playerID: memberB, armed: true})

	_, err := orch.Submit(s.ctx, &party.SubmitInput{PlayerID: leaderID, Input: "2"})
	s.Require().Error(err)
	s.True(errors.IsRetryable(err))
	s.Equal(70, s.character(leaderID).Health)
	s.Equal(50, s.character(memberB).Health)
	s.Equal(int64(0), s.party(p.ID).Turn)

	_, err = orch.Submit(s.ctx, &party.SubmitInput{PlayerID: leaderID, Input: "2"})
	s.Require().NoError(err)
	s.Equal(70, s.character(leaderID).Health)
	s.Equal(70, s.character(memberB).Health)
	s.Equal(int64(1), s.party(p.ID).Turn)
	s.Equal(memberB, s.party(p.ID).CurrentTurnPlayerID)
}

func (s *OrchestratorTestSuite) TestPartyWideDeathEndsParty() {
	p := s.createParty(
		builders.NewCharacterBuilder(leaderID),
		builders.NewCharacterBuilder(memberB),
	)

	out := s.submit(leaderID, "3")

	s.Equal(entities.ResponseDead, out.Response.Type)
	s.Equal(session.MessagePartyDefeated, out.Response.Message)
	s.Equal(entities.PartyStatusEnded, out.Party.Status)

	stored := s.party(p.ID)
	s.Equal(entities.PartyStatusEnded, stored.Status)
	s.Equal(testutils.ScenarioForest, stored.SharedScenarioID)
	s.Equal(leaderID, stored.CurrentTurnPlayerID)
	s.Contains(s.published, events.EventPartyEnded)

	for _, player := range []string{leaderID, memberB} {
		s.Empty(s.character(player).PartyID, "ended party releases its members")
	}

	for _, player := range []string{leaderID, memberB} {
		next := s.submit(player, "1")
		s.Equal(entities.ErrorKeyPartyNotActive, next.Response.ErrorKey)
	}
	s.Equal(stored.Version, s.party(p.ID).Version)
	s.Equal(testutils.ScenarioForest, s.party(p.ID).SharedScenarioID)
}

func (s *OrchestratorTestSuite) TestReservedCommandsShowWholeParty() {
	p := s.createParty(
		builders.NewCharacterBuilder(leaderID).WithName("Alice"),
		builders.NewCharacterBuilder(memberB).WithName("Bob"),
	)

	for range 2 {
		status := s.submit(leaderID, "status")
		s.Equal(entities.ResponseStatus, status.Response.Type)
		s.Contains(status.Response.PlayerStatus, "Hero: Alice")
		s.Contains(status.Response.PlayerStatus, "Hero: Bob")

		s.Equal(entities.ResponseHelp, s.submit(leaderID, "help").Response.Type)
		s.Equal(entities.ResponseInventory, s.submit(leaderID, "inventory").Response.Type)
	}

	stored := s.party(p.ID)
	s.Equal(p.Version, stored.Version)
	s.Equal(leaderID, stored.CurrentTurnPlayerID)
	s.Empty(s.published)
}

func (s *OrchestratorTestSuite) TestInvalidInputDoesNotAdvance() {
	p := s.createParty(builders.NewCharacterBuilder(leaderID), builders.NewCharacterBuilder(memberB))

	s.Equal(entities.ErrorKeyInvalidInput, s.submit(leaderID, "abc").Response.ErrorKey)
	s.Equal(entities.ErrorKeyInvalidChoice, s.submit(leaderID, "99").Response.ErrorKey)

	stored := s.party(p.ID)
	s.Equal(p.Version, stored.Version)
	s.Equal(leaderID, stored.CurrentTurnPlayerID)
}

func (s *OrchestratorTestSuite) TestSubmitWithoutParty() {
	s.seed(builders.NewCharacterBuilder(leaderID))

	out := s.submit(leaderID, "1")
	s.Equal(entities.ErrorKeyPartyNotActive, out.Response.ErrorKey)
	s.Nil(out.Party)

	out = s.submit("ghost", "1")
	s.Equal(entities.ErrorKeyPlayerNotFound, out.Response.ErrorKey)
}

func (s *OrchestratorTestSuite) TestGetParty() {
	p := s.createParty(builders.NewCharacterBuilder(leaderID), builders.NewCharacterBuilder(memberB))

	out, err := s.orchestrator.GetParty(s.ctx, &party.GetPartyInput{PartyID: p.ID})
	s.Require().NoError(err)
	s.Equal(p.ID, out.Party.ID)
	s.Require().Len(out.Members, 2)
	s.Equal(leaderID, out.Members[0].ID)
	s.Equal(memberB, out.Members[1].ID)

	_, err = s.orchestrator.GetParty(s.ctx, &party.GetPartyInput{PartyID: "nope"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestInviteToEndedParty() {
	p := s.createParty(builders.NewCharacterBuilder(leaderID))
	s.seed(builders.NewCharacterBuilder(memberB))
	s.submit(leaderID, "3")

	_, err := s.orchestrator.Invite(s.ctx, &party.InviteInput{PartyID: p.ID, InviterID: leaderID, InvitedID: memberB})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}
