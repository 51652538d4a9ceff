package party_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/errors"
	"github.com/KirkDiggler/rpg-narrative/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-narrative/internal/repositories/party"
	"github.com/KirkDiggler/rpg-narrative/internal/testutils"
	"github.com/KirkDiggler/rpg-narrative/internal/testutils/builders"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	cleanup func()
	clock   *clock.Fixed
	repo    party.Repository
	ctx     context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.clock = clock.NewFixed(time.Unix(1_700_000_000, 0))

	repo, err := party.NewRedis(&party.RedisConfig{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) createParty() *entities.Party {
	out, err := s.repo.Create(s.ctx, party.CreateInput{
		Party: builders.NewPartyBuilder("party_1", "alice", "castle").WithMembers("bob").Build(),
	})
	s.Require().NoError(err)
	return out.Party
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	created := s.createParty()
	s.Equal(int64(1), created.Version)

	out, err := s.repo.Get(s.ctx, party.GetInput{PartyID: "party_1"})
	s.Require().NoError(err)
	s.Equal([]string{"alice", "bob"}, out.Party.MemberIDs)
	s.Equal("alice", out.Party.CurrentTurnPlayerID)
	s.Equal(entities.PartyStatusActive, out.Party.Status)

	_, err = s.repo.Create(s.ctx, party.CreateInput{Party: created})
	s.True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositoryTestSuite) TestCreateValidatesMembership() {
	p := builders.NewPartyBuilder("party_2", "alice", "castle").WithTurn("mallory").Build()
	_, err := s.repo.Create(s.ctx, party.CreateInput{Party: p})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Create(s.ctx, party.CreateInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, party.GetInput{PartyID: "nope"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestUpdate() {
	p := s.createParty()
	p.SharedScenarioID = "forest_knight"
	p.CurrentTurnPlayerID = "bob"

	out, err := s.repo.Update(s.ctx, party.UpdateInput{Party: p})
	s.Require().NoError(err)
	s.Equal(int64(2), out.Party.Version)

	got, err := s.repo.Get(s.ctx, party.GetInput{PartyID: p.ID})
	s.Require().NoError(err)
	s.Equal("forest_knight", got.Party.SharedScenarioID)
	s.Equal("bob", got.Party.CurrentTurnPlayerID)
}

func (s *RedisRepositoryTestSuite) TestUpdateRejectsStaleVersion() {
	p := s.createParty()
	stale := p.Clone()

	p.SharedScenarioID = "mountains"
	_, err := s.repo.Update(s.ctx, party.UpdateInput{Party: p})
	s.Require().NoError(err)

	stale.SharedScenarioID = "cave"
	_, err = s.repo.Update(s.ctx, party.UpdateInput{Party: &stale})
	s.True(errors.IsAborted(err))

	got, err := s.repo.Get(s.ctx, party.GetInput{PartyID: p.ID})
	s.Require().NoError(err)
	s.Equal("mountains", got.Party.SharedScenarioID)
}

func (s *RedisRepositoryTestSuite) TestUpdateMissing() {
	p := builders.NewPartyBuilder("ghost", "alice", "castle").Build()
	_, err := s.repo.Update(s.ctx, party.UpdateInput{Party: p})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestInvitationLifecycle() {
	_, err := s.repo.CreateInvitation(s.ctx, party.CreateInvitationInput{
		PartyID: "party_1", InvitedPlayerID: "carol", InviterID: "alice",
	})
	s.Require().NoError(err)

	s.clock.Advance(time.Second)
	_, err = s.repo.CreateInvitation(s.ctx, party.CreateInvitationInput{
		PartyID: "party_2", InvitedPlayerID: "carol", InviterID: "dave",
	})
	s.Require().NoError(err)

	list, err := s.repo.ListPendingInvitations(s.ctx, party.ListPendingInvitationsInput{PlayerID: "carol"})
	s.Require().NoError(err)
	s.Require().Len(list.Invitations, 2)
	s.Equal("party_2", list.Invitations[0].PartyID, "newest first")

	out, err := s.repo.UpdateInvitationStatus(s.ctx, party.UpdateInvitationStatusInput{
		PartyID: "party_1", PlayerID: "carol", Status: entities.InvitationDeclined,
	})
	s.Require().NoError(err)
	s.Equal(entities.InvitationDeclined, out.Invitation.Status)

	_, err = s.repo.UpdateInvitationStatus(s.ctx, party.UpdateInvitationStatusInput{
		PartyID: "party_1", PlayerID: "carol", Status: entities.InvitationAccepted,
	})
	s.True(errors.IsFailedPrecondition(err), "resolved invitations cannot be resolved again")

	list, err = s.repo.ListPendingInvitations(s.ctx, party.ListPendingInvitationsInput{PlayerID: "carol"})
	s.Require().NoError(err)
	s.Require().Len(list.Invitations, 1)
	s.Equal("party_2", list.Invitations[0].PartyID)
}

func (s *RedisRepositoryTestSuite) TestReinviteReplacesEarlierInvitation() {
	in := party.CreateInvitationInput{PartyID: "party_1", InvitedPlayerID: "carol", InviterID: "alice"}
	_, err := s.repo.CreateInvitation(s.ctx, in)
	s.Require().NoError(err)

	_, err = s.repo.UpdateInvitationStatus(s.ctx, party.UpdateInvitationStatusInput{
		PartyID: "party_1", PlayerID: "carol", Status: entities.InvitationDeclined,
	})
	s.Require().NoError(err)

	_, err = s.repo.CreateInvitation(s.ctx, in)
	s.Require().NoError(err)

	got, err := s.repo.GetInvitation(s.ctx, party.GetInvitationInput{PartyID: "party_1", PlayerID: "carol"})
	s.Require().NoError(err)
	s.True(got.Invitation.IsPending())

	list, err := s.repo.ListPendingInvitations(s.ctx, party.ListPendingInvitationsInput{PlayerID: "carol"})
	s.Require().NoError(err)
	s.Len(list.Invitations, 1)
}

func (s *RedisRepositoryTestSuite) TestInvitationErrors() {
	_, err := s.repo.GetInvitation(s.ctx, party.GetInvitationInput{PartyID: "party_1", PlayerID: "zed"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.UpdateInvitationStatus(s.ctx, party.UpdateInvitationStatusInput{
		PartyID: "party_1", PlayerID: "zed", Status: entities.InvitationAccepted,
	})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.UpdateInvitationStatus(s.ctx, party.UpdateInvitationStatusInput{
		PartyID: "party_1", PlayerID: "zed", Status: entities.InvitationPending,
	})
	s.True(errors.IsInvalidArgument(err))

	list, err := s.repo.ListPendingInvitations(s.ctx, party.ListPendingInvitationsInput{PlayerID: "zed"})
	s.Require().NoError(err)
	s.Empty(list.Invitations)
}
