package session_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/orchestrators/session"
	"github.com/KirkDiggler/rpg-narrative/internal/testutils/builders"
)

type SessionTestSuite struct {
	suite.Suite
	builder *session.Builder
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func (s *SessionTestSuite) SetupTest() {
	s.builder = session.NewBuilder(entities.DefaultCatalog())
}

func (s *SessionTestSuite) TestParseCommand() {
	for input, expected := range map[string]session.Command{
		"help":       session.CommandHelp,
		"  STATUS ":  session.CommandStatus,
		"Inventory":  session.CommandInventory,
		"eXiT":       session.CommandExit,
	} {
		cmd, ok := session.ParseCommand(input)
		s.True(ok, input)
		s.Equal(expected, cmd)
	}

	_, ok := session.ParseCommand("1")
	s.False(ok)
	_, ok = session.ParseCommand("helpme")
	s.False(ok)
}

func (s *SessionTestSuite) TestParseChoice() {
	testCases := []struct {
		input string
		count int
		index int
		key   entities.ErrorKey
	}{
		{input: "1", count: 2, index: 0},
		{input: " 2 ", count: 2, index: 1},
		{input: "abc", count: 2, key: entities.ErrorKeyInvalidInput},
		{input: "", count: 2, key: entities.ErrorKeyInvalidInput},
		{input: "1.5", count: 2, key: entities.ErrorKeyInvalidInput},
		{input: "99", count: 2, key: entities.ErrorKeyInvalidChoice},
		{input: "0", count: 2, key: entities.ErrorKeyInvalidChoice},
		{input: "-1", count: 2, key: entities.ErrorKeyInvalidChoice},
	}

	for _, tc := range testCases {
		s.Run(tc.input, func() {
			index, key := session.ParseChoice(tc.input, tc.count)
			s.Equal(tc.key, key)
			s.Equal(tc.index, index)
		})
	}
}

func (s *SessionTestSuite) TestScenarioResponse() {
	sc := &entities.Scenario{ID: "start", Description: "Crossroads", Choices: []entities.Choice{{Text: "Left"}, {Text: "Right"}}}
	hero := builders.NewCharacterBuilder("p1").WithName("Aria").Build()

	resp := s.builder.Scenario(sc, "", hero)
	s.Equal(entities.ResponseNormal, resp.Type)
	s.Equal("Crossroads", resp.Message)
	s.Equal([]string{"Left", "Right"}, resp.Choices)
	s.Equal("Hero: Aria | HP: 100/100 | Level: 1 | Items: none", resp.PlayerStatus)
	s.Equal(entities.ErrorKeyNone, resp.ErrorKey)
	s.Equal("start", resp.ScenarioID)
}

func (s *SessionTestSuite) TestPartyStatusIsAggregated() {
	a := builders.NewCharacterBuilder("a").WithName("Aria").Build()
	b := builders.NewCharacterBuilder("b").WithName("Bram").WithHealth(40).WithItems("sword").Build()

	resp := s.builder.Command(session.CommandStatus, a, b)
	s.Equal(entities.ResponseStatus, resp.Type)
	s.Equal("Hero: Aria | HP: 100/100 | Level: 1 | Items: none\n"+
		"Hero: Bram | HP: 40/100 | Level: 1 | Items: Steel Sword", resp.PlayerStatus)
	s.Contains(resp.Message, "Bram")
}

func (s *SessionTestSuite) TestInventory() {
	empty := builders.NewCharacterBuilder("a").Build()
	s.Equal(session.MessageEmptyInventory, s.builder.Command(session.CommandInventory, empty).Message)

	full := builders.NewCharacterBuilder("b").WithItems("health_potion", "relic").Build()
	resp := s.builder.Command(session.CommandInventory, full)
	s.Equal(entities.ResponseInventory, resp.Type)
	s.Equal("Your inventory:\n- Health Potion - Restores 20 HP (potion)\n- relic", resp.Message)
}

func (s *SessionTestSuite) TestErrors() {
	sc := &entities.Scenario{ID: "x", Choices: []entities.Choice{{Text: "Only"}}}

	resp := s.builder.InputError(entities.ErrorKeyInvalidInput, sc)
	s.True(resp.IsError())
	s.Equal(session.MessageInvalidInput, resp.Message)
	s.Equal([]string{"Only"}, resp.Choices)

	s.Equal(entities.ErrorKeyPlayerNotFound, s.builder.PlayerNotFound().ErrorKey)
	s.Equal(entities.ErrorKeyNotYourTurn, s.builder.NotYourTurn("bob").ErrorKey)
	s.Equal(entities.ErrorKeyPartyNotActive, s.builder.PartyNotActive().ErrorKey)
	s.Equal(entities.ErrorKeyInParty, s.builder.InParty().ErrorKey)
	s.Equal(entities.ResponseExit, s.builder.Command(session.CommandExit).Type)
	s.Equal(entities.ResponseHelp, s.builder.Command(session.CommandHelp).Type)
}
