package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-narrative/internal/logging"
)

type LoggingTestSuite struct {
	suite.Suite
}

func TestLoggingSuite(t *testing.T) {
	suite.Run(t, new(LoggingTestSuite))
}

func (s *LoggingTestSuite) TestJSON() {
	var buf bytes.Buffer
	logger := logging.New(&buf, true, slog.LevelInfo)

	logger.Info("Party created", "party_id", "p1")

	var line map[string]any
	s.Require().NoError(json.Unmarshal(buf.Bytes(), &line))
	s.Equal("Party created", line["msg"])
	s.Equal("p1", line["party_id"])
}

func (s *LoggingTestSuite) TestTextRespectsLevel() {
	var buf bytes.Buffer
	logger := logging.New(&buf, false, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown", "scenario_id", "forest")

	s.NotContains(buf.String(), "hidden")
	s.Contains(buf.String(), "scenario_id=forest")
}
