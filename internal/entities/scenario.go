package entities

// Scenario is a node of the scenario graph. A scenario without choices is
// terminal.
type Scenario struct {
	ID          string
	Description string
	Choices     []Choice
}

// Choice is a directed edge to NextScenarioID. RawEffect keeps the authored
// effect string so content tooling can report what failed to parse.
type Choice struct {
	Text           string
	NextScenarioID string
	Effect         Effect
	RawEffect      string
}

// IsTerminal reports whether the scenario has no choices
func (s *Scenario) IsTerminal() bool {
	return len(s.Choices) == 0
}

// ChoiceTexts returns the display text of every choice in order, or nil for
// a terminal scenario.
func (s *Scenario) ChoiceTexts() []string {
	if len(s.Choices) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.Choices))
	for _, c := range s.Choices {
		out = append(out, c.Text)
	}
	return out
}

// EffectDiagnostic records an effect string that did not parse
type EffectDiagnostic struct {
	ScenarioID  string
	ChoiceIndex int
	RawEffect   string
	Reason      string
}
