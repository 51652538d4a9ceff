package entities

import (
	"strconv"
	"strings"
)

// Campaign is an entry point into the scenario graph
type Campaign struct {
	ID              string
	Name            string
	Description     string
	StartScenarioID string
	FactionTag      string
	StartStats      string
}

// Stats parses the campaign's start stats
func (c *Campaign) Stats() map[string]int {
	return ParseStats(c.StartStats)
}

// ParseStats parses "strength:15,stealth:5". Pairs without a name or an
// integer value are skipped.
func ParseStats(text string) map[string]int {
	out := make(map[string]int)
	for _, pair := range strings.Split(text, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		out[name] = n
	}
	return out
}
