package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-narrative/internal/engine"
	"github.com/KirkDiggler/rpg-narrative/internal/entities"
)

// DanglingReference is a choice or campaign pointing at a missing scenario
type DanglingReference struct {
	From        string
	ChoiceIndex int
	Target      string
}

// Report is the result of ValidateBundle
type Report struct {
	ScenarioCount        int
	CampaignCount        int
	MissingStart         bool
	DanglingReferences   []DanglingReference
	UnparsableEffects    []entities.EffectDiagnostic
	UnreachableScenarios []string
}

// OK reports whether the bundle has no dangling references and no
// unparsable effects. Unreachable scenarios are informational.
func (r *Report) OK() bool {
	return !r.MissingStart && len(r.DanglingReferences) == 0 && len(r.UnparsableEffects) == 0
}

// String renders the report for the CLI
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d scenarios, %d campaigns\n", r.ScenarioCount, r.CampaignCount)
	if r.MissingStart {
		sb.WriteString("start scenario is missing\n")
	}
	for _, d := range r.DanglingReferences {
		if d.ChoiceIndex < 0 {
			fmt.Fprintf(&sb, "campaign %s starts at missing scenario %q\n", d.From, d.Target)
			continue
		}
		fmt.Fprintf(&sb, "%s choice %d points at missing scenario %q\n", d.From, d.ChoiceIndex+1, d.Target)
	}
	for _, d := range r.UnparsableEffects {
		fmt.Fprintf(&sb, "%s choice %d has unparsable effect %q\n", d.ScenarioID, d.ChoiceIndex+1, d.RawEffect)
	}
	for _, id := range r.UnreachableScenarios {
		fmt.Fprintf(&sb, "%s is unreachable\n", id)
	}
	return sb.String()
}

// ValidateBundle checks a bundle without compiling it into a Repository.
// Campaign entries use ChoiceIndex -1 in DanglingReferences.
func ValidateBundle(_ context.Context, b *Bundle) *Report {
	report := &Report{
		ScenarioCount: len(b.Scenarios),
		CampaignCount: len(b.Campaigns),
	}

	known := make(map[string]*ScenarioDoc, len(b.Scenarios))
	for i := range b.Scenarios {
		known[b.Scenarios[i].ID] = &b.Scenarios[i]
	}

	if len(b.Campaigns) == 0 || b.StartScenario != "" {
		if _, ok := known[b.StartScenarioID()]; !ok {
			report.MissingStart = true
		}
	}

	for _, sc := range b.Scenarios {
		for i, ch := range sc.Choices {
			if _, ok := known[ch.Next]; !ok {
				report.DanglingReferences = append(report.DanglingReferences, DanglingReference{
					From: sc.ID, ChoiceIndex: i, Target: ch.Next,
				})
			}
			if _, err := engine.ParseEffect(ch.Effect); err != nil {
				report.UnparsableEffects = append(report.UnparsableEffects, entities.EffectDiagnostic{
					ScenarioID: sc.ID, ChoiceIndex: i, RawEffect: ch.Effect, Reason: err.Error(),
				})
			}
		}
	}

	roots := make([]string, 0, len(b.Campaigns)+1)
	if _, ok := known[b.StartScenarioID()]; ok {
		roots = append(roots, b.StartScenarioID())
	}
	for _, c := range b.Campaigns {
		if _, ok := known[c.StartScenario]; !ok {
			report.DanglingReferences = append(report.DanglingReferences, DanglingReference{
				From: c.ID, ChoiceIndex: -1, Target: c.StartScenario,
			})
			continue
		}
		roots = append(roots, c.StartScenario)
	}

	reached := make(map[string]bool, len(known))
	queue := roots
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if reached[id] {
			continue
		}
		reached[id] = true
		for _, ch := range known[id].Choices {
			if _, ok := known[ch.Next]; ok && !reached[ch.Next] {
				queue = append(queue, ch.Next)
			}
		}
	}
	for _, sc := range b.Scenarios {
		if !reached[sc.ID] {
			report.UnreachableScenarios = append(report.UnreachableScenarios, sc.ID)
		}
	}

	return report
}
