package content

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-narrative/internal/engine"
	"github.com/KirkDiggler/rpg-narrative/internal/entities"
)

// compileChoices parses each choice's effect. Failures are logged, recorded
// and compiled as no effect.
func compileChoices(ctx context.Context, scenarioID string, docs []ChoiceDoc) ([]entities.Choice, []entities.EffectDiagnostic) {
	if len(docs) == 0 {
		return nil, nil
	}

	choices := make([]entities.Choice, 0, len(docs))
	var diags []entities.EffectDiagnostic
	for i, doc := range docs {
		choice, diag := compileChoice(ctx, scenarioID, i, doc)
		choices = append(choices, choice)
		if diag != nil {
			diags = append(diags, *diag)
		}
	}
	return choices, diags
}

func compileChoice(ctx context.Context, scenarioID string, index int, doc ChoiceDoc) (entities.Choice, *entities.EffectDiagnostic) {
	choice := entities.Choice{
		Text:           doc.Text,
		NextScenarioID: doc.Next,
		RawEffect:      doc.Effect,
	}

	effect, err := engine.ParseEffect(doc.Effect)
	if err != nil {
		slog.WarnContext(ctx, "effect did not parse, treating as no effect",
			"scenario_id", scenarioID,
			"choice_index", index,
			"effect", doc.Effect,
			"error", err,
		)
		return choice, &entities.EffectDiagnostic{
			ScenarioID:  scenarioID,
			ChoiceIndex: index,
			RawEffect:   doc.Effect,
			Reason:      err.Error(),
		}
	}

	choice.Effect = effect
	return choice, nil
}

func compileCampaign(doc CampaignDoc) *entities.Campaign {
	return &entities.Campaign{
		ID:              doc.ID,
		Name:            doc.Name,
		Description:     doc.Description,
		StartScenarioID: doc.StartScenario,
		FactionTag:      doc.Faction,
		StartStats:      doc.StartStats,
	}
}
