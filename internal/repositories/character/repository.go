// Package character provides the interface for character persistence
package character

//go:generate mockgen -destination=mock/mock_repository.go -package=charactermock github.com/KirkDiggler/rpg-narrative/internal/repositories/character Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
)

// Repository defines the interface for character persistence
type Repository interface {
	// Create stores a new character with Version 1
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if the player already has a character
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves the character of a player
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the character doesn't exist
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save overwrites the character positioned at ScenarioID. The write only
	// succeeds when Character.Version matches the stored version.
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if the character doesn't exist
	// Returns errors.Aborted if the stored version moved on
	// Returns errors.Internal for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)
}

// CreateInput defines the input for creating a character
type CreateInput struct {
	Character *entities.Character
}

// CreateOutput defines the output for creating a character
type CreateOutput struct {
	Character *entities.Character
}

// GetInput defines the input for getting a character
type GetInput struct {
	PlayerID string
}

// GetOutput defines the output for getting a character
type GetOutput struct {
	Character *entities.Character
}

// SaveInput defines the input for saving a character. An empty ScenarioID
// keeps Character.CurrentScenarioID.
type SaveInput struct {
	Character  *entities.Character
	ScenarioID string
}

// SaveOutput defines the output for saving a character
type SaveOutput struct {
	Character *entities.Character
}
