// Package party provides the interface for party and invitation persistence
package party

//go:generate mockgen -destination=mock/mock_repository.go -package=partymock github.com/KirkDiggler/rpg-narrative/internal/repositories/party Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
)

// Repository defines the interface for party persistence
type Repository interface {
	// Create stores a new party with Version 1
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if the ID is taken
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a party by ID
	// Returns errors.NotFound if the party doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update overwrites a party when Party.Version matches the stored version
	// Returns errors.NotFound if the party doesn't exist
	// Returns errors.Aborted if the stored version moved on
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// CreateInvitation writes a pending invitation, replacing any earlier
	// invitation for the same party and player
	CreateInvitation(ctx context.Context, input CreateInvitationInput) (*CreateInvitationOutput, error)

	// GetInvitation retrieves the invitation for a party and player
	// Returns errors.NotFound if there is none
	GetInvitation(ctx context.Context, input GetInvitationInput) (*GetInvitationOutput, error)

	// ListPendingInvitations lists a player's pending invitations, newest first
	ListPendingInvitations(ctx context.Context, input ListPendingInvitationsInput) (*ListPendingInvitationsOutput, error)

	// UpdateInvitationStatus resolves a pending invitation
	// Returns errors.NotFound if there is no invitation
	// Returns errors.FailedPrecondition if it is no longer pending
	UpdateInvitationStatus(ctx context.Context, input UpdateInvitationStatusInput) (*UpdateInvitationStatusOutput, error)
}

// CreateInput defines the input for creating a party
type CreateInput struct {
	Party *entities.Party
}

// CreateOutput defines the output for creating a party
type CreateOutput struct {
	Party *entities.Party
}

// GetInput defines the input for getting a party
type GetInput struct {
	PartyID string
}

// GetOutput defines the output for getting a party
type GetOutput struct {
	Party *entities.Party
}

// UpdateInput defines the input for updating a party
type UpdateInput struct {
	Party *entities.Party
}

// UpdateOutput defines the output for updating a party
type UpdateOutput struct {
	Party *entities.Party
}

// CreateInvitationInput defines the input for inviting a player
type CreateInvitationInput struct {
	PartyID         string
	InvitedPlayerID string
	InviterID       string
}

// CreateInvitationOutput defines the output for inviting a player
type CreateInvitationOutput struct {
	Invitation *entities.Invitation
}

// GetInvitationInput defines the input for getting an invitation
type GetInvitationInput struct {
	PartyID  string
	PlayerID string
}

// GetInvitationOutput defines the output for getting an invitation
type GetInvitationOutput struct {
	Invitation *entities.Invitation
}

// ListPendingInvitationsInput defines the input for listing invitations
type ListPendingInvitationsInput struct {
	PlayerID string
}

// ListPendingInvitationsOutput defines the output for listing invitations
type ListPendingInvitationsOutput struct {
	Invitations []*entities.Invitation
}

// UpdateInvitationStatusInput defines the input for resolving an invitation
type UpdateInvitationStatusInput struct {
	PartyID  string
	PlayerID string
	Status   entities.InvitationStatus
}

// UpdateInvitationStatusOutput defines the output for resolving an invitation
type UpdateInvitationStatusOutput struct {
	Invitation *entities.Invitation
}
