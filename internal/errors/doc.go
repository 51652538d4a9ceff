// Package errors provides the structured error type used across rpg-narrative.
//
// Errors carry a Code, a user-facing message, an optional cause and metadata:
//
//	err := errors.NotFound("character not found").
//	    WithMeta("player_id", playerID)
//
// Wrapping preserves the code of a wrapped *Error:
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save character")
//	}
//
// Expected game outcomes (bad input, acting out of turn) are not errors; they
// are returned as entities.Response values. This package is for failures the
// caller must handle: missing records, permission and precondition violations,
// stale writes and storage failures.
//
// # Layer Guidelines
//
// Repository layer:
//   - Return NotFound, AlreadyExists and Aborted (stale version) errors
//   - Wrap Redis and SQL errors with context
//
// Orchestrator layer:
//   - Validate inputs and return InvalidArgument errors
//   - Return FailedPrecondition / PermissionDenied for party rule violations
//   - Wrap repository errors, never swallow a failed save
//
// Handler layer:
//   - Convert errors with ToGRPCError
package errors
