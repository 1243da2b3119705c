// Package store is the single source of truth for issued credentials and
// generated proofs. Both collections are append-only: no store operation
// deletes a record, and the only mutation is the one-way verified flip.
// All validation happens in the flow layer before the store is invoked.
package store

import (
	"context"

	"vocert/internal/credential/models"
	"vocert/internal/sentinel"
)

// ErrNotFound keeps storage-specific 404s consistent across implementations.
var ErrNotFound = sentinel.ErrNotFound

// CredentialStore persists issued credentials in insertion order.
type CredentialStore interface {
	// Append adds a credential. The store performs no uniqueness check;
	// callers mint collision-resistant ids.
	Append(ctx context.Context, credential models.Credential) error

	// FindByID retrieves a credential or returns ErrNotFound.
	FindByID(ctx context.Context, id models.CredentialID) (models.Credential, error)

	// List returns all credentials in insertion order.
	List(ctx context.Context) ([]models.Credential, error)

	// ListBySubject returns the credentials held by one student DID,
	// in insertion order.
	ListBySubject(ctx context.Context, studentDID string) ([]models.Credential, error)

	// MarkVerified flips verified to true and returns the updated record.
	// Flipping an already-verified credential is a no-op in effect.
	// Unknown ids return ErrNotFound rather than silently matching nothing.
	MarkVerified(ctx context.Context, id models.CredentialID) (models.Credential, error)
}

// ProofStore persists disclosure proofs in insertion order. Proofs are never
// mutated or deleted, and the same credential may carry any number of them.
type ProofStore interface {
	Append(ctx context.Context, proof models.Proof) error

	// FindByToken retrieves the proof whose token exactly equals the given
	// value, or returns ErrNotFound.
	FindByToken(ctx context.Context, token string) (models.Proof, error)

	// List returns all proofs in insertion order.
	List(ctx context.Context) ([]models.Proof, error)
}
