package store

import (
	"context"
	"sync"

	"vocert/internal/credential/models"
)

// InMemoryCredentialStore is a slice-backed credential store. Appends keep
// insertion order and reads hand out copies so a reader always observes a
// consistent snapshot while a write is in flight.
type InMemoryCredentialStore struct {
	mu          sync.RWMutex
	credentials []models.Credential
}

// NewInMemoryCredentialStore constructs an empty credential store.
func NewInMemoryCredentialStore() *InMemoryCredentialStore {
	return &InMemoryCredentialStore{}
}

// Append adds a credential at the end of the collection.
func (s *InMemoryCredentialStore) Append(_ context.Context, credential models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials = append(s.credentials, credential)
	return nil
}

// FindByID retrieves a credential copy or returns ErrNotFound.
func (s *InMemoryCredentialStore) FindByID(_ context.Context, id models.CredentialID) (models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.credentials {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Credential{}, ErrNotFound
}

// List returns a copy of all credentials in insertion order.
func (s *InMemoryCredentialStore) List(_ context.Context) ([]models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Credential, len(s.credentials))
	copy(out, s.credentials)
	return out, nil
}

// ListBySubject returns the credentials held by one student DID.
func (s *InMemoryCredentialStore) ListBySubject(_ context.Context, studentDID string) ([]models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Credential
	for _, c := range s.credentials {
		if c.StudentDID == studentDID {
			out = append(out, c)
		}
	}
	return out, nil
}

// MarkVerified flips the verified flag, leaving every other field untouched.
func (s *InMemoryCredentialStore) MarkVerified(_ context.Context, id models.CredentialID) (models.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.credentials {
		if s.credentials[i].ID == id {
			s.credentials[i].Verified = true
			return s.credentials[i], nil
		}
	}
	return models.Credential{}, ErrNotFound
}

// InMemoryProofStore is a slice-backed proof store with the same ordering
// and snapshot guarantees as the credential store.
type InMemoryProofStore struct {
	mu     sync.RWMutex
	proofs []models.Proof
}

// NewInMemoryProofStore constructs an empty proof store.
func NewInMemoryProofStore() *InMemoryProofStore {
	return &InMemoryProofStore{}
}

// Append adds a proof at the end of the collection. Duplicate tokens are
// accepted; there is no uniqueness constraint on proofs.
func (s *InMemoryProofStore) Append(_ context.Context, proof models.Proof) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proofs = append(s.proofs, proof)
	return nil
}

// FindByToken retrieves the first proof whose token matches exactly.
func (s *InMemoryProofStore) FindByToken(_ context.Context, token string) (models.Proof, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.proofs {
		if p.Proof == token {
			return p, nil
		}
	}
	return models.Proof{}, ErrNotFound
}

// List returns a copy of all proofs in insertion order.
func (s *InMemoryProofStore) List(_ context.Context) ([]models.Proof, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Proof, len(s.proofs))
	copy(out, s.proofs)
	return out, nil
}

var (
	_ CredentialStore = (*InMemoryCredentialStore)(nil)
	_ ProofStore      = (*InMemoryProofStore)(nil)
)
