package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vocert/internal/credential/models"
)

// PostgresCredentialStore persists credentials in PostgreSQL. The primary
// key on id acts as a backstop against the theoretical random-token
// collision the memory store accepts.
type PostgresCredentialStore struct {
	db *sql.DB
}

// NewPostgresCredentialStore constructs a PostgreSQL-backed credential store.
func NewPostgresCredentialStore(db *sql.DB) *PostgresCredentialStore {
	return &PostgresCredentialStore{db: db}
}

func (s *PostgresCredentialStore) Append(ctx context.Context, credential models.Credential) error {
	query := `
		INSERT INTO credentials (id, course_code, title, skill_tag, issued_at, student_did, issuer_did, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		credential.ID.String(),
		credential.CourseCode,
		credential.Title,
		credential.SkillTag,
		credential.Date,
		credential.StudentDID,
		credential.IssuerDID,
		credential.Verified,
	)
	if err != nil {
		return fmt.Errorf("append credential: %w", err)
	}
	return nil
}

func (s *PostgresCredentialStore) FindByID(ctx context.Context, id models.CredentialID) (models.Credential, error) {
	query := `
		SELECT id, course_code, title, skill_tag, issued_at, student_did, issuer_did, verified
		FROM credentials
		WHERE id = $1
	`
	credential, err := scanCredential(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Credential{}, ErrNotFound
		}
		return models.Credential{}, fmt.Errorf("find credential: %w", err)
	}
	return credential, nil
}

func (s *PostgresCredentialStore) List(ctx context.Context) ([]models.Credential, error) {
	return s.list(ctx, `
		SELECT id, course_code, title, skill_tag, issued_at, student_did, issuer_did, verified
		FROM credentials
		ORDER BY inserted_at
	`)
}

func (s *PostgresCredentialStore) ListBySubject(ctx context.Context, studentDID string) ([]models.Credential, error) {
	return s.list(ctx, `
		SELECT id, course_code, title, skill_tag, issued_at, student_did, issuer_did, verified
		FROM credentials
		WHERE student_did = $1
		ORDER BY inserted_at
	`, studentDID)
}

func (s *PostgresCredentialStore) MarkVerified(ctx context.Context, id models.CredentialID) (models.Credential, error) {
	query := `
		UPDATE credentials
		SET verified = TRUE
		WHERE id = $1
		RETURNING id, course_code, title, skill_tag, issued_at, student_did, issuer_did, verified
	`
	credential, err := scanCredential(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Credential{}, ErrNotFound
		}
		return models.Credential{}, fmt.Errorf("mark credential verified: %w", err)
	}
	return credential, nil
}

func (s *PostgresCredentialStore) list(ctx context.Context, query string, args ...any) ([]models.Credential, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var out []models.Credential
	for rows.Next() {
		credential, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		out = append(out, credential)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner) (models.Credential, error) {
	var c models.Credential
	var rawID string
	if err := row.Scan(&rawID, &c.CourseCode, &c.Title, &c.SkillTag, &c.Date, &c.StudentDID, &c.IssuerDID, &c.Verified); err != nil {
		return models.Credential{}, err
	}
	c.ID = models.CredentialID(rawID)
	return c, nil
}

// PostgresProofStore persists proofs in PostgreSQL. Proofs carry no
// uniqueness constraint and are never updated.
type PostgresProofStore struct {
	db *sql.DB
}

// NewPostgresProofStore constructs a PostgreSQL-backed proof store.
func NewPostgresProofStore(db *sql.DB) *PostgresProofStore {
	return &PostgresProofStore{db: db}
}

func (s *PostgresProofStore) Append(ctx context.Context, proof models.Proof) error {
	query := `
		INSERT INTO proofs (student_did, credential_id, proof)
		VALUES ($1, $2, $3)
	`
	_, err := s.db.ExecContext(ctx, query, proof.StudentDID, proof.CredentialID.String(), proof.Proof)
	if err != nil {
		return fmt.Errorf("append proof: %w", err)
	}
	return nil
}

func (s *PostgresProofStore) FindByToken(ctx context.Context, token string) (models.Proof, error) {
	query := `
		SELECT student_did, credential_id, proof
		FROM proofs
		WHERE proof = $1
		ORDER BY inserted_at
		LIMIT 1
	`
	var p models.Proof
	var rawID string
	err := s.db.QueryRowContext(ctx, query, token).Scan(&p.StudentDID, &rawID, &p.Proof)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Proof{}, ErrNotFound
		}
		return models.Proof{}, fmt.Errorf("find proof: %w", err)
	}
	p.CredentialID = models.CredentialID(rawID)
	return p, nil
}

func (s *PostgresProofStore) List(ctx context.Context) ([]models.Proof, error) {
	query := `
		SELECT student_did, credential_id, proof
		FROM proofs
		ORDER BY inserted_at
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list proofs: %w", err)
	}
	defer rows.Close()

	var out []models.Proof
	for rows.Next() {
		var p models.Proof
		var rawID string
		if err := rows.Scan(&p.StudentDID, &rawID, &p.Proof); err != nil {
			return nil, fmt.Errorf("scan proof: %w", err)
		}
		p.CredentialID = models.CredentialID(rawID)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list proofs: %w", err)
	}
	return out, nil
}

var (
	_ CredentialStore = (*PostgresCredentialStore)(nil)
	_ ProofStore      = (*PostgresProofStore)(nil)
)
