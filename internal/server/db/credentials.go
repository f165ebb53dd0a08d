package db

import (
	"database/sql"
	"fmt"
)

// UpsertCredential inserts or replaces the credential for a subject.
// Re-binding the same subject rotates its salt and secret hash in place.
func (s *Store) UpsertCredential(c *Credential) error {
	_, err := s.db.Exec(
		`INSERT INTO credentials (subject_id, salt, secret_hash)
		 VALUES (?, ?, ?)
		 ON CONFLICT(subject_id) DO UPDATE SET
		   salt = excluded.salt,
		   secret_hash = excluded.secret_hash,
		   updated_at = CURRENT_TIMESTAMP`,
		c.SubjectID, c.Salt, c.SecretHash,
	)
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

// GetCredential retrieves the credential for a subject, or nil if none exists.
func (s *Store) GetCredential(subjectID string) (*Credential, error) {
	c := &Credential{}
	err := s.db.QueryRow(
		`SELECT subject_id, salt, secret_hash, created_at, updated_at
		 FROM credentials WHERE subject_id = ?`, subjectID,
	).Scan(&c.SubjectID, &c.Salt, &c.SecretHash, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return c, nil
}
