package db

import (
	"database/sql"
)

// CredentialStore persists the single bearer credential string
type CredentialStore struct {
	db *sql.DB
}

func NewCredentialStore(database *sql.DB) *CredentialStore {
	return &CredentialStore{db: database}
}

// Save stores the credential, replacing any previous one
func (s *CredentialStore) Save(token string) error {
	_, err := s.db.Exec(`
        INSERT INTO credential (id, token, saved_at)
        VALUES (1, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(id) DO UPDATE SET token = excluded.token, saved_at = excluded.saved_at
    `, token)
	return err
}

// Load returns the persisted credential, or "" when none exists
func (s *CredentialStore) Load() (string, error) {
	var token string
	err := s.db.QueryRow(`SELECT token FROM credential WHERE id = 1`).Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Clear removes the persisted credential
func (s *CredentialStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM credential WHERE id = 1`)
	return err
}
