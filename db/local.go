package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens the local client store. It plays the role browser local
// storage does for the hosted app: the only thing that survives a restart
// is the persisted bearer credential.
func Open(path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening local store: %w", err)
	}

	if err = database.Ping(); err != nil {
		return nil, fmt.Errorf("error pinging local store: %w", err)
	}

	return database, nil
}
