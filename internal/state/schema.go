package state

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNewerSchema means the database was written by a newer build.
var ErrNewerSchema = errors.New("fingerprint cache has a newer schema")

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS fingerprints (
			path TEXT PRIMARY KEY,
			size INTEGER NOT NULL,
			mtime INTEGER NOT NULL,
			duration TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	v, err := schemaVersion(db)
	if err != nil {
		return err
	}
	if v > currentSchemaVersion {
		return fmt.Errorf("%w: version %d, this build supports %d", ErrNewerSchema, v, currentSchemaVersion)
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}

// schemaVersion returns the highest schema version recorded in db.
func schemaVersion(db *sql.DB) (int, error) {
	var v int
	err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&v)
	return v, err
}
