package library

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/llehouerou/trackerhelper/internal/db"
)

// cacheEntry is a stored fingerprint, valid while size and mtime match.
type cacheEntry struct {
	path        string
	size        int64
	mtime       int64
	duration    string
	fingerprint string
}

func (e cacheEntry) matches(f File) bool {
	return e.size == f.Size && e.mtime == f.MTime
}

// cachedEntries returns the cache entries lying under roots, keyed by path.
func (l *Library) cachedEntries(ctx context.Context, roots []string) (map[string]cacheEntry, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT path, size, mtime, duration, fingerprint FROM fingerprints`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]cacheEntry)
	for rows.Next() {
		var e cacheEntry
		if err := rows.Scan(&e.path, &e.size, &e.mtime, &e.duration, &e.fingerprint); err != nil {
			return nil, err
		}
		// Only include entries that belong to the roots being scanned
		if underRoot(e.path, roots) {
			entries[e.path] = e
		}
	}
	return entries, rows.Err()
}

// storeEntries upserts fresh fingerprints in one transaction.
func (l *Library) storeEntries(ctx context.Context, entries []cacheEntry) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now().Unix()
	return db.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO fingerprints (path, size, mtime, duration, fingerprint, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				size = excluded.size,
				mtime = excluded.mtime,
				duration = excluded.duration,
				fingerprint = excluded.fingerprint,
				updated_at = excluded.updated_at
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, e.path, e.size, e.mtime, e.duration, e.fingerprint, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// pruneEntries deletes cache entries for files that no longer exist.
func (l *Library) pruneEntries(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	return db.WithTx(ctx, l.db, func(tx *sql.Tx) error {
		for _, chunk := range db.Chunk(paths, 500) {
			args := make([]any, len(chunk))
			for i, p := range chunk {
				args[i] = p
			}
			placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
			if _, err := tx.ExecContext(ctx, `DELETE FROM fingerprints WHERE path IN (`+placeholders+`)`, args...); err != nil {
				return err
			}
		}
		return nil
	})
}
