// Package library discovers the audio files of a collection, maps them to
// releases and fingerprints them.
package library

import (
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/llehouerou/trackerhelper/internal/fingerprint"
)

var (
	// ErrNoAudioFiles means discovery found nothing to fingerprint.
	ErrNoAudioFiles = errors.New("no audio files found in the specified roots")
	// ErrNoFingerprints means every file failed to fingerprint.
	ErrNoFingerprints = errors.New("no file could be fingerprinted")
)

type Library struct {
	fp  fingerprint.Fingerprinter
	db  *sql.DB // fingerprint cache, nil when disabled
	log *zap.Logger
}

// New creates a Library. db may be nil to disable the fingerprint cache;
// log may be nil to discard logs.
func New(fp fingerprint.Fingerprinter, db *sql.DB, log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{fp: fp, db: db, log: log}
}
