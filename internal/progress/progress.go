// Package progress persists typing progress to a JSON file keyed by
// the story's content fingerprint.
package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/verte-zerg/tuitale/internal/session"
)

// FormatVersion is the current progress file format.
const FormatVersion = 1

// Record is the persisted form of a session.
type Record struct {
	Version     int       `json:"version"`
	Fingerprint string    `json:"fingerprint"`
	Cursor      int       `json:"cursor"`
	Attempts    []Attempt `json:"attempts,omitempty"`
	Pending     string    `json:"pending,omitempty"`
	PendingChar string    `json:"pending_char,omitempty"`
	ElapsedMs   int64     `json:"elapsed_ms"`
	SavedAt     time.Time `json:"saved_at"`
}

// Attempt records incorrect keystrokes at one text position.
type Attempt struct {
	Pos   int `json:"pos"`
	Count int `json:"count"`
}

const (
	pendingIncorrect = "incorrect"
	pendingCorrected = "corrected"
)

// Load reads prior progress for the given story. It fails soft: an
// absent, unreadable, malformed, stale, or mismatched file yields
// (nil, false) so a reused progress filename never breaks startup.
func Load(path, fingerprint string, target []rune) (*session.Session, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, false
	}
	if rec.Version != FormatVersion || rec.Fingerprint != fingerprint {
		return nil, false
	}

	sv := session.Saved{
		Cursor:  rec.Cursor,
		Elapsed: time.Duration(rec.ElapsedMs) * time.Millisecond,
	}
	if len(rec.Attempts) > 0 {
		sv.Attempts = make(map[int]int, len(rec.Attempts))
		for _, a := range rec.Attempts {
			sv.Attempts[a.Pos] = a.Count
		}
	}
	switch rec.Pending {
	case "":
		sv.Pending = session.OutcomeUntyped
	case pendingIncorrect:
		sv.Pending = session.OutcomeIncorrect
		for _, r := range rec.PendingChar {
			sv.Wrong = r
			break
		}
	case pendingCorrected:
		sv.Pending = session.OutcomeCorrected
	default:
		return nil, false
	}

	sess, err := session.Restore(target, sv)
	if err != nil {
		return nil, false
	}
	return sess, true
}

// Save writes the session state atomically: to a temp file in the
// destination directory, then renamed into place, so an interrupted
// write never leaves a half-written record.
func Save(path string, sess *session.Session, fingerprint string) error {
	rec := toRecord(sess, fingerprint)
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "progress-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp progress file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(raw); err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close progress file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace progress file: %w", err)
	}
	return nil
}

func toRecord(sess *session.Session, fingerprint string) Record {
	sv := sess.Save()
	rec := Record{
		Version:     FormatVersion,
		Fingerprint: fingerprint,
		Cursor:      sv.Cursor,
		ElapsedMs:   sv.Elapsed.Milliseconds(),
		SavedAt:     time.Now(),
	}
	for pos, count := range sv.Attempts {
		rec.Attempts = append(rec.Attempts, Attempt{Pos: pos, Count: count})
	}
	sort.Slice(rec.Attempts, func(i, j int) bool {
		return rec.Attempts[i].Pos < rec.Attempts[j].Pos
	})
	switch sv.Pending {
	case session.OutcomeIncorrect:
		rec.Pending = pendingIncorrect
		rec.PendingChar = string(sv.Wrong)
	case session.OutcomeCorrected:
		rec.Pending = pendingCorrected
	}
	return rec
}
