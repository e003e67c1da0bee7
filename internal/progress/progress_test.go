package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/tuitale/internal/session"
)

const testFingerprint = "0123456789abcdef"

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "story.progress.json")
	target := []rune("hello world")

	sess := session.New(target)
	sess.HandleKey('h')
	sess.HandleKey('x') // wrong at 1
	sess.HandleKey('e')
	sess.HandleKey('l')

	if err := Save(path, sess, testFingerprint); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, ok := Load(path, testFingerprint, target)
	if !ok {
		t.Fatalf("expected prior progress")
	}
	if loaded.Cursor() != sess.Cursor() {
		t.Fatalf("cursor mismatch: %d != %d", loaded.Cursor(), sess.Cursor())
	}
	if loaded.AttemptsAt(1) != 1 {
		t.Fatalf("expected attempt count restored, got %d", loaded.AttemptsAt(1))
	}
	got, want := loaded.Stats(), sess.Stats()
	if got.Accuracy != want.Accuracy || got.Typed != want.Typed || got.Attempts != want.Attempts {
		t.Fatalf("snapshot mismatch: %+v != %+v", got, want)
	}
}

func TestRoundTripPendingIncorrect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "story.progress.json")
	target := []rune("ab")

	sess := session.New(target)
	sess.HandleKey('z')
	if err := Save(path, sess, testFingerprint); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, ok := Load(path, testFingerprint, target)
	if !ok {
		t.Fatalf("expected prior progress")
	}
	if loaded.OutcomeAt(0) != session.OutcomeIncorrect {
		t.Fatalf("expected pending incorrect, got %v", loaded.OutcomeAt(0))
	}
	wrong, ok := loaded.WrongChar()
	if !ok || wrong != 'z' {
		t.Fatalf("expected observed char 'z', got %q ok=%v", wrong, ok)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, ok := Load(filepath.Join(t.TempDir(), "absent.json"), testFingerprint, []rune("ab")); ok {
		t.Fatalf("expected no prior progress for missing file")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := Load(path, testFingerprint, []rune("ab")); ok {
		t.Fatalf("expected no prior progress for malformed file")
	}
}

func TestLoadFingerprintMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "story.progress.json")
	target := []rune("ab")

	sess := session.New(target)
	sess.HandleKey('a')
	if err := Save(path, sess, testFingerprint); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := Load(path, "different", target); ok {
		t.Fatalf("expected mismatched fingerprint to be ignored")
	}
}

func TestLoadWrongVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "story.progress.json")
	raw := `{"version":99,"fingerprint":"` + testFingerprint + `","cursor":1,"elapsed_ms":0,"saved_at":"2024-01-01T00:00:00Z"}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := Load(path, testFingerprint, []rune("ab")); ok {
		t.Fatalf("expected unknown version to be ignored")
	}
}

func TestLoadOutOfRangeCursor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "story.progress.json")
	raw := `{"version":1,"fingerprint":"` + testFingerprint + `","cursor":99,"elapsed_ms":0,"saved_at":"2024-01-01T00:00:00Z"}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := Load(path, testFingerprint, []rune("ab")); ok {
		t.Fatalf("expected out-of-range cursor to be ignored")
	}
}

func TestSaveReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "story.progress.json")
	target := []rune("abc")

	sess := session.New(target)
	sess.HandleKey('a')
	if err := Save(path, sess, testFingerprint); err != nil {
		t.Fatalf("first save: %v", err)
	}
	sess.HandleKey('b')
	if err := Save(path, sess, testFingerprint); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, ok := Load(path, testFingerprint, target)
	if !ok {
		t.Fatalf("expected prior progress")
	}
	if loaded.Cursor() != 2 {
		t.Fatalf("expected cursor 2 from latest save, got %d", loaded.Cursor())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp file cleaned up, found %d entries", len(entries))
	}
}
