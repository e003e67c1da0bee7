// Package text loads and fingerprints practice texts.
package text

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NewlineMark replaces newlines in the practice text so line breaks are
// typed explicitly with Enter.
const NewlineMark = '↩'

var normalizer = strings.NewReplacer(
	"\r\n", string(NewlineMark),
	"\n", string(NewlineMark),
	"—", "-",
	"–", "-",
	"’", "'",
	"‘", "'",
	"“", `"`,
	"”", `"`,
)

// Text is an immutable practice text with a content fingerprint.
type Text struct {
	path        string
	runes       []rune
	fingerprint string
}

// Load reads the story file at path and normalizes its content.
func Load(path string) (*Text, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story: %w", err)
	}
	return New(path, string(raw))
}

// New builds a Text from raw content. The content is normalized before
// fingerprinting, so fingerprints are stable across newline conventions.
func New(path, raw string) (*Text, error) {
	normalized := Normalize(raw)
	if strings.TrimSpace(strings.ReplaceAll(normalized, string(NewlineMark), " ")) == "" {
		return nil, fmt.Errorf("story is empty: %s", path)
	}
	sum := sha256.Sum256([]byte(normalized))
	return &Text{
		path:        path,
		runes:       []rune(normalized),
		fingerprint: hex.EncodeToString(sum[:]),
	}, nil
}

// Normalize rewrites newlines and common typographic punctuation into
// characters a keyboard can produce directly.
func Normalize(raw string) string {
	return normalizer.Replace(raw)
}

// Path returns the source file path.
func (t *Text) Path() string {
	return t.path
}

// Runes returns the normalized content. Callers must not mutate it.
func (t *Text) Runes() []rune {
	return t.runes
}

// Len returns the number of characters in the text.
func (t *Text) Len() int {
	return len(t.runes)
}

// Fingerprint returns the SHA-256 hex digest of the normalized content.
func (t *Text) Fingerprint() string {
	return t.fingerprint
}

// ProgressPath derives the default progress file location for a story,
// replacing its extension with .progress.json.
func ProgressPath(storyPath string) string {
	ext := filepath.Ext(storyPath)
	return strings.TrimSuffix(storyPath, ext) + ".progress.json"
}
