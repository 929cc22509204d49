// Package security guards file names built from user input.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// JoinWithin joins name onto dir and rejects the result if it would
// escape dir. The check is lexical, so dir need not exist yet.
func JoinWithin(dir, name string) (string, error) {
	cleanDir := filepath.Clean(dir)
	path := filepath.Join(cleanDir, name)

	rel, err := filepath.Rel(cleanDir, path)
	if err != nil {
		return "", fmt.Errorf("path is outside %s: %w", dir, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("path traversal detected: %q escapes %s", name, dir)
	}
	return path, nil
}

// SanitizeFilename makes a safe filename from an arbitrary string. Runs of
// characters other than ASCII letters, digits, dot, underscore and dash
// become one underscore; leading and trailing dots and underscores are
// trimmed; the result is at most 128 bytes. An empty result is "unknown".
func SanitizeFilename(s string) string {
	const maxLen = 128
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
			lastUnderscore = r == '_'
		case !lastUnderscore:
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
