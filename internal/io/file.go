package ioutils

import (
	"context"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxNameLength is the longest sanitized name, in runes.
const MaxNameLength = 240

// forbiddenChars are removed from names used as file name components.
const forbiddenChars = `/\:"*?<>|`

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists, it is
// truncated before writing. The context is checked once before the file is
// opened; the write itself is not interruptible.
//
// Example:
//
//	err := WriteFile(ctx, "/music/Artist - Title.mp3", decoded)
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SanitizeName makes a catalog string safe to use as a file name component.
//
// The following transformations are applied, in order:
//   - Unicode NFC normalization
//   - Characters / \ : " * ? < > | are removed
//   - Surrounding whitespace is trimmed
//   - The result is truncated to MaxNameLength runes
//   - Trailing whitespace exposed by truncation is trimmed
//
// SanitizeName is idempotent. An empty input yields an empty result.
//
// Example:
//
//	SanitizeName("AC/DC")              // Returns "ACDC"
//	SanitizeName("  What? Why: Me  ")  // Returns "What Why Me"
func SanitizeName(name string) string {
	name = norm.NFC.String(name)

	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(forbiddenChars, r) {
			return -1
		}
		return r
	}, name)

	name = strings.TrimSpace(name)

	if runes := []rune(name); len(runes) > MaxNameLength {
		name = string(runes[:MaxNameLength])
	}

	return strings.TrimRightFunc(name, unicode.IsSpace)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
