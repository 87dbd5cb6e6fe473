package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/handiism/ucdump/internal/model"
)

// DefaultExtension is the suffix of song cache files.
const DefaultExtension = ".uc"

// DuplicatePolicy decides which file wins when two cache files carry the
// same identifier (for example the same song cached at two bitrates).
type DuplicatePolicy int

const (
	// KeepLast keeps the file scanned last, in lexical name order.
	KeepLast DuplicatePolicy = iota

	// KeepFirst keeps the file scanned first, in lexical name order.
	KeepFirst
)

// ParseDuplicatePolicy converts a settings value ("last" or "first").
func ParseDuplicatePolicy(value string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "last":
		return KeepLast, nil
	case "first":
		return KeepFirst, nil
	default:
		return KeepLast, fmt.Errorf("unknown duplicate policy %q", value)
	}
}

// String returns the settings spelling of the policy.
func (p DuplicatePolicy) String() string {
	if p == KeepFirst {
		return "first"
	}
	return "last"
}

// ParseIdentifier returns the maximal leading run of ASCII digits in name.
// The second result is false when name does not start with a digit.
//
// Example:
//
//	ParseIdentifier("1347203552-320-0aa1.uc") // "1347203552", true
//	ParseIdentifier("cache.uc")               // "", false
func ParseIdentifier(name string) (string, bool) {
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	if end == 0 {
		return "", false
	}
	return name[:end], true
}

// Locator finds cache entries in a directory.
//
// Example:
//
//	locator := NewLocator(".uc", KeepLast, logger)
//	index, err := locator.Scan(ctx, cacheDir)
type Locator struct {
	extension string
	policy    DuplicatePolicy
	logger    *slog.Logger
}

// NewLocator creates a Locator matching files that end with extension.
// An empty extension selects DefaultExtension. A nil logger discards output.
func NewLocator(extension string, policy DuplicatePolicy, logger *slog.Logger) *Locator {
	if extension == "" {
		extension = DefaultExtension
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Locator{extension: extension, policy: policy, logger: logger}
}

// Match reports whether name looks like a cache file and returns its
// identifier.
func (l *Locator) Match(name string) (string, bool) {
	if !strings.HasSuffix(name, l.extension) {
		return "", false
	}
	return ParseIdentifier(name)
}

// Scan lists dir and returns a map from identifier to absolute source path.
//
// Files without a leading identifier are skipped and logged. When two files
// share an identifier the Locator's DuplicatePolicy decides which one is
// kept; the discarded path is logged as a warning.
//
// Scan does not validate that dir exists beforehand; that is the caller's
// configuration concern. Any read error is returned as is.
func (l *Locator) Scan(ctx context.Context, dir string) (map[string]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}

	// os.ReadDir returns entries sorted by file name.
	dirEntries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}

	index := make(map[string]string)
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if de.IsDir() || !strings.HasSuffix(de.Name(), l.extension) {
			continue
		}

		id, ok := ParseIdentifier(de.Name())
		if !ok {
			l.logger.Info("skipping cache file without identifier", "file", de.Name())
			continue
		}

		path := filepath.Join(absDir, de.Name())
		if existing, dup := index[id]; dup {
			kept, dropped := path, existing
			if l.policy == KeepFirst {
				kept, dropped = existing, path
			}
			l.logger.Warn("duplicate cache identifier",
				"identifier", id,
				"kept", kept,
				"discarded", dropped,
				"policy", l.policy.String(),
			)
			index[id] = kept
			continue
		}
		index[id] = path
	}

	l.logger.Info("cache scan complete", "dir", absDir, "entries", len(index))
	return index, nil
}

// Entries converts a scan result into a slice ordered by identifier.
func Entries(index map[string]string) []model.CacheEntry {
	entries := make([]model.CacheEntry, 0, len(index))
	for id, path := range index {
		entries = append(entries, model.CacheEntry{Identifier: id, SourcePath: path})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Identifier < entries[j].Identifier
	})
	return entries
}
