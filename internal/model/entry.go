package model

import (
	"path/filepath"
	"strings"
)

// CacheEntry represents a single cache file waiting to be converted.
//
// The Identifier is the catalog song ID encoded at the start of the cache
// file name. For a file named "1347203552-320-0aa1.uc" the identifier is
// "1347203552".
//
// Each entry is owned by exactly one conversion task; entries are never
// shared between concurrent units of work.
type CacheEntry struct {
	// Identifier is the leading run of decimal digits of the file name.
	Identifier string

	// SourcePath is the absolute path of the cache file.
	SourcePath string
}

// Name returns the base name of the source file.
func (e CacheEntry) Name() string {
	return filepath.Base(e.SourcePath)
}

// String implements fmt.Stringer for log output.
func (e CacheEntry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Identifier)
	sb.WriteString(" (")
	sb.WriteString(e.Name())
	sb.WriteString(")")
	return sb.String()
}
