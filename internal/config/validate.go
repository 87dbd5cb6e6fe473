package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/ucdump/internal/audio"
	"github.com/handiism/ucdump/internal/cache"
)

// Normalize expands "~", cleans and absolutizes paths and fills empty
// fields with their defaults.
func (s *Settings) Normalize() error {
	defaults := DefaultSettings()

	var err error
	if strings.TrimSpace(s.CacheDir) == "" {
		s.CacheDir = defaults.CacheDir
	}
	if s.CacheDir, err = expandPath(s.CacheDir); err != nil {
		return fmt.Errorf("cache_dir: %w", err)
	}
	if strings.TrimSpace(s.OutputDir) == "" {
		s.OutputDir = defaults.OutputDir
	}
	if s.OutputDir, err = expandPath(s.OutputDir); err != nil {
		return fmt.Errorf("output_dir: %w", err)
	}

	s.CacheExtension = strings.TrimSpace(s.CacheExtension)
	if s.CacheExtension == "" {
		s.CacheExtension = defaults.CacheExtension
	}
	if !strings.HasPrefix(s.CacheExtension, ".") {
		s.CacheExtension = "." + s.CacheExtension
	}

	s.APIBaseURL = strings.TrimSpace(s.APIBaseURL)
	if s.APIBaseURL == "" {
		s.APIBaseURL = defaults.APIBaseURL
	}
	s.UserAgent = strings.TrimSpace(s.UserAgent)
	if s.UserAgent == "" {
		s.UserAgent = defaults.UserAgent
	}
	if s.RetryExponent <= 0 {
		s.RetryExponent = defaults.RetryExponent
	}
	if s.CoverArtInTagsMaxSize <= 0 {
		s.CoverArtInTagsMaxSize = defaults.CoverArtInTagsMaxSize
	}
	s.PlaylistFileName = strings.TrimSpace(s.PlaylistFileName)
	if s.PlaylistFileName == "" {
		s.PlaylistFileName = defaults.PlaylistFileName
	}

	s.DuplicatePolicy = strings.ToLower(strings.TrimSpace(s.DuplicatePolicy))
	s.PlaylistFormat = strings.ToLower(strings.TrimSpace(s.PlaylistFormat))
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	s.LogFormat = strings.ToLower(strings.TrimSpace(s.LogFormat))
	return nil
}

// Validate ensures the settings are usable.
//
// Returns ErrCacheDirMissing (wrapped) if the cache directory is absent.
func (s *Settings) Validate() error {
	if err := s.validateCacheDir(); err != nil {
		return err
	}
	if strings.TrimSpace(s.OutputDir) == "" {
		return errors.New("output_dir must be set")
	}
	if s.MaxConcurrentConversions < 0 {
		return errors.New("max_concurrent_conversions must be >= 0")
	}
	if s.RequestTimeout < 0 {
		return errors.New("request_timeout must be >= 0")
	}
	if s.MetadataMaxRetries < 0 {
		return errors.New("metadata_max_retries must be >= 0")
	}
	if s.RetryCooldown < 0 {
		return errors.New("retry_cooldown must be >= 0")
	}
	if s.WatchQuietPeriod < 0 {
		return errors.New("watch_quiet_period must be >= 0")
	}
	if _, err := cache.ParseDuplicatePolicy(s.DuplicatePolicy); err != nil {
		return fmt.Errorf("duplicate_policy: %w", err)
	}
	if _, err := audio.ParsePlaylistFormat(s.PlaylistFormat); err != nil {
		return fmt.Errorf("playlist_format: %w", err)
	}
	switch s.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unsupported value %q", s.LogLevel)
	}
	switch s.LogFormat {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("log_format: unsupported value %q", s.LogFormat)
	}
	return nil
}

func (s *Settings) validateCacheDir() error {
	info, err := os.Stat(s.CacheDir)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrCacheDirMissing, s.CacheDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrCacheDirMissing, s.CacheDir)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
