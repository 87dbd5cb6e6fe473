package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "UCDUMP_"

// ApplyEnv loads the given .env files (missing files are ignored) and then
// overrides settings from UCDUMP_* environment variables.
//
// Variables already present in the process environment win over values from
// .env files. Recognized variables:
//
//	UCDUMP_CACHE_DIR, UCDUMP_OUTPUT_DIR, UCDUMP_CACHE_EXTENSION,
//	UCDUMP_DUPLICATE_POLICY, UCDUMP_API_BASE_URL, UCDUMP_USER_AGENT,
//	UCDUMP_REQUEST_TIMEOUT, UCDUMP_METADATA_MAX_RETRIES,
//	UCDUMP_MAX_CONCURRENT_CONVERSIONS, UCDUMP_SAVE_COVER_ART_IN_TAGS,
//	UCDUMP_CREATE_PLAYLIST, UCDUMP_PLAYLIST_FORMAT,
//	UCDUMP_WATCH_QUIET_PERIOD, UCDUMP_LOG_LEVEL, UCDUMP_LOG_FORMAT
func (s *Settings) ApplyEnv(envFiles ...string) error {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}

	strs := map[string]*string{
		"CACHE_DIR":        &s.CacheDir,
		"OUTPUT_DIR":       &s.OutputDir,
		"CACHE_EXTENSION":  &s.CacheExtension,
		"DUPLICATE_POLICY": &s.DuplicatePolicy,
		"API_BASE_URL":     &s.APIBaseURL,
		"USER_AGENT":       &s.UserAgent,
		"PLAYLIST_FORMAT":  &s.PlaylistFormat,
		"LOG_LEVEL":        &s.LogLevel,
		"LOG_FORMAT":       &s.LogFormat,
	}
	for name, dst := range strs {
		if value, ok := lookupEnv(name); ok {
			*dst = value
		}
	}

	ints := map[string]*int{
		"REQUEST_TIMEOUT":            &s.RequestTimeout,
		"METADATA_MAX_RETRIES":       &s.MetadataMaxRetries,
		"MAX_CONCURRENT_CONVERSIONS": &s.MaxConcurrentConversions,
	}
	for name, dst := range ints {
		if value, ok := lookupEnv(name); ok {
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"SAVE_COVER_ART_IN_TAGS": &s.SaveCoverArtInTags,
		"CREATE_PLAYLIST":        &s.CreatePlaylist,
	}
	for name, dst := range bools {
		if value, ok := lookupEnv(name); ok {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = b
		}
	}

	if value, ok := lookupEnv("WATCH_QUIET_PERIOD"); ok {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%sWATCH_QUIET_PERIOD: %w", EnvPrefix, err)
		}
		s.WatchQuietPeriod = f
	}

	return nil
}

func lookupEnv(name string) (string, bool) {
	value, ok := os.LookupEnv(EnvPrefix + name)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
