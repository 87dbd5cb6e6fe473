package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrCacheDirMissing is returned by Validate when the cache directory does
// not exist or is not a directory.
var ErrCacheDirMissing = errors.New("cache directory does not exist")

// Settings holds all configuration options.
//
// Settings can be stored as JSON or TOML; the format is chosen by the file
// extension. Every field can also be overridden from the environment, see
// ApplyEnv.
type Settings struct {
	// Paths
	CacheDir        string `json:"cache_dir" toml:"cache_dir"`
	OutputDir       string `json:"output_dir" toml:"output_dir"`
	CacheExtension  string `json:"cache_extension" toml:"cache_extension"`
	DuplicatePolicy string `json:"duplicate_policy" toml:"duplicate_policy"` // last, first

	// Catalog API settings
	APIBaseURL         string  `json:"api_base_url" toml:"api_base_url"`
	UserAgent          string  `json:"user_agent" toml:"user_agent"`
	RequestTimeout     int     `json:"request_timeout" toml:"request_timeout"` // seconds, 0 = no limit
	MetadataMaxRetries int     `json:"metadata_max_retries" toml:"metadata_max_retries"`
	RetryCooldown      float64 `json:"retry_cooldown" toml:"retry_cooldown"` // seconds
	RetryExponent      float64 `json:"retry_exponent" toml:"retry_exponent"`

	// Conversion settings
	MaxConcurrentConversions int `json:"max_concurrent_conversions" toml:"max_concurrent_conversions"` // 0 = unbounded

	// Tag settings
	ModifyTags            bool `json:"modify_tags" toml:"modify_tags"`
	SaveCoverArtInTags    bool `json:"save_cover_art_in_tags" toml:"save_cover_art_in_tags"`
	CoverArtInTagsResize  bool `json:"cover_art_in_tags_resize" toml:"cover_art_in_tags_resize"`
	CoverArtInTagsMaxSize int  `json:"cover_art_in_tags_max_size" toml:"cover_art_in_tags_max_size"`

	// Playlist settings
	CreatePlaylist   bool   `json:"create_playlist" toml:"create_playlist"`
	PlaylistFormat   string `json:"playlist_format" toml:"playlist_format"` // m3u, pls, wpl, zpl
	PlaylistFileName string `json:"playlist_file_name" toml:"playlist_file_name"`
	M3UExtended      bool   `json:"m3u_extended" toml:"m3u_extended"`

	// Watch mode
	WatchQuietPeriod float64 `json:"watch_quiet_period" toml:"watch_quiet_period"` // seconds

	// Logging
	LogLevel  string `json:"log_level" toml:"log_level"`   // debug, info, warn, error
	LogFormat string `json:"log_format" toml:"log_format"` // auto, console, json
}

// DefaultSettings returns settings with default values.
//
// The cache directory points at the NetEase CloudMusic client's default
// location for the current platform and output goes to the Desktop.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		CacheDir:        defaultCacheDir(homeDir),
		OutputDir:       filepath.Join(homeDir, "Desktop"),
		CacheExtension:  ".uc",
		DuplicatePolicy: "last",

		APIBaseURL:         "https://api.imjad.cn/cloudmusic/",
		UserAgent:          "ucdump",
		RequestTimeout:     30,
		MetadataMaxRetries: 0,
		RetryCooldown:      0.2,
		RetryExponent:      4.0,

		MaxConcurrentConversions: 8,

		ModifyTags:            true,
		SaveCoverArtInTags:    true,
		CoverArtInTagsResize:  false,
		CoverArtInTagsMaxSize: 1000,

		CreatePlaylist:   false,
		PlaylistFormat:   "m3u",
		PlaylistFileName: "ucdump",
		M3UExtended:      true,

		WatchQuietPeriod: 2,

		LogLevel:  "info",
		LogFormat: "auto",
	}
}

func defaultCacheDir(homeDir string) string {
	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, "Netease", "CloudMusic", "Cache", "Cache")
	case "darwin":
		return filepath.Join(homeDir, "Library", "Containers", "com.netease.163music", "Data", "Caches", "online_play_cache")
	default:
		return filepath.Join(homeDir, ".cache", "netease-cloud-music", "CachedSongs")
	}
}

// DefaultConfigPath returns the per-user settings file location.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ucdump", "config.toml"), nil
}

// Load reads settings from a JSON or TOML file.
//
// Files ending in ".toml" are parsed as TOML, anything else as JSON. Values
// missing from the file keep their defaults. A missing file yields
// DefaultSettings().
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isTOML(path) {
		err = toml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or TOML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var data []byte
	var err error
	if isTOML(path) {
		data, err = toml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// RequestTimeoutDuration returns the HTTP timeout. Zero means no limit.
func (s *Settings) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// RetryCooldownDuration returns the wait before the first metadata retry.
func (s *Settings) RetryCooldownDuration() time.Duration {
	return time.Duration(s.RetryCooldown * float64(time.Second))
}

// WatchQuietDuration returns how long a cache file must stay unchanged
// before watch mode converts it.
func (s *Settings) WatchQuietDuration() time.Duration {
	return time.Duration(s.WatchQuietPeriod * float64(time.Second))
}

// EnsureOutputDir creates the output directory if it doesn't exist.
func (s *Settings) EnsureOutputDir() error {
	if err := os.MkdirAll(s.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", s.OutputDir, err)
	}
	return nil
}
