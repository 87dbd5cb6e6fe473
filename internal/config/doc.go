// Package config provides configuration management for ucdump.
//
// This package handles:
//   - Loading and saving settings from JSON or TOML files
//   - Default configuration values
//   - Environment overrides (UCDUMP_* variables and .env files)
//   - Path normalization and validation
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Reads the NetEase client's cache directory for this platform
//	// Writes MP3 files to ~/Desktop
//	// Converts up to 8 files at once
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.toml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//	err = settings.ApplyEnv(".env")
//	err = settings.Normalize()
//	err = settings.Validate() // errors.Is(err, config.ErrCacheDirMissing)
//
// # Saving Settings
//
//	settings.OutputDir = "/music/netease"
//	err := settings.Save("/path/to/config.json")
package config
