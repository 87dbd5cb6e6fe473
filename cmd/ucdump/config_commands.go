package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handiism/ucdump/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand(ctx))
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				path, err := ctx.configPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = path
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.DefaultSettings().Save(target); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	var paths pathFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Validate and print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.loadSettings(paths, nil)
			if err != nil {
				return err
			}

			rows := [][]string{
				{"cache_dir", settings.CacheDir},
				{"output_dir", settings.OutputDir},
				{"cache_extension", settings.CacheExtension},
				{"duplicate_policy", settings.DuplicatePolicy},
				{"api_base_url", settings.APIBaseURL},
				{"request_timeout", settings.RequestTimeoutDuration().String()},
				{"metadata_max_retries", fmt.Sprint(settings.MetadataMaxRetries)},
				{"max_concurrent_conversions", fmt.Sprint(settings.MaxConcurrentConversions)},
				{"modify_tags", yesNo(settings.ModifyTags)},
				{"save_cover_art_in_tags", yesNo(settings.SaveCoverArtInTags)},
				{"create_playlist", yesNo(settings.CreatePlaylist)},
				{"playlist_format", settings.PlaylistFormat},
				{"watch_quiet_period", settings.WatchQuietDuration().String()},
				{"log_level", settings.LogLevel},
				{"log_format", settings.LogFormat},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&paths.cacheDir, "cache-dir", "", "Directory containing .uc cache files")
	cmd.Flags().StringVarP(&paths.outputDir, "output-dir", "o", "", "Directory to write MP3 files into")
	return cmd
}
