package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/handiism/ucdump/internal/config"
	"github.com/handiism/ucdump/internal/convert"
	ioutils "github.com/handiism/ucdump/internal/io"
	"github.com/handiism/ucdump/internal/model"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var paths pathFlags
	var concurrency int
	var playlist bool
	var failOnError bool

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert every cache file into a tagged MP3",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.loadSettings(paths, func(s *config.Settings) {
				if cmd.Flags().Changed("concurrency") {
					s.MaxConcurrentConversions = concurrency
				}
				if cmd.Flags().Changed("playlist") {
					s.CreatePlaylist = playlist
				}
			})
			if err != nil {
				return err
			}

			outcomes, err := ctx.runConversion(cmd.Context(), settings, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if n := failedCount(outcomes); n > 0 && failOnError {
				return fmt.Errorf("%d of %d cache files failed to convert", n, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&paths.cacheDir, "cache-dir", "", "Directory containing .uc cache files")
	cmd.Flags().StringVarP(&paths.outputDir, "output-dir", "o", "", "Directory to write MP3 files into")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "Maximum simultaneous conversions (0 = unbounded)")
	cmd.Flags().BoolVar(&playlist, "playlist", false, "Write a playlist of converted files")
	cmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "Exit non-zero when any cache file fails to convert")
	return cmd
}

// runConversion locks the output directory, converts every entry in the
// cache directory and prints a summary to out.
func (c *commandContext) runConversion(ctx context.Context, settings *config.Settings, out, errOut io.Writer) ([]model.Outcome, error) {
	logger, err := c.logger(settings, errOut)
	if err != nil {
		return nil, err
	}

	if err := settings.EnsureOutputDir(); err != nil {
		return nil, err
	}
	unlock, err := ioutils.LockDir(settings.OutputDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(); err != nil {
			logger.Warn("release output directory lock", "error", err)
		}
	}()

	manager, err := convert.NewManager(settings, logger, c.progressPrinter(out))
	if err != nil {
		return nil, err
	}
	if err := manager.Initialize(ctx); err != nil {
		return nil, err
	}

	outcomes, err := manager.Run(ctx)
	if err != nil {
		return outcomes, err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSummary(outcomes))
	if details := renderOutcomes(outcomes); details != "" {
		fmt.Fprintln(out, details)
	}
	return outcomes, nil
}
