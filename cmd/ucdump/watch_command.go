package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handiism/ucdump/internal/convert"
	ioutils "github.com/handiism/ucdump/internal/io"
	"github.com/handiism/ucdump/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var paths pathFlags
	var skipExisting bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Convert cache files as the music client writes them",
		Long: "Converts the existing cache files once, then watches the cache directory and\n" +
			"converts each new file after it has stopped changing. Runs until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.loadSettings(paths, nil)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(settings, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if err := settings.EnsureOutputDir(); err != nil {
				return err
			}
			unlock, err := ioutils.LockDir(settings.OutputDir)
			if err != nil {
				return err
			}
			defer unlock()

			out := cmd.OutOrStdout()
			manager, err := convert.NewManager(settings, logger, ctx.progressPrinter(out))
			if err != nil {
				return err
			}

			if !skipExisting {
				if err := manager.Initialize(cmd.Context()); err != nil {
					return err
				}
				outcomes, err := manager.Run(cmd.Context())
				if err != nil {
					return err
				}
				if len(outcomes) > 0 {
					fmt.Fprintln(out, renderSummary(outcomes))
				}
			}

			fmt.Fprintf(out, "Watching %s (press Ctrl+C to stop)\n", settings.CacheDir)
			w := watch.New(settings.CacheDir, settings.WatchQuietDuration(), manager.Locator(), manager, logger)
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&paths.cacheDir, "cache-dir", "", "Directory containing .uc cache files")
	cmd.Flags().StringVarP(&paths.outputDir, "output-dir", "o", "", "Directory to write MP3 files into")
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Only convert files that appear after startup")
	return cmd
}
