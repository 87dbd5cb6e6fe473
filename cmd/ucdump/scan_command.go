package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/handiism/ucdump/internal/convert"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var paths pathFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List the cache files that would be converted",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.loadSettings(paths, nil)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(settings, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			manager, err := convert.NewManager(settings, logger, nil)
			if err != nil {
				return err
			}
			if err := manager.Initialize(cmd.Context()); err != nil {
				return err
			}

			entries := manager.Entries()
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No cache files found in %s\n", settings.CacheDir)
				return nil
			}

			rows := make([][]string, 0, len(entries))
			var total uint64
			for _, entry := range entries {
				size := "?"
				if info, err := os.Stat(entry.SourcePath); err == nil {
					size = humanize.IBytes(uint64(info.Size()))
					total += uint64(info.Size())
				}
				rows = append(rows, []string{entry.Identifier, entry.Name(), size})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Identifier", "File", "Size"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "%d cache files, %s\n", len(entries), humanize.IBytes(total))
			return nil
		},
	}

	cmd.Flags().StringVar(&paths.cacheDir, "cache-dir", "", "Directory containing .uc cache files")
	return cmd
}
