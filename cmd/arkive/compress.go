package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/nabbar/arkive/compressor"
	"github.com/nabbar/arkive/event"
	"github.com/nabbar/arkive/formatfilter"
)

func newCompressCommand() *cobra.Command {
	var (
		destination  string
		formatName   string
		filterName   string
		outputIsDest bool
		createTopDir bool
	)

	cmd := &cobra.Command{
		Use:     "compress <source> [source...]",
		Short:   "Pack one or more files/directories into an archive",
		Example: "arkive compress ./project -o project.tar.gz --output-is-dest --format tar --filter gzip",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, ok := formatfilter.ParseFormat(formatName)
			if !ok {
				return fmt.Errorf("unknown format %q", formatName)
			}
			filter, ok := formatfilter.ParseFilter(filterName)
			if !ok {
				return fmt.Errorf("unknown filter %q", filterName)
			}
			if destination == "" {
				return fmt.Errorf("--output is required")
			}

			bar := progressbar.NewOptions64(-1,
				progressbar.OptionSetDescription("compressing"),
				progressbar.OptionShowBytes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetPredictTime(true),
			)

			eng := compressor.New(compressor.Config{
				Sources:                 args,
				Destination:             destination,
				OutputIsDest:            outputIsDest,
				CreateTopLevelDirectory: createTopDir,
				Format:                  format,
				Filter:                  filter,
				DispatchMode:            event.InCaller,
				Handlers: event.Handlers{
					OnDecideDestinationCompress: func(chosen string) {
						log.WithField("destination", chosen).Debug("destination resolved")
					},
					OnProgress: func(completedSize, completedFiles, totalSize, totalFiles uint64) {
						if totalSize > 0 {
							bar.ChangeMax64(int64(totalSize))
						}
						_ = bar.Set64(int64(completedSize))
					},
					OnCompleted: func() {
						_ = bar.Finish()
						color.Green("done: %s", destination)
					},
					OnCancelled: func() {
						_ = bar.Clear()
						color.Yellow("cancelled")
					},
					OnError: func(err error) {
						_ = bar.Clear()
						color.Red("error: %v", err)
					},
				},
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), 24*time.Hour)
			defer cancel()
			return eng.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&destination, "output", "o", "", "destination archive path, or output directory unless --output-is-dest")
	cmd.Flags().StringVar(&formatName, "format", "tar", "container format (zip, tar, cpio, ar-svr4, ar-bsd, gnu-tar, pax, ustar)")
	cmd.Flags().StringVar(&filterName, "filter", "none", "compression filter (none, gzip, bzip2, xz, lzma)")
	cmd.Flags().BoolVar(&outputIsDest, "output-is-dest", false, "treat --output as the exact archive path rather than a directory")
	cmd.Flags().BoolVar(&createTopDir, "create-top-level-dir", false, "wrap every entry under an extra top-level directory named for the archive")

	return cmd
}
