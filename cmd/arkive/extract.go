package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/nabbar/arkive/event"
	"github.com/nabbar/arkive/extractor"
)

func newExtractCommand() *cobra.Command {
	var (
		destination   string
		passphrase    string
		prefixRename  string
		overwriteAll  bool
		outputIsDest  bool
		deleteArchive bool
	)

	cmd := &cobra.Command{
		Use:     "extract <archive>",
		Short:   "Unpack an archive, prompting for conflicts and passphrases as needed",
		Example: "arkive extract project.tar.gz -o ./out",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if destination == "" {
				return fmt.Errorf("--output is required")
			}

			oldPrefix, newPrefix := "", ""
			if prefixRename != "" {
				parts := strings.SplitN(prefixRename, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("--rename-root must be OLD=NEW")
				}
				oldPrefix, newPrefix = parts[0], parts[1]
			}

			bar := progressbar.NewOptions64(-1,
				progressbar.OptionSetDescription("extracting"),
				progressbar.OptionShowBytes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetPredictTime(true),
			)

			stdin := bufio.NewReader(os.Stdin)

			eng := extractor.New(extractor.Config{
				Source:                args[0],
				Destination:           destination,
				OutputIsDest:          outputIsDest,
				DeleteAfterExtraction: deleteArchive,
				Passphrase:            passphrase,
				PrefixRewriteOld:      oldPrefix,
				PrefixRewriteNew:      newPrefix,
				DispatchMode:          event.InCaller,
				Handlers: event.Handlers{
					OnScanned: func(totalFiles uint64) {
						log.WithField("entries", totalFiles).Debug("scan complete")
					},
					OnProgress: func(completedSize, completedFiles, totalSize, totalFiles uint64) {
						if totalSize > 0 {
							bar.ChangeMax64(int64(totalSize))
						}
						_ = bar.Set64(int64(completedSize))
					},
					OnConflict: func(path string) event.ConflictDecision {
						if overwriteAll {
							return event.ConflictDecision{Action: event.Overwrite}
						}
						return promptConflict(stdin, path)
					},
					OnRequestPassphrase: func() (string, bool) {
						return promptPassphrase(stdin)
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

	cmd.Flags().StringVarP(&destination, "output", "o", "", "destination directory, or the exact extraction target if --output-is-dest")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "passphrase for encrypted entries, if known")
	cmd.Flags().StringVar(&prefixRename, "rename-root", "", "rewrite the archive's detected top-level directory, OLD=NEW")
	cmd.Flags().BoolVar(&overwriteAll, "force", false, "overwrite existing files without prompting")
	cmd.Flags().BoolVar(&outputIsDest, "output-is-dest", false, "skip common-prefix detection and extract directly into --output")
	cmd.Flags().BoolVar(&deleteArchive, "delete-after-extraction", false, "best-effort delete the archive once extraction succeeds")

	return cmd
}

func promptConflict(in *bufio.Reader, path string) event.ConflictDecision {
	color.Yellow("%s already exists. Overwrite? [y/N/s(kip)] ", path)
	line, _ := in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return event.ConflictDecision{Action: event.Overwrite}
	default:
		return event.ConflictDecision{Action: event.Skip}
	}
}

func promptPassphrase(in *bufio.Reader) (string, bool) {
	color.Cyan("passphrase required: ")
	line, err := in.ReadString('\n')
	if err != nil {
		return "", false
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	return line, true
}
