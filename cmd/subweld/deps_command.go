package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subweld/internal/config"
	"subweld/internal/deps"
)

func newDepsCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of required external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				// Binary checks are still useful without credentials.
				def := config.Default()
				cfg = &def
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg.Subtitles.FFmpegBinary, cfg.Whisper.Binary))
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
					if status.Detail != "" {
						state = status.Detail
					}
				}
				rows = append(rows, []string{status.Name, status.Command, status.Description, state})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Dependency", "Command", "Purpose", "Status"}, rows))

			if missing := deps.Missing(statuses); len(missing) > 0 {
				return fmt.Errorf("missing dependencies: %v", missing)
			}
			return nil
		},
	}
}
