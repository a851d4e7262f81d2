package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"subweld/internal/config"
)

func newConfigCommand(configFlag *string) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the subweld configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	configCmd.AddCommand(newConfigInitCommand(configFlag))
	configCmd.AddCommand(newConfigShowCommand(configFlag))
	return configCmd
}

func newConfigInitCommand(configFlag *string) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *configFlag
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			} else {
				expanded, err := config.ExpandPath(path)
				if err != nil {
					return err
				}
				path = expanded
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote sample config to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func newConfigShowCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolvedPath, exists, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			source := resolvedPath
			if !exists {
				source = "(defaults, no config file found)"
			}

			rows := [][]string{
				{"Config file", source},
				{"Temp directory", cfg.Paths.TempDir},
				{"Log directory", cfg.Paths.LogDir},
				{"Max input", fmt.Sprintf("%d MB", cfg.Limits.MaxInputMB)},
				{"Max output", fmt.Sprintf("%d MB", cfg.Limits.MaxOutputMB)},
				{"Transport ceiling", fmt.Sprintf("%d MB", cfg.Telegram.APIFileCeilingMB)},
				{"Whisper model", cfg.Whisper.Model},
				{"Translation model", cfg.Translate.Model},
				{"Languages", fmt.Sprintf("%s -> %s", cfg.Translate.SourceLanguage, cfg.Translate.TargetLanguage)},
				{"Font", fmt.Sprintf("%d / %s", cfg.Subtitles.FontSize, cfg.Subtitles.FontColor)},
				{"Log level", cfg.Logging.Level},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows))
			return nil
		},
	}
}
