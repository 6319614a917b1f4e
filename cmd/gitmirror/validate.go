package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mirrorhq/gitmirror/internal/config"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the mirror config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolvePath(configPath)
		jobs, err := config.Load(path)
		if err != nil {
			slog.Error("configuration invalid", "path", path, "error", err)
			return err
		}

		fmt.Printf("%s: OK (%d jobs)\n", path, len(jobs))
		return nil
	},
}
