package main

import (
	"fmt"
	"os"

	"github.com/c360studio/semlint/config"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage semlint configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a commented starter config to the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectConfigFile
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}

			if err := os.WriteFile(path, []byte(config.ProjectTemplate), 0o644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			fmt.Printf("wrote %s\n", path)
			return nil
		},
	})

	return cmd
}
