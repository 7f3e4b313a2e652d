// Package cmd assembles the editctl command tree from its subcommand
// packages.
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/tidesound/editor/cmd/editcmd"
	"github.com/tidesound/editor/cmd/exportcmd"
	"github.com/tidesound/editor/cmd/importcmd"
	"github.com/tidesound/editor/internal/conf"
)

// RootCommand builds the editctl root command from settings.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "editctl",
		Short: "Headless driver for the non-destructive audio editing engine",
	}

	importCmd := importcmd.Command(settings)
	editCmd := editcmd.Command(settings)
	exportCmd := exportcmd.Command(settings)

	rootCmd.AddCommand(importCmd, editCmd, exportCmd)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := initialize(); err != nil {
			return fmt.Errorf("error initializing: %w", err)
		}
		return nil
	}

	return rootCmd
}

func initialize() error {
	return nil
}

// Execute is the editctl entrypoint's single call site.
func Execute(settings *conf.Settings) {
	if err := RootCommand(settings).Execute(); err != nil {
		log.Fatal(err)
	}
}
