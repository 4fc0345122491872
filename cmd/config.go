package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/msalah0e/flowdesigner/internal/config"
	"github.com/msalah0e/flowdesigner/internal/ui"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Run: func(cmd *cobra.Command, args []string) {
			if _, err := os.Stat(config.Path()); err != nil {
				fmt.Println(ui.Subtle.Sprint("# defaults, no file at " + config.Path()))
			}
			if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
				ui.Bad.Printf("  %s %v\n", ui.StatusIcon(false), err)
				os.Exit(1)
			}
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(config.Path())
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a config file with the default settings",
			Run: func(cmd *cobra.Command, args []string) {
				if err := config.EnsureExists(); err != nil {
					ui.Bad.Printf("  %s %v\n", ui.StatusIcon(false), err)
					os.Exit(1)
				}
				ui.Good.Printf("  %s %s\n", ui.StatusIcon(true), config.Path())
			},
		},
	)
	return cmd
}
