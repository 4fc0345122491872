package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/flowdesigner/internal/ui"
	"github.com/msalah0e/flowdesigner/internal/wire"
)

func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <file> <source> <target>",
		Short: "Wire two connectors together",
		Long: `Wire two connectors together.

Connectors are addressed by id, which defaults to <node>-<name>. The wire is
only created when the connectors share a scope, sit on different nodes and are
not connected yet.`,
		Args: cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			s := mustOpen(args[0], nil, false)
			source, target := args[1], args[2]

			e, ok := s.diagram.AddWire(source, target)
			if !ok {
				ui.Bad.Printf("  %s cannot connect %s to %s: %s\n", ui.StatusIcon(false), source, target,
					rejectionReason(s.diagram, source, target))
				os.Exit(1)
			}
			mustSave(s)

			fmt.Printf("  %s %s %s\n", ui.StatusIcon(true), e.Key, ui.Swatch(e.Color))
		},
	}
}

func disconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <file> <connector> <connector>",
		Short: "Remove the wire between two connectors",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			s := mustOpen(args[0], nil, false)

			if !s.diagram.RemoveWire(args[1], args[2]) {
				ui.Bad.Printf("  %s no wire %s\n", ui.StatusIcon(false), wire.Key(args[1], args[2]))
				os.Exit(1)
			}
			mustSave(s)

			fmt.Printf("  %s removed %s\n", ui.StatusIcon(true), wire.Key(args[1], args[2]))
		},
	}
}
