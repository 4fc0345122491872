package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/flowdesigner/internal/ui"
)

func edgesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "edges <file>",
		Aliases: []string{"wires"},
		Short:   "List the wires of a diagram",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s := mustOpen(args[0], nil, false)
			d := s.diagram

			if jsonOutput {
				data, _ := json.MarshalIndent(d.Wires().ExportEdges(), "", "  ")
				fmt.Println(string(data))
				return
			}

			ui.Banner(args[0])
			wires := d.Wires().Wires()
			if len(wires) == 0 {
				fmt.Println("  No wires.")
				return
			}

			var rows [][]string
			for _, e := range wires {
				rows = append(rows, []string{
					e.Source.ID(),
					e.Target.ID(),
					strings.Join(e.Scopes, ","),
					ui.Swatch(e.Color),
				})
			}
			ui.Table([]string{"Source", "Target", "Scopes", "Color"}, rows)
			fmt.Printf("\n  %s\n", plural(len(wires), "wire", "wires"))

			if n := len(s.report.Rejected); n > 0 {
				ui.Warn.Printf("  %s %s in the file could not be connected (see `flowdesigner check`)\n", ui.WarnIcon(), plural(n, "wire", "wires"))
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
