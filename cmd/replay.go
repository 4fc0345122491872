package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/flowdesigner/internal/render"
	"github.com/msalah0e/flowdesigner/internal/replay"
	"github.com/msalah0e/flowdesigner/internal/ui"
)

func replayCmd() *cobra.Command {
	var (
		save   bool
		events bool
	)

	cmd := &cobra.Command{
		Use:   "replay <file> <script.yaml>",
		Short: "Replay scripted pointer gestures against a diagram",
		Long: `Replay scripted pointer gestures against a diagram.

A script is a YAML list of steps addressed by connector id:

  name: blend two images
  steps:
    - {op: down,  connector: load-out, x: 240, y: 40}
    - {op: drag,  connector: load-out, x: 300, y: 45}
    - {op: enter, connector: blend-a}
    - {op: up,    connector: load-out, x: 410, y: 40}

Ops are down, drag, up, enter, leave, cancel and move (node, x, y).
The resulting diagram is written back with --save.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			sc, err := replay.Load(args[1])
			if err != nil {
				ui.Bad.Printf("  %s %v\n", ui.StatusIcon(false), err)
				os.Exit(1)
			}

			rec := render.NewRecorder()
			s := mustOpen(args[0], rec, false)
			before := s.diagram.Wires().Len()
			rec.Reset()

			title := args[1]
			if sc.Name != "" {
				title = sc.Name
			}
			ui.Banner("replay " + title)

			outcomes, err := replay.Run(cmd.Context(), s.diagram, rec, sc)

			failed := 0
			var rows [][]string
			for i, o := range outcomes {
				status := ui.StatusIcon(true)
				note := ""
				if o.Err != nil {
					failed++
					status = ui.StatusIcon(false)
					note = o.Err.Error()
				}
				rows = append(rows, []string{
					fmt.Sprint(i + 1),
					status,
					o.Step.String(),
					o.Phase.String(),
					fmt.Sprint(o.Wires),
					note,
				})
			}
			ui.Table([]string{"#", "", "Step", "Phase", "Wires", "Note"}, rows)

			if events {
				fmt.Println()
				for _, e := range rec.Events() {
					fmt.Printf("  %s\n", ui.Subtle.Sprint(e))
				}
			}

			if err != nil {
				ui.Bad.Printf("\n  %s replay stopped: %v\n", ui.StatusIcon(false), err)
				os.Exit(1)
			}

			fmt.Printf("\n  %s, wires %d -> %d\n", plural(len(outcomes), "step", "steps"), before, s.diagram.Wires().Len())
			if save {
				mustSave(s)
				ui.Good.Printf("  %s saved %s\n", ui.StatusIcon(true), args[0])
			}
			if failed > 0 {
				ui.Warn.Printf("  %s %s had no effect\n", ui.WarnIcon(), plural(failed, "step", "steps"))
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Write the resulting wires back to the file")
	cmd.Flags().BoolVar(&events, "events", false, "Print the drawing calls the replay produced")
	return cmd
}
