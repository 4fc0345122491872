package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/flowdesigner/internal/diagram"
	"github.com/msalah0e/flowdesigner/internal/parallel"
	"github.com/msalah0e/flowdesigner/internal/ui"
	"github.com/msalah0e/flowdesigner/internal/wire"
)

func checkCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate diagram documents and report wires that cannot be connected",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if concurrency == 0 {
				concurrency = cfg.Parallel.Concurrency
			}

			ui.Banner(fmt.Sprintf("checking %d document(s)", len(args)))

			tasks := make([]parallel.Task, len(args))
			for i, path := range args {
				tasks[i] = parallel.Task{
					Name: path,
					Fn:   func(context.Context) (string, error) { return checkDocument(path) },
				}
			}

			failed := 0
			for _, r := range parallel.Run(cmd.Context(), tasks, concurrency) {
				if !r.OK {
					failed++
				}
			}

			fmt.Println()
			if failed > 0 {
				ui.Bad.Printf("  %d of %d document(s) have problems\n", failed, len(args))
				os.Exit(1)
			}
			ui.Good.Printf("  All %d document(s) are consistent\n", len(args))
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "Documents checked at once (default from config)")
	return cmd
}

// checkDocument loads one file into its own headless diagram. Each call
// builds an independent diagram, so calls may run concurrently.
func checkDocument(path string) (summary string, err error) {
	defer wire.Recover(&err)

	doc, err := diagram.Load(path)
	if err != nil {
		return "", err
	}
	d := diagram.New(nil, diagram.WithColors(cfg.Colors.Ambiguous, cfg.Colors.Unknown))
	report, err := d.Import(doc)
	if err != nil {
		return "", err
	}
	if err := d.Wires().CheckConsistency(); err != nil {
		return "", err
	}

	if len(report.Rejected) > 0 {
		lines := make([]string, 0, len(report.Rejected))
		for _, ref := range report.Rejected {
			lines = append(lines, fmt.Sprintf("%s -> %s: %s", ref.Source, ref.Target, rejectionReason(d, ref.Source, ref.Target)))
		}
		return strings.Join(lines, "\n"), errors.New(plural(len(report.Rejected), "wire", "wires") + " rejected")
	}
	return plural(len(doc.Nodes), "node", "nodes") + ", " + plural(d.Wires().Len(), "wire", "wires"), nil
}

// rejectionReason explains why AddWire would refuse the pair.
func rejectionReason(d *diagram.Diagram, source, target string) string {
	s, ok := d.Wires().Connector(source)
	if !ok {
		return fmt.Sprintf("unknown connector %q", source)
	}
	t, ok := d.Wires().Connector(target)
	if !ok {
		return fmt.Sprintf("unknown connector %q", target)
	}
	switch {
	case s.Owner() == t.Owner():
		return "both connectors belong to node " + s.Owner()
	case !t.HasScopes(s.Scopes()):
		return fmt.Sprintf("no shared scope (%s vs %s)", strings.Join(s.Scopes(), ","), strings.Join(t.Scopes(), ","))
	case s.IsConnected(t) || t.IsConnected(s):
		return "already connected"
	}
	return "not allowed"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
