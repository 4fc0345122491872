package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/flowdesigner/internal/diagram"
	"github.com/msalah0e/flowdesigner/internal/ui"
)

func scopesCmd() *cobra.Command {
	var define []string

	cmd := &cobra.Command{
		Use:   "scopes [file]",
		Short: "Show the connector scopes and their colors",
		Long: `Show the connector scopes and their colors.

Without a file, lists the scopes defined in the config. With a file, lists the
scopes the diagram knows about and how many connectors use each one. Use
--define name=color[:label] to add scopes to the file.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				if len(define) > 0 {
					ui.Bad.Printf("  %s --define needs a file\n", ui.StatusIcon(false))
					os.Exit(1)
				}
				showConfigScopes()
				return
			}

			s := mustOpen(args[0], nil, len(define) > 0)
			for _, spec := range define {
				name, scope, err := parseScope(spec)
				if err == nil {
					err = s.diagram.DefineScope(name, scope)
				}
				if err != nil {
					ui.Bad.Printf("  %s %v\n", ui.StatusIcon(false), err)
					os.Exit(1)
				}
			}
			if len(define) > 0 {
				mustSave(s)
			}
			showDiagramScopes(args[0], s.diagram)
		},
	}

	cmd.Flags().StringArrayVarP(&define, "define", "d", nil, "Define a scope as name=color[:label] (repeatable)")
	return cmd
}

func showConfigScopes() {
	ui.Banner("scopes from config")
	if len(cfg.Scopes) == 0 {
		fmt.Println("  No scopes configured.")
		return
	}

	names := make([]string, 0, len(cfg.Scopes))
	for name := range cfg.Scopes {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows [][]string
	for _, name := range names {
		sc := cfg.Scopes[name]
		rows = append(rows, []string{name, sc.Label, ui.Swatch(sc.Color)})
	}
	ui.Table([]string{"Scope", "Label", "Color"}, rows)
}

func showDiagramScopes(path string, d *diagram.Diagram) {
	ui.Banner(path)

	used := make(map[string]int)
	for _, c := range d.Wires().Connectors() {
		for _, sc := range c.Scopes() {
			used[sc]++
		}
	}

	var rows [][]string
	for _, name := range d.ScopeNames() {
		sc, _ := d.Scope(name)
		rows = append(rows, []string{name, sc.Label, ui.Swatch(sc.Color), fmt.Sprint(used[name])})
		delete(used, name)
	}
	if len(rows) > 0 {
		ui.Table([]string{"Scope", "Label", "Color", "Connectors"}, rows)
	}

	if len(used) > 0 {
		var missing []string
		for name := range used {
			missing = append(missing, name)
		}
		sort.Strings(missing)
		fmt.Println()
		ui.Warn.Printf("  %s undefined scopes in use: %s\n", ui.WarnIcon(), strings.Join(missing, ", "))
		fmt.Printf("  Connectors of these scopes are drawn %s\n", ui.Swatch(diagram.DefaultConnectorColor))
	}
}

// parseScope reads name=color[:label].
func parseScope(spec string) (string, diagram.Scope, error) {
	name, rest, ok := strings.Cut(spec, "=")
	if !ok || name == "" {
		return "", diagram.Scope{}, fmt.Errorf("scope %q: want name=color[:label]", spec)
	}
	color, label, _ := strings.Cut(rest, ":")
	return name, diagram.Scope{Color: color, Label: label}, nil
}
