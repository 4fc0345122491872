package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/flowdesigner/internal/connector"
	"github.com/msalah0e/flowdesigner/internal/diagram"
	"github.com/msalah0e/flowdesigner/internal/ui"
)

func nodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "node",
		Aliases: []string{"nodes"},
		Short:   "Add, remove, move and list nodes",
	}

	cmd.AddCommand(
		nodeAddCmd(),
		nodeRemoveCmd(),
		nodeMoveCmd(),
		nodeListCmd(),
	)
	return cmd
}

func nodeAddCmd() *cobra.Command {
	var (
		typeName string
		settings diagram.NodeSettings
		inputs   []string
		outputs  []string
	)

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Place a node, from the catalog or from flags",
		Long: `Place a node, from the catalog or from flags.

Connectors are given as name:scope[,scope...][:label], for example

  flowdesigner node add flow.json --label Blend \
    --input a:image:Image --input b:image:Overlay --output out:image

The file is created if it does not exist.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s := mustOpen(args[0], nil, true)

			ns := settings
			if typeName != "" {
				var err error
				ns, err = loadCatalog().Instantiate(typeName, settings.ID, settings.X, settings.Y)
				if err != nil {
					ui.Bad.Printf("  %s %v\n", ui.StatusIcon(false), err)
					os.Exit(1)
				}
				if settings.Label != "" {
					ns.Label = settings.Label
				}
				ns.Fixed = ns.Fixed || settings.Fixed
			}
			for _, spec := range inputs {
				ns.Input = append(ns.Input, mustParseConnector(spec))
			}
			for _, spec := range outputs {
				ns.Output = append(ns.Output, mustParseConnector(spec))
			}

			n, err := s.diagram.AddNode(ns)
			if err != nil {
				ui.Bad.Printf("  %s %v\n", ui.StatusIcon(false), err)
				os.Exit(1)
			}
			for _, c := range n.Connectors() {
				for _, scope := range c.Scopes() {
					if !s.diagram.HasScope(scope) {
						ui.Warn.Printf("  %s scope %q of %s is not defined\n", ui.WarnIcon(), scope, c.ID())
					}
				}
			}
			mustSave(s)

			fmt.Printf("  %s added %s %s\n", ui.StatusIcon(true), ui.Brand.Sprint(n.ID()),
				ui.Subtle.Sprintf("(%d in, %d out)", len(n.Inputs()), len(n.Outputs())))
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Catalog node type")
	cmd.Flags().StringVar(&settings.ID, "id", "", "Node id (default node-N)")
	cmd.Flags().StringVarP(&settings.Label, "label", "l", "", "Node label")
	cmd.Flags().StringVar(&settings.Description, "description", "", "Node description")
	cmd.Flags().StringVar(&settings.Color, "color", "", "Background color")
	cmd.Flags().Float64Var(&settings.X, "x", 0, "Horizontal position")
	cmd.Flags().Float64Var(&settings.Y, "y", 0, "Vertical position")
	cmd.Flags().BoolVar(&settings.Fixed, "fixed", false, "Protect the node from removal")
	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "Input connector name:scopes[:label] (repeatable)")
	cmd.Flags().StringArrayVarP(&outputs, "output", "o", nil, "Output connector name:scopes[:label] (repeatable)")
	_ = cmd.RegisterFlagCompletionFunc("type", nodeTypeCompletionFunc)
	return cmd
}

// parseConnector reads name:scope[,scope...][:label].
func parseConnector(spec string) (connector.Config, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return connector.Config{}, fmt.Errorf("connector %q: want name:scope[,scope...][:label]", spec)
	}
	cfg := connector.Config{Name: parts[0]}
	for _, s := range strings.Split(parts[1], ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.Scopes = append(cfg.Scopes, s)
		}
	}
	if len(parts) == 3 {
		cfg.Label = parts[2]
	}
	return cfg, nil
}

func mustParseConnector(spec string) connector.Config {
	cfg, err := parseConnector(spec)
	if err != nil {
		ui.Bad.Printf("  %s %v\n", ui.StatusIcon(false), err)
		os.Exit(1)
	}
	return cfg
}

func nodeRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "rm <file> <id>...",
		Aliases: []string{"remove"},
		Short:   "Remove nodes and every wire attached to them",
		Args:    cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			s := mustOpen(args[0], nil, false)
			ids := args[1:]

			for _, id := range ids {
				n, ok := s.diagram.Node(id)
				if !ok {
					ui.Bad.Printf("  %s %v: %s\n", ui.StatusIcon(false), diagram.ErrNodeNotFound, id)
					os.Exit(1)
				}
				if n.Fixed() && !force {
					ui.Bad.Printf("  %s node %s is fixed (use --force)\n", ui.StatusIcon(false), id)
					os.Exit(1)
				}
			}

			before := s.diagram.Wires().Len()
			if err := s.diagram.RemoveNodes(ids); err != nil {
				ui.Bad.Printf("  %s %v\n", ui.StatusIcon(false), err)
				os.Exit(1)
			}
			mustSave(s)

			fmt.Printf("  %s removed %s and %s\n", ui.StatusIcon(true),
				plural(len(ids), "node", "nodes"),
				plural(before-s.diagram.Wires().Len(), "wire", "wires"))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove fixed nodes too")
	return cmd
}

func nodeMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <file> <id> <x> <y>",
		Short: "Move a node; attached wires follow",
		Args:  cobra.ExactArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			x, errX := strconv.ParseFloat(args[2], 64)
			y, errY := strconv.ParseFloat(args[3], 64)
			if errX != nil || errY != nil {
				ui.Bad.Printf("  %s coordinates must be numbers\n", ui.StatusIcon(false))
				os.Exit(1)
			}

			s := mustOpen(args[0], nil, false)
			if err := s.diagram.MoveNode(args[1], x, y); err != nil {
				ui.Bad.Printf("  %s %v\n", ui.StatusIcon(false), err)
				os.Exit(1)
			}
			mustSave(s)

			n, _ := s.diagram.Node(args[1])
			r := n.Rect()
			fmt.Printf("  %s %s at %g,%g\n", ui.StatusIcon(true), n.ID(), r.X, r.Y)
		},
	}
}

func nodeListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list <file>",
		Aliases: []string{"ls"},
		Short:   "List the nodes of a diagram",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s := mustOpen(args[0], nil, false)
			nodes := s.diagram.Nodes()

			if jsonOutput {
				settings := make([]diagram.NodeSettings, 0, len(nodes))
				for _, n := range nodes {
					settings = append(settings, n.Settings())
				}
				data, _ := json.MarshalIndent(settings, "", "  ")
				fmt.Println(string(data))
				return
			}

			ui.Banner(args[0])
			if len(nodes) == 0 {
				fmt.Println("  No nodes. Add one with:")
				ui.Info.Printf("  flowdesigner node add %s --type <type>\n", args[0])
				return
			}

			var rows [][]string
			for _, n := range nodes {
				r := n.Rect()
				var ins, outs []string
				for _, c := range n.Inputs() {
					ins = append(ins, c.Name())
				}
				for _, c := range n.Outputs() {
					outs = append(outs, c.Name())
				}
				flag := ""
				if n.Fixed() {
					flag = "fixed"
				}
				rows = append(rows, []string{
					n.ID(),
					n.Label(),
					fmt.Sprintf("%g,%g", r.X, r.Y),
					strings.Join(ins, " "),
					strings.Join(outs, " "),
					flag,
				})
			}
			ui.Table([]string{"ID", "Label", "Position", "Inputs", "Outputs", ""}, rows)
			fmt.Printf("\n  %s, %s\n", plural(len(nodes), "node", "nodes"), plural(s.diagram.Wires().Len(), "wire", "wires"))
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
