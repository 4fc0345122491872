package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/flowdesigner/internal/catalog"
	"github.com/msalah0e/flowdesigner/internal/connector"
	"github.com/msalah0e/flowdesigner/internal/ui"
)

func catalogCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "catalog",
		Aliases: []string{"types"},
		Short:   "List the node types that can be placed",
		Long: `List the node types that can be placed.

Built-in types can be extended or overridden with TOML files in
` + catalog.PluginDir() + `.`,
		Run: func(cmd *cobra.Command, args []string) {
			c := loadCatalog()
			types := c.All()
			if category != "" {
				types = c.ByCategory(category)
			}

			ui.Banner("node catalog")
			if len(types) == 0 {
				fmt.Println("  No node types found.")
				return
			}
			printTypes(types)
			fmt.Printf("\n  %s in %s\n", plural(len(types), "type", "types"),
				plural(len(c.Categories()), "category", "categories"))
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only show one category")
	_ = cmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return loadCatalog().Categories(), cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(
		catalogSearchCmd(),
		catalogShowCmd(),
	)
	return cmd
}

func catalogSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search node types by name, label, description or tag",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			results := loadCatalog().Search(args[0])
			if len(results) == 0 {
				fmt.Printf("  No node types matching %q\n", args[0])
				return
			}

			ui.Banner("search results")
			printTypes(results)
			fmt.Printf("\n  %s\n", plural(len(results), "result", "results"))
		},
	}
}

func catalogShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "show <type>",
		Short:             "Show a node type and its connectors",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: nodeTypeCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			t := loadCatalog().Get(args[0])
			if t == nil {
				ui.Bad.Printf("  %s %v: %s\n", ui.StatusIcon(false), catalog.ErrUnknownType, args[0])
				os.Exit(1)
			}

			ui.Banner(t.Name)
			fmt.Printf("  %s  %s\n", ui.Brand.Sprint(t.Label), ui.Subtle.Sprint(t.Category))
			if t.Description != "" {
				fmt.Printf("  %s\n", t.Description)
			}
			if len(t.Tags) > 0 {
				fmt.Printf("  tags: %s\n", strings.Join(t.Tags, ", "))
			}
			if t.Fixed {
				ui.Warn.Println("  fixed: cannot be removed without --force")
			}

			var rows [][]string
			rows = appendConnectorRows(rows, "in", t.Input)
			rows = appendConnectorRows(rows, "out", t.Output)
			if len(rows) > 0 {
				fmt.Println()
				ui.Table([]string{"", "Name", "Label", "Scopes"}, rows)
			}

			fmt.Println()
			ui.Info.Printf("  flowdesigner node add <file> --type %s\n", t.Name)
		},
	}
}

func printTypes(types []catalog.NodeType) {
	var rows [][]string
	for _, t := range types {
		rows = append(rows, []string{
			t.Name,
			t.Label,
			t.Category,
			fmt.Sprintf("%d/%d", len(t.Input), len(t.Output)),
			strings.Join(t.Scopes(), ","),
		})
	}
	ui.Table([]string{"Type", "Label", "Category", "In/Out", "Scopes"}, rows)
}

func appendConnectorRows(rows [][]string, kind string, configs []connector.Config) [][]string {
	for _, c := range configs {
		rows = append(rows, []string{kind, c.Name, c.Label, strings.Join(c.Scopes, ",")})
	}
	return rows
}
