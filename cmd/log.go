package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/msalah0e/flowdesigner/internal/activity"
	"github.com/msalah0e/flowdesigner/internal/ui"
)

func logCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:     "log",
		Aliases: []string{"activity", "journal"},
		Short:   "Show the journal of wire edits across sessions",
		Run: func(cmd *cobra.Command, args []string) {
			ui.Banner("activity log")

			entries, err := activity.Read(count)
			if err != nil || len(entries) == 0 {
				fmt.Println("  No activity recorded yet.")
				fmt.Println("  Wire edits made with connect, disconnect, node rm and replay are logged here.")
				return
			}

			printEntries(entries)
			fmt.Printf("\n  Showing %d most recent entries\n", len(entries))
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 20, "Entries to show (0 for all)")

	cmd.AddCommand(
		logSearchCmd(),
		logClearCmd(),
		logExportCmd(),
		logStatsCmd(),
	)
	return cmd
}

func logSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search journal entries by connector, document or scope",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			results, err := activity.Search(args[0], 50)
			if err != nil || len(results) == 0 {
				fmt.Printf("  No entries matching %q\n", args[0])
				return
			}

			ui.Banner("search results")
			printEntries(results)
			fmt.Printf("\n  %s\n", plural(len(results), "result", "results"))
		},
	}
}

func logClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the activity journal",
		Run: func(cmd *cobra.Command, args []string) {
			if err := activity.Clear(); err != nil {
				ui.Bad.Printf("  Failed to clear: %v\n", err)
				os.Exit(1)
			}
			ui.Good.Printf("  %s Activity log cleared\n", ui.StatusIcon(true))
		},
	}
}

func logExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the activity journal as JSON",
		Run: func(cmd *cobra.Command, args []string) {
			entries, err := activity.Read(0)
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			if entries == nil {
				entries = []activity.Entry{}
			}
			data, _ := json.MarshalIndent(entries, "", "  ")
			fmt.Println(string(data))
		},
	}
}

func logStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show journal statistics",
		Run: func(cmd *cobra.Command, args []string) {
			ui.Banner("activity stats")

			entries, err := activity.Read(0)
			if err != nil || len(entries) == 0 {
				fmt.Println("  No activity data")
				return
			}

			actions := make(map[string]int)
			documents := make(map[string]int)
			sessions := make(map[string]bool)
			for _, e := range entries {
				actions[e.Action]++
				documents[filepath.Base(e.Document)]++
				sessions[e.Session] = true
			}

			fmt.Printf("  Total entries: %d in %s\n\n", len(entries), plural(len(sessions), "session", "sessions"))

			fmt.Println("  By action:")
			printCounts(actions)
			fmt.Println("\n  By document:")
			printCounts(documents)
		},
	}
}

func printEntries(entries []activity.Entry) {
	var rows [][]string
	for _, e := range entries {
		swatch := "-"
		if e.Color != "" {
			swatch = ui.Swatch(e.Color)
		}
		rows = append(rows, []string{
			e.Timestamp.Format("Jan 02 15:04"),
			e.Action,
			e.Subject,
			filepath.Base(e.Document),
			swatch,
		})
	}
	ui.Table([]string{"Time", "Action", "Subject", "Document", "Color"}, rows)
}

func printCounts(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		fmt.Printf("    %-24s %d\n", k, counts[k])
	}
}
