package cmd

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/flowdesigner/internal/render"
	"github.com/msalah0e/flowdesigner/internal/ui"
)

func renderCmd() *cobra.Command {
	var (
		output string
		opts   render.SVGOptions
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a diagram as an SVG snapshot",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			s := mustOpen(args[0], nil, false)
			if opts.Title == "" {
				opts.Title = filepath.Base(args[0])
			}

			if output == "" || output == "-" {
				w := bufio.NewWriter(os.Stdout)
				err := render.WriteSVG(w, s.diagram, opts)
				if err == nil {
					err = w.Flush()
				}
				if err != nil {
					ui.Bad.Fprintf(os.Stderr, "  %s %v\n", ui.StatusIcon(false), err)
					os.Exit(1)
				}
				return
			}

			if err := writeSVGFile(output, s, opts); err != nil {
				ui.Bad.Printf("  %s %v\n", ui.StatusIcon(false), err)
				os.Exit(1)
			}
			ui.Good.Printf("  %s wrote %s\n", ui.StatusIcon(true), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "SVG file to write (default stdout)")
	cmd.Flags().IntVar(&opts.Padding, "padding", 20, "Blank border around the drawing")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Document title (default file name)")
	cmd.Flags().StringVar(&opts.Background, "background", "", "Canvas fill color")
	cmd.Flags().BoolVar(&opts.Straight, "straight", false, "Draw straight wires instead of curves")
	return cmd
}

func writeSVGFile(path string, s *session, opts render.SVGOptions) (err error) {
	if !strings.EqualFold(filepath.Ext(path), ".svg") {
		ui.Warn.Printf("  %s %s does not end in .svg\n", ui.WarnIcon(), path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return render.WriteSVG(f, s.diagram, opts)
}
