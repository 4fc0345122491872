package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/msalah0e/flowdesigner/internal/activity"
	"github.com/msalah0e/flowdesigner/internal/catalog"
	"github.com/msalah0e/flowdesigner/internal/config"
	"github.com/msalah0e/flowdesigner/internal/diagram"
	"github.com/msalah0e/flowdesigner/internal/hooks"
	"github.com/msalah0e/flowdesigner/internal/ui"
)

var version = "0.3.0"

var (
	cat       *catalog.Catalog
	catalogFS fs.FS
	cfg       *config.Config
	logger    = zap.NewNop()
	verbose   bool
	noJournal bool
)

// SetCatalogFS sets the filesystem containing the built-in node type files.
func SetCatalogFS(fsys fs.FS) {
	catalogFS = fsys
}

func loadCatalog() *catalog.Catalog {
	if cat != nil {
		return cat
	}
	if catalogFS == nil {
		return catalog.New(nil)
	}
	c, err := catalog.LoadAll(catalogFS, "catalog", logger)
	if err != nil {
		ui.Bad.Printf("flowdesigner: failed to load node catalog: %v\n", err)
		return catalog.New(nil)
	}
	cat = c
	return cat
}

var rootCmd = &cobra.Command{
	Use:   "flowdesigner",
	Short: "flowdesigner: wire up node diagrams from the command line",
	Long: ui.Brand.Sprint(ui.Mark+" flowdesigner") + ": edit node-link diagrams headlessly\n" +
		ui.Subtle.Sprint("Place nodes, connect typed connectors, replay gestures and render SVG snapshots"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		ui.Setup(cfg.UI.Color)
		if verbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			logger = l
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.SetVersionTemplate("flowdesigner {{ .Version }}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log engine events to stderr")
	rootCmd.PersistentFlags().BoolVar(&noJournal, "no-journal", false, "Do not record wire changes in the activity journal")

	rootCmd.AddCommand(
		checkCmd(),
		edgesCmd(),
		connectCmd(),
		disconnectCmd(),
		nodeCmd(),
		scopesCmd(),
		catalogCmd(),
		replayCmd(),
		renderCmd(),
		logCmd(),
		configCmd(),
		completionCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		ui.Bad.Fprintf(os.Stderr, "  %s %v\n", ui.StatusIcon(false), err)
	}
	return err
}

// ─── Diagram session ───

// session is a diagram loaded from a document file.
type session struct {
	path    string
	diagram *diagram.Diagram
	journal *activity.Journal
	hooks   *hooks.Runner
	report  diagram.WireReport
}

// openSession builds a diagram with the configured scopes and colors, then
// imports path into it. A missing file yields an empty diagram when create
// is set.
func openSession(path string, surface diagram.Surface, create bool) (*session, error) {
	d := diagram.New(surface,
		diagram.WithRaster(cfg.Canvas.Raster),
		diagram.WithMargin(cfg.Canvas.PreviewMargin),
		diagram.WithColors(cfg.Colors.Ambiguous, cfg.Colors.Unknown),
		diagram.WithLogger(logger),
	)
	for name, s := range cfg.Scopes {
		if err := d.DefineScope(name, diagram.Scope{Color: s.Color, Label: s.Label}); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	s := &session{path: path, diagram: d}

	doc, err := diagram.Load(path)
	switch {
	case err == nil:
		if s.report, err = d.Import(doc); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case create && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	// attach after import so loading a file is not journaled or hooked
	if cfg.Journal.Enabled && !noJournal {
		s.journal = activity.NewJournal(path, logger)
		d.Subscribe(s.journal)
	}
	if s.hooks = hooks.New(cfg.Hooks, path, logger); s.hooks != nil {
		d.Subscribe(s.hooks)
	}
	return s, nil
}

func (s *session) save() error {
	if err := s.diagram.Export().Save(s.path); err != nil {
		return err
	}
	if s.journal != nil && s.journal.Err() != nil {
		ui.Warn.Printf("  %s journal: %v\n", ui.WarnIcon(), s.journal.Err())
	}
	if s.hooks != nil && s.hooks.Err() != nil {
		ui.Warn.Printf("  %s hook: %v\n", ui.WarnIcon(), s.hooks.Err())
	}
	return nil
}

func mustOpen(path string, surface diagram.Surface, create bool) *session {
	s, err := openSession(path, surface, create)
	if err != nil {
		ui.Bad.Printf("  %s %v\n", ui.StatusIcon(false), err)
		os.Exit(1)
	}
	return s
}

func mustSave(s *session) {
	if err := s.save(); err != nil {
		ui.Bad.Printf("  %s saving %s: %v\n", ui.StatusIcon(false), s.path, err)
		os.Exit(1)
	}
}
