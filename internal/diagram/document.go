package diagram

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/msalah0e/flowdesigner/internal/wire"
)

// Document is the serialized form of a diagram.
type Document struct {
	Scopes map[string]Scope `json:"scopes,omitempty" yaml:"scopes,omitempty" validate:"dive"`
	Nodes  []NodeSettings   `json:"nodes" yaml:"nodes" validate:"dive"`
	Wires  []wire.EdgeRef   `json:"wires" yaml:"wires" validate:"dive"`
}

// Validate checks every scope, node and wire entry and that node ids are unique.
func (doc *Document) Validate() error {
	if err := validate.Struct(doc); err != nil {
		return formatValidationError(err)
	}
	seen := make(map[string]bool, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		if n.ID == "" {
			continue
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
		}
		seen[n.ID] = true
	}
	return nil
}

// Export snapshots scopes, nodes in insertion order and wires sorted by key.
func (d *Diagram) Export() *Document {
	doc := &Document{
		Scopes: d.Scopes(),
		Nodes:  make([]NodeSettings, 0, len(d.order)),
		Wires:  d.wires.ExportEdges(),
	}
	for _, n := range d.Nodes() {
		doc.Nodes = append(doc.Nodes, n.Settings())
	}
	return doc
}

// Import defines the document's scopes, adds its nodes and then its wires.
// Node errors abort the import; rejected wires are only reported.
func (d *Diagram) Import(doc *Document) (WireReport, error) {
	if err := doc.Validate(); err != nil {
		return WireReport{}, err
	}
	for name, s := range doc.Scopes {
		if err := d.DefineScope(name, s); err != nil {
			return WireReport{}, err
		}
	}
	for _, s := range doc.Nodes {
		if _, err := d.AddNode(s); err != nil {
			return WireReport{}, err
		}
	}
	return d.ImportWires(doc.Wires), nil
}

// ─── Encoding ───

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode reads a document in the given format.
func Decode(r io.Reader, f Format) (*Document, error) {
	var doc Document
	switch f {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing YAML document: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing JSON document: %w", err)
		}
	}
	return &doc, nil
}

// Encode writes the document in the given format.
func (doc *Document) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
}

// Load reads and validates a document file.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Decode(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Save writes the document, creating parent directories as needed.
func (doc *Document) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := doc.Encode(f, FormatFor(path)); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
