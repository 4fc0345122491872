package diagram

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msalah0e/flowdesigner/internal/connector"
	"github.com/msalah0e/flowdesigner/internal/wire"
)

func sample(t *testing.T) *Diagram {
	t.Helper()
	d := New(nil)
	require.NoError(t, d.DefineScope("image", Scope{Color: "#ff0000", Label: "Image"}))
	require.NoError(t, d.DefineScope("ctrl", Scope{Color: "#0000ff"}))
	_, err := d.AddNode(NodeSettings{
		ID: "src", Label: "Source",
		Output: []connector.Config{
			{Name: "img", Label: "Image", Scopes: []string{"image"}},
			{Name: "ctl", Scopes: []string{"ctrl"}},
		},
	})
	require.NoError(t, err)
	_, err = d.AddNode(NodeSettings{
		ID: "dst", X: 400, Fixed: true,
		Input: []connector.Config{{Name: "in", Scopes: []string{"image", "ctrl"}}},
	})
	require.NoError(t, err)
	_, ok := d.AddWire("src-img", "dst-in")
	require.True(t, ok)
	return d
}

func TestExport(t *testing.T) {
	doc := sample(t).Export()

	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, "src", doc.Nodes[0].ID)
	assert.Equal(t, "dst", doc.Nodes[1].ID)
	assert.True(t, doc.Nodes[1].Fixed)
	assert.Equal(t, []wire.EdgeRef{{Source: "src-img", Target: "dst-in"}}, doc.Wires)
	assert.Equal(t, "#0000ff", doc.Scopes["ctrl"].Color)
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, sample(t).Export().Encode(&buf, f))

			doc, err := Decode(&buf, f)
			require.NoError(t, err)

			d := New(nil)
			report, err := d.Import(doc)
			require.NoError(t, err)
			assert.Equal(t, 1, report.Added)
			assert.Empty(t, report.Rejected)

			assert.Equal(t, sample(t).Export(), d.Export())
		})
	}
}

func TestImportWiresIdempotent(t *testing.T) {
	d := sample(t)
	refs := []wire.EdgeRef{
		{Source: "src-img", Target: "dst-in"},
		{Source: "src-ctl", Target: "missing"},
	}

	r := d.ImportWires(refs)
	assert.Equal(t, WireReport{Existing: 1, Rejected: []wire.EdgeRef{refs[1]}}, r)

	r = d.ImportWires(d.Export().Wires)
	assert.Equal(t, 0, r.Added)
	assert.Equal(t, 1, r.Existing)
	assert.Equal(t, 1, d.Wires().Len())
}

func TestImportRejectsDuplicateNodes(t *testing.T) {
	doc := &Document{Nodes: []NodeSettings{{ID: "a"}, {ID: "a"}}}
	assert.ErrorIs(t, doc.Validate(), ErrDuplicateNode)

	_, err := New(nil).Import(doc)
	assert.ErrorIs(t, err, ErrDuplicateNode)
}

func TestValidateDocument(t *testing.T) {
	doc := &Document{
		Scopes: map[string]Scope{"image": {}},
	}
	assert.ErrorIs(t, doc.Validate(), ErrInvalid)

	doc = &Document{Wires: []wire.EdgeRef{{Source: "a"}}}
	err := doc.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "Target is required")
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFor("flow.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("FLOW.YML"))
	assert.Equal(t, FormatJSON, FormatFor("flow.json"))
	assert.Equal(t, FormatJSON, FormatFor("flow"))
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"nested/flow.json", "flow.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, sample(t).Export().Save(path))

		doc, err := Load(path)
		require.NoError(t, err)
		assert.Len(t, doc.Nodes, 2)
		assert.Len(t, doc.Wires, 1)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{nodes"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte(strings.Join([]string{
		"nodes:",
		"  - id: a",
		"    input:",
		"      - name: in",
	}, "\n")), 0o644))
	_, err = Load(invalid)
	assert.ErrorIs(t, err, ErrInvalid)
}
