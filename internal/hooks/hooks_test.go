package hooks

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msalah0e/flowdesigner/internal/config"
	"github.com/msalah0e/flowdesigner/internal/connector"
	"github.com/msalah0e/flowdesigner/internal/wire"
)

func manager(t *testing.T, r *Runner) *wire.Manager {
	t.Helper()
	m := wire.NewManager()
	m.Register(connector.New(connector.Source, "a", connector.Config{Name: "out", Scopes: []string{"image"}}))
	m.Register(connector.New(connector.Sink, "b", connector.Config{Name: "in", Scopes: []string{"image"}}))
	m.Subscribe(r)
	return m
}

func TestNewWithoutHooks(t *testing.T) {
	assert.Nil(t, New(config.HooksConfig{}, "flow.json", nil))
}

func TestRunsScriptsWithWireEnv(t *testing.T) {
	out := filepath.Join(t.TempDir(), "events")
	line := `echo "$FLOWDESIGNER_EVENT $FLOWDESIGNER_WIRE $FLOWDESIGNER_SOURCE $FLOWDESIGNER_TARGET $FLOWDESIGNER_SCOPES $FLOWDESIGNER_DOCUMENT" >> ` + out
	r := New(config.HooksConfig{WireAdded: line, WireRemoved: line}, "flow.json", nil)
	require.NotNil(t, r)

	m := manager(t, r)
	_, ok := m.AddWire("a-out", "b-in")
	require.True(t, ok)
	require.True(t, m.RemoveWire(wire.Key("a-out", "b-in")))
	require.NoError(t, r.Err())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"wire_added a-out|b-in a-out b-in image flow.json",
		"wire_removed a-out|b-in a-out b-in image flow.json",
	}, strings.Split(strings.TrimSpace(string(data)), "\n"))
}

func TestOnlyConfiguredEventsRun(t *testing.T) {
	var stdout bytes.Buffer
	r := New(config.HooksConfig{WireRemoved: `echo removed $FLOWDESIGNER_WIRE`}, "", nil)
	r.stdout = &stdout

	m := manager(t, r)
	m.AddWire("a-out", "b-in")
	assert.Empty(t, stdout.String())

	m.Unregister("b-in")
	assert.Equal(t, "removed a-out|b-in\n", stdout.String())
}

func TestFailureIsKept(t *testing.T) {
	r := New(config.HooksConfig{WireAdded: "exit 3"}, "", nil)
	r.stderr = &bytes.Buffer{}

	m := manager(t, r)
	_, ok := m.AddWire("a-out", "b-in")

	assert.True(t, ok, "a failing hook does not undo the wire")
	require.Error(t, r.Err())
	assert.Contains(t, r.Err().Error(), "exit status 3")
}
