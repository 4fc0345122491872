package connector

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func out(owner, name string, scopes ...string) *Connector {
	return New(Source, owner, Config{Name: name, Scopes: scopes})
}

func in(owner, name string, scopes ...string) *Connector {
	return New(Sink, owner, Config{Name: name, Scopes: scopes})
}

func TestNewDefaults(t *testing.T) {
	c := New(Source, "n1", Config{Name: "out", Label: "Image", Scopes: []string{"image", "image", "video"}})

	assert.Equal(t, "n1-out", c.ID())
	assert.Equal(t, "n1", c.Owner())
	assert.Equal(t, Source, c.Kind())
	assert.Equal(t, "Image", c.Label())
	assert.Equal(t, []string{"image", "video"}, c.Scopes())
	assert.Zero(t, c.Degree())
}

func TestNewExplicitID(t *testing.T) {
	c := New(Sink, "n1", Config{Name: "in", ID: "custom", Scopes: []string{"a"}})
	assert.Equal(t, "custom", c.ID())
}

func TestConfigRejectsKeySeparator(t *testing.T) {
	v := validator.New()
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"name", Config{Name: "in|x", Scopes: []string{"a"}}, "Name"},
		{"id", Config{Name: "in", ID: "n1|in", Scopes: []string{"a"}}, "ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.cfg)
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field())
			assert.Equal(t, "excludes", verrs[0].Tag())
			assert.Equal(t, "|", verrs[0].Param())
		})
	}

	assert.NoError(t, v.Struct(Config{Name: "in", ID: "n1-in", Scopes: []string{"a"}}))
}

func TestScopesIsCopy(t *testing.T) {
	c := out("n1", "out", "image")
	s := c.Scopes()
	s[0] = "audio"
	assert.Equal(t, []string{"image"}, c.Scopes())
}

func TestAddConnectionIdempotent(t *testing.T) {
	a := out("n1", "out", "image")
	b := in("n2", "in", "image")

	a.AddConnection(b)
	a.AddConnection(b)

	assert.Equal(t, 1, a.Degree())
	assert.True(t, a.IsConnected(b))
}

func TestRemoveConnection(t *testing.T) {
	a := out("n1", "out", "image")
	b := in("n2", "in", "image")

	a.RemoveConnection(b) // absent: no-op
	a.AddConnection(b)
	a.RemoveConnection(b)

	assert.False(t, a.IsConnected(b))
	assert.Zero(t, a.Degree())
}

func TestConnectionsSnapshot(t *testing.T) {
	a := out("n1", "out", "image")
	c := in("n3", "in", "image")
	b := in("n2", "in", "image")
	a.AddConnection(c)
	a.AddConnection(b)

	snap := a.Connections()
	require.Len(t, snap, 2)
	assert.Equal(t, "n2-in", snap[0].ID())
	assert.Equal(t, "n3-in", snap[1].ID())

	for _, p := range snap {
		a.RemoveConnection(p)
	}
	assert.Zero(t, a.Degree())
	assert.Len(t, snap, 2)
}

func TestHasScopes(t *testing.T) {
	c := out("n1", "out", "image", "video")

	assert.True(t, c.HasScopes([]string{"video"}))
	assert.True(t, c.HasScopes([]string{"audio", "image"}))
	assert.False(t, c.HasScopes([]string{"audio"}))
	assert.False(t, c.HasScopes(nil))
}

func TestSharedScopes(t *testing.T) {
	a := out("n1", "out", "video", "image")
	b := in("n2", "in", "video", "audio", "image")

	assert.Equal(t, []string{"image", "video"}, a.SharedScopes(b))
	assert.Equal(t, a.SharedScopes(b), b.SharedScopes(a))
	assert.Empty(t, a.SharedScopes(in("n3", "in", "ctrl")))
}

func TestIsAllowed(t *testing.T) {
	tests := []struct {
		name string
		a, b *Connector
		want bool
	}{
		{"shared scope", out("n1", "out", "image"), in("n2", "in", "image"), true},
		{"scope mismatch", out("n1", "out", "image"), in("n2", "in", "audio"), false},
		{"same node", out("n1", "out", "image"), in("n1", "in", "image"), false},
		{"multi scope overlap", out("n1", "out", "image", "video"), in("n2", "in", "video", "audio"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.IsAllowed(tt.b))
			assert.Equal(t, tt.want, tt.b.IsAllowed(tt.a), "predicate must be symmetric")
		})
	}
}

func TestIsAllowedAlreadyConnected(t *testing.T) {
	a := out("n1", "out", "image")
	b := in("n2", "in", "image")
	require.True(t, a.IsAllowed(b))

	// one-sided bookkeeping still rejects from both ends
	a.AddConnection(b)
	assert.False(t, a.IsAllowed(b))
	assert.False(t, b.IsAllowed(a))
}

func TestKindText(t *testing.T) {
	data, err := json.Marshal(struct{ K Kind }{Source})
	require.NoError(t, err)
	assert.JSONEq(t, `{"K":"output"}`, string(data))

	var v struct{ K Kind }
	require.NoError(t, json.Unmarshal([]byte(`{"K":"input"}`), &v))
	assert.Equal(t, Sink, v.K)

	assert.Error(t, json.Unmarshal([]byte(`{"K":"sideways"}`), &v))

	k, err := ParseKind("Source")
	require.NoError(t, err)
	assert.Equal(t, Source, k)
}
