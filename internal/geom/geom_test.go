package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShorten(t *testing.T) {
	tests := []struct {
		name     string
		from, to Point
		margin   float64
		want     Point
	}{
		{"horizontal", Pt(0, 0), Pt(100, 0), 5, Pt(95, 0)},
		{"vertical", Pt(10, 10), Pt(10, 60), 5, Pt(10, 55)},
		{"diagonal", Pt(0, 0), Pt(30, 40), 5, Pt(27, 36)},
		{"shorter than margin", Pt(0, 0), Pt(3, 0), 5, Pt(0, 0)},
		{"zero length", Pt(7, 7), Pt(7, 7), 5, Pt(7, 7)},
		{"no margin", Pt(0, 0), Pt(12, 0), 0, Pt(12, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Shorten(tt.from, tt.to, tt.margin))
		})
	}
}

func TestBezierPath(t *testing.T) {
	got := BezierPath(Pt(0, 0), Pt(100, 50))
	assert.Equal(t, "M 0,0 C 50,0 50,50 100,50", got)
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 20.0, Snap(17, 10))
	assert.Equal(t, 10.0, Snap(14, 10))
	assert.Equal(t, 17.3, Snap(17.3, 0))
}

func TestRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 100, Height: 40}
	assert.Equal(t, Pt(60, 40), r.Center())
	assert.True(t, r.Contains(Pt(10, 20)))
	assert.False(t, r.Contains(Pt(111, 20)))
}
