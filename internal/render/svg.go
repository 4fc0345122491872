package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/msalah0e/flowdesigner/internal/connector"
	"github.com/msalah0e/flowdesigner/internal/diagram"
	"github.com/msalah0e/flowdesigner/internal/geom"
)

const (
	fontFamily  = "Verdana, Arial, Helvetica, Sans-Serif"
	fontSize    = 12
	nodeOpacity = 0.75
)

// SVGOptions controls the snapshot layout.
type SVGOptions struct {
	Padding    int    // blank border around the drawing
	Title      string // document title, omitted when empty
	Background string // canvas fill, transparent when empty
	Straight   bool   // straight wires instead of curves
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// WriteSVG draws the diagram's nodes, connectors and wires as an SVG document.
func WriteSVG(w io.Writer, d *diagram.Diagram, opts SVGOptions) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	bounds := boundsOf(d.Nodes())
	width := px(bounds.Width) + 2*opts.Padding
	height := px(bounds.Height) + 2*opts.Padding

	canvas.Start(width, height)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}
	if opts.Background != "" {
		canvas.Rect(0, 0, width, height, "fill:"+opts.Background)
	}
	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", opts.Padding-px(bounds.X), opts.Padding-px(bounds.Y)))

	canvas.Gid("wires")
	for _, e := range d.Wires().Wires() {
		from := center(d, e.Source.Owner(), e.Source.ID())
		to := center(d, e.Target.Owner(), e.Target.ID())
		path := geom.BezierPath(from, to)
		if opts.Straight {
			path = geom.LinePath(from, to)
		}
		canvas.Path(path, fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", e.Color))
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, n := range d.Nodes() {
		drawNode(canvas, d, n)
	}
	canvas.Gend()

	canvas.Gend()
	canvas.End()
	return ew.err
}

func drawNode(canvas *svg.SVG, d *diagram.Diagram, n *diagram.Node) {
	s := n.Settings()
	r := n.Rect()
	x, y := px(r.X), px(r.Y)

	canvas.Gid(n.ID())
	canvas.Roundrect(x, y, px(r.Width), px(r.Height), 5, 5,
		fmt.Sprintf("fill:%s;stroke:%s;opacity:%g", s.Color, s.BorderColor, nodeOpacity))
	canvas.Text(x+5, y+15, s.Label, textStyle(s.FontColor, "start"))
	if !s.Fixed {
		canvas.Text(x+px(r.Width)-5, y+15, "×", textStyle(s.FontColor, "end")+";opacity:0.5")
	}

	for _, c := range n.Connectors() {
		p, _ := n.ConnectorCenter(c.ID())
		cx, cy := px(p.X), px(p.Y)
		canvas.Circle(cx, cy, diagram.ConnectorRadius,
			fmt.Sprintf("fill:%s;stroke:black", d.ConnectorColor(c)))

		label := c.Label()
		if label == "" {
			continue
		}
		if c.Kind() == connector.Sink {
			canvas.Text(cx+diagram.ConnectorInset, cy+4, label, textStyle(s.FontColor, "start"))
		} else {
			canvas.Text(cx-diagram.ConnectorInset, cy+4, label, textStyle(s.FontColor, "end"))
		}
	}
	canvas.Gend()
}

func textStyle(color, anchor string) string {
	return fmt.Sprintf("fill:%s;font-family:%s;font-size:%dpx;text-anchor:%s", color, fontFamily, fontSize, anchor)
}

func center(d *diagram.Diagram, owner, id string) geom.Point {
	n, ok := d.Node(owner)
	if !ok {
		return geom.Point{}
	}
	p, _ := n.ConnectorCenter(id)
	return p
}

// boundsOf returns the smallest rectangle enclosing all nodes.
func boundsOf(nodes []*diagram.Node) geom.Rect {
	if len(nodes) == 0 {
		return geom.Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		r := n.Rect()
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.X+r.Width)
		maxY = math.Max(maxY, r.Y+r.Height)
	}
	return geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func px(v float64) int {
	return int(math.Round(v))
}
