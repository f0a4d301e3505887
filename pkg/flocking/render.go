package flocking

import (
	"image/color"

	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/geometry"
)

// Primitive is the topology of a vertex batch.
type Primitive uint8

const (
	Triangles Primitive = iota
	Lines
	LineLoop
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	case LineLoop:
		return "line-loop"
	}
	return "unknown"
}

// Vertex is a colored point in scene space.
type Vertex struct {
	Position geometry.Vector2D
	Color    color.RGBA
}

// Renderer receives batches of scene-space vertices. Mapping them to the screen is the
// renderer's business. Implementations must not retain vertices after Submit returns.
type Renderer interface {
	Submit(vertices []Vertex, primitive Primitive) error
}

// Style controls how agents are drawn.
type Style struct {
	Size  float64    `json:"size" toml:"size"` // tip distance from the agent position
	Color color.RGBA `json:"-" toml:"-"`
}

// DefaultStyle matches the 1000 unit scene.
func DefaultStyle() Style {
	return Style{Size: 12, Color: color.RGBA{R: 100, G: 200, B: 255, A: 255}}
}

// wing angle and length of the agent triangle, relative to the heading and Style.Size
const (
	wingAngle = 2.5
	wingRatio = 5.0 / 6.0
)

// appendAgent emits the triangle of one agent, tip first, oriented along its velocity.
func appendAgent(dst []Vertex, a Agent, s Style) []Vertex {
	dir := a.Direction()
	tip := a.Position.Add(dir.Mul(s.Size))
	right := a.Position.Add(dir.Rotate(wingAngle).Mul(s.Size * wingRatio))
	left := a.Position.Add(dir.Rotate(-wingAngle).Mul(s.Size * wingRatio))
	return append(dst,
		Vertex{Position: tip, Color: s.Color},
		Vertex{Position: right, Color: s.Color},
		Vertex{Position: left, Color: s.Color},
	)
}

func drawAgents(r Renderer, agents []Agent, s Style, buf []Vertex) ([]Vertex, error) {
	buf = buf[:0]
	for _, a := range agents {
		buf = appendAgent(buf, a, s)
	}
	if len(buf) == 0 {
		return buf, nil
	}
	return buf, r.Submit(buf, Triangles)
}

// ArenaGeometry returns the border band (four quads as 24 triangle vertices) and the outline of
// the playable region (4 vertices, meant for LineLoop).
func ArenaGeometry(arena Extent, border float64, band, outline color.RGBA) ([]Vertex, []Vertex) {
	w, h, b := arena.Width, arena.Height, border
	quad := func(x0, y0, x1, y1 float64) []Vertex {
		p := func(x, y float64) Vertex { return Vertex{Position: geometry.Vector2D{X: x, Y: y}, Color: band} }
		return []Vertex{
			p(x0, y0), p(x1, y0), p(x0, y1),
			p(x0, y1), p(x1, y1), p(x1, y0),
		}
	}

	bandVerts := make([]Vertex, 0, 24)
	bandVerts = append(bandVerts, quad(0, 0, b, h)...)   // left
	bandVerts = append(bandVerts, quad(w-b, 0, w, h)...) // right
	bandVerts = append(bandVerts, quad(0, 0, w, b)...)   // top
	bandVerts = append(bandVerts, quad(0, h-b, w, h)...) // bottom

	o := func(x, y float64) Vertex { return Vertex{Position: geometry.Vector2D{X: x, Y: y}, Color: outline} }
	outlineVerts := []Vertex{o(b, b), o(w-b, b), o(w-b, h-b), o(b, h-b)}
	return bandVerts, outlineVerts
}
