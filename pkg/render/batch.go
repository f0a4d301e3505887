// Package render draws flocking vertex batches with ebiten.
package render

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/viewport"
)

var ErrNoTarget = errors.New("render: no target image, call Begin first")

// maxTriangleVertices keeps every index addressable with uint16 and a whole number of triangles.
const maxTriangleVertices = 65535

var whiteImage *ebiten.Image

// white is the source texture for solid triangles. It is created on first use, once ebiten runs.
func white() *ebiten.Image {
	if whiteImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
	}
	return whiteImage
}

// Batch implements flocking.Renderer on an ebiten image, mapping scene coordinates through a
// RatioView.
type Batch struct {
	view   *viewport.RatioView
	target *ebiten.Image

	// Alpha scales the opacity of everything submitted, like a shader uniform.
	Alpha     float32
	LineWidth float32

	vertices []ebiten.Vertex
	indices  []uint16
}

var _ flocking.Renderer = (*Batch)(nil)

func NewBatch(view *viewport.RatioView) *Batch {
	return &Batch{view: view, Alpha: 1, LineWidth: 1}
}

// Begin sets the image the next Submit calls draw on.
func (b *Batch) Begin(target *ebiten.Image) {
	b.target = target
}

func (b *Batch) Submit(vs []flocking.Vertex, p flocking.Primitive) error {
	if b.target == nil {
		return ErrNoTarget
	}
	switch p {
	case flocking.Triangles:
		if len(vs)%3 != 0 {
			return fmt.Errorf("render: %d vertices do not make whole triangles", len(vs))
		}
		for start := 0; start < len(vs); start += maxTriangleVertices {
			b.drawTriangles(vs[start:min(start+maxTriangleVertices, len(vs))])
		}
	case flocking.Lines:
		for i := 0; i+1 < len(vs); i += 2 {
			b.strokeLine(vs[i], vs[i+1])
		}
	case flocking.LineLoop:
		if len(vs) < 2 {
			break
		}
		for i := range vs {
			b.strokeLine(vs[i], vs[(i+1)%len(vs)])
		}
	default:
		return fmt.Errorf("render: unsupported primitive %v", p)
	}
	return nil
}

func (b *Batch) drawTriangles(vs []flocking.Vertex) {
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
	for i, v := range vs {
		s := b.view.ToScreen(v.Position)
		b.vertices = append(b.vertices, ebiten.Vertex{
			DstX: float32(s.X),
			DstY: float32(s.Y),
			SrcX: 1, SrcY: 1,
			ColorR: float32(v.Color.R) / 255,
			ColorG: float32(v.Color.G) / 255,
			ColorB: float32(v.Color.B) / 255,
			ColorA: float32(v.Color.A) / 255 * b.Alpha,
		})
		b.indices = append(b.indices, uint16(i))
	}
	op := &ebiten.DrawTrianglesOptions{}
	b.target.DrawTriangles(b.vertices, b.indices, white(), op)
}

func (b *Batch) strokeLine(from, to flocking.Vertex) {
	p0 := b.view.ToScreen(from.Position)
	p1 := b.view.ToScreen(to.Position)
	c := from.Color
	clr := color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(float32(c.A) * b.Alpha)}
	vector.StrokeLine(b.target,
		float32(p0.X), float32(p0.Y),
		float32(p1.X), float32(p1.Y),
		b.LineWidth, clr, true)
}
