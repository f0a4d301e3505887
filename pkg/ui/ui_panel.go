package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// UIWidget is an interface for all UI widgets
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	GetHeight() float64
	setY(y float64)
}

type sliderWidget struct{ *Slider }

func (s sliderWidget) GetHeight() float64 { return s.H + 25 }
func (s sliderWidget) setY(y float64)     { s.Y = y }

type checkboxWidget struct{ *Checkbox }

func (c checkboxWidget) GetHeight() float64 { return c.Size + 20 }
func (c checkboxWidget) setY(y float64)     { c.Y = y }

type buttonWidget struct{ *Button }

func (b buttonWidget) GetHeight() float64 { return b.Height + 10 }
func (b buttonWidget) setY(y float64)     { b.Y = y }

// PanelSection groups the widgets added between AddSection and the next AddSection
type PanelSection struct {
	Title      string
	StartIndex int
}

// UIPanel manages a collection of UI widgets in a scrollable panel
type UIPanel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	Hidden        bool

	Widgets      []UIWidget
	Labels       []string
	ScrollOffset float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []PanelSection
}

// NewUIPanel creates a new UI panel
func NewUIPanel(title string, x, y, width, height float64) *UIPanel {
	return &UIPanel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new titled group of widgets
func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, PanelSection{Title: title, StartIndex: len(p.Widgets)})
}

// AddSlider adds a slider widget to the panel
func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	p.add(sliderWidget{s}, label)
	return s
}

// AddCheckbox adds a checkbox widget to the panel
func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+10, 0, label, value)
	p.add(checkboxWidget{c}, label)
	return c
}

// AddButton adds a full width button; its label is drawn inside it
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, 0, p.Width-20, 20, label, onClick)
	p.add(buttonWidget{b}, "")
	return b
}

func (p *UIPanel) add(w UIWidget, label string) {
	p.Widgets = append(p.Widgets, w)
	p.Labels = append(p.Labels, label)
	p.layout()
}

// layout places every widget according to sections and scroll
func (p *UIPanel) layout() {
	y := p.Y + 30 - p.ScrollOffset
	section := 0
	for i, w := range p.Widgets {
		for section < len(p.sections) && p.sections[section].StartIndex == i {
			y += 25
			section++
		}
		w.setY(y + 15)
		y += w.GetHeight()
	}
}

// Contains reports whether the pixel is covered by the panel
func (p *UIPanel) Contains(x, y int) bool {
	return !p.Hidden &&
		float64(x) >= p.X && float64(x) <= p.X+p.Width &&
		float64(y) >= p.Y && float64(y) <= p.Y+p.Height
}

// Update handles scrolling and input for all widgets
func (p *UIPanel) Update() {
	if p.Hidden {
		return
	}
	if _, dy := ebiten.Wheel(); dy != 0 && p.Contains(ebiten.CursorPosition()) {
		maxScroll := max(p.calculateTotalHeight()-p.Height+40, 0)
		p.ScrollOffset = max(0, min(maxScroll, p.ScrollOffset-dy*20))
		p.layout()
	}
	for _, widget := range p.Widgets {
		widget.Update()
	}
}

// Draw renders the panel and all widgets
func (p *UIPanel) Draw(screen *ebiten.Image) {
	if p.Hidden {
		return
	}
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	visible := func(y float64) bool { return y >= p.Y+20 && y <= p.Y+p.Height-20 }

	y := p.Y + 30 - p.ScrollOffset
	section := 0
	for i, w := range p.Widgets {
		for section < len(p.sections) && p.sections[section].StartIndex == i {
			if visible(y) {
				vector.FillRect(screen,
					float32(p.X+5), float32(y),
					float32(p.Width-10), 20,
					color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
				ebitenutil.DebugPrintAt(screen, p.sections[section].Title, int(p.X+10), int(y+2))
			}
			y += 25
			section++
		}
		if visible(y) {
			if label := p.Labels[i]; label != "" {
				ebitenutil.DebugPrintAt(screen, label, int(p.X+10), int(y-2))
			}
			w.Draw(screen)
		}
		y += w.GetHeight()
	}
}

// calculateTotalHeight calculates the total content height
func (p *UIPanel) calculateTotalHeight() float64 {
	height := 30.0 + float64(len(p.sections))*25
	for _, widget := range p.Widgets {
		height += widget.GetHeight()
	}
	return height
}
