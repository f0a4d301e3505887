// Package viewport maps scene coordinates to canvas pixels and back.
package viewport

import "github.com/lao-tseu-is-alive/go-flock-arena/pkg/geometry"

// RatioView fits a fixed-size scene into a canvas of any size, keeping the aspect ratio.
// The scene is scaled uniformly and centered; the leftover strips stay empty.
// Both spaces have their origin in the top-left corner with Y pointing down.
type RatioView struct {
	scene  geometry.Vector2D
	canvas geometry.Vector2D
	scale  float64
	offset geometry.Vector2D
}

// NewRatioView shows a sceneW x sceneH scene. Call SetCanvasSize before mapping anything.
func NewRatioView(sceneW, sceneH float64) *RatioView {
	v := &RatioView{scene: geometry.Vector2D{X: sceneW, Y: sceneH}}
	v.SetCanvasSize(sceneW, sceneH)
	return v
}

// SetCanvasSize updates the pixel size of the canvas. Non-positive sizes are ignored.
func (v *RatioView) SetCanvasSize(w, h float64) {
	if w <= 0 || h <= 0 || v.scene.X <= 0 || v.scene.Y <= 0 {
		return
	}
	v.canvas = geometry.Vector2D{X: w, Y: h}
	v.scale = min(w/v.scene.X, h/v.scene.Y)
	v.offset = geometry.Vector2D{
		X: (w - v.scene.X*v.scale) / 2,
		Y: (h - v.scene.Y*v.scale) / 2,
	}
}

// Scale is the number of pixels per scene unit.
func (v *RatioView) Scale() float64 { return v.scale }

// SceneSize is the size of the scene in scene units.
func (v *RatioView) SceneSize() geometry.Vector2D { return v.scene }

// CanvasSize is the last size given to SetCanvasSize.
func (v *RatioView) CanvasSize() geometry.Vector2D { return v.canvas }

// ToScreen maps a scene point to canvas pixels.
func (v *RatioView) ToScreen(p geometry.Vector2D) geometry.Vector2D {
	return p.Mul(v.scale).Add(v.offset)
}

// ToScene maps a pixel to the scene. ok is false when the pixel lies in the empty strips.
func (v *RatioView) ToScene(px, py float64) (p geometry.Vector2D, ok bool) {
	p = geometry.Vector2D{X: (px - v.offset.X) / v.scale, Y: (py - v.offset.Y) / v.scale}
	ok = p.X >= 0 && p.X <= v.scene.X && p.Y >= 0 && p.Y <= v.scene.Y
	return p, ok
}

// Bounds is the canvas rectangle covered by the scene, in pixels.
func (v *RatioView) Bounds() (x, y, w, h float64) {
	return v.offset.X, v.offset.Y, v.scene.X * v.scale, v.scene.Y * v.scale
}
