package viewport

import (
	"math"

	"campus-map/internal/navigator/models"
)

// ============================================================
// Projection
// ============================================================

// Projection is the mapping from image pixels to the rectangle the image
// was last drawn into. It is rebuilt whenever the image, zoom or pan changes.
type Projection struct {
	NaturalWidth  int     `json:"naturalWidth"`
	NaturalHeight int     `json:"naturalHeight"`
	DrawX         float64 `json:"drawX"`
	DrawY         float64 `json:"drawY"`
	DrawWidth     float64 `json:"drawWidth"`
	DrawHeight    float64 `json:"drawHeight"`
}

// Valid reports whether the projection describes a drawn image.
func (p Projection) Valid() bool {
	return p.NaturalWidth > 0 && p.NaturalHeight > 0 && p.DrawWidth > 0 && p.DrawHeight > 0
}

// ToViewport maps image pixel coordinates into viewport coordinates.
func (p Projection) ToViewport(x, y float64) (float64, float64) {
	vx := p.DrawX + (x/float64(p.NaturalWidth))*p.DrawWidth
	vy := p.DrawY + (y/float64(p.NaturalHeight))*p.DrawHeight
	return vx, vy
}

// Point is ToViewport for a models.Point.
func (p Projection) Point(pt models.Point) models.Point {
	x, y := p.ToViewport(pt.X, pt.Y)
	return models.Point{X: x, Y: y}
}

// ToImage maps a viewport position back to image pixels, floored. ok is false
// when the position lies outside the drawn rectangle (its border included).
func (p Projection) ToImage(vx, vy float64) (x, y int, ok bool) {
	if !p.Valid() || !p.Contains(vx, vy) {
		return 0, 0, false
	}
	relX := (vx - p.DrawX) / p.DrawWidth
	relY := (vy - p.DrawY) / p.DrawHeight
	x = int(math.Floor(relX * float64(p.NaturalWidth)))
	y = int(math.Floor(relY * float64(p.NaturalHeight)))
	return x, y, true
}

func (p Projection) Contains(vx, vy float64) bool {
	return vx >= p.DrawX && vx <= p.DrawX+p.DrawWidth &&
		vy >= p.DrawY && vy <= p.DrawY+p.DrawHeight
}

// Distance is the viewport distance between two viewport points.
func Distance(a, b models.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
