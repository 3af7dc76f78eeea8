package viewport

import "math"

// ============================================================
// Camera
// ============================================================

const (
	MinZoom   = 1.0
	MaxZoom   = 5.0
	ZoomSpeed = 0.1

	hitRadius  = 20
	nodeRadius = 15
)

// Camera holds the viewer canvas size, zoom level and pan offset. Layout turns
// it into a Projection for a concrete image.
type Camera struct {
	CanvasWidth  float64 `json:"canvasWidth"`
	CanvasHeight float64 `json:"canvasHeight"`
	Zoom         float64 `json:"zoom"`
	OffsetX      float64 `json:"offsetX"`
	OffsetY      float64 `json:"offsetY"`
}

func NewCamera(width, height float64) *Camera {
	return &Camera{CanvasWidth: width, CanvasHeight: height, Zoom: MinZoom}
}

// Reset drops zoom and pan. Called whenever a different image is shown.
func (c *Camera) Reset() {
	c.Zoom = MinZoom
	c.OffsetX = 0
	c.OffsetY = 0
}

func (c *Camera) Resize(width, height float64) {
	c.CanvasWidth = width
	c.CanvasHeight = height
}

// HitRadius is the click tolerance around a node in viewport pixels.
func (c *Camera) HitRadius() float64 {
	return hitRadius * c.Zoom
}

// NodeRadius is the drawn radius of a node marker in viewport pixels.
func (c *Camera) NodeRadius() float64 {
	return nodeRadius * c.Zoom
}

// Scale multiplies a base stroke or glyph size by the current zoom.
func (c *Camera) Scale(v float64) float64 {
	return v * c.Zoom
}

// baseSize is the aspect-fit size of the image at zoom 1.
func (c *Camera) baseSize(naturalW, naturalH int) (w, h float64, wider bool) {
	imgAspect := float64(naturalW) / float64(naturalH)
	canvasAspect := c.CanvasWidth / c.CanvasHeight

	if imgAspect > canvasAspect {
		return c.CanvasWidth, c.CanvasWidth / imgAspect, true
	}
	return c.CanvasHeight * imgAspect, c.CanvasHeight, false
}

// Layout fits the image into the canvas, applies zoom and pan, and returns the
// resulting projection. When zoomed in the pan offset is clamped so the image
// cannot leave the canvas, and the clamped offset is stored back.
func (c *Camera) Layout(naturalW, naturalH int) Projection {
	if naturalW <= 0 || naturalH <= 0 || c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return Projection{NaturalWidth: naturalW, NaturalHeight: naturalH}
	}

	baseW, baseH, wider := c.baseSize(naturalW, naturalH)
	drawW := baseW * c.Zoom
	drawH := baseH * c.Zoom

	x := (c.CanvasWidth-drawW)/2 + c.OffsetX
	y := (c.CanvasHeight-drawH)/2 + c.OffsetY

	if c.Zoom > MinZoom {
		if wider || drawW > c.CanvasWidth {
			x = clampEdge(x, c.CanvasWidth-drawW)
		} else {
			x = (c.CanvasWidth - drawW) / 2
		}
		if !wider || drawH > c.CanvasHeight {
			y = clampEdge(y, c.CanvasHeight-drawH)
		} else {
			y = (c.CanvasHeight - drawH) / 2
		}

		c.OffsetX = x - (c.CanvasWidth-drawW)/2
		c.OffsetY = y - (c.CanvasHeight-drawH)/2
	}

	return Projection{
		NaturalWidth:  naturalW,
		NaturalHeight: naturalH,
		DrawX:         x,
		DrawY:         y,
		DrawWidth:     drawW,
		DrawHeight:    drawH,
	}
}

// clampEdge keeps the leading image edge within [low, 0] so a zoomed image
// always covers the canvas along that axis.
func clampEdge(v, low float64) float64 {
	if v > 0 {
		return 0
	}
	if v < low {
		return low
	}
	return v
}

// ZoomAt applies one wheel step at a canvas position. A positive step zooms
// in. The image point under the cursor stays fixed; returning to MinZoom
// recentres the image.
func (c *Camera) ZoomAt(mouseX, mouseY float64, step int) {
	old := c.Zoom
	switch {
	case step > 0:
		c.Zoom += ZoomSpeed
	case step < 0:
		c.Zoom -= ZoomSpeed
	}
	c.Zoom = math.Round(c.Zoom*10) / 10
	c.Zoom = math.Max(MinZoom, math.Min(MaxZoom, c.Zoom))

	if c.Zoom == MinZoom {
		c.OffsetX = 0
		c.OffsetY = 0
		return
	}
	if c.Zoom == old {
		return
	}

	relX := mouseX - c.CanvasWidth/2
	relY := mouseY - c.CanvasHeight/2
	scale := c.Zoom / old

	c.OffsetX = relX - (relX-c.OffsetX)*scale
	c.OffsetY = relY - (relY-c.OffsetY)*scale
}

// Pan drags the image by a mouse delta. Panning is disabled at MinZoom.
func (c *Camera) Pan(dx, dy float64) bool {
	if c.Zoom <= MinZoom {
		return false
	}
	c.OffsetX += dx
	c.OffsetY += dy
	return true
}
