package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"campus-map/internal/navigator/graph"
	"campus-map/internal/navigator/models"
	"campus-map/internal/navigator/navigation"
	"campus-map/internal/navigator/viewport"
)

// ============================================================
// Renderer
// ============================================================

// Scene describes the canvas an overlay is drawn on.
type Scene struct {
	Camera     viewport.Camera
	ImageHref  string
	Projection viewport.Projection
}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderFrame draws the floor image and the navigation overlay of an
// image-space frame.
func (r *Renderer) RenderFrame(scene Scene, frame navigation.Frame) (string, error) {
	if !scene.Projection.Valid() {
		return "", fmt.Errorf("render frame: no image laid out")
	}
	zoom := camera(scene).Zoom
	f := frame.Project(scene.Projection)

	var elements []string
	elements = append(elements, r.renderPath(f, zoom)...)
	if f.BuildingMarker != nil {
		elements = append(elements, r.renderBuildingMarker(*f.BuildingMarker, zoom)...)
	}
	if f.Destination != nil {
		elements = append(elements, r.renderDestination(*f.Destination, zoom)...)
	}
	return r.document(scene, elements), nil
}

// RenderGraph draws the editable node graph of one floor. The armed node, if
// any, gets a selection ring.
func (r *Renderer) RenderGraph(scene Scene, store *graph.Store, building, floor string, sel graph.Selection) (string, error) {
	if !scene.Projection.Valid() {
		return "", fmt.Errorf("render graph: no image laid out")
	}
	cam := camera(scene)
	zoom := cam.Zoom

	var elements []string
	elements = append(elements, r.renderEdges(scene.Projection, store, building, floor, zoom)...)
	elements = append(elements, r.renderNodes(scene.Projection, store.NodesOn(building, floor), cam)...)

	if id, ok := graph.SelectedID(sel); ok {
		if n, err := store.FindNode(id); err == nil && n.OnFloor(building, floor) {
			c := scene.Projection.Point(n.Point())
			elements = append(elements, fmt.Sprintf(`<circle class="selected" cx="%s" cy="%s" r="%s" fill="none" stroke="orange" stroke-width="%s" />`,
				formatFloat(c.X), formatFloat(c.Y), formatFloat(20*zoom), formatFloat(3*zoom)))
		}
	}
	return r.document(scene, elements), nil
}

func (r *Renderer) document(scene Scene, elements []string) string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(scene.Camera.CanvasWidth), formatFloat(scene.Camera.CanvasHeight), formatFloat(scene.Camera.CanvasWidth), formatFloat(scene.Camera.CanvasHeight)))
	builder.WriteString("\n")

	if scene.ImageHref != "" {
		p := scene.Projection
		builder.WriteString(fmt.Sprintf(`  <image href="%s" x="%s" y="%s" width="%s" height="%s" />`,
			html.EscapeString(scene.ImageHref), formatFloat(p.DrawX), formatFloat(p.DrawY), formatFloat(p.DrawWidth), formatFloat(p.DrawHeight)))
		builder.WriteString("\n")
	}

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String()
}

// ============================================================
// Navigation elements
// ============================================================

// renderPath strokes each leg with a red/blue gradient that alternates
// direction, then dots the start and the hand-off point.
func (r *Renderer) renderPath(f navigation.Frame, zoom float64) []string {
	if len(f.Path) < 2 {
		return nil
	}

	var defs strings.Builder
	var out []string
	defs.WriteString("<defs>")
	for i := 0; i+1 < len(f.Path); i++ {
		a, b := f.Path[i], f.Path[i+1]
		from, to := "red", "blue"
		if i%2 == 1 {
			from, to = to, from
		}
		defs.WriteString(fmt.Sprintf(`<linearGradient id="leg-%d" gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s"><stop offset="0" stop-color="%s" /><stop offset="1" stop-color="%s" /></linearGradient>`,
			i, formatFloat(a.X), formatFloat(a.Y), formatFloat(b.X), formatFloat(b.Y), from, to))
		out = append(out, fmt.Sprintf(`<line class="leg" x1="%s" y1="%s" x2="%s" y2="%s" stroke="url(#leg-%d)" stroke-width="%s" />`,
			formatFloat(a.X), formatFloat(a.Y), formatFloat(b.X), formatFloat(b.Y), i, formatFloat(3*zoom)))
	}
	defs.WriteString("</defs>")
	out = append([]string{defs.String()}, out...)

	if f.Start != nil {
		out = append(out, dot("start", *f.Start, 6*zoom, "red"))
	}
	if f.Handoff != nil {
		color := "red"
		if (len(f.Path)-2)%2 == 0 {
			color = "blue"
		}
		out = append(out, dot("handoff", *f.Handoff, 6*zoom, color))
	}
	return out
}

func (r *Renderer) renderBuildingMarker(p models.Point, zoom float64) []string {
	return []string{fmt.Sprintf(`<circle class="building" cx="%s" cy="%s" r="%s" fill="red" stroke="white" stroke-width="%s" />`,
		formatFloat(p.X), formatFloat(p.Y), formatFloat(10*zoom), formatFloat(2*zoom))}
}

func (r *Renderer) renderDestination(p models.Point, zoom float64) []string {
	return []string{
		fmt.Sprintf(`<circle class="destination" cx="%s" cy="%s" r="%s" fill="rgba(255,0,0,0.7)" stroke="white" stroke-width="%s" />`,
			formatFloat(p.X), formatFloat(p.Y), formatFloat(30*zoom), formatFloat(2*zoom)),
		dot("destination-point", p, 6*zoom, "red"),
	}
}

// ============================================================
// Graph elements
// ============================================================

func (r *Renderer) renderEdges(p viewport.Projection, store *graph.Store, building, floor string, zoom float64) []string {
	var out []string
	for _, e := range store.EdgesOn(building, floor) {
		a, errA := store.FindNode(e.A)
		b, errB := store.FindNode(e.B)
		if errA != nil || errB != nil {
			continue
		}
		pa, pb := p.Point(a.Point()), p.Point(b.Point())
		out = append(out, fmt.Sprintf(`<line class="edge" data-a="%d" data-b="%d" x1="%s" y1="%s" x2="%s" y2="%s" stroke="rgba(0,255,0,0.5)" stroke-width="%s" />`,
			e.A, e.B, formatFloat(pa.X), formatFloat(pa.Y), formatFloat(pb.X), formatFloat(pb.Y), formatFloat(2*zoom)))
	}
	return out
}

// renderNodes draws a disc per node with its id. Rooms also show their label.
func (r *Renderer) renderNodes(p viewport.Projection, nodes []models.Node, cam viewport.Camera) []string {
	zoom := cam.Zoom
	var out []string
	for _, n := range nodes {
		c := p.Point(n.Point())
		text, color := strconv.Itoa(n.ID), "white"
		if n.Kind == models.KindRoom && n.Label != "" {
			text, color = text+"-"+n.Label, "lightblue"
		}
		out = append(out,
			fmt.Sprintf(`<circle class="node" data-id="%d" data-kind="%s" cx="%s" cy="%s" r="%s" fill="green" stroke="white" stroke-width="%s" />`,
				n.ID, n.Kind, formatFloat(c.X), formatFloat(c.Y), formatFloat(cam.NodeRadius()), formatFloat(2*zoom)),
			fmt.Sprintf(`<text x="%s" y="%s" fill="%s" font-family="Arial" font-weight="bold" font-size="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`,
				formatFloat(c.X), formatFloat(c.Y), color, formatFloat(12*zoom), html.EscapeString(text)),
		)
	}
	return out
}

// ============================================================
// Formatting helpers
// ============================================================

func dot(class string, p models.Point, radius float64, fill string) string {
	return fmt.Sprintf(`<circle class="%s" cx="%s" cy="%s" r="%s" fill="%s" />`,
		class, formatFloat(p.X), formatFloat(p.Y), formatFloat(radius), fill)
}

func camera(scene Scene) viewport.Camera {
	cam := scene.Camera
	if cam.Zoom <= 0 {
		cam.Zoom = viewport.MinZoom
	}
	return cam
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
