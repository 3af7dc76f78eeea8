package render

import (
	"strings"
	"testing"

	"campus-map/internal/navigator/graph"
	"campus-map/internal/navigator/models"
	"campus-map/internal/navigator/navigation"
	"campus-map/internal/navigator/viewport"
)

func identityScene() Scene {
	return Scene{
		Camera:     viewport.Camera{CanvasWidth: 100, CanvasHeight: 100, Zoom: 1},
		ImageHref:  "/images/a1.png?x=<1>",
		Projection: viewport.Projection{NaturalWidth: 100, NaturalHeight: 100, DrawWidth: 100, DrawHeight: 100},
	}
}

func TestRenderFrameFinalLeg(t *testing.T) {
	dest := models.Point{X: 90, Y: 10}
	start := models.Point{X: 10, Y: 10}
	frame := navigation.Frame{
		Path:        []models.Point{start, {X: 50, Y: 10}, dest},
		Start:       &start,
		Destination: &dest,
	}

	svg, err := NewRenderer().RenderFrame(identityScene(), frame)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100" viewBox="0 0 100 100">`,
		`<image href="/images/a1.png?x=&lt;1&gt;" x="0" y="0" width="100" height="100" />`,
		`id="leg-0"`,
		`id="leg-1"`,
		`<line class="leg" x1="10" y1="10" x2="50" y2="10" stroke="url(#leg-0)" stroke-width="3" />`,
		`<circle class="start" cx="10" cy="10" r="6" fill="red" />`,
		`<circle class="destination" cx="90" cy="10" r="30"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %q in\n%s", want, svg)
		}
	}
	if strings.Contains(svg, `class="handoff"`) {
		t.Error("hand-off drawn on final leg")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("document not closed")
	}
}

func TestRenderFrameHandoffColor(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{2, "blue"},
		{3, "red"},
		{4, "blue"},
	}
	for _, tt := range tests {
		path := make([]models.Point, tt.points)
		for i := range path {
			path[i] = models.Point{X: float64(i * 10), Y: 5}
		}
		last := path[len(path)-1]
		frame := navigation.Frame{Path: path, Start: &path[0], Handoff: &last}

		svg, err := NewRenderer().RenderFrame(identityScene(), frame)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(svg, `class="handoff"`) || !strings.Contains(svg, `r="6" fill="`+tt.want+`" />`+"\n</svg>") {
			t.Errorf("%d points: hand-off colour, want %s\n%s", tt.points, tt.want, svg)
		}
	}
}

func TestRenderFrameOverviewMarker(t *testing.T) {
	scene := identityScene()
	scene.Camera.Zoom = 2
	marker := models.Point{X: 40, Y: 60}

	svg, err := NewRenderer().RenderFrame(scene, navigation.Frame{BuildingMarker: &marker})
	if err != nil {
		t.Fatal(err)
	}
	want := `<circle class="building" cx="40" cy="60" r="20" fill="red" stroke="white" stroke-width="4" />`
	if !strings.Contains(svg, want) {
		t.Errorf("missing %q in\n%s", want, svg)
	}
	if strings.Contains(svg, "<defs>") {
		t.Error("path drawn for overview frame")
	}
}

func TestRenderRequiresLayout(t *testing.T) {
	r := NewRenderer()
	if _, err := r.RenderFrame(Scene{}, navigation.Frame{}); err == nil {
		t.Error("RenderFrame without projection succeeded")
	}
	if _, err := r.RenderGraph(Scene{}, graph.New(), "A", "1", graph.Idle{}); err == nil {
		t.Error("RenderGraph without projection succeeded")
	}
}

func TestRenderGraph(t *testing.T) {
	store := graph.New()
	store.Insert(models.Node{ID: 0, Building: "A", Floor: "1", X: 10, Y: 10})
	store.Insert(models.Node{ID: 1, Building: "A", Floor: "1", X: 50, Y: 50, Label: "R&D", Kind: models.KindRoom})
	store.Insert(models.Node{ID: 2, Building: "A", Floor: "2", X: 70, Y: 70})
	store.Connect(0, 1)
	store.Connect(1, 2)

	svg, err := NewRenderer().RenderGraph(identityScene(), store, "A", "1", graph.Armed{ID: 1})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`<line class="edge" data-a="0" data-b="1" x1="10" y1="10" x2="50" y2="50"`,
		`<circle class="node" data-id="0" data-kind="corridor" cx="10" cy="10" r="15"`,
		`fill="lightblue"`,
		`>1-R&amp;D</text>`,
		`<circle class="selected" cx="50" cy="50" r="20" fill="none" stroke="orange" stroke-width="3" />`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %q in\n%s", want, svg)
		}
	}
	if strings.Contains(svg, `data-id="2"`) || strings.Contains(svg, `data-b="2"`) {
		t.Error("other floor rendered")
	}
}
