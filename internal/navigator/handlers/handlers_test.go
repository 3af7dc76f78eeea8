package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"campus-map/internal/navigator/dataset"
	"campus-map/internal/navigator/graph"
	"campus-map/internal/navigator/models"
	"campus-map/internal/navigator/service"
)

type stubCatalog struct{}

var stubImages = []models.FloorImage{
	{Building: models.CampusBuilding, Floor: "0", Filename: "campus.png"},
	{Building: "A", Floor: "1", Filename: "a1.png"},
}

func (stubCatalog) FindRoom(_ context.Context, name string) (models.Room, error) {
	if strings.EqualFold(name, "R1") {
		return models.Room{
			Name: "R1", Building: "A", Floor: "1", X: models.IntPtr(50), Y: models.IntPtr(50),
			Segments: []models.Segment{{Building: "A", Floor: "1", Waypoints: []models.Waypoint{{Label: "Main", DoorID: "1"}}}},
		}, nil
	}
	return models.Room{}, fmt.Errorf("room %q: %w", name, models.ErrNotFound)
}

func (stubCatalog) FindImage(_ context.Context, building, floor string) (models.FloorImage, error) {
	for _, img := range stubImages {
		if img.Building == building && img.Floor == floor {
			return img, nil
		}
	}
	return models.FloorImage{}, fmt.Errorf("image: %w", models.ErrNotFound)
}

func (stubCatalog) CampusImage(context.Context) (models.FloorImage, error) {
	return stubImages[0], nil
}

func (stubCatalog) FindDoor(_ context.Context, label, id string) (models.Door, error) {
	if label == "Main" && id == "1" {
		return models.Door{Label: label, ID: id, X: models.IntPtr(10), Y: models.IntPtr(10)}, nil
	}
	return models.Door{}, fmt.Errorf("door: %w", models.ErrNotFound)
}

type okPinger struct{ err error }

func (p okPinger) Ping(context.Context) error { return p.err }

func newTestApp(t *testing.T) (*fiber.App, *graph.Store) {
	t.Helper()
	dir := t.TempDir()
	files := dataset.NewFiles(dir, "")
	if err := files.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"campus.png", "a1.png"} {
		f, err := os.Create(filepath.Join(files.ImagesDir(), name))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 100, 100))); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}

	store := graph.New()
	store.Insert(models.Node{ID: 0, Building: "A", Floor: "1", X: 10, Y: 10})
	store.Insert(models.Node{ID: 1, Building: "A", Floor: "1", X: 50, Y: 50, Label: "R1", Kind: models.KindRoom})

	cache := service.NewImageCache(files)
	ctrl := service.NewController(stubCatalog{}, cache, store, 100, 100)

	app := fiber.New()
	health := NewHealthHandler(okPinger{}, ctrl.NodeCount)
	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)
	RegisterDocs(app)
	NewImageHandler(files, cache).Register(app)
	api := app.Group("/api/v1")
	NewNavigationHandler(ctrl).Register(api)
	NewEditorHandler(ctrl).Register(api)
	return app, store
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, data
}

func openSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/api/v1/sessions", "")
	if status != http.StatusCreated {
		t.Fatalf("create session status = %d: %s", status, body)
	}
	var sv service.SessionView
	if err := json.Unmarshal(body, &sv); err != nil {
		t.Fatal(err)
	}
	return sv.ID
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)
	if status, _ := do(t, app, http.MethodGet, "/health/live", ""); status != http.StatusOK {
		t.Errorf("live status = %d", status)
	}
	status, body := do(t, app, http.MethodGet, "/health/ready", "")
	if status != http.StatusOK || !strings.Contains(string(body), `"nodes":2`) {
		t.Errorf("ready = %d %s", status, body)
	}

	down := fiber.New()
	down.Get("/ready", NewHealthHandler(okPinger{err: errors.New("db gone")}, func() int { return 0 }).ReadinessProbe)
	if status, _ := do(t, down, http.MethodGet, "/ready", ""); status != http.StatusServiceUnavailable {
		t.Errorf("ready with failing db = %d", status)
	}
}

func TestNavigationFlow(t *testing.T) {
	app, _ := newTestApp(t)
	id := openSession(t, app)
	base := "/api/v1/sessions/" + id

	if status, _ := do(t, app, http.MethodPost, base+"/search", `{"query":"nowhere"}`); status != http.StatusNotFound {
		t.Errorf("unknown room status = %d", status)
	}
	if status, _ := do(t, app, http.MethodPost, base+"/search", `{bad`); status != http.StatusBadRequest {
		t.Errorf("bad json status = %d", status)
	}
	if status, _ := do(t, app, http.MethodPost, base+"/advance", ""); status != http.StatusConflict {
		t.Errorf("advance before search status = %d", status)
	}

	status, body := do(t, app, http.MethodPost, base+"/search?q=r1", "")
	if status != http.StatusOK || !strings.Contains(string(body), `"state":"overview"`) {
		t.Fatalf("search = %d %s", status, body)
	}

	status, body = do(t, app, http.MethodPost, base+"/advance", "")
	if status != http.StatusOK || !strings.Contains(string(body), `"state":"finished"`) {
		t.Fatalf("advance = %d %s", status, body)
	}

	status, body = do(t, app, http.MethodGet, base+"/frame", "")
	if status != http.StatusOK {
		t.Fatalf("frame = %d %s", status, body)
	}
	var fv service.FrameView
	if err := json.Unmarshal(body, &fv); err != nil {
		t.Fatal(err)
	}
	if len(fv.Image.Path) != 2 || fv.Image.Destination == nil {
		t.Errorf("frame = %+v", fv.Image)
	}

	status, body = do(t, app, http.MethodGet, base+"/overlay.svg", "")
	if status != http.StatusOK || !strings.HasPrefix(string(body), "<?xml") {
		t.Errorf("overlay = %d %s", status, body)
	}

	status, body = do(t, app, http.MethodPost, base+"/locate", `{"x":25,"y":75}`)
	if status != http.StatusOK || string(body) != `{"x":25,"y":75}` {
		t.Errorf("locate = %d %s", status, body)
	}

	if status, _ := do(t, app, http.MethodDelete, base, ""); status != http.StatusNoContent {
		t.Errorf("delete session status = %d", status)
	}
	if status, _ := do(t, app, http.MethodGet, base, ""); status != http.StatusNotFound {
		t.Errorf("deleted session status = %d", status)
	}
}

func TestEditorFlow(t *testing.T) {
	app, _ := newTestApp(t)
	id := openSession(t, app)
	base := "/api/v1/sessions/" + id

	if status, _ := do(t, app, http.MethodPost, base+"/editor/click", `{"x":10,"y":10}`); status != http.StatusConflict {
		t.Errorf("campus click status = %d", status)
	}
	if status, body := do(t, app, http.MethodPost, base+"/floor", `{"building":"A","floor":"1"}`); status != http.StatusOK {
		t.Fatalf("floor = %d %s", status, body)
	}

	status, body := do(t, app, http.MethodPost, base+"/editor/click", `{"x":10,"y":10}`)
	if status != http.StatusOK || !strings.Contains(string(body), `"outcome":"selected"`) {
		t.Fatalf("first click = %d %s", status, body)
	}
	status, body = do(t, app, http.MethodPost, base+"/editor/click", `{"x":51,"y":49}`)
	if status != http.StatusOK || !strings.Contains(string(body), `"outcome":"connected"`) {
		t.Fatalf("second click = %d %s", status, body)
	}

	status, body = do(t, app, http.MethodGet, "/api/v1/export/edges.txt", "")
	if status != http.StatusOK || string(body) != "0 1\n1 0\n" {
		t.Errorf("edges export = %d %q", status, body)
	}

	status, body = do(t, app, http.MethodPost, base+"/editor/nodes", `{"x":80,"y":20,"kind":"door"}`)
	if status != http.StatusCreated || !strings.Contains(string(body), `"label":"A1K"`) {
		t.Errorf("add node = %d %s", status, body)
	}
	if status, _ := do(t, app, http.MethodPost, base+"/editor/nodes", `{"x":80,"y":20,"kind":"lift"}`); status != http.StatusBadRequest {
		t.Errorf("bad kind status = %d", status)
	}

	status, body = do(t, app, http.MethodGet, "/api/v1/export/nodes.csv", "")
	if status != http.StatusOK || !strings.HasPrefix(string(body), "id,building,floor,x,y,label,kind\n") {
		t.Errorf("nodes export = %d %q", status, body)
	}

	status, body = do(t, app, http.MethodGet, base+"/graph", "")
	if status != http.StatusOK || !strings.Contains(string(body), `"edges":[{"a":0,"b":1}]`) {
		t.Errorf("graph = %d %s", status, body)
	}
}

func TestDocs(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := do(t, app, http.MethodGet, "/docs/openapi.yaml", "")
	if status != http.StatusOK || !strings.Contains(string(body), "/api/v1/sessions/{id}/advance:") {
		t.Errorf("openapi = %d", status)
	}
	if status, _ := do(t, app, http.MethodGet, "/docs", ""); status != http.StatusOK {
		t.Errorf("swagger ui status = %d", status)
	}
}

func TestImages(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/images/a1.png", "")
	if status != http.StatusOK || len(body) == 0 {
		t.Errorf("serve = %d (%d bytes)", status, len(body))
	}
	if status, _ := do(t, app, http.MethodGet, "/images/missing.png", ""); status != http.StatusNotFound {
		t.Errorf("missing image status = %d", status)
	}
	if status, _ := do(t, app, http.MethodGet, "/images/notes.txt", ""); status != http.StatusNotFound {
		t.Errorf("non-image status = %d", status)
	}

	status, body = do(t, app, http.MethodGet, "/api/v1/images/a1.png/info", "")
	if status != http.StatusOK || !strings.Contains(string(body), `"width":100`) {
		t.Errorf("info = %d %s", status, body)
	}
	if status, _ := do(t, app, http.MethodGet, "/api/v1/images/missing.png/info", ""); status != http.StatusBadGateway {
		t.Errorf("missing info status = %d", status)
	}
}
