package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"campus-map/internal/navigator/export"
	"campus-map/internal/navigator/graph"
	"campus-map/internal/navigator/models"
	"campus-map/internal/navigator/navigation"
	"campus-map/internal/navigator/render"
	"campus-map/internal/navigator/viewport"
)

// Catalog is the read-only room, image and door lookup.
type Catalog interface {
	navigation.ImageResolver
	navigation.DoorResolver
	FindRoom(ctx context.Context, name string) (models.Room, error)
	CampusImage(ctx context.Context) (models.FloorImage, error)
}

// ImageProber reads the natural size of an image file.
type ImageProber interface {
	Info(ctx context.Context, filename string) (models.ImageInfo, error)
}

// ============================================================
// Views
// ============================================================

type SessionView struct {
	ID         string              `json:"id"`
	Navigation navigation.Snapshot `json:"navigation"`
	Camera     viewport.Camera     `json:"camera"`
	Image      *models.FloorImage  `json:"image,omitempty"`
	Projection viewport.Projection `json:"projection"`
	Notice     string              `json:"notice,omitempty"`
}

// FrameView is the navigation overlay in both coordinate spaces.
type FrameView struct {
	Image      navigation.Frame    `json:"image"`
	Viewport   navigation.Frame    `json:"viewport"`
	Projection viewport.Projection `json:"projection"`
}

type EditResult struct {
	Outcome  graph.Outcome `json:"outcome"`
	Selected *int          `json:"selected,omitempty"`
	Node     *models.Node  `json:"node,omitempty"`
}

type GraphView struct {
	Building string        `json:"building"`
	Floor    string        `json:"floor"`
	Nodes    []models.Node `json:"nodes"`
	Edges    []graph.Edge  `json:"edges"`
	Selected *int          `json:"selected,omitempty"`
}

// ============================================================
// Controller
// ============================================================

// Controller applies viewer and editor events one at a time. The graph and
// the editor selection are shared by all sessions.
type Controller struct {
	mu       sync.Mutex
	catalog  Catalog
	images   ImageProber
	sessions *SessionManager
	editor   *graph.Editor
	renderer *render.Renderer

	canvasWidth  float64
	canvasHeight float64
}

func NewController(catalog Catalog, images ImageProber, store *graph.Store, canvasWidth, canvasHeight float64) *Controller {
	return &Controller{
		catalog:      catalog,
		images:       images,
		sessions:     NewSessionManager(),
		editor:       graph.NewEditor(store),
		renderer:     render.NewRenderer(),
		canvasWidth:  canvasWidth,
		canvasHeight: canvasHeight,
	}
}

func (c *Controller) Sessions() *SessionManager {
	return c.sessions
}

// NodeCount reports the size of the shared graph.
func (c *Controller) NodeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor.Store().Len()
}

// ============================================================
// Viewer operations
// ============================================================

// OpenSession creates a viewer showing the campus overview.
func (c *Controller) OpenSession(ctx context.Context) (SessionView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.sessions.Issue(c.canvasWidth, c.canvasHeight)
	notice := c.showCampus(ctx, v)
	log.Printf("[NAV] Viewer %s opened", v.ID)
	return c.view(ctx, v, notice), nil
}

func (c *Controller) CloseSession(id string) error {
	if !c.sessions.Drop(id) {
		return fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (c *Controller) Session(ctx context.Context, id string) (SessionView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return SessionView{}, err
	}
	return c.view(ctx, v, ""), nil
}

// Search starts a walk to the named room and returns to the campus overview.
func (c *Controller) Search(ctx context.Context, id, query string) (SessionView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return SessionView{}, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return SessionView{}, fmt.Errorf("empty search: %w", models.ErrInvalidOperation)
	}

	room, err := c.catalog.FindRoom(ctx, query)
	if err != nil {
		return SessionView{}, err
	}
	v.Navigator.Start(room)
	notice := c.showCampus(ctx, v)
	return c.view(ctx, v, notice), nil
}

// Advance moves the walk to its next segment and shows that floor. A floor
// whose image cannot be found or read leaves the walk where it was.
func (c *Controller) Advance(ctx context.Context, id string) (SessionView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return SessionView{}, err
	}

	resolver := &displayResolver{catalog: c.catalog, images: c.images}
	if _, _, err := v.Navigator.Advance(ctx, resolver); err != nil {
		return SessionView{}, err
	}
	c.show(v, resolver.image, resolver.info)
	return c.view(ctx, v, ""), nil
}

// Reset abandons the walk and shows the campus overview.
func (c *Controller) Reset(ctx context.Context, id string) (SessionView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return SessionView{}, err
	}
	v.Navigator.Reset()
	notice := c.showCampus(ctx, v)
	return c.view(ctx, v, notice), nil
}

// ShowFloor displays a building floor without touching the walk.
func (c *Controller) ShowFloor(ctx context.Context, id, building, floor string) (SessionView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return SessionView{}, err
	}
	resolver := &displayResolver{catalog: c.catalog, images: c.images}
	if _, err := resolver.FindImage(ctx, building, floor); err != nil {
		return SessionView{}, err
	}
	c.show(v, resolver.image, resolver.info)
	return c.view(ctx, v, ""), nil
}

func (c *Controller) Zoom(ctx context.Context, id string, mouseX, mouseY float64, step int) (SessionView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return SessionView{}, err
	}
	v.Camera.ZoomAt(mouseX, mouseY, step)
	return c.view(ctx, v, ""), nil
}

func (c *Controller) Pan(ctx context.Context, id string, dx, dy float64) (SessionView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return SessionView{}, err
	}
	notice := ""
	if !v.Camera.Pan(dx, dy) {
		notice = "panning needs zoom"
	}
	return c.view(ctx, v, notice), nil
}

func (c *Controller) Resize(ctx context.Context, id string, width, height float64) (SessionView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return SessionView{}, err
	}
	if width <= 0 || height <= 0 {
		return SessionView{}, fmt.Errorf("canvas %gx%g: %w", width, height, models.ErrInvalidOperation)
	}
	v.Camera.Resize(width, height)
	return c.view(ctx, v, ""), nil
}

// Locate maps a viewport position to image pixels of the displayed image.
func (c *Controller) Locate(ctx context.Context, id string, vx, vy float64) (x, y int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return 0, 0, err
	}
	x, y, ok := c.layout(ctx, v).ToImage(vx, vy)
	if !ok {
		return 0, 0, fmt.Errorf("position (%g, %g) is outside the image: %w", vx, vy, models.ErrInvalidOperation)
	}
	return x, y, nil
}

// Frame plans the overlay for the current state. A segment path is only
// drawn while its own floor is displayed.
func (c *Controller) Frame(ctx context.Context, id string) (FrameView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return FrameView{}, err
	}
	return c.frame(ctx, v)
}

func (c *Controller) OverlaySVG(ctx context.Context, id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return "", err
	}
	fv, err := c.frame(ctx, v)
	if err != nil {
		return "", err
	}
	return c.renderer.RenderFrame(c.scene(v, fv.Projection), fv.Image)
}

// ============================================================
// Editor operations
// ============================================================

// EditorClick runs the connect gesture for a click at a viewport position.
// target is the id typed in after a click on empty space.
func (c *Controller) EditorClick(ctx context.Context, id string, vx, vy float64, target *int) (EditResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return EditResult{}, err
	}
	hit, err := c.hit(ctx, v, vx, vy)
	if err != nil {
		return EditResult{}, err
	}

	outcome, err := c.editor.Activate(graph.Activation{Hit: hit, Target: target})
	if err != nil {
		return EditResult{}, err
	}
	return c.editResult(outcome, nil), nil
}

// EditorDelete removes the armed node when the click lands on it.
func (c *Controller) EditorDelete(ctx context.Context, id string, vx, vy float64) (EditResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return EditResult{}, err
	}
	hit, err := c.hit(ctx, v, vx, vy)
	if err != nil {
		return EditResult{}, err
	}

	outcome, err := c.editor.DeleteArmed(hit)
	if err != nil {
		return EditResult{}, err
	}
	return c.editResult(outcome, nil), nil
}

// AddNode places a node at a viewport position on the displayed floor.
func (c *Controller) AddNode(ctx context.Context, id string, vx, vy float64, kind models.Kind, label string) (EditResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return EditResult{}, err
	}
	img, err := editableFloor(v)
	if err != nil {
		return EditResult{}, err
	}
	x, y, ok := c.layout(ctx, v).ToImage(vx, vy)
	if !ok {
		return EditResult{}, fmt.Errorf("position (%g, %g) is outside the image: %w", vx, vy, models.ErrInvalidOperation)
	}

	n, err := c.editor.AddNode(img.Building, img.Floor, x, y, kind, label)
	if err != nil {
		return EditResult{}, err
	}
	return c.editResult(graph.OutcomeAdded, &n), nil
}

func (c *Controller) Graph(ctx context.Context, id string) (GraphView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return GraphView{}, err
	}
	img, err := editableFloor(v)
	if err != nil {
		return GraphView{}, err
	}

	store := c.editor.Store()
	gv := GraphView{
		Building: img.Building,
		Floor:    img.Floor,
		Nodes:    store.NodesOn(img.Building, img.Floor),
		Edges:    store.EdgesOn(img.Building, img.Floor),
	}
	if sel, ok := graph.SelectedID(c.editor.Selection()); ok {
		gv.Selected = &sel
	}
	return gv, nil
}

func (c *Controller) GraphSVG(ctx context.Context, id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.viewer(id)
	if err != nil {
		return "", err
	}
	img, err := editableFloor(v)
	if err != nil {
		return "", err
	}
	scene := c.scene(v, c.layout(ctx, v))
	return c.renderer.RenderGraph(scene, c.editor.Store(), img.Building, img.Floor, c.editor.Selection())
}

func (c *Controller) ExportNodes(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return export.WriteNodesCSV(w, c.editor.Store().Nodes())
}

func (c *Controller) ExportEdges(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return export.WriteAdjacency(w, c.editor.Store())
}

// ============================================================
// Helpers
// ============================================================

func (c *Controller) viewer(id string) (*Viewer, error) {
	v, ok := c.sessions.Resolve(id)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}
	return v, nil
}

// showCampus displays the campus overview. Failures keep the previous image
// and come back as a notice.
func (c *Controller) showCampus(ctx context.Context, v *Viewer) string {
	img, err := c.catalog.CampusImage(ctx)
	if err != nil {
		log.Printf("[NAV] Campus image unavailable: %v", err)
		return "campus map unavailable"
	}
	info, err := c.images.Info(ctx, img.Filename)
	if err != nil {
		log.Printf("[NAV] Campus image %s unreadable: %v", img.Filename, err)
		return "campus map unavailable"
	}
	c.show(v, img, info)
	return ""
}

func (c *Controller) show(v *Viewer, img models.FloorImage, info models.ImageInfo) {
	v.Image = &img
	v.Info = info
	v.Camera.Reset()
}

// layout refreshes the image size from the cache, which drops entries when
// the file changes, and lays the image out.
func (c *Controller) layout(ctx context.Context, v *Viewer) viewport.Projection {
	if v.Image == nil {
		return viewport.Projection{}
	}
	if info, err := c.images.Info(ctx, v.Image.Filename); err == nil {
		v.Info = info
	}
	return v.Projection()
}

func (c *Controller) view(ctx context.Context, v *Viewer, notice string) SessionView {
	proj := c.layout(ctx, v)
	sv := SessionView{
		ID:         v.ID,
		Navigation: v.Navigator.Snapshot(),
		Camera:     *v.Camera,
		Projection: proj,
		Notice:     notice,
	}
	if v.Image != nil {
		img := *v.Image
		sv.Image = &img
	}
	return sv
}

func (c *Controller) frame(ctx context.Context, v *Viewer) (FrameView, error) {
	plan, err := v.Navigator.Plan(ctx, c.catalog, c.catalog)
	if err != nil {
		return FrameView{}, err
	}
	if plan.State == navigation.StateInSegment || plan.State == navigation.StateFinished {
		if v.Image == nil || v.Image.Building != plan.Building || v.Image.Floor != plan.Floor {
			plan.Path, plan.Start, plan.Handoff, plan.Destination = []models.Point{}, nil, nil, nil
		}
	}
	if v.Image == nil || !v.Image.IsCampus() {
		plan.BuildingMarker = nil
	}

	proj := c.layout(ctx, v)
	return FrameView{Image: plan, Viewport: plan.Project(proj), Projection: proj}, nil
}

func (c *Controller) scene(v *Viewer, proj viewport.Projection) render.Scene {
	scene := render.Scene{Camera: *v.Camera, Projection: proj}
	if v.Image != nil {
		scene.ImageHref = "/images/" + v.Image.Filename
	}
	return scene
}

func (c *Controller) hit(ctx context.Context, v *Viewer, vx, vy float64) (*int, error) {
	img, err := editableFloor(v)
	if err != nil {
		return nil, err
	}
	nodes := c.editor.Store().NodesOn(img.Building, img.Floor)
	n, ok := graph.HitTest(nodes, c.layout(ctx, v), vx, vy, v.Camera.HitRadius())
	if !ok {
		return nil, nil
	}
	return &n.ID, nil
}

func (c *Controller) editResult(outcome graph.Outcome, n *models.Node) EditResult {
	res := EditResult{Outcome: outcome, Node: n}
	if sel, ok := graph.SelectedID(c.editor.Selection()); ok {
		res.Selected = &sel
	}
	return res
}

// editableFloor is the displayed building floor. The campus overview is not
// editable.
func editableFloor(v *Viewer) (models.FloorImage, error) {
	if v.Image == nil {
		return models.FloorImage{}, fmt.Errorf("no floor displayed: %w", models.ErrInvalidOperation)
	}
	if v.Image.IsCampus() {
		return models.FloorImage{}, fmt.Errorf("campus map cannot be edited: %w", models.ErrInvalidOperation)
	}
	return *v.Image, nil
}

// ============================================================
// Image resolution
// ============================================================

// displayResolver finds a floor image and reads its header, so a floor is
// only reported found when it can actually be shown.
type displayResolver struct {
	catalog Catalog
	images  ImageProber

	image models.FloorImage
	info  models.ImageInfo
}

func (r *displayResolver) FindImage(ctx context.Context, building, floor string) (models.FloorImage, error) {
	img, err := r.catalog.FindImage(ctx, building, floor)
	if err != nil {
		return models.FloorImage{}, err
	}
	info, err := r.images.Info(ctx, img.Filename)
	if err != nil {
		if !errors.Is(err, models.ErrExternalResource) {
			err = fmt.Errorf("%v: %w", err, models.ErrExternalResource)
		}
		return models.FloorImage{}, err
	}
	r.image, r.info = img, info
	return img, nil
}
