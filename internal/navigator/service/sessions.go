package service

import (
	"sync"

	"github.com/google/uuid"

	"campus-map/internal/navigator/models"
	"campus-map/internal/navigator/navigation"
	"campus-map/internal/navigator/viewport"
)

// ============================================================
// Viewer Sessions
// ============================================================

// Viewer is the per-client view state: the walk in progress, the camera and
// the image on screen.
type Viewer struct {
	ID        string
	Navigator *navigation.Navigator
	Camera    *viewport.Camera
	Image     *models.FloorImage
	Info      models.ImageInfo
}

// Projection lays out the displayed image. It is the zero Projection when no
// image is shown.
func (v *Viewer) Projection() viewport.Projection {
	if v.Image == nil {
		return viewport.Projection{}
	}
	return v.Camera.Layout(v.Info.Width, v.Info.Height)
}

type SessionManager struct {
	mu      sync.Mutex
	viewers map[string]*Viewer // token -> viewer
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		viewers: make(map[string]*Viewer),
	}
}

func (m *SessionManager) Issue(canvasWidth, canvasHeight float64) *Viewer {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := &Viewer{
		ID:        uuid.NewString(),
		Navigator: navigation.New(),
		Camera:    viewport.NewCamera(canvasWidth, canvasHeight),
	}
	m.viewers[v.ID] = v
	return v
}

func (m *SessionManager) Resolve(token string) (*Viewer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.viewers[token]
	return v, ok
}

func (m *SessionManager) Drop(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.viewers[token]
	delete(m.viewers, token)
	return ok
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.viewers)
}
