package navigation

import (
	"campus-map/internal/navigator/models"
	"campus-map/internal/navigator/viewport"
)

// Frame is a drawing plan for one navigation state.
type Frame struct {
	State          State          `json:"state"`
	Cursor         int            `json:"cursor"`
	Building       string         `json:"building,omitempty"`
	Floor          string         `json:"floor,omitempty"`
	Path           []models.Point `json:"path"`
	Start          *models.Point  `json:"start,omitempty"`
	Handoff        *models.Point  `json:"handoff,omitempty"`
	Destination    *models.Point  `json:"destination,omitempty"`
	BuildingMarker *models.Point  `json:"buildingMarker,omitempty"`
}

// Project maps every point of an image-space frame through p.
func (f Frame) Project(p viewport.Projection) Frame {
	out := f
	out.Path = make([]models.Point, len(f.Path))
	for i, pt := range f.Path {
		out.Path[i] = p.Point(pt)
	}
	out.Start = projectPtr(p, f.Start)
	out.Handoff = projectPtr(p, f.Handoff)
	out.Destination = projectPtr(p, f.Destination)
	out.BuildingMarker = projectPtr(p, f.BuildingMarker)
	return out
}

func projectPtr(p viewport.Projection, pt *models.Point) *models.Point {
	if pt == nil {
		return nil
	}
	v := p.Point(*pt)
	return &v
}
