// Package navigation walks a user along the pre-computed route of a room,
// one building floor at a time.
//
// The navigator starts in the campus overview (cursor -1). Each Advance moves
// to the next segment; reaching the last segment finishes the walk and further
// advances are rejected until Reset or a new Start.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"campus-map/internal/navigator/models"
)

type State string

const (
	StateIdle      State = "idle"
	StateOverview  State = "overview"
	StateInSegment State = "in_segment"
	StateFinished  State = "finished"
)

// ImageResolver finds the plan image of a building floor.
type ImageResolver interface {
	FindImage(ctx context.Context, building, floor string) (models.FloorImage, error)
}

// DoorResolver finds the coordinates of a route waypoint.
type DoorResolver interface {
	FindDoor(ctx context.Context, label, id string) (models.Door, error)
}

// ============================================================
// Navigator
// ============================================================

type Navigator struct {
	segments    []models.Segment
	cursor      int
	destination *models.Room
}

func New() *Navigator {
	return &Navigator{cursor: -1}
}

// Start begins a new walk towards room, discarding any previous one.
func (n *Navigator) Start(room models.Room) {
	dest := room
	n.segments = slices.Clone(room.Segments)
	n.cursor = -1
	n.destination = &dest
	log.Printf("[NAV] Session started: %s (%d segments)", room.Name, len(n.segments))
}

// Reset returns to the empty session.
func (n *Navigator) Reset() {
	n.segments = nil
	n.cursor = -1
	n.destination = nil
}

func (n *Navigator) Cursor() int {
	return n.cursor
}

func (n *Navigator) Destination() (models.Room, bool) {
	if n.destination == nil {
		return models.Room{}, false
	}
	return *n.destination, true
}

func (n *Navigator) State() State {
	switch {
	case n.destination == nil:
		return StateIdle
	case n.cursor < 0:
		return StateOverview
	case n.cursor == len(n.segments)-1:
		return StateFinished
	default:
		return StateInSegment
	}
}

func (n *Navigator) CanAdvance() bool {
	return n.destination != nil && n.cursor < len(n.segments)-1
}

// Current returns the segment under the cursor.
func (n *Navigator) Current() (models.Segment, bool) {
	if n.cursor < 0 || n.cursor >= len(n.segments) {
		return models.Segment{}, false
	}
	return n.segments[n.cursor], true
}

// Advance moves to the next segment and returns it with its plan image. If
// the image cannot be resolved the cursor stays where it was.
func (n *Navigator) Advance(ctx context.Context, images ImageResolver) (models.Segment, models.FloorImage, error) {
	if !n.CanAdvance() {
		return models.Segment{}, models.FloorImage{}, fmt.Errorf("advance from %s: %w", n.State(), models.ErrInvalidOperation)
	}

	next := n.segments[n.cursor+1]
	img, err := images.FindImage(ctx, next.Building, next.Floor)
	if err != nil {
		return models.Segment{}, models.FloorImage{}, fmt.Errorf("floor plan %s/%s: %w", next.Building, next.Floor, err)
	}

	n.cursor++
	log.Printf("[NAV] Step %d/%d: %s/%s", n.cursor+1, len(n.segments), next.Building, next.Floor)
	return next, img, nil
}

// ============================================================
// Snapshot
// ============================================================

type Snapshot struct {
	State       State            `json:"state"`
	Cursor      int              `json:"cursor"`
	Segments    []models.Segment `json:"segments"`
	CanAdvance  bool             `json:"canAdvance"`
	Destination *models.Room     `json:"destination,omitempty"`
}

func (n *Navigator) Snapshot() Snapshot {
	s := Snapshot{
		State:      n.State(),
		Cursor:     n.cursor,
		Segments:   slices.Clone(n.segments),
		CanAdvance: n.CanAdvance(),
	}
	if s.Segments == nil {
		s.Segments = []models.Segment{}
	}
	if n.destination != nil {
		dest := *n.destination
		s.Destination = &dest
	}
	return s
}

// ============================================================
// Plan
// ============================================================

// Plan describes what the current state draws, in image coordinates.
//
// In the overview only BuildingMarker is set. Inside a segment Path holds the
// resolved waypoints; Start marks its first point, Handoff the last point of
// an intermediate leg, and Destination the room on the final leg.
func (n *Navigator) Plan(ctx context.Context, doors DoorResolver, images ImageResolver) (Frame, error) {
	f := Frame{State: n.State(), Cursor: n.cursor}
	if n.destination == nil {
		return f, nil
	}

	if n.cursor < 0 {
		img, err := images.FindImage(ctx, n.destination.Building, n.destination.Floor)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return f, nil
			}
			return f, err
		}
		if p, ok := img.Marker(); ok {
			f.BuildingMarker = &p
		}
		return f, nil
	}

	seg, _ := n.Current()
	f.Building = seg.Building
	f.Floor = seg.Floor
	last := n.cursor == len(n.segments)-1

	path := make([]models.Point, 0, len(seg.Waypoints)+1)
	for _, wp := range seg.Waypoints {
		door, err := doors.FindDoor(ctx, wp.Label, wp.DoorID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return f, err
		}
		if door.X == nil || door.Y == nil {
			continue
		}
		path = append(path, models.Point{X: float64(*door.X), Y: float64(*door.Y)})
	}

	if last {
		if p, ok := n.destination.Location(); ok {
			path = append(path, p)
			f.Destination = &p
		}
	}

	f.Path = path
	if len(path) > 1 {
		start := path[0]
		f.Start = &start
		if !last {
			end := path[len(path)-1]
			f.Handoff = &end
		}
	}
	return f, nil
}
