package models

import (
	"fmt"
	"strconv"
	"strings"
)

// CampusBuilding is the building code of the top-level campus map. It is not a
// floor and cannot host graph nodes.
const CampusBuilding = "KAMPUSZ"

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ============================================================
// Graph nodes
// ============================================================

type Kind int

const (
	KindCorridor Kind = 0
	KindRoom     Kind = 1
	KindDoor     Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindCorridor:
		return "corridor"
	case KindRoom:
		return "room"
	case KindDoor:
		return "door"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind accepts the numeric encoding used in node files ("0", "1", "2")
// as well as the kind names.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "corridor":
		return KindCorridor, nil
	case "room":
		return KindRoom, nil
	case "door":
		return KindDoor, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("kind %q: %w", s, err)
	}
	k := Kind(n)
	if k < KindCorridor || k > KindDoor {
		return 0, fmt.Errorf("kind %q: out of range", s)
	}
	return k, nil
}

type Node struct {
	ID       int    `json:"id"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Label    string `json:"label"`
	Kind     Kind   `json:"kind"`
}

func (n Node) OnFloor(building, floor string) bool {
	return n.Building == building && n.Floor == floor
}

func (n Node) Point() Point {
	return Point{X: float64(n.X), Y: float64(n.Y)}
}

// ============================================================
// Routes
// ============================================================

type Waypoint struct {
	Label  string `json:"label"`
	DoorID string `json:"doorId"`
}

// Segment is one leg of a route, confined to one building floor.
type Segment struct {
	Building  string     `json:"building"`
	Floor     string     `json:"floor"`
	Waypoints []Waypoint `json:"waypoints"`
}

// Room is a searchable destination together with its pre-parsed route.
type Room struct {
	Name     string    `json:"name"`
	Building string    `json:"building"`
	Floor    string    `json:"floor"`
	X        *int      `json:"x,omitempty"`
	Y        *int      `json:"y,omitempty"`
	Route    string    `json:"route,omitempty"`
	Segments []Segment `json:"segments"`
}

// Location returns the final room coordinates when both are known.
func (r Room) Location() (Point, bool) {
	if r.X == nil || r.Y == nil {
		return Point{}, false
	}
	return Point{X: float64(*r.X), Y: float64(*r.Y)}, true
}

// ============================================================
// Catalog records
// ============================================================

// FloorImage maps a building floor to its raster plan. X/Y locate the
// building on the campus map and are optional.
type FloorImage struct {
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Filename string `json:"filename"`
	X        *int   `json:"x,omitempty"`
	Y        *int   `json:"y,omitempty"`
}

func (f FloorImage) IsCampus() bool {
	return f.Building == CampusBuilding
}

// Marker returns the campus-map position of the building when known.
func (f FloorImage) Marker() (Point, bool) {
	if f.X == nil || f.Y == nil {
		return Point{}, false
	}
	return Point{X: float64(*f.X), Y: float64(*f.Y)}, true
}

type Door struct {
	Label string `json:"label"`
	ID    string `json:"id"`
	X     *int   `json:"x,omitempty"`
	Y     *int   `json:"y,omitempty"`
}

// ImageInfo is a decoded image header.
type ImageInfo struct {
	Filename string `json:"filename"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
}

// IntPtr is a helper for optional coordinates.
func IntPtr(v int) *int {
	return &v
}
