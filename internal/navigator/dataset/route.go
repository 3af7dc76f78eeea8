package dataset

import (
	"strings"

	"campus-map/internal/navigator/models"
)

// ============================================================
// Route Parser
// ============================================================

// ParseRoute parses a room route field such as
//
//	(A/0:Main/1/Stair/2;A/1:Stair/3/A101/4)
//
// Legs are separated by ';'. Each leg is "building/floor:" followed by
// alternating waypoint labels and door ids. Malformed legs are skipped and a
// trailing label without an id is dropped.
func ParseRoute(route string) []models.Segment {
	cleaned := strings.NewReplacer("(", "", ")", "").Replace(route)

	segments := []models.Segment{}
	for _, leg := range strings.Split(cleaned, ";") {
		place, path, ok := strings.Cut(leg, ":")
		if !ok || strings.Contains(path, ":") {
			continue
		}

		building, floor, ok := strings.Cut(place, "/")
		if !ok {
			continue
		}
		building = strings.TrimSpace(building)
		floor = strings.TrimSpace(floor)
		if building == "" {
			continue
		}

		parts := strings.Split(path, "/")
		waypoints := make([]models.Waypoint, 0, len(parts)/2)
		for i := 0; i+1 < len(parts); i += 2 {
			waypoints = append(waypoints, models.Waypoint{
				Label:  strings.TrimSpace(parts[i]),
				DoorID: strings.TrimSpace(parts[i+1]),
			})
		}

		segments = append(segments, models.Segment{
			Building:  building,
			Floor:     floor,
			Waypoints: waypoints,
		})
	}
	return segments
}
