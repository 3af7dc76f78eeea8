package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"campus-map/internal/navigator/graph"
	"campus-map/internal/navigator/models"
)

// ============================================================
// CSV Tables
// ============================================================

// Column aliases. Campus data files carry Hungarian headers.
var aliases = map[string][]string{
	"name":     {"name", "teremnev"},
	"label":    {"label", "teremnev"},
	"building": {"building", "epulet"},
	"floor":    {"floor", "emelet"},
	"route":    {"route", "utvonal"},
	"filename": {"filename", "file"},
	"kind":     {"kind", "tipus"},
	"id":       {"id"},
	"x":        {"x"},
	"y":        {"y"},
}

type table struct {
	columns map[string]int
	rows    [][]string
}

func readTable(r io.Reader, required ...string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: missing header")
	}

	header := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}

	t := &table{columns: make(map[string]int), rows: records[1:]}
	for key, names := range aliases {
		for _, name := range names {
			if idx, ok := header[name]; ok {
				t.columns[key] = idx
				break
			}
		}
	}
	for _, key := range required {
		if _, ok := t.columns[key]; !ok {
			return nil, fmt.Errorf("read csv: missing column %q", key)
		}
	}
	return t, nil
}

func (t *table) get(row []string, key string) string {
	idx, ok := t.columns[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (t *table) optionalInt(row []string, key string) (*int, error) {
	raw := t.get(row, key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", key, err)
	}
	return &v, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ============================================================
// Readers
// ============================================================

func ReadRooms(r io.Reader) ([]models.Room, error) {
	t, err := readTable(r, "name", "building", "floor")
	if err != nil {
		return nil, fmt.Errorf("rooms: %w", err)
	}

	rooms := make([]models.Room, 0, len(t.rows))
	for i, row := range t.rows {
		if blank(row) {
			continue
		}
		room := models.Room{
			Name:     t.get(row, "name"),
			Building: t.get(row, "building"),
			Floor:    t.get(row, "floor"),
			Route:    t.get(row, "route"),
		}
		if room.X, err = t.optionalInt(row, "x"); err != nil {
			return nil, fmt.Errorf("rooms line %d: %w", i+2, err)
		}
		if room.Y, err = t.optionalInt(row, "y"); err != nil {
			return nil, fmt.Errorf("rooms line %d: %w", i+2, err)
		}
		room.Segments = ParseRoute(room.Route)
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func ReadFloorImages(r io.Reader) ([]models.FloorImage, error) {
	t, err := readTable(r, "building", "floor", "filename")
	if err != nil {
		return nil, fmt.Errorf("buildings: %w", err)
	}

	images := make([]models.FloorImage, 0, len(t.rows))
	for i, row := range t.rows {
		if blank(row) {
			continue
		}
		img := models.FloorImage{
			Building: t.get(row, "building"),
			Floor:    t.get(row, "floor"),
			Filename: t.get(row, "filename"),
		}
		if img.X, err = t.optionalInt(row, "x"); err != nil {
			return nil, fmt.Errorf("buildings line %d: %w", i+2, err)
		}
		if img.Y, err = t.optionalInt(row, "y"); err != nil {
			return nil, fmt.Errorf("buildings line %d: %w", i+2, err)
		}
		images = append(images, img)
	}
	return images, nil
}

func ReadDoors(r io.Reader) ([]models.Door, error) {
	t, err := readTable(r, "label", "id")
	if err != nil {
		return nil, fmt.Errorf("doors: %w", err)
	}

	doors := make([]models.Door, 0, len(t.rows))
	for i, row := range t.rows {
		if blank(row) {
			continue
		}
		door := models.Door{
			Label: t.get(row, "label"),
			ID:    t.get(row, "id"),
		}
		if door.X, err = t.optionalInt(row, "x"); err != nil {
			return nil, fmt.Errorf("doors line %d: %w", i+2, err)
		}
		if door.Y, err = t.optionalInt(row, "y"); err != nil {
			return nil, fmt.Errorf("doors line %d: %w", i+2, err)
		}
		doors = append(doors, door)
	}
	return doors, nil
}

// ReadNodes parses the node table. Ids must be non-negative integers and
// unique across the file.
func ReadNodes(r io.Reader) ([]models.Node, error) {
	t, err := readTable(r, "id", "building", "floor", "x", "y")
	if err != nil {
		return nil, fmt.Errorf("nodes: %w", err)
	}

	seen := make(map[int]bool, len(t.rows))
	nodes := make([]models.Node, 0, len(t.rows))
	for i, row := range t.rows {
		if blank(row) {
			continue
		}
		line := i + 2

		id, err := strconv.Atoi(t.get(row, "id"))
		if err != nil || id < 0 {
			return nil, fmt.Errorf("nodes line %d: id %q is not a non-negative integer", line, t.get(row, "id"))
		}
		if seen[id] {
			return nil, fmt.Errorf("nodes line %d: duplicate id %d", line, id)
		}
		seen[id] = true

		x, err := strconv.Atoi(t.get(row, "x"))
		if err != nil {
			return nil, fmt.Errorf("nodes line %d: x: %w", line, err)
		}
		y, err := strconv.Atoi(t.get(row, "y"))
		if err != nil {
			return nil, fmt.Errorf("nodes line %d: y: %w", line, err)
		}

		kind := models.KindCorridor
		if raw := t.get(row, "kind"); raw != "" {
			if kind, err = models.ParseKind(raw); err != nil {
				return nil, fmt.Errorf("nodes line %d: %w", line, err)
			}
		}

		nodes = append(nodes, models.Node{
			ID:       id,
			Building: t.get(row, "building"),
			Floor:    t.get(row, "floor"),
			X:        x,
			Y:        y,
			Label:    t.get(row, "label"),
			Kind:     kind,
		})
	}
	return nodes, nil
}

// ============================================================
// Adjacency
// ============================================================

// maxAdjacencyLine bounds one "id n1 n2 ..." line.
const maxAdjacencyLine = 16 << 20

// ReadAdjacency applies an adjacency listing ("id n1 n2 ...") to the store.
// Pairs naming unknown nodes are skipped and counted.
func ReadAdjacency(r io.Reader, store *graph.Store) (skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxAdjacencyLine)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		ids := make([]int, len(fields))
		for i, f := range fields {
			if ids[i], err = strconv.Atoi(f); err != nil {
				return skipped, fmt.Errorf("edges line %d: %q: %w", line, f, err)
			}
		}

		for _, other := range ids[1:] {
			if err := store.Connect(ids[0], other); err != nil {
				if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidOperation) {
					skipped++
					continue
				}
				return skipped, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return skipped, fmt.Errorf("edges: %w", err)
	}
	return skipped, nil
}
