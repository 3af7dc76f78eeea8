package dataset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"campus-map/internal/navigator/graph"
	"campus-map/internal/navigator/models"
)

// Dataset is the read-only catalog shipped with a map: rooms with their
// routes, floor images and door coordinates.
type Dataset struct {
	Rooms  []models.Room
	Images []models.FloorImage
	Doors  []models.Door
}

// Load reads rooms.csv, buildings.csv and doors.csv from the data directory.
// A missing doors.csv yields an empty door table.
func Load(files *Files) (*Dataset, error) {
	ds := &Dataset{}
	var err error

	if ds.Rooms, err = readFile(files.RoomsPath(), ReadRooms); err != nil {
		return nil, err
	}
	if ds.Images, err = readFile(files.BuildingsPath(), ReadFloorImages); err != nil {
		return nil, err
	}
	ds.Doors, err = readFile(files.DoorsPath(), ReadDoors)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[CATALOG] %s missing, no door coordinates", files.DoorsPath())
		ds.Doors, err = nil, nil
	}
	if err != nil {
		return nil, err
	}

	log.Printf("[CATALOG] Loaded %d rooms, %d floor images, %d doors", len(ds.Rooms), len(ds.Images), len(ds.Doors))
	return ds, nil
}

// LoadGraph builds the navigation graph from nodes.csv and edges.txt. Either
// file may be absent, in which case the graph starts empty.
func LoadGraph(files *Files, opts ...graph.Option) (*graph.Store, error) {
	store := graph.New(opts...)

	nodes, err := readFile(files.NodesPath(), ReadNodes)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[EDITOR] %s missing, starting with an empty graph", files.NodesPath())
		return store, nil
	}
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		if err := store.Insert(n); err != nil {
			return nil, fmt.Errorf("nodes: %w", err)
		}
	}

	f, err := os.Open(files.EdgesPath())
	if errors.Is(err, fs.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open edges: %w", err)
	}
	defer f.Close()

	skipped, err := ReadAdjacency(f, store)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Printf("[EDITOR] Skipped %d edges with unknown or invalid endpoints", skipped)
	}

	log.Printf("[EDITOR] Loaded graph: %d nodes, %d edges", store.Len(), store.EdgeCount())
	return store, nil
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}
