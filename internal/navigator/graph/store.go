package graph

import (
	"fmt"
	"math"
	"slices"

	"campus-map/internal/navigator/models"
)

// ============================================================
// Graph Store
// ============================================================

// Edge is an undirected same-floor pair with A < B, as it is drawn.
type Edge struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Store holds every node of the dataset in insertion order together with a
// symmetric adjacency list. Node ids are unique across all buildings.
type Store struct {
	nodes        []models.Node
	index        map[int]int   // id -> position in nodes
	adjacency    map[int][]int // id -> neighbours, insertion ordered
	strictFloors bool
}

type Option func(*Store)

// WithStrictFloors makes ToggleEdge reject pairs on different floors. The
// default store accepts them; they are kept but never drawn.
func WithStrictFloors() Option {
	return func(s *Store) {
		s.strictFloors = true
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		nodes:     []models.Node{},
		index:     make(map[int]int),
		adjacency: make(map[int][]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Len() int {
	return len(s.nodes)
}

// Nodes returns a copy of all nodes in insertion order.
func (s *Store) Nodes() []models.Node {
	return slices.Clone(s.nodes)
}

func (s *Store) Has(id int) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Store) FindNode(id int) (models.Node, error) {
	pos, ok := s.index[id]
	if !ok {
		return models.Node{}, fmt.Errorf("node %d: %w", id, models.ErrNotFound)
	}
	return s.nodes[pos], nil
}

// NodesOn filters nodes by building and floor, keeping insertion order.
func (s *Store) NodesOn(building, floor string) []models.Node {
	out := []models.Node{}
	for _, n := range s.nodes {
		if n.OnFloor(building, floor) {
			out = append(out, n)
		}
	}
	return out
}

// Neighbors returns a copy of the adjacency set of id, empty when none.
func (s *Store) Neighbors(id int) []int {
	return append([]int{}, s.adjacency[id]...)
}

func (s *Store) Connected(a, b int) bool {
	return contains(s.adjacency[a], b)
}

// NextID is max(existing ids)+1, or 0 for an empty store.
func (s *Store) NextID() int {
	next := 0
	for _, n := range s.nodes {
		if n.ID >= next {
			next = n.ID + 1
		}
	}
	return next
}

// Insert adds a node with a caller-chosen id. Used when loading a dataset.
func (s *Store) Insert(n models.Node) error {
	if n.ID < 0 {
		return fmt.Errorf("node %d: negative id: %w", n.ID, models.ErrInvalidOperation)
	}
	if s.Has(n.ID) {
		return fmt.Errorf("node %d: duplicate id: %w", n.ID, models.ErrInvalidOperation)
	}
	s.index[n.ID] = len(s.nodes)
	s.nodes = append(s.nodes, n)
	return nil
}

// AddNode creates a node with the next free id. The campus map cannot host
// nodes.
func (s *Store) AddNode(building, floor string, x, y int, kind models.Kind, label string) (models.Node, error) {
	if building == models.CampusBuilding {
		return models.Node{}, fmt.Errorf("add node on campus map: %w", models.ErrInvalidOperation)
	}
	if building == "" || floor == "" {
		return models.Node{}, fmt.Errorf("add node without building/floor: %w", models.ErrInvalidOperation)
	}
	if kind < models.KindCorridor || kind > models.KindDoor {
		return models.Node{}, fmt.Errorf("add node with %s: %w", kind, models.ErrInvalidOperation)
	}

	n := models.Node{
		ID:       s.NextID(),
		Building: building,
		Floor:    floor,
		X:        x,
		Y:        y,
		Label:    label,
		Kind:     kind,
	}
	if err := s.Insert(n); err != nil {
		return models.Node{}, err
	}
	return n, nil
}

// RemoveNode deletes the node and every adjacency entry that mentions it.
func (s *Store) RemoveNode(id int) error {
	pos, ok := s.index[id]
	if !ok {
		return fmt.Errorf("remove node %d: %w", id, models.ErrNotFound)
	}

	s.nodes = slices.Delete(s.nodes, pos, pos+1)
	delete(s.index, id)
	for i := pos; i < len(s.nodes); i++ {
		s.index[s.nodes[i].ID] = i
	}

	delete(s.adjacency, id)
	for other, neighbours := range s.adjacency {
		s.setNeighbours(other, remove(neighbours, id))
	}
	return nil
}

// ToggleEdge connects a and b, or disconnects them when already connected.
// It reports whether the pair is connected afterwards.
func (s *Store) ToggleEdge(a, b int) (bool, error) {
	if err := s.checkPair(a, b); err != nil {
		return false, err
	}

	if s.Connected(a, b) {
		s.setNeighbours(a, remove(s.adjacency[a], b))
		s.setNeighbours(b, remove(s.adjacency[b], a))
		return false, nil
	}

	if s.strictFloors {
		na, _ := s.FindNode(a)
		nb, _ := s.FindNode(b)
		if !nb.OnFloor(na.Building, na.Floor) {
			return false, fmt.Errorf("edge %d-%d crosses floors: %w", a, b, models.ErrInvalidOperation)
		}
	}

	s.adjacency[a] = append(s.adjacency[a], b)
	s.adjacency[b] = append(s.adjacency[b], a)
	return true, nil
}

// Connect adds the undirected edge a-b if it is missing. Used when loading
// adjacency files; repeated pairs are ignored.
func (s *Store) Connect(a, b int) error {
	if err := s.checkPair(a, b); err != nil {
		return err
	}
	s.adjacency[a] = appendUnique(s.adjacency[a], b)
	s.adjacency[b] = appendUnique(s.adjacency[b], a)
	return nil
}

// EdgesOn lists edges whose two endpoints lie on the given floor.
func (s *Store) EdgesOn(building, floor string) []Edge {
	out := []Edge{}
	for _, n := range s.nodes {
		if !n.OnFloor(building, floor) {
			continue
		}
		for _, other := range s.adjacency[n.ID] {
			if other <= n.ID {
				continue
			}
			m, err := s.FindNode(other)
			if err != nil || !m.OnFloor(building, floor) {
				continue
			}
			out = append(out, Edge{A: n.ID, B: other})
		}
	}
	return out
}

// EdgeCount counts undirected edges.
func (s *Store) EdgeCount() int {
	total := 0
	for _, neighbours := range s.adjacency {
		total += len(neighbours)
	}
	return total / 2
}

// Distance is the image-space length of the segment between two nodes.
func (s *Store) Distance(a, b int) (float64, error) {
	na, err := s.FindNode(a)
	if err != nil {
		return 0, err
	}
	nb, err := s.FindNode(b)
	if err != nil {
		return 0, err
	}
	dx := float64(na.X - nb.X)
	dy := float64(na.Y - nb.Y)
	return math.Sqrt(dx*dx + dy*dy), nil
}

// ============================================================
// Helpers
// ============================================================

func (s *Store) checkPair(a, b int) error {
	if a == b {
		return fmt.Errorf("edge %d-%d: self loop: %w", a, b, models.ErrInvalidOperation)
	}
	if !s.Has(a) {
		return fmt.Errorf("edge %d-%d: node %d: %w", a, b, a, models.ErrNotFound)
	}
	if !s.Has(b) {
		return fmt.Errorf("edge %d-%d: node %d: %w", a, b, b, models.ErrNotFound)
	}
	return nil
}

func (s *Store) setNeighbours(id int, neighbours []int) {
	if len(neighbours) == 0 {
		delete(s.adjacency, id)
		return
	}
	s.adjacency[id] = neighbours
}

func contains(list []int, target int) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}

func appendUnique(dst []int, src ...int) []int {
	for _, v := range src {
		if !contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

func remove(list []int, target int) []int {
	out := list[:0]
	for _, item := range list {
		if item != target {
			out = append(out, item)
		}
	}
	return out
}
