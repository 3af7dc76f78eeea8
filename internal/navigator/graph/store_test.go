package graph

import (
	"errors"
	"slices"
	"testing"

	"campus-map/internal/navigator/models"
)

func mustInsert(t *testing.T, s *Store, nodes ...models.Node) {
	t.Helper()
	for _, n := range nodes {
		if err := s.Insert(n); err != nil {
			t.Fatalf("Insert(%d): %v", n.ID, err)
		}
	}
}

func node(id int, building, floor string, x, y int) models.Node {
	return models.Node{ID: id, Building: building, Floor: floor, X: x, Y: y, Kind: models.KindCorridor}
}

func TestAddNodeAssignsIDs(t *testing.T) {
	s := New()
	n, err := s.AddNode("A", "1", 10, 10, models.KindCorridor, "")
	if err != nil {
		t.Fatal(err)
	}
	if n.ID != 0 {
		t.Errorf("first id = %d, want 0", n.ID)
	}

	s = New()
	mustInsert(t, s, node(0, "A", "1", 0, 0), node(2, "A", "1", 0, 0), node(5, "B", "2", 0, 0))
	n, err = s.AddNode("A", "1", 1, 1, models.KindRoom, "R1")
	if err != nil {
		t.Fatal(err)
	}
	if n.ID != 6 {
		t.Errorf("id = %d, want 6", n.ID)
	}
	if got, _ := s.FindNode(6); got.Label != "R1" || got.Kind != models.KindRoom {
		t.Errorf("FindNode(6) = %+v", got)
	}
}

func TestAddNodeRejectsCampus(t *testing.T) {
	s := New()
	_, err := s.AddNode(models.CampusBuilding, "0", 1, 1, models.KindCorridor, "")
	if !errors.Is(err, models.ErrInvalidOperation) {
		t.Fatalf("err = %v, want ErrInvalidOperation", err)
	}
	if s.Len() != 0 {
		t.Errorf("store has %d nodes after rejected add", s.Len())
	}
}

func TestInsertRejectsDuplicates(t *testing.T) {
	s := New()
	mustInsert(t, s, node(1, "A", "1", 0, 0))
	if err := s.Insert(node(1, "B", "1", 0, 0)); !errors.Is(err, models.ErrInvalidOperation) {
		t.Errorf("duplicate insert err = %v", err)
	}
	if err := s.Insert(node(-1, "B", "1", 0, 0)); !errors.Is(err, models.ErrInvalidOperation) {
		t.Errorf("negative insert err = %v", err)
	}
}

func TestNodesOnKeepsInsertionOrder(t *testing.T) {
	s := New()
	mustInsert(t, s,
		node(7, "A", "1", 0, 0),
		node(3, "B", "1", 0, 0),
		node(1, "A", "1", 0, 0),
		node(9, "A", "2", 0, 0),
	)
	var ids []int
	for _, n := range s.NodesOn("A", "1") {
		ids = append(ids, n.ID)
	}
	if !slices.Equal(ids, []int{7, 1}) {
		t.Errorf("NodesOn = %v, want [7 1]", ids)
	}
	if got := s.NodesOn("C", "1"); got == nil || len(got) != 0 {
		t.Errorf("NodesOn(unknown) = %#v, want empty", got)
	}
}

func TestToggleEdgeSymmetry(t *testing.T) {
	s := New()
	mustInsert(t, s, node(0, "A", "1", 0, 0), node(1, "A", "1", 3, 4), node(2, "A", "1", 0, 0))

	connected, err := s.ToggleEdge(0, 1)
	if err != nil || !connected {
		t.Fatalf("ToggleEdge = %v, %v", connected, err)
	}
	if !slices.Equal(s.Neighbors(0), []int{1}) || !slices.Equal(s.Neighbors(1), []int{0}) {
		t.Fatalf("neighbours = %v / %v", s.Neighbors(0), s.Neighbors(1))
	}
	if s.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", s.EdgeCount())
	}

	connected, err = s.ToggleEdge(1, 0)
	if err != nil || connected {
		t.Fatalf("second ToggleEdge = %v, %v", connected, err)
	}
	if len(s.Neighbors(0)) != 0 || len(s.Neighbors(1)) != 0 {
		t.Errorf("neighbours after double toggle = %v / %v", s.Neighbors(0), s.Neighbors(1))
	}
	if got := s.Neighbors(2); got == nil {
		t.Error("Neighbors returned nil, want empty slice")
	}
}

func TestToggleEdgeRejects(t *testing.T) {
	s := New()
	mustInsert(t, s, node(0, "A", "1", 0, 0))

	if _, err := s.ToggleEdge(0, 0); !errors.Is(err, models.ErrInvalidOperation) {
		t.Errorf("self toggle err = %v", err)
	}
	if _, err := s.ToggleEdge(0, 42); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown toggle err = %v", err)
	}
	if len(s.Neighbors(0)) != 0 {
		t.Error("rejected toggle changed adjacency")
	}
}

func TestCrossFloorEdges(t *testing.T) {
	a, b := node(0, "A", "1", 0, 0), node(1, "A", "2", 0, 0)

	s := New()
	mustInsert(t, s, a, b)
	if _, err := s.ToggleEdge(0, 1); err != nil {
		t.Fatalf("permissive store rejected cross-floor edge: %v", err)
	}
	if len(s.EdgesOn("A", "1")) != 0 {
		t.Error("cross-floor edge listed as drawable")
	}

	strict := New(WithStrictFloors())
	mustInsert(t, strict, a, b)
	if _, err := strict.ToggleEdge(0, 1); !errors.Is(err, models.ErrInvalidOperation) {
		t.Errorf("strict store err = %v", err)
	}
}

func TestRemoveNode(t *testing.T) {
	s := New()
	mustInsert(t, s, node(0, "A", "1", 0, 0), node(1, "A", "1", 0, 0), node(2, "A", "1", 0, 0))
	s.ToggleEdge(0, 1)
	s.ToggleEdge(1, 2)
	s.ToggleEdge(0, 2)

	if err := s.RemoveNode(1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.FindNode(1); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("FindNode(1) err = %v", err)
	}
	for _, id := range []int{0, 2} {
		if slices.Contains(s.Neighbors(id), 1) {
			t.Errorf("node %d still lists 1: %v", id, s.Neighbors(id))
		}
	}
	if !slices.Equal(s.Neighbors(0), []int{2}) {
		t.Errorf("Neighbors(0) = %v, want [2]", s.Neighbors(0))
	}
	if n, err := s.FindNode(2); err != nil || n.ID != 2 {
		t.Errorf("index broken after removal: %+v, %v", n, err)
	}

	if err := s.RemoveNode(1); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second remove err = %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestConnectAndEdgesOn(t *testing.T) {
	s := New()
	mustInsert(t, s, node(4, "A", "1", 0, 0), node(2, "A", "1", 0, 0), node(9, "B", "1", 0, 0))
	for _, pair := range [][2]int{{4, 2}, {2, 4}, {4, 9}} {
		if err := s.Connect(pair[0], pair[1]); err != nil {
			t.Fatal(err)
		}
	}
	if !slices.Equal(s.Neighbors(4), []int{2, 9}) {
		t.Errorf("Neighbors(4) = %v", s.Neighbors(4))
	}
	edges := s.EdgesOn("A", "1")
	if len(edges) != 1 || edges[0] != (Edge{A: 2, B: 4}) {
		t.Errorf("EdgesOn = %v", edges)
	}
}

func TestDistance(t *testing.T) {
	s := New()
	mustInsert(t, s, node(0, "A", "1", 0, 0), node(1, "A", "1", 3, 4))
	d, err := s.Distance(0, 1)
	if err != nil || d != 5 {
		t.Errorf("Distance = %v, %v; want 5", d, err)
	}
	if _, err := s.Distance(0, 8); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Distance to unknown err = %v", err)
	}
}
