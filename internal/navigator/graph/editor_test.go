package graph

import (
	"errors"
	"slices"
	"testing"

	"campus-map/internal/navigator/models"
	"campus-map/internal/navigator/viewport"
)

func intp(v int) *int { return &v }

func scenarioStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	mustInsert(t, s,
		models.Node{ID: 0, Building: "A", Floor: "1", X: 10, Y: 10, Kind: models.KindCorridor},
		models.Node{ID: 1, Building: "A", Floor: "1", X: 50, Y: 50, Kind: models.KindRoom, Label: "R1"},
	)
	return s
}

func TestClickClickConnects(t *testing.T) {
	s := scenarioStore(t)
	e := NewEditor(s)
	proj := viewport.Projection{NaturalWidth: 100, NaturalHeight: 100, DrawWidth: 100, DrawHeight: 100}

	hit, ok := HitTest(s.NodesOn("A", "1"), proj, 12, 11, 20)
	if !ok || hit.ID != 0 {
		t.Fatalf("HitTest near node 0 = %+v, %v", hit, ok)
	}
	out, err := e.Activate(Activation{Hit: intp(hit.ID)})
	if err != nil || out != OutcomeSelected {
		t.Fatalf("first click = %v, %v", out, err)
	}
	if e.Selection() != (Armed{ID: 0}) {
		t.Fatalf("selection = %#v, want Armed{0}", e.Selection())
	}

	hit, ok = HitTest(s.NodesOn("A", "1"), proj, 49, 52, 20)
	if !ok || hit.ID != 1 {
		t.Fatalf("HitTest near node 1 = %+v, %v", hit, ok)
	}
	out, err = e.Activate(Activation{Hit: intp(hit.ID)})
	if err != nil || out != OutcomeConnected {
		t.Fatalf("second click = %v, %v", out, err)
	}
	if _, idle := e.Selection().(Idle); !idle {
		t.Errorf("selection = %#v, want Idle", e.Selection())
	}
	if !slices.Equal(s.Neighbors(0), []int{1}) || !slices.Equal(s.Neighbors(1), []int{0}) {
		t.Errorf("neighbours = %v / %v", s.Neighbors(0), s.Neighbors(1))
	}
}

func TestClickSameNodeDeselects(t *testing.T) {
	e := NewEditor(scenarioStore(t))
	e.Activate(Activation{Hit: intp(1)})
	out, err := e.Activate(Activation{Hit: intp(1)})
	if err != nil || out != OutcomeDeselected {
		t.Fatalf("Activate = %v, %v", out, err)
	}
	if _, idle := e.Selection().(Idle); !idle {
		t.Errorf("selection = %#v", e.Selection())
	}
}

func TestEmptySpaceWithTarget(t *testing.T) {
	s := scenarioStore(t)
	e := NewEditor(s)

	if _, err := e.Activate(Activation{}); !errors.Is(err, models.ErrInvalidOperation) {
		t.Errorf("empty click while idle err = %v", err)
	}

	e.Activate(Activation{Hit: intp(0)})

	out, err := e.Activate(Activation{Target: intp(99)})
	if !errors.Is(err, models.ErrNotFound) || out != OutcomeNone {
		t.Fatalf("unknown target = %v, %v", out, err)
	}
	if e.Selection() != (Armed{ID: 0}) {
		t.Fatalf("selection after unknown target = %#v", e.Selection())
	}

	out, err = e.Activate(Activation{})
	if err != nil || out != OutcomeNone || e.Selection() != (Armed{ID: 0}) {
		t.Fatalf("cancelled prompt = %v, %v, %#v", out, err, e.Selection())
	}

	out, err = e.Activate(Activation{Target: intp(1)})
	if err != nil || out != OutcomeConnected {
		t.Fatalf("known target = %v, %v", out, err)
	}
	if !s.Connected(0, 1) {
		t.Error("target click did not connect")
	}

	e.Activate(Activation{Hit: intp(1)})
	out, _ = e.Activate(Activation{Target: intp(0)})
	if out != OutcomeDisconnected || s.Connected(0, 1) {
		t.Errorf("second target toggle = %v, connected=%v", out, s.Connected(0, 1))
	}
}

func TestDeleteArmed(t *testing.T) {
	s := scenarioStore(t)
	e := NewEditor(s)
	s.ToggleEdge(0, 1)

	if _, err := e.DeleteArmed(intp(0)); !errors.Is(err, models.ErrInvalidOperation) {
		t.Errorf("delete while idle err = %v", err)
	}

	e.Activate(Activation{Hit: intp(0)})
	if _, err := e.DeleteArmed(intp(1)); !errors.Is(err, models.ErrInvalidOperation) {
		t.Errorf("delete on other node err = %v", err)
	}
	if !s.Has(1) || e.Selection() != (Armed{ID: 0}) {
		t.Fatal("rejected delete changed state")
	}

	out, err := e.DeleteArmed(intp(0))
	if err != nil || out != OutcomeDeleted {
		t.Fatalf("DeleteArmed = %v, %v", out, err)
	}
	if s.Has(0) || len(s.Neighbors(1)) != 0 {
		t.Errorf("node 0 not fully removed: has=%v n1=%v", s.Has(0), s.Neighbors(1))
	}
	if _, idle := e.Selection().(Idle); !idle {
		t.Errorf("selection = %#v", e.Selection())
	}
}

func TestEditorAddNodeLabels(t *testing.T) {
	e := NewEditor(New())
	tests := []struct {
		kind  models.Kind
		label string
		want  string
	}{
		{models.KindCorridor, "", "A1F"},
		{models.KindDoor, "", "A1K"},
		{models.KindRoom, "A101", "A101"},
		{models.KindRoom, "", ""},
	}
	for i, tt := range tests {
		n, err := e.AddNode("A", "1", 5, 5, tt.kind, tt.label)
		if err != nil {
			t.Fatal(err)
		}
		if n.ID != i || n.Label != tt.want {
			t.Errorf("AddNode(%s) = id %d label %q, want id %d label %q", tt.kind, n.ID, n.Label, i, tt.want)
		}
	}
	if _, err := e.AddNode(models.CampusBuilding, "0", 1, 1, models.KindCorridor, ""); !errors.Is(err, models.ErrInvalidOperation) {
		t.Errorf("campus add err = %v", err)
	}
}

func TestHitTestScalesWithRadius(t *testing.T) {
	nodes := []models.Node{{ID: 3, X: 128, Y: 128}}
	proj := viewport.Projection{NaturalWidth: 1024, NaturalHeight: 1024, DrawWidth: 2048, DrawHeight: 2048}

	if _, ok := HitTest(nodes, proj, 281, 256, 20); ok {
		t.Error("hit outside radius")
	}
	if n, ok := HitTest(nodes, proj, 281, 256, 40); !ok || n.ID != 3 {
		t.Errorf("zoomed radius miss: %+v %v", n, ok)
	}
	if _, ok := HitTest(nodes, proj, 276, 256, 20); ok {
		t.Error("distance equal to radius must not hit")
	}
}
