package graph

import (
	"fmt"
	"log"

	"campus-map/internal/navigator/models"
	"campus-map/internal/navigator/viewport"
)

// ============================================================
// Selection
// ============================================================

// Selection is either Idle or Armed. The two-click connect gesture moves
// between them.
type Selection interface {
	isSelection()
}

type Idle struct{}

type Armed struct {
	ID int
}

func (Idle) isSelection()  {}
func (Armed) isSelection() {}

// SelectedID returns the armed node id.
func SelectedID(sel Selection) (int, bool) {
	if a, ok := sel.(Armed); ok {
		return a.ID, true
	}
	return 0, false
}

// ============================================================
// Events
// ============================================================

// Activation is one click of the connect gesture. Hit is the node under the
// cursor, nil for empty space. Target is an id typed in by the operator after
// an empty-space click, nil when none was given.
type Activation struct {
	Hit    *int
	Target *int
}

type Outcome string

const (
	OutcomeNone         Outcome = "none"
	OutcomeSelected     Outcome = "selected"
	OutcomeDeselected   Outcome = "deselected"
	OutcomeConnected    Outcome = "connected"
	OutcomeDisconnected Outcome = "disconnected"
	OutcomeDeleted      Outcome = "deleted"
	OutcomeAdded        Outcome = "added"
)

// ============================================================
// Editor
// ============================================================

// Editor applies the developer graph-editing gestures to a Store.
type Editor struct {
	store     *Store
	selection Selection
}

func NewEditor(store *Store) *Editor {
	return &Editor{store: store, selection: Idle{}}
}

func (e *Editor) Selection() Selection {
	return e.selection
}

func (e *Editor) Store() *Store {
	return e.store
}

// Activate runs one transition of the connect gesture.
func (e *Editor) Activate(act Activation) (Outcome, error) {
	switch sel := e.selection.(type) {
	case Idle:
		if act.Hit == nil {
			return OutcomeNone, fmt.Errorf("select a node first: %w", models.ErrInvalidOperation)
		}
		e.selection = Armed{ID: *act.Hit}
		log.Printf("[EDITOR] Node %d selected", *act.Hit)
		return OutcomeSelected, nil

	case Armed:
		if act.Hit != nil {
			if *act.Hit == sel.ID {
				e.selection = Idle{}
				log.Printf("[EDITOR] Node %d unselected", sel.ID)
				return OutcomeDeselected, nil
			}
			return e.toggle(sel.ID, *act.Hit)
		}
		if act.Target == nil {
			return OutcomeNone, nil
		}
		if !e.store.Has(*act.Target) {
			return OutcomeNone, fmt.Errorf("unknown id %d: %w", *act.Target, models.ErrNotFound)
		}
		return e.toggle(sel.ID, *act.Target)
	}
	return OutcomeNone, fmt.Errorf("unexpected selection %T: %w", e.selection, models.ErrInvalidOperation)
}

func (e *Editor) toggle(a, b int) (Outcome, error) {
	connected, err := e.store.ToggleEdge(a, b)
	if err != nil {
		return OutcomeNone, err
	}
	e.selection = Idle{}
	if connected {
		log.Printf("[EDITOR] Connection added: %d <-> %d", a, b)
		return OutcomeConnected, nil
	}
	log.Printf("[EDITOR] Connection removed: %d <-> %d", a, b)
	return OutcomeDisconnected, nil
}

// DeleteArmed removes the armed node when the click hits that same node.
func (e *Editor) DeleteArmed(hit *int) (Outcome, error) {
	id, ok := SelectedID(e.selection)
	if !ok || hit == nil || *hit != id {
		return OutcomeNone, fmt.Errorf("delete requires clicking the selected node: %w", models.ErrInvalidOperation)
	}
	node, _ := e.store.FindNode(id)
	if err := e.store.RemoveNode(id); err != nil {
		return OutcomeNone, err
	}
	e.selection = Idle{}
	log.Printf("[EDITOR] Node %d (%s) deleted", id, node.Label)
	return OutcomeDeleted, nil
}

// AddNode places a new node. Corridor and door nodes without a label get the
// generated "<building><floor>F" / "<building><floor>K" name.
func (e *Editor) AddNode(building, floor string, x, y int, kind models.Kind, label string) (models.Node, error) {
	if label == "" {
		switch kind {
		case models.KindCorridor:
			label = building + floor + "F"
		case models.KindDoor:
			label = building + floor + "K"
		}
	}
	n, err := e.store.AddNode(building, floor, x, y, kind, label)
	if err != nil {
		return models.Node{}, err
	}
	log.Printf("[EDITOR] Node %d added: %s/%s (%d, %d) %s", n.ID, n.Building, n.Floor, n.X, n.Y, n.Kind)
	return n, nil
}

// ============================================================
// Hit testing
// ============================================================

// HitTest returns the node closest to the viewport position among nodes
// whose projected distance is strictly below radius.
func HitTest(nodes []models.Node, p viewport.Projection, vx, vy, radius float64) (models.Node, bool) {
	var best models.Node
	bestDist := radius
	found := false

	click := models.Point{X: vx, Y: vy}
	for _, n := range nodes {
		d := viewport.Distance(p.Point(n.Point()), click)
		if d < bestDist {
			best = n
			bestDist = d
			found = true
		}
	}
	return best, found
}
