package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"campus-map/internal/navigator/graph"
	"campus-map/internal/navigator/models"
	"campus-map/internal/navigator/pqueue"
)

// ============================================================
// Node table
// ============================================================

var nodeHeader = []string{"id", "building", "floor", "x", "y", "label", "kind"}

// WriteNodesCSV writes every node in insertion order with a header row. Kind
// is written as its numeric code.
func WriteNodesCSV(w io.Writer, nodes []models.Node) error {
	bw := bufio.NewWriter(w)
	writeRow(bw, nodeHeader)
	for _, n := range nodes {
		writeRow(bw, []string{
			strconv.Itoa(n.ID),
			n.Building,
			n.Floor,
			strconv.Itoa(n.X),
			strconv.Itoa(n.Y),
			n.Label,
			strconv.Itoa(int(n.Kind)),
		})
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write nodes: %w", err)
	}
	return nil
}

func writeRow(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteString(quote(f))
	}
	w.WriteByte('\n')
}

// quote wraps a field in double quotes only when it holds a comma, quote or
// line break.
func quote(field string) string {
	if !strings.ContainsAny(field, ",\"\r\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// ============================================================
// Adjacency listing
// ============================================================

// WriteAdjacency writes one line per node in ascending id order: the id
// followed by its neighbours.
func WriteAdjacency(w io.Writer, store *graph.Store) error {
	ids := pqueue.NewMin[int]()
	for _, n := range store.Nodes() {
		ids.Push(n.ID)
	}

	bw := bufio.NewWriter(w)
	for _, id := range ids.Drain() {
		bw.WriteString(strconv.Itoa(id))
		for _, nb := range store.Neighbors(id) {
			bw.WriteByte(' ')
			bw.WriteString(strconv.Itoa(nb))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write adjacency: %w", err)
	}
	return nil
}
