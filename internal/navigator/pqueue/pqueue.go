// Package pqueue is an array-backed binary heap with an injected ordering.
//
// The element at index i has its parent at (i+1)/2-1 and its children at
// 2i+1 and 2i+2. Push and Pop are O(log n), Peek is O(1).
//
// When both children of a node outrank it and compare equal to each other,
// sift-down moves the left child up. Elements of equal priority therefore do
// not come out in insertion order.
package pqueue

import (
	"cmp"
	"errors"
)

// ErrEmptyContainer is returned by Peek, Pop and Replace on an empty queue.
var ErrEmptyContainer = errors.New("priority queue is empty")

const top = 0

func parent(i int) int { return (i+1)/2 - 1 }
func left(i int) int   { return 2*i + 1 }
func right(i int) int  { return 2*i + 2 }

// Queue orders elements so that Peek returns the element for which
// higher(e, other) holds against every other element.
type Queue[T any] struct {
	heap   []T
	higher func(a, b T) bool
}

// New returns a queue ordered by higher, which reports whether a has
// strictly higher priority than b.
func New[T any](higher func(a, b T) bool) *Queue[T] {
	return &Queue[T]{higher: higher}
}

// NewOrdered returns a max-queue using the natural > ordering.
func NewOrdered[T cmp.Ordered]() *Queue[T] {
	return New(func(a, b T) bool { return a > b })
}

// NewMin returns a min-queue using the natural < ordering.
func NewMin[T cmp.Ordered]() *Queue[T] {
	return New(func(a, b T) bool { return a < b })
}

func (q *Queue[T]) Size() int {
	return len(q.heap)
}

func (q *Queue[T]) IsEmpty() bool {
	return len(q.heap) == 0
}

func (q *Queue[T]) Peek() (T, error) {
	if q.IsEmpty() {
		var zero T
		return zero, ErrEmptyContainer
	}
	return q.heap[top], nil
}

// Push inserts values one by one and returns the new size.
func (q *Queue[T]) Push(values ...T) int {
	for _, v := range values {
		q.heap = append(q.heap, v)
		q.siftUp()
	}
	return q.Size()
}

func (q *Queue[T]) Pop() (T, error) {
	popped, err := q.Peek()
	if err != nil {
		return popped, err
	}
	bottom := q.Size() - 1
	if bottom > top {
		q.swap(top, bottom)
	}
	var zero T
	q.heap[bottom] = zero
	q.heap = q.heap[:bottom]
	q.siftDown()
	return popped, nil
}

// Replace swaps the top element for v and returns the old top. It costs a
// single sift-down instead of a Pop followed by a Push.
func (q *Queue[T]) Replace(v T) (T, error) {
	replaced, err := q.Peek()
	if err != nil {
		return replaced, err
	}
	q.heap[top] = v
	q.siftDown()
	return replaced, nil
}

// Drain pops every element and returns them in priority order.
func (q *Queue[T]) Drain() []T {
	out := make([]T, 0, q.Size())
	for !q.IsEmpty() {
		v, _ := q.Pop()
		out = append(out, v)
	}
	return out
}

func (q *Queue[T]) greater(i, j int) bool {
	return q.higher(q.heap[i], q.heap[j])
}

func (q *Queue[T]) swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
}

func (q *Queue[T]) siftUp() {
	node := q.Size() - 1
	for node > top && q.greater(node, parent(node)) {
		q.swap(node, parent(node))
		node = parent(node)
	}
}

func (q *Queue[T]) siftDown() {
	node := top
	size := q.Size()
	for (left(node) < size && q.greater(left(node), node)) ||
		(right(node) < size && q.greater(right(node), node)) {
		child := left(node)
		if right(node) < size && q.greater(right(node), left(node)) {
			child = right(node)
		}
		q.swap(node, child)
		node = child
	}
}
