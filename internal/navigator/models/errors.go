package models

import "errors"

// Sentinel errors shared by the graph, navigation and catalog layers.
// Callers wrap them with context and test with errors.Is.
var (
	// ErrNotFound is returned for room, door, image and node lookup misses.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation is returned when an operation is rejected in the
	// current state: a self edge, an edit on the campus map, an illegal
	// advance. The rejected call leaves all state unchanged.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrExternalResource is returned when an image cannot be read or decoded.
	ErrExternalResource = errors.New("external resource failure")
)
