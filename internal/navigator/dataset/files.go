package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"campus-map/internal/navigator/models"
)

// ============================================================
// Data Files
// ============================================================

// Files resolves the dataset files under one data directory.
type Files struct {
	root   string
	images string
}

func NewFiles(root, images string) *Files {
	if images == "" {
		images = filepath.Join(root, "images")
	}
	return &Files{root: root, images: images}
}

func (f *Files) Root() string {
	return f.root
}

func (f *Files) RoomsPath() string {
	return filepath.Join(f.root, "rooms.csv")
}

func (f *Files) BuildingsPath() string {
	return filepath.Join(f.root, "buildings.csv")
}

func (f *Files) DoorsPath() string {
	return filepath.Join(f.root, "doors.csv")
}

func (f *Files) NodesPath() string {
	return filepath.Join(f.root, "nodes.csv")
}

func (f *Files) EdgesPath() string {
	return filepath.Join(f.root, "edges.txt")
}

func (f *Files) ImagesDir() string {
	return f.images
}

// ImagePath resolves an image filename inside the images directory. Names
// that would escape the directory are rejected.
func (f *Files) ImagePath(filename string) (string, error) {
	clean := filepath.Base(filepath.Clean("/" + filename))
	if clean != filename || clean == "." || clean == "/" || strings.HasPrefix(clean, ".") {
		return "", fmt.Errorf("image name %q: %w", filename, models.ErrInvalidOperation)
	}
	return filepath.Join(f.images, clean), nil
}

func (f *Files) EnsureDirs() error {
	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return fmt.Errorf("mkdir data dir: %w", err)
	}
	if err := os.MkdirAll(f.images, 0o755); err != nil {
		return fmt.Errorf("mkdir images dir: %w", err)
	}
	return nil
}
