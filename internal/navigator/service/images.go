package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"

	"campus-map/internal/navigator/dataset"
	"campus-map/internal/navigator/models"
)

// ============================================================
// Image Cache
// ============================================================

// ImageCache decodes floor-plan headers once and keeps their natural size.
// Entries are dropped when the file changes on disk.
type ImageCache struct {
	files *dataset.Files

	mu          sync.RWMutex
	entries     map[string]models.ImageInfo
	generations map[string]uint64
	group       singleflight.Group
	decode      func(path, filename string) (models.ImageInfo, error)

	watcher *fsnotify.Watcher
	done    chan struct{}
	onEvict func(filename string)
}

// ImageCacheOption configures the cache
type ImageCacheOption func(*ImageCache)

// WithOnEvict sets a callback run after a watched file is evicted
func WithOnEvict(fn func(filename string)) ImageCacheOption {
	return func(c *ImageCache) {
		c.onEvict = fn
	}
}

func NewImageCache(files *dataset.Files, opts ...ImageCacheOption) *ImageCache {
	c := &ImageCache{
		files:       files,
		entries:     make(map[string]models.ImageInfo),
		generations: make(map[string]uint64),
		decode:      decodeHeader,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Info returns the decoded header of an image in the images directory.
// Concurrent loads of the same file share one decode.
func (c *ImageCache) Info(ctx context.Context, filename string) (models.ImageInfo, error) {
	c.mu.RLock()
	info, ok := c.entries[filename]
	c.mu.RUnlock()
	if ok {
		return info, nil
	}

	path, err := c.files.ImagePath(filename)
	if err != nil {
		return models.ImageInfo{}, err
	}

	ch := c.group.DoChan(filename, func() (any, error) {
		c.mu.RLock()
		gen := c.generations[filename]
		c.mu.RUnlock()

		info, err := c.decode(path, filename)
		if err != nil {
			return models.ImageInfo{}, err
		}

		// An eviction during the decode means the file changed under us.
		c.mu.Lock()
		stale := c.generations[filename] != gen
		if !stale {
			c.entries[filename] = info
		}
		c.mu.Unlock()
		if stale {
			log.Printf("[IMAGES] Discarded stale decode of %s", filename)
			return info, nil
		}
		log.Printf("[IMAGES] Loaded %s (%dx%d %s)", filename, info.Width, info.Height, info.Format)
		return info, nil
	})

	select {
	case <-ctx.Done():
		return models.ImageInfo{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return models.ImageInfo{}, res.Err
		}
		return res.Val.(models.ImageInfo), nil
	}
}

func (c *ImageCache) Evict(filename string) {
	c.mu.Lock()
	_, ok := c.entries[filename]
	delete(c.entries, filename)
	c.generations[filename]++
	c.mu.Unlock()
	c.group.Forget(filename)

	if ok {
		log.Printf("[IMAGES] Evicted %s", filename)
	}
}

func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func decodeHeader(path, filename string) (models.ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.ImageInfo{}, fmt.Errorf("open image %s: %v: %w", filename, err, models.ErrExternalResource)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return models.ImageInfo{}, fmt.Errorf("decode image %s: %v: %w", filename, err, models.ErrExternalResource)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return models.ImageInfo{}, fmt.Errorf("image %s has no pixels: %w", filename, models.ErrExternalResource)
	}
	return models.ImageInfo{Filename: filename, Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// ============================================================
// Watcher
// ============================================================

// Watch starts evicting entries whose files are written, replaced or removed.
func (c *ImageCache) Watch() error {
	if c.watcher != nil {
		return errors.New("image cache already watching")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := w.Add(c.files.ImagesDir()); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", c.files.ImagesDir(), err)
	}

	c.watcher = w
	c.done = make(chan struct{})
	go c.eventLoop()
	log.Printf("[IMAGES] Watching %s", c.files.ImagesDir())
	return nil
}

func (c *ImageCache) Close() error {
	if c.watcher == nil {
		return nil
	}
	close(c.done)
	err := c.watcher.Close()
	c.watcher = nil
	return err
}

func (c *ImageCache) eventLoop() {
	w, done := c.watcher, c.done
	for {
		select {
		case <-done:
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			c.Evict(name)
			if c.onEvict != nil {
				c.onEvict(name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("[IMAGES] Watcher error: %v", err)
		}
	}
}
