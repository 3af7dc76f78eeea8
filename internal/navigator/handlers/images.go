package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"

	"campus-map/internal/navigator/dataset"
	"campus-map/internal/navigator/service"
)

// ============================================================
// Image Handler
// ============================================================

type ImageHandler struct {
	files *dataset.Files
	cache *service.ImageCache
}

func NewImageHandler(files *dataset.Files, cache *service.ImageCache) *ImageHandler {
	return &ImageHandler{files: files, cache: cache}
}

func (h *ImageHandler) Register(app fiber.Router) {
	app.Get("/images/:file", h.Serve)
	app.Get("/api/v1/images/:file/info", h.Info)
}

var imageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// Serve sends a floor-plan image file.
func (h *ImageHandler) Serve(c fiber.Ctx) error {
	name := c.Params("file")
	contentType, ok := imageTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "not an image"})
	}

	path, err := h.files.ImagePath(name)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
	}
	if _, err := os.Stat(path); err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "image not found"})
	}

	c.Set("Content-Type", contentType)
	return c.SendFile(path)
}

// Info returns the decoded size of an image.
func (h *ImageHandler) Info(c fiber.Ctx) error {
	info, err := h.cache.Info(context.Background(), c.Params("file"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(info)
}
