package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"campus-map/internal/navigator/service"
)

// ============================================================
// Navigation Handler
// ============================================================

type NavigationHandler struct {
	ctrl *service.Controller
}

func NewNavigationHandler(ctrl *service.Controller) *NavigationHandler {
	return &NavigationHandler{ctrl: ctrl}
}

// Register mounts the viewer routes under r.
func (h *NavigationHandler) Register(r fiber.Router) {
	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions/:id", h.GetSession)
	r.Delete("/sessions/:id", h.DeleteSession)
	r.Post("/sessions/:id/search", h.Search)
	r.Post("/sessions/:id/advance", h.Advance)
	r.Post("/sessions/:id/reset", h.Reset)
	r.Post("/sessions/:id/zoom", h.Zoom)
	r.Post("/sessions/:id/pan", h.Pan)
	r.Post("/sessions/:id/resize", h.Resize)
	r.Post("/sessions/:id/locate", h.Locate)
	r.Post("/sessions/:id/floor", h.ShowFloor)
	r.Get("/sessions/:id/frame", h.Frame)
	r.Get("/sessions/:id/overlay.svg", h.Overlay)
}

type searchRequest struct {
	Query string `json:"query"`
}

type zoomRequest struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Step int     `json:"step"`
}

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type floorRequest struct {
	Building string `json:"building"`
	Floor    string `json:"floor"`
}

func (h *NavigationHandler) CreateSession(c fiber.Ctx) error {
	sv, err := h.ctrl.OpenSession(context.Background())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(sv)
}

func (h *NavigationHandler) GetSession(c fiber.Ctx) error {
	sv, err := h.ctrl.Session(context.Background(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sv)
}

func (h *NavigationHandler) DeleteSession(c fiber.Ctx) error {
	if err := h.ctrl.CloseSession(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Search starts a new walk. The query may come as JSON or as ?q=.
func (h *NavigationHandler) Search(c fiber.Ctx) error {
	var req searchRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return badRequest(c, "invalid json")
		}
	}
	if req.Query == "" {
		req.Query = c.Query("q")
	}

	sv, err := h.ctrl.Search(context.Background(), c.Params("id"), req.Query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sv)
}

func (h *NavigationHandler) Advance(c fiber.Ctx) error {
	sv, err := h.ctrl.Advance(context.Background(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sv)
}

func (h *NavigationHandler) Reset(c fiber.Ctx) error {
	sv, err := h.ctrl.Reset(context.Background(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sv)
}

func (h *NavigationHandler) Zoom(c fiber.Ctx) error {
	var req zoomRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	sv, err := h.ctrl.Zoom(context.Background(), c.Params("id"), req.X, req.Y, req.Step)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sv)
}

func (h *NavigationHandler) Pan(c fiber.Ctx) error {
	var req panRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	sv, err := h.ctrl.Pan(context.Background(), c.Params("id"), req.DX, req.DY)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sv)
}

func (h *NavigationHandler) Resize(c fiber.Ctx) error {
	var req resizeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	sv, err := h.ctrl.Resize(context.Background(), c.Params("id"), req.Width, req.Height)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sv)
}

// Locate reports the image pixel under a viewport position.
func (h *NavigationHandler) Locate(c fiber.Ctx) error {
	var req pointRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	x, y, err := h.ctrl.Locate(context.Background(), c.Params("id"), req.X, req.Y)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"x": x, "y": y})
}

func (h *NavigationHandler) ShowFloor(c fiber.Ctx) error {
	var req floorRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	if req.Building == "" || req.Floor == "" {
		return badRequest(c, "building and floor required")
	}
	sv, err := h.ctrl.ShowFloor(context.Background(), c.Params("id"), req.Building, req.Floor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sv)
}

func (h *NavigationHandler) Frame(c fiber.Ctx) error {
	fv, err := h.ctrl.Frame(context.Background(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fv)
}

func (h *NavigationHandler) Overlay(c fiber.Ctx) error {
	svg, err := h.ctrl.OverlaySVG(context.Background(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}
