package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"campus-map/internal/navigator/models"
	"campus-map/internal/navigator/service"
)

// ============================================================
// Editor Handler (dev mode)
// ============================================================

type EditorHandler struct {
	ctrl *service.Controller
}

func NewEditorHandler(ctrl *service.Controller) *EditorHandler {
	return &EditorHandler{ctrl: ctrl}
}

func (h *EditorHandler) Register(r fiber.Router) {
	r.Get("/sessions/:id/graph", h.Graph)
	r.Get("/sessions/:id/graph.svg", h.GraphSVG)
	r.Post("/sessions/:id/editor/click", h.Click)
	r.Post("/sessions/:id/editor/delete", h.Delete)
	r.Post("/sessions/:id/editor/nodes", h.AddNode)
	r.Get("/export/nodes.csv", h.ExportNodes)
	r.Get("/export/edges.txt", h.ExportEdges)
}

type clickRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Target *int    `json:"target,omitempty"`
}

type addNodeRequest struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Kind  string  `json:"kind"`
	Label string  `json:"label"`
}

func (h *EditorHandler) Graph(c fiber.Ctx) error {
	gv, err := h.ctrl.Graph(context.Background(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(gv)
}

func (h *EditorHandler) GraphSVG(c fiber.Ctx) error {
	svg, err := h.ctrl.GraphSVG(context.Background(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// Click runs one step of the two-click connect gesture.
func (h *EditorHandler) Click(c fiber.Ctx) error {
	var req clickRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	res, err := h.ctrl.EditorClick(context.Background(), c.Params("id"), req.X, req.Y, req.Target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (h *EditorHandler) Delete(c fiber.Ctx) error {
	var req pointRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	res, err := h.ctrl.EditorDelete(context.Background(), c.Params("id"), req.X, req.Y)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (h *EditorHandler) AddNode(c fiber.Ctx) error {
	var req addNodeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "invalid json")
	}
	kind := models.KindCorridor
	if req.Kind != "" {
		k, err := models.ParseKind(req.Kind)
		if err != nil {
			return badRequest(c, err.Error())
		}
		kind = k
	}

	res, err := h.ctrl.AddNode(context.Background(), c.Params("id"), req.X, req.Y, kind, req.Label)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(res)
}

func (h *EditorHandler) ExportNodes(c fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.ctrl.ExportNodes(&buf); err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

func (h *EditorHandler) ExportEdges(c fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.ctrl.ExportEdges(&buf); err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "text/plain; charset=utf-8")
	return c.Send(buf.Bytes())
}
