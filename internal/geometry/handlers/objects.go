package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"ar-geometry/internal/geometry/models"
	"ar-geometry/internal/geometry/repository"
	"ar-geometry/internal/geometry/service"

	"github.com/gofiber/fiber/v3"
)

// Journal is the part of the operation journal the handlers need.
type Journal interface {
	Record(ctx context.Context, e repository.Entry) error
	List(ctx context.Context, limit int) ([]repository.Entry, error)
}

// ============================================================
// Geometry Handler
// ============================================================

type GeometryHandler struct {
	store    *service.Store
	sessions *service.SessionManager
	journal  Journal
}

func NewGeometryHandler(store *service.Store, sessions *service.SessionManager, journal Journal) *GeometryHandler {
	return &GeometryHandler{
		store:    store,
		sessions: sessions,
		journal:  journal,
	}
}

// Routes mounts every geometry route on r.
func (h *GeometryHandler) Routes(r fiber.Router) {
	r.Post("/sessions", h.CreateSession)

	r.Get("/objects", h.ListObjects)
	r.Delete("/objects", h.Reset)
	r.Post("/objects/lines", h.AddLine)
	r.Post("/objects/planes", h.AddPlane)
	r.Get("/objects/:id", h.GetObject)
	r.Delete("/objects/:id", h.RemoveObject)
	r.Put("/objects/:id/position", h.UpdatePosition)
	r.Put("/objects/:id/rotation", h.UpdateRotation)
	r.Post("/objects/:id/equation", h.UpdateEquation)
	r.Post("/objects/:id/visibility", h.ToggleVisibility)

	r.Get("/selection", h.GetSelection)
	r.Put("/selection", h.SelectObject)

	r.Get("/history", h.History)
}

type sessionRequest struct {
	Name string `json:"name"`
}

type createRequest struct {
	Position *models.Vec3  `json:"position"`
	Rotation *models.Euler `json:"rotation"`
}

type selectionRequest struct {
	ID *string `json:"id"`
}

type selectionResponse struct {
	ID       string             `json:"id"`
	Selected bool               `json:"selected"`
	Object   *models.MathObject `json:"object,omitempty"`
}

// CreateSession issues an editor token.
func (h *GeometryHandler) CreateSession(c fiber.Ctx) error {
	var req sessionRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "name required"})
	}

	token := h.sessions.Issue(req.Name)
	log.Printf("[GEOMETRY] Session issued for %q", req.Name)

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"token": token,
		"name":  req.Name,
	})
}

// ============================================================
// Queries
// ============================================================

// ListObjects returns every object in creation order plus the selection.
func (h *GeometryHandler) ListObjects(c fiber.Ctx) error {
	snap := h.store.Snapshot()
	if snap.Objects == nil {
		snap.Objects = []models.MathObject{}
	}
	return c.JSON(snap)
}

func (h *GeometryHandler) GetObject(c fiber.Ctx) error {
	obj, ok := h.store.Object(c.Params("id"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "object not found"})
	}
	return c.JSON(obj)
}

func (h *GeometryHandler) GetSelection(c fiber.Ctx) error {
	snap := h.store.Snapshot()
	resp := selectionResponse{ID: snap.SelectedID, Selected: snap.SelectedID != ""}
	if obj, ok := snap.Selected(); ok {
		resp.Object = &obj
	}
	return c.JSON(resp)
}

func (h *GeometryHandler) History(c fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid limit"})
		}
		limit = n
	}

	entries, err := h.journal.List(c.Context(), limit)
	if err != nil {
		log.Printf("[GEOMETRY] history error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "history unavailable"})
	}
	return c.JSON(fiber.Map{"entries": entries})
}

// ============================================================
// Creation & removal
// ============================================================

// AddLine creates a line. Position and rotation in the body are optional.
func (h *GeometryHandler) AddLine(c fiber.Ctx) error {
	return h.add(c, models.KindLine)
}

func (h *GeometryHandler) AddPlane(c fiber.Ctx) error {
	return h.add(c, models.KindPlane)
}

func (h *GeometryHandler) add(c fiber.Ctx, kind models.Kind) error {
	var req createRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}

	var id string
	op := repository.OpAddLine
	switch kind {
	case models.KindLine:
		id = h.store.AddLine(req.Position, req.Rotation)
	case models.KindPlane:
		id = h.store.AddPlane(req.Position, req.Rotation)
		op = repository.OpAddPlane
	}

	obj, _ := h.store.Object(id)
	h.record(c, op, id, obj)
	return c.Status(http.StatusCreated).JSON(obj)
}

// RemoveObject answers 204 whether or not the object existed.
func (h *GeometryHandler) RemoveObject(c fiber.Ctx) error {
	id := c.Params("id")
	if h.store.RemoveObject(id) {
		h.record(c, repository.OpRemove, id, nil)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *GeometryHandler) Reset(c fiber.Ctx) error {
	h.store.Reset()
	h.record(c, repository.OpReset, "", nil)
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Mutation
// ============================================================

func (h *GeometryHandler) UpdatePosition(c fiber.Ctx) error {
	var pos models.Vec3
	if err := decodeRequired(c, &pos); err != nil {
		return err
	}
	id := c.Params("id")
	if h.store.UpdateObjectPosition(id, pos) {
		h.recordObject(c, repository.OpPosition, id)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *GeometryHandler) UpdateRotation(c fiber.Ctx) error {
	var rot models.Euler
	if err := decodeRequired(c, &rot); err != nil {
		return err
	}
	id := c.Params("id")
	if h.store.UpdateObjectRotation(id, rot) {
		h.recordObject(c, repository.OpRotation, id)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *GeometryHandler) UpdateEquation(c fiber.Ctx) error {
	id := c.Params("id")
	if h.store.UpdateEquation(id) {
		h.recordObject(c, repository.OpEquation, id)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *GeometryHandler) ToggleVisibility(c fiber.Ctx) error {
	id := c.Params("id")
	if h.store.ToggleVisibility(id) {
		h.recordObject(c, repository.OpVisibility, id)
	}
	return c.SendStatus(http.StatusNoContent)
}

// SelectObject sets the selection; an empty or null id clears it.
func (h *GeometryHandler) SelectObject(c fiber.Ctx) error {
	var req selectionRequest
	if err := decodeRequired(c, &req); err != nil {
		return err
	}

	id := ""
	if req.ID != nil {
		id = *req.ID
	}
	h.store.SelectObject(id)
	h.record(c, repository.OpSelect, id, nil)
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Helpers
// ============================================================

func (h *GeometryHandler) editor(c fiber.Ctx) string {
	auth := c.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return service.AnonymousEditor
	}
	if name, ok := h.sessions.Resolve(strings.TrimPrefix(auth, "Bearer ")); ok {
		return name
	}
	return service.AnonymousEditor
}

func (h *GeometryHandler) recordObject(c fiber.Ctx, op repository.Op, id string) {
	obj, ok := h.store.Object(id)
	if !ok {
		h.record(c, op, id, nil)
		return
	}
	h.record(c, op, id, obj)
}

// record journals an applied operation. A journal failure is logged and
// does not undo the store change.
func (h *GeometryHandler) record(c fiber.Ctx, op repository.Op, id string, payload any) {
	entry := repository.Entry{
		Op:       op,
		ObjectID: id,
		Editor:   h.editor(c),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[GEOMETRY] encode payload error: %v", err)
		} else {
			entry.Payload = string(data)
		}
	}
	if err := h.journal.Record(c.Context(), entry); err != nil {
		log.Printf("[GEOMETRY] journal error: %v", err)
	}
}

func decodeRequired(c fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return fiber.NewError(http.StatusBadRequest, "empty body")
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid json")
	}
	return nil
}
