package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arsw/blueprints/internal/api/middleware"
	"github.com/arsw/blueprints/internal/api/response"
	"github.com/arsw/blueprints/internal/api/validation"
	"github.com/arsw/blueprints/internal/blueprint"
)

const maxBodyBytes = 1 << 20

// BlueprintService is the subset of the service layer the handler needs.
type BlueprintService interface {
	CreateBlueprint(ctx context.Context, author, name string, points []blueprint.Point) (*blueprint.Blueprint, error)
	FetchBlueprint(ctx context.Context, author, name string) (*blueprint.Blueprint, error)
	FetchByAuthor(ctx context.Context, author string) ([]blueprint.Blueprint, error)
	FetchAll(ctx context.Context) ([]blueprint.Blueprint, error)
	AppendPoint(ctx context.Context, author, name string, p blueprint.Point) error
}

// BlueprintHandler handles the /api/v1/blueprints endpoints.
type BlueprintHandler struct {
	svc BlueprintService
}

// NewBlueprintHandler creates a new BlueprintHandler.
func NewBlueprintHandler(svc BlueprintService) *BlueprintHandler {
	return &BlueprintHandler{svc: svc}
}

// Create handles POST /api/v1/blueprints.
func (h *BlueprintHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req validation.CreateBlueprintRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if fieldErrors := validation.ValidateCreateBlueprintRequest(req); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "input validation failed", fieldErrors)
		return
	}

	points := make([]blueprint.Point, len(req.Points))
	for i, p := range req.Points {
		points[i] = blueprint.Point{X: *p.X, Y: *p.Y}
	}

	bp, err := h.svc.CreateBlueprint(r.Context(), *req.Author, *req.Name, points)
	if err != nil {
		writeError(w, r, err, "failed to create blueprint")
		return
	}

	response.Message(w, http.StatusCreated, fmt.Sprintf("blueprint %s created", bp.Key()))
}

// List handles GET /api/v1/blueprints.
func (h *BlueprintHandler) List(w http.ResponseWriter, r *http.Request) {
	bps, err := h.svc.FetchAll(r.Context())
	if err != nil {
		writeError(w, r, err, "failed to list blueprints")
		return
	}
	response.Success(w, bps)
}

// ListByAuthor handles GET /api/v1/blueprints/{author}.
func (h *BlueprintHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	author := chi.URLParam(r, "author")

	bps, err := h.svc.FetchByAuthor(r.Context(), author)
	if err != nil {
		writeError(w, r, err, "failed to list blueprints by author")
		return
	}
	response.Success(w, bps)
}

// Get handles GET /api/v1/blueprints/{author}/{name}.
func (h *BlueprintHandler) Get(w http.ResponseWriter, r *http.Request) {
	author := chi.URLParam(r, "author")
	name := chi.URLParam(r, "name")

	bp, err := h.svc.FetchBlueprint(r.Context(), author, name)
	if err != nil {
		writeError(w, r, err, "failed to get blueprint")
		return
	}
	response.Success(w, bp)
}

// AppendPoint handles PUT /api/v1/blueprints/{author}/{name}/points.
func (h *BlueprintHandler) AppendPoint(w http.ResponseWriter, r *http.Request) {
	author := chi.URLParam(r, "author")
	name := chi.URLParam(r, "name")

	var req validation.PointInput
	if !decodeBody(w, r, &req) {
		return
	}

	if fieldErrors := validation.ValidatePoint(req); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "input validation failed", fieldErrors)
		return
	}

	if err := h.svc.AppendPoint(r.Context(), author, name, blueprint.Point{X: *req.X, Y: *req.Y}); err != nil {
		writeError(w, r, err, "failed to append point")
		return
	}

	response.Message(w, http.StatusAccepted, fmt.Sprintf("point added to %s/%s", author, name))
}

// decodeBody reads a JSON body into dst, writing a 400 response on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		response.Err(w, http.StatusBadRequest, "request body must be valid JSON: "+err.Error())
		return false
	}
	return true
}

// writeError maps a domain error kind to its HTTP status.
func writeError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	switch {
	case errors.Is(err, blueprint.ErrInvalidInput):
		response.Err(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, blueprint.ErrNotFound):
		response.Err(w, http.StatusNotFound, err.Error())
	case errors.Is(err, blueprint.ErrAlreadyExists):
		response.Err(w, http.StatusConflict, err.Error())
	case errors.Is(err, blueprint.ErrDataCorruption):
		middleware.Logger(r.Context()).Error(logMsg, "error", err, "kind", "data_corruption")
		response.Err(w, http.StatusInternalServerError, "stored blueprint data is corrupt")
	default:
		middleware.Logger(r.Context()).Error(logMsg, "error", err)
		response.Err(w, http.StatusInternalServerError, "internal storage error")
	}
}
