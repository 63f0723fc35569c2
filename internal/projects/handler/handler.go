package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tradesmarket/internal/projects/service"
	"tradesmarket/internal/projects/transport"
	"tradesmarket/platform/httpkit"
	"tradesmarket/platform/validator"
)

// Handler handles HTTP requests for projects.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidProjectID = "invalid project ID"
)

// New creates a new projects handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves projects, optionally scored for one professional.
// GET /api/v1/projects
func (h *Handler) List(c *gin.Context) {
	var req transport.ListProjectsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID retrieves a project with its analysis.
// GET /api/v1/projects/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Matches ranks professionals for a project.
// GET /api/v1/projects/:id/matches
func (h *Handler) Matches(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}
	var req transport.MatchesRequest
	if !h.bindQuery(c, &req) {
		return
	}

	result, err := h.svc.Matches(c.Request.Context(), id, req.Limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create posts a project and returns it with its analysis.
// POST /api/v1/projects
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Update changes a project.
// PATCH /api/v1/projects/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}
	var req transport.UpdateProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	actor := service.Actor{UserID: identity.UserID(), IsAdmin: identity.IsAdmin()}
	result, err := h.svc.Update(c.Request.Context(), id, actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Reanalyze recomputes a project's analysis.
// POST /api/v1/projects/:id/analysis
func (h *Handler) Reanalyze(c *gin.Context) {
	id, ok := parseProjectID(c)
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	actor := service.Actor{UserID: identity.UserID(), IsAdmin: identity.IsAdmin()}
	result, err := h.svc.Reanalyze(c.Request.Context(), id, actor)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

func (h *Handler) bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}

func parseProjectID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidProjectID, nil)
		return uuid.Nil, false
	}
	return id, true
}
