package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tradesmarket/internal/professionals/service"
	"tradesmarket/internal/professionals/transport"
	"tradesmarket/platform/httpkit"
	"tradesmarket/platform/validator"
)

// Handler handles HTTP requests for professionals.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid professional ID"
	msgInvalidCertID    = "invalid certification ID"
)

// New creates a new professionals handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves professionals, best score first.
// GET /api/v1/professionals
func (h *Handler) List(c *gin.Context) {
	var req transport.ListProfessionalsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID retrieves a professional.
// GET /api/v1/professionals/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetMine retrieves the caller's profile.
// GET /api/v1/me/professional
func (h *Handler) GetMine(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetMine(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Stats retrieves reputation figures and the explained score.
// GET /api/v1/professionals/:id/stats
func (h *Handler) Stats(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}

	result, err := h.svc.Stats(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create registers the caller's profile.
// POST /api/v1/professionals
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateProfessionalRequest
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

// Update changes a profile and rescores it.
// PATCH /api/v1/professionals/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}
	var req transport.UpdateProfessionalRequest
	if !h.bindJSON(c, &req) {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListCertifications lists a professional's certifications.
// GET /api/v1/professionals/:id/certifications
func (h *Handler) ListCertifications(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}

	result, err := h.svc.ListCertifications(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": result})
}

// AddCertification attaches a certification.
// POST /api/v1/professionals/:id/certifications
func (h *Handler) AddCertification(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}
	var req transport.AddCertificationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	result, err := h.svc.AddCertification(c.Request.Context(), id, actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// RemoveCertification deletes a certification.
// DELETE /api/v1/professionals/:id/certifications/:certId
func (h *Handler) RemoveCertification(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}
	certID, ok := parseID(c, "certId", msgInvalidCertID)
	if !ok {
		return
	}
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.RemoveCertification(c.Request.Context(), id, certID, actor)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Verify records admin-assessed sub-scores.
// PUT /api/v1/admin/professionals/:id/verification
func (h *Handler) Verify(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}
	var req transport.VerifyProfessionalRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.svc.Verify(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Rescore enqueues a rescore for one professional or all of them.
// POST /api/v1/admin/professionals/rescore
func (h *Handler) Rescore(c *gin.Context) {
	var req transport.RescoreRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	taskID, err := h.svc.RequestRescore(c.Request.Context(), req.ProfessionalID)
	if httpkit.HandleError(c, err) {
		return
	}
	if taskID == "" {
		httpkit.OK(c, gin.H{"status": "completed"})
		return
	}
	httpkit.JSON(c, http.StatusAccepted, transport.RescoreAcceptedResponse{TaskID: taskID})
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

func parseID(c *gin.Context, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, message, nil)
		return uuid.Nil, false
	}
	return id, true
}

func actorFrom(c *gin.Context) (service.Actor, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return service.Actor{}, false
	}
	return service.Actor{UserID: identity.UserID(), IsAdmin: identity.IsAdmin()}, true
}
