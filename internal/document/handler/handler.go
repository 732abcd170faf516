// Package handler exposes the document API over HTTP. Reads are public;
// create and update sit behind per-endpoint rate limits, and update behind
// the edit-key gate in the service layer.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mdpad/mdpad/internal/document"
	"github.com/mdpad/mdpad/internal/document/service"
	"github.com/mdpad/mdpad/internal/identifier"
	"github.com/mdpad/mdpad/internal/ratelimit"
	"github.com/mdpad/mdpad/pkg/metrics"
	"github.com/mdpad/mdpad/pkg/middleware"
)

// Limits carries the per-endpoint admission budgets.
type Limits struct {
	CreatePerWindow int
	CreateWindow    time.Duration
	UpdatePerWindow int
	UpdateWindow    time.Duration
}

// DefaultLimits matches the service's operational policy: 10 creations per
// hour per client, 60 updates per minute per client and document.
func DefaultLimits() Limits {
	return Limits{
		CreatePerWindow: 10,
		CreateWindow:    time.Hour,
		UpdatePerWindow: 60,
		UpdateWindow:    time.Minute,
	}
}

type Handler struct {
	svc    *service.Service
	lim    ratelimit.Limiter
	limits Limits
}

func New(svc *service.Service, lim ratelimit.Limiter, limits Limits) *Handler {
	return &Handler{svc: svc, lim: lim, limits: limits}
}

// Register wires the document routes. The update budget is limited before
// any payload parsing or document I/O happens.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/api/documents",
		middleware.RateLimit(h.lim, h.limits.CreatePerWindow, h.limits.CreateWindow, middleware.ByClient),
		h.create)
	r.GET("/api/documents/:ref", h.get)
	r.PUT("/api/documents/:ref",
		middleware.RateLimit(h.lim, h.limits.UpdatePerWindow, h.limits.UpdateWindow, middleware.ByClientAndParam("ref")),
		h.update)
	r.POST("/api/documents/:ref/validate", h.validateKey)
}

// parseRef treats the path segment as a slug when it has slug shape and as
// a document id otherwise. IDs are UUIDs and can never have slug shape, so
// the two keyspaces cannot collide.
func parseRef(c *gin.Context) document.Ref {
	v := c.Param("ref")
	if identifier.ValidSlug(v) {
		return document.RefBySlug(v)
	}
	return document.RefByID(v)
}

type createRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type updateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	EditKey string  `json:"edit_key"`
}

type validateRequest struct {
	EditKey string `json:"edit_key"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	d, err := h.svc.Create(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.DocumentsCreated.Inc()
	// the one and only response that carries the edit key
	c.JSON(http.StatusCreated, gin.H{
		"id":       d.ID,
		"slug":     d.Slug,
		"edit_key": d.EditKey,
	})
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), parseRef(c))
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.DocumentsViewed.Inc()
	c.JSON(http.StatusOK, d)
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	d, err := h.svc.Update(c.Request.Context(), parseRef(c), req.EditKey, req.Title, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.DocumentsUpdated.Inc()
	c.JSON(http.StatusOK, gin.H{
		"id":         d.ID,
		"slug":       d.Slug,
		"title":      d.Title,
		"content":    d.Content,
		"updated_at": d.UpdatedAt,
	})
}

// validateKey always answers 200 with only a boolean: not-found, malformed
// and mismatch are indistinguishable to the caller.
func (h *Handler) validateKey(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}
	valid := h.svc.ValidateKey(c.Request.Context(), parseRef(c), req.EditKey)
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

// writeError maps the service taxonomy onto HTTP statuses. Storage errors
// are already logged by the service and surface as an opaque 500.
func writeError(c *gin.Context, err error) {
	if ve, ok := service.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
		return
	}
	switch {
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid edit key"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
