package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"profile-service/internal/domain"
	"profile-service/internal/service"
)

const greeting = "Kia ora te ao!"

// Handler wires HTTP routes to the profile service.
type Handler struct {
	profiles service.ProfileService
	logger   *logrus.Logger
}

func NewHandler(profiles service.ProfileService, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		profiles: profiles,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestIDMiddleware(), accessLogMiddleware(h.logger))

	v1 := router.Group("/v1")
	{
		v1.GET("/", h.index)
		v1.GET("/profile/:id", h.getProfile)
		v1.PUT("/profile/:id", h.editProfile)
		v1.POST("/profile", h.createProfile)
	}
}

// ValidationIssue is one entry of a 422 response body.
type ValidationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func (h *Handler) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": greeting})
}

func (h *Handler) getProfile(c *gin.Context) {
	id, ok := h.profileID(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) editProfile(c *gin.Context) {
	id, ok := h.profileID(c)
	if !ok {
		return
	}

	req, ok := h.bindEditRequest(c)
	if !ok {
		return
	}

	profile, err := h.profiles.EditByID(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// createProfile answers 200 rather than 201 to match the existing API contract.
func (h *Handler) createProfile(c *gin.Context) {
	req, ok := h.bindEditRequest(c)
	if !ok {
		return
	}

	profile, err := h.profiles.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) profileID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []ValidationIssue{{
			Loc:  []string{"path", "profile_id"},
			Msg:  "Input should be a valid integer",
			Type: "int_parsing",
		}}})
		return 0, false
	}
	return id, true
}

func (h *Handler) bindEditRequest(c *gin.Context) (domain.EditRequest, bool) {
	var req domain.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []ValidationIssue{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "json_invalid",
		}}})
		return req, false
	}
	if err := req.Validate(); err != nil {
		h.writeError(c, err)
		return req, false
	}
	return req, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Profile not found"})

	case errors.As(err, &verr):
		issues := make([]ValidationIssue, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			issues = append(issues, ValidationIssue{
				Loc:  []string{"body", f.Field},
				Msg:  f.Message,
				Type: f.Tag,
			})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": issues})

	default:
		entry := h.logger.WithError(err).WithField("request_id", c.GetString(requestIDKey))
		if domain.IsStorageError(err) {
			entry.Error("profile storage failure")
		} else {
			entry.Error("unexpected handler error")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
	}
}
