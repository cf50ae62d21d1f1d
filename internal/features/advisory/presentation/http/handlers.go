package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"krishi-sahayak/backend/internal/features/advisory/application"
	"krishi-sahayak/backend/internal/features/advisory/domain"
	"krishi-sahayak/backend/internal/logger"
)

// AdvisoryHandler holds the router service.
type AdvisoryHandler struct {
	routerService application.RouterService
	log           *logger.Logger
}

// NewAdvisoryHandler creates a new AdvisoryHandler.
func NewAdvisoryHandler(routerService application.RouterService, log *logger.Logger) *AdvisoryHandler {
	return &AdvisoryHandler{
		routerService: routerService,
		log:           log,
	}
}

// VoiceAssistantHandler handles POST /api/voice-assistant.
func (h *AdvisoryHandler) VoiceAssistantHandler(c *gin.Context) {
	var req domain.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.routerService.Handle(c.Request.Context(), req.Query)
	if errors.Is(err, domain.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "Query is required"})
		return
	}
	if err != nil {
		h.log.Error("Voice assistant error", logrus.Fields{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
