package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	archiveService "github.com/pointdeck/pointdeck/internal/services/archive"
	sessionService "github.com/pointdeck/pointdeck/internal/services/session"
	storyService "github.com/pointdeck/pointdeck/internal/services/story"
)

// respondError translates service sentinels into HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, sessionService.ErrSessionNotFound),
		errors.Is(err, sessionService.ErrMemberNotFound),
		errors.Is(err, storyService.ErrSessionNotFound),
		errors.Is(err, storyService.ErrStoryNotFound),
		errors.Is(err, archiveService.ErrSessionNotFound),
		errors.Is(err, archiveService.ErrArchiveNotFound):
		status = http.StatusNotFound

	case errors.Is(err, sessionService.ErrNotAdmin),
		errors.Is(err, sessionService.ErrAdminCannotLeave),
		errors.Is(err, sessionService.ErrCannotKickAdmin),
		errors.Is(err, storyService.ErrNotAdmin),
		errors.Is(err, storyService.ErrNotMember),
		errors.Is(err, archiveService.ErrNotAdmin):
		status = http.StatusForbidden

	case errors.Is(err, storyService.ErrActiveStoryExists),
		errors.Is(err, storyService.ErrInvalidTransition),
		errors.Is(err, storyService.ErrStoryCompleted):
		status = http.StatusConflict

	case errors.Is(err, sessionService.ErrInvalidScoringType),
		errors.Is(err, storyService.ErrTitleRequired):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
