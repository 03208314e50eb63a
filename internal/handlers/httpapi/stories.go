package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	storyService "github.com/pointdeck/pointdeck/internal/services/story"
)

type addStoryRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ExternalKey string `json:"externalKey"`
}

func (h *Handler) addStory(c *gin.Context) {
	var req addStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := callerIdentity(c)

	out, err := h.stories.AddStory(c.Request.Context(), &storyService.AddStoryInput{
		SessionID:   c.Param("id"),
		UserID:      identity.UserID,
		Title:       req.Title,
		Description: req.Description,
		ExternalKey: req.ExternalKey,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newStoryView(out.Story))
}

func (h *Handler) getSessionStories(c *gin.Context) {
	out, err := h.stories.GetSessionStories(c.Request.Context(), &storyService.GetSessionStoriesInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newStoryViews(out.Stories))
}

func (h *Handler) getActiveStory(c *gin.Context) {
	out, err := h.stories.GetActiveStory(c.Request.Context(), &storyService.GetActiveStoryInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	if out.Story == nil {
		c.JSON(http.StatusOK, gin.H{"story": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"story": newStoryView(out.Story)})
}

func (h *Handler) getStory(c *gin.Context) {
	st, err := h.stories.GetStory(c.Request.Context(), &storyService.GetStoryInput{
		StoryID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newStoryView(st))
}

func (h *Handler) startVoting(c *gin.Context) {
	identity := callerIdentity(c)

	out, err := h.stories.StartVoting(c.Request.Context(), &storyService.StartVotingInput{
		StoryID: c.Param("id"),
		UserID:  identity.UserID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newStoryView(out.Story))
}

func (h *Handler) stopVoting(c *gin.Context) {
	identity := callerIdentity(c)

	out, err := h.stories.StopVoting(c.Request.Context(), &storyService.StopVotingInput{
		StoryID: c.Param("id"),
		UserID:  identity.UserID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newStoryView(out.Story))
}

type completeStoryRequest struct {
	Points *int `json:"points"`
}

func (h *Handler) completeStory(c *gin.Context) {
	// the body is optional; without explicit points the consensus decides
	var req completeStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	identity := callerIdentity(c)

	out, err := h.stories.CompleteStory(c.Request.Context(), &storyService.CompleteStoryInput{
		StoryID: c.Param("id"),
		UserID:  identity.UserID,
		Points:  req.Points,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newStoryView(out.Story))
}

type castVoteRequest struct {
	Value string `json:"value" binding:"required"`
	Name  string `json:"name"`
}

func (h *Handler) castVote(c *gin.Context) {
	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := callerIdentity(c)

	out, err := h.stories.CastVote(c.Request.Context(), &storyService.CastVoteInput{
		StoryID: c.Param("id"),
		UserID:  identity.UserID,
		Name:    req.Name,
		Value:   req.Value,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newVoteView(out.Vote))
}

func (h *Handler) getStoryVotes(c *gin.Context) {
	out, err := h.stories.GetStoryVotes(c.Request.Context(), &storyService.GetStoryVotesInput{
		StoryID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newVoteSummaryView(out.Votes, out.Summary, out.Unanimous))
}

func (h *Handler) getMyVote(c *gin.Context) {
	identity := callerIdentity(c)

	out, err := h.stories.GetUserVote(c.Request.Context(), &storyService.GetUserVoteInput{
		StoryID: c.Param("id"),
		UserID:  identity.UserID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	if out.Vote == nil {
		c.JSON(http.StatusOK, gin.H{"vote": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vote": newVoteView(out.Vote)})
}

func (h *Handler) resetVotes(c *gin.Context) {
	identity := callerIdentity(c)

	_, err := h.stories.ResetVotes(c.Request.Context(), &storyService.ResetVotesInput{
		StoryID: c.Param("id"),
		UserID:  identity.UserID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) getTimer(c *gin.Context) {
	state, err := h.stories.GetTimer(c.Request.Context(), &storyService.GetTimerInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, timerView{
		Running:   state.Running,
		StoryID:   state.StoryID,
		TimeLimit: state.TimeLimit,
		Remaining: state.Remaining,
	})
}

func (h *Handler) checkTimer(c *gin.Context) {
	out, err := h.stories.CheckTimer(c.Request.Context(), &storyService.CheckTimerInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expired": out.Expired})
}
