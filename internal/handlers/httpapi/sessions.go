package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pointdeck/pointdeck/internal/models"
	archiveService "github.com/pointdeck/pointdeck/internal/services/archive"
	presenceService "github.com/pointdeck/pointdeck/internal/services/presence"
	sessionService "github.com/pointdeck/pointdeck/internal/services/session"
)

type createSessionRequest struct {
	Name     string `json:"name" binding:"required"`
	UserName string `json:"userName"`
}

func (h *Handler) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := callerIdentity(c)

	out, err := h.sessions.CreateSession(c.Request.Context(), &sessionService.CreateSessionInput{
		Name:     req.Name,
		UserID:   identity.UserID,
		UserName: req.UserName,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newSessionView(out.Session))
}

func (h *Handler) listMySessions(c *gin.Context) {
	identity := callerIdentity(c)

	out, err := h.sessions.GetSessionsByAdmin(c.Request.Context(), &sessionService.GetSessionsByAdminInput{
		UserID: identity.UserID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionViews(out.Sessions))
}

func (h *Handler) getSession(c *gin.Context) {
	sess, err := h.sessions.GetSession(c.Request.Context(), &sessionService.GetSessionInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionView(sess))
}

type joinSessionRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) joinSession(c *gin.Context) {
	var req joinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := callerIdentity(c)

	out, err := h.sessions.JoinSession(c.Request.Context(), &sessionService.JoinSessionInput{
		SessionID: c.Param("id"),
		UserID:    identity.UserID,
		Name:      req.Name,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	status := http.StatusCreated
	if out.Rejoined {
		status = http.StatusOK
	}

	c.JSON(status, newMemberView(out.Member))
}

func (h *Handler) leaveSession(c *gin.Context) {
	identity := callerIdentity(c)

	_, err := h.sessions.LeaveSession(c.Request.Context(), &sessionService.LeaveSessionInput{
		SessionID: c.Param("id"),
		UserID:    identity.UserID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type kickMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *Handler) kickMember(c *gin.Context) {
	var req kickMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := callerIdentity(c)

	_, err := h.sessions.KickMember(c.Request.Context(), &sessionService.KickMemberInput{
		SessionID: c.Param("id"),
		ActorID:   identity.UserID,
		TargetID:  req.UserID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) getMembers(c *gin.Context) {
	out, err := h.sessions.GetSessionMembers(c.Request.Context(), &sessionService.GetSessionMembersInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newMemberViews(out.Members))
}

func (h *Handler) getSessionSettings(c *gin.Context) {
	settings, err := h.sessions.GetSessionSettings(c.Request.Context(), &sessionService.GetSessionSettingsInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSettingsView(settings))
}

type updateSettingsRequest struct {
	TimedVoting     *bool   `json:"timedVoting"`
	VotingTimeLimit *int    `json:"votingTimeLimit"`
	ScoringType     *string `json:"scoringType"`
	ShowKickButtons *bool   `json:"showKickButtons"`
}

func (r *updateSettingsRequest) scoringType() *models.ScoringType {
	if r.ScoringType == nil {
		return nil
	}
	st := models.ScoringType(*r.ScoringType)
	return &st
}

func (h *Handler) updateSessionSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := callerIdentity(c)

	settings, err := h.sessions.UpdateSessionSettings(c.Request.Context(), &sessionService.UpdateSessionSettingsInput{
		SessionID:       c.Param("id"),
		UserID:          identity.UserID,
		TimedVoting:     req.TimedVoting,
		VotingTimeLimit: req.VotingTimeLimit,
		ScoringType:     req.scoringType(),
		ShowKickButtons: req.ShowKickButtons,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSettingsView(settings))
}

func (h *Handler) heartbeat(c *gin.Context) {
	identity := callerIdentity(c)

	if err := h.presence.Heartbeat(c.Request.Context(), &presenceService.HeartbeatInput{
		SessionID: c.Param("id"),
		UserID:    identity.UserID,
	}); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) getActiveUsers(c *gin.Context) {
	out, err := h.presence.GetActiveUsers(c.Request.Context(), &presenceService.GetActiveUsersInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"userIds": out.UserIDs})
}

func (h *Handler) archiveSession(c *gin.Context) {
	identity := callerIdentity(c)

	out, err := h.archives.ArchiveSession(c.Request.Context(), &archiveService.ArchiveSessionInput{
		SessionID: c.Param("id"),
		ActorID:   identity.UserID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newArchiveView(out.Archive))
}

func (h *Handler) getUserSettings(c *gin.Context) {
	identity := callerIdentity(c)

	settings, err := h.sessions.GetUserSettings(c.Request.Context(), &sessionService.GetUserSettingsInput{
		UserID: identity.UserID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserSettingsView(settings))
}

func (h *Handler) updateUserSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := callerIdentity(c)

	settings, err := h.sessions.UpdateUserSettings(c.Request.Context(), &sessionService.UpdateUserSettingsInput{
		UserID:          identity.UserID,
		TimedVoting:     req.TimedVoting,
		VotingTimeLimit: req.VotingTimeLimit,
		ScoringType:     req.scoringType(),
		ShowKickButtons: req.ShowKickButtons,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserSettingsView(settings))
}

func (h *Handler) getArchivedSessions(c *gin.Context) {
	identity := callerIdentity(c)

	out, err := h.archives.GetArchivedSessions(c.Request.Context(), &archiveService.GetArchivedSessionsInput{
		UserID: identity.UserID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	views := make([]archivedSessionView, 0, len(out.Sessions))
	for _, s := range out.Sessions {
		views = append(views, newArchivedSessionView(s))
	}

	c.JSON(http.StatusOK, views)
}

func (h *Handler) getArchivedSession(c *gin.Context) {
	archive, err := h.archives.GetArchivedSession(c.Request.Context(), &archiveService.GetArchivedSessionInput{
		SessionID: c.Param("id"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newArchiveView(archive))
}

func (h *Handler) listBoardIssues(c *gin.Context) {
	if h.boardClient == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "board integration is not configured"})
		return
	}

	issues, err := h.boardClient.ListIssues(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issues)
}
