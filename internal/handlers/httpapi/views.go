package httpapi

import (
	"time"

	"github.com/pointdeck/pointdeck/internal/consensus"
	"github.com/pointdeck/pointdeck/internal/models"
)

type sessionView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func newSessionView(s *models.Session) sessionView {
	return sessionView{
		ID:        s.ID,
		Name:      s.Name,
		CreatedBy: s.CreatedBy,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
	}
}

func newSessionViews(sessions []*models.Session) []sessionView {
	views := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, newSessionView(s))
	}
	return views
}

type memberView struct {
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	IsAdmin  bool      `json:"isAdmin"`
	JoinedAt time.Time `json:"joinedAt"`
}

func newMemberView(m *models.Member) memberView {
	return memberView{
		UserID:   m.UserID,
		Name:     m.Name,
		IsAdmin:  m.IsAdmin,
		JoinedAt: m.JoinedAt,
	}
}

func newMemberViews(members []*models.Member) []memberView {
	views := make([]memberView, 0, len(members))
	for _, m := range members {
		views = append(views, newMemberView(m))
	}
	return views
}

type storyView struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"sessionId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	ExternalKey string     `json:"externalKey,omitempty"`
	Status      string     `json:"status"`
	Points      *int       `json:"points"`
	VotingStart *time.Time `json:"votingStartedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func newStoryView(st *models.Story) storyView {
	view := storyView{
		ID:          st.ID,
		SessionID:   st.SessionID,
		Title:       st.Title,
		Description: st.Description,
		ExternalKey: st.ExternalKey,
		Status:      string(st.Status),
		VotingStart: st.VotingStartedAt,
		CreatedAt:   st.CreatedAt,
	}
	if st.Points != models.PointsUnset {
		points := st.Points
		view.Points = &points
	}
	return view
}

func newStoryViews(stories []*models.Story) []storyView {
	views := make([]storyView, 0, len(stories))
	for _, st := range stories {
		views = append(views, newStoryView(st))
	}
	return views
}

type voteView struct {
	StoryID string    `json:"storyId"`
	UserID  string    `json:"userId"`
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	VotedAt time.Time `json:"votedAt"`
}

func newVoteView(v *models.Vote) voteView {
	return voteView{
		StoryID: v.StoryID,
		UserID:  v.UserID,
		Name:    v.Name,
		Value:   v.Value,
		VotedAt: v.VotedAt,
	}
}

type voteSummaryView struct {
	Votes        []voteView     `json:"votes"`
	Distribution map[string]int `json:"distribution"`
	TotalVotes   int            `json:"totalVotes"`
	NumericVotes int            `json:"numericVotes"`
	Verdict      *int           `json:"verdict"`
	Unanimous    bool           `json:"unanimous"`
}

func newVoteSummaryView(votes []*models.Vote, summary consensus.Summary, unanimous bool) voteSummaryView {
	views := make([]voteView, 0, len(votes))
	for _, v := range votes {
		views = append(views, newVoteView(v))
	}
	return voteSummaryView{
		Votes:        views,
		Distribution: summary.Distribution,
		TotalVotes:   summary.TotalVotes,
		NumericVotes: summary.NumericVotes,
		Verdict:      summary.Verdict,
		Unanimous:    unanimous,
	}
}

type settingsView struct {
	SessionID       string    `json:"sessionId"`
	TimedVoting     bool      `json:"timedVoting"`
	VotingTimeLimit int       `json:"votingTimeLimit"`
	ScoringType     string    `json:"scoringType"`
	PointScale      []int     `json:"pointScale"`
	ShowKickButtons bool      `json:"showKickButtons"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newSettingsView(s *models.SessionSettings) settingsView {
	return settingsView{
		SessionID:       s.SessionID,
		TimedVoting:     s.TimedVoting,
		VotingTimeLimit: s.VotingTimeLimit,
		ScoringType:     string(s.ScoringType),
		PointScale:      s.ScoringType.PointScale(),
		ShowKickButtons: s.ShowKickButtons,
		UpdatedAt:       s.UpdatedAt,
	}
}

type userSettingsView struct {
	UserID          string    `json:"userId"`
	TimedVoting     bool      `json:"timedVoting"`
	VotingTimeLimit int       `json:"votingTimeLimit"`
	ScoringType     string    `json:"scoringType"`
	ShowKickButtons bool      `json:"showKickButtons"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newUserSettingsView(s *models.UserSettings) userSettingsView {
	return userSettingsView{
		UserID:          s.UserID,
		TimedVoting:     s.TimedVoting,
		VotingTimeLimit: s.VotingTimeLimit,
		ScoringType:     string(s.ScoringType),
		ShowKickButtons: s.ShowKickButtons,
		UpdatedAt:       s.UpdatedAt,
	}
}

type timerView struct {
	Running   bool   `json:"running"`
	StoryID   string `json:"storyId,omitempty"`
	TimeLimit int    `json:"timeLimit"`
	Remaining int    `json:"remaining"`
}

type archivedSessionView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	EndedAt   time.Time `json:"endedAt"`
}

func newArchivedSessionView(s *models.ArchivedSession) archivedSessionView {
	return archivedSessionView{
		ID:        s.ID,
		Name:      s.Name,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
		EndedAt:   s.EndedAt,
	}
}

type archivedStoryView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ExternalKey string    `json:"externalKey,omitempty"`
	Status      string    `json:"status"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"createdAt"`
}

type archivedVoteView struct {
	StoryID string    `json:"storyId"`
	UserID  string    `json:"userId"`
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	VotedAt time.Time `json:"votedAt"`
}

type archiveView struct {
	Session archivedSessionView `json:"session"`
	Members []memberView        `json:"members"`
	Stories []archivedStoryView `json:"stories"`
	Votes   []archivedVoteView  `json:"votes"`
}

func newArchiveView(a *models.SessionArchive) archiveView {
	view := archiveView{
		Session: newArchivedSessionView(a.Session),
		Members: make([]memberView, 0, len(a.Members)),
		Stories: make([]archivedStoryView, 0, len(a.Stories)),
		Votes:   make([]archivedVoteView, 0, len(a.Votes)),
	}

	for _, m := range a.Members {
		view.Members = append(view.Members, memberView{
			UserID:   m.UserID,
			Name:     m.Name,
			IsAdmin:  m.IsAdmin,
			JoinedAt: m.JoinedAt,
		})
	}

	for _, st := range a.Stories {
		view.Stories = append(view.Stories, archivedStoryView{
			ID:          st.ID,
			Title:       st.Title,
			Description: st.Description,
			ExternalKey: st.ExternalKey,
			Status:      string(st.Status),
			Points:      st.Points,
			CreatedAt:   st.CreatedAt,
		})
	}

	for _, v := range a.Votes {
		view.Votes = append(view.Votes, archivedVoteView{
			StoryID: v.StoryID,
			UserID:  v.UserID,
			Name:    v.Name,
			Value:   v.Value,
			VotedAt: v.VotedAt,
		})
	}

	return view
}
