package story

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	boardMocks "github.com/pointdeck/pointdeck/internal/board/mocks"
	"github.com/pointdeck/pointdeck/internal/events"
	"github.com/pointdeck/pointdeck/internal/models"
	memberRepo "github.com/pointdeck/pointdeck/internal/repositories/member"
	sessionRepo "github.com/pointdeck/pointdeck/internal/repositories/session"
	storyRepo "github.com/pointdeck/pointdeck/internal/repositories/story"
	voteRepo "github.com/pointdeck/pointdeck/internal/repositories/vote"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type stubSettings struct {
	settings *models.SessionSettings
}

func (p *stubSettings) GetEffectiveSettings(_ context.Context, sessionID string) (*models.SessionSettings, error) {
	if p.settings != nil {
		return p.settings, nil
	}
	return models.DefaultSessionSettings(sessionID), nil
}

type ServiceTestSuite struct {
	suite.Suite
	mr        *miniredis.Miniredis
	client    *redis.Client
	ctrl      *gomock.Controller
	boardMock *boardMocks.MockClient
	sessions  sessionRepo.Repository
	members   memberRepo.Repository
	stories   storyRepo.Repository
	votes     voteRepo.Repository
	settings  *stubSettings
	clock     *fakeClock
	svc       Service
	ctx       context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	s.sessions, err = sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.members, err = memberRepo.NewRedis(&memberRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.stories, err = storyRepo.NewRedis(&storyRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.votes, err = voteRepo.NewRedis(&voteRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	s.ctrl = gomock.NewController(s.T())
	s.boardMock = boardMocks.NewMockClient(s.ctrl)

	s.settings = &stubSettings{}
	s.clock = &fakeClock{now: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)}

	svc, err := New(&Config{
		StoryRepository:   s.stories,
		VoteRepository:    s.votes,
		SessionRepository: s.sessions,
		MemberRepository:  s.members,
		SettingsProvider:  s.settings,
		BoardClient:       s.boardMock,
		Hub:               events.NewHub(nil),
		Clock:             s.clock,
	})
	s.Require().NoError(err)
	s.svc = svc

	s.ctx = context.Background()

	s.seedSession()
}

func (s *ServiceTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

const (
	testSessionID = "test-session-id"
	adminID       = "admin-user"
)

func (s *ServiceTestSuite) seedSession() {
	err := s.sessions.SaveSession(s.ctx, &sessionRepo.SaveSessionInput{
		Session: &models.Session{
			ID:        testSessionID,
			Name:      "Sprint 42 Planning",
			CreatedBy: adminID,
			IsActive:  true,
			CreatedAt: s.clock.now,
		},
	})
	s.Require().NoError(err)

	for _, m := range []*models.Member{
		{SessionID: testSessionID, UserID: adminID, Name: "Alice", IsAdmin: true, JoinedAt: s.clock.now},
		{SessionID: testSessionID, UserID: "voter-1", Name: "Bob", JoinedAt: s.clock.now},
		{SessionID: testSessionID, UserID: "voter-2", Name: "Carol", JoinedAt: s.clock.now},
	} {
		err := s.members.SaveMember(s.ctx, &memberRepo.SaveMemberInput{Member: m})
		s.Require().NoError(err)
	}
}

func (s *ServiceTestSuite) addStory(title string) *models.Story {
	out, err := s.svc.AddStory(s.ctx, &AddStoryInput{
		SessionID: testSessionID,
		UserID:    adminID,
		Title:     title,
	})
	s.Require().NoError(err)
	return out.Story
}

func (s *ServiceTestSuite) startVoting(storyID string) {
	_, err := s.svc.StartVoting(s.ctx, &StartVotingInput{StoryID: storyID, UserID: adminID})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) castVote(storyID, userID, value string) {
	_, err := s.svc.CastVote(s.ctx, &CastVoteInput{
		StoryID: storyID,
		UserID:  userID,
		Value:   value,
	})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestAddStoryRequiresAdmin() {
	_, err := s.svc.AddStory(s.ctx, &AddStoryInput{
		SessionID: testSessionID,
		UserID:    "voter-1",
		Title:     "Checkout flow",
	})
	s.Require().ErrorIs(err, ErrNotAdmin)

	_, err = s.svc.AddStory(s.ctx, &AddStoryInput{
		SessionID: testSessionID,
		UserID:    adminID,
	})
	s.Require().ErrorIs(err, ErrTitleRequired)
}

func (s *ServiceTestSuite) TestAddStoryStartsNew() {
	st := s.addStory("Checkout flow")

	s.Equal(models.StoryStatusNew, st.Status)
	s.Equal(models.PointsUnset, st.Points)
	s.Nil(st.VotingStartedAt)
}

func (s *ServiceTestSuite) TestStartVotingClaimsSlot() {
	first := s.addStory("Checkout flow")
	second := s.addStory("Search ranking")

	out, err := s.svc.StartVoting(s.ctx, &StartVotingInput{StoryID: first.ID, UserID: adminID})
	s.Require().NoError(err)
	s.Equal(models.StoryStatusVoting, out.Story.Status)
	s.Require().NotNil(out.Story.VotingStartedAt)
	s.True(out.Story.VotingStartedAt.Equal(s.clock.now))

	_, err = s.svc.StartVoting(s.ctx, &StartVotingInput{StoryID: second.ID, UserID: adminID})
	s.Require().ErrorIs(err, ErrActiveStoryExists)

	// the holder can call start again without harm
	_, err = s.svc.StartVoting(s.ctx, &StartVotingInput{StoryID: first.ID, UserID: adminID})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestStartVotingRequiresAdmin() {
	st := s.addStory("Checkout flow")

	_, err := s.svc.StartVoting(s.ctx, &StartVotingInput{StoryID: st.ID, UserID: "voter-1"})
	s.Require().ErrorIs(err, ErrNotAdmin)
}

func (s *ServiceTestSuite) TestCastVoteReplacesPrevious() {
	st := s.addStory("Checkout flow")
	s.startVoting(st.ID)

	s.castVote(st.ID, "voter-1", "3")
	s.castVote(st.ID, "voter-1", "8")

	out, err := s.svc.GetStoryVotes(s.ctx, &GetStoryVotesInput{StoryID: st.ID})
	s.Require().NoError(err)
	s.Require().Len(out.Votes, 1)
	s.Equal("8", out.Votes[0].Value)
}

func (s *ServiceTestSuite) TestCastVoteRejectsNonMembers() {
	st := s.addStory("Checkout flow")
	s.startVoting(st.ID)

	_, err := s.svc.CastVote(s.ctx, &CastVoteInput{
		StoryID: st.ID,
		UserID:  "stranger",
		Value:   "5",
	})
	s.Require().ErrorIs(err, ErrNotMember)
}

func (s *ServiceTestSuite) TestCastVoteRejectsCompletedStory() {
	st := s.addStory("Checkout flow")
	s.startVoting(st.ID)
	s.castVote(st.ID, "voter-1", "5")

	_, err := s.svc.StopVoting(s.ctx, &StopVotingInput{StoryID: st.ID, UserID: adminID})
	s.Require().NoError(err)
	_, err = s.svc.CompleteStory(s.ctx, &CompleteStoryInput{StoryID: st.ID, UserID: adminID})
	s.Require().NoError(err)

	_, err = s.svc.CastVote(s.ctx, &CastVoteInput{
		StoryID: st.ID,
		UserID:  "voter-1",
		Value:   "8",
	})
	s.Require().ErrorIs(err, ErrStoryCompleted)
}

func (s *ServiceTestSuite) TestStopVotingIsIdempotent() {
	st := s.addStory("Checkout flow")
	s.startVoting(st.ID)

	out, err := s.svc.StopVoting(s.ctx, &StopVotingInput{StoryID: st.ID, UserID: adminID})
	s.Require().NoError(err)
	s.True(out.Stopped)
	s.Equal(models.StoryStatusPending, out.Story.Status)
	s.Nil(out.Story.VotingStartedAt)

	again, err := s.svc.StopVoting(s.ctx, &StopVotingInput{StoryID: st.ID, UserID: adminID})
	s.Require().NoError(err)
	s.False(again.Stopped)
}

func (s *ServiceTestSuite) TestStartVotingOnCompletedStoryLeavesSlotFree() {
	first := s.addStory("Checkout flow")
	second := s.addStory("Search ranking")

	s.startVoting(first.ID)
	_, err := s.svc.StopVoting(s.ctx, &StopVotingInput{StoryID: first.ID, UserID: adminID})
	s.Require().NoError(err)
	_, err = s.svc.CompleteStory(s.ctx, &CompleteStoryInput{StoryID: first.ID, UserID: adminID})
	s.Require().NoError(err)

	// a completed story can never re-enter voting, and the failed attempt
	// must not occupy the session's active slot
	_, err = s.svc.StartVoting(s.ctx, &StartVotingInput{StoryID: first.ID, UserID: adminID})
	s.Require().ErrorIs(err, ErrInvalidTransition)

	active, err := s.svc.GetActiveStory(s.ctx, &GetActiveStoryInput{SessionID: testSessionID})
	s.Require().NoError(err)
	s.Nil(active.Story)

	_, err = s.svc.StartVoting(s.ctx, &StartVotingInput{StoryID: second.ID, UserID: adminID})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestResumeVotingKeepsVotesAndRestartsClock() {
	st := s.addStory("Checkout flow")
	s.startVoting(st.ID)
	s.castVote(st.ID, "voter-1", "5")

	_, err := s.svc.StopVoting(s.ctx, &StopVotingInput{StoryID: st.ID, UserID: adminID})
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)

	out, err := s.svc.StartVoting(s.ctx, &StartVotingInput{StoryID: st.ID, UserID: adminID})
	s.Require().NoError(err)
	s.Equal(models.StoryStatusVoting, out.Story.Status)
	s.Require().NotNil(out.Story.VotingStartedAt)
	s.True(out.Story.VotingStartedAt.Equal(s.clock.now))

	votes, err := s.svc.GetStoryVotes(s.ctx, &GetStoryVotesInput{StoryID: st.ID})
	s.Require().NoError(err)
	s.Require().Len(votes.Votes, 1)
	s.Equal("5", votes.Votes[0].Value)
}

func (s *ServiceTestSuite) TestCompleteStoryUsesConsensusVerdict() {
	st := s.addStory("Checkout flow")
	s.startVoting(st.ID)

	s.castVote(st.ID, "voter-1", "5")
	s.castVote(st.ID, "voter-2", "5")
	s.castVote(st.ID, adminID, "8")

	_, err := s.svc.StopVoting(s.ctx, &StopVotingInput{StoryID: st.ID, UserID: adminID})
	s.Require().NoError(err)

	out, err := s.svc.CompleteStory(s.ctx, &CompleteStoryInput{StoryID: st.ID, UserID: adminID})
	s.Require().NoError(err)
	s.Equal(models.StoryStatusCompleted, out.Story.Status)
	s.Equal(5, out.Story.Points)
}

func (s *ServiceTestSuite) TestCompleteStoryExplicitPointsWin() {
	st := s.addStory("Checkout flow")
	s.startVoting(st.ID)
	s.castVote(st.ID, "voter-1", "5")

	_, err := s.svc.StopVoting(s.ctx, &StopVotingInput{StoryID: st.ID, UserID: adminID})
	s.Require().NoError(err)

	points := 13
	out, err := s.svc.CompleteStory(s.ctx, &CompleteStoryInput{
		StoryID: st.ID,
		UserID:  adminID,
		Points:  &points,
	})
	s.Require().NoError(err)
	s.Equal(13, out.Story.Points)
}

func (s *ServiceTestSuite) TestCompleteStoryWithoutVerdictScoresZero() {
	st := s.addStory("Checkout flow")
	s.startVoting(st.ID)
	s.castVote(st.ID, "voter-1", "5")
	s.castVote(st.ID, "voter-2", "8")

	_, err := s.svc.StopVoting(s.ctx, &StopVotingInput{StoryID: st.ID, UserID: adminID})
	s.Require().NoError(err)

	out, err := s.svc.CompleteStory(s.ctx, &CompleteStoryInput{StoryID: st.ID, UserID: adminID})
	s.Require().NoError(err)
	s.Equal(0, out.Story.Points)
}

func (s *ServiceTestSuite) TestCompleteStoryReleasesSlot() {
	first := s.addStory("Checkout flow")
	second := s.addStory("Search ranking")

	s.startVoting(first.ID)
	_, err := s.svc.StopVoting(s.ctx, &StopVotingInput{StoryID: first.ID, UserID: adminID})
	s.Require().NoError(err)
	_, err = s.svc.CompleteStory(s.ctx, &CompleteStoryInput{StoryID: first.ID, UserID: adminID})
	s.Require().NoError(err)

	_, err = s.svc.StartVoting(s.ctx, &StartVotingInput{StoryID: second.ID, UserID: adminID})
	s.Require().NoError(err)

	active, err := s.svc.GetActiveStory(s.ctx, &GetActiveStoryInput{SessionID: testSessionID})
	s.Require().NoError(err)
	s.Require().NotNil(active.Story)
	s.Equal(second.ID, active.Story.ID)
}

func (s *ServiceTestSuite) TestCompleteStoryPushesPointsToBoard() {
	out, err := s.svc.AddStory(s.ctx, &AddStoryInput{
		SessionID:   testSessionID,
		UserID:      adminID,
		Title:       "Checkout flow",
		ExternalKey: "PROJ-17",
	})
	s.Require().NoError(err)
	st := out.Story

	s.startVoting(st.ID)
	s.castVote(st.ID, "voter-1", "5")
	s.castVote(st.ID, "voter-2", "5")

	_, err = s.svc.StopVoting(s.ctx, &StopVotingInput{StoryID: st.ID, UserID: adminID})
	s.Require().NoError(err)

	s.boardMock.EXPECT().SetStoryPoints(gomock.Any(), "PROJ-17", 5).Return(nil)

	_, err = s.svc.CompleteStory(s.ctx, &CompleteStoryInput{StoryID: st.ID, UserID: adminID})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestResetVotesRequiresAdmin() {
	st := s.addStory("Checkout flow")
	s.startVoting(st.ID)
	s.castVote(st.ID, "voter-1", "5")

	_, err := s.svc.ResetVotes(s.ctx, &ResetVotesInput{StoryID: st.ID, UserID: "voter-1"})
	s.Require().ErrorIs(err, ErrNotAdmin)

	out, err := s.svc.ResetVotes(s.ctx, &ResetVotesInput{StoryID: st.ID, UserID: adminID})
	s.Require().NoError(err)
	s.True(out.Success)

	votes, err := s.svc.GetStoryVotes(s.ctx, &GetStoryVotesInput{StoryID: st.ID})
	s.Require().NoError(err)
	s.Empty(votes.Votes)
}

func (s *ServiceTestSuite) TestGetUserVoteNilWhenAbsent() {
	st := s.addStory("Checkout flow")
	s.startVoting(st.ID)

	out, err := s.svc.GetUserVote(s.ctx, &GetUserVoteInput{StoryID: st.ID, UserID: "voter-1"})
	s.Require().NoError(err)
	s.Nil(out.Vote)

	s.castVote(st.ID, "voter-1", "5")

	out, err = s.svc.GetUserVote(s.ctx, &GetUserVoteInput{StoryID: st.ID, UserID: "voter-1"})
	s.Require().NoError(err)
	s.Require().NotNil(out.Vote)
	s.Equal("5", out.Vote.Value)
}

func (s *ServiceTestSuite) timedSettings(limit int) {
	s.settings.settings = &models.SessionSettings{
		SessionID:       testSessionID,
		TimedVoting:     true,
		VotingTimeLimit: limit,
		ScoringType:     models.ScoringTypeFibonacci,
		ShowKickButtons: true,
	}
}

func (s *ServiceTestSuite) TestTimerCountsDown() {
	s.timedSettings(60)
	st := s.addStory("Checkout flow")
	s.startVoting(st.ID)

	s.clock.Advance(25 * time.Second)

	state, err := s.svc.GetTimer(s.ctx, &GetTimerInput{SessionID: testSessionID})
	s.Require().NoError(err)
	s.True(state.Running)
	s.Equal(st.ID, state.StoryID)
	s.Equal(60, state.TimeLimit)
	s.Equal(35, state.Remaining)
}

func (s *ServiceTestSuite) TestTimerNotRunningWhenUntimed() {
	st := s.addStory("Checkout flow")
	s.startVoting(st.ID)

	state, err := s.svc.GetTimer(s.ctx, &GetTimerInput{SessionID: testSessionID})
	s.Require().NoError(err)
	s.False(state.Running)
}

func (s *ServiceTestSuite) TestTimerRemainingNeverNegative() {
	s.timedSettings(60)
	st := s.addStory("Checkout flow")
	s.startVoting(st.ID)

	s.clock.Advance(5 * time.Minute)

	state, err := s.svc.GetTimer(s.ctx, &GetTimerInput{SessionID: testSessionID})
	s.Require().NoError(err)
	s.True(state.Running)
	s.Equal(0, state.Remaining)
}

func (s *ServiceTestSuite) TestCheckTimerStopsExpiredRoundOnce() {
	s.timedSettings(60)
	st := s.addStory("Checkout flow")
	s.startVoting(st.ID)

	out, err := s.svc.CheckTimer(s.ctx, &CheckTimerInput{SessionID: testSessionID})
	s.Require().NoError(err)
	s.False(out.Expired)

	s.clock.Advance(2 * time.Minute)

	out, err = s.svc.CheckTimer(s.ctx, &CheckTimerInput{SessionID: testSessionID})
	s.Require().NoError(err)
	s.True(out.Expired)

	stopped, err := s.svc.GetStory(s.ctx, &GetStoryInput{StoryID: st.ID})
	s.Require().NoError(err)
	s.Equal(models.StoryStatusPending, stopped.Status)

	out, err = s.svc.CheckTimer(s.ctx, &CheckTimerInput{SessionID: testSessionID})
	s.Require().NoError(err)
	s.False(out.Expired)
}
