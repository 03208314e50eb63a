package session

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/pointdeck/pointdeck/internal/events"
	"github.com/pointdeck/pointdeck/internal/models"
	archiveRepo "github.com/pointdeck/pointdeck/internal/repositories/archive"
	memberRepo "github.com/pointdeck/pointdeck/internal/repositories/member"
	presenceRepo "github.com/pointdeck/pointdeck/internal/repositories/presence"
	sessionRepo "github.com/pointdeck/pointdeck/internal/repositories/session"
	settingsRepo "github.com/pointdeck/pointdeck/internal/repositories/settings"
	storyRepo "github.com/pointdeck/pointdeck/internal/repositories/story"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type seqUUID struct {
	n int
}

func (u *seqUUID) NewUUID() string {
	u.n++
	return fmt.Sprintf("uuid-%d", u.n)
}

type ServiceTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	store   archiveRepo.Store
	stories storyRepo.Repository
	members memberRepo.Repository
	clock   *fixedClock
	svc     Service
	ctx     context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	members, err := memberRepo.NewRedis(&memberRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	presence, err := presenceRepo.NewRedis(&presenceRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	settings, err := settingsRepo.NewRedis(&settingsRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	stories, err := storyRepo.NewRedis(&storyRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	store, err := archiveRepo.Open(filepath.Join(s.T().TempDir(), "archive.db"))
	s.Require().NoError(err)
	s.store = store
	s.stories = stories
	s.members = members

	s.clock = &fixedClock{now: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)}

	svc, err := New(&Config{
		SessionRepository:  sessions,
		MemberRepository:   members,
		PresenceRepository: presence,
		SettingsRepository: settings,
		StoryRepository:    stories,
		ArchiveStore:       store,
		Hub:                events.NewHub(nil),
		Clock:              s.clock,
		UUID:               &seqUUID{},
	})
	s.Require().NoError(err)
	s.svc = svc

	s.ctx = context.Background()
}

func (s *ServiceTestSuite) TearDownTest() {
	s.store.Close()
	s.client.Close()
	s.mr.Close()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) createSession() *models.Session {
	out, err := s.svc.CreateSession(s.ctx, &CreateSessionInput{
		Name:     "Sprint 42 Planning",
		UserID:   "admin-user",
		UserName: "Alice",
	})
	s.Require().NoError(err)
	return out.Session
}

func (s *ServiceTestSuite) TestCreateSessionJoinsAdmin() {
	sess := s.createSession()

	s.Equal("Sprint 42 Planning", sess.Name)
	s.Equal("admin-user", sess.CreatedBy)
	s.True(sess.IsActive)

	members, err := s.svc.GetSessionMembers(s.ctx, &GetSessionMembersInput{SessionID: sess.ID})
	s.Require().NoError(err)
	s.Require().Len(members.Members, 1)
	s.Equal("admin-user", members.Members[0].UserID)
	s.True(members.Members[0].IsAdmin)
}

func (s *ServiceTestSuite) TestGetSessionNotFound() {
	_, err := s.svc.GetSession(s.ctx, &GetSessionInput{SessionID: "missing"})
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *ServiceTestSuite) TestJoinSessionIsIdempotent() {
	sess := s.createSession()

	first, err := s.svc.JoinSession(s.ctx, &JoinSessionInput{
		SessionID: sess.ID,
		UserID:    "voter-1",
		Name:      "Bob",
	})
	s.Require().NoError(err)
	s.False(first.Rejoined)
	s.False(first.Member.IsAdmin)

	again, err := s.svc.JoinSession(s.ctx, &JoinSessionInput{
		SessionID: sess.ID,
		UserID:    "voter-1",
		Name:      "Bobby",
	})
	s.Require().NoError(err)
	s.True(again.Rejoined)
	s.Equal("Bob", again.Member.Name)
}

func (s *ServiceTestSuite) TestLeaveSessionAdminForbidden() {
	sess := s.createSession()

	_, err := s.svc.LeaveSession(s.ctx, &LeaveSessionInput{
		SessionID: sess.ID,
		UserID:    "admin-user",
	})
	s.Require().ErrorIs(err, ErrAdminCannotLeave)
}

func (s *ServiceTestSuite) TestLeaveSessionRemovesMembership() {
	sess := s.createSession()

	_, err := s.svc.JoinSession(s.ctx, &JoinSessionInput{
		SessionID: sess.ID,
		UserID:    "voter-1",
		Name:      "Bob",
	})
	s.Require().NoError(err)

	out, err := s.svc.LeaveSession(s.ctx, &LeaveSessionInput{
		SessionID: sess.ID,
		UserID:    "voter-1",
	})
	s.Require().NoError(err)
	s.True(out.Success)

	_, err = s.members.GetMember(s.ctx, &memberRepo.GetMemberInput{
		SessionID: sess.ID,
		UserID:    "voter-1",
	})
	s.Require().ErrorIs(err, memberRepo.ErrMemberNotFound)
}

func (s *ServiceTestSuite) TestKickMemberRequiresAdmin() {
	sess := s.createSession()

	_, err := s.svc.JoinSession(s.ctx, &JoinSessionInput{
		SessionID: sess.ID,
		UserID:    "voter-1",
		Name:      "Bob",
	})
	s.Require().NoError(err)

	_, err = s.svc.KickMember(s.ctx, &KickMemberInput{
		SessionID: sess.ID,
		ActorID:   "voter-1",
		TargetID:  "admin-user",
	})
	s.Require().ErrorIs(err, ErrNotAdmin)

	_, err = s.svc.KickMember(s.ctx, &KickMemberInput{
		SessionID: sess.ID,
		ActorID:   "admin-user",
		TargetID:  "admin-user",
	})
	s.Require().ErrorIs(err, ErrCannotKickAdmin)

	out, err := s.svc.KickMember(s.ctx, &KickMemberInput{
		SessionID: sess.ID,
		ActorID:   "admin-user",
		TargetID:  "voter-1",
	})
	s.Require().NoError(err)
	s.True(out.Success)
}

func (s *ServiceTestSuite) TestSettingsSeededFromAdminDefaultsOnce() {
	err := s.store.PutUserSettings(s.ctx, &archiveRepo.PutUserSettingsInput{
		Settings: &models.UserSettings{
			UserID:          "admin-user",
			TimedVoting:     true,
			VotingTimeLimit: 90,
			ScoringType:     models.ScoringTypeTShirt,
			ShowKickButtons: false,
			UpdatedAt:       s.clock.now,
		},
	})
	s.Require().NoError(err)

	sess := s.createSession()

	settings, err := s.svc.GetSessionSettings(s.ctx, &GetSessionSettingsInput{SessionID: sess.ID})
	s.Require().NoError(err)
	s.True(settings.TimedVoting)
	s.Equal(90, settings.VotingTimeLimit)
	s.Equal(models.ScoringTypeTShirt, settings.ScoringType)
	s.False(settings.ShowKickButtons)

	// changing the personal defaults later must not touch the session
	_, err = s.svc.UpdateUserSettings(s.ctx, &UpdateUserSettingsInput{
		UserID:          "admin-user",
		VotingTimeLimit: intPtr(600),
	})
	s.Require().NoError(err)

	settings, err = s.svc.GetSessionSettings(s.ctx, &GetSessionSettingsInput{SessionID: sess.ID})
	s.Require().NoError(err)
	s.Equal(90, settings.VotingTimeLimit)
}

func (s *ServiceTestSuite) TestSettingsDefaultWithoutUserDefaults() {
	sess := s.createSession()

	settings, err := s.svc.GetSessionSettings(s.ctx, &GetSessionSettingsInput{SessionID: sess.ID})
	s.Require().NoError(err)
	s.False(settings.TimedVoting)
	s.Equal(models.DefaultVotingTimeLimit, settings.VotingTimeLimit)
	s.Equal(models.ScoringTypeFibonacci, settings.ScoringType)
	s.True(settings.ShowKickButtons)
}

func (s *ServiceTestSuite) TestUpdateSessionSettingsRequiresAdmin() {
	sess := s.createSession()

	_, err := s.svc.UpdateSessionSettings(s.ctx, &UpdateSessionSettingsInput{
		SessionID:   sess.ID,
		UserID:      "voter-1",
		TimedVoting: boolPtr(true),
	})
	s.Require().ErrorIs(err, ErrNotAdmin)
}

func (s *ServiceTestSuite) TestUpdateSessionSettingsPartial() {
	sess := s.createSession()

	updated, err := s.svc.UpdateSessionSettings(s.ctx, &UpdateSessionSettingsInput{
		SessionID:   sess.ID,
		UserID:      "admin-user",
		TimedVoting: boolPtr(true),
	})
	s.Require().NoError(err)
	s.True(updated.TimedVoting)
	s.Equal(models.DefaultVotingTimeLimit, updated.VotingTimeLimit)
	s.Equal(models.ScoringTypeFibonacci, updated.ScoringType)

	badType := models.ScoringType("dozenal")
	_, err = s.svc.UpdateSessionSettings(s.ctx, &UpdateSessionSettingsInput{
		SessionID:   sess.ID,
		UserID:      "admin-user",
		ScoringType: &badType,
	})
	s.Require().ErrorIs(err, ErrInvalidScoringType)
}

func (s *ServiceTestSuite) TestShorteningTimeLimitRestartsRunningRound() {
	sess := s.createSession()

	startedAt := s.clock.now.Add(-2 * time.Minute)
	st := &models.Story{
		ID:              "story-1",
		SessionID:       sess.ID,
		Title:           "Checkout flow",
		Status:          models.StoryStatusVoting,
		Points:          models.PointsUnset,
		VotingStartedAt: &startedAt,
		CreatedAt:       startedAt,
	}
	s.Require().NoError(s.stories.SaveStory(s.ctx, &storyRepo.SaveStoryInput{Story: st}))
	s.Require().NoError(s.stories.ClaimActiveSlot(s.ctx, &storyRepo.ClaimActiveSlotInput{
		SessionID: sess.ID,
		StoryID:   st.ID,
	}))

	_, err := s.svc.UpdateSessionSettings(s.ctx, &UpdateSessionSettingsInput{
		SessionID:       sess.ID,
		UserID:          "admin-user",
		VotingTimeLimit: intPtr(60),
	})
	s.Require().NoError(err)

	restarted, err := s.stories.GetStory(s.ctx, &storyRepo.GetStoryInput{StoryID: st.ID})
	s.Require().NoError(err)
	s.Require().NotNil(restarted.VotingStartedAt)
	s.True(restarted.VotingStartedAt.Equal(s.clock.now))
}

func (s *ServiceTestSuite) TestRaisingTimeLimitKeepsRoundReference() {
	sess := s.createSession()

	startedAt := s.clock.now.Add(-2 * time.Minute)
	st := &models.Story{
		ID:              "story-1",
		SessionID:       sess.ID,
		Title:           "Checkout flow",
		Status:          models.StoryStatusVoting,
		Points:          models.PointsUnset,
		VotingStartedAt: &startedAt,
		CreatedAt:       startedAt,
	}
	s.Require().NoError(s.stories.SaveStory(s.ctx, &storyRepo.SaveStoryInput{Story: st}))
	s.Require().NoError(s.stories.ClaimActiveSlot(s.ctx, &storyRepo.ClaimActiveSlotInput{
		SessionID: sess.ID,
		StoryID:   st.ID,
	}))

	_, err := s.svc.UpdateSessionSettings(s.ctx, &UpdateSessionSettingsInput{
		SessionID:       sess.ID,
		UserID:          "admin-user",
		VotingTimeLimit: intPtr(900),
	})
	s.Require().NoError(err)

	kept, err := s.stories.GetStory(s.ctx, &storyRepo.GetStoryInput{StoryID: st.ID})
	s.Require().NoError(err)
	s.Require().NotNil(kept.VotingStartedAt)
	s.True(kept.VotingStartedAt.Equal(startedAt))
}

func (s *ServiceTestSuite) TestUserSettingsRoundTrip() {
	got, err := s.svc.GetUserSettings(s.ctx, &GetUserSettingsInput{UserID: "voter-1"})
	s.Require().NoError(err)
	s.Equal(models.DefaultVotingTimeLimit, got.VotingTimeLimit)

	scoring := models.ScoringTypePowersOfTwo
	updated, err := s.svc.UpdateUserSettings(s.ctx, &UpdateUserSettingsInput{
		UserID:      "voter-1",
		ScoringType: &scoring,
		TimedVoting: boolPtr(true),
	})
	s.Require().NoError(err)
	s.Equal(models.ScoringTypePowersOfTwo, updated.ScoringType)
	s.True(updated.TimedVoting)

	got, err = s.svc.GetUserSettings(s.ctx, &GetUserSettingsInput{UserID: "voter-1"})
	s.Require().NoError(err)
	s.Equal(models.ScoringTypePowersOfTwo, got.ScoringType)
	s.True(got.TimedVoting)
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *int {
	return &i
}
