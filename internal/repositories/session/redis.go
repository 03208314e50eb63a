package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/pointdeck/pointdeck/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	sessionKeyPrefix   = "session:"
	adminSessionsPrefix = "admin_sessions:"
	liveSessionsKey    = "live_sessions"
)

// ErrSessionNotFound is returned when a session is not found
var ErrSessionNotFound = errors.New("session not found")

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveSession persists a session to Redis
func (r *redisRepository) SaveSession(ctx context.Context, input *SaveSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	if input.Session.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	sessionJSON, err := json.Marshal(input.Session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.Pipeline()

	sessionKey := sessionKeyPrefix + input.Session.ID
	pipe.Set(ctx, sessionKey, sessionJSON, 0)

	// Index the session by its admin and in the live set
	pipe.SAdd(ctx, adminSessionsPrefix+input.Session.CreatedBy, input.Session.ID)
	pipe.SAdd(ctx, liveSessionsKey, input.Session.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by ID from Redis
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	sessionJSON, err := r.client.Get(ctx, sessionKeyPrefix+input.SessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// GetSessionsByAdmin retrieves all live sessions created by a user
func (r *redisRepository) GetSessionsByAdmin(ctx context.Context, input *GetSessionsByAdminInput) (*GetSessionsByAdminOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	sessionIDs, err := r.client.SMembers(ctx, adminSessionsPrefix+input.UserID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session IDs for admin: %w", err)
	}

	sessions, err := r.getSessions(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	return &GetSessionsByAdminOutput{Sessions: sessions}, nil
}

// ListSessions retrieves all live sessions
func (r *redisRepository) ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	sessionIDs, err := r.client.SMembers(ctx, liveSessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get live session IDs: %w", err)
	}

	sessions, err := r.getSessions(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	return &ListSessionsOutput{Sessions: sessions}, nil
}

// DeleteSession removes a session and its indexes from Redis
func (r *redisRepository) DeleteSession(ctx context.Context, input *DeleteSessionInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	// Get the session first to find its admin index
	session, err := r.GetSession(ctx, &GetSessionInput{SessionID: input.SessionID})
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, sessionKeyPrefix+input.SessionID)
	pipe.SRem(ctx, adminSessionsPrefix+session.CreatedBy, input.SessionID)
	pipe.SRem(ctx, liveSessionsKey, input.SessionID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// getSessions fetches a batch of sessions with a pipeline, skipping rows
// deleted between the index read and the fetch.
func (r *redisRepository) getSessions(ctx context.Context, sessionIDs []string) ([]*models.Session, error) {
	if len(sessionIDs) == 0 {
		return []*models.Session{}, nil
	}

	pipe := r.client.Pipeline()
	commands := make(map[string]*redis.StringCmd, len(sessionIDs))
	for _, sessionID := range sessionIDs {
		commands[sessionID] = pipe.Get(ctx, sessionKeyPrefix+sessionID)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(sessionIDs))
	for sessionID, cmd := range commands {
		sessionJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
		}

		var session models.Session
		if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
		}

		sessions = append(sessions, &session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	return sessions, nil
}
