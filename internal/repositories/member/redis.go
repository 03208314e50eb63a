package member

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/pointdeck/pointdeck/internal/models"
	"github.com/redis/go-redis/v9"
)

// Each session's members live in one hash keyed by user ID, which makes the
// (session, user) pair unique by construction.
const sessionMembersPrefix = "session_members:"

// ErrMemberNotFound is returned when a membership is not found
var ErrMemberNotFound = errors.New("member not found")

// Config holds configuration for the Redis member repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed member repository
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

// SaveMember persists a membership to Redis
func (r *redisRepository) SaveMember(ctx context.Context, input *SaveMemberInput) error {
	if input == nil || input.Member == nil {
		return errors.New("input and member cannot be nil")
	}

	if input.Member.SessionID == "" || input.Member.UserID == "" {
		return errors.New("session ID and user ID cannot be empty")
	}

	memberJSON, err := json.Marshal(input.Member)
	if err != nil {
		return fmt.Errorf("failed to marshal member: %w", err)
	}

	key := sessionMembersPrefix + input.Member.SessionID
	if err := r.client.HSet(ctx, key, input.Member.UserID, memberJSON).Err(); err != nil {
		return fmt.Errorf("failed to save member: %w", err)
	}

	return nil
}

// GetMember retrieves one membership from Redis
func (r *redisRepository) GetMember(ctx context.Context, input *GetMemberInput) (*models.Member, error) {
	if input == nil || input.SessionID == "" || input.UserID == "" {
		return nil, errors.New("input, session ID and user ID cannot be empty")
	}

	memberJSON, err := r.client.HGet(ctx, sessionMembersPrefix+input.SessionID, input.UserID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	var member models.Member
	if err := json.Unmarshal([]byte(memberJSON), &member); err != nil {
		return nil, fmt.Errorf("failed to unmarshal member: %w", err)
	}

	return &member, nil
}

// GetSessionMembers retrieves all members of a session from Redis
func (r *redisRepository) GetSessionMembers(ctx context.Context, input *GetSessionMembersInput) (*GetSessionMembersOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	rows, err := r.client.HGetAll(ctx, sessionMembersPrefix+input.SessionID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session members: %w", err)
	}

	members := make([]*models.Member, 0, len(rows))
	for userID, memberJSON := range rows {
		var member models.Member
		if err := json.Unmarshal([]byte(memberJSON), &member); err != nil {
			return nil, fmt.Errorf("failed to unmarshal member %s: %w", userID, err)
		}
		members = append(members, &member)
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})

	return &GetSessionMembersOutput{Members: members}, nil
}

// DeleteMember removes one membership from Redis
func (r *redisRepository) DeleteMember(ctx context.Context, input *DeleteMemberInput) error {
	if input == nil || input.SessionID == "" || input.UserID == "" {
		return errors.New("input, session ID and user ID cannot be empty")
	}

	removed, err := r.client.HDel(ctx, sessionMembersPrefix+input.SessionID, input.UserID).Result()
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	if removed == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// DeleteSessionMembers removes all memberships of a session from Redis
func (r *redisRepository) DeleteSessionMembers(ctx context.Context, input *DeleteSessionMembersInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	if err := r.client.Del(ctx, sessionMembersPrefix+input.SessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session members: %w", err)
	}

	return nil
}
