package presence

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Heartbeats live in one sorted set per session, scored by lastSeen in
// milliseconds. Active reads and cleanup are range queries on the score.
const presencePrefix = "presence:"

// Config holds configuration for the Redis presence repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed presence repository
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

// UpdatePresence upserts a heartbeat in Redis
func (r *redisRepository) UpdatePresence(ctx context.Context, input *UpdatePresenceInput) error {
	if input == nil || input.SessionID == "" || input.UserID == "" {
		return errors.New("input, session ID and user ID cannot be empty")
	}

	err := r.client.ZAdd(ctx, presencePrefix+input.SessionID, redis.Z{
		Score:  float64(input.SeenAt.UnixMilli()),
		Member: input.UserID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to update presence: %w", err)
	}

	return nil
}

// GetActiveUsers returns the user IDs seen at or after the cutoff
func (r *redisRepository) GetActiveUsers(ctx context.Context, input *GetActiveUsersInput) (*GetActiveUsersOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	userIDs, err := r.client.ZRangeByScore(ctx, presencePrefix+input.SessionID, &redis.ZRangeBy{
		Min: strconv.FormatInt(input.Cutoff.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active users: %w", err)
	}

	return &GetActiveUsersOutput{UserIDs: userIDs}, nil
}

// Cleanup deletes heartbeats strictly older than the cutoff
func (r *redisRepository) Cleanup(ctx context.Context, input *CleanupInput) (*CleanupOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	removed, err := r.client.ZRemRangeByScore(ctx, presencePrefix+input.SessionID,
		"-inf", "("+strconv.FormatInt(input.Cutoff.UnixMilli(), 10)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to clean up presence: %w", err)
	}

	return &CleanupOutput{Removed: removed}, nil
}

// DeleteUser removes one user's heartbeat from a session
func (r *redisRepository) DeleteUser(ctx context.Context, input *DeleteUserInput) error {
	if input == nil || input.SessionID == "" || input.UserID == "" {
		return errors.New("input, session ID and user ID cannot be empty")
	}

	if err := r.client.ZRem(ctx, presencePrefix+input.SessionID, input.UserID).Err(); err != nil {
		return fmt.Errorf("failed to delete user presence: %w", err)
	}

	return nil
}

// DeleteSessionPresence removes all heartbeats of a session
func (r *redisRepository) DeleteSessionPresence(ctx context.Context, input *DeleteSessionPresenceInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	if err := r.client.Del(ctx, presencePrefix+input.SessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session presence: %w", err)
	}

	return nil
}
