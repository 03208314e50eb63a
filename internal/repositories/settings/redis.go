package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pointdeck/pointdeck/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	settingsKeyPrefix = "session_settings:"
	seedGuardPrefix   = "session_settings_seeded:"
)

// ErrSettingsNotFound is returned when no settings row exists for a session
var ErrSettingsNotFound = errors.New("session settings not found")

// Config holds configuration for the Redis settings repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed settings repository
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

// SaveSettings persists a session's settings to Redis
func (r *redisRepository) SaveSettings(ctx context.Context, input *SaveSettingsInput) error {
	if input == nil || input.Settings == nil {
		return errors.New("input and settings cannot be nil")
	}

	if input.Settings.SessionID == "" {
		return errors.New("session ID cannot be empty")
	}

	settingsJSON, err := json.Marshal(input.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	key := settingsKeyPrefix + input.Settings.SessionID
	if err := r.client.Set(ctx, key, settingsJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

// GetSettings retrieves a session's settings from Redis
func (r *redisRepository) GetSettings(ctx context.Context, input *GetSettingsInput) (*models.SessionSettings, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	settingsJSON, err := r.client.Get(ctx, settingsKeyPrefix+input.SessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	var settings models.SessionSettings
	if err := json.Unmarshal([]byte(settingsJSON), &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &settings, nil
}

// ClaimSeed atomically claims the one-shot settings seed for a session
func (r *redisRepository) ClaimSeed(ctx context.Context, input *ClaimSeedInput) (bool, error) {
	if input == nil || input.SessionID == "" {
		return false, errors.New("input and session ID cannot be empty")
	}

	claimed, err := r.client.SetNX(ctx, seedGuardPrefix+input.SessionID, "1", 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim settings seed: %w", err)
	}

	return claimed, nil
}

// DeleteSettings removes a session's settings and seed guard from Redis
func (r *redisRepository) DeleteSettings(ctx context.Context, input *DeleteSettingsInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, settingsKeyPrefix+input.SessionID)
	pipe.Del(ctx, seedGuardPrefix+input.SessionID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}

	return nil
}
