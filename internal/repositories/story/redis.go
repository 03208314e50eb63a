package story

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
	storyKeyPrefix       = "story:"
	sessionStoriesPrefix = "session_stories:"
	activeSlotPrefix     = "session_active_story:"
)

var (
	// ErrStoryNotFound is returned when a story is not found
	ErrStoryNotFound = errors.New("story not found")

	// ErrActiveStoryExists is returned when another story already holds the
	// session's active slot
	ErrActiveStoryExists = errors.New("another story is already active in this session")
)

// Config holds configuration for the Redis story repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed story repository
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

// SaveStory persists a story to Redis
func (r *redisRepository) SaveStory(ctx context.Context, input *SaveStoryInput) error {
	if input == nil || input.Story == nil {
		return errors.New("input and story cannot be nil")
	}

	if input.Story.ID == "" || input.Story.SessionID == "" {
		return errors.New("story ID and session ID cannot be empty")
	}

	storyJSON, err := json.Marshal(input.Story)
	if err != nil {
		return fmt.Errorf("failed to marshal story: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, storyKeyPrefix+input.Story.ID, storyJSON, 0)
	pipe.SAdd(ctx, sessionStoriesPrefix+input.Story.SessionID, input.Story.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save story: %w", err)
	}

	return nil
}

// GetStory retrieves a story by ID from Redis
func (r *redisRepository) GetStory(ctx context.Context, input *GetStoryInput) (*models.Story, error) {
	if input == nil || input.StoryID == "" {
		return nil, errors.New("input and story ID cannot be empty")
	}

	storyJSON, err := r.client.Get(ctx, storyKeyPrefix+input.StoryID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to get story: %w", err)
	}

	var story models.Story
	if err := json.Unmarshal([]byte(storyJSON), &story); err != nil {
		return nil, fmt.Errorf("failed to unmarshal story: %w", err)
	}

	return &story, nil
}

// GetSessionStories retrieves all stories of a session from Redis
func (r *redisRepository) GetSessionStories(ctx context.Context, input *GetSessionStoriesInput) (*GetSessionStoriesOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	storyIDs, err := r.client.SMembers(ctx, sessionStoriesPrefix+input.SessionID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get story IDs: %w", err)
	}

	stories := make([]*models.Story, 0, len(storyIDs))
	for _, storyID := range storyIDs {
		story, err := r.GetStory(ctx, &GetStoryInput{StoryID: storyID})
		if err != nil {
			// Story deleted between the index read and the fetch
			if errors.Is(err, ErrStoryNotFound) {
				continue
			}
			return nil, err
		}
		stories = append(stories, story)
	}

	sort.Slice(stories, func(i, j int) bool {
		return stories[i].CreatedAt.Before(stories[j].CreatedAt)
	})

	return &GetSessionStoriesOutput{Stories: stories}, nil
}

// ClaimActiveSlot atomically claims the session's active-story slot
func (r *redisRepository) ClaimActiveSlot(ctx context.Context, input *ClaimActiveSlotInput) error {
	if input == nil || input.SessionID == "" || input.StoryID == "" {
		return errors.New("input, session ID and story ID cannot be empty")
	}

	slotKey := activeSlotPrefix + input.SessionID

	claimed, err := r.client.SetNX(ctx, slotKey, input.StoryID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim active slot: %w", err)
	}
	if claimed {
		return nil
	}

	holder, err := r.client.Get(ctx, slotKey).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to read active slot: %w", err)
	}

	if holder != input.StoryID {
		return ErrActiveStoryExists
	}

	return nil
}

// ReleaseActiveSlot releases the slot if the given story holds it
func (r *redisRepository) ReleaseActiveSlot(ctx context.Context, input *ReleaseActiveSlotInput) error {
	if input == nil || input.SessionID == "" || input.StoryID == "" {
		return errors.New("input, session ID and story ID cannot be empty")
	}

	slotKey := activeSlotPrefix + input.SessionID

	holder, err := r.client.Get(ctx, slotKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("failed to read active slot: %w", err)
	}

	if holder != input.StoryID {
		return nil
	}

	if err := r.client.Del(ctx, slotKey).Err(); err != nil {
		return fmt.Errorf("failed to release active slot: %w", err)
	}

	return nil
}

// GetActiveStoryID returns the story holding the session's active slot
func (r *redisRepository) GetActiveStoryID(ctx context.Context, input *GetActiveStoryIDInput) (string, error) {
	if input == nil || input.SessionID == "" {
		return "", errors.New("input and session ID cannot be empty")
	}

	storyID, err := r.client.Get(ctx, activeSlotPrefix+input.SessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("failed to get active story ID: %w", err)
	}

	return storyID, nil
}

// DeleteSessionStories removes all stories of a session and its slot
func (r *redisRepository) DeleteSessionStories(ctx context.Context, input *DeleteSessionStoriesInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	storyIDs, err := r.client.SMembers(ctx, sessionStoriesPrefix+input.SessionID).Result()
	if err != nil {
		return fmt.Errorf("failed to get story IDs: %w", err)
	}

	pipe := r.client.Pipeline()
	for _, storyID := range storyIDs {
		pipe.Del(ctx, storyKeyPrefix+storyID)
	}
	pipe.Del(ctx, sessionStoriesPrefix+input.SessionID)
	pipe.Del(ctx, activeSlotPrefix+input.SessionID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session stories: %w", err)
	}

	return nil
}
