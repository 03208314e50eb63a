package vote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/pointdeck/pointdeck/internal/models"
	"github.com/redis/go-redis/v9"
)

// Votes for a story live in one hash keyed by user ID; the HSET is the
// upsert, so two votes by the same user can never coexist.
const storyVotesPrefix = "story_votes:"

// ErrVoteNotFound is returned when a vote is not found
var ErrVoteNotFound = errors.New("vote not found")

// Config holds configuration for the Redis vote repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed vote repository
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

// SaveVote upserts a vote in Redis
func (r *redisRepository) SaveVote(ctx context.Context, input *SaveVoteInput) error {
	if input == nil || input.Vote == nil {
		return errors.New("input and vote cannot be nil")
	}

	if input.Vote.StoryID == "" || input.Vote.UserID == "" {
		return errors.New("story ID and user ID cannot be empty")
	}

	voteJSON, err := json.Marshal(input.Vote)
	if err != nil {
		return fmt.Errorf("failed to marshal vote: %w", err)
	}

	key := storyVotesPrefix + input.Vote.StoryID
	if err := r.client.HSet(ctx, key, input.Vote.UserID, voteJSON).Err(); err != nil {
		return fmt.Errorf("failed to save vote: %w", err)
	}

	return nil
}

// GetVote retrieves one user's vote for a story from Redis
func (r *redisRepository) GetVote(ctx context.Context, input *GetVoteInput) (*models.Vote, error) {
	if input == nil || input.StoryID == "" || input.UserID == "" {
		return nil, errors.New("input, story ID and user ID cannot be empty")
	}

	voteJSON, err := r.client.HGet(ctx, storyVotesPrefix+input.StoryID, input.UserID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrVoteNotFound
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}

	var vote models.Vote
	if err := json.Unmarshal([]byte(voteJSON), &vote); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vote: %w", err)
	}

	return &vote, nil
}

// GetStoryVotes retrieves all votes for a story from Redis
func (r *redisRepository) GetStoryVotes(ctx context.Context, input *GetStoryVotesInput) (*GetStoryVotesOutput, error) {
	if input == nil || input.StoryID == "" {
		return nil, errors.New("input and story ID cannot be empty")
	}

	rows, err := r.client.HGetAll(ctx, storyVotesPrefix+input.StoryID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get story votes: %w", err)
	}

	votes := make([]*models.Vote, 0, len(rows))
	for userID, voteJSON := range rows {
		var vote models.Vote
		if err := json.Unmarshal([]byte(voteJSON), &vote); err != nil {
			return nil, fmt.Errorf("failed to unmarshal vote %s: %w", userID, err)
		}
		votes = append(votes, &vote)
	}

	sort.Slice(votes, func(i, j int) bool {
		if votes[i].VotedAt.Equal(votes[j].VotedAt) {
			return votes[i].UserID < votes[j].UserID
		}
		return votes[i].VotedAt.Before(votes[j].VotedAt)
	})

	return &GetStoryVotesOutput{Votes: votes}, nil
}

// DeleteStoryVotes removes all votes for a story from Redis
func (r *redisRepository) DeleteStoryVotes(ctx context.Context, input *DeleteStoryVotesInput) error {
	if input == nil || input.StoryID == "" {
		return errors.New("input and story ID cannot be empty")
	}

	if err := r.client.Del(ctx, storyVotesPrefix+input.StoryID).Err(); err != nil {
		return fmt.Errorf("failed to delete story votes: %w", err)
	}

	return nil
}
