package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/johancv/tictactoe-backend/internal/entity"
	"github.com/redis/go-redis/v9"
)

var ErrResultNotFound = errors.New("game result not found")

const (
	resultKeyPrefix  = "result:"
	recentResultsKey = "results:recent"

	// recentResultsCap bounds the recent-results list in Redis.
	recentResultsCap = 100
)

// ResultRepository archives finished games. The archive is a write-only
// side channel of the engine: losing it never affects a live session.
type ResultRepository interface {
	Save(ctx context.Context, result *entity.GameResult) error
	GetBySessionID(ctx context.Context, sessionID string) (*entity.GameResult, error)
	ListRecent(ctx context.Context, limit int64) ([]*entity.GameResult, error)
}

type dbResult struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.GameResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	resultKey := resultKeyPrefix + result.SessionID

	if err = that.client.Set(ctx, resultKey, resultJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set result: %w", err)
	}

	if err = that.client.LPush(ctx, recentResultsKey, resultJSON).Err(); err != nil {
		return fmt.Errorf("failed to push recent result: %w", err)
	}

	if err = that.client.LTrim(ctx, recentResultsKey, 0, recentResultsCap-1).Err(); err != nil {
		return fmt.Errorf("failed to trim recent results: %w", err)
	}

	return nil
}

func (that *dbResult) GetBySessionID(ctx context.Context, sessionID string) (*entity.GameResult, error) {
	resultKey := resultKeyPrefix + sessionID

	response, err := that.client.Get(ctx, resultKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrResultNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result entity.GameResult
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

func (that *dbResult) ListRecent(ctx context.Context, limit int64) ([]*entity.GameResult, error) {
	if limit <= 0 {
		limit = recentResultsCap
	}

	entries, err := that.client.LRange(ctx, recentResultsKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent results: %w", err)
	}

	results := make([]*entity.GameResult, 0, len(entries))
	for _, entry := range entries {
		var result entity.GameResult
		if err = json.Unmarshal([]byte(entry), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		results = append(results, &result)
	}

	return results, nil
}
