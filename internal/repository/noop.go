package repository

import (
	"context"

	"github.com/johancv/tictactoe-backend/internal/entity"
)

// noopResult is the archive used when no Redis address is configured.
type noopResult struct{}

func NewNoopResultRepository() ResultRepository {
	return noopResult{}
}

func (noopResult) Save(_ context.Context, _ *entity.GameResult) error {
	return nil
}

func (noopResult) GetBySessionID(_ context.Context, _ string) (*entity.GameResult, error) {
	return nil, ErrResultNotFound
}

func (noopResult) ListRecent(_ context.Context, _ int64) ([]*entity.GameResult, error) {
	return nil, nil
}
