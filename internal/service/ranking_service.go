package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/state"
)

// RankingService keeps the email leaderboard in step with the ticket list.
type RankingService struct {
	backend RankingBackend
	store   *state.Store
	logger  *zap.Logger
}

// NewRankingService creates the service.
func NewRankingService(backend RankingBackend, store *state.Store, logger *zap.Logger) *RankingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RankingService{backend: backend, store: store, logger: logger}
}

// Refresh fetches the leaderboard once. A failed fetch empties it.
func (s *RankingService) Refresh(ctx context.Context) error {
	if s == nil {
		return nil
	}
	rankings, err := s.backend.EmailRankings(ctx)
	if err != nil {
		s.logger.Warn("email rankings fetch failed", zap.Error(err))
		rankings = []domain.EmailRanking{}
	}
	s.store.Update(func(v *state.View) {
		v.Rankings = rankings
	})
	return err
}
