package feedback

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Service interface {
	Submit(ctx context.Context, f Feedback) (*Feedback, error)
	Recent(ctx context.Context, limit int) ([]Feedback, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Submit(ctx context.Context, f Feedback) (*Feedback, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &f); err != nil {
		log.Error().Err(err).Msg("service: failed to save feedback")
		return nil, fmt.Errorf("service: failed to save feedback: %w", err)
	}

	log.Info().Int64("feedback_id", f.ID).Int("rating", f.Rating).Msg("Feedback submitted")
	return &f, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]Feedback, error) {
	if limit <= 0 {
		limit = 5
	}

	entries, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load feedback: %w", err)
	}
	if entries == nil {
		entries = []Feedback{}
	}

	return entries, nil
}
