package site

import (
	"context"
	"fmt"

	"github.com/karan123216/Restaurant-Management-System/internal/catalog"
	"github.com/karan123216/Restaurant-Management-System/internal/feedback"
)

const homeFeedbackLimit = 5

type Service interface {
	Home(ctx context.Context) (*Home, error)
	About(ctx context.Context) ([]About, error)
}

type service struct {
	catalog  catalog.Service
	feedback feedback.Service
	about    AboutRepository
}

func NewService(catalogSvc catalog.Service, feedbackSvc feedback.Service, about AboutRepository) Service {
	return &service{catalog: catalogSvc, feedback: feedbackSvc, about: about}
}

func (s *service) Home(ctx context.Context) (*Home, error) {
	items, err := s.catalog.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	reviews, err := s.feedback.Recent(ctx, homeFeedbackLimit)
	if err != nil {
		return nil, err
	}

	return &Home{Items: items, Categories: categories, Reviews: reviews}, nil
}

func (s *service) About(ctx context.Context) ([]About, error) {
	entries, err := s.about.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load about us: %w", err)
	}
	if entries == nil {
		entries = []About{}
	}

	return entries, nil
}
