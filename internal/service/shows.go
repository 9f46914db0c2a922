package service

import (
	"context"
	"fmt"
	"time"

	"bookit/internal/messaging"
	"bookit/internal/models"
)

type ShowService struct {
	showRepo   ShowStore
	natsClient messaging.Publisher
	cache      CachePurger
}

func NewShowService(showRepo ShowStore, natsClient messaging.Publisher, cache CachePurger) *ShowService {
	return &ShowService{
		showRepo:   showRepo,
		natsClient: natsClient,
		cache:      cache,
	}
}

// Create stores a show under theatreID. An unknown theatre yields ErrConflict.
func (s *ShowService) Create(ctx context.Context, theatreID string, req *models.CreateShowRequest) (*models.Show, error) {
	show := &models.Show{
		Name:      req.Name,
		Rating:    req.Rating,
		Tags:      req.Tags,
		TheatreID: theatreID,
	}
	if req.TicketPrice != nil {
		show.TicketPrice = *req.TicketPrice
	}

	if err := s.showRepo.Create(ctx, show); err != nil {
		return nil, fmt.Errorf("failed to create show: %w", err)
	}

	s.afterWrite(ctx, models.EventShowCreated, show.ID, show)
	return show, nil
}

// List returns all shows, or only those of theatreID when it is set.
func (s *ShowService) List(ctx context.Context, theatreID string) ([]models.Show, error) {
	shows, err := s.showRepo.List(ctx, theatreID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}
	return shows, nil
}

func (s *ShowService) Get(ctx context.Context, id string) (*models.Show, error) {
	show, err := s.showRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get show: %w", err)
	}
	return show, nil
}

// Update merges the present fields of req, including a new theatre_id.
func (s *ShowService) Update(ctx context.Context, id string, req *models.UpdateShowRequest) (*models.Show, error) {
	show, err := s.showRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get show: %w", err)
	}

	show.ApplyPatch(req)

	if err := s.showRepo.Update(ctx, show); err != nil {
		return nil, fmt.Errorf("failed to update show: %w", err)
	}

	s.afterWrite(ctx, models.EventShowUpdated, show.ID, show)
	return show, nil
}

func (s *ShowService) Delete(ctx context.Context, id string) error {
	deleted, err := s.showRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete show: %w", err)
	}
	if deleted {
		s.afterWrite(ctx, models.EventShowDeleted, id, nil)
	}
	return nil
}

func (s *ShowService) afterWrite(ctx context.Context, subject, id string, show *models.Show) {
	purge(ctx, s.cache)
	publish(ctx, s.natsClient, subject, models.ShowEvent{
		ShowID:    id,
		Show:      show,
		Timestamp: time.Now(),
	})
}
