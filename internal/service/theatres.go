package service

import (
	"context"
	"fmt"
	"time"

	"bookit/internal/messaging"
	"bookit/internal/models"
)

type TheatreService struct {
	theatreRepo TheatreStore
	natsClient  messaging.Publisher
	cache       CachePurger
}

func NewTheatreService(theatreRepo TheatreStore, natsClient messaging.Publisher, cache CachePurger) *TheatreService {
	return &TheatreService{
		theatreRepo: theatreRepo,
		natsClient:  natsClient,
		cache:       cache,
	}
}

func (s *TheatreService) Create(ctx context.Context, req *models.CreateTheatreRequest) (*models.Theatre, error) {
	theatre := &models.Theatre{
		Name:     req.Name,
		Place:    req.Place,
		Capacity: req.Capacity.String(),
	}

	if err := s.theatreRepo.Create(ctx, theatre); err != nil {
		return nil, fmt.Errorf("failed to create theatre: %w", err)
	}

	s.afterWrite(ctx, models.EventTheatreCreated, theatre.ID, theatre)
	return theatre, nil
}

func (s *TheatreService) List(ctx context.Context) ([]models.Theatre, error) {
	theatres, err := s.theatreRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list theatres: %w", err)
	}
	return theatres, nil
}

func (s *TheatreService) Get(ctx context.Context, id string) (*models.Theatre, error) {
	theatre, err := s.theatreRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get theatre: %w", err)
	}
	return theatre, nil
}

// Update merges the present fields of req into the stored theatre.
func (s *TheatreService) Update(ctx context.Context, id string, req *models.UpdateTheatreRequest) (*models.Theatre, error) {
	theatre, err := s.theatreRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get theatre: %w", err)
	}

	theatre.ApplyPatch(req)

	if err := s.theatreRepo.Update(ctx, theatre); err != nil {
		return nil, fmt.Errorf("failed to update theatre: %w", err)
	}

	s.afterWrite(ctx, models.EventTheatreUpdated, theatre.ID, theatre)
	return theatre, nil
}

// Delete is a no-op success when id matches nothing.
func (s *TheatreService) Delete(ctx context.Context, id string) error {
	deleted, err := s.theatreRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete theatre: %w", err)
	}
	if deleted {
		s.afterWrite(ctx, models.EventTheatreDeleted, id, nil)
	}
	return nil
}

func (s *TheatreService) afterWrite(ctx context.Context, subject, id string, theatre *models.Theatre) {
	purge(ctx, s.cache)
	publish(ctx, s.natsClient, subject, models.TheatreEvent{
		TheatreID: id,
		Theatre:   theatre,
		Timestamp: time.Now(),
	})
}
