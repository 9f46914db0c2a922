package service

import (
	"context"

	"bookit/internal/auth"
	"bookit/internal/logger"
	"bookit/internal/messaging"
	"bookit/internal/models"
	"bookit/internal/repository"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type TheatreStore interface {
	Create(ctx context.Context, theatre *models.Theatre) error
	List(ctx context.Context) ([]models.Theatre, error)
	GetByID(ctx context.Context, id string) (*models.Theatre, error)
	Update(ctx context.Context, theatre *models.Theatre) error
	Delete(ctx context.Context, id string) (bool, error)
}

type ShowStore interface {
	Create(ctx context.Context, show *models.Show) error
	List(ctx context.Context, theatreID string) ([]models.Show, error)
	GetByID(ctx context.Context, id string) (*models.Show, error)
	Update(ctx context.Context, show *models.Show) error
	Delete(ctx context.Context, id string) (bool, error)
}

// CachePurger drops cached GET responses after a write.
type CachePurger interface {
	PurgeAll(ctx context.Context) (int, error)
}

// Stores bundles the persistence dependencies of the services.
type Stores struct {
	Users    UserStore
	Theatres TheatreStore
	Shows    ShowStore
}

// StoresFrom adapts the PostgreSQL repositories.
func StoresFrom(repos *repository.Repositories) Stores {
	return Stores{
		Users:    repos.Users,
		Theatres: repos.Theatres,
		Shows:    repos.Shows,
	}
}

type Services struct {
	Auth     *AuthService
	Theatres *TheatreService
	Shows    *ShowService
}

func NewServices(stores Stores, issuer *auth.TokenIssuer, bcryptCost int, publisher messaging.Publisher, purger CachePurger) *Services {
	return &Services{
		Auth:     NewAuthService(stores.Users, issuer, bcryptCost, publisher),
		Theatres: NewTheatreService(stores.Theatres, publisher, purger),
		Shows:    NewShowService(stores.Shows, publisher, purger),
	}
}

// publish logs but never fails the operation: events are best effort.
func publish(ctx context.Context, publisher messaging.Publisher, subject string, data any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err,
			"event_type", subject)
	}
}

func purge(ctx context.Context, purger CachePurger) {
	if purger == nil {
		return
	}
	if _, err := purger.PurgeAll(ctx); err != nil {
		logger.WithContext(ctx).Warn("Failed to purge response cache", "error", err)
	}
}
