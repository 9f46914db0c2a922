package consumers

import (
	"context"
	"fmt"
	"log/slog"

	"bookit/internal/cache"
	"bookit/internal/config"
	"bookit/internal/database"
	"bookit/internal/messaging"
	"bookit/internal/models"
	"bookit/internal/repository"

	"github.com/nats-io/stan.go"
)

const queueGroup = "consumers"

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	handlers *Handlers
	subs     []stan.Subscription
}

func NewConsumerService(ctx context.Context, cfg *config.Config) (*ConsumerService, error) {
	if !cfg.NATS.Enabled() {
		return nil, fmt.Errorf("NATS_URL is required for the consumers service")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, err
	}

	cs := &ConsumerService{db: db, nats: natsClient}

	var purger CachePurger
	if cfg.Cache.Enabled() {
		cs.valkey, err = cache.NewValkeyClient(cfg.Cache)
		if err != nil {
			slog.Warn("Valkey unavailable, cache purge disabled", "error", err)
		} else {
			purger = cs.valkey
		}
	}

	repos := repository.NewRepositories(db)
	cs.handlers = NewHandlers(repos.Activity, purger)

	return cs, nil
}

// Start subscribes to every domain event subject in the consumers queue group.
func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	for _, subject := range models.AllEventSubjects {
		sub, err := cs.nats.SubscribeQueue(subject, queueGroup, cs.handlers.HandleEvent)
		if err != nil {
			return err
		}
		cs.subs = append(cs.subs, sub)
	}

	slog.Info("All consumers started successfully", "subjects", len(cs.subs))
	return nil
}

// DB exposes the pool to background jobs.
func (cs *ConsumerService) DB() *database.DB {
	return cs.db
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	// durable subscriptions are closed, not unsubscribed, to keep their position
	for _, sub := range cs.subs {
		if err := sub.Close(); err != nil {
			slog.Error("Error closing subscription", "error", err)
		}
	}

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.valkey != nil {
		if err := cs.valkey.Close(); err != nil {
			slog.Error("Error closing Valkey connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
