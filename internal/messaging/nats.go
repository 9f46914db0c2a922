package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"bookit/internal/logger"

	"github.com/google/uuid"
	"github.com/nats-io/stan.go"
)

// Publisher is satisfied by NATSClient and NoopPublisher.
type Publisher interface {
	Publish(subject string, data any) error
}

type NATSClient struct {
	conn stan.Conn
}

type Config struct {
	URL       string
	ClusterID string
	ClientID  string
}

// Enabled reports whether a NATS Streaming URL was configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}

func NewNATSClient(cfg Config) (*NATSClient, error) {
	// уникальный client ID, чтобы несколько реплик не конфликтовали
	uniqueClientID := fmt.Sprintf("%s-%s", cfg.ClientID, uuid.New().String()[:8])

	conn, err := stan.Connect(cfg.ClusterID, uniqueClientID,
		stan.NatsURL(cfg.URL),
		stan.SetConnectionLostHandler(func(_ stan.Conn, reason error) {
			logger.Get().Error("NATS Streaming connection lost", "error", reason)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS Streaming: %w", err)
	}

	logger.Get().Info("Connected to NATS Streaming",
		"url", cfg.URL, "cluster", cfg.ClusterID, "client", uniqueClientID)

	return &NATSClient{conn: conn}, nil
}

func (nc *NATSClient) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := nc.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}

	logger.Get().Debug("Published message", "subject", subject)
	return nil
}

func (nc *NATSClient) SubscribeQueue(subject, queue string, handler stan.MsgHandler) (stan.Subscription, error) {
	sub, err := nc.conn.QueueSubscribe(subject, queue, handler,
		stan.DurableName(subject+"-"+queue+"-durable"),
		stan.SetManualAckMode(),
		stan.AckWait(30*time.Second),
		stan.MaxInflight(1))
	if err != nil {
		return nil, fmt.Errorf("failed to queue subscribe to subject %s: %w", subject, err)
	}

	logger.Get().Info("Subscribed to subject", "subject", subject, "queue", queue)
	return sub, nil
}

func (nc *NATSClient) Close() error {
	if nc.conn != nil {
		return nc.conn.Close()
	}
	return nil
}

// NoopPublisher drops every event. Used when NATS_URL is not set.
type NoopPublisher struct{}

func (NoopPublisher) Publish(subject string, _ any) error {
	logger.Get().Debug("Event publishing disabled, dropping message", "subject", subject)
	return nil
}
