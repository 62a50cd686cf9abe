// Package messaging delivers domain events to an MQTT broker or, when no
// broker is configured, to the structured log.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"account-rbac-service/internal/domain/event"
	"account-rbac-service/internal/logger"

	"go.uber.org/zap"
)

// Client is the part of the MQTT client the publisher needs.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

type MQTTPublisher struct {
	client Client
	prefix string
	qos    byte
}

func NewMQTTPublisher(client Client, prefix string, qos byte) *MQTTPublisher {
	return &MQTTPublisher{
		client: client,
		prefix: strings.TrimRight(prefix, "/"),
		qos:    qos,
	}
}

// Topic maps an event type to its topic: "user.created" under prefix
// "accounts/events" becomes "accounts/events/user/created".
func (p *MQTTPublisher) Topic(t event.Type) string {
	suffix := strings.ReplaceAll(string(t), ".", "/")
	if p.prefix == "" {
		return suffix
	}
	return p.prefix + "/" + suffix
}

func (p *MQTTPublisher) Publish(ctx context.Context, e event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", e.Type, err)
	}

	topic := p.Topic(e.Type)
	if err := p.client.Publish(topic, p.qos, false, payload); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("topic", topic),
			zap.String("subject", e.Subject),
			zap.Error(err),
		)
		return err
	}

	logger.Debug("Event published",
		zap.String("topic", topic),
		zap.String("subject", e.Subject),
	)
	return nil
}

// LogPublisher writes events to the application log.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (LogPublisher) Publish(_ context.Context, e event.Event) error {
	fields := []zap.Field{
		zap.String("type", string(e.Type)),
		zap.String("subject", e.Subject),
		zap.Time("occurred_at", e.OccurredAt),
	}
	for k, v := range e.Attributes {
		fields = append(fields, zap.String(k, v))
	}
	logger.Info("Event", fields...)
	return nil
}
