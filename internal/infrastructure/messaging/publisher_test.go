package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"account-rbac-service/internal/domain/event"
)

type recordedMessage struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	messages []recordedMessage
	err      error
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, recordedMessage{topic, qos, retained, payload})
	return nil
}

func TestMQTTPublisherTopic(t *testing.T) {
	tests := []struct {
		prefix string
		typ    event.Type
		want   string
	}{
		{"accounts/events", event.UserCreated, "accounts/events/user/created"},
		{"accounts/events/", event.RoleAssigned, "accounts/events/rbac/role_assigned"},
		{"", event.OtpExhausted, "otp/exhausted"},
	}

	for _, tt := range tests {
		p := NewMQTTPublisher(&fakeClient{}, tt.prefix, 1)
		if got := p.Topic(tt.typ); got != tt.want {
			t.Errorf("Topic(%q) with prefix %q = %q, want %q", tt.typ, tt.prefix, got, tt.want)
		}
	}
}

func TestMQTTPublisherPublish(t *testing.T) {
	client := &fakeClient{}
	p := NewMQTTPublisher(client, "accounts/events", 1)
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	e := event.New(event.UserDeleted, "0b7c", now, map[string]string{"actor": "admin"})
	if err := p.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(client.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(client.messages))
	}
	msg := client.messages[0]
	if msg.topic != "accounts/events/user/deleted" || msg.qos != 1 || msg.retained {
		t.Fatalf("unexpected delivery: %+v", msg)
	}

	var decoded event.Event
	if err := json.Unmarshal(msg.payload, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded.Type != event.UserDeleted || decoded.Subject != "0b7c" || !decoded.OccurredAt.Equal(now) {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
	if decoded.Attributes["actor"] != "admin" {
		t.Fatalf("attributes lost: %v", decoded.Attributes)
	}
}

func TestMQTTPublisherPropagatesErrors(t *testing.T) {
	brokerErr := errors.New("broker down")
	p := NewMQTTPublisher(&fakeClient{err: brokerErr}, "x", 0)

	err := p.Publish(context.Background(), event.New(event.TokenRevoked, "t", time.Now(), nil))
	if !errors.Is(err, brokerErr) {
		t.Fatalf("expected broker error, got %v", err)
	}
}

func TestMQTTPublisherCancelledContext(t *testing.T) {
	client := &fakeClient{}
	p := NewMQTTPublisher(client, "x", 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Publish(ctx, event.New(event.UserCreated, "u", time.Now(), nil)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(client.messages) != 0 {
		t.Fatal("nothing should be sent on a cancelled context")
	}
}

func TestLogPublisher(t *testing.T) {
	if err := NewLogPublisher().Publish(context.Background(), event.New(event.UserCreated, "u", time.Now(), map[string]string{"k": "v"})); err != nil {
		t.Fatalf("LogPublisher.Publish() error = %v", err)
	}
}
