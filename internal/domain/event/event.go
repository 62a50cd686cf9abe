// Package event describes lifecycle notifications emitted by the services.
package event

import (
	"context"
	"time"
)

//go:generate mockgen -source=event.go -destination=../../mocks/mock_event_publisher.go -package=mocks

type Type string

const (
	UserCreated       Type = "user.created"
	UserDeleted       Type = "user.deleted"
	UserRestored      Type = "user.restored"
	UserPurged        Type = "user.purged"
	TokenRevoked      Type = "token.revoked"
	OtpExhausted      Type = "otp.exhausted"
	OtpConsumed       Type = "otp.consumed"
	RoleAssigned      Type = "rbac.role_assigned"
	RoleUnassigned    Type = "rbac.role_unassigned"
	PermissionGranted Type = "rbac.permission_granted"
	PermissionRevoked Type = "rbac.permission_revoked"
	CredentialsSwept  Type = "credentials.swept"
)

// Event is a fact about a state change. Subject is the id of the entity it
// concerns.
type Event struct {
	Type       Type              `json:"type"`
	Subject    string            `json:"subject"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Publisher delivers events. Delivery failures never roll back the change the
// event describes.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// New builds an event stamped at now.
func New(t Type, subject string, now time.Time, attrs map[string]string) Event {
	return Event{Type: t, Subject: subject, OccurredAt: now, Attributes: attrs}
}
