package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/opencampus/admission-backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// Kind identifies the event a message describes.
type Kind string

const (
	KindExamScheduled       Kind = "exam_scheduled"
	KindExamRescheduled     Kind = "exam_rescheduled"
	KindEnrollScheduled     Kind = "enrollment_scheduled"
	KindEnrollRescheduled   Kind = "enrollment_rescheduled"
	KindEnrollmentCompleted Kind = "enrollment_completed"
	KindEnrollmentCancelled Kind = "enrollment_cancelled"
)

// Message is one outbound applicant notification. Reschedule messages carry
// both the old and the new schedule values plus the admin-supplied reason.
type Message struct {
	Kind        Kind                   `json:"kind"`
	ApplicantID int                    `json:"applicant_id"`
	Email       string                 `json:"email"`
	Data        map[string]interface{} `json:"data,omitempty"`
	EnqueuedAt  time.Time              `json:"enqueued_at"`
}

// Gateway enqueues notifications for asynchronous delivery. Implementations
// must never block the calling request path on downstream delivery.
type Gateway interface {
	Send(ctx context.Context, msg Message) error
}

// QueueGateway pushes messages onto the Redis notification queue where the
// NotificationWorker picks them up.
type QueueGateway struct {
	rdb *redis.Client
}

// NewQueueGateway creates a new QueueGateway.
func NewQueueGateway(rdb *redis.Client) *QueueGateway {
	return &QueueGateway{rdb: rdb}
}

// Send marshals the message and pushes it onto the queue.
func (g *QueueGateway) Send(ctx context.Context, msg Message) error {
	if msg.EnqueuedAt.IsZero() {
		msg.EnqueuedAt = time.Now()
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return g.rdb.RPush(ctx, config.QueueKey.NotificationQueue, raw).Err()
}

// Noop discards every message. Used in tests and one-off commands.
type Noop struct{}

// Send implements Gateway.
func (Noop) Send(ctx context.Context, msg Message) error { return nil }
