package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	QueueAudit = "jobs:audit"
	QueueEmail = "jobs:email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Enqueued time.Time       `json:"enqueued"`
	Payload  json.RawMessage `json:"payload"`
}

// AuditPayload is an audit-log entry waiting to be persisted.
type AuditPayload struct {
	Message    string  `json:"message"`
	ExecutedBy *string `json:"executedBy,omitempty"`
}

// EmailPayload is an order-completed notification.
type EmailPayload struct {
	OrderID uint   `json:"orderId"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueAudit pushes an audit-log write job to Redis.
func (d *Dispatcher) EnqueueAudit(ctx context.Context, payload AuditPayload) error {
	return d.enqueue(ctx, QueueAudit, "audit", payload)
}

// EnqueueEmail pushes a notification email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailPayload) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{ID: uuid.NewString(), Type: jobType, Enqueued: time.Now(), Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
