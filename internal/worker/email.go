// Package worker runs the background email pool. Jobs are pushed onto a
// Redis list and consumed by BRPOP workers; deliveries that fail end up in
// a dead-letter list with the failure reason attached.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	QueueEmail = "jobs:email"
	QueueDLQ   = "dlq:jobs:email"

	jobPasswordReset   = "password_reset"
	jobPasswordChanged = "password_changed"
)

// EmailJob is the queue payload.
type EmailJob struct {
	Type       string    `json:"type"`
	To         string    `json:"to"`
	Nombre     string    `json:"nombre"`
	ResetURL   string    `json:"reset_url,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// DeadLetter wraps a failed job with failure metadata.
type DeadLetter struct {
	Job      EmailJob  `json:"job"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

// Dispatcher enqueues email jobs. It satisfies service.MailQueue.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) EnqueuePasswordReset(ctx context.Context, to, nombre, resetURL string) error {
	return d.enqueue(ctx, EmailJob{
		Type:       jobPasswordReset,
		To:         to,
		Nombre:     nombre,
		ResetURL:   resetURL,
		EnqueuedAt: time.Now(),
	})
}

func (d *Dispatcher) EnqueuePasswordChanged(ctx context.Context, to, nombre string) error {
	return d.enqueue(ctx, EmailJob{
		Type:       jobPasswordChanged,
		To:         to,
		Nombre:     nombre,
		EnqueuedAt: time.Now(),
	})
}

func (d *Dispatcher) enqueue(ctx context.Context, job EmailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueEmail, payload).Err()
}
