// Package audit records entity change history without blocking the write
// paths that produce it. Events are queued to a single writer goroutine;
// when the queue is full the event is dropped and logged, never waited on.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"admission-backend/internal/models"
	"admission-backend/internal/repositories"
)

type Recorder struct {
	repo *repositories.AuditLogRepository
	ch   chan *models.AuditEvent
	done chan struct{}
}

func NewRecorder(repo *repositories.AuditLogRepository) *Recorder {
	r := &Recorder{
		repo: repo,
		ch:   make(chan *models.AuditEvent, 256),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer close(r.done)
	for e := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.repo.Create(ctx, e); err != nil {
			log.Printf("[AUDIT] write failed for %s %s/%d: %v", e.Action, e.EntityType, e.EntityID, err)
		}
		cancel()
	}
}

// Record queues one change event. Safe to call on a nil recorder, which
// lets handlers and services run without auditing in tests.
func (r *Recorder) Record(action, entityType string, entityID int, before, after interface{}, actorID int) {
	if r == nil {
		return
	}
	e := &models.AuditEvent{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Before:     marshal(before),
		After:      marshal(after),
		ActorID:    actorID,
	}
	select {
	case r.ch <- e:
	default:
		log.Printf("[AUDIT] queue full, dropping %s %s/%d", action, entityType, entityID)
	}
}

// Close drains the queue and stops the writer.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	close(r.ch)
	<-r.done
}

func marshal(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}
