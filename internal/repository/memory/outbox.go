package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
)

type outboxRepo struct {
	store *Store
}

func (r *outboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = model.OutboxStatusPending
	}
	now := r.store.next()
	event.CreatedAt, event.UpdatedAt = now, now

	copied := *event
	r.store.outbox[event.ID] = &copied
	return nil
}

func (r *outboxRepo) GetPendingWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	now := r.store.clock()
	var events []*model.OutboxEvent
	for _, event := range r.store.outbox {
		if event.Status != model.OutboxStatusPending {
			continue
		}
		if event.RetryAt != nil && event.RetryAt.After(now) {
			continue
		}
		copied := *event
		events = append(events, &copied)
	}
	sortByCreatedDesc(events, func(e *model.OutboxEvent) time.Time { return e.CreatedAt })
	// Oldest first, matching the poll query.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (r *outboxRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	event, ok := r.store.outbox[id]
	if !ok {
		return apperrors.NotFound("outbox event", nil)
	}
	now := r.store.next()
	event.Status = model.OutboxStatusProcessed
	event.ProcessedAt = &now
	event.ErrorMessage = nil
	event.UpdatedAt = now
	return nil
}

func (r *outboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt *time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	event, ok := r.store.outbox[id]
	if !ok {
		return apperrors.NotFound("outbox event", nil)
	}
	event.Status = model.OutboxStatusFailed
	if retryAt != nil {
		event.Status = model.OutboxStatusPending
	}
	event.ErrorMessage = &errMsg
	event.RetryCount++
	event.RetryAt = retryAt
	event.UpdatedAt = r.store.next()
	return nil
}

func (r *outboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var deleted int64
	for id, event := range r.store.outbox {
		if event.Status == model.OutboxStatusProcessed && event.ProcessedAt != nil && event.ProcessedAt.Before(before) {
			delete(r.store.outbox, id)
			deleted++
		}
	}
	return deleted, nil
}
