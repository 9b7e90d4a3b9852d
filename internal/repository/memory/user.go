package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
)

type userRepo struct {
	store *Store
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.store.next()
	user.CreatedAt, user.UpdatedAt = now, now

	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

func (r *userRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, user := range r.store.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.users[user.ID]
	if !ok {
		return apperrors.NotFound("user", nil)
	}
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = r.store.next()

	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return apperrors.NotFound("user", nil)
	}
	delete(r.store.users, id)
	return nil
}
