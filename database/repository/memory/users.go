package memory

import (
	"context"
	"strings"
	"time"

	"mobilemech/database/repository"
	"mobilemech/models"

	"github.com/google/uuid"
)

type userStore struct{ s *Store }

func (r *userStore) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range r.s.users {
		if existing.ID == user.ID || existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.CreatedAt = time.Now().UTC()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userStore) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}
