package memory

import (
	"context"
	"sort"

	"mobilemech/database/repository"
	"mobilemech/models"

	"github.com/google/uuid"
)

type serviceRepo struct{ s *Store }

func (r *serviceRepo) Create(_ context.Context, service *models.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if service.ID == "" {
		service.ID = uuid.New().String()
	}
	if _, ok := r.s.services[service.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.services[service.ID] = cloneService(*service)
	return nil
}

func (r *serviceRepo) GetByID(_ context.Context, id string) (*models.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	svc, ok := r.s.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	svc = cloneService(svc)
	return &svc, nil
}

func (r *serviceRepo) List(_ context.Context) ([]models.Service, error) {
	r.s.mu.Lock()
	out := make([]models.Service, 0, len(r.s.services))
	for _, svc := range r.s.services {
		out = append(out, cloneService(svc))
	}
	r.s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *serviceRepo) Update(_ context.Context, service *models.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.services[service.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.services[service.ID] = cloneService(*service)
	return nil
}

func cloneService(svc models.Service) models.Service {
	svc.AvailableDays = append([]string(nil), svc.AvailableDays...)
	svc.AvailableTimes = append([]string(nil), svc.AvailableTimes...)
	return svc
}
