package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"mobilemech/database/repository"
	"mobilemech/models"
	"mobilemech/services/apperr"
	"mobilemech/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var weekdayPrefixes = []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

func (s *DefaultCatalogService) CreateService(ctx context.Context, svc models.Service) (*models.Service, error) {
	if err := normalizeService(&svc); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	svc.ID = ""
	svc.CreatedAt = now
	svc.UpdatedAt = now

	if err := s.Repo.Create(ctx, &svc); err != nil {
		utils.GetLogger().Error("Failed to create service", zap.String("name", svc.Name), zap.Error(err))
		return nil, err
	}
	return &svc, nil
}

func (s *DefaultCatalogService) UpdateService(ctx context.Context, id string, req models.ServiceUpdateRequest) (*models.Service, error) {
	svc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Duration != nil {
		svc.Duration = *req.Duration
	}
	if req.AvailableDays != nil {
		svc.AvailableDays = *req.AvailableDays
	}
	if req.AvailableTimes != nil {
		svc.AvailableTimes = *req.AvailableTimes
	}
	if err := normalizeService(svc); err != nil {
		return nil, err
	}
	svc.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, svc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NewServiceNotFound(id)
		}
		utils.GetLogger().Error("Failed to update service", zap.String("serviceID", id), zap.Error(err))
		return nil, err
	}
	s.invalidate(ctx, id)
	return svc, nil
}

func (s *DefaultCatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	if svc, ok := s.cached(ctx, id); ok {
		return svc, nil
	}
	svc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(ctx, svc)
	return svc, nil
}

func (s *DefaultCatalogService) ListServices(ctx context.Context) ([]models.Service, error) {
	return s.Repo.List(ctx)
}

func (s *DefaultCatalogService) load(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NewServiceNotFound(id)
		}
		return nil, err
	}
	return svc, nil
}

// --- cache helpers; redis failures degrade to direct reads ---

func (s *DefaultCatalogService) cached(ctx context.Context, id string) (*models.Service, bool) {
	if s.Cache == nil {
		return nil, false
	}
	raw, err := s.Cache.Get(ctx, utils.CatalogCachePrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.GetLogger().Warn("Catalog cache read failed", zap.String("serviceID", id), zap.Error(err))
		}
		return nil, false
	}
	var svc models.Service
	if err := json.Unmarshal(raw, &svc); err != nil {
		utils.GetLogger().Warn("Discarding corrupt catalog cache entry", zap.String("serviceID", id), zap.Error(err))
		return nil, false
	}
	return &svc, true
}

func (s *DefaultCatalogService) store(ctx context.Context, svc *models.Service) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(svc)
	if err != nil {
		return
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = utils.DefaultCatalogCacheTTL
	}
	if err := s.Cache.Set(ctx, utils.CatalogCachePrefix+svc.ID, raw, ttl).Err(); err != nil {
		utils.GetLogger().Warn("Catalog cache write failed", zap.String("serviceID", svc.ID), zap.Error(err))
	}
}

func (s *DefaultCatalogService) invalidate(ctx context.Context, id string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, utils.CatalogCachePrefix+id).Err(); err != nil {
		utils.GetLogger().Warn("Catalog cache invalidation failed", zap.String("serviceID", id), zap.Error(err))
	}
}

// normalizeService validates admin input and canonicalizes the legacy
// availability fields.
func normalizeService(svc *models.Service) error {
	svc.Name = strings.TrimSpace(svc.Name)
	if svc.Name == "" {
		return apperr.NewValidation("service name is required")
	}
	if svc.Price < 0 {
		return apperr.NewValidation("service price cannot be negative")
	}
	if svc.Duration < 0 {
		return apperr.NewValidation("service duration cannot be negative")
	}

	times, err := utils.NormalizeTimes(svc.AvailableTimes)
	if err != nil {
		return apperr.NewValidation("%v", err)
	}
	svc.AvailableTimes = times

	for i, day := range svc.AvailableDays {
		if !knownWeekday(day) {
			return apperr.NewValidation("unknown weekday %q", day)
		}
		svc.AvailableDays[i] = strings.TrimSpace(day)
	}
	return nil
}

func knownWeekday(day string) bool {
	d := strings.ToLower(strings.TrimSpace(day))
	if len(d) < 3 {
		return false
	}
	for _, prefix := range weekdayPrefixes {
		if strings.HasPrefix(d, prefix) {
			return true
		}
	}
	return false
}
