package timeslot

import (
	"context"
	"errors"
	"fmt"
	"math"

	"mobilemech/database/repository"
	"mobilemech/metrics"
	"mobilemech/models"
	"mobilemech/services/apperr"
	"mobilemech/utils"

	"go.uber.org/zap"
)

func (s *DefaultSlotService) GetSlot(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	slot, err := s.Repo.GetByID(ctx, slotID)
	if err != nil {
		return nil, slotErr(slotID, err)
	}
	return slot, nil
}

func (s *DefaultSlotService) LookupSlot(ctx context.Context, serviceID, date, tm string) (*models.TimeSlot, error) {
	slot, err := s.Repo.FindByKey(ctx, serviceID, date, tm)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return slot, nil
}

// Reserve marks a bookable slot as held by bookingID. Losing a concurrent
// race and hitting a disabled slot both yield SlotUnavailable.
func (s *DefaultSlotService) Reserve(ctx context.Context, slotID, bookingID string) (*models.TimeSlot, error) {
	slot, err := s.Repo.Reserve(ctx, slotID, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			metrics.IncReservationConflict()
			return nil, apperr.NewSlotUnavailable(slotID)
		}
		return nil, slotErr(slotID, err)
	}
	return slot, nil
}

func (s *DefaultSlotService) Release(ctx context.Context, slotID, bookingID string) (*models.TimeSlot, error) {
	slot, err := s.Repo.Release(ctx, slotID, bookingID)
	if err != nil {
		return nil, slotErr(slotID, err)
	}
	return slot, nil
}

// SetAvailability toggles the admin flag. It is independent of isBooked: a
// disabled booked slot keeps its booking and cannot be re-reserved after release.
func (s *DefaultSlotService) SetAvailability(ctx context.Context, slotID string, isAvailable bool) (*models.TimeSlot, error) {
	return s.UpdateSlot(ctx, slotID, models.UpdateSlotRequest{IsAvailable: &isAvailable})
}

func (s *DefaultSlotService) UpdateSlot(ctx context.Context, slotID string, req models.UpdateSlotRequest) (*models.TimeSlot, error) {
	if req.IsAvailable == nil && req.Notes == nil {
		return nil, apperr.NewValidation("nothing to update; provide isAvailable or notes")
	}
	slot, err := s.Repo.UpdateAdminFields(ctx, slotID, req.IsAvailable, req.Notes)
	if err != nil {
		return nil, slotErr(slotID, err)
	}
	return slot, nil
}

func (s *DefaultSlotService) DeleteSlot(ctx context.Context, slotID string) error {
	if err := s.Repo.Delete(ctx, slotID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return apperr.NewSlotInUse(slotID)
		}
		return slotErr(slotID, err)
	}
	metrics.AddSlotsDeleted(1)
	return nil
}

// DeleteSlots deletes every listed slot or, if any is booked, none of them.
func (s *DefaultSlotService) DeleteSlots(ctx context.Context, slotIDs []string) (int64, error) {
	ids := dedupe(slotIDs)
	if len(ids) == 0 {
		return 0, apperr.NewValidation("ids must be a non-empty list")
	}

	deleted, booked, err := s.Repo.DeleteManyUnbooked(ctx, ids)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, apperr.NewSlotInUse(booked...)
		}
		utils.GetLogger().Error("Bulk slot delete failed", zap.Strings("slotIDs", ids), zap.Error(err))
		return 0, err
	}
	metrics.AddSlotsDeleted(deleted)
	return deleted, nil
}

func (s *DefaultSlotService) FindAvailable(ctx context.Context, serviceID, date string) ([]string, error) {
	times, _, err := s.DayInventory(ctx, serviceID, date)
	return times, err
}

func (s *DefaultSlotService) DayInventory(ctx context.Context, serviceID, date string) ([]string, bool, error) {
	day, err := utils.NormalizeDate(date)
	if err != nil {
		return nil, false, apperr.NewValidation("%v", err)
	}
	slots, err := s.Repo.ListByServiceAndDate(ctx, serviceID, day)
	if err != nil {
		return nil, false, fmt.Errorf("list slots for %s on %s: %w", serviceID, day, err)
	}

	times := []string{}
	for i := range slots {
		if slots[i].Bookable() {
			times = append(times, slots[i].Time)
		}
	}
	return times, len(slots) > 0, nil
}

func (s *DefaultSlotService) FindWithFilters(ctx context.Context, filter models.SlotFilter, page, limit int) (*models.SlotPage, error) {
	page, limit, _ = repository.Paging(page, limit, utils.DefaultPageLimit, utils.MaxPageLimit)
	slots, total, err := s.Repo.Find(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}
	return &models.SlotPage{
		Slots:      slots,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: repository.TotalPages(total, limit),
	}, nil
}

// Statistics reports utilization as booked/total in percent, two decimals.
func (s *DefaultSlotService) Statistics(ctx context.Context, filter models.SlotFilter) (*models.SlotStatistics, error) {
	stats, err := s.Repo.Statistics(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats.UtilizationRate = utilization(stats.BookedSlots, stats.TotalSlots)
	return stats, nil
}

func utilization(booked, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(booked)/float64(total)*100*100) / 100
}

func slotErr(slotID string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NewSlotNotFound(slotID)
	}
	return err
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
