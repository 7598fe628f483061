package timeslot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mobilemech/database/repository"
	"mobilemech/metrics"
	"mobilemech/models"
	"mobilemech/services/apperr"
	"mobilemech/utils"

	"go.uber.org/zap"
)

// maxRecurringOccurrences bounds a single recurring request (one year of daily slots).
const maxRecurringOccurrences = 366

// CreateSlot creates one slot, or expands a recurring request.
func (s *DefaultSlotService) CreateSlot(ctx context.Context, req models.CreateSlotRequest, createdBy string) ([]models.TimeSlot, error) {
	if req.IsRecurring && req.RecurringPattern != "" && req.RecurringPattern != models.RecurringNone {
		return s.CreateRecurringSlots(ctx, req, createdBy)
	}

	if _, err := s.Catalog.GetService(ctx, req.ServiceID); err != nil {
		return nil, err
	}
	date, tm, err := normalizeKey(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	slot := newSlot(req.ServiceID, date, tm, createdBy, req.Notes)
	if err := s.insert(ctx, slot); err != nil {
		return nil, err
	}
	metrics.AddSlotsCreated(1)
	return []models.TimeSlot{*slot}, nil
}

// CreateRecurringSlots steps from the start date by the pattern up to and
// including the end date. Duplicate dates are skipped; other failures are
// logged and the batch continues.
func (s *DefaultSlotService) CreateRecurringSlots(ctx context.Context, req models.CreateSlotRequest, createdBy string) ([]models.TimeSlot, error) {
	if !req.RecurringPattern.Valid() || req.RecurringPattern == models.RecurringNone {
		return nil, apperr.NewValidation("recurringPattern must be one of daily, weekly, monthly")
	}
	if _, err := s.Catalog.GetService(ctx, req.ServiceID); err != nil {
		return nil, err
	}

	start, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, apperr.NewValidation("%v", err)
	}
	if strings.TrimSpace(req.RecurringEndDate) == "" {
		return nil, apperr.NewValidation("recurringEndDate is required for recurring slots")
	}
	end, err := utils.ParseDate(req.RecurringEndDate)
	if err != nil {
		return nil, apperr.NewValidation("%v", err)
	}
	if end.Before(start) {
		return nil, apperr.NewValidation("recurringEndDate must not be before date")
	}
	tm, err := utils.NormalizeTime(req.Time)
	if err != nil {
		return nil, apperr.NewValidation("%v", err)
	}

	dates := expandDates(start, end, req.RecurringPattern)
	if len(dates) > maxRecurringOccurrences {
		return nil, apperr.NewValidation("recurring range produces %d slots; the limit is %d", len(dates), maxRecurringOccurrences)
	}

	logger := utils.GetLogger()
	created := []models.TimeSlot{}
	for _, d := range dates {
		slot := newSlot(req.ServiceID, d.Format(utils.DateLayout), tm, createdBy, req.Notes)
		slot.IsRecurring = true
		slot.RecurringPattern = req.RecurringPattern
		slot.RecurringEndDate = end.Format(utils.DateLayout)

		if err := s.insert(ctx, slot); err != nil {
			if !apperr.Is(err, apperr.DuplicateSlot) {
				logger.Error("Failed to create recurring slot",
					zap.String("serviceID", req.ServiceID),
					zap.String("date", slot.Date),
					zap.String("time", tm),
					zap.Error(err))
			}
			continue
		}
		created = append(created, *slot)
	}
	metrics.AddSlotsCreated(len(created))
	return created, nil
}

// CreateBulkSlots creates the cartesian product of dates and times and
// reports each failed pair as an error string.
func (s *DefaultSlotService) CreateBulkSlots(ctx context.Context, req models.BulkCreateSlotsRequest, createdBy string) (*models.BulkCreateResult, error) {
	if len(req.Dates) == 0 || len(req.Times) == 0 {
		return nil, apperr.NewValidation("dates and times must both be non-empty")
	}
	if _, err := s.Catalog.GetService(ctx, req.ServiceID); err != nil {
		return nil, err
	}

	result := &models.BulkCreateResult{Created: []models.TimeSlot{}, Errors: []string{}}
	for _, rawDate := range req.Dates {
		for _, rawTime := range req.Times {
			date, tm, err := normalizeKey(rawDate, rawTime)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s %s: %s", rawDate, rawTime, messageOf(err)))
				continue
			}
			slot := newSlot(req.ServiceID, date, tm, createdBy, req.Notes)
			if err := s.insert(ctx, slot); err != nil {
				if apperr.CodeOf(err) == "" {
					utils.GetLogger().Error("Failed to create bulk slot",
						zap.String("serviceID", req.ServiceID), zap.String("date", date), zap.String("time", tm), zap.Error(err))
				}
				result.Errors = append(result.Errors, fmt.Sprintf("%s %s: %s", date, tm, messageOf(err)))
				continue
			}
			result.Created = append(result.Created, *slot)
		}
	}
	metrics.AddSlotsCreated(len(result.Created))
	return result, nil
}

func (s *DefaultSlotService) insert(ctx context.Context, slot *models.TimeSlot) error {
	if err := s.Repo.Create(ctx, slot); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.NewDuplicateSlot(slot.ServiceID, slot.Date, slot.Time)
		}
		return fmt.Errorf("create slot %s %s: %w", slot.Date, slot.Time, err)
	}
	return nil
}

func newSlot(serviceID, date, tm, createdBy, notes string) *models.TimeSlot {
	now := time.Now().UTC()
	return &models.TimeSlot{
		ServiceID:        serviceID,
		Date:             date,
		Time:             tm,
		IsAvailable:      true,
		IsBooked:         false,
		CreatedBy:        createdBy,
		RecurringPattern: models.RecurringNone,
		Notes:            notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// expandDates lists start, start+step, ... up to end inclusive. Monthly steps
// are taken from the start date so a 31st does not drift after short months.
func expandDates(start, end time.Time, pattern models.RecurringPattern) []time.Time {
	var out []time.Time
	for k := 0; ; k++ {
		var d time.Time
		switch pattern {
		case models.RecurringDaily:
			d = start.AddDate(0, 0, k)
		case models.RecurringWeekly:
			d = start.AddDate(0, 0, 7*k)
		case models.RecurringMonthly:
			d = start.AddDate(0, k, 0)
		default:
			return out
		}
		if d.After(end) {
			return out
		}
		out = append(out, d)
	}
}

func normalizeKey(rawDate, rawTime string) (string, string, error) {
	date, err := utils.NormalizeDate(rawDate)
	if err != nil {
		return "", "", apperr.NewValidation("%v", err)
	}
	tm, err := utils.NormalizeTime(rawTime)
	if err != nil {
		return "", "", apperr.NewValidation("%v", err)
	}
	return date, tm, nil
}

func messageOf(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "could not create time slot"
}
