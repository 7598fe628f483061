// File: database/repository/timeslot/queries.go
package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"mobilemech/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoTimeSlotRepo) ListByServiceAndDate(ctx context.Context, serviceID, date string) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"serviceId": serviceID, "date": date}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeslots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.TimeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding timeslots: %w", err)
	}
	return slots, nil
}

func (r *mongoTimeSlotRepo) Find(ctx context.Context, filter models.SlotFilter, page, limit int) ([]models.TimeSlot, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := filterDocument(filter)
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count timeslots: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch timeslots: %w", err)
	}
	defer cursor.Close(ctx)

	slots := []models.TimeSlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, 0, fmt.Errorf("error decoding timeslots: %w", err)
	}
	return slots, total, nil
}

func filterDocument(filter models.SlotFilter) bson.M {
	query := bson.M{}
	if filter.ServiceID != "" {
		query["serviceId"] = filter.ServiceID
	}
	dateRange := bson.M{}
	if filter.DateRange.From != "" {
		dateRange["$gte"] = filter.DateRange.From
	}
	if filter.DateRange.To != "" {
		dateRange["$lte"] = filter.DateRange.To
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	if filter.IsAvailable != nil {
		query["isAvailable"] = *filter.IsAvailable
	}
	if filter.IsBooked != nil {
		query["isBooked"] = *filter.IsBooked
	}
	return query
}
