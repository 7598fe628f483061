package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"mobilemech/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Statistics counts slots by state in a single aggregation pass. The
// utilization rate is left to the caller.
func (r *mongoTimeSlotRepo) Statistics(ctx context.Context, filter models.SlotFilter) (*models.SlotStatistics, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	countIf := func(cond bson.M) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{cond, 1, 0}}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filterDocument(filter)}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"totalSlots": bson.M{"$sum": 1},
			"availableSlots": countIf(bson.M{"$and": bson.A{
				bson.M{"$eq": bson.A{"$isAvailable", true}},
				bson.M{"$eq": bson.A{"$isBooked", false}},
			}}),
			"bookedSlots":      countIf(bson.M{"$eq": bson.A{"$isBooked", true}}),
			"unavailableSlots": countIf(bson.M{"$eq": bson.A{"$isAvailable", false}}),
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate timeslot statistics: %w", err)
	}
	defer cursor.Close(ctx)

	var result []models.SlotStatistics
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}
	if len(result) == 0 {
		return &models.SlotStatistics{}, nil
	}
	return &result[0], nil
}
