// File: database/repository/timeslot/crud.go
package timeslotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobilemech/database/repository"
	"mobilemech/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoTimeSlotRepo) Create(ctx context.Context, slot *models.TimeSlot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, slot); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to insert timeslot: %w", err)
	}
	return nil
}

func (r *mongoTimeSlotRepo) GetByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.TimeSlot
	if err := r.coll.FindOne(ctx, bson.M{"id": slotID}).Decode(&slot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch timeslot %s: %w", slotID, err)
	}
	return &slot, nil
}

func (r *mongoTimeSlotRepo) FindByKey(ctx context.Context, serviceID, date, tm string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"serviceId": serviceID, "date": date, "time": tm}
	var slot models.TimeSlot
	if err := r.coll.FindOne(ctx, filter).Decode(&slot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch timeslot by key: %w", err)
	}
	return &slot, nil
}

func (r *mongoTimeSlotRepo) Reserve(ctx context.Context, slotID, bookingID string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Only a free, enabled slot matches; a lost race surfaces as ErrConflict.
	filter := bson.M{
		"id":          slotID,
		"isBooked":    false,
		"isAvailable": true,
	}
	update := bson.M{
		"$set": bson.M{
			"isBooked":  true,
			"bookingId": bookingID,
			"updatedAt": time.Now().UTC(),
		},
	}
	return r.conditionalUpdate(ctx, slotID, filter, update)
}

func (r *mongoTimeSlotRepo) Release(ctx context.Context, slotID, bookingID string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "isBooked": true}
	if bookingID != "" {
		filter["bookingId"] = bookingID
	}
	update := bson.M{
		"$set":   bson.M{"isBooked": false, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"bookingId": ""},
	}
	slot, err := r.conditionalUpdate(ctx, slotID, filter, update)
	if errors.Is(err, repository.ErrConflict) {
		// Already free (or held by someone else): nothing to release.
		return r.GetByID(ctx, slotID)
	}
	return slot, err
}

func (r *mongoTimeSlotRepo) UpdateAdminFields(ctx context.Context, slotID string, isAvailable *bool, notes *string) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if isAvailable != nil {
		set["isAvailable"] = *isAvailable
	}
	if notes != nil {
		set["notes"] = *notes
	}
	return r.conditionalUpdate(ctx, slotID, bson.M{"id": slotID}, bson.M{"$set": set})
}

func (r *mongoTimeSlotRepo) Delete(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": slotID, "isBooked": false})
	if err != nil {
		return fmt.Errorf("failed to delete timeslot %s: %w", slotID, err)
	}
	if res.DeletedCount == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, slotID); err != nil {
		return err
	}
	return repository.ErrConflict
}

func (r *mongoTimeSlotRepo) DeleteManyUnbooked(ctx context.Context, slotIDs []string) (int64, []string, error) {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return 0, nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var deleted int64
	var booked []string
	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		deleted, booked = 0, nil

		cursor, err := r.coll.Find(sc,
			bson.M{"id": bson.M{"$in": slotIDs}, "isBooked": true},
			options.Find().SetProjection(bson.M{"id": 1}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to check booked timeslots: %w", err)
		}
		var held []models.TimeSlot
		if err := cursor.All(sc, &held); err != nil {
			return nil, fmt.Errorf("error decoding booked timeslots: %w", err)
		}
		if len(held) > 0 {
			for _, s := range held {
				booked = append(booked, s.ID)
			}
			return nil, repository.ErrConflict
		}

		res, err := r.coll.DeleteMany(sc, bson.M{"id": bson.M{"$in": slotIDs}, "isBooked": false})
		if err != nil {
			return nil, fmt.Errorf("failed to delete timeslots: %w", err)
		}
		deleted = res.DeletedCount
		return nil, nil
	}

	if _, err := sess.WithTransaction(ctx, txnFn); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, booked, repository.ErrConflict
		}
		return 0, nil, fmt.Errorf("bulk delete transaction failed: %w", err)
	}
	return deleted, nil, nil
}

// conditionalUpdate applies update to the document matching filter and
// returns the post-image. A miss is reported as ErrNotFound when slotID does
// not exist at all, ErrConflict otherwise.
func (r *mongoTimeSlotRepo) conditionalUpdate(ctx context.Context, slotID string, filter, update bson.M) (*models.TimeSlot, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var slot models.TimeSlot
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot)
	if err == nil {
		return &slot, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update timeslot %s: %w", slotID, err)
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"id": slotID})
	if err != nil {
		return nil, fmt.Errorf("failed to check timeslot %s: %w", slotID, err)
	}
	if n == 0 {
		return nil, repository.ErrNotFound
	}
	return nil, repository.ErrConflict
}
