package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobilemech/database/repository"
	"mobilemech/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new booking document.
func (r *mongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its ID.
func (r *mongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": bookingID})
}

// GetByVerificationToken retrieves the booking holding a custom-booking token.
func (r *mongoBookingRepo) GetByVerificationToken(ctx context.Context, token string) (*models.Booking, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"verificationToken": token})
}

func (r *mongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking: %w", err)
	}
	return &booking, nil
}

// ConditionalUpdate modifies a booking only while its status is one of whenStatus.
func (r *mongoBookingRepo) ConditionalUpdate(
	ctx context.Context,
	bookingID string,
	whenStatus []models.BookingStatus,
	upd BookingUpdate,
) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID}
	if len(whenStatus) > 0 {
		filter["status"] = bson.M{"$in": whenStatus}
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	unset := bson.M{}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Vehicle != nil {
		set["vehicle"] = *upd.Vehicle
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}
	if upd.ServiceStatus != nil {
		set["serviceStatus"] = *upd.ServiceStatus
	}
	if upd.SlotID != nil {
		set["slotId"] = *upd.SlotID
	}
	if upd.CustomerID != nil {
		set["customerId"] = *upd.CustomerID
	}
	if upd.CustomerEmail != nil {
		set["customerEmail"] = *upd.CustomerEmail
	}
	if upd.CustomerName != nil {
		set["customerName"] = *upd.CustomerName
	}
	if upd.VerifiedAt != nil {
		set["verifiedAt"] = *upd.VerifiedAt
	}
	if upd.LegacyHoldKey != nil {
		set["legacyHoldKey"] = *upd.LegacyHoldKey
	}
	if upd.ClearLegacyHold {
		unset["legacyHoldKey"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err == nil {
		return &booking, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, fmt.Errorf("error updating booking %s: %w", bookingID, err)
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"id": bookingID})
	if err != nil {
		return nil, fmt.Errorf("error checking booking %s: %w", bookingID, err)
	}
	if n == 0 {
		return nil, repository.ErrNotFound
	}
	return nil, repository.ErrConflict
}
