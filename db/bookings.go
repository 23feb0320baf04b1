package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetBooking method creates or updates the spa booking in the database and
// returns its ID. New bookings get a creation timestamp and start as Pending
// unless a status is provided.
func (ms *MongoStorage) SetBooking(booking *SpaBooking) (primitive.ObjectID, error) {
	if booking.UserID == 0 || booking.Service == "" {
		return primitive.NilObjectID, ErrInvalidData
	}
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
		if booking.Status == "" {
			booking.Status = BookingPending
		}
		if booking.CreatedAt.IsZero() {
			booking.CreatedAt = time.Now()
		}
		if _, err := ms.bookings.InsertOne(ctx, booking); err != nil {
			return primitive.NilObjectID, err
		}
		return booking.ID, nil
	}
	updateDoc, err := dynamicUpdateDocument(booking, nil)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := ms.bookings.UpdateOne(ctx, bson.M{"_id": booking.ID}, updateDoc); err != nil {
		return primitive.NilObjectID, err
	}
	return booking.ID, nil
}

// Booking method returns the spa booking with the given ID. If it doesn't
// exist, it returns a specific error.
func (ms *MongoStorage) Booking(id primitive.ObjectID) (*SpaBooking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	booking := &SpaBooking{}
	if err := ms.bookings.FindOne(ctx, bson.M{"_id": id}).Decode(booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

// BookingsByUser method returns the spa bookings of the user with the given
// ID, newest first.
func (ms *MongoStorage) BookingsByUser(userID uint64) ([]*SpaBooking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ms.bookings.Find(ctx, bson.M{"userID": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()
	var bookings []*SpaBooking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ConfirmBooking method transitions the booking from Pending to Confirmed and
// records the payment that settled it. The update is conditional on the
// current status, so repeated confirmations apply once. If the booking was
// already Confirmed, it returns a specific error.
func (ms *MongoStorage) ConfirmBooking(id, paymentID primitive.ObjectID) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": BookingPending}
	update := bson.M{"$set": bson.M{"status": BookingConfirmed, "paymentID": paymentID}}
	res, err := ms.bookings.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DelBooking method deletes the spa booking with the given ID.
func (ms *MongoStorage) DelBooking(id primitive.ObjectID) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, err := ms.bookings.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
