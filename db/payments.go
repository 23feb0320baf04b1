package db

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetPayment method creates or updates the payment in the database and
// returns its ID. New payments get a creation timestamp and start as Pending
// unless a status is provided.
func (ms *MongoStorage) SetPayment(payment *Payment) (primitive.ObjectID, error) {
	if payment.UserID == 0 || payment.Type == "" {
		return primitive.NilObjectID, ErrInvalidData
	}
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
		if payment.Status == "" {
			payment.Status = PaymentPending
		}
		if payment.CreatedAt.IsZero() {
			payment.CreatedAt = time.Now()
		}
		if _, err := ms.payments.InsertOne(ctx, payment); err != nil {
			if strings.Contains(err.Error(), "duplicate key error") {
				return primitive.NilObjectID, ErrAlreadyExists
			}
			return primitive.NilObjectID, err
		}
		return payment.ID, nil
	}
	updateDoc, err := dynamicUpdateDocument(payment, nil)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := ms.payments.UpdateOne(ctx, bson.M{"_id": payment.ID}, updateDoc); err != nil {
		if strings.Contains(err.Error(), "duplicate key error") {
			return primitive.NilObjectID, ErrAlreadyExists
		}
		return primitive.NilObjectID, err
	}
	return payment.ID, nil
}

// Payment method returns the payment with the given ID. If it doesn't exist,
// it returns a specific error.
func (ms *MongoStorage) Payment(id primitive.ObjectID) (*Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return ms.fetchPaymentFromDB(ctx, bson.M{"_id": id})
}

// PaymentBySessionID method returns the payment bound to the given provider
// checkout session. If none exists, it returns a specific error.
func (ms *MongoStorage) PaymentBySessionID(sessionID string) (*Payment, error) {
	if sessionID == "" {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return ms.fetchPaymentFromDB(ctx, bson.M{"sessionID": sessionID})
}

func (ms *MongoStorage) fetchPaymentFromDB(ctx context.Context, filter bson.M) (*Payment, error) {
	payment := &Payment{}
	if err := ms.payments.FindOne(ctx, filter).Decode(payment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// PendingMembershipPayment method returns the most recent Pending payment of
// the user for the given membership, if any.
func (ms *MongoStorage) PendingMembershipPayment(userID uint64, membershipID primitive.ObjectID) (*Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{
		"userID":       userID,
		"membershipID": membershipID,
		"status":       PaymentPending,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	payment := &Payment{}
	if err := ms.payments.FindOne(ctx, filter, opts).Decode(payment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// PendingBookingPayment method returns the most recent Pending payment of
// the user for the given spa booking, if any.
func (ms *MongoStorage) PendingBookingPayment(userID uint64, bookingID primitive.ObjectID) (*Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{
		"userID":    userID,
		"bookingID": bookingID,
		"status":    PaymentPending,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	payment := &Payment{}
	if err := ms.payments.FindOne(ctx, filter, opts).Decode(payment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// PaymentsByUser method returns the payments of the user with the given ID,
// newest first.
func (ms *MongoStorage) PaymentsByUser(userID uint64) ([]*Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ms.payments.Find(ctx, bson.M{"userID": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()
	var payments []*Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// CompletePayment method transitions the payment from Pending to Completed,
// recording when it was paid. The update is conditional on the current status,
// so concurrent or repeated completions apply exactly once. If the payment was
// already Completed or Failed, it returns a specific error.
func (ms *MongoStorage) CompletePayment(id primitive.ObjectID, paidAt time.Time) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": PaymentPending}
	update := bson.M{"$set": bson.M{"status": PaymentCompleted, "paidAt": paidAt}}
	res, err := ms.payments.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FailPayment method transitions the payment from Pending to Failed.
func (ms *MongoStorage) FailPayment(id primitive.ObjectID) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": PaymentPending}
	update := bson.M{"$set": bson.M{"status": PaymentFailed}}
	res, err := ms.payments.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearPaymentSession method removes the provider session binding of the
// payment, so a new checkout session can be attached on retry.
func (ms *MongoStorage) ClearPaymentSession(id primitive.ObjectID) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	update := bson.M{"$unset": bson.M{"sessionID": ""}}
	_, err := ms.payments.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// DelPayment method deletes the payment with the given ID.
func (ms *MongoStorage) DelPayment(id primitive.ObjectID) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, err := ms.payments.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
