package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetMembership method creates or updates the membership in the database and
// returns its ID. New memberships get a creation timestamp and start as
// Pending unless a status is provided.
func (ms *MongoStorage) SetMembership(membership *Membership) (primitive.ObjectID, error) {
	if membership.UserID == 0 || membership.PlanType == "" {
		return primitive.NilObjectID, ErrInvalidData
	}
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if membership.ID.IsZero() {
		membership.ID = primitive.NewObjectID()
		if membership.Status == "" {
			membership.Status = MembershipPending
		}
		if membership.CreatedAt.IsZero() {
			membership.CreatedAt = time.Now()
		}
		if _, err := ms.memberships.InsertOne(ctx, membership); err != nil {
			return primitive.NilObjectID, err
		}
		return membership.ID, nil
	}
	updateDoc, err := dynamicUpdateDocument(membership, nil)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := ms.memberships.UpdateOne(ctx, bson.M{"_id": membership.ID}, updateDoc); err != nil {
		return primitive.NilObjectID, err
	}
	return membership.ID, nil
}

// Membership method returns the membership with the given ID. If it doesn't
// exist, it returns a specific error.
func (ms *MongoStorage) Membership(id primitive.ObjectID) (*Membership, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	result := ms.memberships.FindOne(ctx, bson.M{"_id": id})
	membership := &Membership{}
	if err := result.Decode(membership); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return membership, nil
}

// MembershipsByUser method returns the memberships of the user with the given
// ID, newest first.
func (ms *MongoStorage) MembershipsByUser(userID uint64) ([]*Membership, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ms.memberships.Find(ctx, bson.M{"userID": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()
	var memberships []*Membership
	if err := cursor.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// PendingMembershipByUser method returns the most recent Pending membership of
// the user with the given ID. If none exists, it returns a specific error.
func (ms *MongoStorage) PendingMembershipByUser(userID uint64) (*Membership, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"userID": userID, "status": MembershipPending}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	membership := &Membership{}
	if err := ms.memberships.FindOne(ctx, filter, opts).Decode(membership); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return membership, nil
}

// ActiveMembershipByUser method returns the Active membership of the user with
// the given ID, if any.
func (ms *MongoStorage) ActiveMembershipByUser(userID uint64) (*Membership, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"userID": userID, "status": MembershipActive}
	membership := &Membership{}
	if err := ms.memberships.FindOne(ctx, filter).Decode(membership); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return membership, nil
}

// ActivateMembership method marks the given membership as Active with the
// provided period and expires every other membership of the same user. If the
// membership doesn't exist or doesn't belong to the user, it returns a
// specific error.
func (ms *MongoStorage) ActivateMembership(userID uint64, id primitive.ObjectID, start, end time.Time) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	// expire every other non-expired membership of the user first, so the
	// single-active invariant holds even if the second write fails
	expireFilter := bson.M{
		"userID": userID,
		"_id":    bson.M{"$ne": id},
		"status": bson.M{"$ne": MembershipExpired},
	}
	expireUpdate := bson.M{"$set": bson.M{"status": MembershipExpired}}
	if _, err := ms.memberships.UpdateMany(ctx, expireFilter, expireUpdate); err != nil {
		return err
	}
	// activate the target membership
	filter := bson.M{"_id": id, "userID": userID}
	update := bson.M{"$set": bson.M{
		"status":    MembershipActive,
		"startDate": start,
		"endDate":   end,
	}}
	res, err := ms.memberships.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DelMembership method deletes the membership with the given ID. If an error
// occurs, it returns the error.
func (ms *MongoStorage) DelMembership(id primitive.ObjectID) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, err := ms.memberships.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
