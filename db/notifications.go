package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddNotification stores an in-app notification for the user and returns its
// ID.
func (ms *MongoStorage) AddNotification(notification *Notification) (primitive.ObjectID, error) {
	if notification.UserID == 0 || notification.Message == "" {
		return primitive.NilObjectID, ErrInvalidData
	}
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	notification.ID = primitive.NewObjectID()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	if _, err := ms.notifications.InsertOne(ctx, notification); err != nil {
		return primitive.NilObjectID, err
	}
	return notification.ID, nil
}

// NotificationsByUser returns the notifications of the user, newest first.
func (ms *MongoStorage) NotificationsByUser(userID uint64) ([]*Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ms.notifications.Find(ctx, bson.M{"userID": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()
	var notifications []*Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead marks the notification as read. The filter includes the
// user ID so users can only touch their own notifications.
func (ms *MongoStorage) MarkNotificationRead(id primitive.ObjectID, userID uint64) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "userID": userID}
	res, err := ms.notifications.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Notification returns the notification with the given ID.
func (ms *MongoStorage) Notification(id primitive.ObjectID) (*Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	notification := &Notification{}
	if err := ms.notifications.FindOne(ctx, bson.M{"_id": id}).Decode(notification); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return notification, nil
}

// DelNotification deletes the notification with the given ID.
func (ms *MongoStorage) DelNotification(id primitive.ObjectID) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, err := ms.notifications.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
