package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetOTPSession method stores the pre-payment verification session for the
// user, replacing any previous one. The session document is keyed by the user
// ID, so a user can never hold more than one live code.
func (ms *MongoStorage) SetOTPSession(session *OTPSession) error {
	if session.UserID == 0 || session.Code == "" {
		return ErrInvalidData
	}
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": session.UserID}
	opts := options.Replace().SetUpsert(true)
	_, err := ms.otpSessions.ReplaceOne(ctx, filter, session, opts)
	return err
}

// OTPSessionByUser method returns the live verification session of the user
// with the given ID. If no session exists, it returns a specific error.
func (ms *MongoStorage) OTPSessionByUser(userID uint64) (*OTPSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	result := ms.otpSessions.FindOne(ctx, bson.M{"_id": userID})
	session := &OTPSession{}
	if err := result.Decode(session); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return session, nil
}

// DelOTPSession method removes the verification session of the user with the
// given ID. Deleting a missing session is not an error.
func (ms *MongoStorage) DelOTPSession(userID uint64) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, err := ms.otpSessions.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}
