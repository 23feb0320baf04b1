package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetVerificationCode method stores a typed verification code for the user
// provided, replacing any previous code of the same type. If an error occurs,
// it returns the error.
func (ms *MongoStorage) SetVerificationCode(user *User, code string, t CodeType, expiration time.Time) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	// try to get the user to ensure it exists
	if _, err := ms.fetchUserFromDB(ctx, user.ID); err != nil {
		return err
	}
	// insert the verification code document
	filter := bson.M{"_id": user.ID, "type": t}
	verification := &UserVerification{
		ID:         user.ID,
		Code:       code,
		Type:       t,
		Expiration: expiration,
	}
	opts := options.Replace().SetUpsert(true)
	_, err := ms.verifications.ReplaceOne(ctx, filter, verification, opts)
	return err
}

// UserByVerificationCode method returns the user with the given typed
// verification code, alongside the code expiration. If the code doesn't exist,
// it returns a specific error.
func (ms *MongoStorage) UserByVerificationCode(code string, t CodeType) (*User, *UserVerification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	result := ms.verifications.FindOne(ctx, bson.M{"code": code, "type": t})
	verification := &UserVerification{}
	if err := result.Decode(verification); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	user, err := ms.fetchUserFromDB(ctx, verification.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, verification, nil
}

// delVerificationCode internal method removes the typed verification code of
// the user with the given ID. This method must be called with the keysLock
// held.
func (ms *MongoStorage) delVerificationCode(ctx context.Context, id uint64, t CodeType) error {
	_, err := ms.verifications.DeleteOne(ctx, bson.M{"_id": id, "type": t})
	return err
}
