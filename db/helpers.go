package db

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// initCollections creates the collections in the MongoDB database if they
// don't exist yet and binds the collection handles.
func (ms *MongoStorage) initCollections(database string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	// get the current collections names to create only the missing ones
	currentCollections, err := ms.collectionNames(ctx, database)
	if err != nil {
		return err
	}
	// aux method to get a collection if it exists, or create it if it doesn't
	getCollection := func(name string) (*mongo.Collection, error) {
		alreadyCreated := false
		for _, c := range currentCollections {
			if c == name {
				alreadyCreated = true
				break
			}
		}
		// if the collection doesn't exist, create it
		if !alreadyCreated {
			if err := ms.client.Database(database).CreateCollection(ctx, name); err != nil {
				return nil, err
			}
		}
		// return the collection
		return ms.client.Database(database).Collection(name), nil
	}
	// users collection
	if ms.users, err = getCollection("users"); err != nil {
		return err
	}
	// verifications collection
	if ms.verifications, err = getCollection("verifications"); err != nil {
		return err
	}
	// otpSessions collection
	if ms.otpSessions, err = getCollection("otpSessions"); err != nil {
		return err
	}
	// memberships collection
	if ms.memberships, err = getCollection("memberships"); err != nil {
		return err
	}
	// payments collection
	if ms.payments, err = getCollection("payments"); err != nil {
		return err
	}
	// bookings collection
	if ms.bookings, err = getCollection("bookings"); err != nil {
		return err
	}
	// goals collection
	if ms.goals, err = getCollection("goals"); err != nil {
		return err
	}
	// workouts collection
	if ms.workouts, err = getCollection("workouts"); err != nil {
		return err
	}
	// appointments collection
	if ms.appointments, err = getCollection("appointments"); err != nil {
		return err
	}
	// notifications collection
	if ms.notifications, err = getCollection("notifications"); err != nil {
		return err
	}
	return nil
}

// collectionNames returns the names of the collections in the given database.
// It uses the ListCollections method of the MongoDB client to get the
// collections info and decode the names from the result.
func (ms *MongoStorage) collectionNames(ctx context.Context, database string) ([]string, error) {
	collectionsCursor, err := ms.client.Database(database).ListCollections(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := collectionsCursor.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to close collections cursor")
		}
	}()
	collections := []bson.D{}
	if err := collectionsCursor.All(ctx, &collections); err != nil {
		return nil, err
	}
	names := []string{}
	for _, col := range collections {
		for _, v := range col {
			if v.Key == "name" {
				names = append(names, v.Value.(string))
			}
		}
	}
	return names, nil
}

// createIndexes creates the indexes for the collections in the MongoDB
// database. Add more indexes here as needed.
func (ms *MongoStorage) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	// create an index for the 'email' field on users (must be unique)
	userEmailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}}, // 1 for ascending order
		Options: options.Index().SetUnique(true),
	}
	if _, err := ms.users.Indexes().CreateOne(ctx, userEmailIndex); err != nil {
		return fmt.Errorf("failed to create index on email for users: %w", err)
	}
	// create an index for the ('code', 'type') tuple on user verifications (must be unique)
	verificationCodeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "code", Value: 1}, // 1 for ascending order
			{Key: "type", Value: 1}, // 1 for ascending order
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := ms.verifications.Indexes().CreateOne(ctx, verificationCodeIndex); err != nil {
		return fmt.Errorf("failed to create index on code for verifications: %w", err)
	}
	// expire OTP sessions automatically once their expiration passes
	otpExpirationIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "expiration", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := ms.otpSessions.Indexes().CreateOne(ctx, otpExpirationIndex); err != nil {
		return fmt.Errorf("failed to create index on expiration for otpSessions: %w", err)
	}
	// create an index for the ('userID', 'status') tuple on memberships
	membershipUserIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userID", Value: 1},
			{Key: "status", Value: 1},
		},
	}
	if _, err := ms.memberships.Indexes().CreateOne(ctx, membershipUserIndex); err != nil {
		return fmt.Errorf("failed to create index on userID for memberships: %w", err)
	}
	// create an index for the 'sessionID' field on payments (unique while set)
	paymentSessionIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "sessionID", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	}
	if _, err := ms.payments.Indexes().CreateOne(ctx, paymentSessionIndex); err != nil {
		return fmt.Errorf("failed to create index on sessionID for payments: %w", err)
	}
	// create an index for the 'userID' field on payments
	paymentUserIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "userID", Value: 1}},
	}
	if _, err := ms.payments.Indexes().CreateOne(ctx, paymentUserIndex); err != nil {
		return fmt.Errorf("failed to create index on userID for payments: %w", err)
	}
	// create an index for the 'userID' field on bookings
	bookingUserIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "userID", Value: 1}},
	}
	if _, err := ms.bookings.Indexes().CreateOne(ctx, bookingUserIndex); err != nil {
		return fmt.Errorf("failed to create index on userID for bookings: %w", err)
	}
	// create an index for the 'userID' field on notifications
	notificationUserIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "userID", Value: 1}},
	}
	if _, err := ms.notifications.Indexes().CreateOne(ctx, notificationUserIndex); err != nil {
		return fmt.Errorf("failed to create index on userID for notifications: %w", err)
	}
	return nil
}

// dynamicUpdateDocument creates a BSON update document from a struct, including only non-zero fields.
// It uses reflection to iterate over the struct fields and create the update document.
// The struct fields must have a bson tag to be included in the update document.
// The _id field is skipped.
func dynamicUpdateDocument(item interface{}, alwaysUpdateTags []string) (bson.M, error) {
	val := reflect.ValueOf(item)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if !val.IsValid() || val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input must be a valid struct")
	}
	update := bson.M{}
	typ := val.Type()
	// create a map for quick lookup
	alwaysUpdateMap := make(map[string]bool, len(alwaysUpdateTags))
	for _, tag := range alwaysUpdateTags {
		alwaysUpdateMap[tag] = true
	}
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanInterface() {
			continue
		}
		fieldType := typ.Field(i)
		// strip bson tag options such as omitempty
		tag, _, _ := strings.Cut(fieldType.Tag.Get("bson"), ",")
		if tag == "" || tag == "-" || tag == "_id" {
			continue
		}
		// check if the field should always be updated or is not the zero value
		_, alwaysUpdate := alwaysUpdateMap[tag]
		if alwaysUpdate || !reflect.DeepEqual(field.Interface(), reflect.Zero(field.Type()).Interface()) {
			update[tag] = field.Interface()
		}
	}
	return bson.M{"$set": update}, nil
}
