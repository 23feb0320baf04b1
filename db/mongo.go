package db

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// MongoStorage uses an external MongoDB service for storing users,
// memberships, payments, bookings and the rest of the gym data.
type MongoStorage struct {
	client   *mongo.Client
	database string
	keysLock sync.RWMutex

	users         *mongo.Collection
	verifications *mongo.Collection
	otpSessions   *mongo.Collection
	memberships   *mongo.Collection
	payments      *mongo.Collection
	bookings      *mongo.Collection
	goals         *mongo.Collection
	workouts      *mongo.Collection
	appointments  *mongo.Collection
	notifications *mongo.Collection
}

func New(url, database string) (*MongoStorage, error) {
	ms := &MongoStorage{}
	if url == "" {
		return nil, fmt.Errorf("mongo URL is not defined")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database is not defined")
	}
	log.Info().Str("url", url).Str("database", database).Msg("connecting to mongodb")
	// preparing connection
	opts := options.Client()
	opts.ApplyURI(url)
	opts.SetMaxConnecting(200)
	timeout := time.Second * 10
	opts.ConnectTimeout = &timeout
	// create a new client with the connection options
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// check if the connection is successful
	ctx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	// init the collections
	ms.client = client
	ms.database = database
	if err := ms.initCollections(database); err != nil {
		return nil, err
	}
	// if reset flag is enabled, Reset drops the database documents and
	// recreates indexes, else just createIndexes
	if reset := os.Getenv("GYM_MONGO_RESET_DB"); reset != "" {
		if err := ms.Reset(); err != nil {
			return nil, err
		}
	} else {
		if err := ms.createIndexes(); err != nil {
			return nil, err
		}
	}
	return ms, nil
}

func (ms *MongoStorage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ms.client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to disconnect from mongodb")
	}
}

// Reset drops every collection and recreates the indexes.
func (ms *MongoStorage) Reset() error {
	log.Info().Msg("resetting database")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, col := range ms.collections() {
		if err := col.Drop(ctx); err != nil {
			return err
		}
	}
	if err := ms.initCollections(ms.database); err != nil {
		return err
	}
	return ms.createIndexes()
}

// collections returns every registered collection handle, used by Reset.
func (ms *MongoStorage) collections() []*mongo.Collection {
	return []*mongo.Collection{
		ms.users,
		ms.verifications,
		ms.otpSessions,
		ms.memberships,
		ms.payments,
		ms.bookings,
		ms.goals,
		ms.workouts,
		ms.appointments,
		ms.notifications,
	}
}
