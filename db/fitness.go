package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetGoal creates or updates a fitness goal and returns its ID.
func (ms *MongoStorage) SetGoal(goal *Goal) (primitive.ObjectID, error) {
	if goal.UserID == 0 || goal.Title == "" {
		return primitive.NilObjectID, ErrInvalidData
	}
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if goal.ID.IsZero() {
		goal.ID = primitive.NewObjectID()
		if goal.Status == "" {
			goal.Status = GoalInProgress
		}
		if goal.CreatedAt.IsZero() {
			goal.CreatedAt = time.Now()
		}
		if _, err := ms.goals.InsertOne(ctx, goal); err != nil {
			return primitive.NilObjectID, err
		}
		return goal.ID, nil
	}
	updateDoc, err := dynamicUpdateDocument(goal, nil)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := ms.goals.UpdateOne(ctx, bson.M{"_id": goal.ID}, updateDoc); err != nil {
		return primitive.NilObjectID, err
	}
	return goal.ID, nil
}

// Goal returns the goal with the given ID.
func (ms *MongoStorage) Goal(id primitive.ObjectID) (*Goal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	goal := &Goal{}
	if err := ms.goals.FindOne(ctx, bson.M{"_id": id}).Decode(goal); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return goal, nil
}

// GoalsByUser returns the goals of the user, newest first.
func (ms *MongoStorage) GoalsByUser(userID uint64) ([]*Goal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := ms.goals.Find(ctx, bson.M{"userID": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()
	var goals []*Goal
	if err := cursor.All(ctx, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// DelGoal deletes the goal with the given ID.
func (ms *MongoStorage) DelGoal(id primitive.ObjectID) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, err := ms.goals.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// SetWorkout creates or updates a workout and returns its ID.
func (ms *MongoStorage) SetWorkout(workout *Workout) (primitive.ObjectID, error) {
	if workout.UserID == 0 || workout.Title == "" {
		return primitive.NilObjectID, ErrInvalidData
	}
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if workout.ID.IsZero() {
		workout.ID = primitive.NewObjectID()
		if workout.Date.IsZero() {
			workout.Date = time.Now()
		}
		if _, err := ms.workouts.InsertOne(ctx, workout); err != nil {
			return primitive.NilObjectID, err
		}
		return workout.ID, nil
	}
	updateDoc, err := dynamicUpdateDocument(workout, nil)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := ms.workouts.UpdateOne(ctx, bson.M{"_id": workout.ID}, updateDoc); err != nil {
		return primitive.NilObjectID, err
	}
	return workout.ID, nil
}

// Workout returns the workout with the given ID.
func (ms *MongoStorage) Workout(id primitive.ObjectID) (*Workout, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	workout := &Workout{}
	if err := ms.workouts.FindOne(ctx, bson.M{"_id": id}).Decode(workout); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return workout, nil
}

// WorkoutsByUser returns the workouts of the user, newest first.
func (ms *MongoStorage) WorkoutsByUser(userID uint64) ([]*Workout, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := ms.workouts.Find(ctx, bson.M{"userID": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()
	var workouts []*Workout
	if err := cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// DelWorkout deletes the workout with the given ID.
func (ms *MongoStorage) DelWorkout(id primitive.ObjectID) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, err := ms.workouts.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// SetAppointment creates or updates a trainer appointment and returns its ID.
func (ms *MongoStorage) SetAppointment(appointment *Appointment) (primitive.ObjectID, error) {
	if appointment.UserID == 0 || appointment.TrainerID == 0 {
		return primitive.NilObjectID, ErrInvalidData
	}
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
		if appointment.Status == "" {
			appointment.Status = AppointmentScheduled
		}
		if appointment.CreatedAt.IsZero() {
			appointment.CreatedAt = time.Now()
		}
		if _, err := ms.appointments.InsertOne(ctx, appointment); err != nil {
			return primitive.NilObjectID, err
		}
		return appointment.ID, nil
	}
	updateDoc, err := dynamicUpdateDocument(appointment, nil)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := ms.appointments.UpdateOne(ctx, bson.M{"_id": appointment.ID}, updateDoc); err != nil {
		return primitive.NilObjectID, err
	}
	return appointment.ID, nil
}

// Appointment returns the appointment with the given ID.
func (ms *MongoStorage) Appointment(id primitive.ObjectID) (*Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	appointment := &Appointment{}
	if err := ms.appointments.FindOne(ctx, bson.M{"_id": id}).Decode(appointment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return appointment, nil
}

// AppointmentsByUser returns the appointments of a member, soonest first.
func (ms *MongoStorage) AppointmentsByUser(userID uint64) ([]*Appointment, error) {
	return ms.appointmentsByFilter(bson.M{"userID": userID})
}

// AppointmentsByTrainer returns the appointments assigned to a trainer,
// soonest first.
func (ms *MongoStorage) AppointmentsByTrainer(trainerID uint64) ([]*Appointment, error) {
	return ms.appointmentsByFilter(bson.M{"trainerID": trainerID})
}

func (ms *MongoStorage) appointmentsByFilter(filter bson.M) ([]*Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := ms.appointments.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()
	var appointments []*Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// DelAppointment deletes the appointment with the given ID.
func (ms *MongoStorage) DelAppointment(id primitive.ObjectID) error {
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	_, err := ms.appointments.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
