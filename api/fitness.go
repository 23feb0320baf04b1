package api

import (
	"encoding/json"
	"net/http"

	"github.com/FebaRodrigues/final-fit-sub000/api/apicommon"
	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
)

// createGoalHandler records a fitness goal for the current user.
func (a *API) createGoalHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req := &apicommon.GoalRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Title == "" {
		errors.ErrInvalidData.Withf("title is empty").Write(w)
		return
	}
	id, err := a.db.SetGoal(&db.Goal{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	goal, err := a.db.Goal(id)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, goal)
}

// goalsHandler lists the fitness goals of the current user.
func (a *API) goalsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	goals, err := a.db.GoalsByUser(user.ID)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.GoalList{Goals: goals})
}

// updateGoalHandler updates a goal, including status transitions.
func (a *API) updateGoalHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	goalID, err := objectIDFromURL(r, "goalID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	goal, err := a.db.Goal(goalID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrGoalNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if goal.UserID != user.ID {
		errors.ErrGoalNotFound.Write(w)
		return
	}
	req := &apicommon.GoalRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Title != "" {
		goal.Title = req.Title
	}
	if req.Description != "" {
		goal.Description = req.Description
	}
	if !req.Deadline.IsZero() {
		goal.Deadline = req.Deadline
	}
	if req.Status != "" {
		switch req.Status {
		case db.GoalInProgress, db.GoalAchieved, db.GoalAbandoned:
			goal.Status = req.Status
		default:
			errors.ErrInvalidData.Withf("unknown goal status %q", req.Status).Write(w)
			return
		}
	}
	if _, err := a.db.SetGoal(goal); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, goal)
}

// deleteGoalHandler removes a goal of the current user.
func (a *API) deleteGoalHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	goalID, err := objectIDFromURL(r, "goalID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	goal, err := a.db.Goal(goalID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrGoalNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if goal.UserID != user.ID {
		errors.ErrGoalNotFound.Write(w)
		return
	}
	if err := a.db.DelGoal(goalID); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteOK(w)
}

// createWorkoutHandler logs a workout. Trainers may log a workout for a
// member by setting the userId field; members always log their own.
func (a *API) createWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req := &apicommon.WorkoutRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Title == "" {
		errors.ErrInvalidData.Withf("title is empty").Write(w)
		return
	}
	workout := &db.Workout{
		UserID:    user.ID,
		Title:     req.Title,
		Exercises: req.Exercises,
		Date:      req.Date,
		Notes:     req.Notes,
	}
	if user.Role == db.TrainerRole && req.UserID != 0 {
		// a trainer assigns the workout to a member
		if _, err := a.db.User(req.UserID); err != nil {
			if err == db.ErrNotFound {
				errors.ErrUserNotFound.Write(w)
				return
			}
			errors.ErrGenericInternalServerError.Write(w)
			return
		}
		workout.UserID = req.UserID
		workout.TrainerID = user.ID
	}
	id, err := a.db.SetWorkout(workout)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	created, err := a.db.Workout(id)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, created)
}

// workoutsHandler lists the workouts of the current user.
func (a *API) workoutsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	workouts, err := a.db.WorkoutsByUser(user.ID)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.WorkoutList{Workouts: workouts})
}

// updateWorkoutHandler updates a logged workout of the current user.
func (a *API) updateWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	workoutID, err := objectIDFromURL(r, "workoutID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	workout, err := a.db.Workout(workoutID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrWorkoutNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if workout.UserID != user.ID && workout.TrainerID != user.ID {
		errors.ErrWorkoutNotFound.Write(w)
		return
	}
	req := &apicommon.WorkoutRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Title != "" {
		workout.Title = req.Title
	}
	if len(req.Exercises) > 0 {
		workout.Exercises = req.Exercises
	}
	if !req.Date.IsZero() {
		workout.Date = req.Date
	}
	if req.Notes != "" {
		workout.Notes = req.Notes
	}
	if _, err := a.db.SetWorkout(workout); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, workout)
}

// deleteWorkoutHandler removes a workout of the current user.
func (a *API) deleteWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	workoutID, err := objectIDFromURL(r, "workoutID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	workout, err := a.db.Workout(workoutID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrWorkoutNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if workout.UserID != user.ID && workout.TrainerID != user.ID {
		errors.ErrWorkoutNotFound.Write(w)
		return
	}
	if err := a.db.DelWorkout(workoutID); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteOK(w)
}

// createAppointmentHandler schedules a session between the current user and
// a trainer.
func (a *API) createAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req := &apicommon.AppointmentRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Date.IsZero() {
		errors.ErrInvalidData.Withf("date is required").Write(w)
		return
	}
	trainer, err := a.db.User(req.TrainerID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrUserNotFound.With("trainer not found").Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if trainer.Role != db.TrainerRole {
		errors.ErrInvalidData.Withf("user %d is not a trainer", req.TrainerID).Write(w)
		return
	}
	id, err := a.db.SetAppointment(&db.Appointment{
		UserID:    user.ID,
		TrainerID: req.TrainerID,
		Date:      req.Date,
		Notes:     req.Notes,
	})
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	appointment, err := a.db.Appointment(id)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, appointment)
}

// appointmentsHandler lists appointments. Trainers get the sessions
// scheduled with them, everyone else gets their own.
func (a *API) appointmentsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	var appointments []*db.Appointment
	var err error
	if user.Role == db.TrainerRole {
		appointments, err = a.db.AppointmentsByTrainer(user.ID)
	} else {
		appointments, err = a.db.AppointmentsByUser(user.ID)
	}
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.AppointmentList{Appointments: appointments})
}

// updateAppointmentHandler updates an appointment, including status
// transitions. Both the member and the trainer of the session may update it.
func (a *API) updateAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	appointmentID, err := objectIDFromURL(r, "appointmentID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	appointment, err := a.db.Appointment(appointmentID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrAppointmentNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if appointment.UserID != user.ID && appointment.TrainerID != user.ID {
		errors.ErrAppointmentNotFound.Write(w)
		return
	}
	req := &apicommon.AppointmentRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if !req.Date.IsZero() {
		appointment.Date = req.Date
	}
	if req.Notes != "" {
		appointment.Notes = req.Notes
	}
	if req.Status != "" {
		switch req.Status {
		case db.AppointmentScheduled, db.AppointmentCompleted, db.AppointmentCancelled:
			appointment.Status = req.Status
		default:
			errors.ErrInvalidData.Withf("unknown appointment status %q", req.Status).Write(w)
			return
		}
	}
	if _, err := a.db.SetAppointment(appointment); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, appointment)
}

// deleteAppointmentHandler removes an appointment.
func (a *API) deleteAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	appointmentID, err := objectIDFromURL(r, "appointmentID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	appointment, err := a.db.Appointment(appointmentID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrAppointmentNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if appointment.UserID != user.ID && appointment.TrainerID != user.ID {
		errors.ErrAppointmentNotFound.Write(w)
		return
	}
	if err := a.db.DelAppointment(appointmentID); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteOK(w)
}
