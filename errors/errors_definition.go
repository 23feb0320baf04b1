// Package errors provides custom error types and definitions for the application.
//
//nolint:lll
package errors

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400 or 404 (or even 204), whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXX or 5XXX.
// If you notice there's a gap, that code was used in the past for some error (not anymore) and
// shouldn't be reused. There's no correlation between Code and HTTP Status.
var (
	// Authentication errors (401)
	ErrUnauthorized   = Error{Code: 40001, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("authentication required"), LogLevel: "info"}
	ErrUserNoVerified = Error{Code: 40014, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("account email not verified"), LogLevel: "info"}

	// Validation errors (400)
	ErrEmailMalformed    = Error{Code: 40002, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid email format")}
	ErrPasswordTooShort  = Error{Code: 40003, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("password must be at least 8 characters")}
	ErrMalformedBody     = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid JSON request body")}
	ErrInvalidUserData   = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid user information provided")}
	ErrMalformedURLParam = Error{Code: 40010, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid URL parameter")}
	ErrInvalidData       = Error{Code: 40011, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid data provided")}

	// Not found errors (404)
	ErrUserNotFound         = Error{Code: 40018, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("user not found")}
	ErrMembershipNotFound   = Error{Code: 40021, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("membership not found")}
	ErrPaymentNotFound      = Error{Code: 40022, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("payment not found")}
	ErrBookingNotFound      = Error{Code: 40023, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("spa booking not found")}
	ErrGoalNotFound         = Error{Code: 40024, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("goal not found")}
	ErrWorkoutNotFound      = Error{Code: 40025, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("workout not found")}
	ErrAppointmentNotFound  = Error{Code: 40026, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("appointment not found")}
	ErrNotificationNotFound = Error{Code: 40027, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("notification not found")}

	// Payment workflow errors (400)
	ErrInvalidSignature    = Error{Code: 40030, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("webhook signature verification failed"), LogLevel: "warn"}
	ErrPaymentNotCompleted = Error{Code: 40031, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("payment not completed")}
	ErrOTPExpired          = Error{Code: 40032, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("verification code has expired"), LogLevel: "info"}
	ErrOTPInvalid          = Error{Code: 40033, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid verification code"), LogLevel: "info"}
	ErrOTPNotFound         = Error{Code: 40034, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("no verification code pending"), LogLevel: "info"}

	// Conflict errors (409)
	ErrDuplicateConflict = Error{Code: 40901, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("resource already exists")}

	// Storage errors (400)
	ErrStorageInvalidObject = Error{Code: 40040, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid storage object or parameters")}

	// Server errors (500) - These should be used sparingly and only for true internal errors
	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: failed to process response"), LogLevel: "error"}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: operation failed"), LogLevel: "error"}
	ErrPaymentServiceUnavailable  = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: payment provider not configured"), LogLevel: "error"}
	ErrPaymentProvider            = Error{Code: 50004, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: payment processing failed"), LogLevel: "error"}
	ErrInternalStorageError       = Error{Code: 50005, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: storage operation failed"), LogLevel: "error"}
)
