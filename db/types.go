package db

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a gym account. Members, trainers and admins share the
// same document shape and are told apart by the Role field.
type User struct {
	ID        uint64    `json:"id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	FirstName string    `json:"firstName" bson:"firstName"`
	LastName  string    `json:"lastName" bson:"lastName"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Role      UserRole  `json:"role" bson:"role"`
	Verified  bool      `json:"verified" bson:"verified"`
	AvatarURL string    `json:"avatarURL,omitempty" bson:"avatarURL,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// UserVerification holds a typed account verification code (registration,
// password reset). The document ID is the user ID.
type UserVerification struct {
	ID         uint64    `json:"id" bson:"_id"`
	Code       string    `json:"code" bson:"code"`
	Type       CodeType  `json:"type" bson:"type"`
	Expiration time.Time `json:"expiration" bson:"expiration"`
}

// OTPSession is the short-lived pre-payment verification code. The document
// ID is the user ID, so at most one live session can exist per user.
type OTPSession struct {
	UserID     uint64    `json:"userId" bson:"_id"`
	Email      string    `json:"email" bson:"email"`
	Code       string    `json:"-" bson:"code"`
	Expiration time.Time `json:"expiration" bson:"expiration"`
}

// Membership is a purchased gym plan. At most one membership per user may
// be Active at any instant; activating one expires the others.
type Membership struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    uint64             `json:"userId" bson:"userID"`
	PlanType  string             `json:"planType" bson:"planType"`
	Duration  MembershipDuration `json:"duration" bson:"duration"`
	Status    MembershipStatus   `json:"status" bson:"status"`
	Price     int64              `json:"price" bson:"price"` // minor currency units
	StartDate time.Time          `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate   time.Time          `json:"endDate,omitempty" bson:"endDate,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Payment tracks a checkout attempt against the external provider. The
// SessionID maps the provider checkout session to the local record and is
// unique while set.
type Payment struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID       uint64             `json:"userId" bson:"userID"`
	Amount       int64              `json:"amount" bson:"amount"` // minor currency units
	Type         PaymentType        `json:"type" bson:"type"`
	Status       PaymentStatus      `json:"status" bson:"status"`
	SessionID    string             `json:"sessionId,omitempty" bson:"sessionID,omitempty"`
	MembershipID primitive.ObjectID `json:"membershipId,omitempty" bson:"membershipID,omitempty"`
	BookingID    primitive.ObjectID `json:"bookingId,omitempty" bson:"bookingID,omitempty"`
	PlanType     string             `json:"planType,omitempty" bson:"planType,omitempty"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	PaidAt       time.Time          `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

// SpaBooking is a spa service reservation. It is Confirmed only once its
// associated payment reaches Completed.
type SpaBooking struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    uint64             `json:"userId" bson:"userID"`
	Service   string             `json:"service" bson:"service"`
	Slot      time.Time          `json:"slot" bson:"slot"`
	Status    BookingStatus      `json:"status" bson:"status"`
	PaymentID primitive.ObjectID `json:"paymentId,omitempty" bson:"paymentID,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Goal is a member fitness goal tracked over time.
type Goal struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      uint64             `json:"userId" bson:"userID"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Status      GoalStatus         `json:"status" bson:"status"`
	Deadline    time.Time          `json:"deadline,omitempty" bson:"deadline,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// Exercise is a single entry of a workout.
type Exercise struct {
	Name   string  `json:"name" bson:"name"`
	Sets   int     `json:"sets" bson:"sets"`
	Reps   int     `json:"reps" bson:"reps"`
	Weight float64 `json:"weight,omitempty" bson:"weight,omitempty"`
}

// Workout is a logged training session, optionally assigned by a trainer.
type Workout struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    uint64             `json:"userId" bson:"userID"`
	TrainerID uint64             `json:"trainerId,omitempty" bson:"trainerID,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Exercises []Exercise         `json:"exercises" bson:"exercises"`
	Date      time.Time          `json:"date" bson:"date"`
	Notes     string             `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Appointment is a scheduled session between a member and a trainer.
type Appointment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    uint64             `json:"userId" bson:"userID"`
	TrainerID uint64             `json:"trainerId" bson:"trainerID"`
	Date      time.Time          `json:"date" bson:"date"`
	Status    AppointmentStatus  `json:"status" bson:"status"`
	Notes     string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Notification is an in-app message for a user.
type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    uint64             `json:"userId" bson:"userID"`
	Subject   string             `json:"subject" bson:"subject"`
	Message   string             `json:"message" bson:"message"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
