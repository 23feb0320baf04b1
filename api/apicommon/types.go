package apicommon

//revive:disable:max-public-structs

import (
	"time"

	"github.com/FebaRodrigues/final-fit-sub000/db"
)

// UserInfo represents a user in the API, both as registration payload and
// as profile response.
type UserInfo struct {
	ID        uint64      `json:"id,omitempty"`
	Email     string      `json:"email,omitempty" validate:"omitempty,email"`
	Password  string      `json:"password,omitempty"`
	FirstName string      `json:"firstName,omitempty"`
	LastName  string      `json:"lastName,omitempty"`
	Phone     string      `json:"phone,omitempty" validate:"omitempty,phone"`
	Role      db.UserRole `json:"role,omitempty" validate:"omitempty,role"`
	Verified  bool        `json:"verified,omitempty"`
	AvatarURL string      `json:"avatarURL,omitempty"`
}

// UserList wraps a listing of users for admin and trainer directories.
type UserList struct {
	Users []*UserInfo `json:"users"`
}

// UserFromDB converts a database user into its API representation, never
// exposing the password hash.
func UserFromDB(u *db.User) *UserInfo {
	return &UserInfo{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		Verified:  u.Verified,
		AvatarURL: u.AvatarURL,
	}
}

// UserVerification is the payload to verify a freshly registered account.
type UserVerification struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// LoginResponse is the response of the login and refresh endpoints.
type LoginResponse struct {
	Token    string    `json:"token"`
	Expirity time.Time `json:"expirity"`
}

// MembershipRequest is the payload to create or update a membership plan
// selection. Price is in minor currency units.
type MembershipRequest struct {
	PlanType string                `json:"planType" validate:"required"`
	Duration db.MembershipDuration `json:"duration" validate:"required,plan_duration"`
	Price    int64                 `json:"price" validate:"omitempty,gte=0"`
}

// MembershipList wraps a membership listing.
type MembershipList struct {
	Memberships []*db.Membership `json:"memberships"`
}

// CheckoutRequest is the payload to initiate a provider checkout session.
// Object IDs travel as hex strings.
type CheckoutRequest struct {
	Type         db.PaymentType `json:"type" validate:"required"`
	Amount       int64          `json:"amount" validate:"omitempty,gte=0"`
	MembershipID string         `json:"membershipId,omitempty"`
	BookingID    string         `json:"bookingId,omitempty"`
	PaymentID    string         `json:"paymentId,omitempty"`
	PlanType     string         `json:"planType,omitempty"`
	Description  string         `json:"description,omitempty"`
}

// PaymentList wraps a payment history listing.
type PaymentList struct {
	Payments []*db.Payment `json:"payments"`
}

// OTPRequest is the payload to verify a pre-payment code.
type OTPRequest struct {
	Code string `json:"code" validate:"required"`
}

// BookingRequest is the payload to reserve a spa slot.
type BookingRequest struct {
	Service string    `json:"service" validate:"required"`
	Slot    time.Time `json:"slot" validate:"required"`
}

// BookingList wraps a spa booking listing.
type BookingList struct {
	Bookings []*db.SpaBooking `json:"bookings"`
}

// GoalRequest is the payload to create or update a fitness goal.
type GoalRequest struct {
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description,omitempty"`
	Status      db.GoalStatus `json:"status,omitempty"`
	Deadline    time.Time     `json:"deadline,omitempty"`
}

// GoalList wraps a goal listing.
type GoalList struct {
	Goals []*db.Goal `json:"goals"`
}

// WorkoutRequest is the payload to log or update a workout.
type WorkoutRequest struct {
	Title     string        `json:"title" validate:"required"`
	Exercises []db.Exercise `json:"exercises" validate:"required,dive"`
	Date      time.Time     `json:"date"`
	Notes     string        `json:"notes,omitempty"`
	UserID    uint64        `json:"userId,omitempty"`
}

// WorkoutList wraps a workout listing.
type WorkoutList struct {
	Workouts []*db.Workout `json:"workouts"`
}

// AppointmentRequest is the payload to schedule an appointment with a
// trainer.
type AppointmentRequest struct {
	TrainerID uint64               `json:"trainerId" validate:"required"`
	Date      time.Time            `json:"date" validate:"required"`
	Status    db.AppointmentStatus `json:"status,omitempty"`
	Notes     string               `json:"notes,omitempty"`
}

// AppointmentList wraps an appointment listing.
type AppointmentList struct {
	Appointments []*db.Appointment `json:"appointments"`
}

// NotificationList wraps an in-app notification listing.
type NotificationList struct {
	Notifications []*db.Notification `json:"notifications"`
}

// UploadImageResponse contains the URLs of the stored objects.
type UploadImageResponse struct {
	URLs []string `json:"urls"`
}
