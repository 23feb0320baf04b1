package db

// UserRole distinguishes account kinds sharing the users collection.
type UserRole string

const (
	MemberRole  UserRole = "member"
	TrainerRole UserRole = "trainer"
	AdminRole   UserRole = "admin"
)

// CodeType is the purpose of a typed verification code.
type CodeType string

const (
	CodeTypeVerifyAccount CodeType = "verify_account"
	CodeTypePasswordReset CodeType = "password_reset"
)

// MembershipDuration is the billing cadence of a plan.
type MembershipDuration string

const (
	DurationMonthly   MembershipDuration = "Monthly"
	DurationQuarterly MembershipDuration = "Quarterly"
	DurationYearly    MembershipDuration = "Yearly"
)

// MembershipStatus is the lifecycle state of a purchased plan.
type MembershipStatus string

const (
	MembershipPending MembershipStatus = "Pending"
	MembershipActive  MembershipStatus = "Active"
	MembershipExpired MembershipStatus = "Expired"
)

// PaymentType names what a payment is for.
type PaymentType string

const (
	PaymentTypeMembership PaymentType = "Membership"
	PaymentTypeSpaService PaymentType = "SpaService"
)

// PaymentStatus is the lifecycle state of a checkout attempt.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
)

// BookingStatus is the lifecycle state of a spa reservation.
type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
)

// GoalStatus tracks fitness goal progress.
type GoalStatus string

const (
	GoalInProgress GoalStatus = "InProgress"
	GoalAchieved   GoalStatus = "Achieved"
	GoalAbandoned  GoalStatus = "Abandoned"
)

// AppointmentStatus is the lifecycle state of a trainer appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "Scheduled"
	AppointmentCompleted AppointmentStatus = "Completed"
	AppointmentCancelled AppointmentStatus = "Cancelled"
)
