package api

const (
	// GET /ping to check the server status
	pingEndpoint = "/ping"

	// auth routes

	// POST /auth/refresh to refresh the JWT token
	authRefresTokenEndpoint = "/auth/refresh"
	// POST /auth/login to login and get a JWT token
	authLoginEndpoint = "/auth/login"

	// user routes

	// POST /users to register a new user
	usersEndpoint = "/users"
	// POST /users/verify to verify a freshly registered account
	verifyUserEndpoint = "/users/verify"
	// GET or PUT /users/me to get or update the current user profile
	usersMeEndpoint = "/users/me"
	// GET, PUT or DELETE /users/{userID} for admin user management
	userEndpoint = "/users/{userID}"
	// GET /trainers to list the registered trainers
	trainersEndpoint = "/trainers"

	// membership routes

	// GET or POST /memberships to list or create memberships
	membershipsEndpoint = "/memberships"
	// GET or DELETE /memberships/{membershipID} for a single membership
	membershipEndpoint = "/memberships/{membershipID}"

	// payment routes

	// POST /payments to initiate a provider checkout session
	paymentsEndpoint = "/payments"
	// POST /payments/create-pending to record a payment without a session
	paymentsCreatePendingEndpoint = "/payments/create-pending"
	// GET /payments/verify-session to verify a checkout session by session_id
	paymentsVerifySessionEndpoint = "/payments/verify-session"
	// POST /payments/send-otp to issue a pre-payment verification code
	paymentsSendOTPEndpoint = "/payments/send-otp"
	// POST /payments/verify-otp to verify a pre-payment code
	paymentsVerifyOTPEndpoint = "/payments/verify-otp"
	// POST /payments/webhook for provider event delivery
	paymentsWebhookEndpoint = "/payments/webhook"
	// GET /payments/{paymentID} for a single payment record
	paymentEndpoint = "/payments/{paymentID}"

	// spa routes

	// GET or POST /spa/bookings to list or create spa bookings
	spaBookingsEndpoint = "/spa/bookings"
	// GET or DELETE /spa/bookings/{bookingID} for a single booking
	spaBookingEndpoint = "/spa/bookings/{bookingID}"

	// fitness routes

	// GET or POST /goals to list or create fitness goals
	goalsEndpoint = "/goals"
	// PUT or DELETE /goals/{goalID} for a single goal
	goalEndpoint = "/goals/{goalID}"
	// GET or POST /workouts to list or log workouts
	workoutsEndpoint = "/workouts"
	// PUT or DELETE /workouts/{workoutID} for a single workout
	workoutEndpoint = "/workouts/{workoutID}"
	// GET or POST /appointments to list or schedule appointments
	appointmentsEndpoint = "/appointments"
	// PUT or DELETE /appointments/{appointmentID} for a single appointment
	appointmentEndpoint = "/appointments/{appointmentID}"

	// notification routes

	// GET /notifications to list the current user notifications
	notificationsEndpoint = "/notifications"
	// PUT /notifications/{notificationID}/read to mark one as read
	notificationReadEndpoint = "/notifications/{notificationID}/read"

	// storage routes

	// POST /storage to upload images to the object storage
	objectStorageUploadEndpoint = "/storage"
	// GET /storage/{objectName} to download an image inline
	objectStorageDownloadEndpoint = "/storage/{objectName}"
)
