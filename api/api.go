// Package api provides the HTTP API for the gym management backend
//
//	@title						Gym Management API
//	@version					1.0
//	@description				API for the gym management backend
//
//	@host						localhost:8080
//	@BasePath					/
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT token.
//
//	@tag.name					auth
//	@tag.description			Authentication operations
//
//	@tag.name					users
//	@tag.description			User management operations
//
//	@tag.name					memberships
//	@tag.description			Membership plan operations
//
//	@tag.name					payments
//	@tag.description			Checkout and payment reconciliation operations
//
//	@tag.name					spa
//	@tag.description			Spa booking operations
//
//	@tag.name					fitness
//	@tag.description			Goals, workouts and appointments
//
//	@tag.name					storage
//	@tag.description			Object storage operations
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/FebaRodrigues/final-fit-sub000/api/apicommon"
	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/notifications"
	"github.com/FebaRodrigues/final-fit-sub000/objectstorage"
	"github.com/FebaRodrigues/final-fit-sub000/payments"
	"github.com/FebaRodrigues/final-fit-sub000/validator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/zerolog/log"
)

const (
	jwtExpiration = 360 * time.Hour // 15 days
	passwordSalt  = "finalfit365"   // salt for password hashing
)

type Config struct {
	Host        string
	Port        int
	Secret      string
	DB          *db.MongoStorage
	Payments    *payments.Service
	MailService notifications.NotificationService
	SMSService  notifications.NotificationService
	WebAppURL   string
	ServerURL   string
	// Object storage
	ObjectStorage *objectstorage.Client
}

// API type represents the API HTTP server with JWT authentication capabilities.
type API struct {
	db            *db.MongoStorage
	auth          *jwtauth.JWTAuth
	validate      *validator.Validator
	host          string
	port          int
	router        *chi.Mux
	payments      *payments.Service
	mail          notifications.NotificationService
	sms           notifications.NotificationService
	secret        string
	webAppURL     string
	serverURL     string
	objectStorage *objectstorage.Client
}

// New creates a new API HTTP server. It does not start the server. Use Start() for that.
func New(conf *Config) *API {
	if conf == nil {
		return nil
	}
	// Set the ServerURL for the ObjectStorageClient
	if conf.ObjectStorage != nil {
		conf.ObjectStorage.ServerURL = conf.ServerURL
	}

	return &API{
		db:            conf.DB,
		auth:          jwtauth.New("HS256", []byte(conf.Secret), nil),
		validate:      validator.New(),
		host:          conf.Host,
		port:          conf.Port,
		payments:      conf.Payments,
		mail:          conf.MailService,
		sms:           conf.SMSService,
		secret:        conf.Secret,
		webAppURL:     conf.WebAppURL,
		serverURL:     conf.ServerURL,
		objectStorage: conf.ObjectStorage,
	}
}

// Start starts the API HTTP server (non blocking).
func (a *API) Start() {
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", a.host, a.port), a.initRouter()); err != nil {
			log.Fatal().Err(err).Msg("failed to start the API server")
		}
	}()
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() http.Handler {
	// Create the router with a basic middleware stack
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Throttle(100))
	r.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	r.Use(middleware.Timeout(45 * time.Second))

	// protected routes
	r.Group(func(r chi.Router) {
		// seek, verify and validate JWT tokens
		r.Use(jwtauth.Verifier(a.auth))
		// handle valid JWT tokens
		r.Use(a.authenticator)
		// refresh the token
		log.Info().Str("method", "POST").Str("path", authRefresTokenEndpoint).Msg("new route")
		r.Post(authRefresTokenEndpoint, a.refreshTokenHandler)
		// get user information
		log.Info().Str("method", "GET").Str("path", usersMeEndpoint).Msg("new route")
		r.Get(usersMeEndpoint, a.userInfoHandler)
		// update user information
		log.Info().Str("method", "PUT").Str("path", usersMeEndpoint).Msg("new route")
		r.Put(usersMeEndpoint, a.updateUserInfoHandler)
		// list trainers
		log.Info().Str("method", "GET").Str("path", trainersEndpoint).Msg("new route")
		r.Get(trainersEndpoint, a.trainersHandler)
		// membership routes
		log.Info().Str("method", "POST").Str("path", membershipsEndpoint).Msg("new route")
		r.With(a.validate.ValidateMiddleware(apicommon.MembershipRequest{})).
			Post(membershipsEndpoint, a.createMembershipHandler)
		log.Info().Str("method", "GET").Str("path", membershipsEndpoint).Msg("new route")
		r.Get(membershipsEndpoint, a.membershipsHandler)
		log.Info().Str("method", "GET").Str("path", membershipEndpoint).Msg("new route")
		r.Get(membershipEndpoint, a.membershipInfoHandler)
		log.Info().Str("method", "DELETE").Str("path", membershipEndpoint).Msg("new route")
		r.Delete(membershipEndpoint, a.deleteMembershipHandler)
		// payment routes
		log.Info().Str("method", "POST").Str("path", paymentsEndpoint).Msg("new route")
		r.With(a.validate.ValidateMiddleware(apicommon.CheckoutRequest{})).
			Post(paymentsEndpoint, a.initiateCheckoutHandler)
		log.Info().Str("method", "GET").Str("path", paymentsEndpoint).Msg("new route")
		r.Get(paymentsEndpoint, a.paymentsHandler)
		log.Info().Str("method", "POST").Str("path", paymentsCreatePendingEndpoint).Msg("new route")
		r.Post(paymentsCreatePendingEndpoint, a.createPendingPaymentHandler)
		log.Info().Str("method", "GET").Str("path", paymentsVerifySessionEndpoint).Msg("new route")
		r.Get(paymentsVerifySessionEndpoint, a.verifySessionHandler)
		log.Info().Str("method", "POST").Str("path", paymentsSendOTPEndpoint).Msg("new route")
		r.Post(paymentsSendOTPEndpoint, a.sendOTPHandler)
		log.Info().Str("method", "POST").Str("path", paymentsVerifyOTPEndpoint).Msg("new route")
		r.Post(paymentsVerifyOTPEndpoint, a.verifyOTPHandler)
		log.Info().Str("method", "GET").Str("path", paymentEndpoint).Msg("new route")
		r.Get(paymentEndpoint, a.paymentInfoHandler)
		// spa routes
		log.Info().Str("method", "POST").Str("path", spaBookingsEndpoint).Msg("new route")
		r.With(a.validate.ValidateMiddleware(apicommon.BookingRequest{})).
			Post(spaBookingsEndpoint, a.createBookingHandler)
		log.Info().Str("method", "GET").Str("path", spaBookingsEndpoint).Msg("new route")
		r.Get(spaBookingsEndpoint, a.bookingsHandler)
		log.Info().Str("method", "GET").Str("path", spaBookingEndpoint).Msg("new route")
		r.Get(spaBookingEndpoint, a.bookingInfoHandler)
		log.Info().Str("method", "DELETE").Str("path", spaBookingEndpoint).Msg("new route")
		r.Delete(spaBookingEndpoint, a.deleteBookingHandler)
		// fitness routes
		log.Info().Str("method", "POST").Str("path", goalsEndpoint).Msg("new route")
		r.With(a.validate.ValidateMiddleware(apicommon.GoalRequest{})).
			Post(goalsEndpoint, a.createGoalHandler)
		log.Info().Str("method", "GET").Str("path", goalsEndpoint).Msg("new route")
		r.Get(goalsEndpoint, a.goalsHandler)
		log.Info().Str("method", "PUT").Str("path", goalEndpoint).Msg("new route")
		r.Put(goalEndpoint, a.updateGoalHandler)
		log.Info().Str("method", "DELETE").Str("path", goalEndpoint).Msg("new route")
		r.Delete(goalEndpoint, a.deleteGoalHandler)
		log.Info().Str("method", "POST").Str("path", workoutsEndpoint).Msg("new route")
		r.With(a.validate.ValidateMiddleware(apicommon.WorkoutRequest{})).
			Post(workoutsEndpoint, a.createWorkoutHandler)
		log.Info().Str("method", "GET").Str("path", workoutsEndpoint).Msg("new route")
		r.Get(workoutsEndpoint, a.workoutsHandler)
		log.Info().Str("method", "PUT").Str("path", workoutEndpoint).Msg("new route")
		r.Put(workoutEndpoint, a.updateWorkoutHandler)
		log.Info().Str("method", "DELETE").Str("path", workoutEndpoint).Msg("new route")
		r.Delete(workoutEndpoint, a.deleteWorkoutHandler)
		log.Info().Str("method", "POST").Str("path", appointmentsEndpoint).Msg("new route")
		r.With(a.validate.ValidateMiddleware(apicommon.AppointmentRequest{})).
			Post(appointmentsEndpoint, a.createAppointmentHandler)
		log.Info().Str("method", "GET").Str("path", appointmentsEndpoint).Msg("new route")
		r.Get(appointmentsEndpoint, a.appointmentsHandler)
		log.Info().Str("method", "PUT").Str("path", appointmentEndpoint).Msg("new route")
		r.Put(appointmentEndpoint, a.updateAppointmentHandler)
		log.Info().Str("method", "DELETE").Str("path", appointmentEndpoint).Msg("new route")
		r.Delete(appointmentEndpoint, a.deleteAppointmentHandler)
		// notification routes
		log.Info().Str("method", "GET").Str("path", notificationsEndpoint).Msg("new route")
		r.Get(notificationsEndpoint, a.notificationsHandler)
		log.Info().Str("method", "PUT").Str("path", notificationReadEndpoint).Msg("new route")
		r.Put(notificationReadEndpoint, a.markNotificationReadHandler)
		// upload an image to the object storage
		if a.objectStorage != nil {
			log.Info().Str("method", "POST").Str("path", objectStorageUploadEndpoint).Msg("new route")
			r.Post(objectStorageUploadEndpoint, a.objectStorage.UploadImageWithFormHandler)
		}
	})

	// admin routes
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(a.auth))
		r.Use(a.authenticator)
		r.Use(a.adminOnly)
		// list users
		log.Info().Str("method", "GET").Str("path", usersEndpoint).Msg("new route")
		r.Get(usersEndpoint, a.usersHandler)
		// get a single user
		log.Info().Str("method", "GET").Str("path", userEndpoint).Msg("new route")
		r.Get(userEndpoint, a.userByIDHandler)
		// update a user, including role assignment
		log.Info().Str("method", "PUT").Str("path", userEndpoint).Msg("new route")
		r.Put(userEndpoint, a.updateUserHandler)
		// delete a user
		log.Info().Str("method", "DELETE").Str("path", userEndpoint).Msg("new route")
		r.Delete(userEndpoint, a.deleteUserHandler)
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get(pingEndpoint, func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte(".")); err != nil {
				log.Warn().Err(err).Msg("failed to write ping response")
			}
		})
		// login
		log.Info().Str("method", "POST").Str("path", authLoginEndpoint).Msg("new route")
		r.Post(authLoginEndpoint, a.authLoginHandler)
		// register user
		log.Info().Str("method", "POST").Str("path", usersEndpoint).Msg("new route")
		r.Post(usersEndpoint, a.registerHandler)
		// verify user
		log.Info().Str("method", "POST").Str("path", verifyUserEndpoint).Msg("new route")
		r.Post(verifyUserEndpoint, a.verifyUserAccountHandler)
		// handle payment provider webhook
		log.Info().Str("method", "POST").Str("path", paymentsWebhookEndpoint).Msg("new route")
		r.Post(paymentsWebhookEndpoint, a.paymentWebhookHandler)
		// download an image from the object storage
		if a.objectStorage != nil {
			log.Info().Str("method", "GET").Str("path", objectStorageDownloadEndpoint).Msg("new route")
			r.Get(objectStorageDownloadEndpoint, a.objectStorage.DownloadImageInlineHandler)
		}
	})

	a.router = r
	return r
}
