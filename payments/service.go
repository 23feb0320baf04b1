// Package payments implements the checkout, reconciliation and membership
// activation workflow on top of an external payment provider.
package payments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/notifications"
	"github.com/FebaRodrigues/final-fit-sub000/stripe"
)

// DefaultSpaServicePrice is the fallback charge, in minor currency units,
// applied when a spa checkout arrives without a positive amount.
const DefaultSpaServicePrice = 2000

// DefaultOTPExpiry is how long an issued verification code stays valid.
const DefaultOTPExpiry = 5 * time.Minute

// OTPCodeLength is the number of digits of an issued verification code.
const OTPCodeLength = 6

// Provider is the external payment capability the service depends on. It is
// implemented by the stripe client and by stubs in tests.
type Provider interface {
	CreateCheckoutSession(params *stripe.CheckoutParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(sessionID string) (*stripe.CheckoutSessionStatus, error)
	ValidateWebhookEvent(payload []byte, signatureHeader string) (*stripe.PaymentEvent, error)
}

// Service provides the main business logic for payment operations.
type Service struct {
	db              *db.MongoStorage
	provider        Provider
	mailer          notifications.NotificationService
	processedEvents sync.Map // map[string]time.Time
	lockManager     *LockManager
	otpExpiry       time.Duration
	// devMode enables the diagnostic code echo on OTP issue responses.
	// It must stay disabled on production deployments.
	devMode bool
}

// ServiceConfig collects the dependencies of the payment service. Provider
// and Mailer may be nil, in which case the corresponding operations report
// the service as unavailable or skip mail dispatch.
type ServiceConfig struct {
	DB        *db.MongoStorage
	Provider  Provider
	Mailer    notifications.NotificationService
	OTPExpiry time.Duration
	DevMode   bool
}

// NewService creates a new payment service.
func NewService(config *ServiceConfig) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	otpExpiry := config.OTPExpiry
	if otpExpiry == 0 {
		otpExpiry = DefaultOTPExpiry
	}
	return &Service{
		db:          config.DB,
		provider:    config.Provider,
		mailer:      config.Mailer,
		lockManager: NewLockManager(),
		otpExpiry:   otpExpiry,
		devMode:     config.DevMode,
	}, nil
}

// notificationContext bounds a single mail dispatch.
func notificationContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
