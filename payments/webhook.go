package payments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
	"github.com/FebaRodrigues/final-fit-sub000/stripe"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleWebhookEvent processes a signed provider notification. It fails
// closed on signature mismatch, before touching any state, and applies the
// same reconciliation as the synchronous path exactly once per event.
func (s *Service) HandleWebhookEvent(payload []byte, signatureHeader string) error {
	if s.provider == nil {
		return errors.ErrPaymentServiceUnavailable
	}
	event, err := s.provider.ValidateWebhookEvent(payload, signatureHeader)
	if err != nil {
		return errors.ErrInvalidSignature.WithErr(err)
	}
	if event.Type != stripe.EventTypeCheckoutCompleted {
		log.Debug().Str("type", event.Type).Str("event", event.ID).Msg("webhook: unhandled event type")
		return nil
	}
	// idempotency across at-least-once delivery
	if _, alreadyProcessed := s.processedEvents.Load(event.ID); alreadyProcessed {
		log.Debug().Str("event", event.ID).Msg("webhook: event already processed, skipping")
		return nil
	}
	if err := s.reconcileCheckoutEvent(event); err != nil {
		return err
	}
	now := time.Now()
	s.processedEvents.Store(event.ID, now)
	s.pruneProcessedEvents(now)
	return nil
}

// processedEventTTL is how long a webhook event id is remembered for
// deduplication. The provider retries deliveries well within this window.
const processedEventTTL = 24 * time.Hour

// pruneProcessedEvents drops dedup entries older than the retention window
// so the store does not grow without bound.
func (s *Service) pruneProcessedEvents(now time.Time) {
	s.processedEvents.Range(func(key, value any) bool {
		processedAt, ok := value.(time.Time)
		if !ok || now.Sub(processedAt) > processedEventTTL {
			s.processedEvents.Delete(key)
		}
		return true
	})
}

// reconcileCheckoutEvent looks the payment up by session or metadata,
// creating it when missing, and settles it. Admin notification failures are
// logged only and never abort the reconciliation.
func (s *Service) reconcileCheckoutEvent(event *stripe.PaymentEvent) error {
	if event.SessionID == "" {
		return errors.ErrInvalidData.Withf("event %s carries no session id", event.ID)
	}
	if !event.Paid {
		log.Debug().Str("event", event.ID).Str("session", event.SessionID).Msg("webhook: session completed unpaid")
		return nil
	}
	userID, err := userIDFromMetadata(event.Metadata)
	if err != nil {
		return errors.ErrInvalidData.WithErr(err)
	}

	unlock := s.lockManager.LockUser(userID)
	defer unlock()

	payment, err := s.db.PaymentBySessionID(event.SessionID)
	if err == db.ErrNotFound {
		payment, err = s.paymentFromMetadata(event, userID)
	}
	if err != nil {
		if _, ok := err.(errors.Error); ok {
			return err
		}
		return errors.ErrInternalStorageError.WithErr(err)
	}
	if payment.Status == db.PaymentCompleted {
		log.Debug().Str("session", event.SessionID).Msg("webhook: payment already completed")
		return nil
	}
	result, err := s.settlePayment(payment)
	if err != nil {
		return err
	}
	log.Info().
		Str("event", event.ID).
		Str("session", event.SessionID).
		Uint64("user", userID).
		Str("type", string(payment.Type)).
		Msg("webhook: payment reconciled")
	if payment.Type == db.PaymentTypeSpaService {
		s.notifyAdminsOfBooking(result.Payment)
	}
	return nil
}

// paymentFromMetadata rebuilds the payment record for a session the local
// store never saw, either by binding the session to the payment named in the
// metadata or by creating a fresh record from the metadata fields.
func (s *Service) paymentFromMetadata(event *stripe.PaymentEvent, userID uint64) (*db.Payment, error) {
	if paymentHex := event.Metadata["paymentId"]; paymentHex != "" {
		paymentID, err := primitive.ObjectIDFromHex(paymentHex)
		if err == nil {
			if payment, err := s.db.Payment(paymentID); err == nil {
				payment.SessionID = event.SessionID
				if _, err := s.db.SetPayment(payment); err != nil {
					return nil, err
				}
				return payment, nil
			}
		}
	}
	payment := &db.Payment{
		UserID:   userID,
		Type:     db.PaymentType(event.Metadata["type"]),
		Status:   db.PaymentPending,
		PlanType: event.Metadata["planType"],
	}
	if payment.Type == "" {
		payment.Type = db.PaymentTypeMembership
	}
	if membershipHex := event.Metadata["membershipId"]; membershipHex != "" {
		if membershipID, err := primitive.ObjectIDFromHex(membershipHex); err == nil {
			payment.MembershipID = membershipID
			if membership, err := s.db.Membership(membershipID); err == nil {
				payment.Amount = membership.Price
			}
		}
	}
	if bookingHex := event.Metadata["bookingId"]; bookingHex != "" {
		if bookingID, err := primitive.ObjectIDFromHex(bookingHex); err == nil {
			payment.BookingID = bookingID
		}
	}
	if payment.Amount == 0 && payment.Type == db.PaymentTypeSpaService {
		payment.Amount = DefaultSpaServicePrice
	}
	if _, err := s.db.SetPayment(payment); err != nil {
		return nil, err
	}
	// bind the session after the insert so a duplicate session binding
	// surfaces as a unique index violation instead of a silent overwrite
	payment.SessionID = event.SessionID
	if _, err := s.db.SetPayment(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// notifyAdminsOfBooking emits one in-app notification per admin user for a
// confirmed spa payment. Failures are logged and swallowed.
func (s *Service) notifyAdminsOfBooking(payment *db.Payment) {
	admins, err := s.db.UsersByRole(db.AdminRole)
	if err != nil {
		log.Warn().Err(err).Msg("webhook: failed to list admins for booking notification")
		return
	}
	message := fmt.Sprintf("Spa booking %s was paid and confirmed", payment.BookingID.Hex())
	for _, admin := range admins {
		if _, err := s.db.AddNotification(&db.Notification{
			UserID:  admin.ID,
			Subject: "Spa booking confirmed",
			Message: message,
		}); err != nil {
			log.Warn().Err(err).Uint64("admin", admin.ID).Msg("webhook: failed to store admin notification")
		}
	}
}

func userIDFromMetadata(metadata map[string]string) (uint64, error) {
	raw := metadata["userId"]
	if raw == "" {
		return 0, fmt.Errorf("event metadata carries no user id")
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || userID == 0 {
		return 0, fmt.Errorf("invalid user id %q in event metadata", raw)
	}
	return userID, nil
}
