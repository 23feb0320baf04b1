package payments

import (
	"fmt"
	"time"

	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
	"github.com/FebaRodrigues/final-fit-sub000/notifications"
	"github.com/FebaRodrigues/final-fit-sub000/notifications/mailtemplates"
	"github.com/rs/zerolog/log"
)

// VerifyResult is the outcome of a session verification. AlreadyProcessed
// marks the idempotent path where the payment had been completed before.
// ActivationError carries a membership activation failure that did not roll
// back the completed payment.
type VerifyResult struct {
	Payment          *db.Payment    `json:"payment"`
	Membership       *db.Membership `json:"membership,omitempty"`
	AlreadyProcessed bool           `json:"alreadyProcessed"`
	ActivationError  string         `json:"activationError,omitempty"`
}

// VerifySession confirms a checkout session against the provider and
// reconciles the local payment. Verifying an already completed session
// returns the existing payment without side effects.
func (s *Service) VerifySession(sessionID string) (*VerifyResult, error) {
	if sessionID == "" {
		return nil, errors.ErrInvalidData.Withf("session id is required")
	}
	payment, err := s.db.PaymentBySessionID(sessionID)
	if err != nil {
		if err == db.ErrNotFound {
			return nil, errors.ErrPaymentNotFound
		}
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	if payment.Status == db.PaymentCompleted {
		return &VerifyResult{Payment: payment, AlreadyProcessed: true}, nil
	}
	if payment.Status != db.PaymentPending {
		return nil, errors.ErrPaymentNotCompleted.Withf("payment is %s", payment.Status)
	}
	if s.provider == nil {
		return nil, errors.ErrPaymentServiceUnavailable
	}
	status, err := s.provider.GetCheckoutSession(sessionID)
	if err != nil {
		return nil, errors.ErrPaymentProvider.WithErr(err)
	}
	if !status.Paid {
		return nil, errors.ErrPaymentNotCompleted.Withf("provider reports status %q", status.Status)
	}

	unlock := s.lockManager.LockUser(payment.UserID)
	defer unlock()
	return s.settlePayment(payment)
}

// settlePayment marks the payment completed and runs the follow-up
// activation or confirmation for its target entity. The per-user lock must
// be held. An activation failure is reported in the result, never rolled
// back into the payment.
func (s *Service) settlePayment(payment *db.Payment) (*VerifyResult, error) {
	if err := s.db.CompletePayment(payment.ID, time.Now()); err != nil {
		if err == db.ErrNotFound {
			// lost the race with another reconciliation path, reload and
			// report the already processed payment
			current, err := s.db.Payment(payment.ID)
			if err != nil {
				return nil, errors.ErrInternalStorageError.WithErr(err)
			}
			if current.Status == db.PaymentCompleted {
				return &VerifyResult{Payment: current, AlreadyProcessed: true}, nil
			}
			return nil, errors.ErrPaymentNotCompleted.Withf("payment is %s", current.Status)
		}
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	result := &VerifyResult{}
	switch payment.Type {
	case db.PaymentTypeMembership:
		if !payment.MembershipID.IsZero() {
			membership, err := s.ActivateMembership(payment.UserID, payment.MembershipID)
			if err != nil {
				log.Warn().Err(err).
					Uint64("user", payment.UserID).
					Str("membership", payment.MembershipID.Hex()).
					Msg("membership activation failed after payment completion")
				result.ActivationError = err.Error()
			} else {
				result.Membership = membership
			}
		}
	case db.PaymentTypeSpaService:
		if !payment.BookingID.IsZero() {
			if err := s.db.ConfirmBooking(payment.BookingID, payment.ID); err != nil && err != db.ErrNotFound {
				log.Warn().Err(err).
					Str("booking", payment.BookingID.Hex()).
					Msg("booking confirmation failed after payment completion")
				result.ActivationError = err.Error()
			}
		}
	}
	completed, err := s.db.Payment(payment.ID)
	if err != nil {
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	result.Payment = completed
	s.sendSettlementMails(result)
	return result, nil
}

// sendSettlementMails dispatches the receipt and, depending on the payment
// type, the activation or booking confirmation mail to the paying user. Mail
// failures are logged and never affect the settled payment.
func (s *Service) sendSettlementMails(result *VerifyResult) {
	if s.mailer == nil {
		return
	}
	payment := result.Payment
	user, err := s.db.User(payment.UserID)
	if err != nil {
		log.Warn().Err(err).Uint64("user", payment.UserID).Msg("settlement: failed to load user for mail dispatch")
		return
	}
	receipt, err := mailtemplates.PaymentReceiptNotification.ExecTemplate(struct {
		Amount  string
		Product string
	}{formatAmount(payment.Amount), checkoutProductName(payment.Type, payment.PlanType)})
	if err != nil {
		log.Warn().Err(err).Msg("settlement: failed to render receipt mail")
	} else {
		s.sendMail(user, receipt)
	}
	if result.Membership != nil {
		activated, err := mailtemplates.MembershipActivatedNotification.ExecTemplate(struct {
			PlanType string
			EndDate  string
		}{result.Membership.PlanType, result.Membership.EndDate.Format("January 2, 2006")})
		if err != nil {
			log.Warn().Err(err).Msg("settlement: failed to render membership mail")
		} else {
			s.sendMail(user, activated)
		}
	}
	if payment.Type == db.PaymentTypeSpaService && !payment.BookingID.IsZero() {
		booking, err := s.db.Booking(payment.BookingID)
		if err != nil || booking.Status != db.BookingConfirmed {
			return
		}
		confirmed, err := mailtemplates.BookingConfirmedNotification.ExecTemplate(struct {
			Service string
			Slot    string
		}{booking.Service, booking.Slot.Format("Jan 2, 2006 15:04")})
		if err != nil {
			log.Warn().Err(err).Msg("settlement: failed to render booking mail")
			return
		}
		s.sendMail(user, confirmed)
	}
}

// sendMail delivers a rendered notification to the user, logging failures.
func (s *Service) sendMail(user *db.User, notification *notifications.Notification) {
	notification.ToName = user.FirstName
	notification.ToAddress = user.Email
	ctx, cancel := notificationContext()
	defer cancel()
	if err := s.mailer.SendNotification(ctx, notification); err != nil {
		log.Warn().Err(err).Str("to", user.Email).Str("subject", notification.Subject).Msg("settlement: failed to send mail")
	}
}

// formatAmount renders a minor currency unit amount as a decimal string.
func formatAmount(amount int64) string {
	return fmt.Sprintf("%.2f", float64(amount)/100)
}
