package payments

import (
	"fmt"
	"strings"

	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
	"github.com/FebaRodrigues/final-fit-sub000/stripe"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// providerSessionPrefix marks real provider checkout sessions. Session IDs
// stored without it are local placeholders that must be replaced on retry.
const providerSessionPrefix = "cs_"

// CheckoutRequest is a checkout initiation or retry. MembershipID, BookingID
// and PaymentID are hex object IDs and optional depending on Type.
type CheckoutRequest struct {
	UserID       uint64
	Type         db.PaymentType
	Amount       int64
	MembershipID string
	BookingID    string
	PaymentID    string
	PlanType     string
	Description  string
}

// CheckoutResult is the outcome of a checkout initiation. Reused marks the
// idempotent short-circuit where an existing valid session was returned
// instead of creating a new one.
type CheckoutResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
	PaymentID string `json:"paymentId"`
	Amount    int64  `json:"amount"`
	Reused    bool   `json:"reused"`
}

// InitiateCheckout validates the request, finds or reuses a Pending payment
// and requests a checkout session from the provider. Retries reuse the
// payment named by PaymentID; otherwise an existing Pending payment with a
// still-valid provider session short-circuits to that session.
func (s *Service) InitiateCheckout(req *CheckoutRequest) (*CheckoutResult, error) {
	if req == nil || req.Type == "" || req.UserID == 0 {
		return nil, errors.ErrInvalidData.Withf("type and userId are required")
	}
	// spa services fall back to the fixed default price, everything else
	// requires an explicit positive amount
	amount := req.Amount
	if amount <= 0 {
		if req.Type != db.PaymentTypeSpaService {
			return nil, errors.ErrInvalidData.Withf("amount must be positive")
		}
		amount = DefaultSpaServicePrice
	}
	user, err := s.db.User(req.UserID)
	if err != nil {
		if err == db.ErrNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	// resolve the referenced entities before touching any state
	var membership *db.Membership
	if req.MembershipID != "" {
		membershipID, err := primitive.ObjectIDFromHex(req.MembershipID)
		if err != nil {
			return nil, errors.ErrInvalidData.Withf("invalid membership id")
		}
		if membership, err = s.db.Membership(membershipID); err != nil {
			if err == db.ErrNotFound {
				return nil, errors.ErrMembershipNotFound
			}
			return nil, errors.ErrInternalStorageError.WithErr(err)
		}
	}
	var booking *db.SpaBooking
	if req.BookingID != "" {
		bookingID, err := primitive.ObjectIDFromHex(req.BookingID)
		if err != nil {
			return nil, errors.ErrInvalidData.Withf("invalid booking id")
		}
		if booking, err = s.db.Booking(bookingID); err != nil {
			if err == db.ErrNotFound {
				return nil, errors.ErrBookingNotFound
			}
			return nil, errors.ErrInternalStorageError.WithErr(err)
		}
	}

	if s.provider == nil {
		return nil, errors.ErrPaymentServiceUnavailable
	}

	unlock := s.lockManager.LockUser(req.UserID)
	defer unlock()

	var payment *db.Payment
	freshPayment := false
	if req.PaymentID != "" {
		// explicit retry path, reuse the named payment record
		paymentID, err := primitive.ObjectIDFromHex(req.PaymentID)
		if err != nil {
			return nil, errors.ErrInvalidData.Withf("invalid payment id")
		}
		if payment, err = s.db.Payment(paymentID); err != nil {
			if err == db.ErrNotFound {
				return nil, errors.ErrPaymentNotFound
			}
			return nil, errors.ErrInternalStorageError.WithErr(err)
		}
		if payment.UserID != req.UserID {
			return nil, errors.ErrPaymentNotFound
		}
		// clear placeholder session identifiers so the provider session
		// created below can be attached
		if payment.SessionID != "" && !strings.HasPrefix(payment.SessionID, providerSessionPrefix) {
			if err := s.db.ClearPaymentSession(payment.ID); err != nil {
				return nil, errors.ErrInternalStorageError.WithErr(err)
			}
			payment.SessionID = ""
		}
	} else if membership != nil || booking != nil {
		// idempotent short-circuit, reuse a pending payment whose provider
		// session is still open
		var pending *db.Payment
		var err error
		if membership != nil {
			pending, err = s.db.PendingMembershipPayment(req.UserID, membership.ID)
		} else {
			pending, err = s.db.PendingBookingPayment(req.UserID, booking.ID)
		}
		if err == nil && strings.HasPrefix(pending.SessionID, providerSessionPrefix) {
			if status, err := s.provider.GetCheckoutSession(pending.SessionID); err == nil && status.Status == "open" {
				return &CheckoutResult{
					SessionID: pending.SessionID,
					URL:       status.URL,
					PaymentID: pending.ID.Hex(),
					Amount:    pending.Amount,
					Reused:    true,
				}, nil
			}
			// session gone or expired on the provider side, fall through and
			// attach a new one to the same record
			payment = pending
		} else if err == nil {
			payment = pending
		} else if err != db.ErrNotFound {
			return nil, errors.ErrInternalStorageError.WithErr(err)
		}
	}

	metadata := map[string]string{
		"userId": fmt.Sprintf("%d", req.UserID),
		"type":   string(req.Type),
	}
	if membership != nil {
		metadata["membershipId"] = membership.ID.Hex()
	}
	if booking != nil {
		metadata["bookingId"] = booking.ID.Hex()
	}
	if req.PlanType != "" {
		metadata["planType"] = req.PlanType
	}
	if payment != nil {
		metadata["paymentId"] = payment.ID.Hex()
	}
	session, err := s.provider.CreateCheckoutSession(&stripe.CheckoutParams{
		CustomerEmail: user.Email,
		ProductName:   checkoutProductName(req.Type, req.PlanType),
		Description:   req.Description,
		Amount:        amount,
		Metadata:      metadata,
	})
	if err != nil {
		return nil, errors.ErrPaymentProvider.WithErr(err)
	}

	if payment == nil {
		payment = &db.Payment{
			UserID:      req.UserID,
			Type:        req.Type,
			PlanType:    req.PlanType,
			Description: req.Description,
		}
		if membership != nil {
			payment.MembershipID = membership.ID
		}
		if booking != nil {
			payment.BookingID = booking.ID
		}
		freshPayment = true
	}
	payment.Amount = amount
	payment.Status = db.PaymentPending
	payment.SessionID = session.ID
	if _, err := s.db.SetPayment(payment); err != nil {
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	// back-reference fresh spa payments onto their booking
	if freshPayment && req.Type == db.PaymentTypeSpaService && booking != nil {
		booking.PaymentID = payment.ID
		if _, err := s.db.SetBooking(booking); err != nil {
			log.Warn().Err(err).Str("booking", booking.ID.Hex()).Msg("failed to back-reference payment on booking")
		}
	}
	return &CheckoutResult{
		SessionID: session.ID,
		URL:       session.URL,
		PaymentID: payment.ID.Hex(),
		Amount:    amount,
	}, nil
}

// CreatePendingPayment records a Pending payment with no provider session
// attached yet. The record can later be picked up by the retry path of
// InitiateCheckout.
func (s *Service) CreatePendingPayment(req *CheckoutRequest) (*db.Payment, error) {
	if req == nil || req.Type == "" || req.UserID == 0 {
		return nil, errors.ErrInvalidData.Withf("type and userId are required")
	}
	amount := req.Amount
	if amount <= 0 {
		if req.Type != db.PaymentTypeSpaService {
			return nil, errors.ErrInvalidData.Withf("amount must be positive")
		}
		amount = DefaultSpaServicePrice
	}
	if _, err := s.db.User(req.UserID); err != nil {
		if err == db.ErrNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	payment := &db.Payment{
		UserID:      req.UserID,
		Type:        req.Type,
		Amount:      amount,
		Status:      db.PaymentPending,
		PlanType:    req.PlanType,
		Description: req.Description,
	}
	if req.MembershipID != "" {
		membershipID, err := primitive.ObjectIDFromHex(req.MembershipID)
		if err != nil {
			return nil, errors.ErrInvalidData.Withf("invalid membership id")
		}
		if _, err := s.db.Membership(membershipID); err != nil {
			if err == db.ErrNotFound {
				return nil, errors.ErrMembershipNotFound
			}
			return nil, errors.ErrInternalStorageError.WithErr(err)
		}
		payment.MembershipID = membershipID
	}
	if req.BookingID != "" {
		bookingID, err := primitive.ObjectIDFromHex(req.BookingID)
		if err != nil {
			return nil, errors.ErrInvalidData.Withf("invalid booking id")
		}
		if _, err := s.db.Booking(bookingID); err != nil {
			if err == db.ErrNotFound {
				return nil, errors.ErrBookingNotFound
			}
			return nil, errors.ErrInternalStorageError.WithErr(err)
		}
		payment.BookingID = bookingID
	}
	if _, err := s.db.SetPayment(payment); err != nil {
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	return payment, nil
}

func checkoutProductName(paymentType db.PaymentType, planType string) string {
	switch paymentType {
	case db.PaymentTypeMembership:
		if planType != "" {
			return fmt.Sprintf("%s membership", planType)
		}
		return "Gym membership"
	case db.PaymentTypeSpaService:
		return "Spa service"
	default:
		return string(paymentType)
	}
}
