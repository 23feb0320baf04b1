package payments

import (
	"testing"
	"time"

	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
	qt "github.com/frankban/quicktest"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestVerifySessionSettlesMembership(t *testing.T) {
	c := qt.New(t)
	service, provider := newTestService(t)
	userID := newTestUser(t, "verify-settle@example.com")
	membership := newTestMembership(t, userID, db.DurationQuarterly, 12999)

	checkout, err := service.InitiateCheckout(&CheckoutRequest{
		UserID:       userID,
		Type:         db.PaymentTypeMembership,
		Amount:       membership.Price,
		MembershipID: membership.ID.Hex(),
	})
	c.Assert(err, qt.IsNil)
	provider.markPaid(checkout.SessionID)

	result, err := service.VerifySession(checkout.SessionID)
	c.Assert(err, qt.IsNil)
	c.Assert(result.AlreadyProcessed, qt.IsFalse)
	c.Assert(result.ActivationError, qt.Equals, "")
	c.Assert(result.Payment.Status, qt.Equals, db.PaymentCompleted)
	c.Assert(result.Payment.PaidAt.IsZero(), qt.IsFalse)
	c.Assert(result.Membership, qt.IsNotNil)
	c.Assert(result.Membership.Status, qt.Equals, db.MembershipActive)
	// quarterly plan runs three calendar months
	c.Assert(result.Membership.EndDate.After(result.Membership.StartDate), qt.IsTrue)

	active, err := testDB.ActiveMembershipByUser(userID)
	c.Assert(err, qt.IsNil)
	c.Assert(active.ID, qt.Equals, membership.ID)
}

func TestVerifySessionIdempotent(t *testing.T) {
	c := qt.New(t)
	service, provider := newTestService(t)
	userID := newTestUser(t, "verify-idempotent@example.com")
	membership := newTestMembership(t, userID, db.DurationMonthly, 4999)

	checkout, err := service.InitiateCheckout(&CheckoutRequest{
		UserID:       userID,
		Type:         db.PaymentTypeMembership,
		Amount:       membership.Price,
		MembershipID: membership.ID.Hex(),
	})
	c.Assert(err, qt.IsNil)
	provider.markPaid(checkout.SessionID)

	first, err := service.VerifySession(checkout.SessionID)
	c.Assert(err, qt.IsNil)
	c.Assert(first.AlreadyProcessed, qt.IsFalse)

	// verifying the same session again is a no-op
	second, err := service.VerifySession(checkout.SessionID)
	c.Assert(err, qt.IsNil)
	c.Assert(second.AlreadyProcessed, qt.IsTrue)
	c.Assert(second.Payment.PaidAt.Unix(), qt.Equals, first.Payment.PaidAt.Unix())
}

func TestVerifySessionUnpaid(t *testing.T) {
	c := qt.New(t)
	service, _ := newTestService(t)
	userID := newTestUser(t, "verify-unpaid@example.com")
	membership := newTestMembership(t, userID, db.DurationMonthly, 4999)

	checkout, err := service.InitiateCheckout(&CheckoutRequest{
		UserID:       userID,
		Type:         db.PaymentTypeMembership,
		Amount:       membership.Price,
		MembershipID: membership.ID.Hex(),
	})
	c.Assert(err, qt.IsNil)

	// session exists but was never paid
	_, err = service.VerifySession(checkout.SessionID)
	assertErrCode(c, err, errors.ErrPaymentNotCompleted)

	payment, err := testDB.PaymentBySessionID(checkout.SessionID)
	c.Assert(err, qt.IsNil)
	c.Assert(payment.Status, qt.Equals, db.PaymentPending)
}

func TestVerifySessionUnknown(t *testing.T) {
	c := qt.New(t)
	service, _ := newTestService(t)
	_, err := service.VerifySession("cs_test_never_created")
	assertErrCode(c, err, errors.ErrPaymentNotFound)
}

func TestVerifySessionActivationFailureStillCompletes(t *testing.T) {
	c := qt.New(t)
	service, provider := newTestService(t)
	userID := newTestUser(t, "verify-activation-failure@example.com")
	membership := newTestMembership(t, userID, db.DurationMonthly, 4999)

	checkout, err := service.InitiateCheckout(&CheckoutRequest{
		UserID:       userID,
		Type:         db.PaymentTypeMembership,
		Amount:       membership.Price,
		MembershipID: membership.ID.Hex(),
	})
	c.Assert(err, qt.IsNil)
	// the membership disappears before the payment settles
	c.Assert(testDB.DelMembership(membership.ID), qt.IsNil)
	provider.markPaid(checkout.SessionID)

	result, err := service.VerifySession(checkout.SessionID)
	c.Assert(err, qt.IsNil)
	// the payment completion stands, the activation failure is reported
	c.Assert(result.Payment.Status, qt.Equals, db.PaymentCompleted)
	c.Assert(result.Membership, qt.IsNil)
	c.Assert(result.ActivationError, qt.Not(qt.Equals), "")
}

func TestActivateMembershipOwnership(t *testing.T) {
	c := qt.New(t)
	service, _ := newTestService(t)
	ownerID := newTestUser(t, "activate-ownership-owner@example.com")
	otherID := newTestUser(t, "activate-ownership-other@example.com")
	membership := newTestMembership(t, ownerID, db.DurationMonthly, 4999)

	_, err := service.ActivateMembership(otherID, membership.ID)
	assertErrCode(c, err, errors.ErrMembershipNotFound)

	_, err = service.ActivateMembership(ownerID, primitive.NewObjectID())
	assertErrCode(c, err, errors.ErrMembershipNotFound)

	activated, err := service.ActivateMembership(ownerID, membership.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(activated.Status, qt.Equals, db.MembershipActive)
}

func TestVerifySessionSendsSettlementMails(t *testing.T) {
	c := qt.New(t)
	service, provider, mailer := newTestServiceWithMailer(t)
	userID := newTestUser(t, "verify-mails@example.com")
	membership := newTestMembership(t, userID, db.DurationMonthly, 4999)

	checkout, err := service.InitiateCheckout(&CheckoutRequest{
		UserID:       userID,
		Type:         db.PaymentTypeMembership,
		Amount:       membership.Price,
		MembershipID: membership.ID.Hex(),
	})
	c.Assert(err, qt.IsNil)
	provider.markPaid(checkout.SessionID)

	result, err := service.VerifySession(checkout.SessionID)
	c.Assert(err, qt.IsNil)
	c.Assert(result.Membership, qt.IsNotNil)

	// the paying user gets the receipt and the activation mail
	c.Assert(mailer.subjects(), qt.DeepEquals, []string{
		"Payment received",
		"Your membership is active",
	})
	for _, sent := range mailer.sent {
		c.Assert(sent.ToAddress, qt.Equals, "verify-mails@example.com")
	}
	c.Assert(mailer.sent[0].PlainBody, qt.Contains, "49.99")

	// verifying again settles nothing and sends nothing
	_, err = service.VerifySession(checkout.SessionID)
	c.Assert(err, qt.IsNil)
	c.Assert(len(mailer.sent), qt.Equals, 2)
}

func TestSpaSettlementSendsBookingMail(t *testing.T) {
	c := qt.New(t)
	service, provider, mailer := newTestServiceWithMailer(t)
	userID := newTestUser(t, "verify-spa-mail@example.com")
	bookingID, err := testDB.SetBooking(&db.SpaBooking{
		UserID:  userID,
		Service: "Sauna",
		Slot:    time.Now().Add(72 * time.Hour),
	})
	c.Assert(err, qt.IsNil)

	checkout, err := service.InitiateCheckout(&CheckoutRequest{
		UserID:    userID,
		Type:      db.PaymentTypeSpaService,
		BookingID: bookingID.Hex(),
	})
	c.Assert(err, qt.IsNil)
	provider.markPaid(checkout.SessionID)

	_, err = service.VerifySession(checkout.SessionID)
	c.Assert(err, qt.IsNil)

	booking, err := testDB.Booking(bookingID)
	c.Assert(err, qt.IsNil)
	c.Assert(booking.Status, qt.Equals, db.BookingConfirmed)

	c.Assert(mailer.subjects(), qt.DeepEquals, []string{
		"Payment received",
		"Spa booking confirmed",
	})
	c.Assert(mailer.sent[1].PlainBody, qt.Contains, "Sauna")
}
