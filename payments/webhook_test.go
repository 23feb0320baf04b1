package payments

import (
	"testing"
	"time"

	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
	qt "github.com/frankban/quicktest"
)

func TestWebhookInvalidSignature(t *testing.T) {
	c := qt.New(t)
	service, provider := newTestService(t)
	userID := newTestUser(t, "webhook-signature@example.com")
	membership := newTestMembership(t, userID, db.DurationMonthly, 4999)

	checkout, err := service.InitiateCheckout(&CheckoutRequest{
		UserID:       userID,
		Type:         db.PaymentTypeMembership,
		Amount:       membership.Price,
		MembershipID: membership.ID.Hex(),
	})
	c.Assert(err, qt.IsNil)
	provider.markPaid(checkout.SessionID)

	payload := webhookPayload(t, "evt_bad_sig", checkout.SessionID, userID, nil)
	err = service.HandleWebhookEvent(payload, "t=1,v1=forged")
	assertErrCode(c, err, errors.ErrInvalidSignature)

	// the rejection happens before any state is touched
	payment, err := testDB.PaymentBySessionID(checkout.SessionID)
	c.Assert(err, qt.IsNil)
	c.Assert(payment.Status, qt.Equals, db.PaymentPending)
	_, err = testDB.ActiveMembershipByUser(userID)
	c.Assert(err, qt.Equals, db.ErrNotFound)
}

func TestWebhookSettlesPayment(t *testing.T) {
	c := qt.New(t)
	service, provider := newTestService(t)
	userID := newTestUser(t, "webhook-settle@example.com")
	membership := newTestMembership(t, userID, db.DurationMonthly, 4999)

	checkout, err := service.InitiateCheckout(&CheckoutRequest{
		UserID:       userID,
		Type:         db.PaymentTypeMembership,
		Amount:       membership.Price,
		MembershipID: membership.ID.Hex(),
	})
	c.Assert(err, qt.IsNil)
	provider.markPaid(checkout.SessionID)

	payload := webhookPayload(t, "evt_settle", checkout.SessionID, userID, map[string]string{
		"membershipId": membership.ID.Hex(),
	})
	c.Assert(service.HandleWebhookEvent(payload, testSignature), qt.IsNil)

	payment, err := testDB.PaymentBySessionID(checkout.SessionID)
	c.Assert(err, qt.IsNil)
	c.Assert(payment.Status, qt.Equals, db.PaymentCompleted)
	active, err := testDB.ActiveMembershipByUser(userID)
	c.Assert(err, qt.IsNil)
	c.Assert(active.ID, qt.Equals, membership.ID)
}

func TestWebhookDuplicateDeliveryAppliesOnce(t *testing.T) {
	c := qt.New(t)
	service, provider := newTestService(t)
	userID := newTestUser(t, "webhook-duplicate@example.com")
	membership := newTestMembership(t, userID, db.DurationMonthly, 4999)

	checkout, err := service.InitiateCheckout(&CheckoutRequest{
		UserID:       userID,
		Type:         db.PaymentTypeMembership,
		Amount:       membership.Price,
		MembershipID: membership.ID.Hex(),
	})
	c.Assert(err, qt.IsNil)
	provider.markPaid(checkout.SessionID)

	payload := webhookPayload(t, "evt_duplicate", checkout.SessionID, userID, map[string]string{
		"membershipId": membership.ID.Hex(),
	})
	c.Assert(service.HandleWebhookEvent(payload, testSignature), qt.IsNil)
	first, err := testDB.ActiveMembershipByUser(userID)
	c.Assert(err, qt.IsNil)

	// at-least-once delivery, the second copy must be a no-op
	c.Assert(service.HandleWebhookEvent(payload, testSignature), qt.IsNil)
	second, err := testDB.ActiveMembershipByUser(userID)
	c.Assert(err, qt.IsNil)
	c.Assert(second.StartDate.Unix(), qt.Equals, first.StartDate.Unix())
	c.Assert(second.EndDate.Unix(), qt.Equals, first.EndDate.Unix())

	memberships, err := testDB.MembershipsByUser(userID)
	c.Assert(err, qt.IsNil)
	activeCount := 0
	for _, m := range memberships {
		if m.Status == db.MembershipActive {
			activeCount++
		}
	}
	c.Assert(activeCount, qt.Equals, 1)
}

func TestWebhookCreatesMissingPayment(t *testing.T) {
	c := qt.New(t)
	service, _ := newTestService(t)
	userID := newTestUser(t, "webhook-missing@example.com")
	membership := newTestMembership(t, userID, db.DurationMonthly, 4999)

	// the local store never saw this session, the record is rebuilt from
	// the event metadata
	payload := webhookPayload(t, "evt_missing", "cs_test_unseen_session", userID, map[string]string{
		"type":         string(db.PaymentTypeMembership),
		"membershipId": membership.ID.Hex(),
	})
	c.Assert(service.HandleWebhookEvent(payload, testSignature), qt.IsNil)

	payment, err := testDB.PaymentBySessionID("cs_test_unseen_session")
	c.Assert(err, qt.IsNil)
	c.Assert(payment.Status, qt.Equals, db.PaymentCompleted)
	c.Assert(payment.Amount, qt.Equals, membership.Price)
	active, err := testDB.ActiveMembershipByUser(userID)
	c.Assert(err, qt.IsNil)
	c.Assert(active.ID, qt.Equals, membership.ID)
}

func TestWebhookSpaConfirmsBookingAndNotifiesAdmins(t *testing.T) {
	c := qt.New(t)
	service, provider := newTestService(t)
	userID := newTestUser(t, "webhook-spa@example.com")
	adminID, err := testDB.SetUser(&db.User{
		Email:     "webhook-spa-admin@example.com",
		Password:  "testpass123",
		FirstName: "Spa",
		LastName:  "Admin",
		Role:      db.AdminRole,
		Verified:  true,
	})
	c.Assert(err, qt.IsNil)

	bookingID, err := testDB.SetBooking(&db.SpaBooking{
		UserID:  userID,
		Service: "Massage",
	})
	c.Assert(err, qt.IsNil)

	checkout, err := service.InitiateCheckout(&CheckoutRequest{
		UserID:    userID,
		Type:      db.PaymentTypeSpaService,
		BookingID: bookingID.Hex(),
	})
	c.Assert(err, qt.IsNil)
	provider.markPaid(checkout.SessionID)

	payload := webhookPayload(t, "evt_spa", checkout.SessionID, userID, map[string]string{
		"type":      string(db.PaymentTypeSpaService),
		"bookingId": bookingID.Hex(),
	})
	c.Assert(service.HandleWebhookEvent(payload, testSignature), qt.IsNil)

	booking, err := testDB.Booking(bookingID)
	c.Assert(err, qt.IsNil)
	c.Assert(booking.Status, qt.Equals, db.BookingConfirmed)

	adminNotifications, err := testDB.NotificationsByUser(adminID)
	c.Assert(err, qt.IsNil)
	c.Assert(len(adminNotifications) > 0, qt.IsTrue)
}

func TestProcessedEventsPruned(t *testing.T) {
	c := qt.New(t)
	service, provider := newTestService(t)
	userID := newTestUser(t, "webhook-prune@example.com")
	membership := newTestMembership(t, userID, db.DurationMonthly, 4999)

	// a dedup entry outside the retention window and a recent one
	service.processedEvents.Store("evt_stale", time.Now().Add(-processedEventTTL-time.Hour))
	service.processedEvents.Store("evt_recent", time.Now())

	checkout, err := service.InitiateCheckout(&CheckoutRequest{
		UserID:       userID,
		Type:         db.PaymentTypeMembership,
		Amount:       membership.Price,
		MembershipID: membership.ID.Hex(),
	})
	c.Assert(err, qt.IsNil)
	provider.markPaid(checkout.SessionID)

	payload := webhookPayload(t, "evt_prune", checkout.SessionID, userID, map[string]string{
		"membershipId": membership.ID.Hex(),
	})
	c.Assert(service.HandleWebhookEvent(payload, testSignature), qt.IsNil)

	_, staleKept := service.processedEvents.Load("evt_stale")
	c.Assert(staleKept, qt.IsFalse)
	_, recentKept := service.processedEvents.Load("evt_recent")
	c.Assert(recentKept, qt.IsTrue)
	_, currentKept := service.processedEvents.Load("evt_prune")
	c.Assert(currentKept, qt.IsTrue)
}
