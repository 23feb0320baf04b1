package api

import (
	"net/http"
	"testing"

	"github.com/FebaRodrigues/final-fit-sub000/db"
	qt "github.com/frankban/quicktest"
)

func TestVerifySessionOwnership(t *testing.T) {
	c := qt.New(t)
	ownerToken := registerAndLogin(t, "verify-owner@example.com")
	otherToken := registerAndLogin(t, "verify-other@example.com")
	owner, err := testDB.UserByEmail("verify-owner@example.com")
	c.Assert(err, qt.IsNil)

	const sessionID = "cs_test_api_ownership"
	paymentID, err := testDB.SetPayment(&db.Payment{
		UserID:    owner.ID,
		Amount:    4999,
		Type:      db.PaymentTypeMembership,
		Status:    db.PaymentPending,
		SessionID: sessionID,
	})
	c.Assert(err, qt.IsNil)

	// another user's verification attempt is rejected before any
	// settlement side effect
	_, code := testRequest(t, http.MethodGet, otherToken, nil,
		paymentsVerifySessionEndpoint+"?session_id="+sessionID)
	c.Assert(code, qt.Equals, http.StatusNotFound)
	payment, err := testDB.Payment(paymentID)
	c.Assert(err, qt.IsNil)
	c.Assert(payment.Status, qt.Equals, db.PaymentPending)

	// the owner passes the ownership check; the test API runs without a
	// payment provider so the verification itself is unavailable
	_, code = testRequest(t, http.MethodGet, ownerToken, nil,
		paymentsVerifySessionEndpoint+"?session_id="+sessionID)
	c.Assert(code, qt.Equals, http.StatusInternalServerError)

	// an unknown session is a not found, not a server error
	_, code = testRequest(t, http.MethodGet, ownerToken, nil,
		paymentsVerifySessionEndpoint+"?session_id=cs_test_api_unknown")
	c.Assert(code, qt.Equals, http.StatusNotFound)
}
