package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/FebaRodrigues/final-fit-sub000/api/apicommon"
	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
	"github.com/FebaRodrigues/final-fit-sub000/payments"
	"github.com/rs/zerolog/log"
)

// initiateCheckoutHandler godoc
//
//	@Summary		Initiate a checkout session
//	@Description	Create or reuse a provider checkout session for a membership or spa payment
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		apicommon.CheckoutRequest	true	"Checkout request"
//	@Success		200		{object}	payments.CheckoutResult
//	@Failure		400		{object}	errors.Error
//	@Failure		500		{object}	errors.Error
//	@Router			/payments [post]
func (a *API) initiateCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req := &apicommon.CheckoutRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	result, err := a.payments.InitiateCheckout(&payments.CheckoutRequest{
		UserID:       user.ID,
		Type:         req.Type,
		Amount:       req.Amount,
		MembershipID: req.MembershipID,
		BookingID:    req.BookingID,
		PaymentID:    req.PaymentID,
		PlanType:     req.PlanType,
		Description:  req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, result)
}

// createPendingPaymentHandler records a payment without requesting a
// provider session, for flows where checkout is deferred.
func (a *API) createPendingPaymentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req := &apicommon.CheckoutRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	payment, err := a.payments.CreatePendingPayment(&payments.CheckoutRequest{
		UserID:       user.ID,
		Type:         req.Type,
		Amount:       req.Amount,
		MembershipID: req.MembershipID,
		BookingID:    req.BookingID,
		PlanType:     req.PlanType,
		Description:  req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, payment)
}

// verifySessionHandler godoc
//
//	@Summary		Verify a checkout session
//	@Description	Confirm a checkout session against the provider and settle the local payment
//	@Tags			payments
//	@Produce		json
//	@Security		BearerAuth
//	@Param			session_id	query		string	true	"Provider checkout session ID"
//	@Success		200			{object}	payments.VerifyResult
//	@Failure		400			{object}	errors.Error
//	@Failure		404			{object}	errors.Error
//	@Router			/payments/verify-session [get]
func (a *API) verifySessionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		errors.ErrMalformedURLParam.Withf("session_id is required").Write(w)
		return
	}
	// a user may only verify their own sessions, checked before any
	// settlement side effect
	payment, err := a.db.PaymentBySessionID(sessionID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrPaymentNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if payment.UserID != user.ID && user.Role != db.AdminRole {
		errors.ErrPaymentNotFound.Write(w)
		return
	}
	result, err := a.payments.VerifySession(sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, result)
}

// paymentsHandler lists the payment history of the current user.
func (a *API) paymentsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	history, err := a.db.PaymentsByUser(user.ID)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.PaymentList{Payments: history})
}

// paymentInfoHandler returns a single payment record, checking ownership for
// non-admin users.
func (a *API) paymentInfoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	paymentID, err := objectIDFromURL(r, "paymentID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	payment, err := a.db.Payment(paymentID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrPaymentNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if payment.UserID != user.ID && user.Role != db.AdminRole {
		errors.ErrPaymentNotFound.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, payment)
}

// sendOTPHandler issues a pre-payment verification code for the current
// user and mails it to their address.
func (a *API) sendOTPHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	result, err := a.payments.IssueOTP(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, result)
}

// verifyOTPHandler verifies a pre-payment code for the current user. On
// success the code is consumed and cannot be replayed.
func (a *API) verifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req := &apicommon.OTPRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.Code == "" {
		errors.ErrInvalidData.Withf("code is required").Write(w)
		return
	}
	result, err := a.payments.VerifyOTP(user.ID, req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, result)
}

// paymentWebhookHandler godoc
//
//	@Summary		Payment provider webhook
//	@Description	Receive and reconcile checkout events from the payment provider
//	@Tags			payments
//	@Accept			json
//	@Success		200
//	@Failure		400	{object}	errors.Error
//	@Router			/payments/webhook [post]
func (a *API) paymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Warn().Err(err).Msg("could not read webhook payload")
		errors.ErrMalformedBody.Write(w)
		return
	}
	signature := r.Header.Get("Stripe-Signature")
	if err := a.payments.HandleWebhookEvent(payload, signature); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// writeServiceError writes payment service errors preserving their HTTP
// status, falling back to a generic 500 for unexpected error types.
func writeServiceError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(errors.Error); ok {
		apiErr.Write(w)
		return
	}
	log.Warn().Err(err).Msg("unexpected service error")
	errors.ErrGenericInternalServerError.Write(w)
}
