package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/FebaRodrigues/final-fit-sub000/api/apicommon"
	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
)

// defaultPlanPrices is the catalog price per duration, in minor currency
// units, applied when the client does not provide a price.
var defaultPlanPrices = map[db.MembershipDuration]int64{
	db.DurationMonthly:   4999,
	db.DurationQuarterly: 12999,
	db.DurationYearly:    44999,
}

// createMembershipHandler records a pending membership plan selection for
// the current user. The membership stays pending until its payment settles.
func (a *API) createMembershipHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req := &apicommon.MembershipRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if req.PlanType == "" {
		errors.ErrInvalidData.Withf("plan type is empty").Write(w)
		return
	}
	price, ok := defaultPlanPrices[req.Duration]
	if !ok {
		errors.ErrInvalidData.Withf("unknown duration %q", req.Duration).Write(w)
		return
	}
	if req.Price > 0 {
		price = req.Price
	}
	membership := &db.Membership{
		UserID:   user.ID,
		PlanType: req.PlanType,
		Duration: req.Duration,
		Price:    price,
	}
	id, err := a.db.SetMembership(membership)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	created, err := a.db.Membership(id)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, created)
}

// membershipsHandler lists memberships. Regular users get their own records;
// admins may inspect any user via the `userId` query parameter.
func (a *API) membershipsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	userID := user.ID
	if rawID := r.URL.Query().Get("userId"); rawID != "" && user.Role == db.AdminRole {
		parsed, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			errors.ErrMalformedURLParam.WithErr(err).Write(w)
			return
		}
		userID = parsed
	}
	memberships, err := a.db.MembershipsByUser(userID)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, &apicommon.MembershipList{Memberships: memberships})
}

// membershipInfoHandler returns a single membership, checking ownership for
// non-admin users.
func (a *API) membershipInfoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	membershipID, err := objectIDFromURL(r, "membershipID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	membership, err := a.db.Membership(membershipID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrMembershipNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if membership.UserID != user.ID && user.Role != db.AdminRole {
		errors.ErrMembershipNotFound.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, membership)
}

// deleteMembershipHandler removes a pending membership selection. Active
// memberships cannot be deleted by their owner, only by an admin.
func (a *API) deleteMembershipHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	membershipID, err := objectIDFromURL(r, "membershipID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	membership, err := a.db.Membership(membershipID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrMembershipNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if membership.UserID != user.ID && user.Role != db.AdminRole {
		errors.ErrMembershipNotFound.Write(w)
		return
	}
	if membership.Status == db.MembershipActive && user.Role != db.AdminRole {
		errors.ErrInvalidData.Withf("active membership cannot be deleted").Write(w)
		return
	}
	if err := a.db.DelMembership(membershipID); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteOK(w)
}
