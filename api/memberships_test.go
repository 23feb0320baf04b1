package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/FebaRodrigues/final-fit-sub000/api/apicommon"
	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
	qt "github.com/frankban/quicktest"
)

func TestMembershipEndpoints(t *testing.T) {
	c := qt.New(t)
	token := registerAndLogin(t, "member-plans@test.com")

	// unknown duration is rejected
	resp, code := testRequest(t, http.MethodPost, token, &apicommon.MembershipRequest{
		PlanType: "Gold",
		Duration: "Weekly",
	}, membershipsEndpoint)
	c.Assert(code, qt.Equals, http.StatusBadRequest)
	c.Assert(string(resp), qt.Contains, "Invalid plan duration")

	// valid plan selection uses the catalog price
	resp, code = testRequest(t, http.MethodPost, token, &apicommon.MembershipRequest{
		PlanType: "Gold",
		Duration: db.DurationMonthly,
	}, membershipsEndpoint)
	c.Assert(code, qt.Equals, http.StatusOK)
	membership := &db.Membership{}
	c.Assert(json.Unmarshal(resp, membership), qt.IsNil)
	c.Assert(membership.Status, qt.Equals, db.MembershipPending)
	c.Assert(membership.Price, qt.Equals, int64(4999))

	// the membership appears in the listing
	resp, code = testRequest(t, http.MethodGet, token, nil, membershipsEndpoint)
	c.Assert(code, qt.Equals, http.StatusOK)
	list := &apicommon.MembershipList{}
	c.Assert(json.Unmarshal(resp, list), qt.IsNil)
	c.Assert(list.Memberships, qt.HasLen, 1)
	c.Assert(list.Memberships[0].ID, qt.Equals, membership.ID)

	// it can be fetched by ID
	resp, code = testRequest(t, http.MethodGet, token, nil, membershipsEndpoint, membership.ID.Hex())
	c.Assert(code, qt.Equals, http.StatusOK)
	fetched := &db.Membership{}
	c.Assert(json.Unmarshal(resp, fetched), qt.IsNil)
	c.Assert(fetched.PlanType, qt.Equals, "Gold")

	// other members cannot see it
	otherToken := registerAndLogin(t, "member-plans-other@test.com")
	resp, code = testRequest(t, http.MethodGet, otherToken, nil, membershipsEndpoint, membership.ID.Hex())
	c.Assert(code, qt.Equals, http.StatusNotFound)
	c.Assert(resp, qt.JSONEquals, errors.ErrMembershipNotFound)

	// a pending membership can be removed by its owner
	_, code = testRequest(t, http.MethodDelete, token, nil, membershipsEndpoint, membership.ID.Hex())
	c.Assert(code, qt.Equals, http.StatusOK)
	_, err := testDB.Membership(membership.ID)
	c.Assert(err, qt.Equals, db.ErrNotFound)
}

func TestActiveMembershipDeletion(t *testing.T) {
	c := qt.New(t)
	token := registerAndLogin(t, "member-active@test.com")
	user, err := testDB.UserByEmail("member-active@test.com")
	c.Assert(err, qt.IsNil)

	// create and activate a membership directly in the database
	membershipID, err := testDB.SetMembership(&db.Membership{
		UserID:   user.ID,
		PlanType: "Gold",
		Duration: db.DurationMonthly,
		Price:    4999,
	})
	c.Assert(err, qt.IsNil)
	start := time.Now()
	c.Assert(testDB.ActivateMembership(user.ID, membershipID, start, start.AddDate(0, 1, 0)), qt.IsNil)

	// the owner cannot delete an active membership
	_, code := testRequest(t, http.MethodDelete, token, nil, membershipsEndpoint, membershipID.Hex())
	c.Assert(code, qt.Equals, http.StatusBadRequest)

	// an admin can
	admin := adminToken(t, "admin-memberships@test.com")
	_, code = testRequest(t, http.MethodDelete, admin, nil, membershipsEndpoint, membershipID.Hex())
	c.Assert(code, qt.Equals, http.StatusOK)
	_, err = testDB.Membership(membershipID)
	c.Assert(err, qt.Equals, db.ErrNotFound)
}
