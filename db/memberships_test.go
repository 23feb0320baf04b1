package db

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestMembershipLifecycle(t *testing.T) {
	c := qt.New(t)
	userID := testUser(t, "membership-lifecycle@example.com")

	id, err := testDB.SetMembership(&Membership{
		UserID:   userID,
		PlanType: "Premium",
		Duration: DurationMonthly,
		Price:    4999,
	})
	c.Assert(err, qt.IsNil)

	membership, err := testDB.Membership(id)
	c.Assert(err, qt.IsNil)
	c.Assert(membership.Status, qt.Equals, MembershipPending)
	c.Assert(membership.Price, qt.Equals, int64(4999))
	c.Assert(membership.CreatedAt.IsZero(), qt.IsFalse)

	pending, err := testDB.PendingMembershipByUser(userID)
	c.Assert(err, qt.IsNil)
	c.Assert(pending.ID, qt.Equals, id)

	start := time.Now()
	end := start.AddDate(0, 1, 0)
	c.Assert(testDB.ActivateMembership(userID, id, start, end), qt.IsNil)

	active, err := testDB.ActiveMembershipByUser(userID)
	c.Assert(err, qt.IsNil)
	c.Assert(active.ID, qt.Equals, id)
	c.Assert(active.Status, qt.Equals, MembershipActive)
	c.Assert(active.StartDate.Unix(), qt.Equals, start.Unix())
	c.Assert(active.EndDate.Unix(), qt.Equals, end.Unix())
}

func TestSingleActiveMembership(t *testing.T) {
	c := qt.New(t)
	userID := testUser(t, "single-active@example.com")

	first, err := testDB.SetMembership(&Membership{
		UserID:   userID,
		PlanType: "Basic",
		Duration: DurationMonthly,
		Price:    4999,
	})
	c.Assert(err, qt.IsNil)
	second, err := testDB.SetMembership(&Membership{
		UserID:   userID,
		PlanType: "Premium",
		Duration: DurationQuarterly,
		Price:    12999,
	})
	c.Assert(err, qt.IsNil)

	start := time.Now()
	c.Assert(testDB.ActivateMembership(userID, first, start, start.AddDate(0, 1, 0)), qt.IsNil)
	// activating the second one must expire the first
	c.Assert(testDB.ActivateMembership(userID, second, start, start.AddDate(0, 3, 0)), qt.IsNil)

	memberships, err := testDB.MembershipsByUser(userID)
	c.Assert(err, qt.IsNil)
	activeCount := 0
	for _, m := range memberships {
		if m.Status == MembershipActive {
			activeCount++
			c.Assert(m.ID, qt.Equals, second)
		}
		if m.ID == first {
			c.Assert(m.Status, qt.Equals, MembershipExpired)
		}
	}
	c.Assert(activeCount, qt.Equals, 1)
}

func TestActivateMembershipWrongUser(t *testing.T) {
	c := qt.New(t)
	ownerID := testUser(t, "activate-owner@example.com")
	otherID := testUser(t, "activate-other@example.com")

	id, err := testDB.SetMembership(&Membership{
		UserID:   ownerID,
		PlanType: "Basic",
		Duration: DurationMonthly,
		Price:    4999,
	})
	c.Assert(err, qt.IsNil)

	start := time.Now()
	err = testDB.ActivateMembership(otherID, id, start, start.AddDate(0, 1, 0))
	c.Assert(err, qt.Equals, ErrNotFound)
}

func TestDelMembership(t *testing.T) {
	c := qt.New(t)
	userID := testUser(t, "del-membership@example.com")
	id, err := testDB.SetMembership(&Membership{
		UserID:   userID,
		PlanType: "Basic",
		Duration: DurationMonthly,
		Price:    4999,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(testDB.DelMembership(id), qt.IsNil)
	_, err = testDB.Membership(id)
	c.Assert(err, qt.Equals, ErrNotFound)
}
