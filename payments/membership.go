package payments

import (
	"time"

	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// durationMonths maps a plan duration to its length in calendar months.
// Unknown durations fall back to one month.
func durationMonths(duration db.MembershipDuration) int {
	switch duration {
	case db.DurationMonthly:
		return 1
	case db.DurationQuarterly:
		return 3
	case db.DurationYearly:
		return 12
	default:
		return 1
	}
}

// addMonths advances t by the given number of calendar months, clamping the
// day to the last day of the target month. Jan 31 plus one month yields
// Feb 28 (or 29), never Mar 2.
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, hour, minute, sec, t.Nanosecond(), t.Location())
	// day zero of the following month is the last day of the target month
	lastDay := time.Date(firstOfTarget.Year(), firstOfTarget.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

// membershipEndDate computes the expiry of a membership activated at start.
func membershipEndDate(start time.Time, duration db.MembershipDuration) time.Time {
	return addMonths(start, durationMonths(duration))
}

// ActivateMembership makes the given membership the sole Active one for the
// user, expiring every other membership and stamping the activation period
// from the plan duration. The per-user lock must be held by the caller when
// invoked from a reconciliation path.
func (s *Service) ActivateMembership(userID uint64, membershipID primitive.ObjectID) (*db.Membership, error) {
	membership, err := s.db.Membership(membershipID)
	if err != nil {
		if err == db.ErrNotFound {
			return nil, errors.ErrMembershipNotFound
		}
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	if membership.UserID != userID {
		return nil, errors.ErrMembershipNotFound.Withf("membership %s does not belong to user %d", membershipID.Hex(), userID)
	}
	start := time.Now()
	end := membershipEndDate(start, membership.Duration)
	if err := s.db.ActivateMembership(userID, membershipID, start, end); err != nil {
		if err == db.ErrNotFound {
			return nil, errors.ErrMembershipNotFound
		}
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	activated, err := s.db.Membership(membershipID)
	if err != nil {
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	return activated, nil
}
