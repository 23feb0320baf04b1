package payments

import (
	"testing"
	"time"

	"github.com/FebaRodrigues/final-fit-sub000/db"
	qt "github.com/frankban/quicktest"
)

func TestAddMonths(t *testing.T) {
	c := qt.New(t)

	type testCase struct {
		start  string
		months int
		want   string
	}

	for name, tc := range map[string]testCase{
		"plain_month":           {start: "2025-03-15", months: 1, want: "2025-04-15"},
		"jan31_plus_one":        {start: "2025-01-31", months: 1, want: "2025-02-28"},
		"jan31_plus_one_leap":   {start: "2024-01-31", months: 1, want: "2024-02-29"},
		"jan31_quarterly":       {start: "2025-01-31", months: 3, want: "2025-04-30"},
		"oct31_plus_one":        {start: "2025-10-31", months: 1, want: "2025-11-30"},
		"year_rollover":         {start: "2025-11-30", months: 3, want: "2026-02-28"},
		"yearly_keeps_feb29":    {start: "2024-02-29", months: 12, want: "2025-02-28"},
		"first_of_month":        {start: "2025-06-01", months: 3, want: "2025-09-01"},
		"december_to_january":   {start: "2025-12-15", months: 1, want: "2026-01-15"},
		"yearly_plain_boundary": {start: "2025-05-20", months: 12, want: "2026-05-20"},
	} {
		tc := tc
		c.Run(name, func(c *qt.C) {
			start, err := time.Parse(time.DateOnly, tc.start)
			c.Assert(err, qt.IsNil)
			got := addMonths(start, tc.months)
			c.Assert(got.Format(time.DateOnly), qt.Equals, tc.want)
		})
	}
}

func TestAddMonthsKeepsClock(t *testing.T) {
	c := qt.New(t)
	start := time.Date(2025, time.January, 31, 13, 45, 12, 0, time.UTC)
	got := addMonths(start, 1)
	c.Assert(got.Hour(), qt.Equals, 13)
	c.Assert(got.Minute(), qt.Equals, 45)
	c.Assert(got.Second(), qt.Equals, 12)
	c.Assert(got.Day(), qt.Equals, 28)
}

func TestDurationMonths(t *testing.T) {
	c := qt.New(t)
	c.Assert(durationMonths(db.DurationMonthly), qt.Equals, 1)
	c.Assert(durationMonths(db.DurationQuarterly), qt.Equals, 3)
	c.Assert(durationMonths(db.DurationYearly), qt.Equals, 12)
	// unknown durations fall back to a single month
	c.Assert(durationMonths(db.MembershipDuration("Weekly")), qt.Equals, 1)
}

func TestMembershipEndDate(t *testing.T) {
	c := qt.New(t)
	start, err := time.Parse(time.DateOnly, "2025-01-31")
	c.Assert(err, qt.IsNil)
	end := membershipEndDate(start, db.DurationQuarterly)
	c.Assert(end.Format(time.DateOnly), qt.Equals, "2025-04-30")
}
