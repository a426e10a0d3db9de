package matching

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)

	t.Run("within window", func(t *testing.T) {
		c := Classify("2024-01-05", now, 7)
		if !c.ClosingSoon {
			t.Error("expected closing soon")
		}
		if c.DaysLeft == nil || *c.DaysLeft != 4 {
			t.Errorf("expected 4 days left, got %v", c.DaysLeft)
		}
	})

	t.Run("boundary day counts", func(t *testing.T) {
		c := Classify("2024-01-08", now, 7)
		if !c.ClosingSoon || c.DaysLeft == nil || *c.DaysLeft != 7 {
			t.Errorf("day 7 should be inside the window, got %+v", c)
		}

		c = Classify("2024-01-09", now, 7)
		if c.ClosingSoon {
			t.Error("day 8 should be outside the window")
		}

		c = Classify("2024-01-01", now, 7)
		if !c.ClosingSoon || c.DaysLeft == nil || *c.DaysLeft != 0 {
			t.Errorf("deadline today should be closing soon with 0 days, got %+v", c)
		}
	})

	t.Run("past deadline is not closing soon", func(t *testing.T) {
		c := Classify("2023-12-25", now, 7)
		if c.ClosingSoon {
			t.Error("expired deadline must not be flagged closing soon")
		}
		if c.DaysLeft == nil || *c.DaysLeft != -7 {
			t.Errorf("expected -7 days left, got %v", c.DaysLeft)
		}
	})

	t.Run("unparseable deadline fails open", func(t *testing.T) {
		for _, bad := range []string{"", "soon", "2024/01/05", "05-01-2024"} {
			c := Classify(bad, now, 7)
			if c.ClosingSoon {
				t.Errorf("%q: bad deadline must not be closing soon", bad)
			}
			if c.DaysLeft != nil {
				t.Errorf("%q: bad deadline must have nil days left", bad)
			}
		}
	})

	t.Run("window is per call", func(t *testing.T) {
		if !Classify("2024-01-11", now, 10).ClosingSoon {
			t.Error("10-day window should include a deadline 10 days out")
		}
		if Classify("2024-01-11", now, 7).ClosingSoon {
			t.Error("7-day window should exclude a deadline 10 days out")
		}
	})

	t.Run("time of day does not shift day arithmetic", func(t *testing.T) {
		lateNow := time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)
		c := Classify("2024-01-05", lateNow, 7)
		if c.DaysLeft == nil || *c.DaysLeft != 4 {
			t.Errorf("expected 4 days regardless of clock time, got %v", c.DaysLeft)
		}
	})
}
