package validation

import "testing"

func TestDateParts(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		if r := DateParts(2024, 6, 15); !r.Valid() {
			t.Errorf("expected valid, got %v", r)
		}
	})

	t.Run("february_31_passes", func(t *testing.T) {
		// Day is only range-checked; per-month day counts are not enforced.
		if r := DateParts(2024, 2, 31); !r.Valid() {
			t.Errorf("expected valid, got %v", r)
		}
	})

	t.Run("zero_year", func(t *testing.T) {
		r := DateParts(0, 6, 15)
		if r.Valid() {
			t.Fatal("expected invalid")
		}
		if _, ok := r["year"]; !ok {
			t.Errorf("expected year error, got %v", r)
		}
	})

	t.Run("year_checked_before_month", func(t *testing.T) {
		r := DateParts(0, 13, 40)
		if len(r) != 1 {
			t.Fatalf("expected a single failing field, got %v", r)
		}
		if _, ok := r["year"]; !ok {
			t.Errorf("expected year to win, got %v", r)
		}
	})

	t.Run("month_checked_before_day", func(t *testing.T) {
		r := DateParts(2024, 0, 40)
		if _, ok := r["month"]; !ok {
			t.Errorf("expected month to win, got %v", r)
		}
	})

	t.Run("month_bounds", func(t *testing.T) {
		for _, m := range []int{0, 13, -1} {
			if r := DateParts(2024, m, 1); r.Valid() {
				t.Errorf("month %d: expected invalid", m)
			}
		}
		for _, m := range []int{1, 12} {
			if r := DateParts(2024, m, 1); !r.Valid() {
				t.Errorf("month %d: expected valid", m)
			}
		}
	})

	t.Run("day_bounds", func(t *testing.T) {
		for _, d := range []int{0, 32} {
			if r := DateParts(2024, 6, d); r.Valid() {
				t.Errorf("day %d: expected invalid", d)
			}
		}
		for _, d := range []int{1, 31} {
			if r := DateParts(2024, 6, d); !r.Valid() {
				t.Errorf("day %d: expected valid", d)
			}
		}
	})
}

func TestIsNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", true}, // empty means "no input yet"
		{"0", true},
		{"12345", true},
		{"12.5", false},
		{"-3", false},
		{"12a", false},
		{" 12", false},
	}
	for _, c := range cases {
		if got := IsNumeric(c.in); got != c.want {
			t.Errorf("IsNumeric(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestResultFirst(t *testing.T) {
	r := Result{"month": "bad month", "day": "bad day"}
	if got := r.First("year", "month", "day"); got != "bad month" {
		t.Errorf("expected month message first, got %q", got)
	}
	if got := (Result{}).First("year"); got != "" {
		t.Errorf("expected empty message, got %q", got)
	}
}
