package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSub(t *testing.T) {
	testCases := []struct {
		name string
		d, x Date
		want int
	}{
		{"same day", New(2025, time.March, 10), New(2025, time.March, 10), 0},
		{"next day", New(2025, time.March, 11), New(2025, time.March, 10), 1},
		{"previous day", New(2025, time.March, 9), New(2025, time.March, 10), -1},
		{"across month", New(2025, time.April, 2), New(2025, time.March, 30), 3},
		{"across year", New(2026, time.January, 1), New(2025, time.December, 31), 1},
		{"across leap day", New(2024, time.March, 1), New(2024, time.February, 28), 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.d.Sub(tc.x); got != tc.want {
				t.Errorf("%v.Sub(%v) = %d, want %d", tc.d, tc.x, got, tc.want)
			}
		})
	}
}

func TestAddSubRoundTrip(t *testing.T) {
	base := New(2025, time.January, 31)
	for _, n := range []int{0, 1, 28, 30, 365, -7} {
		if got := base.Add(n).Sub(base); got != n {
			t.Errorf("Add(%d).Sub(base) = %d, want %d", n, got, n)
		}
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("2025-7-1")
	if err != nil {
		t.Fatalf("Parse() returned unexpected error: %v", err)
	}
	if want := New(2025, time.July, 1); d != want {
		t.Errorf("Parse() = %v, want %v", d, want)
	}
	if _, err := Parse("not-a-date"); err == nil {
		t.Error("Parse() expected an error for invalid input, got nil")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2025, time.February, 3)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() returned unexpected error: %v", err)
	}
	if string(data) != `"2025-02-03"` {
		t.Errorf("Marshal() = %s, want %q", data, "2025-02-03")
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() returned unexpected error: %v", err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}
