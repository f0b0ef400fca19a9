package treasury

import (
	"errors"
	"testing"
	"time"

	"github.com/etnz/treasury/date"
)

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		wantErr    bool
	}{
		{"single day", 3, 3, false},
		{"ordered", 0, 10, false},
		{"reversed", 5, 2, true},
		{"negative but ordered", -3, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWindow(tt.start, tt.end)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWindow) {
					t.Fatalf("NewWindow(%d, %d) error = %v, want ErrInvalidWindow", tt.start, tt.end, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewWindow(%d, %d) returned unexpected error: %v", tt.start, tt.end, err)
			}
			if w.Start != tt.start || w.End != tt.end {
				t.Errorf("NewWindow(%d, %d) = %+v", tt.start, tt.end, w)
			}
		})
	}
}

func TestWindowClamp(t *testing.T) {
	tests := []struct {
		name string
		w    Window
		max  int
		want Window
	}{
		{"inside", Window{1, 3}, 5, Window{1, 3}},
		{"end over", Window{1, 9}, 5, Window{1, 5}},
		{"both over", Window{7, 9}, 5, Window{5, 5}},
		{"start under", Window{-2, 3}, 5, Window{0, 3}},
		{"both under", Window{-4, -2}, 5, Window{0, 0}},
		{"zero max", Window{0, 10}, 0, Window{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.Clamp(tt.max); got != tt.want {
				t.Errorf("%+v.Clamp(%d) = %+v, want %+v", tt.w, tt.max, got, tt.want)
			}
		})
	}
}

func TestWindowLen(t *testing.T) {
	if got := (Window{Start: 2, End: 2}).Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
	if got := (Window{Start: 0, End: 6}).Len(); got != 7 {
		t.Errorf("Len() = %d, want 7", got)
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: 2, End: 5}
	for offset, want := range map[int]bool{1: false, 2: true, 4: true, 5: true, 6: false} {
		if got := w.Contains(offset); got != want {
			t.Errorf("Contains(%d) = %v, want %v", offset, got, want)
		}
	}
}

func TestWindowRange(t *testing.T) {
	base := date.New(2025, time.March, 1)
	got := Window{Start: 1, End: 3}.Range(base)
	want := date.Range{From: date.New(2025, time.March, 2), To: date.New(2025, time.March, 4)}
	if got != want {
		t.Errorf("Range(%v) = %v, want %v", base, got, want)
	}
}
