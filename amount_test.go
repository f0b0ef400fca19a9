package treasury

import "testing"

func TestAmountArithmetic(t *testing.T) {
	a := EUR(10.50)
	b := EUR(-3.25)

	if got, want := a.Add(b), EUR(7.25); !got.Equal(want) {
		t.Errorf("Add() = %v, want %v", got, want)
	}
	if got, want := a.Sub(b), EUR(13.75); !got.Equal(want) {
		t.Errorf("Sub() = %v, want %v", got, want)
	}
	if got, want := b.Neg(), EUR(3.25); !got.Equal(want) {
		t.Errorf("Neg() = %v, want %v", got, want)
	}
	if !b.IsNegative() || b.IsPositive() || b.IsZero() {
		t.Errorf("sign predicates wrong for %v", b)
	}
	if !b.LessThan(a) {
		t.Errorf("LessThan: %v should be less than %v", b, a)
	}
}

func TestAmountExactness(t *testing.T) {
	// 0.1+0.2 is the classic float trap; decimal arithmetic must be exact.
	sum := EUR(0)
	for i := 0; i < 10; i++ {
		sum = sum.Add(EUR(0.1))
	}
	if want := EUR(1); !sum.Equal(want) {
		t.Errorf("ten times 0.1 = %v, want %v", sum, want)
	}
}

func TestAmountWeakCurrency(t *testing.T) {
	if got := NO(5).Add(EUR(1)); got.Currency() != "EUR" {
		t.Errorf("currency-less amount should adopt EUR, got %q", got.Currency())
	}
	if got := EUR(5).Add(NO(1)); got.Currency() != "EUR" {
		t.Errorf("currency-less amount should adopt EUR, got %q", got.Currency())
	}

	defer func() {
		if recover() == nil {
			t.Error("adding EUR to USD should panic")
		}
	}()
	EUR(1).Add(A(1, "USD"))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{"100", EUR(100), false},
		{"-123.45", EUR(-123.45), false},
		{"0", EUR(0), false},
		{"12,5", Amount{}, true},
		{"", Amount{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in, "EUR")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) returned unexpected error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAmountDecimalString(t *testing.T) {
	tests := []struct {
		in   Amount
		want string
	}{
		{EUR(100), "100"},
		{EUR(-42.5), "-42.5"},
		{EUR(0), "0"},
	}
	for _, tt := range tests {
		if got := tt.in.DecimalString(); got != tt.want {
			t.Errorf("DecimalString() = %q, want %q", got, tt.want)
		}
	}
}

func TestAmountSignedString(t *testing.T) {
	if got := EUR(0).SignedString(); got != "-" {
		t.Errorf("SignedString() for zero = %q, want %q", got, "-")
	}
	if got := EUR(1).SignedString(); got[0] != '+' {
		t.Errorf("SignedString() for a positive amount = %q, want a leading +", got)
	}
}
