package odds

import "testing"

func TestDecimalToAmerican(t *testing.T) {
	tests := []struct {
		decimal float64
		want    int
	}{
		{2.5, 150},
		{1.5, -200},
		{2.0, 100},
		{3.0, 200},
		{1.91, -110},
		{1.2, -500},
	}
	for _, tt := range tests {
		got, err := DecimalToAmerican(tt.decimal)
		if err != nil {
			t.Fatalf("DecimalToAmerican(%v) unexpected error: %v", tt.decimal, err)
		}
		if got != tt.want {
			t.Errorf("DecimalToAmerican(%v) = %d, want %d", tt.decimal, got, tt.want)
		}
	}
}

func TestDecimalToAmerican_OutOfRange(t *testing.T) {
	for _, dec := range []float64{1.0, 0.5, 0, -2} {
		if _, err := DecimalToAmerican(dec); err == nil {
			t.Errorf("DecimalToAmerican(%v) expected error", dec)
		}
	}
}

func TestAmericanToDecimal_RoundTrip(t *testing.T) {
	for _, am := range []int{150, -200, 100, -110, 250} {
		dec, err := AmericanToDecimal(am)
		if err != nil {
			t.Fatalf("AmericanToDecimal(%d): %v", am, err)
		}
		back, err := DecimalToAmerican(dec)
		if err != nil {
			t.Fatalf("DecimalToAmerican(%v): %v", dec, err)
		}
		if back != am {
			t.Errorf("round trip %d -> %v -> %d", am, dec, back)
		}
	}
}

func TestFractionalToDecimal(t *testing.T) {
	tests := []struct {
		frac string
		want float64
	}{
		{"3/2", 2.5},
		{"1/2", 1.5},
		{"5/2", 3.5},
		{" 1 / 1 ", 2.0},
	}
	for _, tt := range tests {
		got, err := FractionalToDecimal(tt.frac)
		if err != nil {
			t.Fatalf("FractionalToDecimal(%q): %v", tt.frac, err)
		}
		if got != tt.want {
			t.Errorf("FractionalToDecimal(%q) = %v, want %v", tt.frac, got, tt.want)
		}
	}

	for _, bad := range []string{"3/0", "x/2", "3", ""} {
		if _, err := FractionalToDecimal(bad); err == nil {
			t.Errorf("FractionalToDecimal(%q) expected error", bad)
		}
	}
}

func TestParseAmerican(t *testing.T) {
	tests := []struct {
		price string
		want  int
	}{
		{"-150", -150},
		{"+130", 130},
		{"2.50", 150},
		{"1.5", -200},
		{"3/2", 150},
	}
	for _, tt := range tests {
		got, err := ParseAmerican(tt.price)
		if err != nil {
			t.Fatalf("ParseAmerican(%q): %v", tt.price, err)
		}
		if got != tt.want {
			t.Errorf("ParseAmerican(%q) = %d, want %d", tt.price, got, tt.want)
		}
	}

	for _, bad := range []string{"", "abc", "+50", "-0", "1/0"} {
		if _, err := ParseAmerican(bad); err == nil {
			t.Errorf("ParseAmerican(%q) expected error", bad)
		}
	}
}

func TestToAmericanDisplay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2.5", "+150"},
		{"1.5", "-200"},
		{"3/2", "+150"},
		// malformed input passes through unchanged
		{"n/a", "n/a"},
		{"", ""},
		{"suspended", "suspended"},
	}
	for _, tt := range tests {
		if got := ToAmericanDisplay(tt.in); got != tt.want {
			t.Errorf("ToAmericanDisplay(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
