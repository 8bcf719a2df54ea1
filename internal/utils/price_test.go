package utils

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{
			name: "plain number",
			raw:  "5200000",
			want: float64Ptr(5200000),
		},
		{
			name: "comma separated",
			raw:  "5,200,000",
			want: float64Ptr(5200000),
		},
		{
			name: "space separated",
			raw:  "5 200 000",
			want: float64Ptr(5200000),
		},
		{
			name: "sentinel means price on request",
			raw:  "*",
			want: nil,
		},
		{
			name: "sentinel mixed with digits",
			raw:  "5200000*",
			want: nil,
		},
		{
			name: "empty",
			raw:  "",
			want: nil,
		},
		{
			name: "garbage",
			raw:  "договорная",
			want: nil,
		},
		{
			name: "negative treated as absent",
			raw:  "-100",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.raw)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParsePrice(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ParsePrice(%q) = %f, want %f", tt.raw, *got, *tt.want)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(5200000); got != "5.2 млн ₽" {
		t.Errorf("FormatPrice(5200000) = %q, want %q", got, "5.2 млн ₽")
	}
	if got := FormatPriceFrom(5200000); got != "от 5.2 млн ₽" {
		t.Errorf("FormatPriceFrom(5200000) = %q, want %q", got, "от 5.2 млн ₽")
	}
	if got := FormatPrice(0); got != PriceOnRequest {
		t.Errorf("FormatPrice(0) = %q, want %q", got, PriceOnRequest)
	}
}

func float64Ptr(v float64) *float64 {
	return &v
}
