package styles

import "testing"

func TestFormatMoney(t *testing.T) {
	cases := map[float64]string{
		0:           "$0.00",
		12.346:      "$12.35",
		1234.5:      "$1,234.50",
		100000:      "$100,000.00",
		-9876543.21: "-$9,876,543.21",
	}
	for in, want := range cases {
		if got := FormatMoney(in); got != want {
			t.Errorf("FormatMoney(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(125); got != "02:05" {
		t.Errorf("FormatClock(125) = %q", got)
	}
}
