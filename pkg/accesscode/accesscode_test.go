package accesscode

import (
	"strconv"
	"strings"
	"testing"
)

func TestGenerate_Format(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !Pattern.MatchString(code) {
			t.Fatalf("code %q does not match pattern", code)
		}
	}
}

func TestGenerate_Checksum(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		body, digit, ok := strings.Cut(code, "-")
		if !ok {
			t.Fatalf("code %q has no hyphen", code)
		}

		sum := 0
		for _, c := range body {
			sum += int(c)
		}

		want, err := strconv.Atoi(digit)
		if err != nil {
			t.Fatalf("checksum digit of %q is not numeric", code)
		}
		if sum%10 != want {
			t.Fatalf("code %q checksum mismatch: want %d got %d", code, sum%10, want)
		}
	}
}

func TestGenerate_NoAmbiguousCharacters(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.ContainsAny(code[:6], "01IO") {
			t.Fatalf("code %q contains ambiguous character", code)
		}
	}
}

func TestChecksum_Known(t *testing.T) {
	// 'A'*6 = 65*6 = 390, mod 10 = 0
	if got := Checksum("AAAAAA"); got != 0 {
		t.Fatalf("Checksum(AAAAAA) = %d, want 0", got)
	}
	// '2'*6 = 50*6 = 300, mod 10 = 0
	if got := Checksum("222222"); got != 0 {
		t.Fatalf("Checksum(222222) = %d, want 0", got)
	}
	// "AB2345": 65+66+50+51+52+53 = 337, mod 10 = 7
	if got := Checksum("AB2345"); got != 7 {
		t.Fatalf("Checksum(AB2345) = %d, want 7", got)
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"AB2345-7", true},
		{"AB2345-8", false}, // wrong checksum
		{"AAAAAA-0", true},
		{"aaaaaa-0", false}, // lowercase not allowed
		{"AB234O-7", false}, // ambiguous character
		{"AB2345", false},   // no checksum
		{"AB23457", false},  // no hyphen
		{"", false},
	}

	for _, tc := range tests {
		if got := Valid(tc.code); got != tc.want {
			t.Errorf("Valid(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}
