// Package accesscode generates and validates driver access codes.
//
// A code looks like "K7M2XQ-4": six characters from a restricted
// alphabet plus a single checksum digit, joined by a hyphen. The
// alphabet drops 0, 1, I and O so codes survive being read out loud
// or written on paper.
package accesscode

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Alphabet excludes ambiguous characters (0, 1, I, O).
const Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const bodyLen = 6

// Pattern matches a well-formed access code.
var Pattern = regexp.MustCompile(`^[2-9A-HJ-NP-Z]{6}-[0-9]$`)

// Generate returns a fresh random access code in the form XXXXXX-C.
func Generate() (string, error) {
	var sb strings.Builder
	sb.Grow(bodyLen + 2)

	max := big.NewInt(int64(len(Alphabet)))
	for i := 0; i < bodyLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(Alphabet[n.Int64()])
	}

	body := sb.String()
	return body + "-" + strconv.Itoa(Checksum(body)), nil
}

// Checksum returns the check digit for a code body:
// the sum of the character ordinal values mod 10.
func Checksum(body string) int {
	sum := 0
	for _, c := range body {
		sum += int(c)
	}
	return sum % 10
}

// Valid reports whether the code is well-formed and its checksum digit
// matches the body. It does not check existence, only shape.
func Valid(code string) bool {
	if !Pattern.MatchString(code) {
		return false
	}

	body, digit, ok := strings.Cut(code, "-")
	if !ok {
		return false
	}

	want, err := strconv.Atoi(digit)
	if err != nil {
		return false
	}

	return Checksum(body) == want
}
