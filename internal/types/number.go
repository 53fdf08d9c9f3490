package types

import (
	"strconv"
	"strings"
)

// Number is a canonical phone number: the full international digit string
// (calling code + national number) as an unsigned integer. Short codes that
// have no international form are kept at their raw numeric value.
type Number uint64

// shortCodeMax is the largest value treated as a carrier short code.
// Anything with fewer than 8 digits never parsed internationally.
const shortCodeMax = 9999999

// Country carries the context needed to internationalize a bare national
// number: the country calling code digits, e.g. "1" or "44".
type Country struct {
	CallingCode string
}

// separators are the formatting runes stripped before parsing.
const separators = " \t-.()/"

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(separators, r) {
			return -1
		}
		return r
	}, s)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Normalize parses a free-form numeral string into its canonical Number.
// Internationally-formatted input ("+15551234567", with any separators) is
// taken as-is; bare national numbers get the country calling code prefixed
// (dropping a trunk "0"); anything shorter than 8 digits is a short code.
// Normalization is idempotent over Number.String().
func Normalize(raw string, c Country) (Number, bool) {
	s := stripSeparators(raw)
	if s == "" {
		return 0, false
	}

	if s[0] == '+' {
		digits := s[1:]
		if !allDigits(digits) {
			return 0, false
		}
		return parseDigits(digits)
	}

	if !allDigits(s) {
		return 0, false
	}
	if len(s) < 8 {
		// Short code, no international form.
		return parseDigits(s)
	}

	national := strings.TrimPrefix(s, "0")
	if c.CallingCode == "" || !allDigits(c.CallingCode) {
		return 0, false
	}
	return parseDigits(c.CallingCode + national)
}

func parseDigits(digits string) (Number, bool) {
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return Number(n), true
}

// String renders the canonical form: "+<digits>" for international numbers,
// bare digits for short codes.
func (n Number) String() string {
	if n <= shortCodeMax {
		return strconv.FormatUint(uint64(n), 10)
	}
	return "+" + strconv.FormatUint(uint64(n), 10)
}

// oneDigitCodes and twoDigitCodes list the assigned short calling codes;
// every remaining code is three digits (the ITU plan is prefix-free).
var oneDigitCodes = map[string]bool{"1": true, "7": true}

var twoDigitCodes = map[string]bool{
	"20": true, "27": true, "30": true, "31": true, "32": true, "33": true,
	"34": true, "36": true, "39": true, "40": true, "41": true, "43": true,
	"44": true, "45": true, "46": true, "47": true, "48": true, "49": true,
	"51": true, "52": true, "53": true, "54": true, "55": true, "56": true,
	"57": true, "58": true, "60": true, "61": true, "62": true, "63": true,
	"64": true, "65": true, "66": true, "81": true, "82": true, "84": true,
	"86": true, "90": true, "91": true, "92": true, "93": true, "94": true,
	"95": true, "98": true,
}

// CountryOf determines the country context from an internationally-formatted
// numeral string, used once at startup on the subscriber's own number.
func CountryOf(raw string) (Country, bool) {
	s := stripSeparators(raw)
	if len(s) < 2 || s[0] != '+' {
		return Country{}, false
	}
	digits := s[1:]
	if !allDigits(digits) {
		return Country{}, false
	}
	if oneDigitCodes[digits[:1]] {
		return Country{CallingCode: digits[:1]}, true
	}
	if len(digits) >= 2 && twoDigitCodes[digits[:2]] {
		return Country{CallingCode: digits[:2]}, true
	}
	if len(digits) >= 3 {
		return Country{CallingCode: digits[:3]}, true
	}
	return Country{}, false
}
