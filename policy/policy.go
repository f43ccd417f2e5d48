package policy

import (
	"strings"
	"unicode"
)

// Violation names, one per rule, in evaluation order.
const (
	ViolationTooShort         = "too_short"
	ViolationTooLong          = "too_long"
	ViolationNoUppercase      = "no_uppercase"
	ViolationNoLowercase      = "no_lowercase"
	ViolationNoDigit          = "no_digit"
	ViolationNoSpecial        = "no_special"
	ViolationHasWhitespace    = "has_whitespace"
	ViolationTooCommon        = "too_common"
	ViolationRepeatedChars    = "repeated_chars"
	ViolationSequentialDigits = "sequential_digits"
)

const (
	minLength = 8
	maxLength = 128

	// The accepted special-character set. Fixed: widening it would silently
	// weaken the no_special rule for existing deployments.
	specialChars = "@$!%*?&"

	// Runs of this many identical consecutive characters trigger
	// repeated_chars.
	maxRepeatRun = 4
)

var commonPasswords = map[string]struct{}{
	"password":  {},
	"12345678":  {},
	"qwerty":    {},
	"admin":     {},
	"welcome":   {},
	"password1": {},
	"123456789": {},
	"00000000":  {},
	"aaaaaaaa":  {},
}

var sequentialDigitRuns = []string{
	"0123", "1234", "2345", "3456", "4567", "5678", "6789", "7890",
}

// Result is the outcome of a single [Validate] call. Violations preserves
// rule order, so identical inputs always produce identical output.
type Result struct {
	Valid      bool
	Violations []string
}

// Validate evaluates every rule against password and collects the name of
// each failing rule. It never short-circuits: a caller surfacing the result
// to an end user can show everything wrong with the password at once.
func Validate(password string) Result {
	runes := []rune(password)

	var violations []string
	add := func(name string) {
		violations = append(violations, name)
	}

	if len(runes) < minLength {
		add(ViolationTooShort)
	}
	if len(runes) > maxLength {
		add(ViolationTooLong)
	}
	if !containsRange(runes, 'A', 'Z') {
		add(ViolationNoUppercase)
	}
	if !containsRange(runes, 'a', 'z') {
		add(ViolationNoLowercase)
	}
	if !containsRange(runes, '0', '9') {
		add(ViolationNoDigit)
	}
	if !strings.ContainsAny(password, specialChars) {
		add(ViolationNoSpecial)
	}
	if containsWhitespace(runes) {
		add(ViolationHasWhitespace)
	}
	if _, common := commonPasswords[strings.ToLower(password)]; common {
		add(ViolationTooCommon)
	}
	if hasRepeatRun(runes) {
		add(ViolationRepeatedChars)
	}
	if hasSequentialDigits(password) {
		add(ViolationSequentialDigits)
	}

	return Result{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}

func containsRange(runes []rune, lo, hi rune) bool {
	for _, r := range runes {
		if r >= lo && r <= hi {
			return true
		}
	}
	return false
}

func containsWhitespace(runes []rune) bool {
	for _, r := range runes {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

func hasRepeatRun(runes []rune) bool {
	run := 0
	var prev rune
	for i, r := range runes {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= maxRepeatRun {
			return true
		}
		prev = r
	}
	return false
}

func hasSequentialDigits(password string) bool {
	for _, seq := range sequentialDigitRuns {
		if strings.Contains(password, seq) {
			return true
		}
	}
	return false
}
