// Package quantity parses and combines the free-text amount strings found in
// recipe ingredient lists ("2 cups", "1/2 tsp", "1 1/2 lbs onion"). It is
// pure string/number work with no I/O.
package quantity

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Amount is a parsed leading numeric quantity plus its free-text remainder.
type Amount struct {
	Value float64
	Rest  string
}

var (
	mixedRe    = regexp.MustCompile(`^(\d+)\s+(\d+)\s*/\s*(\d+)\s*(.*)$`)
	fractionRe = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)\s*(.*)$`)
	decimalRe  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(.*)$`)
)

// Parse extracts a leading numeric quantity from s. It understands plain
// integers and decimals ("2", "0.5"), simple fractions ("1/2") and mixed
// numbers ("1 1/2"); whatever follows becomes the Rest. Strings with no
// leading number ("to taste", "a pinch") do not parse.
func Parse(s string) (Amount, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, false
	}

	if m := mixedRe.FindStringSubmatch(s); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		num, _ := strconv.ParseFloat(m[2], 64)
		den, _ := strconv.ParseFloat(m[3], 64)
		if den != 0 {
			return Amount{Value: whole + num/den, Rest: strings.TrimSpace(m[4])}, true
		}
	}
	if m := fractionRe.FindStringSubmatch(s); m != nil {
		num, _ := strconv.ParseFloat(m[1], 64)
		den, _ := strconv.ParseFloat(m[2], 64)
		if den != 0 {
			return Amount{Value: num / den, Rest: strings.TrimSpace(m[3])}, true
		}
	}
	if m := decimalRe.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return Amount{Value: v, Rest: strings.TrimSpace(m[2])}, true
		}
	}
	return Amount{}, false
}

// Add combines two amount strings when they are numerically compatible.
//
// Both sides parse and share the same remainder text (case-insensitive):
// the sum is returned, formatted as a mixed fraction in eighths with the
// shared remainder appended. Exactly one side parses: that side is returned
// unchanged and the other is dropped (known limitation: merging "2 cups"
// with "to taste" loses "to taste"). Neither parses, or the remainders
// differ: ok is false and the caller should not consolidate numerically.
func Add(a, b string) (string, bool) {
	pa, aok := Parse(a)
	pb, bok := Parse(b)

	switch {
	case aok && bok:
		if !strings.EqualFold(pa.Rest, pb.Rest) {
			return "", false
		}
		out := Format(pa.Value + pb.Value)
		if pa.Rest != "" {
			out += " " + pa.Rest
		}
		return out, true
	case aok:
		return strings.TrimSpace(a), true
	case bok:
		return strings.TrimSpace(b), true
	default:
		return "", false
	}
}

// Format renders a value as a mixed-fraction string with the denominator
// capped at 8; finer fractions are rounded to the nearest eighth.
func Format(v float64) string {
	eighths := int(math.Round(v * 8))
	if eighths < 0 {
		eighths = 0
	}
	whole := eighths / 8
	num := eighths % 8
	if num == 0 {
		return strconv.Itoa(whole)
	}

	den := 8
	for num%2 == 0 {
		num /= 2
		den /= 2
	}
	if whole == 0 {
		return fmt.Sprintf("%d/%d", num, den)
	}
	return fmt.Sprintf("%d %d/%d", whole, num, den)
}
