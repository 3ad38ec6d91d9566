// Package arith parses integer operands and sums them under an overflow policy.
package arith

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Policy decides what Add does when a sum does not fit in int64.
type Policy string

// Supported overflow policies.
const (
	PolicyReject   Policy = "reject"
	PolicyWrap     Policy = "wrap"
	PolicySaturate Policy = "saturate"
)

// ParsePolicy maps a config value onto a Policy. Empty means PolicyReject.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyReject, nil
	case PolicyReject, PolicyWrap, PolicySaturate:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// ParseOperand parses s as a signed base-10 int64. A leading sign is allowed;
// whitespace, underscores, base prefixes and out-of-range values are not.
func ParseOperand(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, s)
	}
	return v, nil
}

// Add returns a+b. Under PolicyReject an overflowing sum yields ErrOverflow;
// PolicyWrap returns the two's complement result and PolicySaturate clamps
// to the int64 bounds.
func Add(a, b int64, p Policy) (int64, error) {
	sum := a + b
	if !Overflows(a, b) {
		return sum, nil
	}

	switch p {
	case PolicyWrap:
		return sum, nil
	case PolicySaturate:
		if a > 0 {
			return math.MaxInt64, nil
		}
		return math.MinInt64, nil
	case PolicyReject:
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, string(p))
	}
}

// Overflows reports whether a+b leaves the int64 range.
func Overflows(a, b int64) bool {
	sum := a + b
	return (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0)
}

// FormatResult renders a sum as "Result: {sum}".
func FormatResult(sum int64) string {
	return "Result: " + strconv.FormatInt(sum, 10)
}
