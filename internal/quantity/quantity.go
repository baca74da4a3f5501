// Package quantity centralizes CPU/memory quantity handling on top of
// k8s.io/apimachinery's resource.Quantity, so inspectors compare requests,
// limits, and allocatable capacity without re-parsing SI/binary suffixes
// themselves.
package quantity

import "k8s.io/apimachinery/pkg/api/resource"

// Less reports whether a is strictly less than b. Both must be valid
// Quantity strings (as found on container resource requests/limits); an
// unparsable value is treated as zero so callers still get a defined answer
// rather than a panic.
func Less(a, b string) bool {
	return Parse(a).Cmp(Parse(b)) < 0
}

// Parse parses q, returning the zero Quantity for an empty or malformed
// string (the common "field not set" case for missing requests/limits).
func Parse(q string) resource.Quantity {
	if q == "" {
		return resource.Quantity{}
	}
	parsed, err := resource.ParseQuantity(q)
	if err != nil {
		return resource.Quantity{}
	}
	return parsed
}

// IsZero reports whether q is unset or equal to zero.
func IsZero(q string) bool {
	if q == "" {
		return true
	}
	parsed := Parse(q)
	return parsed.IsZero()
}

// PercentOf returns 100*used/total as a float, or 0 if total is zero.
func PercentOf(used, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(used) / float64(total)
}
