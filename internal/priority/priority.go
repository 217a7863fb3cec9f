// Package priority holds the queue precedence rule shared with the remote
// service. The client-side result is advisory only: the server assigns the
// authoritative priority on enqueue, and entries are never reclassified here.
package priority

const (
	Senior  = 0
	General = 1

	// SeniorAge is the minimum age for senior priority.
	SeniorAge = 80
)

// Classify maps a submitted age to its priority class. Callers validate the
// age range (0-150) before calling; Classify itself is total.
func Classify(age int) int {
	if age >= SeniorAge {
		return Senior
	}
	return General
}

// Label returns the display name for a priority class.
func Label(priority int) string {
	if priority == Senior {
		return "Senior Priority"
	}
	return "General Queue"
}
