package utils

import "time"

// FormatDay renders a plan date like "Tue Jun 23 2026".
func FormatDay(t time.Time) string {
	return t.Format("Mon Jan 2 2006")
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Today is midnight of the current local day.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
