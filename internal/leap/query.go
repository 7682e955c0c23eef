package leap

import (
	"sort"
	"time"
)

// LeapSecondCount returns the number of leap seconds inserted up to the
// given naive UTC time. Returns 0 for dates before 1972-07-01.
func (t *Table) LeapSecondCount(utc time.Time) int {
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Date.After(utc)
	})

	if i == 0 {
		return 0
	}

	return int((t.entries[i-1].TaiOffset - InitialOffset) / time.Second)
}

// IsLeapSecond reports whether the second starting at utc is followed by
// an inserted leap second, i.e. utc falls on 23:59:59 of a leap second date.
func (t *Table) IsLeapSecond(utc time.Time) bool {
	sec := utc.Truncate(time.Second)

	for _, e := range t.entries[1:] {
		if e.Date.Add(-time.Second).Equal(sec) {
			return true
		}
	}

	return false
}

// NextLeapSecond returns the instant at which the next leap second after utc
// takes effect, or zero time if none is scheduled.
func (t *Table) NextLeapSecond(utc time.Time) time.Time {
	// The first entry marks the era boundary, not an inserted second.
	leaps := t.entries[1:]

	i := sort.Search(len(leaps), func(i int) bool {
		return leaps[i].Date.After(utc)
	})

	if i == len(leaps) {
		return time.Time{}
	}

	return leaps[i].Date
}
