// Package leap holds the leap second table: the 1958-1972 rate formula
// segments, the discrete leap second records that followed, and the horizon
// up to which the table is known to be correct.
package leap

import (
	"fmt"
	"sort"
	"time"
)

// Entry is a discrete leap second record.
type Entry struct {
	Date      time.Time     // Naive UTC instant from which TaiOffset applies
	TaiOffset time.Duration // Total TAI-UTC offset from Date onwards
}

var (
	// CoverageStart is the latest instant a table may start covering.
	CoverageStart = time.Date(1958, time.January, 1, 0, 0, 0, 0, time.UTC)

	// EraBoundary separates the rate formula era from the discrete era.
	EraBoundary = time.Date(1972, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// InitialOffset is TAI-UTC at EraBoundary.
const InitialOffset = 10 * time.Second

// Table is an immutable, validated leap second table.
type Table struct {
	segments []RateSegment
	entries  []Entry
	expires  time.Time
}

// NewTable validates segments and entries and returns a table. A zero
// expires means the table has no known-good horizon.
func NewTable(segments []RateSegment, entries []Entry, expires time.Time) (*Table, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: no rate segments", ErrTableUnusable)
	}

	if segments[0].Start.After(CoverageStart) {
		return nil, fmt.Errorf("%w: coverage starts %s, after %s",
			ErrTableUnusable, segments[0].Start.Format(time.DateOnly), CoverageStart.Format(time.DateOnly))
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no leap second entries", ErrTableUnusable)
	}

	if !entries[0].Date.Equal(EraBoundary) || entries[0].TaiOffset != InitialOffset {
		return nil, fmt.Errorf("%w: first entry must be %s with %s",
			ErrTableUnusable, EraBoundary.Format(time.DateOnly), InitialOffset)
	}

	var lastImage int64

	for i, seg := range segments {
		if seg.Rate < 0 {
			return nil, fmt.Errorf("%w: segment %d has negative rate %s", ErrTableUnusable, i, seg.Rate)
		}

		if !seg.Start.Before(EraBoundary) {
			return nil, fmt.Errorf("%w: segment %d starts %s, not before %s",
				ErrTableUnusable, i, seg.Start.Format(time.DateOnly), EraBoundary.Format(time.DateOnly))
		}

		ns := seg.Start.UnixNano()
		image := ns + seg.OffsetAt(ns)

		if i > 0 {
			if !seg.Start.After(segments[i-1].Start) {
				return nil, fmt.Errorf("%w: segment %d (%s) not after previous",
					ErrTableUnusable, i, seg.Start.Format(time.DateOnly))
			}

			if image <= lastImage {
				return nil, fmt.Errorf("%w: segment %d (%s) steps back over the previous segment",
					ErrTableUnusable, i, seg.Start.Format(time.DateOnly))
			}
		}

		lastImage = image
	}

	for i, e := range entries {
		if e.TaiOffset%time.Second != 0 {
			return nil, fmt.Errorf("%w: entry %d (%s) offset %s is not whole seconds",
				ErrTableUnusable, i, e.Date.Format(time.DateOnly), e.TaiOffset)
		}

		if i == 0 {
			continue
		}

		prev := entries[i-1]

		if !e.Date.After(prev.Date) {
			return nil, fmt.Errorf("%w: entry %d (%s) not after previous",
				ErrTableUnusable, i, e.Date.Format(time.DateOnly))
		}

		if e.TaiOffset <= prev.TaiOffset {
			return nil, fmt.Errorf("%w: entry %d (%s) offset %s does not exceed previous %s",
				ErrTableUnusable, i, e.Date.Format(time.DateOnly), e.TaiOffset, prev.TaiOffset)
		}
	}

	// The step into the discrete era must not fold back over the last segment.
	first := EraBoundary.UnixNano() + int64(InitialOffset)
	if first <= lastImage {
		return nil, fmt.Errorf("%w: discrete era steps back over the last rate segment", ErrTableUnusable)
	}

	last := entries[len(entries)-1]
	if !expires.IsZero() && expires.Before(last.Date) {
		return nil, fmt.Errorf("%w: expiry %s before last entry %s",
			ErrTableUnusable, expires.Format(time.DateOnly), last.Date.Format(time.DateOnly))
	}

	t := &Table{
		segments: make([]RateSegment, len(segments)),
		entries:  make([]Entry, len(entries)),
		expires:  expires,
	}

	copy(t.segments, segments)
	copy(t.entries, entries)

	return t, nil
}

// Start returns the first instant covered by the table.
func (t *Table) Start() time.Time {
	return t.segments[0].Start
}

// Expires returns the known-good horizon, or the zero time.
func (t *Table) Expires() time.Time {
	return t.expires
}

// Segments returns a copy of the rate formula segments.
func (t *Table) Segments() []RateSegment {
	return append([]RateSegment(nil), t.segments...)
}

// Entries returns a copy of the discrete leap second entries.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// LookupOffset returns TAI-UTC at the naive UTC instant utc. A transition
// instant belongs to the offset that starts there.
func (t *Table) LookupOffset(utc time.Time) (time.Duration, error) {
	if utc.Before(t.Start()) {
		return 0, fmt.Errorf("%w: %s before %s", ErrRange,
			utc.Format(time.RFC3339Nano), t.Start().Format(time.DateOnly))
	}

	if !utc.Before(EraBoundary) {
		i := sort.Search(len(t.entries), func(i int) bool {
			return t.entries[i].Date.After(utc)
		})

		return t.entries[i-1].TaiOffset, nil
	}

	i := sort.Search(len(t.segments), func(i int) bool {
		return t.segments[i].Start.After(utc)
	})

	return time.Duration(t.segments[i-1].OffsetAt(utc.UnixNano())), nil
}

// LookupOffsetTAI returns TAI-UTC at the TAI calendar label tai. Labels
// falling inside an inserted leap second resolve to the offset before it.
func (t *Table) LookupOffsetTAI(tai time.Time) (time.Duration, error) {
	i := sort.Search(len(t.entries), func(i int) bool {
		e := t.entries[i]
		return e.Date.Add(e.TaiOffset).After(tai)
	})

	if i > 0 {
		return t.entries[i-1].TaiOffset, nil
	}

	ns := tai.UnixNano()

	j := sort.Search(len(t.segments), func(j int) bool {
		start := t.segments[j].Start.UnixNano()
		return start+t.segments[j].OffsetAt(start) > ns
	})

	if j == 0 {
		return 0, fmt.Errorf("%w: TAI %s before %s", ErrRange,
			tai.Format(time.RFC3339Nano), t.Start().Format(time.DateOnly))
	}

	seg := t.segments[j-1]
	utc := seg.Solve(ns)

	return time.Duration(seg.OffsetAt(utc)), nil
}
