package offset

import (
	"fmt"
	"sort"
	"time"

	"github.com/holoplot/clockcast/internal/leap"
)

// Instants are int64 nanoseconds since 1970-01-01. Naive instants ignore
// leap seconds, elapsed instants count them.

// Era is a strategy resolving the UTC offset over one contiguous stretch of
// the table.
type Era interface {
	// Start returns the first naive instant covered.
	Start() int64

	// ImageStart returns Elapsed(Start()).
	ImageStart() int64

	// Elapsed maps a naive instant at or after Start to elapsed time.
	Elapsed(naive int64) (int64, error)

	// Ceil returns the smallest existing naive instant whose elapsed time
	// reaches elapsed, for elapsed at or after ImageStart.
	Ceil(elapsed int64) int64

	// Valid returns naive if it exists, or the first existing instant after it.
	Valid(naive int64) int64
}

var initialOffsetNS = int64(leap.InitialOffset)

// RateEra resolves offsets with the piecewise linear 1958-1972 formula.
type RateEra struct {
	segments   []leap.RateSegment
	start      []int64
	next       []int64
	imageStart []int64
	skipFrom   []int64
}

// NewRateEra builds the rate era from segments ending at end, where the
// following era begins with TAI-UTC endOffset.
func NewRateEra(segments []leap.RateSegment, end time.Time, endOffset time.Duration) *RateEra {
	e := &RateEra{
		segments:   segments,
		start:      make([]int64, len(segments)),
		next:       make([]int64, len(segments)),
		imageStart: make([]int64, len(segments)),
		skipFrom:   make([]int64, len(segments)),
	}

	for i, seg := range segments {
		e.start[i] = seg.Start.UnixNano()
		e.imageStart[i] = e.start[i] + seg.OffsetAt(e.start[i]) - initialOffsetNS
	}

	for i, seg := range segments {
		var nextOffset int64

		if i+1 < len(segments) {
			e.next[i] = e.start[i+1]
			nextOffset = segments[i+1].OffsetAt(e.next[i])
		} else {
			e.next[i] = end.UnixNano()
			nextOffset = int64(endOffset)
		}

		// A negative step at next removes the naive labels [next-step, next).
		e.skipFrom[i] = e.next[i]
		if step := seg.OffsetAt(e.next[i]) - nextOffset; step > 0 {
			e.skipFrom[i] -= step
		}
	}

	return e
}

func (e *RateEra) Start() int64 {
	return e.start[0]
}

func (e *RateEra) ImageStart() int64 {
	return e.imageStart[0]
}

func (e *RateEra) segment(naive int64) int {
	return sort.Search(len(e.start), func(i int) bool {
		return e.start[i] > naive
	}) - 1
}

func (e *RateEra) Elapsed(naive int64) (int64, error) {
	i := e.segment(naive)

	if naive >= e.skipFrom[i] {
		return 0, fmt.Errorf("%w: %s", ErrNonexistent, time.Unix(0, naive).UTC().Format(time.RFC3339Nano))
	}

	return naive + e.segments[i].OffsetAt(naive) - initialOffsetNS, nil
}

func (e *RateEra) Ceil(elapsed int64) int64 {
	i := sort.Search(len(e.imageStart), func(i int) bool {
		return e.imageStart[i] > elapsed
	}) - 1

	naive := e.segments[i].Solve(elapsed + initialOffsetNS)

	switch {
	case naive < e.start[i]:
		naive = e.start[i]
	case naive >= e.skipFrom[i]:
		naive = e.next[i]
	}

	return naive
}

func (e *RateEra) Valid(naive int64) int64 {
	if i := e.segment(naive); i >= 0 && naive >= e.skipFrom[i] {
		return e.next[i]
	}

	return naive
}

// StepEra resolves offsets from discrete leap second records.
type StepEra struct {
	date       []int64
	offset     []int64
	imageStart []int64
}

func NewStepEra(entries []leap.Entry) *StepEra {
	e := &StepEra{
		date:       make([]int64, len(entries)),
		offset:     make([]int64, len(entries)),
		imageStart: make([]int64, len(entries)),
	}

	for i, entry := range entries {
		e.date[i] = entry.Date.UnixNano()
		e.offset[i] = int64(entry.TaiOffset) - initialOffsetNS
		e.imageStart[i] = e.date[i] + e.offset[i]
	}

	return e
}

func (e *StepEra) Start() int64 {
	return e.date[0]
}

func (e *StepEra) ImageStart() int64 {
	return e.imageStart[0]
}

func (e *StepEra) Elapsed(naive int64) (int64, error) {
	// The transition instant belongs to the new offset.
	i := sort.Search(len(e.date), func(i int) bool {
		return e.date[i] > naive
	}) - 1

	return addChecked(naive, e.offset[i])
}

func (e *StepEra) Ceil(elapsed int64) int64 {
	i := sort.Search(len(e.imageStart), func(i int) bool {
		return e.imageStart[i] > elapsed
	}) - 1

	naive := elapsed - e.offset[i]
	if i+1 < len(e.date) && naive >= e.date[i+1] {
		naive = e.date[i+1]
	}

	return naive
}

func (e *StepEra) Valid(naive int64) int64 {
	return naive
}
