package chrono

import (
	"time"

	"github.com/holoplot/clockcast/internal/offset"
)

// Clock provides the current wall clock time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// Now returns the current instant on scale S, reading the system clock
// through clk.
func Now[S Scale, P Precision](clk Clock, r *offset.Resolver) (TimePoint[S, P], error) {
	sys, err := FromLabel[Sys, P](clk.Now())
	if err != nil {
		return TimePoint[S, P]{}, err
	}

	return Cast[S](r, sys)
}
