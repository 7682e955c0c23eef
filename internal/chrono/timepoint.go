// Package chrono provides typed time points on the Sys, UTC, TAI and GPS
// scales and casts between them.
package chrono

import (
	"cmp"
	"fmt"
	"math/big"
	"time"

	"github.com/holoplot/clockcast/internal/offset"
	"github.com/holoplot/clockcast/internal/scale"
)

// ErrOverflow is returned when a time point does not fit its precision.
var ErrOverflow = offset.ErrOverflow

// Scale tags a TimePoint with its time scale.
type Scale interface {
	ID() scale.ID
}

type (
	Sys struct{}
	UTC struct{}
	TAI struct{}
	GPS struct{}
)

func (Sys) ID() scale.ID { return scale.Sys }
func (UTC) ID() scale.ID { return scale.UTC }
func (TAI) ID() scale.ID { return scale.TAI }
func (GPS) ID() scale.ID { return scale.GPS }

// Precision tags a TimePoint with the duration of one count.
type Precision interface {
	Unit() time.Duration
}

type (
	Nanoseconds  struct{}
	Microseconds struct{}
	Milliseconds struct{}
	Seconds      struct{}
)

func (Nanoseconds) Unit() time.Duration  { return time.Nanosecond }
func (Microseconds) Unit() time.Duration { return time.Microsecond }
func (Milliseconds) Unit() time.Duration { return time.Millisecond }
func (Seconds) Unit() time.Duration      { return time.Second }

// TimePoint is a count of P units since the epoch of scale S.
type TimePoint[S Scale, P Precision] struct {
	count int64
}

func New[S Scale, P Precision](count int64) TimePoint[S, P] {
	return TimePoint[S, P]{count: count}
}

func (tp TimePoint[S, P]) Count() int64 {
	return tp.count
}

func (tp TimePoint[S, P]) Scale() scale.ID {
	var s S
	return s.ID()
}

func (tp TimePoint[S, P]) Unit() time.Duration {
	var p P
	return p.Unit()
}

// Add returns the time point n units later.
func (tp TimePoint[S, P]) Add(n int64) TimePoint[S, P] {
	return TimePoint[S, P]{count: tp.count + n}
}

// Sub returns the number of units between tp and u.
func (tp TimePoint[S, P]) Sub(u TimePoint[S, P]) int64 {
	return tp.count - u.count
}

func (tp TimePoint[S, P]) Before(u TimePoint[S, P]) bool {
	return tp.count < u.count
}

func (tp TimePoint[S, P]) After(u TimePoint[S, P]) bool {
	return tp.count > u.count
}

func (tp TimePoint[S, P]) Equal(u TimePoint[S, P]) bool {
	return tp.count == u.count
}

func (tp TimePoint[S, P]) Compare(u TimePoint[S, P]) int {
	return cmp.Compare(tp.count, u.count)
}

// Label returns the calendar reading of the scale's own clock at tp. For Sys
// and UTC inside a leap second the label repeats the following second.
func (tp TimePoint[S, P]) Label() time.Time {
	return Label(tp.Scale(), tp.Unit(), tp.count)
}

func (tp TimePoint[S, P]) String() string {
	return fmt.Sprintf("%s %s", tp.Label().Format(time.RFC3339Nano), tp.Scale())
}

// FromLabel returns the time point whose label is t, truncated to P.
func FromLabel[S Scale, P Precision](t time.Time) (TimePoint[S, P], error) {
	var (
		s S
		p P
	)

	count, err := CountFromLabel(s.ID(), p.Unit(), t)
	if err != nil {
		return TimePoint[S, P]{}, err
	}

	return TimePoint[S, P]{count: count}, nil
}

// Label returns the calendar label of count units of unit on scale id.
func Label(id scale.ID, unit time.Duration, count int64) time.Time {
	perSecond := int64(time.Second / unit)

	sec := count / perSecond
	sub := count % perSecond
	if sub < 0 {
		sec--
		sub += perSecond
	}

	return time.Unix(id.Epoch().Unix()+sec, sub*int64(unit)).UTC()
}

// CountFromLabel returns the count of unit on scale id whose label is t,
// flooring to unit.
func CountFromLabel(id scale.ID, unit time.Duration, t time.Time) (int64, error) {
	ns := new(big.Int).Mul(big.NewInt(t.Unix()-id.Epoch().Unix()), big.NewInt(int64(time.Second)))
	ns.Add(ns, big.NewInt(int64(t.Nanosecond())))

	// big.Int.Div is Euclidean, which floors for a positive divisor.
	count := ns.Div(ns, big.NewInt(int64(unit)))
	if !count.IsInt64() {
		return 0, fmt.Errorf("%w: %s at %s", ErrOverflow, t.Format(time.RFC3339Nano), unit)
	}

	return count.Int64(), nil
}

// FromTime returns the Sys time point for a wall clock time.
func FromTime(t time.Time) (TimePoint[Sys, Nanoseconds], error) {
	return FromLabel[Sys, Nanoseconds](t)
}

// Time returns the wall clock time of a Sys time point.
func Time[P Precision](tp TimePoint[Sys, P]) time.Time {
	return tp.Label()
}
