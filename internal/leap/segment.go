package leap

import (
	"math/big"
	"time"
)

const (
	// mjdUnixEpoch is the Modified Julian Date of 1970-01-01.
	mjdUnixEpoch = 40587

	nsPerDay = int64(24 * time.Hour)
)

var bigNsPerDay = big.NewInt(nsPerDay)

// RateSegment describes one line of the 1961-1972 TAI-UTC formula:
//
//	TAI-UTC = Offset + (MJD - RefMJD) * Rate
//
// where Rate is the drift per day. A segment is in force from Start until the
// next segment (or the first Entry) begins.
type RateSegment struct {
	Start  time.Time
	Offset time.Duration
	RefMJD int64
	Rate   time.Duration
}

func (s RateSegment) refNS() int64 {
	return (s.RefMJD - mjdUnixEpoch) * nsPerDay
}

// OffsetAt returns TAI-UTC in nanoseconds at the naive UTC instant ns
// (nanoseconds since 1970-01-01), floored to the nanosecond.
func (s RateSegment) OffsetAt(ns int64) int64 {
	if s.Rate == 0 {
		return int64(s.Offset)
	}

	drift := new(big.Int).Sub(big.NewInt(ns), big.NewInt(s.refNS()))
	drift.Mul(drift, big.NewInt(int64(s.Rate)))

	// big.Int.Div is Euclidean, which floors for a positive divisor.
	drift.Div(drift, bigNsPerDay)

	return int64(s.Offset) + drift.Int64()
}

// Solve returns the smallest naive instant ns for which ns + OffsetAt(ns)
// reaches target. Rate must not be negative.
func (s RateSegment) Solve(target int64) int64 {
	if s.Rate == 0 {
		return target - int64(s.Offset)
	}

	// Real solution of ns + (ns-ref)*r/K = target-Offset is
	// ((target-Offset)*K + ref*r) / (K+r).
	k := bigNsPerDay
	r := big.NewInt(int64(s.Rate))

	num := new(big.Int).Sub(big.NewInt(target), big.NewInt(int64(s.Offset)))
	num.Mul(num, k)
	num.Add(num, new(big.Int).Mul(big.NewInt(s.refNS()), r))

	den := new(big.Int).Add(k, r)
	ns := num.Div(num, den).Int64()

	for ns+s.OffsetAt(ns) >= target {
		ns--
	}

	for ns+s.OffsetAt(ns) < target {
		ns++
	}

	return ns
}
