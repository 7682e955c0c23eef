package scale

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/holoplot/clockcast/internal/leap"
	"github.com/holoplot/clockcast/internal/offset"
)

const (
	// taiShift is the TAI count at the UTC epoch: 1958-01-01 to 1970-01-01
	// plus TAI-UTC of 10s frozen at 1972.
	taiShift = 378_691_210 * time.Second

	// gpsShift is the UTC count at the GPS epoch, 9 leap seconds after 1972.
	gpsShift = 315_964_809 * time.Second
)

// Func converts a count of unit between UTC and one other scale.
type Func func(r *offset.Resolver, count int64, unit time.Duration) (int64, error)

// Converter holds the pair of conversions between a scale and UTC.
type Converter struct {
	ToUTC   Func
	FromUTC Func
}

func identity(_ *offset.Resolver, count int64, _ time.Duration) (int64, error) {
	return count, nil
}

var converters = [numScales]Converter{
	Sys: {ToUTC: SysToUTC, FromUTC: UTCToSys},
	UTC: {ToUTC: identity, FromUTC: identity},
	TAI: {ToUTC: TAIToUTC, FromUTC: UTCToTAI},
	GPS: {ToUTC: GPSToUTC, FromUTC: UTCToGPS},
}

// Lookup returns the converters for id.
func Lookup(id ID) (Converter, error) {
	if id >= numScales {
		return Converter{}, fmt.Errorf("%w: %s", ErrUnknownScale, id)
	}

	return converters[id], nil
}

// Convert converts count from one scale to another through UTC. Converting
// a scale to itself never consults the table.
func Convert(r *offset.Resolver, from, to ID, count int64, unit time.Duration) (int64, error) {
	if from == to {
		return count, nil
	}

	src, err := Lookup(from)
	if err != nil {
		return 0, err
	}

	dst, err := Lookup(to)
	if err != nil {
		return 0, err
	}

	utc, err := src.ToUTC(r, count, unit)
	if err != nil {
		return 0, fmt.Errorf("%s to utc: %w", from, err)
	}

	out, err := dst.FromUTC(r, utc, unit)
	if err != nil {
		return 0, fmt.Errorf("utc to %s: %w", to, err)
	}

	return out, nil
}

// SysToUTC maps a naive count to the elapsed UTC count, flooring to unit.
func SysToUTC(r *offset.Resolver, count int64, unit time.Duration) (int64, error) {
	naive, err := toNS(count, unit)
	if errors.Is(err, offset.ErrOverflow) {
		return outside(r, count, unit, 1)
	}

	if err != nil {
		return 0, err
	}

	elapsed, err := r.Elapsed(naive)
	if errors.Is(err, offset.ErrOverflow) {
		return outside(r, count, unit, 1)
	}

	if err != nil {
		return 0, err
	}

	return floorDiv(elapsed, int64(unit)), nil
}

// UTCToSys returns the earliest naive count of unit that maps back onto
// count, or offset.ErrAmbiguous if none does.
func UTCToSys(r *offset.Resolver, count int64, unit time.Duration) (int64, error) {
	elapsed, err := toNS(count, unit)
	if errors.Is(err, offset.ErrOverflow) {
		return outside(r, count, unit, -1)
	}

	if err != nil {
		return 0, err
	}

	naive, err := r.Ceil(elapsed)
	if err != nil {
		return 0, err
	}

	d := int64(unit)

	n := ceilDiv(naive, d)
	if v := r.Valid(n * d); v != n*d {
		n = ceilDiv(v, d)
	}

	back, err := SysToUTC(r, n, unit)
	if errors.Is(err, offset.ErrNonexistent) || (err == nil && back != count) {
		return 0, fmt.Errorf("%w: utc count %d of %s", offset.ErrAmbiguous, count, unit)
	}

	if err != nil {
		return 0, err
	}

	return n, nil
}

// outside converts between Sys and UTC for counts beyond the int64
// nanosecond range. Early counts precede the table. Late ones lie past the
// last record, where the offset is a whole number of seconds and applies in
// unit directly.
func outside(r *offset.Resolver, count int64, unit time.Duration, sign int64) (int64, error) {
	if count < 0 {
		return 0, fmt.Errorf("%w: %d %s before %s", leap.ErrRange, count, unit,
			r.Table().Start().Format(time.DateOnly))
	}

	final, err := r.FinalOffset()
	if err != nil {
		return 0, err
	}

	return shift(count, time.Duration(sign*final), unit)
}

func UTCToTAI(_ *offset.Resolver, count int64, unit time.Duration) (int64, error) {
	return shift(count, taiShift, unit)
}

func TAIToUTC(_ *offset.Resolver, count int64, unit time.Duration) (int64, error) {
	return shift(count, -taiShift, unit)
}

func UTCToGPS(_ *offset.Resolver, count int64, unit time.Duration) (int64, error) {
	return shift(count, -gpsShift, unit)
}

func GPSToUTC(_ *offset.Resolver, count int64, unit time.Duration) (int64, error) {
	return shift(count, gpsShift, unit)
}

// shift adds a fixed offset. Supported units divide one second, so the
// offset is a whole number of units.
func shift(count int64, by, unit time.Duration) (int64, error) {
	if unit <= 0 || time.Second%unit != 0 {
		return 0, fmt.Errorf("unsupported unit %s", unit)
	}

	delta := int64(by / unit)
	sum := count + delta

	if (delta > 0 && sum < count) || (delta < 0 && sum > count) {
		return 0, fmt.Errorf("%w: %d %s shifted by %s", offset.ErrOverflow, count, unit, by)
	}

	return sum, nil
}

func toNS(count int64, unit time.Duration) (int64, error) {
	if unit <= 0 {
		return 0, fmt.Errorf("unsupported unit %s", unit)
	}

	ns := new(big.Int).Mul(big.NewInt(count), big.NewInt(int64(unit)))
	if !ns.IsInt64() {
		return 0, fmt.Errorf("%w: %d %s in nanoseconds", offset.ErrOverflow, count, unit)
	}

	return ns.Int64(), nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}

	return q
}

func ceilDiv(a, b int64) int64 {
	return -floorDiv(-a, b)
}
