package leap

import (
	"sync"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// builtinSegments is the TAI-UTC rate formula in force between 1958 and 1972.
// Data source: https://maia.usno.navy.mil/ser7/tai-utc.dat
var builtinSegments = []RateSegment{
	// TAI and UT2 agreed at the 1958 epoch.
	{date(1958, time.January, 1), 0, 36204, 0},

	{date(1961, time.January, 1), 1422818 * time.Microsecond, 37300, 1296 * time.Microsecond},
	{date(1961, time.August, 1), 1372818 * time.Microsecond, 37300, 1296 * time.Microsecond},
	{date(1962, time.January, 1), 1845858 * time.Microsecond, 37665, 1123200 * time.Nanosecond},
	{date(1963, time.November, 1), 1945858 * time.Microsecond, 37665, 1123200 * time.Nanosecond},
	{date(1964, time.January, 1), 3240130 * time.Microsecond, 38761, 1296 * time.Microsecond},
	{date(1964, time.April, 1), 3340130 * time.Microsecond, 38761, 1296 * time.Microsecond},
	{date(1964, time.September, 1), 3440130 * time.Microsecond, 38761, 1296 * time.Microsecond},
	{date(1965, time.January, 1), 3540130 * time.Microsecond, 38761, 1296 * time.Microsecond},
	{date(1965, time.March, 1), 3640130 * time.Microsecond, 38761, 1296 * time.Microsecond},
	{date(1965, time.July, 1), 3740130 * time.Microsecond, 38761, 1296 * time.Microsecond},
	{date(1965, time.September, 1), 3840130 * time.Microsecond, 38761, 1296 * time.Microsecond},
	{date(1966, time.January, 1), 4313170 * time.Microsecond, 39126, 2592 * time.Microsecond},
	{date(1968, time.February, 1), 4213170 * time.Microsecond, 39126, 2592 * time.Microsecond},
}

// builtinEntries lists TAI-UTC from the start of each discrete era period.
// Dates are the midnight following the inserted 23:59:60.
// Data source: https://hpiers.obspm.fr/iers/bul/bulc/Leap_Second.dat
var builtinEntries = []Entry{
	{EraBoundary, 10 * time.Second},

	{date(1972, time.July, 1), 11 * time.Second},
	{date(1973, time.January, 1), 12 * time.Second},
	{date(1974, time.January, 1), 13 * time.Second},
	{date(1975, time.January, 1), 14 * time.Second},
	{date(1976, time.January, 1), 15 * time.Second},
	{date(1977, time.January, 1), 16 * time.Second},
	{date(1978, time.January, 1), 17 * time.Second},
	{date(1979, time.January, 1), 18 * time.Second},
	{date(1980, time.January, 1), 19 * time.Second},

	// 1980 - No leap seconds

	{date(1981, time.July, 1), 20 * time.Second},
	{date(1982, time.July, 1), 21 * time.Second},
	{date(1983, time.July, 1), 22 * time.Second},

	// 1984 - No leap seconds

	{date(1985, time.July, 1), 23 * time.Second},
	{date(1988, time.January, 1), 24 * time.Second},
	{date(1990, time.January, 1), 25 * time.Second},
	{date(1991, time.January, 1), 26 * time.Second},
	{date(1992, time.July, 1), 27 * time.Second},
	{date(1993, time.July, 1), 28 * time.Second},
	{date(1994, time.July, 1), 29 * time.Second},
	{date(1996, time.January, 1), 30 * time.Second},
	{date(1997, time.July, 1), 31 * time.Second},
	{date(1999, time.January, 1), 32 * time.Second},

	// 1999-2004 - No leap seconds (6-year gap)

	{date(2006, time.January, 1), 33 * time.Second},
	{date(2009, time.January, 1), 34 * time.Second},
	{date(2012, time.July, 1), 35 * time.Second},
	{date(2015, time.July, 1), 36 * time.Second},
	{date(2017, time.January, 1), 37 * time.Second},

	// No leap seconds since 2016. Leap seconds are to be discontinued by
	// 2035 per CGPM resolution 4 (2022).
}

// builtinExpires is taken from IERS Bulletin C 70.
var builtinExpires = date(2026, time.December, 28)

var (
	builtinOnce  sync.Once
	builtinTable *Table
)

// BuiltinSegments returns the rate formula segments of the builtin table.
// Loaders for formats that only carry discrete entries combine them with
// these.
func BuiltinSegments() []RateSegment {
	return append([]RateSegment(nil), builtinSegments...)
}

// Builtin returns the compiled-in historical table.
func Builtin() *Table {
	builtinOnce.Do(func() {
		t, err := NewTable(builtinSegments, builtinEntries, builtinExpires)
		if err != nil {
			panic(err)
		}

		builtinTable = t
	})

	return builtinTable
}
