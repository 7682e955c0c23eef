package offset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holoplot/clockcast/internal/leap"
)

func ns(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).UnixNano()
}

func TestResolverOffset(t *testing.T) {
	tests := []struct {
		name     string
		naive    int64
		expected int64
	}{
		{"start of coverage", ns(1958, time.January, 1), -10e9},
		{"1961 rate segment", ns(1961, time.January, 1), -8_577_182_000},
		{"1965 rate segment", ns(1965, time.January, 1), -6_459_870_000},
		{"just before era boundary", ns(1972, time.January, 1) - 1, -107_758_001},
		{"era boundary", ns(1972, time.January, 1), 0},
		{"1980", ns(1980, time.January, 6), 9e9},
		{"last second before 2016 leap second", ns(2017, time.January, 1) - 1, 26e9},
		{"2016 leap second in force", ns(2017, time.January, 1), 27e9},
		{"far future held constant", ns(2200, time.January, 1), 27e9},
	}

	r := New(leap.Builtin())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Offset(tt.naive)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolverNonexistent(t *testing.T) {
	tests := []struct {
		name  string
		naive int64
		err   error
	}{
		{"1961-08-01 step start", ns(1961, time.August, 1) - 50_000_000, ErrNonexistent},
		{"1961-08-01 step end", ns(1961, time.August, 1) - 1, ErrNonexistent},
		{"before 1961-08-01 step", ns(1961, time.August, 1) - 50_000_001, nil},
		{"1961-08-01 itself", ns(1961, time.August, 1), nil},
		{"1968-02-01 step", ns(1968, time.February, 1) - 100_000_000, ErrNonexistent},
		{"1968-02-01 itself", ns(1968, time.February, 1), nil},
	}

	r := New(leap.Builtin())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Elapsed(tt.naive)
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}

	assert.Equal(t, ns(1968, time.February, 1), r.Valid(ns(1968, time.February, 1)-1))
	assert.Equal(t, ns(1968, time.February, 1)-100_000_001, r.Valid(ns(1968, time.February, 1)-100_000_001))
	assert.Equal(t, ns(2000, time.January, 1), r.Valid(ns(2000, time.January, 1)))
}

func TestResolverAmbiguous(t *testing.T) {
	boundary := ns(1972, time.January, 1)
	leap2016 := ns(2017, time.January, 1)

	tests := []struct {
		name    string
		elapsed int64
	}{
		{"inside 2016 leap second", leap2016 + 26_500_000_000},
		{"start of 2016 leap second", leap2016 + 26e9},
		{"inside 1972 rate to step jump", boundary - 100_000_000},
	}

	r := New(leap.Builtin())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Naive(tt.elapsed)
			assert.ErrorIs(t, err, ErrAmbiguous)
			assert.True(t, IsAmbiguous(err))
		})
	}

	naive, err := r.Naive(leap2016 + 26e9 - 1)
	require.NoError(t, err)
	assert.Equal(t, leap2016-1, naive)

	naive, err = r.Naive(leap2016 + 27e9)
	require.NoError(t, err)
	assert.Equal(t, leap2016, naive)
}

func TestResolverRange(t *testing.T) {
	r := New(leap.Builtin())

	_, err := r.Elapsed(ns(1957, time.December, 31))
	assert.ErrorIs(t, err, leap.ErrRange)
	assert.True(t, IsRangeError(err))

	_, err = r.Ceil(ns(1958, time.January, 1) - 10e9 - 1)
	assert.ErrorIs(t, err, leap.ErrRange)

	naive, err := r.Naive(ns(1958, time.January, 1) - 10e9)
	require.NoError(t, err)
	assert.Equal(t, ns(1958, time.January, 1), naive)
}

func TestResolverHorizonPolicy(t *testing.T) {
	past := ns(2027, time.June, 1)

	hold := New(leap.Builtin())
	assert.Equal(t, HoldConstant, hold.Policy())

	elapsed, err := hold.Elapsed(past)
	require.NoError(t, err)
	assert.Equal(t, past+27e9, elapsed)

	strict := New(leap.Builtin(), WithPolicy(Strict))

	_, err = strict.Elapsed(past)
	assert.ErrorIs(t, err, ErrBeyondHorizon)
	assert.True(t, IsRangeError(err))

	_, err = strict.Naive(past + 27e9)
	assert.ErrorIs(t, err, ErrBeyondHorizon)

	_, err = strict.Elapsed(ns(2026, time.December, 27))
	assert.NoError(t, err)
}

func TestResolverFinalOffset(t *testing.T) {
	final, err := New(leap.Builtin()).FinalOffset()
	require.NoError(t, err)
	assert.Equal(t, int64(27e9), final)

	_, err = New(leap.Builtin(), WithPolicy(Strict)).FinalOffset()
	assert.ErrorIs(t, err, ErrBeyondHorizon)

	// Without an expiry there is no horizon to enforce.
	b := leap.Builtin()
	open, err := leap.NewTable(b.Segments(), b.Entries(), time.Time{})
	require.NoError(t, err)

	final, err = New(open, WithPolicy(Strict)).FinalOffset()
	require.NoError(t, err)
	assert.Equal(t, int64(27e9), final)
}

func TestResolverRoundTrip(t *testing.T) {
	r := New(leap.Builtin())

	var samples []int64
	for _, seg := range leap.Builtin().Segments() {
		start := seg.Start.UnixNano()
		samples = append(samples, start, start+1, start+int64(36*time.Hour)+987_654_321)
	}

	for _, e := range leap.Builtin().Entries() {
		d := e.Date.UnixNano()
		samples = append(samples, d-int64(time.Second), d-1, d, d+1)
	}

	for _, naive := range samples {
		elapsed, err := r.Elapsed(naive)
		if err != nil {
			require.ErrorIs(t, err, ErrNonexistent)
			continue
		}

		back, err := r.Naive(elapsed)
		require.NoError(t, err, "naive %s", formatNS(naive))
		assert.Equal(t, naive, back, "naive %s", formatNS(naive))
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("STRICT")
	require.NoError(t, err)
	assert.Equal(t, Strict, p)
	assert.Equal(t, "strict", p.String())

	p, err = ParsePolicy("hold")
	require.NoError(t, err)
	assert.Equal(t, HoldConstant, p)

	_, err = ParsePolicy("sometimes")
	assert.Error(t, err)
}
