package ptp

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holoplot/clockcast/internal/chrono"
	"github.com/holoplot/clockcast/internal/leap"
	"github.com/holoplot/clockcast/internal/offset"
)

// ptpBytes encodes seconds and nanoseconds the way they appear on the wire.
func ptpBytes(seconds uint64, nanoseconds uint32) [10]byte {
	return [10]byte{
		byte(seconds >> 40), byte(seconds >> 32), byte(seconds >> 24),
		byte(seconds >> 16), byte(seconds >> 8), byte(seconds),
		byte(nanoseconds >> 24), byte(nanoseconds >> 16), byte(nanoseconds >> 8), byte(nanoseconds),
	}
}

func TestTimestampFields(t *testing.T) {
	tests := []struct {
		name        string
		ptpBytes    [10]byte
		seconds     uint64
		nanoseconds uint64
		total       string
	}{
		{
			name:     "zero time",
			ptpBytes: [10]byte{},
			total:    "0",
		},
		{
			name:        "one second and one nanosecond",
			ptpBytes:    [10]byte{0, 0, 0, 0, 0, 1, 0, 0, 0, 1},
			seconds:     1,
			nanoseconds: 1,
			total:       "1000000001",
		},
		{
			name:     "high bytes set",
			ptpBytes: [10]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0, 0, 0, 0},
			seconds:  0x010203040506,
			total:    "1108152157446000000000",
		},
		{
			name:        "all bytes set",
			ptpBytes:    [10]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			seconds:     0xFFFFFFFFFFFF,
			nanoseconds: 0xFFFFFFFF,
			total:       "281474976710659294967295",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := Timestamp{PTP: tt.ptpBytes}

			assert.Equal(t, tt.seconds, ts.Seconds())
			assert.Equal(t, tt.nanoseconds, ts.NanoSeconds())
			assert.Equal(t, tt.seconds == 0 && tt.nanoseconds == 0, ts.IsZero())

			expected, ok := new(big.Int).SetString(tt.total, 10)
			require.True(t, ok)
			assert.Zero(t, expected.Cmp(ts.TotalNanoSeconds()), "TotalNanoSeconds() = %s, want %s", ts.TotalNanoSeconds(), expected)
		})
	}
}

func TestTimestampScales(t *testing.T) {
	r := offset.New(leap.Builtin())

	// 2024-01-01T00:00:00 UTC is 37s later on the PTP timescale.
	utc := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	ts := Timestamp{PTP: ptpBytes(uint64(utc.Unix())+37, 250_000_000)}

	tai, err := ts.TAI()
	require.NoError(t, err)
	assert.Equal(t, utc.Add(37*time.Second+250*time.Millisecond), tai.Label())
	assert.Equal(t, "2024-01-01T00:00:37.25Z", ts.AsTAI())

	sys, err := chrono.Cast[chrono.Sys](r, tai)
	require.NoError(t, err)

	civil := chrono.Time(sys)
	assert.Equal(t, utc.Add(250*time.Millisecond), civil)
	assert.Equal(t, "2024-01-01T00:00:00.25Z", ts.AsUTC(r))

	gps, err := ts.GPS(r)
	require.NoError(t, err)
	assert.Equal(t, utc.Add(18*time.Second+250*time.Millisecond), gps.Label())
	assert.Equal(t, "2024-01-01T00:00:18.25Z", ts.AsGPS(r))

	elapsed, err := ts.UTC(r)
	require.NoError(t, err)
	assert.Equal(t, civil.UnixNano()+27e9, elapsed.Count())
}

func TestTimestampDuringLeapSecond(t *testing.T) {
	r := offset.New(leap.Builtin())

	// TAI 2017-01-01T00:00:36.5 is UTC 2016-12-31T23:59:60.5.
	next := time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC)
	ts := Timestamp{PTP: ptpBytes(uint64(next.Unix())+36, 500_000_000)}

	tai, err := ts.TAI()
	require.NoError(t, err)

	_, err = chrono.Cast[chrono.Sys](r, tai)
	assert.ErrorIs(t, err, offset.ErrAmbiguous)
	assert.Equal(t, "2016-12-31T23:59:60.5Z", ts.AsUTC(r))
}

func TestTimestampOutOfRange(t *testing.T) {
	r := offset.New(leap.Builtin())
	ts := Timestamp{PTP: [10]byte{0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}}

	_, err := ts.TAI()
	assert.ErrorIs(t, err, ErrTimestampOutOfRange)

	assert.Contains(t, ts.AsTAI(), "out of range")
	assert.Contains(t, ts.AsUTC(r), "out of range")
	assert.Contains(t, ts.AsGPS(r), "out of range")
}

func TestClockIdentityString(t *testing.T) {
	ci := ClockIdentity{octets: [8]byte{0x00, 0x1d, 0xc1, 0xff, 0xfe, 0x12, 0x34, 0x56}}
	assert.Equal(t, "00:1d:c1:ff:fe:12:34:56", ci.String())
}
