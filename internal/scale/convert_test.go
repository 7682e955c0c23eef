package scale

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holoplot/clockcast/internal/leap"
	"github.com/holoplot/clockcast/internal/offset"
)

func seconds(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix()
}

func TestSysToTAIAtEraBoundary(t *testing.T) {
	r := offset.New(leap.Builtin())

	tai, err := Convert(r, Sys, TAI, seconds(1972, time.January, 1), time.Second)
	require.NoError(t, err)

	label := TAI.Epoch().Add(time.Duration(tai) * time.Second)
	assert.Equal(t, time.Date(1972, time.January, 1, 0, 0, 10, 0, time.UTC), label)
}

func TestGPSEpoch(t *testing.T) {
	r := offset.New(leap.Builtin())

	utc, err := SysToUTC(r, seconds(1980, time.January, 6), time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(315_964_809), utc)

	gps, err := UTCToGPS(r, utc, time.Second)
	require.NoError(t, err)
	assert.Zero(t, gps)

	back, err := GPSToUTC(r, 0, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(315_964_809_000), back)
}

func TestGPSTrailsTAIByNineteenSeconds(t *testing.T) {
	r := offset.New(leap.Builtin())

	for _, utc := range []int64{-100_000_000, 0, 315_964_809, 1_700_000_000} {
		tai, err := UTCToTAI(r, utc, time.Second)
		require.NoError(t, err)

		gps, err := UTCToGPS(r, utc, time.Second)
		require.NoError(t, err)

		taiLabel := TAI.Epoch().Add(time.Duration(tai) * time.Second)
		gpsLabel := GPS.Epoch().Add(time.Duration(gps) * time.Second)

		assert.Equal(t, 19*time.Second, taiLabel.Sub(gpsLabel))
	}
}

func TestUTCToSysAmbiguous(t *testing.T) {
	r := offset.New(leap.Builtin())
	leap2016 := seconds(2017, time.January, 1)

	_, err := UTCToSys(r, leap2016+26, time.Second)
	assert.ErrorIs(t, err, offset.ErrAmbiguous)

	sys, err := UTCToSys(r, leap2016+25, time.Second)
	require.NoError(t, err)
	assert.Equal(t, leap2016-1, sys)

	sys, err = UTCToSys(r, leap2016+27, time.Second)
	require.NoError(t, err)
	assert.Equal(t, leap2016, sys)
}

func TestSysRoundTripNearNegativeSteps(t *testing.T) {
	r := offset.New(leap.Builtin())

	units := []time.Duration{time.Nanosecond, time.Microsecond, time.Millisecond, time.Second}
	days := []int64{seconds(1961, time.August, 1), seconds(1968, time.February, 1)}

	for _, unit := range units {
		perSecond := int64(time.Second / unit)

		for _, day := range days {
			sys := day * perSecond

			utc, err := SysToUTC(r, sys, unit)
			require.NoError(t, err)

			back, err := UTCToSys(r, utc, unit)
			require.NoError(t, err, "unit %s", unit)
			assert.Equal(t, sys, back, "unit %s", unit)
		}
	}
}

func TestConvertBeyondNanosecondRange(t *testing.T) {
	r := offset.New(leap.Builtin())
	sys := seconds(2300, time.January, 1)

	tai, err := Convert(r, Sys, TAI, sys, time.Second)
	require.NoError(t, err)
	assert.Equal(t, sys+27+378_691_210, tai)

	back, err := Convert(r, TAI, Sys, tai, time.Second)
	require.NoError(t, err)
	assert.Equal(t, sys, back)

	gps, err := Convert(r, Sys, GPS, sys, time.Second)
	require.NoError(t, err)

	utcGPS, err := Convert(r, UTC, GPS, sys+27, time.Second)
	require.NoError(t, err)
	assert.Equal(t, utcGPS, gps)

	_, err = Convert(r, Sys, UTC, seconds(1600, time.January, 1), time.Millisecond)
	assert.ErrorIs(t, err, leap.ErrRange)
}

func TestConvertIdentitySkipsTable(t *testing.T) {
	got, err := Convert(nil, Sys, Sys, math.MinInt64, time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), got)
}

func TestConvertErrors(t *testing.T) {
	r := offset.New(leap.Builtin())

	_, err := Convert(r, Sys, UTC, seconds(1957, time.January, 1), time.Second)
	assert.ErrorIs(t, err, leap.ErrRange)

	_, err = Convert(r, Sys, UTC, math.MaxInt64, time.Second)
	assert.ErrorIs(t, err, offset.ErrOverflow)

	_, err = Convert(r, UTC, TAI, math.MaxInt64, time.Second)
	assert.ErrorIs(t, err, offset.ErrOverflow)

	_, err = Convert(r, UTC, TAI, 0, 7*time.Nanosecond)
	assert.Error(t, err)

	_, err = Convert(r, ID(9), UTC, 0, time.Second)
	assert.ErrorIs(t, err, ErrUnknownScale)

	_, err = Lookup(ID(4))
	assert.ErrorIs(t, err, ErrUnknownScale)
}

func TestParseID(t *testing.T) {
	for _, id := range IDs() {
		got, err := ParseID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}

	got, err := ParseID("GPS")
	require.NoError(t, err)
	assert.Equal(t, GPS, got)

	_, err = ParseID("tt")
	assert.ErrorIs(t, err, ErrUnknownScale)
	assert.Equal(t, "ID(7)", ID(7).String())
}
