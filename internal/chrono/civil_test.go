package chrono_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holoplot/clockcast/internal/chrono"
	"github.com/holoplot/clockcast/internal/leap"
	"github.com/holoplot/clockcast/internal/offset"
	"github.com/holoplot/clockcast/internal/scale"
)

func TestCivilLabel(t *testing.T) {
	r := offset.New(leap.Builtin())

	next := day(2017, time.January, 1)

	tests := []struct {
		name  string
		id    scale.ID
		unit  time.Duration
		count int64
		want  string
	}{
		{
			name:  "sys is its own label",
			id:    scale.Sys,
			unit:  time.Second,
			count: day(2024, time.January, 1).Unix(),
			want:  "2024-01-01T00:00:00Z",
		},
		{
			name:  "tai before the leap second",
			id:    scale.TAI,
			unit:  time.Millisecond,
			count: (next.Unix() - day(1958, time.January, 1).Unix() + 35) * 1000,
			want:  "2016-12-31T23:59:59Z",
		},
		{
			name:  "tai inside the leap second",
			id:    scale.TAI,
			unit:  time.Millisecond,
			count: (next.Unix()-day(1958, time.January, 1).Unix()+36)*1000 + 500,
			want:  "2016-12-31T23:59:60.5Z",
		},
		{
			name:  "tai after the leap second",
			id:    scale.TAI,
			unit:  time.Millisecond,
			count: (next.Unix() - day(1958, time.January, 1).Unix() + 37) * 1000,
			want:  "2017-01-01T00:00:00Z",
		},
		{
			name:  "utc inside the leap second",
			id:    scale.UTC,
			unit:  time.Second,
			count: next.Unix() + 26,
			want:  "2016-12-31T23:59:60Z",
		},
		{
			name:  "gps epoch",
			id:    scale.GPS,
			unit:  time.Second,
			count: 0,
			want:  "1980-01-06T00:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chrono.CivilLabel(r, tt.id, tt.unit, tt.count)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCivilLabelOutOfRange(t *testing.T) {
	r := offset.New(leap.Builtin())

	_, err := chrono.Civil(r, chrono.New[chrono.TAI, chrono.Seconds](-1))
	assert.ErrorIs(t, err, leap.ErrRange)
}

func TestCivilTimePoint(t *testing.T) {
	r := offset.New(leap.Builtin())

	gps, err := chrono.FromLabel[chrono.GPS, chrono.Seconds](day(2024, time.March, 1).Add(18 * time.Second))
	require.NoError(t, err)

	got, err := chrono.Civil(r, gps)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T00:00:00Z", got)
}
