package offset

import (
	"errors"
	"fmt"

	"github.com/holoplot/clockcast/internal/leap"
)

var (
	// ErrAmbiguous is returned when an elapsed UTC instant lies inside
	// inserted time and has no naive counterpart.
	ErrAmbiguous = errors.New("instant falls inside an inserted leap interval")

	// ErrNonexistent is returned for naive instants skipped by a negative
	// offset step.
	ErrNonexistent = errors.New("naive instant skipped by a negative offset step")

	// ErrBeyondHorizon is returned under the Strict policy for instants past
	// the table expiry. It is a range error.
	ErrBeyondHorizon = fmt.Errorf("%w: beyond table horizon", leap.ErrRange)

	// ErrOverflow is returned when a result does not fit the int64 count of
	// the requested precision.
	ErrOverflow = errors.New("time point overflows int64")
)

// IsRangeError reports whether err means the instant is outside the table.
func IsRangeError(err error) bool {
	return errors.Is(err, leap.ErrRange)
}

// IsAmbiguous reports whether err means the instant has no unique naive
// counterpart.
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguous)
}
