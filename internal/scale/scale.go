// Package scale converts raw counts between the Sys, UTC, TAI and GPS time
// scales. All conversions pivot through UTC.
package scale

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ID identifies a time scale.
type ID uint8

const (
	Sys ID = iota
	UTC
	TAI
	GPS

	numScales
)

var ErrUnknownScale = errors.New("unknown time scale")

var names = [numScales]string{
	Sys: "sys",
	UTC: "utc",
	TAI: "tai",
	GPS: "gps",
}

var epochs = [numScales]time.Time{
	Sys: time.Unix(0, 0).UTC(),
	UTC: time.Unix(0, 0).UTC(),
	TAI: time.Date(1958, time.January, 1, 0, 0, 0, 0, time.UTC),
	GPS: time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC),
}

// IDs lists all scales in dispatch order.
func IDs() []ID {
	return []ID{Sys, UTC, TAI, GPS}
}

func (id ID) String() string {
	if id >= numScales {
		return fmt.Sprintf("ID(%d)", uint8(id))
	}

	return names[id]
}

// Epoch returns the calendar label of count zero on this scale.
func (id ID) Epoch() time.Time {
	return epochs[id]
}

// ParseID parses a scale name, case-insensitively.
func ParseID(s string) (ID, error) {
	for id, name := range names {
		if strings.EqualFold(s, name) {
			return ID(id), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownScale, s)
}
