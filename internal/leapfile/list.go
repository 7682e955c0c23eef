// Package leapfile loads leap second tables from files.
package leapfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/holoplot/clockcast/internal/leap"
)

// ntpUnixOffset is the number of seconds from 1900-01-01 to 1970-01-01.
const ntpUnixOffset = 2_208_988_800

func ntpTime(field string) (time.Time, error) {
	secs, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(secs-ntpUnixOffset, 0).UTC(), nil
}

// ParseList reads the IETF leap-seconds.list format as published by IERS
// and NIST. The file only carries the discrete era, so the builtin rate
// segments are used before 1972.
func ParseList(r io.Reader) (*leap.Table, error) {
	var (
		entries []leap.Entry
		expires time.Time
		lineNo  int
	)

	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#@") {
			t, err := ntpTime(strings.TrimSpace(line[2:]))
			if err != nil {
				return nil, fmt.Errorf("line %d: expiry: %w", lineNo, err)
			}

			expires = t

			continue
		}

		if strings.HasPrefix(line, "#") {
			continue
		}

		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected 2 fields, got %d", lineNo, len(fields))
		}

		date, err := ntpTime(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: date: %w", lineNo, err)
		}

		offset, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: offset: %w", lineNo, err)
		}

		entries = append(entries, leap.Entry{
			Date:      date,
			TaiOffset: time.Duration(offset) * time.Second,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return leap.NewTable(leap.BuiltinSegments(), entries, expires)
}
