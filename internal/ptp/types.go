package ptp

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/holoplot/clockcast/internal/chrono"
	"github.com/holoplot/clockcast/internal/offset"
)

const (
	messageTypeSync     = 0x0
	messageTypeFollowUp = 0x8
	messageTypeAnnounce = 0xb
)

// ptpEpochTAI is the PTP epoch, 1970-01-01T00:00:00 TAI, counted from the
// TAI epoch 1958-01-01.
const ptpEpochTAI = 378_691_200 * time.Second

type ClockIdentity struct {
	octets [8]byte
}

func (ci ClockIdentity) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x:%02x:%02x",
		ci.octets[0], ci.octets[1], ci.octets[2], ci.octets[3],
		ci.octets[4], ci.octets[5], ci.octets[6], ci.octets[7])
}

// Timestamp is a 48 bit seconds, 32 bit nanoseconds PTP timestamp on the
// TAI scale, together with the local receive time.
type Timestamp struct {
	PTP  [10]byte
	Time time.Time
}

func (ts Timestamp) Seconds() uint64 {
	return uint64(ts.PTP[0])<<40 |
		uint64(ts.PTP[1])<<32 |
		uint64(ts.PTP[2])<<24 |
		uint64(ts.PTP[3])<<16 |
		uint64(ts.PTP[4])<<8 |
		uint64(ts.PTP[5])
}

func (ts Timestamp) NanoSeconds() uint64 {
	return uint64(ts.PTP[6])<<24 |
		uint64(ts.PTP[7])<<16 |
		uint64(ts.PTP[8])<<8 |
		uint64(ts.PTP[9])
}

func (ts Timestamp) IsZero() bool {
	return ts.Seconds() == 0 && ts.NanoSeconds() == 0
}

// TotalNanoSeconds returns the total nanoseconds since the PTP epoch using
// big.Int arithmetic, as 2^48 seconds do not fit int64 nanoseconds.
func (ts Timestamp) TotalNanoSeconds() *big.Int {
	seconds := new(big.Int).SetUint64(ts.Seconds())
	nanoseconds := new(big.Int).SetUint64(ts.NanoSeconds())
	billion := new(big.Int).SetUint64(1_000_000_000)

	total := new(big.Int).Mul(seconds, billion)
	total.Add(total, nanoseconds)

	return total
}

var ErrTimestampOutOfRange = errors.New("Timestamp out of range")

// TAI returns the timestamp as a TAI time point.
func (ts Timestamp) TAI() (chrono.TimePoint[chrono.TAI, chrono.Nanoseconds], error) {
	total := ts.TotalNanoSeconds()
	total.Add(total, big.NewInt(int64(ptpEpochTAI)))

	if !total.IsInt64() {
		return chrono.TimePoint[chrono.TAI, chrono.Nanoseconds]{}, ErrTimestampOutOfRange
	}

	return chrono.New[chrono.TAI, chrono.Nanoseconds](total.Int64()), nil
}

// UTC returns the elapsed UTC time point of the timestamp.
func (ts Timestamp) UTC(r *offset.Resolver) (chrono.TimePoint[chrono.UTC, chrono.Nanoseconds], error) {
	tai, err := ts.TAI()
	if err != nil {
		return chrono.TimePoint[chrono.UTC, chrono.Nanoseconds]{}, err
	}

	return chrono.Cast[chrono.UTC](r, tai)
}

func (ts Timestamp) GPS(r *offset.Resolver) (chrono.TimePoint[chrono.GPS, chrono.Nanoseconds], error) {
	tai, err := ts.TAI()
	if err != nil {
		return chrono.TimePoint[chrono.GPS, chrono.Nanoseconds]{}, err
	}

	return chrono.Cast[chrono.GPS](r, tai)
}

func (ts Timestamp) outOfRange() string {
	return fmt.Sprintf("Timestamp out of range (%d s, %d ns)", ts.Seconds(), ts.NanoSeconds())
}

// AsTAI formats the TAI calendar label of the timestamp.
func (ts Timestamp) AsTAI() string {
	tai, err := ts.TAI()
	if err != nil {
		return ts.outOfRange()
	}

	return tai.Label().Format(time.RFC3339Nano)
}

// AsUTC formats the civil UTC reading of the timestamp. Inserted leap
// seconds are shown as 23:59:60.
func (ts Timestamp) AsUTC(r *offset.Resolver) string {
	tai, err := ts.TAI()
	if err != nil {
		return ts.outOfRange()
	}

	label, err := chrono.Civil(r, tai)
	if err != nil {
		return ts.outOfRange()
	}

	return label
}

// AsGPS formats the GPS calendar label of the timestamp.
func (ts Timestamp) AsGPS(r *offset.Resolver) string {
	gps, err := ts.GPS(r)
	if err != nil {
		return ts.outOfRange()
	}

	return gps.Label().Format(time.RFC3339Nano)
}
