// Package offset resolves the UTC offset for an instant, in both directions,
// on top of a leap second table.
package offset

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/holoplot/clockcast/internal/leap"
)

// Policy controls lookups past the table horizon.
type Policy int

const (
	// HoldConstant keeps the last known offset forever.
	HoldConstant Policy = iota

	// Strict rejects instants past the table expiry with ErrBeyondHorizon.
	Strict
)

var policyNames = map[Policy]string{
	HoldConstant: "hold",
	Strict:       "strict",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}

	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses "hold" or "strict".
func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}

	return HoldConstant, fmt.Errorf("unknown horizon policy %q", s)
}

type Option func(*Resolver)

func WithPolicy(p Policy) Option {
	return func(r *Resolver) {
		r.policy = p
	}
}

// Resolver maps naive UTC instants to elapsed UTC instants and back for one
// table. It is immutable and safe for concurrent use.
type Resolver struct {
	table   *leap.Table
	rate    Era
	step    Era
	policy  Policy
	horizon int64
	final   int64
}

func New(tbl *leap.Table, opts ...Option) *Resolver {
	entries := tbl.Entries()

	r := &Resolver{
		table:   tbl,
		rate:    NewRateEra(tbl.Segments(), leap.EraBoundary, entries[0].TaiOffset),
		step:    NewStepEra(entries),
		horizon: math.MaxInt64,
		final:   int64(entries[len(entries)-1].TaiOffset) - initialOffsetNS,
	}

	if exp := tbl.Expires(); !exp.IsZero() {
		r.horizon = exp.UnixNano()
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Resolver) Table() *leap.Table {
	return r.table
}

func (r *Resolver) Policy() Policy {
	return r.policy
}

func (r *Resolver) era(naive int64) (Era, error) {
	if naive < r.rate.Start() {
		return nil, fmt.Errorf("%w: %s before %s", leap.ErrRange,
			formatNS(naive), r.table.Start().Format(time.DateOnly))
	}

	if r.policy == Strict && naive >= r.horizon {
		return nil, fmt.Errorf("%w: %s after %s", ErrBeyondHorizon,
			formatNS(naive), r.table.Expires().Format(time.DateOnly))
	}

	if naive >= r.step.Start() {
		return r.step, nil
	}

	return r.rate, nil
}

// Elapsed converts a naive UTC instant to elapsed UTC.
func (r *Resolver) Elapsed(naive int64) (int64, error) {
	e, err := r.era(naive)
	if err != nil {
		return 0, err
	}

	return e.Elapsed(naive)
}

// Ceil returns the smallest existing naive instant whose elapsed time is at
// least elapsed.
func (r *Resolver) Ceil(elapsed int64) (int64, error) {
	if elapsed < r.rate.ImageStart() {
		return 0, fmt.Errorf("%w: elapsed %s before %s", leap.ErrRange,
			formatNS(elapsed), r.table.Start().Format(time.DateOnly))
	}

	var naive int64
	if elapsed >= r.step.ImageStart() {
		naive = r.step.Ceil(elapsed)
	} else {
		naive = r.rate.Ceil(elapsed)
	}

	if _, err := r.era(naive); err != nil {
		return 0, err
	}

	return naive, nil
}

// Naive converts an elapsed UTC instant back to naive UTC. Instants inside
// inserted time return ErrAmbiguous.
func (r *Resolver) Naive(elapsed int64) (int64, error) {
	naive, err := r.Ceil(elapsed)
	if err != nil {
		return 0, err
	}

	back, err := r.Elapsed(naive)
	if err != nil {
		return 0, err
	}

	if back != elapsed {
		return 0, fmt.Errorf("%w: elapsed %s", ErrAmbiguous, formatNS(elapsed))
	}

	return naive, nil
}

// Valid returns naive if it exists, or the first existing naive instant
// after it.
func (r *Resolver) Valid(naive int64) int64 {
	if naive < r.step.Start() {
		return r.rate.Valid(naive)
	}

	return naive
}

// FinalOffset returns the offset held after the last record, in
// nanoseconds. It serves instants too late to express as int64 nanoseconds,
// which always lie past the table expiry, so Strict rejects them.
func (r *Resolver) FinalOffset() (int64, error) {
	if r.policy == Strict && r.horizon != math.MaxInt64 {
		return 0, fmt.Errorf("%w: after %s", ErrBeyondHorizon, r.table.Expires().Format(time.DateOnly))
	}

	return r.final, nil
}

// Offset returns L = TAI-UTC - 10s at a naive instant, in nanoseconds.
func (r *Resolver) Offset(naive int64) (int64, error) {
	elapsed, err := r.Elapsed(naive)
	if err != nil {
		return 0, err
	}

	return elapsed - naive, nil
}

func addChecked(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrOverflow
	}

	return sum, nil
}

func formatNS(ns int64) string {
	return time.Unix(0, ns).UTC().Format(time.RFC3339Nano)
}
