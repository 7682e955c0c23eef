package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/holoplot/clockcast/internal/chrono"
	"github.com/holoplot/clockcast/internal/offset"
	"github.com/holoplot/clockcast/internal/scale"
)

var errBadValue = errors.New("value is neither a count nor an RFC 3339 label")

var precisions = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"µs": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
}

func parsePrecision(s string) (time.Duration, error) {
	unit, ok := precisions[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unknown precision %q (want ns, us, ms or s)", s)
	}

	return unit, nil
}

// parseValue reads a count of unit on scale id, or a calendar label read
// on the scale's own clock. A utc label is a wall clock reading.
func parseValue(r *offset.Resolver, id scale.ID, unit time.Duration, v string) (int64, error) {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, nil
	}

	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadValue, v)
	}

	if id != scale.UTC {
		return chrono.CountFromLabel(id, unit, t)
	}

	sys, err := chrono.CountFromLabel(scale.Sys, unit, t)
	if err != nil {
		return 0, err
	}

	utc, err := scale.SysToUTC(r, sys, unit)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", v, err)
	}

	return utc, nil
}

type convertOptions struct {
	from      string
	to        string
	precision string
}

func newConvertCmd(a *app) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert VALUE...",
		Short: "Convert time points from one scale to another",
		Long: `Convert time points from one scale to another.

Each VALUE is either an integer count of the chosen precision since the
epoch of the source scale, or an RFC 3339 label read on the source scale's
own clock. Labels on the utc scale are civil UTC readings.`,
		Example: `  clockcast convert --from sys --to tai 1972-01-01T00:00:00Z
  clockcast convert --from tai --to gps --precision s 1861920036 1861920037`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.convert(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.from, "from", "sys", "Source scale (sys, utc, tai, gps)")
	f.StringVar(&opts.to, "to", "utc", "Target scale (sys, utc, tai, gps)")
	f.StringVar(&opts.precision, "precision", "ns", "Precision of counts (ns, us, ms, s)")

	return cmd
}

func (a *app) convert(ctx context.Context, w io.Writer, opts *convertOptions, args []string) error {
	from, err := scale.ParseID(opts.from)
	if err != nil {
		return err
	}

	to, err := scale.ParseID(opts.to)
	if err != nil {
		return err
	}

	unit, err := parsePrecision(opts.precision)
	if err != nil {
		return err
	}

	r := a.resolver()

	counts := make([]int64, len(args))
	for i, v := range args {
		c, err := parseValue(r, from, unit, v)
		if err != nil {
			return err
		}

		counts[i] = c
	}

	out, err := chrono.ConvertAll(ctx, r, from, to, unit, counts)
	if err != nil {
		return err
	}

	a.log.Debug("converted time points", "from", from, "to", to, "precision", unit, "count", len(out))

	for i, c := range out {
		label, err := displayLabel(r, to, unit, c)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s -> %d %s (%s)\n", args[i], c, to, label)
	}

	return nil
}

// displayLabel shows utc points as civil readings and every other scale
// as the reading of its own clock.
func displayLabel(r *offset.Resolver, id scale.ID, unit time.Duration, count int64) (string, error) {
	if id == scale.UTC {
		return chrono.CivilLabel(r, id, unit, count)
	}

	return chrono.Label(id, unit, count).Format(time.RFC3339Nano), nil
}
