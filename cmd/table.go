package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/holoplot/clockcast/internal/leap"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#66D9EF"))
	columnStyle  = lipgloss.NewStyle().Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F92672"))
)

type tableOptions struct {
	at string
}

func newTableCmd(a *app) *cobra.Command {
	opts := &tableOptions{}

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Show the leap second table and its expiry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.at != "" {
				return a.tableAt(cmd.OutOrStdout(), opts.at)
			}

			return a.table(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.at, "at", "", "Show TAI-UTC and leap second state at this RFC 3339 UTC time instead")

	return cmd
}

func (a *app) source() string {
	if a.cfg.TableFile == "" {
		return "builtin"
	}

	return a.cfg.TableFile
}

// expiry describes the table horizon relative to now.
func (a *app) expiry(tbl *leap.Table) string {
	exp := tbl.Expires()
	if exp.IsZero() {
		return "has no expiry"
	}

	left := exp.Sub(a.clock.Now())

	if left > 0 {
		return fmt.Sprintf("expires %s (in %s)", exp.Format(time.DateOnly), units.HumanDuration(left))
	}

	return warnStyle.Render(fmt.Sprintf("expired %s (%s ago, %s policy)",
		exp.Format(time.DateOnly), units.HumanDuration(-left), a.cfg.HorizonPolicy))
}

func (a *app) table(w io.Writer) error {
	tbl := a.store.Load()

	fmt.Fprintln(w, headingStyle.Render("Leap second table "+a.source()))
	fmt.Fprintf(w, "Covers %s onwards, %s\n\n", tbl.Start().Format(time.DateOnly), a.expiry(tbl))

	fmt.Fprintln(w, headingStyle.Render("Rate segments"))
	fmt.Fprintln(w, columnStyle.Render(fmt.Sprintf("%-12s %-12s %-8s %s", "Start", "Offset", "Ref MJD", "Rate/day")))

	for _, s := range tbl.Segments() {
		fmt.Fprintf(w, "%-12s %-12s %-8d %s\n", s.Start.Format(time.DateOnly), s.Offset, s.RefMJD, s.Rate)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Leap seconds"))
	fmt.Fprintln(w, columnStyle.Render(fmt.Sprintf("%-12s %s", "From", "TAI-UTC")))

	for _, e := range tbl.Entries() {
		fmt.Fprintf(w, "%-12s %s\n", e.Date.Format(time.DateOnly), e.TaiOffset)
	}

	return nil
}

func (a *app) tableAt(w io.Writer, at string) error {
	t, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return fmt.Errorf("%w: %q", errBadValue, at)
	}

	t = t.UTC()
	tbl := a.store.Load()

	off, err := tbl.LookupOffset(t)
	if err != nil {
		return err
	}

	lines := []string{
		fmt.Sprintf("TAI-UTC at %s: %s", t.Format(time.RFC3339Nano), off),
		fmt.Sprintf("Leap seconds since 1972: %d", tbl.LeapSecondCount(t)),
	}

	if tbl.IsLeapSecond(t) {
		lines = append(lines, "This second is followed by an inserted leap second")
	}

	if next := tbl.NextLeapSecond(t); !next.IsZero() {
		lines = append(lines, "Next leap second: "+next.Format(time.DateOnly))
	} else {
		lines = append(lines, "Next leap second: none announced, table "+a.expiry(tbl))
	}

	fmt.Fprintln(w, strings.Join(lines, "\n"))

	return nil
}
