package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/holoplot/clockcast/internal/chrono"
	"github.com/holoplot/clockcast/internal/offset"
)

func newNowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Print the current instant on every scale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.now(cmd.OutOrStdout())
		},
	}
}

func (a *app) now(w io.Writer) error {
	r := a.resolver()

	for _, line := range []func(*app, *offset.Resolver) (string, error){
		nowLine[chrono.Sys],
		nowLine[chrono.UTC],
		nowLine[chrono.TAI],
		nowLine[chrono.GPS],
	} {
		s, err := line(a, r)
		if err != nil {
			return err
		}

		fmt.Fprintln(w, s)
	}

	return nil
}

func nowLine[S chrono.Scale](a *app, r *offset.Resolver) (string, error) {
	tp, err := chrono.Now[S, chrono.Nanoseconds](a.clock, r)
	if err != nil {
		return "", err
	}

	label, err := displayLabel(r, tp.Scale(), tp.Unit(), tp.Count())
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%-4s %-35s %d", tp.Scale(), label, tp.Count()), nil
}
