package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/holoplot/clockcast/internal/chrono"
	"github.com/holoplot/clockcast/internal/config"
	"github.com/holoplot/clockcast/internal/leap"
	"github.com/holoplot/clockcast/internal/leapfile"
	"github.com/holoplot/clockcast/internal/logging"
	"github.com/holoplot/clockcast/internal/offset"
	"github.com/holoplot/clockcast/internal/version"
)

// app is the state shared by all subcommands, filled in before any of them
// runs.
type app struct {
	clock chrono.Clock
	cfg   *config.Config
	store *leap.Store
	log   *slog.Logger
}

type globalFlags struct {
	tableFile string
	policy    string
	logLevel  string
	logFormat string
}

func (a *app) resolver() *offset.Resolver {
	return offset.New(a.store.Load(), offset.WithPolicy(a.cfg.Policy()))
}

func newRootCmd(clk chrono.Clock) *cobra.Command {
	a := &app{clock: clk}
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "clockcast",
		Short: "Convert time points between the Sys, UTC, TAI and GPS scales",
		Long: `clockcast converts time points between the system clock, UTC, TAI and GPS
time scales using a leap second table. It covers the rate adjusted UTC of
1958 to 1972 as well as the discrete leap seconds since.

The table is compiled in and can be replaced by an IETF leap-seconds.list
or a YAML table file.`,
		Version:      version.Get().String(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.tableFile, "table", "", "Leap second table file (leap-seconds.list or .yaml)")
	pf.StringVar(&flags.policy, "policy", "", "Behaviour past the table expiry: hold or strict")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format (text, json)")

	cmd.AddCommand(
		newConvertCmd(a),
		newNowCmd(a),
		newTableCmd(a),
		newMonitorCmd(a),
		newVersionCmd(),
	)

	return cmd
}

// setup loads the environment configuration, applies flag overrides and
// loads the leap second table.
func (a *app) setup(cmd *cobra.Command, flags *globalFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("table") {
		cfg.TableFile = flags.tableFile
	}

	if cmd.Flags().Changed("policy") {
		cfg.HorizonPolicy = flags.policy
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}

	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = flags.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	slog.SetDefault(a.log)

	tbl, err := loadTable(cfg.TableFile)
	if err != nil {
		return err
	}

	a.store = leap.NewStore(tbl)

	a.log.Debug("leap second table loaded",
		"file", cfg.TableFile,
		"entries", len(tbl.Entries()),
		"expires", expiresLabel(tbl),
		"policy", cfg.HorizonPolicy)

	if exp := tbl.Expires(); !exp.IsZero() && a.clock.Now().After(exp) {
		a.log.Warn("leap second table has expired", "expires", exp.Format(time.DateOnly), "policy", cfg.HorizonPolicy)
	}

	return nil
}

func expiresLabel(tbl *leap.Table) string {
	if exp := tbl.Expires(); !exp.IsZero() {
		return exp.Format(time.DateOnly)
	}

	return "none"
}

func loadTable(path string) (*leap.Table, error) {
	if path == "" {
		return leap.Builtin(), nil
	}

	tbl, err := leapfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading leap second table: %w", err)
	}

	return tbl, nil
}

func Execute() {
	err := newRootCmd(chrono.RealClock{}).ExecuteContext(context.Background())
	if err != nil {
		os.Exit(1)
	}
}
