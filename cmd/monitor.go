package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/holoplot/clockcast/internal/leapfile"
	"github.com/holoplot/clockcast/internal/monitorui"
	"github.com/holoplot/clockcast/internal/ptp"
)

var errNoMulticastInterfaces = errors.New("no multicast-capable interfaces found")

func newMonitorCmd(a *app) *cobra.Command {
	var interfaceNames []string

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Show PTP grandmaster time on the TAI, UTC and GPS scales",
		Long: `Listen for PTP Sync, Follow_Up and Announce messages and show the time of
every grandmaster seen on the TAI, UTC and GPS scales. The UTC offset a
grandmaster announces is checked against the leap second table.

Binding to the PTP ports usually requires root.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.monitor(cmd.Context(), interfaceNames)
		},
	}

	cmd.Flags().StringArrayVar(&interfaceNames, "interface", []string{}, "Network interface to use (can be used multiple times)")

	return cmd
}

// multicastInterfaces returns the named interfaces, or all of them, that
// are up and multicast capable.
func multicastInterfaces(names []string) ([]*net.Interface, error) {
	var ifis []net.Interface

	if len(names) > 0 {
		for _, name := range names {
			ifi, err := net.InterfaceByName(name)
			if err != nil {
				return nil, fmt.Errorf("failed to get network interface %s: %w", name, err)
			}

			ifis = append(ifis, *ifi)
		}
	} else {
		var err error

		ifis, err = net.Interfaces()
		if err != nil {
			return nil, fmt.Errorf("failed to get network interfaces: %w", err)
		}
	}

	var multicastIfis []*net.Interface
	for i := range ifis {
		if ifis[i].Flags&net.FlagMulticast != 0 && ifis[i].Flags&net.FlagUp != 0 {
			multicastIfis = append(multicastIfis, &ifis[i])
		}
	}

	if len(multicastIfis) == 0 {
		return nil, errNoMulticastInterfaces
	}

	return multicastIfis, nil
}

func (a *app) monitor(ctx context.Context, interfaceNames []string) error {
	ifis, err := multicastInterfaces(interfaceNames)
	if err != nil {
		return err
	}

	names := make([]string, len(ifis))
	for i := range ifis {
		names[i] = ifis[i].Name
	}

	a.log.Info("Multicast-capable interfaces found", "interfaces", names)

	ptpMonitor, err := ptp.NewMonitor(ifis)
	if err != nil {
		return fmt.Errorf("error monitoring PTP - are you root?: %w", err)
	}

	defer ptpMonitor.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.cfg.TableFile != "" && a.cfg.MonitorReload > 0 {
		go a.reloadTable(ctx, a.cfg.TableFile, a.cfg.MonitorReload)
	}

	model := monitorui.NewModel(ptpMonitor, a.store, a.cfg.Policy(), a.clock)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running UI: %w", err)
	}

	return nil
}

// reloadTable re-reads the table file every interval and publishes it
// until ctx is done. A file that fails to load keeps the current table.
func (a *app) reloadTable(ctx context.Context, path string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.reload(path); err != nil {
				a.log.Error("error reloading leap second table", "file", path, "error", err)
			}
		}
	}
}

func (a *app) reload(path string) error {
	tbl, err := leapfile.Load(path)
	if err != nil {
		return err
	}

	old, err := a.store.Swap(tbl)
	if err != nil {
		return err
	}

	if !old.Expires().Equal(tbl.Expires()) || len(old.Entries()) != len(tbl.Entries()) {
		a.log.Info("leap second table updated",
			"file", path,
			"entries", len(tbl.Entries()),
			"expires", expiresLabel(tbl))
	}

	return nil
}
