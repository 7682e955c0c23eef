// Package monitorui is the terminal view of PTP grandmasters seen on the
// network, showing each one's time on the TAI, UTC and GPS scales.
package monitorui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/docker/go-units"

	"github.com/holoplot/clockcast/internal/chrono"
	"github.com/holoplot/clockcast/internal/leap"
	"github.com/holoplot/clockcast/internal/offset"
	"github.com/holoplot/clockcast/internal/ptp"
	"github.com/holoplot/clockcast/internal/version"
)

const refreshInterval = 200 * time.Millisecond

// Source provides the transmitters to display.
type Source interface {
	ForEachTransmitter(fn func(ptp.ClockIdentity, *ptp.Transmitter))
}

type status int

const (
	statusOK status = iota
	statusNoSync
	statusLeapPending
	statusMismatch
)

type row struct {
	id       string
	domain   uint8
	ifi      string
	tai      string
	utc      string
	gps      string
	offset   string
	lastSeen string
	status   status
}

// Model renders one row per transmitter.
type Model struct {
	source     Source
	store      *leap.Store
	policy     offset.Policy
	clock      chrono.Clock
	styles     styles
	rows       []row
	selected   int
	width      int
	height     int
	lastUpdate time.Time
	quitting   bool
}

func NewModel(source Source, store *leap.Store, policy offset.Policy, clock chrono.Clock) *Model {
	return &Model{
		source: source,
		store:  store,
		policy: policy,
		clock:  clock,
		styles: newStyles(),
		width:  80,
		height: 24,
	}
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.rows)-1 {
				m.selected++
			}
		}

		return m, nil

	case tickMsg:
		if m.quitting {
			return m, nil
		}

		m.refresh()

		return m, tickCmd()
	}

	return m, nil
}

func (m *Model) resolver() *offset.Resolver {
	return offset.New(m.store.Load(), offset.WithPolicy(m.policy))
}

// refresh rebuilds the rows from the source.
func (m *Model) refresh() {
	r := m.resolver()
	now := m.clock.Now()

	m.rows = m.rows[:0]

	m.source.ForEachTransmitter(func(id ptp.ClockIdentity, t *ptp.Transmitter) {
		ts := t.LastTimestamp

		rw := row{
			id:     id.String(),
			domain: t.Domain,
			ifi:    t.IfiName,
			tai:    "-",
			utc:    "-",
			gps:    "-",
			offset: "-",
		}

		switch {
		case ts.IsZero():
			rw.status = statusNoSync
			rw.lastSeen = "never"
		default:
			rw.tai = ts.AsTAI()
			rw.utc = ts.AsUTC(r)
			rw.gps = ts.AsGPS(r)
			rw.lastSeen = units.HumanDuration(now.Sub(ts.Time)) + " ago"
		}

		if t.Announced && !ts.IsZero() {
			want, ok := t.CheckUTCOffset(r)
			rw.offset = fmt.Sprintf("%s/%s", t.UTCOffset, want)

			switch {
			case !ok:
				rw.status = statusMismatch
			case t.Leap61 || t.Leap59:
				rw.status = statusLeapPending
			}
		}

		m.rows = append(m.rows, rw)
	})

	if m.selected >= len(m.rows) {
		m.selected = max(len(m.rows)-1, 0)
	}

	m.lastUpdate = now
}

func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	header := m.renderHeader()
	table := m.renderTable()
	footer := m.renderFooter()

	padding := ""
	if n := m.height - lipgloss.Height(header) - lipgloss.Height(table) - lipgloss.Height(footer) - 1; n > 0 {
		padding = strings.Repeat("\n", n)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		table,
		padding,
		footer,
	)
}

func (m *Model) renderHeader() string {
	title := m.styles.Title.Render(fmt.Sprintf("clockcast monitor %s", version.Get().Version))

	r := m.resolver()

	var clocks []string

	if tai, err := chrono.Now[chrono.TAI, chrono.Milliseconds](m.clock, r); err == nil {
		clocks = append(clocks, "TAI "+tai.Label().Format("15:04:05.000"))
	}

	if gps, err := chrono.Now[chrono.GPS, chrono.Milliseconds](m.clock, r); err == nil {
		clocks = append(clocks, "GPS "+gps.Label().Format("15:04:05.000"))
	}

	clocks = append(clocks, "UTC "+m.clock.Now().UTC().Format("15:04:05.000"))

	info := m.styles.Info.Render(strings.Join(clocks, " │ "))

	padding := max(m.width-lipgloss.Width(title)-lipgloss.Width(info), 0)

	return lipgloss.JoinHorizontal(lipgloss.Bottom,
		title,
		strings.Repeat(" ", padding),
		info,
	)
}

const rowFormat = "%-23s %3s %-8s %-30s %-30s %-30s %-9s %s"

func (m *Model) renderTable() string {
	lines := []string{
		m.styles.Header.Render(fmt.Sprintf(rowFormat,
			"Clock identity", "Dom", "Iface", "TAI", "UTC", "GPS", "Offset", "Last seen")),
	}

	if len(m.rows) == 0 {
		lines = append(lines, m.styles.Row.Render("No PTP transmitters seen yet"))
	}

	for i, rw := range m.rows {
		line := fmt.Sprintf(rowFormat,
			rw.id, fmt.Sprint(rw.domain), rw.ifi, rw.tai, rw.utc, rw.gps, rw.offset, rw.lastSeen)

		style := m.styles.Row
		switch {
		case i == m.selected:
			style = m.styles.RowSelected
		case rw.status == statusMismatch:
			style = m.styles.Error
		case rw.status == statusLeapPending:
			style = m.styles.Warn
		case rw.status == statusNoSync:
			style = m.styles.Info
		}

		lines = append(lines, style.Render(line))
	}

	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	tbl := m.store.Load()

	tableInfo := fmt.Sprintf("Leap seconds: %d", tbl.LeapSecondCount(m.clock.Now().UTC()))

	if exp := tbl.Expires(); !exp.IsZero() {
		left := exp.Sub(m.clock.Now())
		if left > 0 {
			tableInfo += fmt.Sprintf(" │ Table expires %s (in %s)", exp.Format(time.DateOnly), units.HumanDuration(left))
		} else {
			tableInfo += fmt.Sprintf(" │ Table expired %s (%s policy)", exp.Format(time.DateOnly), m.policy)
		}
	}

	if next := tbl.NextLeapSecond(m.clock.Now().UTC()); !next.IsZero() {
		tableInfo += fmt.Sprintf(" │ Next leap second %s", next.Format(time.DateOnly))
	}

	help := []string{
		"↑/↓: Navigate",
		"q: Quit",
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Footer.Render(tableInfo),
		m.styles.Help.Render(strings.Join(help, " │ ")),
	)
}
