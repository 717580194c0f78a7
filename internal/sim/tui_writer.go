package sim

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"auroguard/internal/config"
	"auroguard/internal/debris"
	"auroguard/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// Controller is the part of a Simulator the dashboard drives from key presses.
type Controller interface {
	State() State
	PressNavigation(telemetry.Direction) bool
	ReleaseNavigation(telemetry.Direction)
	SetSimSpeed(int) error
	ToggleRunning() bool
	SetAIMode(telemetry.AIMode) bool
	SetRadarRange(int) int
	DismissWarning()
	ResetAll()
}

// logMsg carries a telemetry log line for the viewport.
type logMsg struct{ line string }

// eventMsg carries a debris event log line.
type eventMsg struct {
	line string
	row  debris.EventRow
}

type noticeMsg struct{ telemetry.NotificationRow }
type expireNoticeMsg struct{ id string }
type telemetryMsg struct{ telemetry.TelemetryRow }
type stateMsg struct{ State }

// adminMsg reports admin server status.
type adminMsg struct{ active bool }

type setControllerMsg struct{ ctrl Controller }
type releaseMsg struct{ dir telemetry.Direction }
type refreshMsg struct{}

const (
	maxLogLines         = 1000
	maxSectionHeightPct = 0.2
	navHold             = 300 * time.Millisecond
	refreshInterval     = time.Second
	gaugeWidth          = 20
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// TUIWriter renders telemetry using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter. When the
// operator quits, the process receives an interrupt so the run shuts down.
func NewTUIWriter(cfg *config.SimulationConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements TelemetryWriter.
func (w *TUIWriter) Write(row telemetry.TelemetryRow) error {
	solarColor := colorGreen
	if row.SolarActivity == telemetry.SolarHigh {
		solarColor = colorRed
	}
	line := fmt.Sprintf("%s[%s]%s %svel=%.0f%s %sfuel=%.2f%s %sshields=%.0f%s %srisk=%s%s %ssolar=%s%s %sintegrity=%d%s %sdist=%.1f%s",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorCyan, row.Velocity, colorReset,
		levelColor(row.Fuel, 50, FuelCriticalBelow), row.Fuel, colorReset,
		levelColor(row.Shields, 60, ShieldsCriticalBelow), row.Shields, colorReset,
		riskColor(row.CollisionRisk), row.CollisionRisk, colorReset,
		solarColor, row.SolarActivity, colorReset,
		colorMagenta, row.SystemIntegrity, colorReset,
		colorBlue, row.DistanceTraveled, colorReset,
	)
	w.program.Send(logMsg{line: line})
	w.program.Send(telemetryMsg{row})
	return nil
}

// WriteBatch outputs multiple telemetry rows.
func (w *TUIWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteDebrisEvent implements DebrisEventWriter.
func (w *TUIWriter) WriteDebrisEvent(ev debris.EventRow) error {
	line := fmt.Sprintf("%s[%s]%s %s%s%s count=%d nearby=%d %srisk=%s%s avoided=%d",
		colorGray, ev.Timestamp.Format(time.RFC3339), colorReset,
		colorYellow, strings.ToUpper(ev.Kind), colorReset,
		ev.DebrisCount, ev.NearbyObjects,
		riskColor(ev.Risk), ev.Risk, colorReset, ev.DebrisAvoided)
	w.program.Send(eventMsg{line: line, row: ev})
	return nil
}

// WriteNotification implements NotificationWriter.
func (w *TUIWriter) WriteNotification(n telemetry.NotificationRow) error {
	w.program.Send(noticeMsg{n})
	return nil
}

// SetAdminStatus updates the admin server indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// LogWriter returns a writer that appends each written line to the log
// pane, for routing the process logger while the alt screen is active.
func (w *TUIWriter) LogWriter() io.Writer { return tuiLogWriter{w.program} }

type tuiLogWriter struct{ p teaProgram }

func (l tuiLogWriter) Write(b []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(b), "\n"), "\n") {
		l.p.Send(logMsg{line: colorGray + line + colorReset})
	}
	return len(b), nil
}

// SetController registers the simulator the key bindings act on.
func (w *TUIWriter) SetController(c Controller) {
	w.program.Send(setControllerMsg{ctrl: c})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	cfg          *config.SimulationConfig
	ctrl         Controller
	table        table.Model
	vp           viewport.Model
	eventVP      viewport.Model
	logs         []string
	eventLogs    []string
	notices      []telemetry.NotificationRow
	state        State
	haveState    bool
	admin        bool
	wrap         bool
	autoscroll   bool
	help         bool
	header       string
	headerHeight int
	height       int
}

func newTUIModel(cfg *config.SimulationConfig) tuiModel {
	if cfg == nil {
		cfg = config.Default()
	}
	cols := []table.Column{
		{Title: "Telemetry", Width: 16},
		{Title: "Value", Width: 18},
		{Title: "Telemetry", Width: 16},
		{Title: "Value", Width: 18},
	}
	initial := State{
		CraftID:    cfg.CraftID,
		Telemetry:  cfg.InitialSnapshot(),
		Debris:     cfg.InitialDashboard(),
		Statistics: telemetry.InitialStatistics(),
		Controls:   Controls{SimSpeed: cfg.SimSpeed, Running: true, AIMode: telemetry.AIModeOff, RadarRangeKM: clampRadar(cfg.RadarRangeKM)},
	}
	rows := telemetryRows(initial)
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	return tuiModel{
		cfg:        cfg,
		table:      t,
		vp:         viewport.New(0, 0),
		eventVP:    viewport.New(0, 0),
		state:      initial,
		autoscroll: true,
	}
}

func telemetryRows(s State) []table.Row {
	t := s.Telemetry
	return []table.Row{
		{"Velocity", fmt.Sprintf("%.0f km/s", t.Spacecraft.Velocity), "Debris", fmt.Sprintf("%d", t.Environment.DebrisCount)},
		{"Altitude", fmt.Sprintf("%.0f km", t.Spacecraft.Altitude), "Nearby", fmt.Sprintf("%d", t.Environment.NearbyObjects)},
		{"Fuel", fmt.Sprintf("%.2f%%", t.Spacecraft.Fuel), "Collision Risk", string(t.Safety.CollisionRisk)},
		{"Shields", fmt.Sprintf("%.0f%%", t.Spacecraft.Shields), "Solar", string(t.Environment.SolarActivity)},
		{"Integrity", fmt.Sprintf("%d%%", t.System.SystemIntegrity), "Radiation", string(t.Safety.RadiationLevel)},
		{"AI", string(t.System.AIStatus), "Avoided", fmt.Sprintf("%d", s.Statistics.DebrisAvoided)},
		{"Distance", fmt.Sprintf("%.1f km", s.Statistics.DistanceTraveled), "Efficiency", fmt.Sprintf("%.0f%%", s.Statistics.FuelEfficiency)},
	}
}

func (m tuiModel) Init() tea.Cmd { return refreshTick() }

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshMsg{} })
}

// control runs fn off the update loop and reports the resulting state.
func (m tuiModel) control(fn func(Controller)) tea.Cmd {
	ctrl := m.ctrl
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		fn(ctrl)
		return stateMsg{ctrl.State()}
	}
}

func (m tuiModel) press(dir telemetry.Direction) tea.Cmd {
	ctrl := m.ctrl
	if ctrl == nil {
		return nil
	}
	return tea.Sequence(
		func() tea.Msg {
			ctrl.PressNavigation(dir)
			return stateMsg{ctrl.State()}
		},
		tea.Tick(navHold, func(time.Time) tea.Msg { return releaseMsg{dir: dir} }),
	)
}

func nextAIMode(mode telemetry.AIMode) telemetry.AIMode {
	switch mode {
	case telemetry.AIModeOff:
		return telemetry.AIModeAvoid
	case telemetry.AIModeAvoid:
		return telemetry.AIModeTrack
	default:
		return telemetry.AIModeOff
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width / 2)
		m.vp.Width = msg.Width
		m.eventVP.Width = msg.Width
		m.height = msg.Height
		m.refreshHeader()
		m.updateViewportHeight()
		m.refreshViewport()
		m.refreshEvents()
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up":
			return m, m.press(telemetry.DirUp)
		case "down":
			return m, m.press(telemetry.DirDown)
		case "left":
			return m, m.press(telemetry.DirLeft)
		case "right":
			return m, m.press(telemetry.DirRight)
		case " ", "space":
			return m, m.control(func(c Controller) { c.ToggleRunning() })
		case "1", "2", "4":
			speed := int(msg.String()[0] - '0')
			return m, m.control(func(c Controller) { _ = c.SetSimSpeed(speed) })
		case "a":
			mode := nextAIMode(m.state.Controls.AIMode)
			return m, m.control(func(c Controller) { c.SetAIMode(mode) })
		case "+", "=":
			km := m.state.Controls.RadarRangeKM + 1
			return m, m.control(func(c Controller) { c.SetRadarRange(km) })
		case "-":
			km := m.state.Controls.RadarRangeKM - 1
			return m, m.control(func(c Controller) { c.SetRadarRange(km) })
		case "r":
			return m, m.control(func(c Controller) { c.ResetAll() })
		case "d":
			return m, m.control(func(c Controller) { c.DismissWarning() })
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
				m.eventVP.GotoBottom()
			}
			return m, nil
		case "h", "?":
			m.help = true
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j":
				m.vp.LineDown(1)
			case "k":
				m.vp.LineUp(1)
			case "pgdown":
				m.vp.LineDown(10)
			case "pgup":
				m.vp.LineUp(10)
			}
		}
		return m, nil
	case logMsg:
		m.logs = appendCapped(m.logs, msg.line, maxLogLines)
		m.refreshViewport()
	case eventMsg:
		m.eventLogs = appendCapped(m.eventLogs, msg.line, maxLogLines)
		m.refreshEvents()
		m.updateViewportHeight()
	case noticeMsg:
		m.notices = append(m.notices, msg.NotificationRow)
		m.updateViewportHeight()
		id := msg.ID
		return m, tea.Tick(msg.Duration, func(time.Time) tea.Msg { return expireNoticeMsg{id: id} })
	case expireNoticeMsg:
		for i, n := range m.notices {
			if n.ID == msg.id {
				m.notices = append(m.notices[:i:i], m.notices[i+1:]...)
				break
			}
		}
		m.updateViewportHeight()
	case telemetryMsg:
		m.state.Telemetry.Spacecraft.Velocity = msg.Velocity
		m.state.Telemetry.Spacecraft.Fuel = msg.Fuel
		m.state.Telemetry.Spacecraft.Shields = msg.Shields
		m.state.Telemetry.Environment.SolarActivity = msg.SolarActivity
		m.state.Telemetry.Safety.RadiationLevel = msg.RadiationLevel
		m.state.Telemetry.System.SystemIntegrity = msg.SystemIntegrity
		m.state.Telemetry.System.AIStatus = msg.AIStatus
		m.state.Statistics.DistanceTraveled = msg.DistanceTraveled
		m.state.Statistics.FuelEfficiency = msg.FuelEfficiency
		m.table.SetRows(telemetryRows(m.state))
		m.refreshHeader()
	case stateMsg:
		m.state = msg.State
		m.haveState = true
		m.table.SetRows(telemetryRows(m.state))
		m.refreshHeader()
		m.updateViewportHeight()
	case refreshMsg:
		if m.ctrl == nil {
			return m, refreshTick()
		}
		return m, tea.Batch(m.control(func(Controller) {}), refreshTick())
	case releaseMsg:
		dir := msg.dir
		return m, m.control(func(c Controller) { c.ReleaseNavigation(dir) })
	case adminMsg:
		m.admin = msg.active
	case setControllerMsg:
		m.ctrl = msg.ctrl
		return m, m.control(func(Controller) {})
	}
	return m, nil
}

func appendCapped(lines []string, line string, limit int) []string {
	lines = append(lines, line)
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines
}

func (m *tuiModel) refreshHeader() {
	m.header = m.renderHeader()
	m.headerHeight = lipgloss.Height(m.header)
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())
	lines := min(max(len(m.eventLogs), 1), m.maxSectionLines())
	m.eventVP.Height = lines
	noticeHeight := 0
	if len(m.notices) > 0 {
		noticeHeight = lipgloss.Height(m.renderNotices()) + 1
	}
	m.vp.Height = max(0, m.height-m.headerHeight-bottomHeight-(1+m.eventVP.Height)-noticeHeight-4)
	if m.autoscroll {
		m.eventVP.GotoBottom()
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshEvents() {
	content := "none"
	if len(m.eventLogs) > 0 {
		content = strings.Join(m.eventLogs, "\n")
	}
	m.eventVP.SetContent(content)
	if m.autoscroll {
		m.eventVP.GotoBottom()
	}
}

func (m tuiModel) maxSectionLines() int {
	return max(1, int(float64(m.height)*maxSectionHeightPct))
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	sections := []string{
		m.header,
		divider,
		m.vp.View(),
		divider,
		"Debris Events:",
		m.eventVP.View(),
	}
	if len(m.notices) > 0 {
		sections = append(sections, divider, m.renderNotices())
	}
	sections = append(sections, divider, m.renderBottom())
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("│")
	return lipgloss.JoinHorizontal(lipgloss.Top, m.table.View(), sep, m.renderDebrisPanel())
}

// renderDebrisPanel shows the gauges, alerts and the debris dashboard.
func (m tuiModel) renderDebrisPanel() string {
	s := m.state
	d := s.Debris
	alerts := s.Alerts
	if !m.haveState {
		alerts = Alerts{
			FuelCritical:     s.Telemetry.Spacecraft.Fuel < FuelCriticalBelow,
			ShieldsCritical:  s.Telemetry.Spacecraft.Shields < ShieldsCriticalBelow,
			ProximityRangeKM: int(float64(s.Controls.RadarRangeKM)*proximityFactor + 0.5),
		}
	}
	lines := []string{
		fmt.Sprintf("Fuel    %s", gauge(s.Telemetry.Spacecraft.Fuel, FuelCriticalBelow)),
		fmt.Sprintf("Shields %s", gauge(s.Telemetry.Spacecraft.Shields, ShieldsCriticalBelow)),
		fmt.Sprintf("Debris  %d tracked, %d nearby, risk %s", d.Count, d.Nearby, d.Risk),
		fmt.Sprintf("Closest %.1f km/s %.0f kg %.1f m %s", d.Velocity, d.Weight, d.Size, d.Composition),
		fmt.Sprintf("History %s", sparkline(d.DetectionHistory)),
		fmt.Sprintf("Radar   %d km (proximity %d km)", s.Controls.RadarRangeKM, alerts.ProximityRangeKM),
	}
	warn := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	if s.Controls.Warning {
		lines = append(lines, warn.Render("COLLISION WARNING (d to dismiss)"))
	}
	if alerts.FuelCritical {
		lines = append(lines, warn.Render("FUEL CRITICAL"))
	}
	if alerts.ShieldsCritical {
		lines = append(lines, warn.Render("SHIELDS CRITICAL"))
	}
	return lipgloss.NewStyle().PaddingLeft(1).Render(strings.Join(lines, "\n"))
}

func gauge(pct, crit float64) string {
	filled := int(pct / 100 * gaugeWidth)
	filled = min(gaugeWidth, max(0, filled))
	color := lipgloss.Color("10")
	if pct < crit {
		color = lipgloss.Color("9")
	} else if pct < 50 {
		color = lipgloss.Color("11")
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	return fmt.Sprintf("%s%s %5.1f%%", bar, strings.Repeat("░", gaugeWidth-filled), pct)
}

func sparkline(values []int) string {
	if len(values) == 0 {
		return ""
	}
	peak := 0
	for _, v := range values {
		peak = max(peak, v)
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if peak > 0 {
			idx = v * (len(sparkBlocks) - 1) / peak
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

func (m tuiModel) renderNotices() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	lines := make([]string, 0, len(m.notices))
	for _, n := range m.notices {
		line := n.Title
		if n.Description != "" {
			line += ": " + n.Description
		}
		lines = append(lines, style.Render("» "+line))
	}
	return strings.Join(lines, "\n")
}

func indicator(on bool) string {
	c := lipgloss.Color("9")
	if on {
		c = lipgloss.Color("10")
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func (m tuiModel) renderBottom() string {
	c := m.state.Controls
	nav := m.state.Navigation
	var active []string
	for _, d := range telemetry.Directions {
		if nav.IsActive(d) {
			active = append(active, string(d))
		}
	}
	thrust := "idle"
	if len(active) > 0 {
		thrust = strings.Join(active, "+")
	}
	status := fmt.Sprintf("%sSIM%s x%d %sAI=%s%s %sthrust=%s%s",
		colorBlue, colorReset, c.SimSpeed,
		colorCyan, c.AIMode.Label(), colorReset,
		colorYellow, thrust, colorReset)
	return fmt.Sprintf("%s | Running %s | Admin %s | Wrap %s | Scroll %s | h help",
		status, indicator(c.Running), indicator(m.admin), indicator(m.wrap), indicator(m.autoscroll))
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" ←→↑↓  fire thrusters",
		" space pause/resume",
		" 1 2 4 simulation speed",
		" a     cycle AI mode",
		" + -   radar range",
		" d     dismiss collision warning",
		" r     reset all systems",
		" w     toggle wrap",
		" s     toggle auto-scroll",
		" q     quit",
		" h/?   toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k       scroll telemetry",
		" pgup/pgdn page telemetry",
	}
	return strings.Join(lines, "\n")
}
