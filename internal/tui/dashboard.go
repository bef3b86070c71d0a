package tui

import (
	"context"
	"fmt"
	"time"

	"nathanbeddoewebdev/skyglass/internal/alerts"
	"nathanbeddoewebdev/skyglass/internal/dashboard"
	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/tui/components"
	"nathanbeddoewebdev/skyglass/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// historyLen caps how many refreshes feed each metric-card sparkline.
const historyLen = 30

// Backend is what the dashboard needs from the data layer.
type Backend interface {
	BuildViewModel(ctx context.Context, subscriptionID string) dashboard.ViewModel
	Resolve(subscriptionID, alertID string) error
}

// --- Messages ---

type alertResolvedMsg struct {
	subscription string
	alertID      string
	err          error
}

// --- Focus ---

type panel int

const (
	panelAlerts panel = iota
	panelResources
)

// --- Metric history ---

// metricHistory keeps the recent headline values for the sparklines.
type metricHistory struct {
	traffic, connections, errorRate, latency []float64
}

func (h metricHistory) push(snap *domain.Snapshot) metricHistory {
	if snap == nil || snap.NoData {
		return h
	}
	h.traffic = appendCapped(h.traffic, snap.TotalTraffic)
	h.connections = appendCapped(h.connections, float64(snap.ActiveConnections))
	h.errorRate = appendCapped(h.errorRate, snap.ErrorRate)
	h.latency = appendCapped(h.latency, snap.Latency)
	return h
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyLen {
		s = s[len(s)-historyLen:]
	}
	return s
}

// --- Dashboard model ---

type dashboardModel struct {
	ctx     context.Context
	backend Backend
	session *dashboard.Session

	subscriptions []domain.Subscription

	vm      dashboard.ViewModel
	history metricHistory
	filter  alerts.Filter
	focus   panel
	cursors [2]int

	poller  refreshPoller
	loading bool
	spinner spinner.Model

	status  string
	isError bool

	width  int
	height int
}

// DashboardOptions configures RunDashboard.
type DashboardOptions struct {
	Backend       Backend
	Session       *dashboard.Session
	Subscriptions []domain.Subscription
	Interval      time.Duration
}

func newDashboardModel(ctx context.Context, opts DashboardOptions) dashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	session := opts.Session
	if session == nil {
		session = dashboard.NewSession()
	}

	return dashboardModel{
		ctx:           ctx,
		backend:       opts.Backend,
		session:       session,
		subscriptions: opts.Subscriptions,
		filter:        alerts.FilterUnresolved,
		poller:        newRefreshPoller(opts.Interval),
		spinner:       sp,
	}
}

// RunDashboard starts the interactive dashboard and blocks until the user
// quits.
func RunDashboard(opts DashboardOptions) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(newDashboardModel(ctx, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func (m dashboardModel) Init() tea.Cmd {
	_, cmd := m.refresh()
	return tea.Batch(m.spinner.Tick, cmd)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case refreshTickMsg:
		if !m.poller.Due(msg) {
			return m, nil
		}
		return m.refresh()

	case viewModelMsg:
		return m.handleViewModel(msg)

	case alertResolvedMsg:
		return m.handleResolved(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// refresh begins a new request for the current selection. The session
// cancels whatever request was in flight.
func (m dashboardModel) refresh() (dashboardModel, tea.Cmd) {
	if m.session.Selection() == "" {
		return m, nil
	}
	m.poller = m.poller.Cancel()
	m.loading = true

	t := m.session.Begin(m.ctx)
	backend := m.backend
	return m, func() tea.Msg {
		return viewModelMsg{ticket: t, vm: backend.BuildViewModel(t.Ctx, t.Subscription)}
	}
}

func (m dashboardModel) handleViewModel(msg viewModelMsg) (tea.Model, tea.Cmd) {
	if !m.session.Commit(msg.ticket, msg.vm) {
		return m, nil // superseded
	}

	m.vm = msg.vm
	m.loading = false
	m.history = m.history.push(msg.vm.Metrics)
	m.poller = m.poller.Observe(msg.vm)
	m.clampCursors()

	if m.poller.degradedRuns > 1 {
		m.status = fmt.Sprintf("Degraded for %d refreshes", m.poller.degradedRuns)
		m.isError = false
	} else if !m.isError {
		m.status = ""
	}

	var cmd tea.Cmd
	m.poller, cmd = m.poller.Schedule()
	return m, cmd
}

func (m dashboardModel) handleResolved(msg alertResolvedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "Error: " + msg.err.Error()
		m.isError = true
		return m, nil
	}
	if msg.subscription != m.vm.Subscription {
		return m, nil
	}

	updated := make([]domain.Alert, len(m.vm.Alerts))
	copy(updated, m.vm.Alerts)
	for i := range updated {
		if updated[i].ID == msg.alertID {
			updated[i].Resolved = true
		}
	}
	m.vm.Alerts = updated
	m.vm.AlertCounts = alerts.Count(updated)
	m.clampCursors()

	m.status = fmt.Sprintf("Resolved alert %s", msg.alertID)
	m.isError = false
	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "r":
		m.status, m.isError = "", false
		return m.refresh()

	case "f":
		if m.filter == alerts.FilterAll {
			m.filter = alerts.FilterUnresolved
		} else {
			m.filter = alerts.FilterAll
		}
		m.cursors[panelAlerts] = 0
		return m, nil

	case "tab":
		m.focus = 1 - m.focus
		return m, nil

	case "up", "k":
		if m.cursors[m.focus] > 0 {
			m.cursors[m.focus]--
		}
		return m, nil

	case "down", "j":
		if m.cursors[m.focus] < m.rowCount(m.focus)-1 {
			m.cursors[m.focus]++
		}
		return m, nil

	case "enter", "x":
		return m.resolveSelected()

	case "s", "]":
		return m.cycleSubscription(1)

	case "[":
		return m.cycleSubscription(-1)
	}

	return m, nil
}

func (m dashboardModel) resolveSelected() (tea.Model, tea.Cmd) {
	if m.focus != panelAlerts {
		return m, nil
	}
	visible := m.vm.VisibleAlerts(m.filter)
	if len(visible) == 0 {
		return m, nil
	}
	alert := visible[m.cursors[panelAlerts]]
	if alert.Resolved {
		return m, nil
	}

	sub := m.vm.Subscription
	backend := m.backend
	return m, func() tea.Msg {
		return alertResolvedMsg{subscription: sub, alertID: alert.ID, err: backend.Resolve(sub, alert.ID)}
	}
}

// cycleSubscription moves the selection by delta through the known
// subscriptions, wrapping at either end.
func (m dashboardModel) cycleSubscription(delta int) (tea.Model, tea.Cmd) {
	n := len(m.subscriptions)
	if n == 0 {
		return m, nil
	}

	idx := -1
	current := m.session.Selection()
	for i, s := range m.subscriptions {
		if s.ID == current {
			idx = i
			break
		}
	}
	var next domain.Subscription
	switch {
	case idx >= 0:
		next = m.subscriptions[((idx+delta)%n+n)%n]
	case delta > 0:
		next = m.subscriptions[0]
	default:
		next = m.subscriptions[n-1]
	}
	if next.ID == current {
		return m, nil
	}

	if err := m.session.Select(next.ID); err != nil {
		m.status, m.isError = "Error: "+err.Error(), true
		return m, nil
	}
	m.vm = dashboard.ViewModel{}
	m.history = metricHistory{}
	m.cursors = [2]int{}
	m.status, m.isError = "", false
	return m.refresh()
}

func (m dashboardModel) rowCount(p panel) int {
	if p == panelAlerts {
		return len(m.vm.VisibleAlerts(m.filter))
	}
	return len(m.vm.Resources.Resources)
}

func (m *dashboardModel) clampCursors() {
	for _, p := range []panel{panelAlerts, panelResources} {
		m.cursors[p] = max(min(m.cursors[p], m.rowCount(p)-1), 0)
	}
}

// --- View ---

// updatedNote reports when the visible view-model was built.
func (m dashboardModel) updatedNote() string {
	if m.vm.GeneratedAt.IsZero() {
		return ""
	}
	return "updated " + m.vm.GeneratedAt.Local().Format("15:04:05")
}

func (m dashboardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "dashboard", m.headerContext())
	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "s/[ ]", Desc: "subscription"},
		{Key: "r", Desc: "refresh"},
		{Key: "f", Desc: "filter: " + m.filter.String()},
		{Key: "tab", Desc: "focus"},
		{Key: "x", Desc: "resolve"},
		{Key: "q", Desc: "quit"},
	}, m.updatedNote())

	var content string
	switch {
	case m.session.Selection() == "":
		content = m.renderPlaceholder("No subscription selected. Press s to pick one.")
	case m.vm.Empty():
		content = m.renderPlaceholder(m.spinner.View() + " Loading " + m.session.Selection() + "…")
	default:
		content = m.renderContent()
	}

	sections := []string{header, content}
	if notices := components.Notices(m.width, m.vm.Notices); notices != "" {
		sections = append(sections, notices)
	}
	if bar := components.StatusBar(m.width, m.status, m.isError); bar != "" {
		sections = append(sections, bar)
	}
	sections = append(sections, footer)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m dashboardModel) headerContext() string {
	sel := m.session.Selection()
	if sel == "" {
		return ""
	}
	label := sel
	for _, s := range m.subscriptions {
		if s.ID == sel {
			label = s.Label()
		}
	}
	if m.loading {
		label = m.spinner.View() + " " + label
	}
	if !m.vm.Empty() {
		label += " · " + string(m.vm.Resources.Source)
	}
	return label
}

func (m dashboardModel) renderPlaceholder(text string) string {
	height := max(m.height-4, 1)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(text))
}

func (m dashboardModel) renderContent() string {
	cards := m.renderCards()

	chartWidth := m.width * 3 / 5
	chart := lipgloss.NewStyle().Width(chartWidth).Render(m.renderTraffic(chartWidth))
	conns := m.renderConnections(m.width - chartWidth)
	middle := lipgloss.JoinHorizontal(lipgloss.Top, chart, conns)

	half := m.width / 2
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(half).Render(m.renderAlerts(half)),
		m.renderResources(m.width-half),
	)

	return lipgloss.JoinVertical(lipgloss.Left, cards, "", middle, "", bottom)
}

func (m dashboardModel) renderCards() string {
	snap := m.vm.Metrics
	if snap == nil {
		return styles.MutedText.Render("  Metrics unavailable")
	}
	if snap.NoData {
		return styles.MutedText.Render("  No metrics reported for this subscription")
	}

	cardWidth := max(m.width/4, 16)
	cards := []components.MetricCard{
		{Title: "Total Traffic", Value: fmt.Sprintf("%.2f GB/h", snap.TotalTraffic), Trend: snap.TrafficTrend, History: m.history.traffic},
		{Title: "Active Connections", Value: fmt.Sprintf("%d", snap.ActiveConnections), Trend: snap.ConnectionsTrend, History: m.history.connections},
		{Title: "Error Rate", Value: fmt.Sprintf("%.2f%%", snap.ErrorRate), Trend: snap.ErrorRateTrend, LowerIsBetter: true, History: m.history.errorRate},
		{Title: "Latency", Value: fmt.Sprintf("%.0f ms", snap.Latency), Trend: snap.LatencyTrend, LowerIsBetter: true, History: m.history.latency},
	}
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = components.RenderMetricCard(c, cardWidth)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m dashboardModel) renderTraffic(width int) string {
	if m.vm.Metrics == nil {
		return styles.MutedText.Render("Traffic unavailable")
	}
	return components.TrafficChart(m.vm.Metrics.Traffic, width-2)
}

func (m dashboardModel) renderConnections(width int) string {
	healthy, total := m.vm.HealthyConnections()
	title := styles.Label.Render(fmt.Sprintf("Connections %d/%d healthy", healthy, total))
	if total == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, styles.MutedText.Render("no endpoints to check"))
	}

	nameW := max(width-34, 8)
	cols := []components.Column{{Title: "Name", Width: nameW}, {Title: "Type", Width: 10}, {Title: "State", Width: 8}, {Title: "Latency", Width: 8}}
	rows := make([][]string, len(m.vm.Connections))
	for i, c := range m.vm.Connections {
		latency := "-"
		if c.Latency > 0 {
			latency = fmt.Sprintf("%dms", c.Latency.Milliseconds())
		}
		rows[i] = []string{c.Name, c.Type, string(c.State), latency}
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, components.Table(cols, rows, -1, stateColumn(2)))
}

func (m dashboardModel) renderAlerts(width int) string {
	counts := m.vm.AlertCounts
	title := fmt.Sprintf("Alerts %d total · %d unresolved · %d critical", counts.Total, counts.Unresolved, counts.CriticalUnresolved)
	titleStyle := styles.Label
	if m.focus == panelAlerts {
		titleStyle = styles.AccentText.Bold(true)
	}

	visible := m.vm.VisibleAlerts(m.filter)
	if len(visible) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), styles.MutedText.Render("no alerts"))
	}

	titleW := max(width-36, 10)
	cols := []components.Column{{Title: "Severity", Width: 8}, {Title: "Title", Width: titleW}, {Title: "When", Width: 8}, {Title: "State", Width: 8}}
	rows := make([][]string, len(visible))
	for i, a := range visible {
		state := "open"
		if a.Resolved {
			state = "resolved"
		}
		rows[i] = []string{string(a.Severity), a.Title, relativeTime(m.vm.GeneratedAt, a.Timestamp), state}
	}

	cursor := -1
	if m.focus == panelAlerts {
		cursor = m.cursors[panelAlerts]
	}
	table := components.Table(cols, rows, cursor, stateColumn(0))

	var detail string
	if cursor >= 0 && cursor < len(visible) {
		detail = styles.MutedText.Italic(true).Render(components.Fit(visible[cursor].Description, width-2))
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), table, detail)
}

func (m dashboardModel) renderResources(width int) string {
	healthy, total := m.vm.HealthyResources()
	title := fmt.Sprintf("Resources %d/%d healthy", healthy, total)
	titleStyle := styles.Label
	if m.focus == panelResources {
		titleStyle = styles.AccentText.Bold(true)
	}
	if total == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), styles.MutedText.Render("no resources"))
	}

	nameW := max(width-50, 10)
	cols := []components.Column{{Title: "Name", Width: nameW}, {Title: "Type", Width: 16}, {Title: "Group", Width: 14}, {Title: "Status", Width: 8}}
	rows := make([][]string, total)
	for i, r := range m.vm.Resources.Resources {
		rows[i] = []string{categoryGlyph(r.Type) + " " + r.Name, domain.ShortType(r.Type), r.ResourceGroup, string(r.Status)}
	}

	cursor := -1
	if m.focus == panelResources {
		cursor = m.cursors[panelResources]
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), components.Table(cols, rows, cursor, stateColumn(3)))
}

// stateColumn colors column col by its status text.
func stateColumn(col int) components.CellStyle {
	return func(i int, value string) lipgloss.Style {
		if i == col {
			return styles.StatusStyle(value)
		}
		return styles.TableCell
	}
}

// categoryGlyph is a one-cell marker for a resource's icon category.
func categoryGlyph(resourceType string) string {
	cat := domain.CategoryOf(resourceType)
	glyph := map[domain.Category]string{
		domain.CategoryDatabase:  "◆",
		domain.CategoryNetwork:   "◇",
		domain.CategoryStorage:   "■",
		domain.CategoryMessaging: "✉",
		domain.CategorySecurity:  "⚑",
	}[cat]
	if glyph == "" {
		glyph = "●"
	}
	return lipgloss.NewStyle().Foreground(styles.CategoryColor(string(cat))).Render(glyph)
}

// relativeTime renders how long before now t was, in the largest whole
// unit.
func relativeTime(now, t time.Time) string {
	if t.IsZero() || now.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
