package tui

import (
	"time"

	"nathanbeddoewebdev/skyglass/internal/dashboard"

	tea "github.com/charmbracelet/bubbletea"
)

// minRefreshInterval keeps a misconfigured interval from hammering the
// cloud API.
const minRefreshInterval = time.Second

// --- Messages ---

// refreshTickMsg tells the Update loop it is time to refresh. gen ties the
// tick to the schedule that produced it; ticks from a replaced schedule
// are ignored.
type refreshTickMsg struct {
	gen int
}

// viewModelMsg carries a finished BuildViewModel call and the ticket it
// was started under.
type viewModelMsg struct {
	ticket dashboard.Ticket
	vm     dashboard.ViewModel
}

// --- Refresh poller ---

// refreshPoller schedules periodic refreshes. It is a value type: methods
// return an updated copy plus any tea.Cmd to run.
//
// Only one tick chain is live at a time. Every Schedule or Cancel bumps
// gen, which orphans any tick already in flight.
type refreshPoller struct {
	interval time.Duration
	gen      int

	// degradedRuns counts consecutive refreshes that produced notices.
	// It feeds the status bar, nothing more.
	degradedRuns int
}

func newRefreshPoller(interval time.Duration) refreshPoller {
	return refreshPoller{interval: max(interval, minRefreshInterval)}
}

// Schedule starts a new tick chain, orphaning the previous one.
func (rp refreshPoller) Schedule() (refreshPoller, tea.Cmd) {
	rp.gen++
	gen := rp.gen
	return rp, tea.Tick(rp.interval, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}

// Cancel orphans the pending tick without scheduling another.
func (rp refreshPoller) Cancel() refreshPoller {
	rp.gen++
	return rp
}

// Due reports whether msg belongs to the live tick chain.
func (rp refreshPoller) Due(msg refreshTickMsg) bool {
	return msg.gen == rp.gen
}

// Observe records the outcome of a committed refresh.
func (rp refreshPoller) Observe(vm dashboard.ViewModel) refreshPoller {
	if len(vm.Notices) > 0 {
		rp.degradedRuns++
	} else {
		rp.degradedRuns = 0
	}
	return rp
}
