package caravansite

import (
	"sync"
	"time"
)

// MenuState is the navigation mega-menu's explicit state. There is no
// ad-hoc timer juggling: the menu is closed, has a category panel open,
// or is previewing one model inside an open category.
type MenuState int

const (
	MenuClosed MenuState = iota
	MenuCategoryOpen
	MenuModelPreview
)

// MegaMenu owns the mega-menu hover state for one rendering session.
// Closing on pointer-out is deferred through a single pending-close
// handle; re-entering the menu cancels it, and scheduling again replaces
// the previous handle rather than racing it.
type MegaMenu struct {
	mu         sync.Mutex
	state      MenuState
	category   string
	model      string
	closeTimer *time.Timer
	closeDelay time.Duration
}

// NewMegaMenu creates a menu whose deferred close fires after closeDelay.
func NewMegaMenu(closeDelay time.Duration) *MegaMenu {
	return &MegaMenu{closeDelay: closeDelay}
}

// Open opens the panel for a category, cancelling any pending close.
// Opening a different category drops the previewed model.
func (m *MegaMenu) Open(category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelCloseLocked()
	if m.category != category {
		m.model = ""
	}
	m.category = category
	if m.model == "" {
		m.state = MenuCategoryOpen
	}
}

// Preview highlights a model inside the open category panel. Ignored when
// the menu is closed.
func (m *MegaMenu) Preview(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == MenuClosed {
		return
	}
	m.cancelCloseLocked()
	m.model = model
	m.state = MenuModelPreview
}

// ScheduleClose arms the deferred close. A second call before the delay
// elapses replaces the pending handle instead of stacking another timer.
func (m *MegaMenu) ScheduleClose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == MenuClosed {
		return
	}
	m.cancelCloseLocked()
	m.closeTimer = time.AfterFunc(m.closeDelay, m.Close)
}

// CancelClose disarms a pending deferred close, if any.
func (m *MegaMenu) CancelClose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelCloseLocked()
}

// Close closes the menu immediately and clears any pending close.
func (m *MegaMenu) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelCloseLocked()
	m.state = MenuClosed
	m.category = ""
	m.model = ""
}

// Snapshot returns the current state with the open category and previewed
// model, empty when not applicable.
func (m *MegaMenu) Snapshot() (MenuState, string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.category, m.model
}

func (m *MegaMenu) cancelCloseLocked() {
	if m.closeTimer != nil {
		m.closeTimer.Stop()
		m.closeTimer = nil
	}
}
