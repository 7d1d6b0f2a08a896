package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bookscout/internal/notify"
)

// stateChangedMsg signals that the controller's state snapshot moved.
type stateChangedMsg struct{}

// toastMsg carries a new notification to display.
type toastMsg struct {
	n notify.Notification
}

// toastTickMsg prunes expired toasts.
type toastTickMsg time.Time

// catalogChangedMsg signals that a watched catalog source re-fired.
type catalogChangedMsg struct{}

// statsTickMsg refreshes the process stats footer.
type statsTickMsg time.Time

// copiedMsg reports where a copied recommendation ended up.
type copiedMsg struct {
	where string
	err   error
}

// listenForChange blocks on the change channel until the controller
// publishes a new state.
func listenForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

// listenForToast blocks on the notification subscription.
func listenForToast(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return toastMsg{n: n}
	}
}

// listenForCatalogChange blocks on a watchable source's change channel.
func listenForCatalogChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return catalogChangedMsg{}
	}
}

func toastTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

func statsTick() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return statsTickMsg(t)
	})
}
