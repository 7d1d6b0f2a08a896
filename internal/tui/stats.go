package tui

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shirou/gopsutil/v3/process"
)

// processStats is one sample of the running process.
type processStats struct {
	MemoryMB   float64
	CPUPercent float64
	Goroutines int
	Uptime     time.Duration
}

// statsWidget renders a small footer line with live process stats.
// Hidden by default, toggled with "s".
type statsWidget struct {
	proc      *process.Process
	startTime time.Time
	stats     processStats
	visible   bool
}

func newStatsWidget() *statsWidget {
	w := &statsWidget{startTime: time.Now()}
	// Failure leaves proc nil; sample then reports zeros for CPU/RSS.
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		w.proc = p
	}
	w.sample()
	return w
}

// sample refreshes the stats from the OS.
func (w *statsWidget) sample() {
	w.stats.Goroutines = runtime.NumGoroutine()
	w.stats.Uptime = time.Since(w.startTime)

	if w.proc == nil {
		return
	}
	if mem, err := w.proc.MemoryInfo(); err == nil && mem != nil {
		w.stats.MemoryMB = float64(mem.RSS) / 1024 / 1024
	}
	if cpu, err := w.proc.CPUPercent(); err == nil {
		w.stats.CPUPercent = cpu
	}
}

func (w *statsWidget) toggle() {
	w.visible = !w.visible
}

func (w *statsWidget) view() string {
	if !w.visible {
		return ""
	}

	labelStyle := lipgloss.NewStyle().Foreground(mutedColor)
	valueStyle := lipgloss.NewStyle().Foreground(textColor)

	parts := []string{
		labelStyle.Render("RAM ") + valueStyle.Render(fmt.Sprintf("%.1fMB", w.stats.MemoryMB)),
		labelStyle.Render("CPU ") + valueStyle.Render(fmt.Sprintf("%.1f%%", w.stats.CPUPercent)),
		labelStyle.Render("∴ ") + valueStyle.Render(fmt.Sprintf("%d goroutines", w.stats.Goroutines)),
		labelStyle.Render("↑ ") + valueStyle.Render(formatUptime(w.stats.Uptime)),
	}

	return labelStyle.Render(strings.Join(parts, lipgloss.NewStyle().Foreground(borderColor).Render(" │ ")))
}

func formatUptime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh%02dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm%02ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
