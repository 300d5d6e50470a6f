// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/dvcli/internal/progress"
)

const (
	minStatusBarAvailableHeight = 10
	itemDurationRounding        = 10 * time.Millisecond
	ellipsis                    = "..."
	minLineWidth                = 20
)

// ProgressEventMsg wraps a progress event for the tea framework.
type ProgressEventMsg struct {
	Event progress.Event
}

// BatchDoneMsg indicates that the batch run has returned.
type BatchDoneMsg struct {
	Err error
}

// Init implements bubbletea.Model.Init.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements bubbletea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.mutex.Lock()
		m.resize(msg.Width, msg.Height)
		m.mutex.Unlock()

		return m, nil

	case ProgressEventMsg:
		m.processProgressEvent(msg.Event)
		m.viewport.SetContent(m.renderRows())
		m.viewport.GotoBottom()

		return m, nil

	case BatchDoneMsg:
		m.mutex.Lock()
		m.finished = true
		m.pausing = false
		m.runErr = msg.Err
		m.mutex.Unlock()

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

// handleKeyPress processes keyboard input. Keys other than quit scroll the item list.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.mutex.Lock()
		m.quitting = true
		m.mutex.Unlock()

		return m, tea.Quit
	}

	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

// View implements bubbletea.Model.View.
func (m *Model) View() string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.quitting {
		return "Shutting down...\n"
	}

	var view strings.Builder

	view.WriteString(m.styles.Title.Render(m.title))
	view.WriteString("\n")
	view.WriteString(m.renderProgress())
	view.WriteString("\n")
	view.WriteString(m.styles.Border.Render(m.viewport.View()))

	if m.height > minStatusBarAvailableHeight {
		view.WriteString("\n")
		view.WriteString(m.renderSummary())
		view.WriteString("\n")

		helpText := "↑/↓ or j/k to scroll, PgUp/PgDn for pages, 'q' to stop the batch and quit"
		if m.finished {
			helpText = "↑/↓ or j/k to scroll, 'q' to quit and return to terminal"
		}

		view.WriteString(m.styles.Help.Render(helpText))
	}

	return view.String()
}

// renderProgress renders the bar, or the spinner when the total is unknown.
func (m *Model) renderProgress() string {
	var b strings.Builder

	if m.total >= 0 {
		b.WriteString(m.bar.ViewAs(m.percent()))
		fmt.Fprintf(&b, " %d/%d", m.processed(), m.total)
	} else {
		if !m.finished {
			b.WriteString(m.spinner.View())
			b.WriteString(" ")
		}

		fmt.Fprintf(&b, "%d processed", m.processed())
	}

	if m.pausing {
		b.WriteString(m.styles.Muted.Render(" (pausing)"))
	}

	return b.String()
}

// renderSummary renders the outcome counters and, once finished, how the batch ended.
func (m *Model) renderSummary() string {
	counts := fmt.Sprintf("%s, %s",
		m.styles.Success.Render(fmt.Sprintf("%d succeeded", m.succeeded)),
		m.styles.Failed.Render(fmt.Sprintf("%d failed", m.failed)))

	switch {
	case !m.finished:
		return counts
	case m.abortMsg != "":
		return m.styles.Failed.Render("Batch aborted: "+m.abortMsg) + "\n" + counts
	case m.runErr != nil:
		return m.styles.Failed.Render("Batch ended with error: "+m.runErr.Error()) + "\n" + counts
	default:
		return m.styles.Success.Render("Batch finished") + "\n" + counts
	}
}

// renderRows renders one line per item.
func (m *Model) renderRows() string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var b strings.Builder

	for _, r := range m.rows {
		b.WriteString(m.renderRow(r))
		b.WriteString("\n")
	}

	return b.String()
}

// renderRow renders a single item with its status, duration and error.
func (m *Model) renderRow(r *ItemRow) string {
	var icon, name string

	switch r.Status {
	case StatusRunning:
		icon = "⚡"
		name = m.styles.Running.Render(r.Label)
	case StatusSuccess:
		icon = "✅"
		name = m.styles.Success.Render(r.Label)
	case StatusFailed:
		icon = "❌"
		name = m.styles.Failed.Render(r.Label)
	default:
		icon = "⏳"
		name = m.styles.Pending.Render(r.Label)
	}

	line := fmt.Sprintf("%s %4d %s", icon, r.Index, name)

	if r.StartTime != nil && r.EndTime != nil {
		line += m.styles.Muted.Render(fmt.Sprintf(" (%v)", r.EndTime.Sub(*r.StartTime).Round(itemDurationRounding)))
	}

	if r.Status == StatusFailed && r.ErrorMsg != "" {
		line += " " + m.styles.Error.Render(truncate(r.ErrorMsg, max(m.viewport.Width-len(r.Label)-16, minLineWidth))) //nolint:mnd
	}

	return line
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}

	if width <= len(ellipsis) {
		return string(runes[:width])
	}

	return string(runes[:width-len(ellipsis)]) + ellipsis
}
