// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"sync"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/dvcli/internal/progress"
)

// ItemStatus represents the current state of an item in the TUI.
type ItemStatus int

const (
	StatusPending ItemStatus = iota
	StatusRunning
	StatusSuccess
	StatusFailed
)

// String returns a string representation of the item status.
func (s ItemStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ItemRow is one processed item.
type ItemRow struct {
	Index     int        // 1-based position in the batch
	Label     string     // Label of the item
	Status    ItemStatus // Current processing status
	StartTime *time.Time // When processing started
	EndTime   *time.Time // When processing completed
	ErrorMsg  string     // Error message if failed
}

// UpdateStatus sets the status and records the start and end times.
func (r *ItemRow) UpdateStatus(status ItemStatus, at time.Time) {
	r.Status = status

	switch status {
	case StatusRunning:
		if r.StartTime == nil {
			r.StartTime = &at
		}
	case StatusSuccess, StatusFailed:
		if r.EndTime == nil {
			r.EndTime = &at
		}
	}
}

// Model represents the TUI application state.
type Model struct {
	title string

	rows    []*ItemRow
	byIndex map[int]*ItemRow
	total   int // negative while unknown

	succeeded int
	failed    int
	pausing   bool
	finished  bool
	abortMsg  string
	runErr    error

	width    int
	height   int
	quitting bool
	mutex    sync.RWMutex

	bar      progressbar.Model
	spinner  spinner.Model
	viewport viewport.Model

	styles *Styles
}

// Styles contains all the styling for the TUI.
type Styles struct {
	Title   lipgloss.Style
	Pending lipgloss.Style
	Running lipgloss.Style
	Success lipgloss.Style
	Failed  lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Border  lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Running: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")),
	}
}

const (
	defaultWidth    = 80
	defaultHeight   = 24
	reservedLines   = 9 // title, bar, border, summary and help
	minViewportRows = 3
)

// NewModel creates a new TUI model.
func NewModel(title string) *Model {
	m := &Model{
		title:   title,
		byIndex: make(map[int]*ItemRow),
		total:   -1,
		bar:     progressbar.New(progressbar.WithDefaultGradient()),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:  NewStyles(),
	}

	m.spinner.Style = m.styles.Running
	m.viewport = viewport.New(defaultWidth, defaultHeight-reservedLines)
	m.resize(defaultWidth, defaultHeight)

	return m
}

// resize fits the bar and the viewport to the terminal.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	m.bar.Width = max(width-20, 10) //nolint:mnd // room for the counter
	m.viewport.Width = max(width-2, 1)
	m.viewport.Height = max(height-reservedLines, minViewportRows)
}

// row returns the row for the event, creating it when needed.
func (m *Model) row(event progress.Event) *ItemRow {
	if r, ok := m.byIndex[event.Index]; ok {
		return r
	}

	r := &ItemRow{Index: event.Index, Label: event.Label}
	m.byIndex[event.Index] = r
	m.rows = append(m.rows, r)

	return r
}

// processProgressEvent updates the state from an incoming progress event.
func (m *Model) processProgressEvent(event progress.Event) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if event.Total >= 0 {
		m.total = event.Total
	}

	switch event.Type {
	case progress.EventBatchStarted:
		m.finished = false

	case progress.EventItemStarted:
		m.pausing = false
		m.row(event).UpdateStatus(StatusRunning, event.Timestamp)

	case progress.EventItemSucceeded:
		m.row(event).UpdateStatus(StatusSuccess, event.Timestamp)
		m.succeeded++

	case progress.EventItemFailed:
		r := m.row(event)
		r.UpdateStatus(StatusFailed, event.Timestamp)

		if event.Err != nil {
			r.ErrorMsg = event.Err.Error()
		}

		m.failed++

	case progress.EventDelay:
		m.pausing = true

	case progress.EventBatchFinished:
		m.pausing = false
		m.finished = true

	case progress.EventBatchAborted:
		m.pausing = false
		m.finished = true

		if event.Err != nil {
			m.abortMsg = event.Err.Error()
		}
	}
}

// processed returns the number of items that completed, successfully or not.
func (m *Model) processed() int {
	return m.succeeded + m.failed
}

// percent returns the completed fraction, or zero when the total is unknown.
func (m *Model) percent() float64 {
	if m.total <= 0 {
		return 0
	}

	return float64(m.processed()) / float64(m.total)
}
