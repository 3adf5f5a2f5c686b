package main

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

const displayTitle = "wordevent: type words, Esc or Ctrl+C quits"

// display draws action output and a status line on a tcell screen.
// It is an io.Writer so actions can print to it directly.
type display struct {
	mu      sync.Mutex
	screen  tcell.Screen
	lines   []string
	partial strings.Builder
	status  string
	limit   int
}

func newDisplay(screen tcell.Screen) *display {
	return &display{screen: screen, limit: 1000}
}

// Write appends output. Complete lines are shown immediately.
func (d *display) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, b := range string(p) {
		if b == '\n' {
			d.lines = append(d.lines, d.partial.String())
			d.partial.Reset()
			continue
		}
		d.partial.WriteRune(b)
	}
	if over := len(d.lines) - d.limit; over > 0 {
		d.lines = append(d.lines[:0], d.lines[over:]...)
	}
	d.drawLocked()
	return len(p), nil
}

// SetStatus replaces the status line.
func (d *display) SetStatus(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.status = s
	d.drawLocked()
}

// Redraw repaints everything, for example after a resize.
func (d *display) Redraw() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.drawLocked()
}

// Lines returns the completed output lines.
func (d *display) Lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string(nil), d.lines...)
}

func (d *display) drawLocked() {
	width, height := d.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}
	d.screen.Clear()

	title := tcell.StyleDefault.Bold(true)
	putString(d.screen, 0, 0, width, displayTitle, title)

	// Rows between the title and the status line hold the newest output.
	rows := height - 2
	if rows > 0 {
		visible := d.lines
		if len(visible) > rows {
			visible = visible[len(visible)-rows:]
		}
		for i, line := range visible {
			putString(d.screen, 0, 1+i, width, line, tcell.StyleDefault)
		}
	}

	if height > 1 {
		status := tcell.StyleDefault.Reverse(true)
		for x := range width {
			d.screen.SetContent(x, height-1, ' ', nil, status)
		}
		putString(d.screen, 0, height-1, width, d.status, status)
	}
	d.screen.Show()
}

// putString draws s from (x, y), cell by cell, stopping at maxWidth columns.
// Grapheme clusters keep wide and combined characters intact.
func putString(screen tcell.Screen, x, y, maxWidth int, s string, style tcell.Style) int {
	col := x
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		w := g.Width()
		if w == 0 {
			continue
		}
		if col+w > x+maxWidth {
			break
		}
		screen.SetContent(col, y, runes[0], runes[1:], style)
		col += w
	}
	return col - x
}
