// Package komorebi speaks the wire protocol of a komorebi-style tiling
// window-manager daemon: the JSON state document returned by the State
// query and the notification envelopes pushed to subscriber sockets.
package komorebi

import (
	"bytes"
	"encoding/json"
)

// Ring is the daemon's focused-collection shape: an ordered element list
// plus the index of the focused element.
type Ring[T any] struct {
	Elements []T `json:"elements"`
	Focused  int `json:"focused"`
}

// FocusedElement returns the element at the focused index, if any.
func (r Ring[T]) FocusedElement() (T, bool) {
	if r.Focused < 0 || r.Focused >= len(r.Elements) {
		var zero T
		return zero, false
	}
	return r.Elements[r.Focused], true
}

// State is the daemon's full state document, reduced to the fields the
// mirror needs. Unknown fields are ignored on decode.
type State struct {
	Monitors Ring[Monitor] `json:"monitors"`
}

// FocusedMonitor returns the currently focused monitor, if any.
func (s State) FocusedMonitor() (Monitor, bool) {
	return s.Monitors.FocusedElement()
}

// Monitor is one physical display known to the daemon.
type Monitor struct {
	Workspaces Ring[Workspace] `json:"workspaces"`
}

// Workspace is one workspace on a monitor. The daemon omits the name for
// workspaces the user never labelled.
type Workspace struct {
	Name             *string               `json:"name"`
	Containers       Ring[json.RawMessage] `json:"containers"`
	FloatingWindows  []json.RawMessage     `json:"floating_windows"`
	MonocleContainer json.RawMessage       `json:"monocle_container"`
	MaximizedWindow  json.RawMessage       `json:"maximized_window"`
}

// IsEmpty reports whether the workspace holds no windows at all: no tiled
// containers, no floating windows, nothing monocled or maximized.
func (w Workspace) IsEmpty() bool {
	if len(w.Containers.Elements) > 0 || len(w.FloatingWindows) > 0 {
		return false
	}
	return rawIsNull(w.MonocleContainer) && rawIsNull(w.MaximizedWindow)
}

func rawIsNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
