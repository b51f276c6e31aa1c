// Package mirror keeps an in-process mirror of the daemon's workspace
// state: it projects full state documents into display snapshots, filters
// the notification stream down to the events that can change them, and
// diffs consecutive snapshots so consumers repaint only what changed.
package mirror

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wsmirror/wsmirror/internal/komorebi"
)

// Classification is the rendering-relevant state of one workspace slot.
// Focused takes precedence over emptiness.
type Classification int

const (
	WorkspaceEmpty Classification = iota
	WorkspaceNonEmpty
	WorkspaceFocused
)

// String implements fmt.Stringer.
func (c Classification) String() string {
	switch c {
	case WorkspaceEmpty:
		return "empty"
	case WorkspaceNonEmpty:
		return "nonempty"
	case WorkspaceFocused:
		return "focused"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the classification as its lowercase string form.
func (c Classification) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

// WorkspaceView is one projected workspace slot.
type WorkspaceView struct {
	Name           string         `json:"name"`
	Classification Classification `json:"classification"`
}

// Snapshot is the ordered projection of the focused monitor's workspaces.
// Index order matches the daemon's workspace numbering.
type Snapshot []WorkspaceView

// Project reduces a full daemon state to the snapshot of the focused
// monitor's workspaces. The computation is pure: identical states project
// to identical snapshots. Returns komorebi.ErrNoFocusedMonitor when the
// daemon reports no focused monitor.
func Project(state komorebi.State) (Snapshot, error) {
	monitor, ok := state.FocusedMonitor()
	if !ok {
		return nil, komorebi.ErrNoFocusedMonitor
	}

	focused := monitor.Workspaces.Focused
	snapshot := make(Snapshot, 0, len(monitor.Workspaces.Elements))
	for i, ws := range monitor.Workspaces.Elements {
		name := strconv.Itoa(i + 1)
		if ws.Name != nil && *ws.Name != "" {
			name = *ws.Name
		}

		classification := WorkspaceNonEmpty
		switch {
		case i == focused:
			classification = WorkspaceFocused
		case ws.IsEmpty():
			classification = WorkspaceEmpty
		}

		snapshot = append(snapshot, WorkspaceView{Name: name, Classification: classification})
	}
	return snapshot, nil
}

// ReadWorkspaces performs the synchronous startup fetch: one State query
// projected into a snapshot.
func ReadWorkspaces(ctx context.Context, client *komorebi.Client) (Snapshot, error) {
	state, err := client.Query(ctx)
	if err != nil {
		return nil, fmt.Errorf("read workspaces: %w", err)
	}
	return Project(state)
}
