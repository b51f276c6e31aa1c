package mirror

// DisplayedWorkspace is one rendered slot plus its repaint flags. The
// flags stay set until ResetFlags is called after a repaint consumed
// them.
type DisplayedWorkspace struct {
	WorkspaceView
	NameChanged  bool `json:"name_changed"`
	StateChanged bool `json:"state_changed"`
}

// Model is the ordered set of workspace slots currently rendered. It is
// owned by the consumer loop; nothing else mutates it.
type Model struct {
	Workspaces []DisplayedWorkspace
}

// Apply diffs a new snapshot into the model and reports whether anything
// changed.
//
// When the slot count differs the whole model is replaced and every slot
// is flagged as fully changed: positional correlation with the old slots
// cannot be assumed. When counts match, slots are compared by index and
// flagged individually.
func (m *Model) Apply(snapshot Snapshot) bool {
	if len(m.Workspaces) != len(snapshot) {
		m.Workspaces = make([]DisplayedWorkspace, len(snapshot))
		for i, view := range snapshot {
			m.Workspaces[i] = DisplayedWorkspace{
				WorkspaceView: view,
				NameChanged:   true,
				StateChanged:  true,
			}
		}
		return true
	}

	changed := false
	for i, view := range snapshot {
		current := &m.Workspaces[i]
		if current.Name != view.Name {
			current.Name = view.Name
			current.NameChanged = true
			changed = true
		}
		if current.Classification != view.Classification {
			current.Classification = view.Classification
			current.StateChanged = true
			changed = true
		}
	}
	return changed
}

// NameChanged reports whether any slot's label changed since the last
// ResetFlags. Name changes affect geometry, so the renderer relayouts
// instead of just repainting.
func (m *Model) NameChanged() bool {
	for _, ws := range m.Workspaces {
		if ws.NameChanged {
			return true
		}
	}
	return false
}

// ResetFlags clears the per-slot repaint flags once a repaint has
// consumed them.
func (m *Model) ResetFlags() {
	for i := range m.Workspaces {
		m.Workspaces[i].NameChanged = false
		m.Workspaces[i].StateChanged = false
	}
}
