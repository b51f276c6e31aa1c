package mirror

import "github.com/wsmirror/wsmirror/internal/komorebi"

// Filter decides which notifications are worth reprojecting and
// redelivering a snapshot for. The daemon pushes a notification for every
// event it processes; only the ones below can change the workspace
// summary that gets rendered.
type Filter struct {
	socketKinds        map[string]struct{}
	windowManagerKinds map[string]struct{}
}

// NewFilter builds the default relevance filter.
func NewFilter() *Filter {
	return &Filter{
		// Commands that can move focus, workspace membership, or
		// workspace set membership across monitors. Window-level
		// commands like Hide, Minimize, Show and TitleUpdate are
		// deliberately absent.
		socketKinds: kindSet(
			"FocusWorkspaceNumber",
			"FocusMonitorNumber",
			"FocusMonitorWorkspaceNumber",
			"FocusNamedWorkspace",
			"FocusWorkspaceNumbers",
			"CycleFocusMonitor",
			"CycleFocusWorkspace",
			"ReloadConfiguration",
			"ReplaceConfiguration",
			"CompleteConfiguration",
			"ReloadStaticConfiguration",
			"MoveContainerToMonitorNumber",
			"MoveContainerToMonitorWorkspaceNumber",
			"MoveContainerToNamedWorkspace",
			"MoveContainerToWorkspaceNumber",
			"MoveWorkspaceToMonitorNumber",
			"CycleMoveContainerToMonitor",
			"CycleMoveContainerToWorkspace",
			"CycleMoveWorkspaceToMonitor",
			"CloseWorkspace",
			"SendContainerToMonitorNumber",
			"SendContainerToMonitorWorkspaceNumber",
			"SendContainerToNamedWorkspace",
			"SendContainerToWorkspaceNumber",
			"CycleSendContainerToMonitor",
			"CycleSendContainerToWorkspace",
		),
		// Lifecycle events that change occupancy without a command-level
		// counterpart. FocusChange and Hide are already covered at the
		// slot level and excluded.
		windowManagerKinds: kindSet(
			"Cloak",
			"Uncloak",
			"Destroy",
		),
	}
}

func kindSet(kinds ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return set
}

// Relevant reports whether a notification with the given event should
// trigger a reprojection. Unknown kinds are irrelevant.
func (f *Filter) Relevant(ev komorebi.Event) bool {
	switch ev.Source {
	case komorebi.SourceSocket:
		_, ok := f.socketKinds[ev.Kind]
		return ok
	case komorebi.SourceWindowManager:
		_, ok := f.windowManagerKinds[ev.Kind]
		return ok
	default:
		return false
	}
}
