package mirror

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wsmirror/wsmirror/internal/komorebi"
)

func TestFilterRelevantSocketKinds(t *testing.T) {
	relevant := []string{
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
	}

	filter := NewFilter()
	for _, kind := range relevant {
		require.True(t, filter.Relevant(komorebi.Event{Source: komorebi.SourceSocket, Kind: kind}), kind)
	}
}

func TestFilterIrrelevantSocketKinds(t *testing.T) {
	irrelevant := []string{"Hide", "Minimize", "Show", "TitleUpdate", "Unknown"}

	filter := NewFilter()
	for _, kind := range irrelevant {
		require.False(t, filter.Relevant(komorebi.Event{Source: komorebi.SourceSocket, Kind: kind}), kind)
	}
}

func TestFilterWindowManagerKinds(t *testing.T) {
	filter := NewFilter()

	for _, kind := range []string{"Cloak", "Uncloak", "Destroy"} {
		require.True(t, filter.Relevant(komorebi.Event{Source: komorebi.SourceWindowManager, Kind: kind}), kind)
	}
	for _, kind := range []string{"FocusChange", "Hide", "Show", "Manage"} {
		require.False(t, filter.Relevant(komorebi.Event{Source: komorebi.SourceWindowManager, Kind: kind}), kind)
	}
}

func TestFilterKindsAreSourceScoped(t *testing.T) {
	filter := NewFilter()

	// A socket-relevant kind is not relevant as a window-manager event
	// and vice versa
	require.False(t, filter.Relevant(komorebi.Event{Source: komorebi.SourceWindowManager, Kind: "CloseWorkspace"}))
	require.False(t, filter.Relevant(komorebi.Event{Source: komorebi.SourceSocket, Kind: "Cloak"}))
	require.False(t, filter.Relevant(komorebi.Event{Source: "Other", Kind: "CloseWorkspace"}))
}
