package mirror

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModelApplyEqualLength(t *testing.T) {
	var model Model
	model.Apply(Snapshot{
		{Name: "1", Classification: WorkspaceEmpty},
		{Name: "2", Classification: WorkspaceFocused},
	})
	model.ResetFlags()

	changed := model.Apply(Snapshot{
		{Name: "1", Classification: WorkspaceEmpty},
		{Name: "2", Classification: WorkspaceNonEmpty},
	})
	require.True(t, changed)

	require.False(t, model.Workspaces[0].NameChanged)
	require.False(t, model.Workspaces[0].StateChanged)
	require.False(t, model.Workspaces[1].NameChanged)
	require.True(t, model.Workspaces[1].StateChanged)
	require.Equal(t, WorkspaceNonEmpty, model.Workspaces[1].Classification)
}

func TestModelApplyNameChange(t *testing.T) {
	var model Model
	model.Apply(Snapshot{{Name: "1", Classification: WorkspaceEmpty}})
	model.ResetFlags()

	changed := model.Apply(Snapshot{{Name: "mail", Classification: WorkspaceEmpty}})
	require.True(t, changed)
	require.True(t, model.Workspaces[0].NameChanged)
	require.False(t, model.Workspaces[0].StateChanged)
	require.True(t, model.NameChanged())
}

func TestModelApplyNoChange(t *testing.T) {
	snapshot := Snapshot{
		{Name: "1", Classification: WorkspaceFocused},
		{Name: "2", Classification: WorkspaceEmpty},
	}

	var model Model
	model.Apply(snapshot)
	model.ResetFlags()

	require.False(t, model.Apply(snapshot))
	require.False(t, model.NameChanged())
	for _, ws := range model.Workspaces {
		require.False(t, ws.NameChanged)
		require.False(t, ws.StateChanged)
	}
}

func TestModelApplyStructuralChange(t *testing.T) {
	var model Model
	model.Apply(Snapshot{
		{Name: "1", Classification: WorkspaceEmpty},
		{Name: "2", Classification: WorkspaceFocused},
	})
	model.ResetFlags()

	changed := model.Apply(Snapshot{
		{Name: "1", Classification: WorkspaceEmpty},
		{Name: "2", Classification: WorkspaceFocused},
		{Name: "3", Classification: WorkspaceEmpty},
	})
	require.True(t, changed)
	require.Len(t, model.Workspaces, 3)

	// Positions cannot be correlated across a structural change, so
	// every slot is conservatively flagged
	for _, ws := range model.Workspaces {
		require.True(t, ws.NameChanged)
		require.True(t, ws.StateChanged)
	}
}

func TestModelFlagsAccumulateUntilReset(t *testing.T) {
	var model Model
	model.Apply(Snapshot{{Name: "1", Classification: WorkspaceEmpty}})
	model.ResetFlags()

	model.Apply(Snapshot{{Name: "1", Classification: WorkspaceFocused}})
	// A second apply that changes nothing must not clear the pending flag
	model.Apply(Snapshot{{Name: "1", Classification: WorkspaceFocused}})
	require.True(t, model.Workspaces[0].StateChanged)

	model.ResetFlags()
	require.False(t, model.Workspaces[0].StateChanged)
}
