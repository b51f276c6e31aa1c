package komorebi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const stateFixture = `{
  "monitors": {
    "elements": [
      {
        "workspaces": {
          "elements": [
            {
              "name": "code",
              "containers": {"elements": [{"windows": {"elements": [{}], "focused": 0}}], "focused": 0},
              "floating_windows": [],
              "monocle_container": null,
              "maximized_window": null
            },
            {
              "name": null,
              "containers": {"elements": [], "focused": 0},
              "floating_windows": [],
              "monocle_container": null,
              "maximized_window": null
            }
          ],
          "focused": 1
        }
      }
    ],
    "focused": 0
  }
}`

func TestStateDecode(t *testing.T) {
	var state State
	require.NoError(t, json.Unmarshal([]byte(stateFixture), &state))

	monitor, ok := state.FocusedMonitor()
	require.True(t, ok)
	require.Len(t, monitor.Workspaces.Elements, 2)
	require.Equal(t, 1, monitor.Workspaces.Focused)

	first := monitor.Workspaces.Elements[0]
	require.NotNil(t, first.Name)
	require.Equal(t, "code", *first.Name)
	require.False(t, first.IsEmpty())

	second := monitor.Workspaces.Elements[1]
	require.Nil(t, second.Name)
	require.True(t, second.IsEmpty())
}

func TestFocusedElementOutOfRange(t *testing.T) {
	ring := Ring[int]{Elements: []int{1, 2}, Focused: 5}
	_, ok := ring.FocusedElement()
	require.False(t, ok)

	ring.Focused = -1
	_, ok = ring.FocusedElement()
	require.False(t, ok)
}

func TestWorkspaceIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		ws    Workspace
		empty bool
	}{
		{name: "nothing", ws: Workspace{}, empty: true},
		{
			name:  "tiled container",
			ws:    Workspace{Containers: Ring[json.RawMessage]{Elements: []json.RawMessage{[]byte(`{}`)}}},
			empty: false,
		},
		{
			name:  "floating window",
			ws:    Workspace{FloatingWindows: []json.RawMessage{[]byte(`{}`)}},
			empty: false,
		},
		{
			name:  "monocle container",
			ws:    Workspace{MonocleContainer: []byte(`{"id": 7}`)},
			empty: false,
		},
		{
			name:  "maximized window",
			ws:    Workspace{MaximizedWindow: []byte(`{"hwnd": 42}`)},
			empty: false,
		},
		{
			name:  "explicit nulls",
			ws:    Workspace{MonocleContainer: []byte(`null`), MaximizedWindow: []byte(`null`)},
			empty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.empty, tt.ws.IsEmpty())
		})
	}
}
