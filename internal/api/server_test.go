package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/wsmirror/wsmirror/internal/mirror"
)

type fakeFocuser struct {
	lastIdx int
	err     error
}

func (f *fakeFocuser) FocusWorkspace(ctx context.Context, idx int) error {
	f.lastIdx = idx
	return f.err
}

func newTestServer(t *testing.T) (*httptest.Server, *mirror.Consumer, *fakeFocuser) {
	t.Helper()

	consumer := mirror.NewConsumer()
	consumer.Bootstrap(mirror.Snapshot{
		{Name: "code", Classification: mirror.WorkspaceFocused},
		{Name: "2", Classification: mirror.WorkspaceEmpty},
	})

	focuser := &fakeFocuser{}
	ts := httptest.NewServer(NewServer(consumer, focuser).Handler())
	t.Cleanup(ts.Close)
	return ts, consumer, focuser
}

func TestHandleGetWorkspaces(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/workspaces")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var workspaces []mirror.DisplayedWorkspace
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&workspaces))
	require.Len(t, workspaces, 2)
	require.Equal(t, "code", workspaces[0].Name)
}

func TestHandleFocusWorkspace(t *testing.T) {
	ts, _, focuser := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/workspaces/1/focus", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, focuser.lastIdx)
}

func TestHandleFocusWorkspaceInvalidIndex(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/workspaces/nope/focus", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleFocusWorkspaceDaemonError(t *testing.T) {
	ts, _, focuser := newTestServer(t)
	focuser.err = errors.New("daemon unreachable")

	resp, err := http.Post(ts.URL+"/api/workspaces/0/focus", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHandleWorkspaceStream(t *testing.T) {
	ts, consumer, _ := newTestServer(t)

	updates := make(chan mirror.Snapshot, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go consumer.Run(ctx, updates)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/workspaces/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Initial model arrives first
	var initial []mirror.DisplayedWorkspace
	require.NoError(t, conn.ReadJSON(&initial))
	require.Len(t, initial, 2)
	require.Equal(t, "code", initial[0].Name)

	// A consumed snapshot that changes the model gets pushed
	updates <- mirror.Snapshot{
		{Name: "code", Classification: mirror.WorkspaceNonEmpty},
		{Name: "2", Classification: mirror.WorkspaceFocused},
	}

	var updated []mirror.DisplayedWorkspace
	require.NoError(t, conn.ReadJSON(&updated))
	require.Len(t, updated, 2)
	require.True(t, updated[1].StateChanged)
}

func TestHandleHealth(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"))
}
