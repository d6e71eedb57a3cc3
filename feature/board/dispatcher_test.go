package board

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestDispatcher(t *testing.T) (*Dispatcher, *Engine, Store, *mockBroadcaster) {
	t.Helper()
	e, store := setupTestEngine(t)
	b := new(mockBroadcaster)
	d := NewDispatcher(e, NewSnapshotBuilder(store), b, zap.NewNop())
	return d, e, store, b
}

func command(t *testing.T, name string, payload any) Command {
	t.Helper()
	cmd := Command{Name: name}
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		cmd.Payload = raw
	}
	return cmd
}

func TestDispatcher_GetInitialStateRepliesOnly(t *testing.T) {
	d, e, _, b := setupTestDispatcher(t)
	mustAddItem(t, e, "a", nil)

	out, err := d.Dispatch(context.Background(), Command{Name: CmdGetInitialState})
	require.NoError(t, err)
	require.NotNil(t, out.Snapshot)
	assert.False(t, out.Broadcast)
	assert.Equal(t, EventInitialState, out.Event())
	assert.Len(t, out.Snapshot.Items, 1)
	b.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestDispatcher_MutationsBroadcast(t *testing.T) {
	ctx := context.Background()
	d, _, store, b := setupTestDispatcher(t)
	b.On("Publish", mock.Anything).Return(2)

	out, err := d.Dispatch(ctx, command(t, CmdAddFolder, map[string]any{"name": "Work"}))
	require.NoError(t, err)
	require.True(t, out.Broadcast)
	assert.Equal(t, EventStateUpdate, out.Event())
	folderID := out.Result.ID
	assert.True(t, out.Snapshot.Folders[0].IsOpen)

	out, err = d.Dispatch(ctx, command(t, CmdAddItem, map[string]any{"title": "Mail", "icon": "@", "folderId": folderID, "order": 99}))
	require.NoError(t, err)
	itemID := out.Result.ID
	assert.Equal(t, 0, out.Snapshot.Items[0].Order)

	out, err = d.Dispatch(ctx, command(t, CmdMoveItem, map[string]any{"itemId": itemID, "targetFolderId": nil, "newOrder": 0}))
	require.NoError(t, err)
	assert.Nil(t, out.Snapshot.Items[0].FolderID)

	_, err = d.Dispatch(ctx, command(t, CmdMoveFolder, map[string]any{"folderId": folderID, "newOrder": 0}))
	require.NoError(t, err)

	out, err = d.Dispatch(ctx, command(t, CmdToggleFolder, folderID))
	require.NoError(t, err)
	assert.False(t, out.Snapshot.Folders[0].IsOpen)

	b.AssertNumberOfCalls(t, "Publish", 5)
	requireDense(t, store)
}

func TestDispatcher_AddFolderHonoursIsOpen(t *testing.T) {
	d, _, _, b := setupTestDispatcher(t)
	b.On("Publish", mock.Anything).Return(0)

	out, err := d.AddFolder(context.Background(), AddFolderRequest{Name: "Closed", IsOpen: ptr(false)})
	require.NoError(t, err)
	assert.False(t, out.Snapshot.Folders[0].IsOpen)
}

func TestDispatcher_NotFoundSkipsBroadcast(t *testing.T) {
	d, e, store, b := setupTestDispatcher(t)
	mustAddItem(t, e, "a", nil)
	before := snapshotJSON(t, store)

	out, err := d.Dispatch(context.Background(), command(t, CmdMoveItem, map[string]any{"itemId": "ghost", "targetFolderId": nil, "newOrder": 0}))
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, out.Result.Status)
	assert.Nil(t, out.Snapshot)
	assert.False(t, out.Broadcast)

	_, err = d.Dispatch(context.Background(), command(t, CmdToggleFolder, "ghost"))
	require.NoError(t, err)

	b.AssertNotCalled(t, "Publish", mock.Anything)
	assert.Equal(t, before, snapshotJSON(t, store))
}

func TestDispatcher_Malformed(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
	}{
		{"UnknownCommand", Command{Name: "deleteEverything"}},
		{"MissingPayload", Command{Name: CmdAddItem}},
		{"BadJSON", Command{Name: CmdMoveItem, Payload: json.RawMessage(`{"itemId":`)}},
		{"AddItemWithoutTitle", Command{Name: CmdAddItem, Payload: json.RawMessage(`{"icon":"@"}`)}},
		{"AddItemWithoutIcon", Command{Name: CmdAddItem, Payload: json.RawMessage(`{"title":"x"}`)}},
		{"AddItemEmptyFolder", Command{Name: CmdAddItem, Payload: json.RawMessage(`{"title":"x","icon":"@","folderId":""}`)}},
		{"AddFolderBlankName", Command{Name: CmdAddFolder, Payload: json.RawMessage(`{"name":"  "}`)}},
		{"MoveItemWithoutOrder", Command{Name: CmdMoveItem, Payload: json.RawMessage(`{"itemId":"a"}`)}},
		{"MoveItemNegativeOrder", Command{Name: CmdMoveItem, Payload: json.RawMessage(`{"itemId":"a","newOrder":-1}`)}},
		{"MoveFolderWithoutID", Command{Name: CmdMoveFolder, Payload: json.RawMessage(`{"newOrder":0}`)}},
		{"MoveFolderNegativeOrder", Command{Name: CmdMoveFolder, Payload: json.RawMessage(`{"folderId":"f","newOrder":-2}`)}},
		{"ToggleNull", Command{Name: CmdToggleFolder, Payload: json.RawMessage(`null`)}},
		{"ToggleObject", Command{Name: CmdToggleFolder, Payload: json.RawMessage(`{"folderId":"f"}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _, _, b := setupTestDispatcher(t)
			out, err := d.Dispatch(context.Background(), tt.cmd)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, ErrMalformedCommand)
			b.AssertNotCalled(t, "Publish", mock.Anything)
		})
	}
}

func TestDispatcher_StorageFailureSkipsBroadcast(t *testing.T) {
	e, store := setupTestEngine(t)
	a := mustAddItem(t, e, "a", nil)
	mustAddItem(t, e, "b", nil)

	calls := 0
	broken := NewEngine(faultyStore{Store: store, failOn: 1, calls: &calls}, zap.NewNop())
	b := new(mockBroadcaster)
	d := NewDispatcher(broken, NewSnapshotBuilder(store), b, zap.NewNop())

	out, err := d.MoveItem(context.Background(), MoveItemRequest{ItemID: a, NewOrder: ptr(1)})
	assert.Nil(t, out)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedCommand)
	b.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestDispatcher_Compact(t *testing.T) {
	d, e, _, b := setupTestDispatcher(t)
	mustAddItem(t, e, "a", nil)

	out, err := d.Compact(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Broadcast)
	b.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestCommand_JSON(t *testing.T) {
	var cmd Command
	require.NoError(t, json.Unmarshal([]byte(`{"event":"toggleFolder","payload":"f1"}`), &cmd))
	assert.Equal(t, CmdToggleFolder, cmd.Name)
	assert.JSONEq(t, `"f1"`, string(cmd.Payload))
}
