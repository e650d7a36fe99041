package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aruiz02/lava-rise-backend/internal/hub"
	"github.com/aruiz02/lava-rise-backend/internal/room"
	"github.com/aruiz02/lava-rise-backend/internal/types"
)

type rawServerMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := hub.NewHub(ctx, room.Config{}, nil)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", Handler(h, nil, nil))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		require.NoError(t, err)
		raw = b
	}
	payload, err := json.Marshal(types.ClientMessage{Event: event, Data: raw})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, payload))
}

// waitFor reads frames until the named event arrives, skipping unrelated
// broadcasts (room lists, join notifications, lava ticks).
func waitFor(t *testing.T, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err, "waiting for %q", event)
		var msg rawServerMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg.Event == event {
			return msg.Data
		}
	}
}

func TestWebSocket_LobbyFlow(t *testing.T) {
	_, url := newTestServer(t)

	connA := dial(t, url)
	connB := dial(t, url)
	connC := dial(t, url)

	// Create a 2-player room.
	send(t, connA, types.EvCreateRoom, types.CreateRoomRequest{RoomName: "Volcano", MaxPlayers: 2})
	var created types.RoomCreated
	require.NoError(t, json.Unmarshal(waitFor(t, connA, types.EvRoomCreated), &created))
	require.NotEmpty(t, created.RoomID)

	// Every connection watches the room list.
	var list []types.RoomSummary
	require.NoError(t, json.Unmarshal(waitFor(t, connB, types.EvRoomList), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Volcano", list[0].Name)
	assert.Equal(t, 2, list[0].MaxPlayers)

	// A joins and becomes host.
	send(t, connA, types.EvJoinRoom, types.JoinRoomRequest{RoomID: created.RoomID, PlayerName: "Alice"})
	var joinedA types.JoinedRoom
	require.NoError(t, json.Unmarshal(waitFor(t, connA, types.EvJoinedRoom), &joinedA))
	assert.Equal(t, created.RoomID, joinedA.RoomID)
	require.Len(t, joinedA.Players, 1)
	assert.True(t, joinedA.Players[joinedA.PlayerID].IsHost)

	// B joins; A is notified.
	send(t, connB, types.EvJoinRoom, types.JoinRoomRequest{RoomID: created.RoomID, PlayerName: "Bob"})
	var joinedB types.JoinedRoom
	require.NoError(t, json.Unmarshal(waitFor(t, connB, types.EvJoinedRoom), &joinedB))
	require.Len(t, joinedB.Players, 2)

	var notified types.PlayerJoined
	require.NoError(t, json.Unmarshal(waitFor(t, connA, types.EvPlayerJoined), &notified))
	assert.Equal(t, "Bob", notified.Player.Name)

	// The room is full; C is rejected.
	send(t, connC, types.EvJoinRoom, types.JoinRoomRequest{RoomID: created.RoomID, PlayerName: "Carol"})
	var errPayload types.ErrorPayload
	require.NoError(t, json.Unmarshal(waitFor(t, connC, types.EvError), &errPayload))
	assert.Equal(t, "The room is full", errPayload.Message)

	// Position updates reach the other player but are not echoed back.
	send(t, connA, types.EvUpdatePosition, map[string]float64{"x": 1, "y": 2, "z": 3})
	var moved types.PlayerMoved
	require.NoError(t, json.Unmarshal(waitFor(t, connB, types.EvPlayerMoved), &moved))
	assert.Equal(t, joinedA.PlayerID, moved.PlayerID)
	assert.Equal(t, 3.0, moved.Position.Z)

	// Host leaves; B inherits the room.
	send(t, connA, types.EvLeaveRoom, nil)
	require.NotNil(t, waitFor(t, connB, types.EvBecameHost))
	var left types.PlayerLeft
	require.NoError(t, json.Unmarshal(waitFor(t, connB, types.EvPlayerLeft), &left))
	assert.Equal(t, joinedA.PlayerID, left.PlayerID)

	// Last player leaves; watchers see the room disappear.
	send(t, connB, types.EvLeaveRoom, nil)
	deadline := time.Now().Add(3 * time.Second)
	for {
		require.NoError(t, json.Unmarshal(waitFor(t, connC, types.EvRoomList), &list))
		if len(list) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("room was not removed, still listed: %+v", list)
		}
	}
}

func TestWebSocket_GetRoomData(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	send(t, conn, types.EvGetRoomData, types.RoomDataRequest{RoomID: "nope"})
	data := waitFor(t, conn, types.EvRoomData)
	assert.Equal(t, "null", strings.TrimSpace(string(data)))

	send(t, conn, types.EvCreateRoom, types.CreateRoomRequest{RoomName: "Volcano"})
	var created types.RoomCreated
	require.NoError(t, json.Unmarshal(waitFor(t, conn, types.EvRoomCreated), &created))

	send(t, conn, types.EvGetRoomData, types.RoomDataRequest{RoomID: created.RoomID})
	var roomData types.RoomData
	require.NoError(t, json.Unmarshal(waitFor(t, conn, types.EvRoomData), &roomData))
	assert.Equal(t, "Volcano", roomData.Name)
	assert.False(t, roomData.GameStarted)
	assert.NotEmpty(t, roomData.Platforms)
}

func TestWebSocket_BadJSONGetsError(t *testing.T) {
	_, url := newTestServer(t)
	conn := dial(t, url)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("{not json")))

	var errPayload types.ErrorPayload
	require.NoError(t, json.Unmarshal(waitFor(t, conn, types.EvError), &errPayload))
	assert.Equal(t, "bad json", errPayload.Message)
}

func TestWebSocket_DisconnectLeavesRoom(t *testing.T) {
	_, url := newTestServer(t)
	connA := dial(t, url)
	connB := dial(t, url)

	send(t, connA, types.EvCreateRoom, types.CreateRoomRequest{RoomName: "Volcano"})
	var created types.RoomCreated
	require.NoError(t, json.Unmarshal(waitFor(t, connA, types.EvRoomCreated), &created))

	send(t, connA, types.EvJoinRoom, types.JoinRoomRequest{RoomID: created.RoomID, PlayerName: "Alice"})
	waitFor(t, connA, types.EvJoinedRoom)
	send(t, connB, types.EvJoinRoom, types.JoinRoomRequest{RoomID: created.RoomID, PlayerName: "Bob"})
	waitFor(t, connB, types.EvJoinedRoom)

	// A drops the socket without a leaveRoom; B inherits the room.
	connA.Close(websocket.StatusGoingAway, "bye")
	require.NotNil(t, waitFor(t, connB, types.EvBecameHost))
}
