package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aruiz02/lava-rise-backend/internal/hub"
	"github.com/aruiz02/lava-rise-backend/internal/room"
	"github.com/aruiz02/lava-rise-backend/internal/types"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := hub.NewHub(ctx, room.Config{}, nil)
	server := httptest.NewServer(SetupRoutes(h, nil, nil))
	t.Cleanup(server.Close)
	return server
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRooms_CreateThenList(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/rooms")
	require.NoError(t, err)
	var rooms []types.RoomSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rooms))
	resp.Body.Close()
	assert.Empty(t, rooms)

	body := strings.NewReader(`{"roomName":"Volcano","maxPlayers":3}`)
	resp, err = http.Post(server.URL+"/rooms", "application/json", body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created types.RoomCreated
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.NotEmpty(t, created.RoomID)

	resp, err = http.Get(server.URL + "/rooms")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rooms))
	resp.Body.Close()
	require.Len(t, rooms, 1)
	assert.Equal(t, created.RoomID, rooms[0].ID)
	assert.Equal(t, "Volcano", rooms[0].Name)
	assert.Equal(t, 3, rooms[0].MaxPlayers)
	assert.Equal(t, 0, rooms[0].Players)
}
