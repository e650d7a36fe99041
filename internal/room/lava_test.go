package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aruiz02/lava-rise-backend/internal/game"
	"github.com/aruiz02/lava-rise-backend/internal/types"
)

func TestLavaTicker_IdleUntilGameStarts(t *testing.T) {
	r := newTestRoom(t, 4, Config{TickInterval: 5 * time.Millisecond})
	outA := joinPlayer(t, r, "a", "Alice")

	recvNoEvent(t, outA, types.EvLavaUpdate, 100*time.Millisecond)
	assert.Equal(t, game.LobbyLavaHeight, roomView(t, r).LavaHeight)
}

func TestLavaTicker_HeightIsMonotonic(t *testing.T) {
	r := newTestRoom(t, 4, Config{TickInterval: 5 * time.Millisecond})
	outA := joinPlayer(t, r, "a", "Alice")
	joinPlayer(t, r, "b", "Bob")

	r.Inbox() <- StartGame{ClientID: "a"}
	recvEvent(t, outA, types.EvGameStarted)

	prevHeight := game.GameStartLavaHeight - 1
	prevSpeed := 0.0
	for i := 0; i < 10; i++ {
		update := recvEvent(t, outA, types.EvLavaUpdate)
		payload := update.Data.(types.LavaUpdate)
		assert.Greater(t, payload.LavaHeight, prevHeight)
		assert.GreaterOrEqual(t, payload.LavaSpeed, prevSpeed)
		prevHeight = payload.LavaHeight
		prevSpeed = payload.LavaSpeed
	}
}

func TestLavaTicker_SpeedEscalates(t *testing.T) {
	r := newTestRoom(t, 4, Config{
		TickInterval: 5 * time.Millisecond,
		SpeedupAfter: 25 * time.Millisecond,
	})
	outA := joinPlayer(t, r, "a", "Alice")
	joinPlayer(t, r, "b", "Bob")

	r.Inbox() <- StartGame{ClientID: "a"}

	changed := recvEvent(t, outA, types.EvLavaSpeedChanged)
	payload := changed.Data.(types.LavaSpeedChanged)
	assert.InDelta(t, game.InitialLavaSpeed+game.LavaSpeedIncrement, payload.Speed, 1e-9)

	changed = recvEvent(t, outA, types.EvLavaSpeedChanged)
	payload = changed.Data.(types.LavaSpeedChanged)
	assert.InDelta(t, game.InitialLavaSpeed+2*game.LavaSpeedIncrement, payload.Speed, 1e-9)
}

func TestLavaTicker_FallenPlayerIsTeleportedNotKilled(t *testing.T) {
	r := newTestRoom(t, 4, Config{TickInterval: 5 * time.Millisecond})
	outA := joinPlayer(t, r, "a", "Alice")
	joinPlayer(t, r, "b", "Bob")

	r.Inbox() <- StartGame{ClientID: "a"}
	recvEvent(t, outA, types.EvGameStarted)

	// Sink b well below the lava surface; the next tick teleports it above.
	r.Inbox() <- UpdatePosition{ClientID: "b", Position: game.Position{X: 0, Y: -20, Z: 0}}

	reset := recvEvent(t, outA, types.EvPlayerReset)
	payload := reset.Data.(types.PlayerReset)
	require.Equal(t, "b", payload.PlayerID)
	assert.Equal(t, 0.0, payload.Position.X)
	assert.Equal(t, 0.0, payload.Position.Z)

	v := roomView(t, r)
	assert.Greater(t, v.Players["b"].Position.Y, v.LavaHeight)
	// The ticker path never touches lives; only playerDied does.
	assert.Equal(t, game.StartingLives, v.Players["b"].Lives)
	assert.False(t, v.Players["b"].IsSpectator)
}
