package room

import (
	"github.com/aruiz02/lava-rise-backend/internal/game"
	"github.com/aruiz02/lava-rise-backend/internal/types"
)

type Msg interface{ isRoomMsg() }

// Join registers a connection as a player. The joinedRoom event (or nothing,
// on failure) is delivered through Outbox; Reply carries the verdict so the
// transport layer knows whether the binding took.
type Join struct {
	ClientID string
	Name     string
	Outbox   chan<- types.ServerMessage
	Reply    chan error
}

func (Join) isRoomMsg() {}

type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

type Kick struct {
	ClientID string // requester, must be host
	TargetID string
}

func (Kick) isRoomMsg() {}

type StartGame struct{ ClientID string }

func (StartGame) isRoomMsg() {}

type UpdatePosition struct {
	ClientID string
	Position game.Position
}

func (UpdatePosition) isRoomMsg() {}

type UseAirBlast struct {
	ClientID  string
	Position  game.Position
	Direction game.Vec3
}

func (UseAirBlast) isRoomMsg() {}

// ApplyAirBlast is the older client-computed impact path: the attacker
// names the target and the velocity to apply.
type ApplyAirBlast struct {
	ClientID string
	TargetID string
	Velocity game.Vec3
}

func (ApplyAirBlast) isRoomMsg() {}

// AirBlastHit relays a client-computed push directly to the target.
type AirBlastHit struct {
	ClientID string
	TargetID string
	Force    game.Vec3
}

func (AirBlastHit) isRoomMsg() {}

type PlayerDied struct{ ClientID string }

func (PlayerDied) isRoomMsg() {}

type SpectatorSwitchView struct {
	ClientID string
	TargetID string
}

func (SpectatorSwitchView) isRoomMsg() {}

type SyncPlatforms struct {
	ClientID  string
	Platforms []game.Platform
}

func (SyncPlatforms) isRoomMsg() {}

// Snapshot reads room state without data races; used by getRoomData and tests.
type Snapshot struct {
	Reply chan View
}

func (Snapshot) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// returnToLobby is posted back to the inbox by the game-over timer. seq
// identifies the game that ended so a restarted game ignores stale timers.
type returnToLobby struct{ seq int }

func (returnToLobby) isRoomMsg() {}

// View is a copy of room state at one point in the actor's timeline.
type View struct {
	ID          string
	Name        string
	MaxPlayers  int
	GameStarted bool
	LavaHeight  float64
	LavaSpeed   float64
	Players     map[string]game.Player
	HostID      string
	Platforms   []game.Platform
	NumClients  int
}
