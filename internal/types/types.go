package types

import (
	"encoding/json"

	"github.com/aruiz02/lava-rise-backend/internal/game"
)

// ClientMessage is the inbound envelope. Data stays raw until the handler
// for the named event decodes it; missing fields fall through to defaults
// rather than erroring.
type ClientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ServerMessage is the outbound envelope.
type ServerMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client -> server event names.
const (
	EvGetRooms        = "getRooms"
	EvCreateRoom      = "createRoom"
	EvJoinRoom        = "joinRoom"
	EvKickPlayer      = "kickPlayer"
	EvStartGame       = "startGame"
	EvUpdatePosition  = "updatePosition"
	EvUseAirBlast     = "useAirBlast"
	EvApplyAirBlast   = "applyAirBlast"
	EvAirBlastHit     = "airBlastHit"
	EvPlayerDied      = "playerDied"
	EvSpectatorSwitch = "spectatorSwitchView"
	EvNewPlatforms    = "newPlatformsGenerated"
	EvLeaveRoom       = "leaveRoom"
	EvGetRoomData     = "getRoomData"
)

// Server -> client event names.
const (
	EvRoomList             = "roomList"
	EvRoomCreated          = "roomCreated"
	EvJoinedRoom           = "joinedRoom"
	EvPlayerJoined         = "playerJoined"
	EvPlayerLeft           = "playerLeft"
	EvKicked               = "kicked"
	EvBecameHost           = "becameHost"
	EvGameStarted          = "gameStarted"
	EvPlayerMoved          = "playerMoved"
	EvAirBlastEffect       = "airBlastEffect"
	EvAirBlastPush         = "airBlastPush"
	EvReceivedAirBlast     = "receivedAirBlast"
	EvUpdateLives          = "updateLives"
	EvEnterSpectatorMode   = "enterSpectatorMode"
	EvGameOver             = "gameOver"
	EvReturnToLobby        = "returnToLobby"
	EvSpectatorViewChanged = "spectatorViewChanged"
	EvSyncNewPlatforms     = "syncNewPlatforms"
	EvLavaUpdate           = "lavaUpdate"
	EvLavaSpeedChanged     = "lavaSpeedChanged"
	EvPlayerReset          = "playerReset"
	EvRoomData             = "roomData"
	EvError                = "error"
)

// Client request payloads.

type CreateRoomRequest struct {
	RoomName   string `json:"roomName"`
	MaxPlayers int    `json:"maxPlayers"`
}

type JoinRoomRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type KickPlayerRequest struct {
	PlayerID string `json:"playerId"`
}

type UseAirBlastRequest struct {
	Position  game.Position `json:"position"`
	Direction game.Vec3     `json:"direction"`
}

type ApplyAirBlastRequest struct {
	TargetID string    `json:"targetId"`
	Velocity game.Vec3 `json:"velocity"`
}

type AirBlastHitRequest struct {
	TargetID string    `json:"targetId"`
	Force    game.Vec3 `json:"force"`
}

type SpectatorSwitchRequest struct {
	TargetID string `json:"targetId"`
}

type RoomDataRequest struct {
	RoomID string `json:"roomId"`
}

// Server payloads.

type RoomSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
}

type RoomCreated struct {
	RoomID string `json:"roomId"`
}

type JoinedRoom struct {
	RoomID      string                  `json:"roomId"`
	RoomName    string                  `json:"roomName"`
	Players     map[string]*game.Player `json:"players"`
	PlayerID    string                  `json:"playerId"`
	MaxPlayers  int                     `json:"maxPlayers"`
	GameStarted bool                    `json:"gameStarted"`
}

type PlayerJoined struct {
	PlayerID string                  `json:"playerId"`
	Player   *game.Player            `json:"player"`
	Players  map[string]*game.Player `json:"players"`
}

type PlayerLeft struct {
	PlayerID string                  `json:"playerId"`
	Players  map[string]*game.Player `json:"players"`
}

type GameStarted struct {
	Platforms  []game.Platform         `json:"platforms"`
	LavaHeight float64                 `json:"lavaHeight"`
	Players    map[string]*game.Player `json:"players"`
}

type PlayerMoved struct {
	PlayerID string        `json:"playerId"`
	Position game.Position `json:"position"`
}

// AirBlastEffect covers both the positional broadcast from useAirBlast and
// the legacy applyAirBlast shape, which only names the players involved.
type AirBlastEffect struct {
	Position  *game.Position `json:"position,omitempty"`
	Direction *game.Vec3     `json:"direction,omitempty"`
	FromID    string         `json:"fromId,omitempty"`
	TargetID  string         `json:"targetId,omitempty"`
}

type AirBlastPush struct {
	TargetID   string    `json:"targetId"`
	PushVector game.Vec3 `json:"pushVector"`
}

type ReceivedAirBlast struct {
	FromID   string    `json:"fromId"`
	Velocity game.Vec3 `json:"velocity"`
}

type UpdateLives struct {
	Lives int `json:"lives"`
}

type GameOver struct {
	WinnerID   string `json:"winnerId"`
	WinnerName string `json:"winnerName"`
}

type ReturnToLobby struct {
	RoomID     string                  `json:"roomId"`
	Players    map[string]*game.Player `json:"players"`
	RoomName   string                  `json:"roomName"`
	MaxPlayers int                     `json:"maxPlayers"`
}

type SpectatorViewChanged struct {
	TargetID string `json:"targetId"`
}

type LavaUpdate struct {
	LavaHeight float64 `json:"lavaHeight"`
	LavaSpeed  float64 `json:"lavaSpeed"`
}

type LavaSpeedChanged struct {
	Speed float64 `json:"speed"`
}

type PlayerReset struct {
	PlayerID string        `json:"playerId"`
	Position game.Position `json:"position"`
}

type RoomData struct {
	Name        string                  `json:"name"`
	Players     map[string]*game.Player `json:"players"`
	Platforms   []game.Platform         `json:"platforms"`
	LavaHeight  float64                 `json:"lavaHeight"`
	GameStarted bool                    `json:"gameStarted"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
