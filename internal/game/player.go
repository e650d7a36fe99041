package game

import "math/rand"

// Position is a client-reported coordinate. Rotation rides along unmodified
// so other clients can orient the remote player model.
type Position struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Rotation float64 `json:"rotation,omitempty"`
}

type Player struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	Position    Position `json:"position"`
	Lives       int      `json:"lives"`
	IsSpectator bool     `json:"isSpectator"`
	IsHost      bool     `json:"isHost"`
}

const (
	StartingLives     = 3
	DefaultPlayerName = "Player"
)

// JoinPosition is where a player stands while the room is in the lobby.
// SpawnPosition is used on game start, high enough to not fall immediately.
var (
	JoinPosition  = Position{X: 0, Y: 10, Z: 0}
	SpawnPosition = Position{X: 0, Y: 15, Z: 0}
)

var playerColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFBE0B",
	"#FB5607", "#8338EC", "#3A86FF", "#FF006E",
}

func RandomColor(rng *rand.Rand) string {
	return playerColors[rng.Intn(len(playerColors))]
}
