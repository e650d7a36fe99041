package room

import "errors"

var (
	ErrRoomNotFound        = errors.New("room does not exist")
	ErrRoomFull            = errors.New("room is full")
	ErrInsufficientPlayers = errors.New("not enough players")
	ErrNotHost             = errors.New("requester is not the host")
	ErrPlayerNotFound      = errors.New("player not found in room")
)

// UserMessage maps a taxonomy error to the text shown to the acting client.
// Every one of these is terminal for the single request; none is fatal.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "The room does not exist"
	case errors.Is(err, ErrRoomFull):
		return "The room is full"
	case errors.Is(err, ErrInsufficientPlayers):
		return "At least 2 players are needed to start the game"
	case errors.Is(err, ErrNotHost):
		return "Only the host can kick players"
	case errors.Is(err, ErrPlayerNotFound):
		return "Player not found in the room"
	}
	return err.Error()
}
