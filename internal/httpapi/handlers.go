package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/aruiz02/lava-rise-backend/internal/hub"
	"github.com/aruiz02/lava-rise-backend/internal/room"
	"github.com/aruiz02/lava-rise-backend/internal/types"
)

// ListRooms mirrors the getRooms socket event for plain HTTP clients.
func ListRooms(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []types.RoomSummary, 1)
		h.Inbox() <- hub.ListRooms{Reply: reply}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(<-reply)
	}
}

// CreateRoom mirrors the createRoom socket event. The caller still has to
// join over the WebSocket to become a player.
func CreateRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateRoomRequest
		_ = json.NewDecoder(r.Body).Decode(&req) // missing fields fall back to defaults

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.CreateRoom{Name: req.RoomName, MaxPlayers: req.MaxPlayers, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(types.RoomCreated{RoomID: rm.ID()})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
