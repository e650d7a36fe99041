package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/aruiz02/lava-rise-backend/internal/game"
	"github.com/aruiz02/lava-rise-backend/internal/hub"
	"github.com/aruiz02/lava-rise-backend/internal/room"
	"github.com/aruiz02/lava-rise-backend/internal/types"
)

const outboxSize = 64

// session is the per-connection state: the connection identity (which doubles
// as the player id) and the room the connection is currently bound to.
type session struct {
	clientID string
	outbox   chan types.ServerMessage
	room     *room.Room
}

func Handler(h *hub.Hub, log *zap.Logger, origins []string) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: origins,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		s := &session{
			clientID: randID(16),
			outbox:   make(chan types.ServerMessage, outboxSize),
		}
		log.Info("client connected", zap.String("client", s.clientID))

		h.Inbox() <- hub.Watch{ClientID: s.clientID, Outbox: s.outbox}
		defer func() {
			// Disconnect is an implicit leaveRoom.
			s.forward(room.Leave{ClientID: s.clientID})
			h.Inbox() <- hub.Unwatch{ClientID: s.clientID}
			log.Info("client disconnected", zap.String("client", s.clientID))
		}()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case msg := <-s.outbox:
					payload, err := json.Marshal(msg)
					if err != nil {
						continue
					}
					ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				}
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				s.sendError("bad json")
				continue
			}
			s.dispatch(h, cm)
		}
	}
}

func (s *session) dispatch(h *hub.Hub, cm types.ClientMessage) {
	switch cm.Event {
	case types.EvGetRooms:
		reply := make(chan []types.RoomSummary, 1)
		h.Inbox() <- hub.ListRooms{Reply: reply}
		s.push(types.ServerMessage{Event: types.EvRoomList, Data: <-reply})

	case types.EvCreateRoom:
		var req types.CreateRoomRequest
		decode(cm.Data, &req)
		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.CreateRoom{Name: req.RoomName, MaxPlayers: req.MaxPlayers, Reply: reply}
		rm := <-reply
		s.push(types.ServerMessage{Event: types.EvRoomCreated, Data: types.RoomCreated{RoomID: rm.ID()}})

	case types.EvJoinRoom:
		var req types.JoinRoomRequest
		decode(cm.Data, &req)
		// One room per connection: joining elsewhere leaves the current
		// room first. A repeat join for the bound room is a rejoin and
		// passes through, the room answers it without reseating the player.
		if s.room != nil && s.room.ID() != req.RoomID {
			s.forward(room.Leave{ClientID: s.clientID})
			s.room = nil
		}
		rm := getRoom(h, req.RoomID)
		if rm == nil {
			s.sendError(room.UserMessage(room.ErrRoomNotFound))
			return
		}
		reply := make(chan error, 1)
		select {
		case rm.Inbox() <- room.Join{ClientID: s.clientID, Name: req.PlayerName, Outbox: s.outbox, Reply: reply}:
		case <-rm.Done():
			s.sendError(room.UserMessage(room.ErrRoomNotFound))
			return
		}
		select {
		case err := <-reply:
			if err != nil {
				s.sendError(room.UserMessage(err))
				return
			}
		case <-rm.Done():
			s.sendError(room.UserMessage(room.ErrRoomNotFound))
			return
		}
		s.room = rm

	case types.EvLeaveRoom:
		s.forward(room.Leave{ClientID: s.clientID})
		s.room = nil

	case types.EvKickPlayer:
		var req types.KickPlayerRequest
		decode(cm.Data, &req)
		s.forward(room.Kick{ClientID: s.clientID, TargetID: req.PlayerID})

	case types.EvStartGame:
		s.forward(room.StartGame{ClientID: s.clientID})

	case types.EvUpdatePosition:
		var pos game.Position
		decode(cm.Data, &pos)
		s.forward(room.UpdatePosition{ClientID: s.clientID, Position: pos})

	case types.EvUseAirBlast:
		var req types.UseAirBlastRequest
		decode(cm.Data, &req)
		s.forward(room.UseAirBlast{ClientID: s.clientID, Position: req.Position, Direction: req.Direction})

	case types.EvApplyAirBlast:
		var req types.ApplyAirBlastRequest
		decode(cm.Data, &req)
		s.forward(room.ApplyAirBlast{ClientID: s.clientID, TargetID: req.TargetID, Velocity: req.Velocity})

	case types.EvAirBlastHit:
		var req types.AirBlastHitRequest
		decode(cm.Data, &req)
		s.forward(room.AirBlastHit{ClientID: s.clientID, TargetID: req.TargetID, Force: req.Force})

	case types.EvPlayerDied:
		s.forward(room.PlayerDied{ClientID: s.clientID})

	case types.EvSpectatorSwitch:
		var req types.SpectatorSwitchRequest
		decode(cm.Data, &req)
		s.forward(room.SpectatorSwitchView{ClientID: s.clientID, TargetID: req.TargetID})

	case types.EvNewPlatforms:
		var platforms []game.Platform
		decode(cm.Data, &platforms)
		s.forward(room.SyncPlatforms{ClientID: s.clientID, Platforms: platforms})

	case types.EvGetRoomData:
		var req types.RoomDataRequest
		decode(cm.Data, &req)
		rm := getRoom(h, req.RoomID)
		if rm == nil {
			s.push(types.ServerMessage{Event: types.EvRoomData, Data: nil})
			return
		}
		reply := make(chan room.View, 1)
		var view room.View
		select {
		case rm.Inbox() <- room.Snapshot{Reply: reply}:
		case <-rm.Done():
			s.push(types.ServerMessage{Event: types.EvRoomData, Data: nil})
			return
		}
		select {
		case view = <-reply:
		case <-rm.Done():
			s.push(types.ServerMessage{Event: types.EvRoomData, Data: nil})
			return
		}
		players := make(map[string]*game.Player, len(view.Players))
		for id := range view.Players {
			p := view.Players[id]
			players[id] = &p
		}
		s.push(types.ServerMessage{Event: types.EvRoomData, Data: types.RoomData{
			Name:        view.Name,
			Players:     players,
			Platforms:   view.Platforms,
			LavaHeight:  view.LavaHeight,
			GameStarted: view.GameStarted,
		}})

	default:
		s.sendError("unknown event")
	}
}

// forward sends an in-room command to the bound room, if any. A session
// whose player was kicked keeps a stale binding until it joins again; the
// room drops commands from ids it no longer tracks, so this is harmless.
// The Done guard covers bindings to rooms that have since been destroyed.
func (s *session) forward(msg room.Msg) {
	if s.room == nil {
		return
	}
	select {
	case s.room.Inbox() <- msg:
	case <-s.room.Done():
		s.room = nil
	}
}

func (s *session) push(msg types.ServerMessage) {
	select {
	case s.outbox <- msg:
	default:
	}
}

func (s *session) sendError(message string) {
	s.push(types.ServerMessage{Event: types.EvError, Data: types.ErrorPayload{Message: message}})
}

func getRoom(h *hub.Hub, id string) *room.Room {
	reply := make(chan *room.Room, 1)
	h.Inbox() <- hub.GetRoom{ID: id, Reply: reply}
	return <-reply
}

// decode is deliberately permissive: a missing or malformed payload leaves
// the struct at its zero value and the handler falls back to defaults.
func decode(data json.RawMessage, v any) {
	if len(data) == 0 {
		return
	}
	_ = json.Unmarshal(data, v)
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
