package hub

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aruiz02/lava-rise-backend/internal/room"
	"github.com/aruiz02/lava-rise-backend/internal/types"
)

const defaultMaxPlayers = 4

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Name       string
	MaxPlayers int
	Reply      chan *room.Room
}

type GetRoom struct {
	ID    string
	Reply chan *room.Room
}

type RemoveRoom struct{ ID string }

type ListRooms struct {
	Reply chan []types.RoomSummary
}

// Watch subscribes a connection's outbox to roomList pushes; every live
// connection watches for its whole lifetime, mirroring the reference
// server's broadcast-to-everyone behavior.
type Watch struct {
	ClientID string
	Outbox   chan<- types.ServerMessage
}

type Unwatch struct{ ClientID string }

// roomCount is posted by room actors when their membership changes.
type roomCount struct {
	ID string
	N  int
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ListRooms) isHubMsg()   {}
func (Watch) isHubMsg()       {}
func (Unwatch) isHubMsg()     {}
func (roomCount) isHubMsg()   {}
func (ShutdownHub) isHubMsg() {}

type roomMeta struct {
	name       string
	maxPlayers int
	count      int
}

// Hub is the room registry actor: the single source of truth for which
// rooms exist. Room actors report back through the hub inbox (onEmpty,
// onCount), so the only cross-actor sends are room->hub and transport->*,
// which keeps the graph cycle-free.
type Hub struct {
	inbox    chan HubMsg
	rooms    map[string]*room.Room
	meta     map[string]roomMeta
	ids      []string // creation order, mirrored into roomList
	watchers map[string]chan<- types.ServerMessage
	cfg      room.Config
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, cfg room.Config, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		inbox:    make(chan HubMsg, 256),
		rooms:    make(map[string]*room.Room),
		meta:     make(map[string]roomMeta),
		watchers: make(map[string]chan<- types.ServerMessage),
		cfg:      cfg,
		log:      log.Named("hub"),
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				msg.Reply <- h.createRoom(msg.Name, msg.MaxPlayers)

			case GetRoom:
				msg.Reply <- h.rooms[msg.ID] // may be nil

			case RemoveRoom:
				h.removeRoom(msg.ID)

			case ListRooms:
				msg.Reply <- h.summaries()

			case Watch:
				h.watchers[msg.ClientID] = msg.Outbox

			case Unwatch:
				delete(h.watchers, msg.ClientID)

			case roomCount:
				if meta, ok := h.meta[msg.ID]; ok {
					meta.count = msg.N
					h.meta[msg.ID] = meta
				}

			case ShutdownHub:
				for _, rm := range h.rooms {
					select {
					case rm.Inbox() <- room.Shutdown{}:
					case <-rm.Done():
					}
				}
				clear(h.rooms)
				clear(h.meta)
				h.ids = nil
				h.cancel()
				return
			}
		}
	}
}

func (h *Hub) createRoom(name string, maxPlayers int) *room.Room {
	id := uuid.NewString()
	if name == "" {
		name = fmt.Sprintf("Room %s", id[:8])
	}
	if maxPlayers <= 0 {
		maxPlayers = defaultMaxPlayers
	}

	rm := room.New(h.ctx, room.Params{
		ID:         id,
		Name:       name,
		MaxPlayers: maxPlayers,
		Config:     h.cfg,
		Logger:     h.log,
		OnEmpty: func() {
			select {
			case h.inbox <- RemoveRoom{ID: id}:
			case <-h.ctx.Done():
			}
		},
		OnCount: func(n int) {
			select {
			case h.inbox <- roomCount{ID: id, N: n}:
			case <-h.ctx.Done():
			}
		},
	})
	h.rooms[id] = rm
	h.meta[id] = roomMeta{name: name, maxPlayers: maxPlayers}
	h.ids = append(h.ids, id)

	h.log.Info("room created", zap.String("room", id), zap.String("name", name), zap.Int("maxPlayers", maxPlayers))
	h.broadcastRoomList()
	return rm
}

func (h *Hub) removeRoom(id string) {
	if _, ok := h.rooms[id]; !ok {
		return
	}
	delete(h.rooms, id)
	delete(h.meta, id)
	for i, rid := range h.ids {
		if rid == id {
			h.ids = append(h.ids[:i], h.ids[i+1:]...)
			break
		}
	}
	h.log.Info("room removed", zap.String("room", id))
	h.broadcastRoomList()
}

func (h *Hub) summaries() []types.RoomSummary {
	out := make([]types.RoomSummary, 0, len(h.ids))
	for _, id := range h.ids {
		meta := h.meta[id]
		out = append(out, types.RoomSummary{
			ID:         id,
			Name:       meta.name,
			Players:    meta.count,
			MaxPlayers: meta.maxPlayers,
		})
	}
	return out
}

func (h *Hub) broadcastRoomList() {
	msg := types.ServerMessage{Event: types.EvRoomList, Data: h.summaries()}
	for id, out := range h.watchers {
		select {
		case out <- msg:
		default:
			h.log.Warn("watcher outbox full, dropping room list", zap.String("client", id))
		}
	}
}
