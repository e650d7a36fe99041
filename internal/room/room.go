package room

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/aruiz02/lava-rise-backend/internal/game"
	"github.com/aruiz02/lava-rise-backend/internal/types"
)

// Config carries the timing knobs so tests can run the lava ticker fast.
type Config struct {
	TickInterval  time.Duration // lava ticker period
	SpeedupAfter  time.Duration // accumulated time between speed escalations
	GameOverDelay time.Duration // winner display time before returnToLobby
	Rand          *rand.Rand    // platform/color randomness; nil for unseeded
}

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = 100 * time.Millisecond
	}
	if c.SpeedupAfter <= 0 {
		c.SpeedupAfter = 30 * time.Second
	}
	if c.GameOverDelay <= 0 {
		c.GameOverDelay = 10 * time.Second
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// Params wires a new room to its owner. OnEmpty and OnCount are invoked from
// the room goroutine and must not block; the hub points them at its own
// buffered inbox.
type Params struct {
	ID         string
	Name       string
	MaxPlayers int
	Config     Config
	Logger     *zap.Logger
	OnEmpty    func()
	OnCount    func(n int)
}

// Room is an actor: one goroutine owns all fields, fed through inbox.
// Every handler runs to completion before the next message or tick.
type Room struct {
	inbox  chan Msg
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger

	id         string
	name       string
	maxPlayers int
	cfg        Config
	rng        *rand.Rand
	onEmpty    func()
	onCount    func(int)

	players   map[string]*game.Player
	order     []string // join order; order[0] is the host line of succession
	outboxes  map[string]chan<- types.ServerMessage
	platforms []game.Platform

	gameStarted bool
	gameSeq     int // increments per started game; stale lobby timers check it
	gameOver    bool

	lavaActive   bool
	lavaHeight   float64
	lavaSpeed    float64
	speedElapsed time.Duration
}

func New(parent context.Context, p Params) *Room {
	ctx, cancel := context.WithCancel(parent)
	cfg := p.Config.withDefaults()
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}

	r := &Room{
		inbox:      make(chan Msg, 64),
		ctx:        ctx,
		cancel:     cancel,
		log:        p.Logger.With(zap.String("room", p.ID)),
		id:         p.ID,
		name:       p.Name,
		maxPlayers: p.MaxPlayers,
		cfg:        cfg,
		rng:        cfg.Rand,
		onEmpty:    p.OnEmpty,
		onCount:    p.OnCount,
		players:    make(map[string]*game.Player),
		outboxes:   make(map[string]chan<- types.ServerMessage),
		platforms:  game.LobbyPlatforms(),
		lavaHeight: game.LobbyLavaHeight,
	}
	go r.loop()
	return r
}

func (r *Room) ID() string        { return r.id }
func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Done is closed when the room actor has stopped; senders holding a stale
// room reference select on it to avoid blocking on a dead inbox.
func (r *Room) Done() <-chan struct{} { return r.ctx.Done() }

func (r *Room) loop() {
	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			r.tick()

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)
			case Leave:
				r.removePlayer(msg.ClientID)
			case Kick:
				r.handleKick(msg)
			case StartGame:
				r.handleStartGame(msg)
			case UpdatePosition:
				r.handleUpdatePosition(msg)
			case UseAirBlast:
				r.handleUseAirBlast(msg)
			case ApplyAirBlast:
				r.handleApplyAirBlast(msg)
			case AirBlastHit:
				r.handleAirBlastHit(msg)
			case PlayerDied:
				r.handlePlayerDied(msg)
			case SpectatorSwitchView:
				r.handleSpectatorSwitch(msg)
			case SyncPlatforms:
				r.handleSyncPlatforms(msg)
			case returnToLobby:
				r.handleReturnToLobby(msg)
			case Snapshot:
				msg.Reply <- r.view()
			case Shutdown:
				r.cancel()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	if p, ok := r.players[msg.ClientID]; ok {
		// Rejoin from an id already in the room. Refresh the outbox and
		// resend the snapshot; order, host flag and lives stay untouched.
		r.outboxes[p.ID] = msg.Outbox
		msg.Reply <- nil
		r.send(p.ID, types.ServerMessage{Event: types.EvJoinedRoom, Data: types.JoinedRoom{
			RoomID:      r.id,
			RoomName:    r.name,
			Players:     r.playersCopy(),
			PlayerID:    p.ID,
			MaxPlayers:  r.maxPlayers,
			GameStarted: r.gameStarted,
		}})
		return
	}
	if len(r.players) >= r.maxPlayers {
		msg.Reply <- ErrRoomFull
		return
	}

	name := msg.Name
	if name == "" {
		name = game.DefaultPlayerName
	}
	p := &game.Player{
		ID:       msg.ClientID,
		Name:     name,
		Color:    game.RandomColor(r.rng),
		Position: game.JoinPosition,
		Lives:    game.StartingLives,
		IsHost:   len(r.order) == 0,
	}
	r.players[p.ID] = p
	r.order = append(r.order, p.ID)
	r.outboxes[p.ID] = msg.Outbox
	msg.Reply <- nil

	r.send(p.ID, types.ServerMessage{Event: types.EvJoinedRoom, Data: types.JoinedRoom{
		RoomID:      r.id,
		RoomName:    r.name,
		Players:     r.playersCopy(),
		PlayerID:    p.ID,
		MaxPlayers:  r.maxPlayers,
		GameStarted: r.gameStarted,
	}})
	joined := *p
	r.broadcastExcept(p.ID, types.ServerMessage{Event: types.EvPlayerJoined, Data: types.PlayerJoined{
		PlayerID: p.ID,
		Player:   &joined,
		Players:  r.playersCopy(),
	}})

	r.notifyCount()
	r.log.Info("player joined", zap.String("player", p.ID), zap.String("name", name))
}

// removePlayer is the single exit path for leave, kick and disconnect; it
// keeps the host-uniqueness invariant and tears the room down when empty.
func (r *Room) removePlayer(id string) {
	p, ok := r.players[id]
	if !ok {
		return
	}
	wasHost := p.IsHost
	delete(r.players, id)
	delete(r.outboxes, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	if wasHost && len(r.order) > 0 {
		newHost := r.players[r.order[0]]
		newHost.IsHost = true
		r.send(newHost.ID, types.ServerMessage{Event: types.EvBecameHost})
		r.log.Info("host transferred", zap.String("player", newHost.ID))
	}

	r.broadcast(types.ServerMessage{Event: types.EvPlayerLeft, Data: types.PlayerLeft{
		PlayerID: id,
		Players:  r.playersCopy(),
	}})
	r.log.Info("player left", zap.String("player", id))

	if len(r.players) == 0 {
		r.cancel()
		if r.onEmpty != nil {
			r.onEmpty()
		}
		return
	}
	r.notifyCount()
}

func (r *Room) handleKick(msg Kick) {
	requester, ok := r.players[msg.ClientID]
	if !ok || !requester.IsHost {
		r.sendError(msg.ClientID, UserMessage(ErrNotHost))
		return
	}
	if _, ok := r.players[msg.TargetID]; !ok {
		r.sendError(msg.ClientID, UserMessage(ErrPlayerNotFound))
		return
	}

	r.send(msg.TargetID, types.ServerMessage{Event: types.EvKicked})
	r.log.Info("player kicked", zap.String("player", msg.TargetID), zap.String("by", msg.ClientID))
	r.removePlayer(msg.TargetID)
}

func (r *Room) handleStartGame(msg StartGame) {
	if _, ok := r.players[msg.ClientID]; !ok {
		return
	}
	if len(r.players) < 2 {
		r.sendError(msg.ClientID, UserMessage(ErrInsufficientPlayers))
		return
	}

	r.gameStarted = true
	r.gameOver = false
	r.gameSeq++
	r.lavaHeight = game.GameStartLavaHeight
	r.platforms = game.GeneratePlatforms(r.rng)
	for _, p := range r.players {
		p.Position = game.SpawnPosition
		p.Lives = game.StartingLives
		p.IsSpectator = false
	}

	r.broadcast(types.ServerMessage{Event: types.EvGameStarted, Data: types.GameStarted{
		Platforms:  r.platforms,
		LavaHeight: r.lavaHeight,
		Players:    r.playersCopy(),
	}})

	r.lavaActive = true
	r.lavaSpeed = game.InitialLavaSpeed
	r.speedElapsed = 0
	r.log.Info("game started", zap.Int("players", len(r.players)))
}

func (r *Room) handleUpdatePosition(msg UpdatePosition) {
	p, ok := r.players[msg.ClientID]
	if !ok {
		return
	}
	// Trust-the-client: no plausibility check on the reported coordinates.
	p.Position = msg.Position
	r.broadcastExcept(msg.ClientID, types.ServerMessage{Event: types.EvPlayerMoved, Data: types.PlayerMoved{
		PlayerID: msg.ClientID,
		Position: msg.Position,
	}})
}

func (r *Room) handleUseAirBlast(msg UseAirBlast) {
	if _, ok := r.players[msg.ClientID]; !ok {
		return
	}

	pos, dir := msg.Position, msg.Direction
	r.broadcast(types.ServerMessage{Event: types.EvAirBlastEffect, Data: types.AirBlastEffect{
		Position:  &pos,
		Direction: &dir,
	}})

	for id, target := range r.players {
		if id == msg.ClientID {
			continue
		}
		push, hit := game.BlastPush(msg.Position, msg.Direction, target.Position)
		if !hit {
			continue
		}
		r.send(id, types.ServerMessage{Event: types.EvAirBlastPush, Data: types.AirBlastPush{
			TargetID:   id,
			PushVector: push,
		}})
	}
	r.log.Debug("air blast used", zap.String("player", msg.ClientID))
}

func (r *Room) handleApplyAirBlast(msg ApplyAirBlast) {
	if _, ok := r.players[msg.TargetID]; !ok {
		return
	}
	r.send(msg.TargetID, types.ServerMessage{Event: types.EvReceivedAirBlast, Data: types.ReceivedAirBlast{
		FromID:   msg.ClientID,
		Velocity: msg.Velocity,
	}})
	r.broadcastExcept(msg.ClientID, types.ServerMessage{Event: types.EvAirBlastEffect, Data: types.AirBlastEffect{
		FromID:   msg.ClientID,
		TargetID: msg.TargetID,
	}})
}

func (r *Room) handleAirBlastHit(msg AirBlastHit) {
	if msg.TargetID == "" {
		return
	}
	if _, ok := r.players[msg.TargetID]; !ok {
		return
	}
	r.send(msg.TargetID, types.ServerMessage{Event: types.EvAirBlastPush, Data: types.AirBlastPush{
		TargetID:   msg.TargetID,
		PushVector: msg.Force,
	}})
}

func (r *Room) handlePlayerDied(msg PlayerDied) {
	p, ok := r.players[msg.ClientID]
	if !ok || p.IsSpectator {
		// Spectators are already out; a late death report must not take
		// lives below zero or fire a second elimination.
		return
	}

	p.Lives--
	r.send(p.ID, types.ServerMessage{Event: types.EvUpdateLives, Data: types.UpdateLives{Lives: p.Lives}})
	if p.Lives > 0 {
		return
	}

	p.IsSpectator = true
	r.send(p.ID, types.ServerMessage{Event: types.EvEnterSpectatorMode})
	r.log.Info("player eliminated", zap.String("player", p.ID))

	if !r.gameStarted || r.gameOver {
		return
	}
	var winner *game.Player
	alive := 0
	for _, q := range r.players {
		if !q.IsSpectator {
			alive++
			winner = q
		}
	}
	if alive != 1 {
		return
	}

	r.gameOver = true
	r.broadcast(types.ServerMessage{Event: types.EvGameOver, Data: types.GameOver{
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
	}})
	r.log.Info("game over", zap.String("winner", winner.ID))

	seq := r.gameSeq
	time.AfterFunc(r.cfg.GameOverDelay, func() {
		select {
		case r.inbox <- returnToLobby{seq: seq}:
		case <-r.ctx.Done():
		}
	})
}

func (r *Room) handleReturnToLobby(msg returnToLobby) {
	if msg.seq != r.gameSeq || !r.gameStarted || !r.gameOver {
		return
	}
	r.gameStarted = false
	for _, p := range r.players {
		p.Lives = game.StartingLives
		p.IsSpectator = false
	}
	r.broadcast(types.ServerMessage{Event: types.EvReturnToLobby, Data: types.ReturnToLobby{
		RoomID:     r.id,
		Players:    r.playersCopy(),
		RoomName:   r.name,
		MaxPlayers: r.maxPlayers,
	}})
}

func (r *Room) handleSpectatorSwitch(msg SpectatorSwitchView) {
	p, ok := r.players[msg.ClientID]
	if !ok || !p.IsSpectator {
		return
	}
	target, ok := r.players[msg.TargetID]
	if !ok || target.IsSpectator {
		return
	}
	r.send(msg.ClientID, types.ServerMessage{Event: types.EvSpectatorViewChanged, Data: types.SpectatorViewChanged{
		TargetID: msg.TargetID,
	}})
}

func (r *Room) handleSyncPlatforms(msg SyncPlatforms) {
	if _, ok := r.players[msg.ClientID]; !ok {
		return
	}
	if len(msg.Platforms) == 0 {
		return
	}
	r.platforms = game.MergePlatforms(r.platforms, msg.Platforms)
	r.broadcast(types.ServerMessage{Event: types.EvSyncNewPlatforms, Data: msg.Platforms})
}

// tick advances the lava. The ticker arms on the first game start and only
// stops with the room itself; game-over does not pause it, matching the
// reference behavior where the lava keeps rising until the room empties.
func (r *Room) tick() {
	if !r.lavaActive {
		return
	}

	r.speedElapsed += r.cfg.TickInterval
	if r.speedElapsed >= r.cfg.SpeedupAfter {
		r.lavaSpeed += game.LavaSpeedIncrement
		r.speedElapsed = 0
		r.broadcast(types.ServerMessage{Event: types.EvLavaSpeedChanged, Data: types.LavaSpeedChanged{Speed: r.lavaSpeed}})
		r.log.Info("lava speed increased", zap.Float64("speed", r.lavaSpeed))
	}

	r.lavaHeight += r.lavaSpeed
	r.broadcast(types.ServerMessage{Event: types.EvLavaUpdate, Data: types.LavaUpdate{
		LavaHeight: r.lavaHeight,
		LavaSpeed:  r.lavaSpeed,
	}})

	for id, p := range r.players {
		if p.Position.Y < r.lavaHeight+game.LavaFallMargin {
			// Teleport above the surface. Lives are not touched here; only
			// the client-reported playerDied decrements them.
			p.Position = game.Position{X: 0, Y: r.lavaHeight + game.LavaRecoveryOffset, Z: 0}
			r.broadcast(types.ServerMessage{Event: types.EvPlayerReset, Data: types.PlayerReset{
				PlayerID: id,
				Position: p.Position,
			}})
		}
	}
}

func (r *Room) view() View {
	players := make(map[string]game.Player, len(r.players))
	hostID := ""
	for id, p := range r.players {
		players[id] = *p
		if p.IsHost {
			hostID = id
		}
	}
	platforms := make([]game.Platform, len(r.platforms))
	copy(platforms, r.platforms)
	return View{
		ID:          r.id,
		Name:        r.name,
		MaxPlayers:  r.maxPlayers,
		GameStarted: r.gameStarted,
		LavaHeight:  r.lavaHeight,
		LavaSpeed:   r.lavaSpeed,
		Players:     players,
		HostID:      hostID,
		Platforms:   platforms,
		NumClients:  len(r.outboxes),
	}
}

// playersCopy snapshots the player map for outbound payloads, which are
// marshaled on connection writer goroutines after this handler returns.
func (r *Room) playersCopy() map[string]*game.Player {
	out := make(map[string]*game.Player, len(r.players))
	for id, p := range r.players {
		cp := *p
		out[id] = &cp
	}
	return out
}

func (r *Room) send(id string, msg types.ServerMessage) {
	out, ok := r.outboxes[id]
	if !ok {
		return
	}
	select {
	case out <- msg:
	default:
		// Slow consumer; drop the event rather than stall the room.
		r.log.Warn("outbox full, dropping event", zap.String("player", id), zap.String("event", msg.Event))
	}
}

func (r *Room) sendError(id, message string) {
	r.send(id, types.ServerMessage{Event: types.EvError, Data: types.ErrorPayload{Message: message}})
}

func (r *Room) broadcast(msg types.ServerMessage) {
	for id := range r.outboxes {
		r.send(id, msg)
	}
}

func (r *Room) broadcastExcept(skip string, msg types.ServerMessage) {
	for id := range r.outboxes {
		if id == skip {
			continue
		}
		r.send(id, msg)
	}
}

func (r *Room) notifyCount() {
	if r.onCount != nil {
		r.onCount(len(r.players))
	}
}
