package types

// Wire protocol reference. Every frame is a JSON envelope:
//   { "event": string, "data": <payload> }
//
// Client -> Server
// getRooms: {}
//
// createRoom:
//   roomName: string   (default assigned by server when empty)
//   maxPlayers: number (default 4)
//
// joinRoom:
//   roomId: string
//   playerName: string (default "Player")
//
// kickPlayer:
//   playerId: string   (host only)
//
// startGame: {}        (needs >= 2 players)
//
// updatePosition:
//   x, y, z: number
//   rotation: number   (optional, relayed untouched)
//
// useAirBlast:
//   position:  {x, y, z}
//   direction: {x, y, z}
//
// airBlastHit:         (legacy client-computed impact)
//   targetId: string
//   force: {x, y, z}
//
// applyAirBlast:       (older legacy path)
//   targetId: string
//   velocity: {x, y, z}
//
// playerDied: {}
//
// spectatorSwitchView:
//   targetId: string
//
// newPlatformsGenerated: [Platform, ...]
//
// leaveRoom: {}
//
// getRoomData:
//   roomId: string

// Server -> Client
// roomList: [{id, name, players, maxPlayers}, ...]
// roomCreated: {roomId}
// joinedRoom: {roomId, roomName, players, playerId, maxPlayers, gameStarted}
// playerJoined: {playerId, player, players}
// playerLeft: {playerId, players}
// kicked: {}
// becameHost: {}
// gameStarted: {platforms, lavaHeight, players}
// playerMoved: {playerId, position}
// airBlastEffect: {position, direction} or {fromId, targetId}
// airBlastPush: {targetId, pushVector}
// receivedAirBlast: {fromId, velocity}
// updateLives: {lives}
// enterSpectatorMode: {}
// gameOver: {winnerId, winnerName}
// returnToLobby: {roomId, players, roomName, maxPlayers}
// spectatorViewChanged: {targetId}
// syncNewPlatforms: [Platform, ...]
// lavaUpdate: {lavaHeight, lavaSpeed}
// lavaSpeedChanged: {speed}
// playerReset: {playerId, position}
// roomData: {name, players, platforms, lavaHeight, gameStarted} or null
// error: {message}
