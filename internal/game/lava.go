package game

// Lava tuning. Heights are world-space Y coordinates. The rise speed is
// applied once per ticker tick and escalates by LavaSpeedIncrement at fixed
// accumulated intervals (see room.Config).
const (
	LobbyLavaHeight     = -5.0
	GameStartLavaHeight = -10.0
	InitialLavaSpeed    = 0.02
	LavaSpeedIncrement  = 0.05

	// A player is considered fallen when position.y < lavaHeight + LavaFallMargin,
	// and is teleported to lavaHeight + LavaRecoveryOffset.
	LavaFallMargin     = 0.5
	LavaRecoveryOffset = 10.0
)
