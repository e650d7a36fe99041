package game

import "math/rand"

type PlatformType string

const (
	PlatformBox    PlatformType = "box"
	PlatformCircle PlatformType = "circle"
)

type Size struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Platform is a placement descriptor. Boxes carry Size, circles carry
// Radius and Height. Geometry submitted by clients is relayed as-is.
type Platform struct {
	Type     PlatformType `json:"type"`
	Position Position     `json:"position"`
	Size     *Size        `json:"size,omitempty"`
	Radius   float64      `json:"radius,omitempty"`
	Height   float64      `json:"height,omitempty"`
}

// LobbyPlatforms is the fixed preview layout every room starts with.
func LobbyPlatforms() []Platform {
	return []Platform{
		{Type: PlatformCircle, Position: Position{X: 0, Y: 0, Z: 0}, Radius: 10, Height: 0.5},
		{Type: PlatformBox, Position: Position{X: 5, Y: 2, Z: 0}, Size: &Size{X: 2, Y: 0.5, Z: 2}},
		{Type: PlatformBox, Position: Position{X: -5, Y: 3, Z: 2}, Size: &Size{X: 2, Y: 0.5, Z: 2}},
		{Type: PlatformBox, Position: Position{X: 0, Y: 4, Z: 5}, Size: &Size{X: 2, Y: 0.5, Z: 2}},
	}
}

// GeneratePlatforms builds the in-game layout: a large base at height 0,
// then 3-7 randomly placed boxes per 5-unit height band up to y=100.
// The rand source is injected so tests can seed it.
func GeneratePlatforms(rng *rand.Rand) []Platform {
	platforms := []Platform{
		{Type: PlatformBox, Position: Position{X: 0, Y: 0, Z: 0}, Size: &Size{X: 20, Y: 0.5, Z: 20}},
	}

	for y := 5.0; y < 100; y += 5 {
		n := 3 + rng.Intn(5)
		for i := 0; i < n; i++ {
			platforms = append(platforms, Platform{
				Type:     PlatformBox,
				Position: Position{X: rng.Float64()*30 - 15, Y: y, Z: rng.Float64()*30 - 15},
				Size:     &Size{X: 2 + rng.Float64()*3, Y: 0.5, Z: 2 + rng.Float64()*3},
			})
		}
	}
	return platforms
}

// MergePlatforms implements the client-driven procedural extension: stored
// platforms at or above the lowest platform of the incoming batch are
// pruned, then the batch is appended.
func MergePlatforms(existing, batch []Platform) []Platform {
	if len(batch) == 0 {
		return existing
	}
	minY := batch[0].Position.Y
	for _, p := range batch[1:] {
		if p.Position.Y < minY {
			minY = p.Position.Y
		}
	}

	merged := make([]Platform, 0, len(existing)+len(batch))
	for _, p := range existing {
		if p.Position.Y < minY {
			merged = append(merged, p)
		}
	}
	return append(merged, batch...)
}
