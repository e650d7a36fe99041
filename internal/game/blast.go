package game

import "math"

// Air blast tuning. The cone test and push are purely geometric, computed
// in the XZ plane; there is no physics simulation on the server.
const (
	BlastRange     = 10.0
	BlastConeAngle = math.Pi / 3 // full angle, 60 degrees
	BlastForce     = 30.0
)

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BlastPush returns the push vector applied to a target standing at target
// when a blast is fired from origin toward dir, and whether the target is
// affected at all. Targets outside the range or outside the half-angle cone
// are unaffected. The push scales with (1 - distance/range), boosted
// horizontally and damped vertically so victims slide rather than launch.
func BlastPush(origin Position, dir Vec3, target Position) (Vec3, bool) {
	dx := target.X - origin.X
	dy := target.Y - origin.Y
	dz := target.Z - origin.Z

	distance := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if distance > BlastRange || distance == 0 {
		return Vec3{}, false
	}

	dirLen := math.Sqrt(dir.X*dir.X + dir.Z*dir.Z)
	if dirLen == 0 {
		return Vec3{}, false
	}
	dirX := dir.X / dirLen
	dirZ := dir.Z / dirLen

	toTargetX := dx / distance
	toTargetZ := dz / distance

	dot := toTargetX*dirX + toTargetZ*dirZ
	angle := math.Acos(math.Max(-1, math.Min(1, dot)))
	if angle > BlastConeAngle/2 {
		return Vec3{}, false
	}

	force := BlastForce * (1 - distance/BlastRange)
	return Vec3{
		X: dirX * force * 1.5,
		Y: force * 0.3,
		Z: dirZ * force * 1.5,
	}, true
}
