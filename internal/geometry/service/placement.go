package service

import (
	"math"
	"math/rand"

	"ar-geometry/internal/geometry/models"
)

// ============================================================
// Placement
// ============================================================

// Placement supplies the pose for objects created without an explicit one.
type Placement interface {
	Pose() (models.Vec3, models.Euler)
}

// FixedPlacement always returns the same pose.
type FixedPlacement struct {
	Position models.Vec3
	Rotation models.Euler
}

func (p FixedPlacement) Pose() (models.Vec3, models.Euler) {
	return p.Position, p.Rotation
}

// RandomPlacement scatters objects uniformly inside a cube of half-width Extent
// centred on the origin, with each rotation angle uniform in [0, 2π).
// It is not safe for concurrent use on its own; the store serializes calls.
type RandomPlacement struct {
	Extent float64
	rng    *rand.Rand
}

func NewRandomPlacement(extent float64, seed int64) *RandomPlacement {
	return &RandomPlacement{
		Extent: extent,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (p *RandomPlacement) Pose() (models.Vec3, models.Euler) {
	pos := models.Vec3{
		X: p.coord(),
		Y: p.coord(),
		Z: p.coord(),
	}
	rot := models.Euler{
		X: p.rng.Float64() * 2 * math.Pi,
		Y: p.rng.Float64() * 2 * math.Pi,
		Z: p.rng.Float64() * 2 * math.Pi,
	}
	return pos, rot
}

func (p *RandomPlacement) coord() float64 {
	return (p.rng.Float64()*2 - 1) * p.Extent
}
