package service

import (
	"math/rand"

	"ar-geometry/internal/geometry/models"
)

const (
	objectSaturation = 0.7
	objectLightness  = 0.6
)

// randomColor picks a hue uniformly from [0, 360) at fixed saturation and lightness.
func randomColor(rng *rand.Rand) models.Color {
	return models.Color{
		Hue:        rng.Float64() * 360,
		Saturation: objectSaturation,
		Lightness:  objectLightness,
	}
}
