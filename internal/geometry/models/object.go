package models

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// ============================================================
// Kinds
// ============================================================

type Kind string

const (
	KindLine  Kind = "line"
	KindPlane Kind = "plane"
)

// ============================================================
// Geometry primitives
// ============================================================

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Euler is a rotation in radians, applied in intrinsic X, then Y, then Z order.
type Euler struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ============================================================
// Color
// ============================================================

// Color is an HSL display color. Hue is in degrees [0, 360),
// saturation and lightness in [0, 1].
type Color struct {
	Hue        float64 `json:"hue"`
	Saturation float64 `json:"saturation"`
	Lightness  float64 `json:"lightness"`
}

// String renders the color in CSS hsl() notation.
func (c Color) String() string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)",
		int(math.Round(c.Hue))%360,
		int(math.Round(c.Saturation*100)),
		int(math.Round(c.Lightness*100)))
}

// Hex renders the color as #rrggbb.
func (c Color) Hex() string {
	rgb := gg.HSL(c.Hue, c.Saturation, c.Lightness)
	return fmt.Sprintf("#%02x%02x%02x", channel(rgb.R), channel(rgb.G), channel(rgb.B))
}

// MarshalJSON adds the css and hex renderings next to the raw HSL values.
func (c Color) MarshalJSON() ([]byte, error) {
	type plain Color
	return json.Marshal(struct {
		plain
		CSS string `json:"css"`
		Hex string `json:"hex"`
	}{plain(c), c.String(), c.Hex()})
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ============================================================
// Math object
// ============================================================

type MathObject struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	Position Vec3   `json:"position"`
	Rotation Euler  `json:"rotation"`
	Color    Color  `json:"color"`
	Equation string `json:"equation"`
	Visible  bool   `json:"visible"`
}

// Snapshot is a read-only copy of the store state.
type Snapshot struct {
	Objects    []MathObject `json:"objects"`
	SelectedID string       `json:"selectedId,omitempty"`
}

// Selected returns the selected object, if the selection points at a live one.
func (s Snapshot) Selected() (MathObject, bool) {
	if s.SelectedID == "" {
		return MathObject{}, false
	}
	for _, obj := range s.Objects {
		if obj.ID == s.SelectedID {
			return obj, true
		}
	}
	return MathObject{}, false
}
