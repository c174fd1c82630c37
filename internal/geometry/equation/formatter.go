// Package equation turns a line or plane pose into its canonical equation string.
//
// Rotations are Euler angles in radians composed intrinsically in X, Y, Z order
// (the Three.js default). Numbers are rounded half away from zero and a value
// that rounds to zero is always printed unsigned.
package equation

import (
	"math"
	"strconv"
	"strings"

	"ar-geometry/internal/geometry/models"

	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================
// Canonical axes
// ============================================================

var (
	LineDirection = models.Vec3{X: 1}
	PlaneNormal   = models.Vec3{Z: 1}
)

const (
	linePrecision  = 1
	planePrecision = 2
)

// ============================================================
// Sign style
// ============================================================

type SignStyle int

const (
	// SignLiteral joins every plane term with "+" and keeps the coefficient's own
	// sign, e.g. "0.00x + -0.50y + 0.87z + -1.00 = 0".
	SignLiteral SignStyle = iota
	// SignCompact folds a negative coefficient into the operator,
	// e.g. "0.00x - 0.50y + 0.87z - 1.00 = 0".
	SignCompact
)

// ParseSignStyle maps a config value onto a SignStyle.
func ParseSignStyle(s string) (SignStyle, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "literal":
		return SignLiteral, true
	case "compact":
		return SignCompact, true
	}
	return SignLiteral, false
}

func (s SignStyle) String() string {
	if s == SignCompact {
		return "compact"
	}
	return "literal"
}

// ============================================================
// Formatter
// ============================================================

type Formatter struct {
	Signs SignStyle
}

// Format returns the equation for an object of the given kind and pose.
// Unknown kinds produce an empty string.
func (f Formatter) Format(kind models.Kind, position models.Vec3, rotation models.Euler) string {
	switch kind {
	case models.KindLine:
		return f.line(position, Direction(rotation))
	case models.KindPlane:
		return f.plane(position, Normal(rotation))
	}
	return ""
}

// Format uses the default literal sign style.
func Format(kind models.Kind, position models.Vec3, rotation models.Euler) string {
	return Formatter{}.Format(kind, position, rotation)
}

func (f Formatter) line(p, d models.Vec3) string {
	var b strings.Builder
	b.WriteString("x = (")
	b.WriteString(joinFixed(linePrecision, p.X, p.Y, p.Z))
	b.WriteString(") + t·(")
	b.WriteString(joinFixed(linePrecision, d.X, d.Y, d.Z))
	b.WriteString(")")
	return b.String()
}

func (f Formatter) plane(p, n models.Vec3) string {
	d := -Dot(n, p)

	var b strings.Builder
	b.WriteString(fixed(n.X, planePrecision))
	b.WriteString("x")
	f.term(&b, n.Y, "y")
	f.term(&b, n.Z, "z")
	f.term(&b, d, "")
	b.WriteString(" = 0")
	return b.String()
}

func (f Formatter) term(b *strings.Builder, v float64, variable string) {
	s := fixed(v, planePrecision)
	if f.Signs == SignCompact && strings.HasPrefix(s, "-") {
		b.WriteString(" - ")
		s = s[1:]
	} else {
		b.WriteString(" + ")
	}
	b.WriteString(s)
	b.WriteString(variable)
}

// ============================================================
// Rotation
// ============================================================

// Rotate applies the Euler rotation to v.
func Rotate(rotation models.Euler, v models.Vec3) models.Vec3 {
	q := mgl64.AnglesToQuat(rotation.X, rotation.Y, rotation.Z, mgl64.XYZ)
	return fromMgl(q.Rotate(toMgl(v)))
}

// Direction is the unit world-space direction of a line with the given rotation.
func Direction(rotation models.Euler) models.Vec3 {
	return normalize(Rotate(rotation, LineDirection))
}

// Normal is the unit world-space normal of a plane with the given rotation.
func Normal(rotation models.Euler) models.Vec3 {
	return normalize(Rotate(rotation, PlaneNormal))
}

func Dot(a, b models.Vec3) float64 {
	return toMgl(a).Dot(toMgl(b))
}

func normalize(v models.Vec3) models.Vec3 {
	mv := toMgl(v)
	if mv.Len() == 0 {
		return v
	}
	return fromMgl(mv.Normalize())
}

func toMgl(v models.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) models.Vec3 {
	return models.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// ============================================================
// Number formatting
// ============================================================

// Round rounds v half away from zero to the given number of decimals.
// Results equal to zero are returned as positive zero.
func Round(v float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0
	}
	return r
}

func fixed(v float64, precision int) string {
	return strconv.FormatFloat(Round(v, precision), 'f', precision, 64)
}

func joinFixed(precision int, vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fixed(v, precision)
	}
	return strings.Join(parts, ", ")
}
