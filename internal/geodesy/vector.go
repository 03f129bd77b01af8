package geodesy

import (
	"math"

	"github.com/aerolane/airmesh/internal/model"
)

// vectorEpsilon is the norm below which a vector is treated as degenerate.
const vectorEpsilon = 1e-12

// northPole is the unit vector of the geographic north pole.
var northPole = Vec3{Z: 1}

// Vec3 is a direction in earth-centered coordinates: X toward (0°, 0°),
// Y toward (0°, 90°E), Z toward the north pole.
type Vec3 struct {
	X, Y, Z float64
}

// Vector converts a geodetic position to its unit-sphere vector. Altitude is
// ignored.
func Vector(p model.Position) Vec3 {
	lat := radians(p.Latitude)
	lon := radians(p.Longitude)
	return Vec3{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Cos(lat) * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

// LatLon converts a unit vector back to a geodetic position in degrees.
func LatLon(v Vec3) model.Position {
	return model.Position{
		Latitude:  degrees(math.Asin(clamp(v.Z, -1, 1))),
		Longitude: degrees(math.Atan2(v.Y, v.X)),
	}
}

// Dot returns the scalar product.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the vector product.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// Norm returns the Euclidean length.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns the unit vector in v's direction; the zero vector comes
// back unchanged.
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n < vectorEpsilon {
		return v
	}
	return v.Scale(1 / n)
}

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s} }

// Add returns the component-wise sum.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }

// Quaternion is a rotation operator for unit-sphere vectors.
type Quaternion struct {
	W float64
	V Vec3
}

// Rotation builds the quaternion rotating by angle radians around axis. The
// axis need not be normalized.
func Rotation(axis Vec3, angle float64) Quaternion {
	half := angle / 2
	return Quaternion{
		W: math.Cos(half),
		V: axis.Normalize().Scale(math.Sin(half)),
	}
}

// Rotate applies the rotation to v.
func (q Quaternion) Rotate(v Vec3) Vec3 {
	t := q.V.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(q.V.Cross(t))
}
