// Package geodesy provides great-circle geometry over geodetic coordinates:
// surface distance, initial bearing, and the unit-sphere vector toolkit the
// network generator builds on.
//
// All functions are pure and safe for concurrent use.
package geodesy

import (
	"math"

	"github.com/aerolane/airmesh/internal/model"
)

// EarthRadiusMeters is the IUGG mean Earth radius.
const EarthRadiusMeters = 6371008.8

// Distance returns the great-circle distance between two positions in
// meters, by the haversine formula. Altitude does not contribute; this is a
// surface metric.
func Distance(a, b model.Position) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// Bearing returns the initial bearing from a to b in degrees clockwise from
// true north, in [0, 360). It is computed from unit-vector cross products,
// which stay numerically stable at high latitudes. Exactly at a pole, or for
// coincident and antipodal points, the bearing is degenerate and resolves to
// due south from the northern hemisphere and due north otherwise.
func Bearing(a, b model.Position) float64 {
	av := Vector(a)
	bv := Vector(b)

	gc := av.Cross(bv)         // normal of the great circle through a and b
	mer := av.Cross(northPole) // normal of the meridian plane at a

	if gc.Norm() < vectorEpsilon || mer.Norm() < vectorEpsilon {
		if a.Latitude > 0 {
			return 180
		}
		return 0
	}

	x := gc.Cross(mer)
	sin := x.Norm()
	if x.Dot(av) < 0 {
		sin = -sin
	}
	deg := degrees(math.Atan2(sin, gc.Dot(mer)))
	return math.Mod(deg+360, 360)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
