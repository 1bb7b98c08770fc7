// Package geo provides the great-circle math and geofence matching used
// to detect waypoint arrivals from GPS samples.
package geo

import "math"

const (
	// EarthRadiusKm is the Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0

	// DefaultThresholdKm is the arrival geofence radius (100 meters).
	DefaultThresholdKm = 0.1
)

// DistanceKm computes the haversine great-circle distance between two
// coordinates, in kilometers.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Bounds is a lat/lng bounding box.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// BoundsForRadius returns a bounding box that fully contains the circle of
// the given radius around (lat, lng). The box is slightly larger than the
// circle; exact membership is decided by DistanceKm afterwards.
func BoundsForRadius(lat, lng, radiusKm float64) Bounds {
	latOffset := radiusKm / EarthRadiusKm * 180 / math.Pi

	// Longitude degrees shrink with latitude. Near the poles the cosine
	// approaches zero; clamp so the box stays finite.
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 1e-6 {
		cosLat = 1e-6
	}
	lngOffset := radiusKm / (EarthRadiusKm * cosLat) * 180 / math.Pi

	return Bounds{
		MinLat: lat - latOffset,
		MaxLat: lat + latOffset,
		MinLng: lng - lngOffset,
		MaxLng: lng + lngOffset,
	}
}
