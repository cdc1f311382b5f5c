// Package location — geo_utils contains pure geographic computation helpers.
package location

import (
	"math"

	"dopc/internal/types"
)

const earthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle distance between two points,
// rounded to the nearest metre. Symmetric, and zero for coincident points.
func DistanceMeters(a, b types.Point) int {
	return int(math.Round(haversineMeters(a.Lat, a.Lon, b.Lat, b.Lon)))
}

// haversineMeters returns the great-circle distance in metres between two
// points specified in decimal degrees.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
