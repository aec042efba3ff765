package attendance

import (
	"errors"
	"math"
)

// Campus reference point and allowed radius for physical check-ins.
// Reported accuracy and timestamp are accepted by the API but play no
// part in the decision.
const (
	CampusLatitude  = 13.736717
	CampusLongitude = 100.523186
	GeofenceRadiusM = 300.0

	earthRadiusM = 6371000.0
)

// Haversine returns the great-circle distance between two coordinates
// in meters.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// VerifyLocation checks a reported coordinate against the campus
// geofence. The distance is returned either way so rejections can
// report how far off the caller was.
func VerifyLocation(lat, lng float64) (bool, float64) {
	distance := Haversine(lat, lng, CampusLatitude, CampusLongitude)
	return distance <= GeofenceRadiusM, distance
}

// ErrPartialCoordinates is returned when a request carries only one of
// the two coordinates.
var ErrPartialCoordinates = errors.New("latitude and longitude must be provided together")

// LocationCheck is the outcome of verifying an optional coordinate
// pair. Online check-ins omit coordinates entirely; Provided is false
// and no geofence decision applies.
type LocationCheck struct {
	Provided bool
	Verified bool
	Distance float64
}

// VerifyOptionalLocation verifies a coordinate pair where both values
// may be absent. Absent means an online check-in and passes without a
// geofence decision; a lone coordinate is rejected as malformed.
func VerifyOptionalLocation(lat, lng *float64) (LocationCheck, error) {
	if lat == nil && lng == nil {
		return LocationCheck{}, nil
	}
	if lat == nil || lng == nil {
		return LocationCheck{}, ErrPartialCoordinates
	}
	within, distance := VerifyLocation(*lat, *lng)
	return LocationCheck{Provided: true, Verified: within, Distance: distance}, nil
}
