package engine

import "time"

// Block-time model: fixed handling buffers on both ends of a leg plus
// cruise at the fleet's average speed.
const (
	loadingAndTakeoff   = 10 * time.Minute
	landingAndUnloading = 10 * time.Minute
	avgCruiseSpeedKMH   = 60.0
)

// EstimateFlightTime converts a route distance in meters to an estimated
// block time: loading and takeoff, cruise, landing and unloading.
func EstimateFlightTime(distanceMeters float64) time.Duration {
	cruiseHours := distanceMeters / 1000 / avgCruiseSpeedKMH
	cruise := time.Duration(cruiseHours * float64(time.Hour))
	return loadingAndTakeoff + cruise + landingAndUnloading
}
