package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"

	"comprice/server/config"
)

// NearestStationDistance returns the distance in meters from a listing's
// coordinates to the closest configured metro station of its city. The
// second return is false when the city has no station table.
func NearestStationDistance(city string, lat, lon float64) (float64, bool) {
	stations := config.StationsForCity(city)
	if len(stations) == 0 {
		return 0, false
	}

	point := orb.Point{lon, lat}
	best := math.MaxFloat64
	for _, station := range stations {
		if len(station.Center) != 2 {
			continue
		}
		// Center is stored as (lat, lon); orb points are (lon, lat)
		d := orbgeo.Distance(point, orb.Point{station.Center[1], station.Center[0]})
		if d < best {
			best = d
		}
	}

	if best == math.MaxFloat64 {
		return 0, false
	}
	return best, true
}
