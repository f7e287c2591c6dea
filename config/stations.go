package config

// MetroStation is one station coordinate used to derive a listing's
// metro distance when the source record omits it.
type MetroStation struct {
	Name   string    `json:"name"`
	Center []float64 `json:"center"`
}

// MetroStations maps a city to its known station coordinates (lat, lon).
var MetroStations = map[string][]MetroStation{
	"moscow": {
		{Name: "Arbatskaya", Center: []float64{55.7522, 37.6006}},
		{Name: "Mayakovskaya", Center: []float64{55.7702, 37.5961}},
		{Name: "Taganskaya", Center: []float64{55.7404, 37.6534}},
		{Name: "Sokolniki", Center: []float64{55.7890, 37.6797}},
		{Name: "Yugo-Zapadnaya", Center: []float64{55.6634, 37.4830}},
	},
	"saint-petersburg": {
		{Name: "Nevsky Prospekt", Center: []float64{59.9357, 30.3261}},
		{Name: "Moskovskaya", Center: []float64{59.8520, 30.3216}},
		{Name: "Vasileostrovskaya", Center: []float64{59.9424, 30.2783}},
	},
	// Add more cities here as needed
}

// StationsForCity returns the configured stations for a city, or nil when
// the city has no station table.
func StationsForCity(city string) []MetroStation {
	return MetroStations[city]
}
