package geospatial

import (
	"fmt"
	"math"
	"strings"
)

const (
	earthRadiusKm = 6371.0
	kmToMiles     = 0.621371
)

// Point is a bare WGS 84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Unit selects the unit returned by Distance.
type Unit string

const (
	Kilometers Unit = "km"
	Miles      Unit = "mi"
)

// ParseUnit accepts "km"/"K" and "mi"/"M" (case-insensitive). Empty means kilometers.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "k", "km":
		return Kilometers, nil
	case "m", "mi":
		return Miles, nil
	default:
		return "", fmt.Errorf("unknown distance unit %q", s)
	}
}

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// Distance returns the great-circle distance between a and b in the given unit,
// rounded to two decimals. It returns NaN when any coordinate is not finite.
func Distance(a, b Point, unit Unit) float64 {
	for _, v := range []float64{a.Lat, a.Lng, b.Lat, b.Lng} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return math.NaN()
		}
	}

	d := Haversine(a.Lat, a.Lng, b.Lat, b.Lng) / 1000
	if unit == Miles {
		d *= kmToMiles
	}
	return math.Round(d*100) / 100
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
