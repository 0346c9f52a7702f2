package domain

import "github.com/samirrijal/traveltip/internal/pkg/geospatial"

// Geo is the position a location was pinned at (WGS 84) plus the resolved address.
type Geo struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Point drops the address.
func (g Geo) Point() geospatial.Point {
	return geospatial.Point{Lat: g.Lat, Lng: g.Lng}
}
