package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/samirrijal/traveltip/internal/core/domain"
)

// ExportGeoJSONHandler returns every stored location as a GeoJSON
// FeatureCollection, in store order.
func ExportGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locs, err := deps.Locations.List(c.UserContext())
		if err != nil {
			return handleError(c, err)
		}

		body, err := json.Marshal(FeatureCollection(locs))
		if err != nil {
			return handleError(c, err)
		}

		c.Set(fiber.HeaderContentType, "application/geo+json")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="locations.geojson"`)
		return c.Send(body)
	}
}

// FeatureCollection converts locations into GeoJSON point features.
// GeoJSON positions are [lng, lat].
func FeatureCollection(locs []domain.Location) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(locs))}
	for _, l := range locs {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       l.ID,
			Geometry: geom.NewPointFlat(geom.XY, []float64{l.Geo.Lng, l.Geo.Lat}),
			Properties: map[string]interface{}{
				"name":      l.Name,
				"rate":      l.Rate,
				"address":   l.Geo.Address,
				"createdAt": l.CreatedAt,
				"updatedAt": l.UpdatedAt,
			},
		})
	}
	return fc
}
