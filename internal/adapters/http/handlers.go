package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/traveltip/internal/core/domain"
	"github.com/samirrijal/traveltip/internal/core/usecases"
	"github.com/samirrijal/traveltip/internal/pkg/geospatial"
)

// ListLocationsHandler returns the current view (session filter and sort
// applied), optionally annotated with distance from lat/lng.
func ListLocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts, err := parseViewOptions(c, deps.DefaultUnit)
		if err != nil {
			return handleError(c, err)
		}

		view, err := deps.Query.View(c.UserContext())
		if err != nil {
			return handleError(c, err)
		}

		offset, limit := parsePage(c)
		pg := Pagination{Offset: offset, Limit: limit, Total: len(view)}
		items := usecases.Decorate(page(view, offset, limit), opts, deps.now())

		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: items, Pagination: pg})
	}
}

// CreateLocationHandler stores a new location from a Draft body.
func CreateLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var draft domain.Draft
		if err := decodeBody(c, &draft); err != nil {
			return handleError(c, err)
		}

		loc, err := deps.Locations.Create(c.UserContext(), draft)
		if err != nil {
			return handleError(c, err)
		}

		c.Location("/v1/locations/" + loc.ID)
		return c.Status(fiber.StatusCreated).JSON(loc)
	}
}

// GetLocationHandler returns a single location by id.
func GetLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		loc, err := deps.Locations.Read(c.UserContext(), c.Params("id"))
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(loc)
	}
}

// UpdateLocationHandler applies a partial update to name and/or rate.
func UpdateLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch domain.Patch
		if err := decodeBody(c, &patch); err != nil {
			return handleError(c, err)
		}

		loc, err := deps.Locations.Update(c.UserContext(), c.Params("id"), patch)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(loc)
	}
}

// DeleteLocationHandler removes a location.
func DeleteLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Locations.Delete(c.UserContext(), c.Params("id")); err != nil {
			return handleError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetFilterHandler returns the session filter.
func GetFilterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Query.Filter())
	}
}

// PutFilterHandler merges a partial filter into the session.
func PutFilterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch domain.FilterPatch
		if err := decodeBody(c, &patch); err != nil {
			return handleError(c, err)
		}

		f, err := deps.Query.SetFilter(patch)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(f)
	}
}

// GetSortHandler returns the session sort.
func GetSortHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Query.Sort())
	}
}

// PutSortHandler replaces the session sort, e.g. {"rate": -1}. An empty
// object restores store order.
func PutSortHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var spec domain.SortSpec
		if err := decodeBody(c, &spec); err != nil {
			return handleError(c, err)
		}

		if err := deps.Query.SetSort(spec); err != nil {
			return handleError(c, err)
		}
		return c.JSON(deps.Query.Sort())
	}
}

// RatingStatsHandler returns the count of locations per rating.
func RatingStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := deps.Stats.ByRating(c.UserContext())
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(usecases.StatsPanel{Distribution: d, Segments: usecases.PieSegments(d)})
	}
}

// RecencyStatsHandler returns the count of locations per creation recency.
func RecencyStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := deps.Stats.ByRecency(c.UserContext())
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(usecases.StatsPanel{Distribution: d, Segments: usecases.PieSegments(d)})
	}
}

// DashboardHandler returns the complete view model for one render.
func DashboardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts, err := parseViewOptions(c, deps.DefaultUnit)
		if err != nil {
			return handleError(c, err)
		}

		dash, err := deps.Dashboard.Build(c.UserContext(), opts)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(dash)
	}
}

// DistanceResponse is the great-circle distance between two points.
type DistanceResponse struct {
	From     geospatial.Point `json:"from"`
	To       geospatial.Point `json:"to"`
	Distance float64          `json:"distance"`
	Unit     geospatial.Unit  `json:"unit"`
}

// DistanceHandler computes the distance between two coordinates.
func DistanceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, err := queryPoint(c, "from_lat", "from_lng")
		if err != nil {
			return handleError(c, err)
		}
		to, err := queryPoint(c, "to_lat", "to_lng")
		if err != nil {
			return handleError(c, err)
		}
		if from == nil || to == nil {
			return errBadRequest(c, "from_lat, from_lng, to_lat and to_lng are required")
		}
		unit, err := parseUnit(c, deps.DefaultUnit)
		if err != nil {
			return handleError(c, err)
		}

		return c.JSON(DistanceResponse{
			From:     *from,
			To:       *to,
			Distance: geospatial.Distance(*from, *to, unit),
			Unit:     unit,
		})
	}
}

// parseViewOptions reads the optional viewer position and display unit.
func parseViewOptions(c *fiber.Ctx, def geospatial.Unit) (usecases.ViewOptions, error) {
	pos, err := queryPoint(c, "lat", "lng")
	if err != nil {
		return usecases.ViewOptions{}, err
	}
	unit, err := parseUnit(c, def)
	if err != nil {
		return usecases.ViewOptions{}, err
	}
	return usecases.ViewOptions{Position: pos, Unit: unit}, nil
}

// queryPoint parses a coordinate pair. Both absent yields nil; one absent,
// non-numeric or non-finite values are validation errors.
func queryPoint(c *fiber.Ctx, latKey, lngKey string) (*geospatial.Point, error) {
	rawLat, rawLng := c.Query(latKey), c.Query(lngKey)
	if rawLat == "" && rawLng == "" {
		return nil, nil
	}

	lat, err := parseCoord(latKey, rawLat, 90)
	if err != nil {
		return nil, err
	}
	lng, err := parseCoord(lngKey, rawLng, 180)
	if err != nil {
		return nil, err
	}
	return &geospatial.Point{Lat: lat, Lng: lng}, nil
}

func parseCoord(key, raw string, bound float64) (float64, error) {
	if raw == "" {
		return 0, &domain.ValidationError{Field: key, Reason: "is required"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &domain.ValidationError{Field: key, Reason: "must be a finite number"}
	}
	if math.Abs(v) > bound {
		return 0, &domain.ValidationError{Field: key, Reason: fmt.Sprintf("must be within ±%g", bound)}
	}
	return v, nil
}

func parseUnit(c *fiber.Ctx, def geospatial.Unit) (geospatial.Unit, error) {
	raw := c.Query("unit")
	if raw == "" {
		return def, nil
	}
	u, err := geospatial.ParseUnit(raw)
	if err != nil {
		return "", &domain.ValidationError{Field: "unit", Reason: err.Error()}
	}
	return u, nil
}

// decodeBody unmarshals a JSON body. Validation errors raised by custom
// unmarshalers pass through so they keep their field.
func decodeBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return &domain.ValidationError{Field: "body", Reason: "must not be empty"}
	}
	if err := json.Unmarshal(body, v); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		return &domain.ValidationError{Field: "body", Reason: "invalid JSON"}
	}
	return nil
}
