package usecases

import (
	"context"
	"math"
	"time"

	"github.com/samirrijal/traveltip/internal/core/domain"
	"github.com/samirrijal/traveltip/internal/pkg/geospatial"
)

// ViewOptions carries the ephemeral viewer state used to decorate a view.
// Position is never stored.
type ViewOptions struct {
	Position *geospatial.Point
	Unit     geospatial.Unit
}

// LocationView is a location as presented in the list.
type LocationView struct {
	domain.Location
	Distance       *float64        `json:"distance,omitempty"`
	Unit           geospatial.Unit `json:"unit,omitempty"`
	CreatedElapsed string          `json:"createdElapsed"`
	UpdatedElapsed string          `json:"updatedElapsed"`
	Edited         bool            `json:"edited"`
}

// StatsPanel is a distribution with its chart geometry.
type StatsPanel struct {
	Distribution domain.Distribution `json:"distribution"`
	Segments     []domain.PieSegment `json:"segments"`
}

// Dashboard is the full view model for one render.
type Dashboard struct {
	Locations []LocationView    `json:"locations"`
	Filter    domain.FilterSpec `json:"filter"`
	Sort      domain.SortSpec   `json:"sort"`
	ByRating  StatsPanel        `json:"byRating"`
	ByRecency StatsPanel        `json:"byRecency"`
}

// DashboardService composes the query view and both statistics panels.
type DashboardService struct {
	locations *LocationService
	query     *QueryService
	now       func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(locations *LocationService, query *QueryService, now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{locations: locations, query: query, now: now}
}

// Build renders the current view. Stats cover every location; the list
// follows the session filter and sort. Both come from one store snapshot.
func (s *DashboardService) Build(ctx context.Context, opts ViewOptions) (dash Dashboard, err error) {
	ctx, span := tracer.Start(ctx, "DashboardService.Build")
	defer func() { endSpan(span, err) }()

	all, err := s.locations.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	filter, sort := s.query.Filter(), s.query.Sort()
	view := Apply(all, filter, sort)

	now := s.now()
	byRating := RatingDistribution(all)
	byRecency := RecencyDistribution(all, now)

	return Dashboard{
		Locations: Decorate(view, opts, now),
		Filter:    filter,
		Sort:      sort,
		ByRating:  StatsPanel{Distribution: byRating, Segments: PieSegments(byRating)},
		ByRecency: StatsPanel{Distribution: byRecency, Segments: PieSegments(byRecency)},
	}, nil
}

// Decorate attaches elapsed labels and, when a position is given, distance.
func Decorate(locs []domain.Location, opts ViewOptions, now time.Time) []LocationView {
	unit := opts.Unit
	if unit == "" {
		unit = geospatial.Kilometers
	}

	out := make([]LocationView, len(locs))
	for i, l := range locs {
		v := LocationView{
			Location:       l,
			CreatedElapsed: geospatial.Elapsed(l.Created(), now),
			UpdatedElapsed: geospatial.Elapsed(l.Updated(), now),
			Edited:         l.Edited(),
		}
		if opts.Position != nil {
			d := geospatial.Distance(*opts.Position, l.Geo.Point(), unit)
			if !math.IsNaN(d) {
				v.Distance = &d
				v.Unit = unit
			}
		}
		out[i] = v
	}
	return out
}
