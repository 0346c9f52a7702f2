package usecases

import (
	"context"
	"strconv"
	"time"

	"github.com/samirrijal/traveltip/internal/core/domain"
	"github.com/samirrijal/traveltip/internal/pkg/geospatial"
)

// Palette is the fixed colour cycle used for pie segments.
var Palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2",
	"#59a14f", "#edc948", "#b07aa1", "#ff9da7",
}

// StatsService aggregates distributions over the whole location store.
// Filter and sort state never apply here.
type StatsService struct {
	locations *LocationService
	now       func() time.Time
}

// NewStatsService creates a new StatsService.
func NewStatsService(locations *LocationService, now func() time.Time) *StatsService {
	if now == nil {
		now = time.Now
	}
	return &StatsService{locations: locations, now: now}
}

// ByRating counts locations per rate, highest rate first.
func (s *StatsService) ByRating(ctx context.Context) (d domain.Distribution, err error) {
	ctx, span := tracer.Start(ctx, "StatsService.ByRating")
	defer func() { endSpan(span, err) }()

	locs, err := s.locations.List(ctx)
	if err != nil {
		return domain.Distribution{}, err
	}
	return RatingDistribution(locs), nil
}

// ByRecency counts locations per creation-age bucket.
func (s *StatsService) ByRecency(ctx context.Context) (d domain.Distribution, err error) {
	ctx, span := tracer.Start(ctx, "StatsService.ByRecency")
	defer func() { endSpan(span, err) }()

	locs, err := s.locations.List(ctx)
	if err != nil {
		return domain.Distribution{}, err
	}
	return RecencyDistribution(locs, s.now()), nil
}

// RatingDistribution buckets locs by rate in the order 5..1, omitting empty buckets.
func RatingDistribution(locs []domain.Location) domain.Distribution {
	var counts [domain.MaxRate + 1]int
	for _, l := range locs {
		if l.Rate >= domain.MinRate && l.Rate <= domain.MaxRate {
			counts[l.Rate]++
		}
	}

	var d domain.Distribution
	for rate := domain.MaxRate; rate >= domain.MinRate; rate-- {
		if counts[rate] == 0 {
			continue
		}
		d.Buckets = append(d.Buckets, domain.Bucket{Key: strconv.Itoa(rate), Count: counts[rate]})
		d.Total += counts[rate]
	}
	return d
}

// RecencyDistribution buckets locs by the age of CreatedAt relative to now.
func RecencyDistribution(locs []domain.Location, now time.Time) domain.Distribution {
	counts := make(map[geospatial.RecencyBucket]int, len(geospatial.RecencyOrder))
	for _, l := range locs {
		counts[geospatial.Recency(l.Created(), now)]++
	}

	var d domain.Distribution
	for _, b := range geospatial.RecencyOrder {
		if counts[b] == 0 {
			continue
		}
		d.Buckets = append(d.Buckets, domain.Bucket{Key: string(b), Count: counts[b]})
		d.Total += counts[b]
	}
	return d
}

// PieSegments turns d into consecutive wedges starting at 0 percent.
// An empty distribution yields no segments.
func PieSegments(d domain.Distribution) []domain.PieSegment {
	if d.Total <= 0 {
		return []domain.PieSegment{}
	}

	segs := make([]domain.PieSegment, 0, len(d.Buckets))
	start := 0.0
	for i, b := range d.Buckets {
		pct := 100 * float64(b.Count) / float64(d.Total)
		end := start + pct
		segs = append(segs, domain.PieSegment{
			Key:        b.Key,
			Count:      b.Count,
			Percent:    pct,
			Start:      start,
			End:        end,
			ColorIndex: i % len(Palette),
			Color:      Palette[i%len(Palette)],
		})
		start = end
	}
	return segs
}
