package usecases

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/samirrijal/traveltip/internal/core/domain"
)

// QueryService produces filtered and sorted views of the location store.
// The filter and sort state live in the session it owns.
type QueryService struct {
	locations *LocationService
	session   *domain.Session
}

// NewQueryService creates a new QueryService. A nil session starts a fresh one.
func NewQueryService(locations *LocationService, session *domain.Session) *QueryService {
	if session == nil {
		session = domain.NewSession()
	}
	return &QueryService{locations: locations, session: session}
}

// SetFilter merges p into the current filter and returns the full result.
func (s *QueryService) SetFilter(p domain.FilterPatch) (domain.FilterSpec, error) {
	return s.session.UpdateFilter(p)
}

func (s *QueryService) Filter() domain.FilterSpec { return s.session.Filter() }

// SetSort replaces the current sort. The zero SortSpec restores store order.
func (s *QueryService) SetSort(spec domain.SortSpec) error {
	return s.session.SetSort(spec)
}

func (s *QueryService) Sort() domain.SortSpec { return s.session.Sort() }

// View lists the store, keeps the records matching the current filter and
// stable-sorts them by the current sort key.
func (s *QueryService) View(ctx context.Context) (out []domain.Location, err error) {
	ctx, span := tracer.Start(ctx, "QueryService.View")
	defer func() { endSpan(span, err) }()

	locs, err := s.locations.List(ctx)
	if err != nil {
		return nil, err
	}
	return Apply(locs, s.session.Filter(), s.session.Sort()), nil
}

// Apply filters and sorts a snapshot without touching the input slice.
func Apply(locs []domain.Location, f domain.FilterSpec, spec domain.SortSpec) []domain.Location {
	out := ApplyFilter(locs, f)
	ApplySort(out, spec)
	return out
}

// ApplyFilter returns the records whose name contains f.Text, compared with
// Unicode case folding, and whose rate is at least f.MinRate.
func ApplyFilter(locs []domain.Location, f domain.FilterSpec) []domain.Location {
	fold := cases.Fold()
	needle := fold.String(f.Text)

	out := make([]domain.Location, 0, len(locs))
	for _, l := range locs {
		if l.Rate < f.MinRate {
			continue
		}
		if needle != "" && !strings.Contains(fold.String(l.Name), needle) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// ApplySort sorts locs in place. Equal keys keep their relative order.
func ApplySort(locs []domain.Location, spec domain.SortSpec) {
	if spec.IsZero() {
		return
	}
	key := compareBy(spec.Field)
	if key == nil {
		return
	}
	slices.SortStableFunc(locs, func(a, b domain.Location) int {
		return key(a, b) * spec.Dir
	})
}

func compareBy(field domain.SortField) func(a, b domain.Location) int {
	switch field {
	case domain.SortByName:
		return func(a, b domain.Location) int { return strings.Compare(a.Name, b.Name) }
	case domain.SortByRate:
		return func(a, b domain.Location) int { return cmp.Compare(a.Rate, b.Rate) }
	case domain.SortByCreatedAt:
		return func(a, b domain.Location) int { return cmp.Compare(a.CreatedAt, b.CreatedAt) }
	case domain.SortByUpdatedAt:
		return func(a, b domain.Location) int { return cmp.Compare(a.UpdatedAt, b.UpdatedAt) }
	}
	return nil
}
