package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/traveltip/internal/core/domain"
	"github.com/samirrijal/traveltip/internal/core/ports"
	"github.com/samirrijal/traveltip/internal/pkg/metrics"
)

// LocationService owns the canonical set of locations and writes every
// mutation through to the repository before committing it in memory.
type LocationService struct {
	repo   ports.LocationRepository
	now    func() time.Time
	newID  func() string
	logger *slog.Logger

	mu     sync.Mutex
	locs   []domain.Location
	loaded bool
}

// LocationOption customises a LocationService.
type LocationOption func(*LocationService)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) LocationOption {
	return func(s *LocationService) { s.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(gen func() string) LocationOption {
	return func(s *LocationService) { s.newID = gen }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) LocationOption {
	return func(s *LocationService) { s.logger = l }
}

// NewLocationService creates a new LocationService. Nothing is read from the
// repository until the first operation.
func NewLocationService(repo ports.LocationRepository, opts ...LocationOption) *LocationService {
	s := &LocationService{
		repo:   repo,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the in-memory set with the repository contents.
func (s *LocationService) Load(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "LocationService.Load")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Create validates the draft, assigns an id and timestamps and persists it.
func (s *LocationService) Create(ctx context.Context, draft domain.Draft) (loc domain.Location, err error) {
	ctx, span := tracer.Start(ctx, "LocationService.Create")
	defer func() {
		metrics.ObserveMutation("create", err)
		endSpan(span, err)
	}()

	if err := draft.Validate(); err != nil {
		return domain.Location{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Location{}, err
	}

	now := s.now().UnixMilli()
	loc = domain.Location{
		ID:        s.newID(),
		Name:      draft.Name,
		Rate:      draft.Rate,
		Geo:       draft.Geo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	span.SetAttributes(attribute.String("location.id", loc.ID))

	next := append(slices.Clone(s.locs), loc)
	if err := s.commit(ctx, "create", next); err != nil {
		return domain.Location{}, err
	}

	s.logger.DebugContext(ctx, "location created", "id", loc.ID, "rate", loc.Rate)
	return loc, nil
}

// Read returns the location with the given id.
func (s *LocationService) Read(ctx context.Context, id string) (loc domain.Location, err error) {
	ctx, span := tracer.Start(ctx, "LocationService.Read")
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Location{}, err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Location{}, &domain.NotFoundError{ID: id}
	}
	return s.locs[idx], nil
}

// Update applies the patch to name and/or rate and refreshes UpdatedAt.
// The id, creation time and geo are never changed.
func (s *LocationService) Update(ctx context.Context, id string, patch domain.Patch) (loc domain.Location, err error) {
	ctx, span := tracer.Start(ctx, "LocationService.Update", withID(id))
	defer func() {
		metrics.ObserveMutation("update", err)
		endSpan(span, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Location{}, err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Location{}, &domain.NotFoundError{ID: id}
	}
	if err := patch.Validate(); err != nil {
		return domain.Location{}, err
	}

	loc = s.locs[idx]
	patch.Apply(&loc)
	loc.UpdatedAt = max(s.now().UnixMilli(), loc.UpdatedAt)

	next := slices.Clone(s.locs)
	next[idx] = loc
	if err := s.commit(ctx, "update", next); err != nil {
		return domain.Location{}, err
	}

	s.logger.DebugContext(ctx, "location updated", "id", id)
	return loc, nil
}

// Delete removes the location. Deleting an unknown id fails.
func (s *LocationService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracer.Start(ctx, "LocationService.Delete", withID(id))
	defer func() {
		metrics.ObserveMutation("delete", err)
		endSpan(span, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return &domain.NotFoundError{ID: id}
	}

	next := slices.Delete(slices.Clone(s.locs), idx, idx+1)
	if err := s.commit(ctx, "delete", next); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "location deleted", "id", id)
	return nil
}

// List returns a copy of all locations in insertion order.
func (s *LocationService) List(ctx context.Context) ([]domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(s.locs), nil
}

// Import appends a batch of locations with a single write-through. Missing ids
// and timestamps are filled in; duplicate ids reject the whole batch.
func (s *LocationService) Import(ctx context.Context, batch []domain.Location) (imported []domain.Location, err error) {
	ctx, span := tracer.Start(ctx, "LocationService.Import",
		attributeInt("import.size", len(batch)))
	defer func() {
		metrics.ObserveMutation("import", err)
		endSpan(span, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(s.locs)+len(batch))
	for _, l := range s.locs {
		seen[l.ID] = struct{}{}
	}

	now := s.now().UnixMilli()
	imported = make([]domain.Location, 0, len(batch))
	for i, l := range batch {
		if err := domain.ValidateLocation(l); err != nil {
			return nil, fmt.Errorf("location %d: %w", i, err)
		}
		if l.ID == "" {
			l.ID = s.newID()
		}
		if _, dup := seen[l.ID]; dup {
			return nil, &domain.ValidationError{Field: "id", Reason: fmt.Sprintf("duplicate id %q", l.ID)}
		}
		seen[l.ID] = struct{}{}
		if l.CreatedAt == 0 {
			l.CreatedAt = now
		}
		if l.UpdatedAt == 0 {
			l.UpdatedAt = l.CreatedAt
		}
		imported = append(imported, l)
	}

	next := append(slices.Clone(s.locs), imported...)
	if err := s.commit(ctx, "import", next); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "locations imported", "count", len(imported))
	return imported, nil
}

// Loaded reports whether the repository has been read successfully.
func (s *LocationService) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *LocationService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.load(ctx)
}

func (s *LocationService) load(ctx context.Context) error {
	locs, err := s.repo.LoadAll(ctx)
	if err != nil {
		metrics.PersistenceErrors.WithLabelValues("load").Inc()
		s.logger.ErrorContext(ctx, "load locations failed", "error", err)
		return &domain.PersistenceError{Op: "load", Err: err}
	}
	s.locs = slices.Clone(locs)
	s.loaded = true
	metrics.LocationsStored.Set(float64(len(s.locs)))
	return nil
}

// commit persists next and only then makes it the current state.
func (s *LocationService) commit(ctx context.Context, op string, next []domain.Location) error {
	if err := s.repo.SaveAll(ctx, next); err != nil {
		metrics.PersistenceErrors.WithLabelValues(op).Inc()
		s.logger.ErrorContext(ctx, "save locations failed", "op", op, "error", err)
		return &domain.PersistenceError{Op: op, Err: err}
	}
	s.locs = next
	metrics.LocationsStored.Set(float64(len(next)))
	return nil
}

func (s *LocationService) indexOf(id string) int {
	return slices.IndexFunc(s.locs, func(l domain.Location) bool { return l.ID == id })
}
