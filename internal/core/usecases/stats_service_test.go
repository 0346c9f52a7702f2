package usecases_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/samirrijal/traveltip/internal/core/domain"
	"github.com/samirrijal/traveltip/internal/core/usecases"
)

const pctEpsilon = 1e-9

func fixedNow() time.Time { return epoch }

func TestStatsService_ByRating_Example(t *testing.T) {
	store := seeded(t,
		domain.Location{ID: "a", Name: "a", Rate: 5},
		domain.Location{ID: "b", Name: "b", Rate: 5},
		domain.Location{ID: "c", Name: "c", Rate: 3},
	)
	stats := usecases.NewStatsService(store, fixedNow)

	d, err := stats.ByRating(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	out, _ := json.Marshal(d)
	if string(out) != `{"5":2,"3":1,"total":3}` {
		t.Errorf("unexpected distribution %s", out)
	}

	segs := usecases.PieSegments(d)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].Key != "5" || segs[0].Start != 0 || math.Abs(segs[0].End-66.67) > 0.01 {
		t.Errorf("unexpected first segment %+v", segs[0])
	}
	if segs[1].Key != "3" || segs[1].Start != segs[0].End || math.Abs(segs[1].End-100) > pctEpsilon {
		t.Errorf("unexpected second segment %+v", segs[1])
	}
	if segs[0].ColorIndex != 0 || segs[1].ColorIndex != 1 || segs[0].Color != usecases.Palette[0] {
		t.Errorf("unexpected colours %+v", segs)
	}
}

func TestStatsService_IgnoresFilter(t *testing.T) {
	store := seeded(t,
		domain.Location{ID: "a", Name: "Eiffel Tower", Rate: 5},
		domain.Location{ID: "b", Name: "Louvre", Rate: 4},
	)
	q := usecases.NewQueryService(store, nil)
	_, _ = q.SetFilter(domain.FilterPatch{Text: ptr("eiffel"), MinRate: ptr(5)})

	d, err := usecases.NewStatsService(store, fixedNow).ByRating(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if d.Total != 2 {
		t.Errorf("expected stats over all records, got total %d", d.Total)
	}
}

func TestRatingDistribution_SumsToTotal(t *testing.T) {
	var locs []domain.Location
	for i := 0; i < 23; i++ {
		locs = append(locs, domain.Location{ID: strconv.Itoa(i), Rate: i%5 + 1})
	}
	d := usecases.RatingDistribution(locs)

	sum := 0
	for _, b := range d.Buckets {
		if b.Count == 0 {
			t.Errorf("bucket %s should be omitted", b.Key)
		}
		sum += b.Count
	}
	if sum != d.Total || d.Total != 23 {
		t.Errorf("expected sum %d == total %d == 23", sum, d.Total)
	}
	if got := d.Keys(); len(got) != 5 || got[0] != "5" || got[4] != "1" {
		t.Errorf("expected keys 5..1, got %v", got)
	}

	segs := usecases.PieSegments(d)
	span := 0.0
	for _, s := range segs {
		span += s.End - s.Start
	}
	if math.Abs(span-100) > pctEpsilon {
		t.Errorf("expected segments to span 100, got %v", span)
	}
	if last := segs[len(segs)-1].End; math.Abs(last-100) > pctEpsilon {
		t.Errorf("expected last segment to end at 100, got %v", last)
	}
}

func TestStatsService_ByRecency(t *testing.T) {
	at := func(d time.Duration) int64 { return epoch.Add(-d).UnixMilli() }
	store := seeded(t,
		domain.Location{ID: "a", Name: "a", Rate: 1, CreatedAt: at(time.Hour)},
		domain.Location{ID: "b", Name: "b", Rate: 1, CreatedAt: at(10 * 24 * time.Hour)},
		domain.Location{ID: "c", Name: "c", Rate: 1, CreatedAt: at(100 * 24 * time.Hour)},
		domain.Location{ID: "d", Name: "d", Rate: 1, CreatedAt: at(400 * 24 * time.Hour)},
		domain.Location{ID: "e", Name: "e", Rate: 1, CreatedAt: at(time.Minute)},
	)
	d, err := usecases.NewStatsService(store, fixedNow).ByRecency(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	out, _ := json.Marshal(d)
	if string(out) != `{"today":2,"this month":1,"this year":1,"older":1,"total":5}` {
		t.Errorf("unexpected distribution %s", out)
	}
}

func TestRecencyDistribution_Sparse(t *testing.T) {
	locs := []domain.Location{
		{ID: "a", CreatedAt: epoch.Add(-500 * 24 * time.Hour).UnixMilli()},
	}
	d := usecases.RecencyDistribution(locs, epoch)
	if len(d.Buckets) != 1 || d.Buckets[0].Key != "older" || d.Total != 1 {
		t.Errorf("unexpected distribution %+v", d)
	}
}

func TestPieSegments_Empty(t *testing.T) {
	segs := usecases.PieSegments(domain.Distribution{})
	if segs == nil || len(segs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", segs)
	}

	d, err := usecases.NewStatsService(seeded(t), fixedNow).ByRating(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if d.Total != 0 || len(usecases.PieSegments(d)) != 0 {
		t.Errorf("expected empty stats, got %+v", d)
	}
}

func TestPieSegments_PaletteCycles(t *testing.T) {
	var d domain.Distribution
	for i := 0; i < len(usecases.Palette)+2; i++ {
		d.Buckets = append(d.Buckets, domain.Bucket{Key: strconv.Itoa(i), Count: 1})
		d.Total++
	}

	segs := usecases.PieSegments(d)
	n := len(usecases.Palette)
	if segs[n].ColorIndex != 0 || segs[n+1].ColorIndex != 1 {
		t.Errorf("expected colour index to wrap, got %d,%d", segs[n].ColorIndex, segs[n+1].ColorIndex)
	}
	if segs[n].Color != usecases.Palette[0] {
		t.Errorf("expected colour %s, got %s", usecases.Palette[0], segs[n].Color)
	}
}

func TestStatsService_LoadFailure(t *testing.T) {
	repo := &mockLocationRepo{
		loadAllFn: func(ctx context.Context) ([]domain.Location, error) {
			return nil, errors.New("boom")
		},
	}
	stats := usecases.NewStatsService(newStore(repo, &fakeClock{now: epoch}), fixedNow)

	if _, err := stats.ByRating(context.Background()); !errors.Is(err, domain.ErrPersistence) {
		t.Errorf("expected PersistenceError, got %v", err)
	}
	if _, err := stats.ByRecency(context.Background()); !errors.Is(err, domain.ErrPersistence) {
		t.Errorf("expected PersistenceError, got %v", err)
	}
}
