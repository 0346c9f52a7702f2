package valkey

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/valkey-io/valkey-go"

	"github.com/samirrijal/traveltip/internal/core/domain"
)

// DefaultKey is the hash holding all locations.
const DefaultKey = "traveltip:locations"

// LocationRepo implements ports.LocationRepository on a Valkey hash keyed by
// location id.
type LocationRepo struct {
	client valkey.Client
	key    string
}

// New creates a new Valkey-backed repository.
func New(addr, key string) (*LocationRepo, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	if key == "" {
		key = DefaultKey
	}
	return &LocationRepo{client: client, key: key}, nil
}

// entry is the hash value: the record plus its position in the collection.
type entry struct {
	Position int             `json:"position"`
	Location domain.Location `json:"location"`
}

// LoadAll reads the hash and restores saved order.
func (r *LocationRepo) LoadAll(ctx context.Context) ([]domain.Location, error) {
	fields, err := r.client.Do(ctx, r.client.B().Hgetall().Key(r.key).Build()).AsStrMap()
	if err != nil {
		return nil, fmt.Errorf("valkey hgetall %s: %w", r.key, err)
	}
	return decodeEntries(fields)
}

// SaveAll replaces the hash atomically with MULTI/EXEC.
func (r *LocationRepo) SaveAll(ctx context.Context, locs []domain.Location) error {
	fields, err := encodeEntries(locs)
	if err != nil {
		return err
	}

	return r.client.Dedicated(func(c valkey.DedicatedClient) error {
		cmds := valkey.Commands{
			c.B().Multi().Build(),
			c.B().Del().Key(r.key).Build(),
		}
		if len(fields) > 0 {
			hset := c.B().Hset().Key(r.key).FieldValue()
			for _, id := range slices.Sorted(maps.Keys(fields)) {
				hset = hset.FieldValue(id, fields[id])
			}
			cmds = append(cmds, hset.Build())
		}
		cmds = append(cmds, c.B().Exec().Build())

		for _, resp := range c.DoMulti(ctx, cmds...) {
			if err := resp.Error(); err != nil {
				return fmt.Errorf("valkey save %s: %w", r.key, err)
			}
		}
		return nil
	})
}

// Ping checks the server is reachable.
func (r *LocationRepo) Ping(ctx context.Context) error {
	return r.client.Do(ctx, r.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (r *LocationRepo) Close() {
	r.client.Close()
}

func encodeEntries(locs []domain.Location) (map[string]string, error) {
	fields := make(map[string]string, len(locs))
	for i, l := range locs {
		b, err := json.Marshal(entry{Position: i, Location: l})
		if err != nil {
			return nil, fmt.Errorf("encode location %s: %w", l.ID, err)
		}
		fields[l.ID] = string(b)
	}
	return fields, nil
}

func decodeEntries(fields map[string]string) ([]domain.Location, error) {
	entries := make([]entry, 0, len(fields))
	for id, raw := range fields {
		var e entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("decode location %s: %w", id, err)
		}
		e.Location.ID = id
		entries = append(entries, e)
	}

	slices.SortFunc(entries, func(a, b entry) int {
		if a.Position != b.Position {
			return a.Position - b.Position
		}
		return strings.Compare(a.Location.ID, b.Location.ID)
	})

	locs := make([]domain.Location, len(entries))
	for i, e := range entries {
		locs[i] = e.Location
	}
	return locs, nil
}
