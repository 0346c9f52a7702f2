package domain

import (
	"encoding/json"
	"fmt"
	"sync"
)

// FilterSpec selects the locations shown in a view.
type FilterSpec struct {
	Text    string `json:"txt"`
	MinRate int    `json:"minRate"`
}

// FilterPatch is a partial FilterSpec; nil fields keep their current value.
type FilterPatch struct {
	Text    *string `json:"txt,omitempty"`
	MinRate *int    `json:"minRate,omitempty"`
}

// Merge applies p over f.
func (p FilterPatch) Merge(f FilterSpec) (FilterSpec, error) {
	if p.Text != nil {
		f.Text = *p.Text
	}
	if p.MinRate != nil {
		if *p.MinRate < 0 || *p.MinRate > MaxRate {
			return f, &ValidationError{Field: "minRate", Reason: "must be between 0 and 5"}
		}
		f.MinRate = *p.MinRate
	}
	return f, nil
}

// SortField names a sortable location field.
type SortField string

const (
	SortByName      SortField = "name"
	SortByRate      SortField = "rate"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

func (f SortField) valid() bool {
	switch f {
	case SortByName, SortByRate, SortByCreatedAt, SortByUpdatedAt:
		return true
	}
	return false
}

// SortSpec orders a view by one field. The zero value means store order.
// On the wire it is the single-key object {"rate": -1}; {} means no sort.
type SortSpec struct {
	Field SortField
	Dir   int
}

// IsZero reports whether no sort key is set.
func (s SortSpec) IsZero() bool { return s.Field == "" }

// Validate checks the field name and direction of a non-empty spec.
func (s SortSpec) Validate() error {
	if s.IsZero() {
		return nil
	}
	if !s.Field.valid() {
		return &ValidationError{Field: "sort", Reason: fmt.Sprintf("unknown field %q", s.Field)}
	}
	if s.Dir != 1 && s.Dir != -1 {
		return &ValidationError{Field: "sort", Reason: "direction must be 1 or -1"}
	}
	return nil
}

func (s SortSpec) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]int{string(s.Field): s.Dir})
}

func (s *SortSpec) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) > 1 {
		return &ValidationError{Field: "sort", Reason: "at most one sort key"}
	}
	*s = SortSpec{}
	for k, v := range m {
		*s = SortSpec{Field: SortField(k), Dir: v}
	}
	return s.Validate()
}

// Session holds the filter and sort state of one viewer.
type Session struct {
	mu     sync.Mutex
	filter FilterSpec
	sort   SortSpec
}

// NewSession returns a session with the default filter and no sort.
func NewSession() *Session {
	return &Session{}
}

func (s *Session) Filter() FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// UpdateFilter merges p into the current filter and returns the result.
// An invalid patch leaves the filter unchanged.
func (s *Session) UpdateFilter(p FilterPatch) (FilterSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := p.Merge(s.filter)
	if err != nil {
		return s.filter, err
	}
	s.filter = next
	return next, nil
}

func (s *Session) Sort() SortSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// SetSort replaces the sort spec wholesale.
func (s *Session) SetSort(spec SortSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.sort = spec
	s.mu.Unlock()
	return nil
}
