package domain

import (
	"strings"
	"time"
)

// Rating bounds.
const (
	MinRate = 1
	MaxRate = 5
)

// Location is a bookmarked place. Timestamps are epoch milliseconds.
type Location struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Rate      int    `json:"rate"`
	Geo       Geo    `json:"geo"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Created returns CreatedAt as a time.Time.
func (l Location) Created() time.Time { return time.UnixMilli(l.CreatedAt) }

// Updated returns UpdatedAt as a time.Time.
func (l Location) Updated() time.Time { return time.UnixMilli(l.UpdatedAt) }

// Edited reports whether the location was updated after creation.
func (l Location) Edited() bool { return l.UpdatedAt != l.CreatedAt }

// Draft is the user input for a new location.
type Draft struct {
	Name string `json:"name"`
	Rate int    `json:"rate"`
	Geo  Geo    `json:"geo"`
}

// Validate checks the user-editable fields.
func (d Draft) Validate() error {
	if err := validateName(d.Name); err != nil {
		return err
	}
	return validateRate(d.Rate)
}

// Patch holds the user-editable fields of an update. Nil fields are left as is.
type Patch struct {
	Name *string `json:"name,omitempty"`
	Rate *int    `json:"rate,omitempty"`
}

// Validate checks the fields that are set.
func (p Patch) Validate() error {
	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return err
		}
	}
	if p.Rate != nil {
		return validateRate(*p.Rate)
	}
	return nil
}

// Apply writes the patch onto l.
func (p Patch) Apply(l *Location) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Rate != nil {
		l.Rate = *p.Rate
	}
}

// ValidateLocation checks a full record, as used by bulk import.
func ValidateLocation(l Location) error {
	if err := validateName(l.Name); err != nil {
		return err
	}
	if err := validateRate(l.Rate); err != nil {
		return err
	}
	if l.UpdatedAt != 0 && l.UpdatedAt < l.CreatedAt {
		return &ValidationError{Field: "updatedAt", Reason: "must not precede createdAt"}
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

func validateRate(rate int) error {
	if rate < MinRate || rate > MaxRate {
		return &ValidationError{Field: "rate", Reason: "must be between 1 and 5"}
	}
	return nil
}
