package domain

import (
	"time"
)

// Direction expresses which way a movement in an indicator is considered
// favorable from a cost perspective.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// Metadata describes an indicator independently of its data: where it comes
// from, how to label it, and how to interpret its movements.
type Metadata struct {
	ID                 string    `json:"id" validate:"required"`
	Name               string    `json:"name" validate:"required"`
	Source             string    `json:"source"`
	Unit               string    `json:"unit"`
	Description        string    `json:"description"`
	PreferredDirection Direction `json:"preferred_direction" validate:"oneof=up down neutral"`
}

// Indicator is a named economic time series with metadata.
// Synthetic marks placeholder data generated when no source file was found;
// synthetic indicators must never be presented as real observations.
type Indicator struct {
	Metadata
	Synthetic  bool      `json:"synthetic"`
	DataSource string    `json:"data_source"` // human-readable provenance, e.g. the file it was loaded from
	LoadedAt   time.Time `json:"loaded_at"`
	Series     *Series   `json:"series" validate:"required"`
}

// LastUpdated returns the timestamp of the latest observation,
// or the zero time for an empty indicator.
func (ind *Indicator) LastUpdated() time.Time {
	if ind.Series == nil {
		return time.Time{}
	}
	last, ok := ind.Series.Last()
	if !ok {
		return time.Time{}
	}
	return last.Time
}

// Empty reports whether the indicator carries no observations.
func (ind *Indicator) Empty() bool {
	return ind.Series == nil || ind.Series.Empty()
}
