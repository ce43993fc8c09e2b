package store

import (
	"errors"
	"time"

	"github.com/sadopc/brainrot/internal/usage"
)

// ErrInvalidSample is returned when a sample cannot be persisted as given.
var ErrInvalidSample = errors.New("invalid usage sample")

type Setting struct {
	Key   string
	Value string
}

// CategoryAssignment is a persisted classifier choice.
type CategoryAssignment struct {
	App      string
	Category usage.Category
}

// SampleFilter is used to filter samples in listings.
type SampleFilter struct {
	App   string
	From  *time.Time
	To    *time.Time
	Limit int
}
