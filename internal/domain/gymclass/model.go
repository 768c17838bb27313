package gymclass

import (
	"errors"
	"strings"
	"time"
)

// Class status constants
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusCancelled = "cancelled"
)

// Difficulty levels
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// ValidDifficulties contains all valid difficulty levels.
var ValidDifficulties = []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

// Domain errors
var (
	ErrEmptyName        = errors.New("class name cannot be empty")
	ErrEmptyTrainer     = errors.New("class must have a trainer")
	ErrInvalidSchedule  = errors.New("schedule must be set")
	ErrInvalidDuration  = errors.New("duration must be between 15 and 240 minutes")
	ErrInvalidCapacity  = errors.New("max capacity must be between 1 and 200")
	ErrInvalidDifficulty = errors.New("difficulty must be one of: beginner, intermediate, advanced")
	ErrAlreadyCancelled = errors.New("class is already cancelled")
	ErrClassFull        = errors.New("class is full")
	ErrClassNotOpen     = errors.New("class is not open for booking")
)

// Class holds a scheduled gym class.
// INVARIANT: CurrentEnrollment never exceeds MaxCapacity — enforced by
// the store's conditional enrollment update, not by callers.
type Class struct {
	ID                string
	Name              string
	TrainerID         string
	Schedule          time.Time
	DurationMinutes   int
	MaxCapacity       int
	CurrentEnrollment int
	Location          string
	ClassType         string
	Difficulty        string
	Description       string
	Status            string
}

// Validate checks if the Class has valid data.
// PRE: Class struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Class) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.TrainerID == "" {
		return ErrEmptyTrainer
	}
	if c.Schedule.IsZero() {
		return ErrInvalidSchedule
	}
	if c.DurationMinutes < 15 || c.DurationMinutes > 240 {
		return ErrInvalidDuration
	}
	if c.MaxCapacity < 1 || c.MaxCapacity > 200 {
		return ErrInvalidCapacity
	}
	if !isValidDifficulty(c.Difficulty) {
		return ErrInvalidDifficulty
	}
	return nil
}

// Cancel transitions the class to cancelled.
// POST: Status is cancelled; returns ErrAlreadyCancelled on re-cancel
func (c *Class) Cancel() error {
	if c.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	c.Status = StatusCancelled
	return nil
}

// IsUpcoming returns true if the class is active and scheduled after now.
// INVARIANT: Class fields are not mutated
func (c *Class) IsUpcoming(now time.Time) bool {
	return c.Status == StatusActive && c.Schedule.After(now)
}

// SeatsLeft returns the remaining capacity, never negative.
func (c *Class) SeatsLeft() int {
	left := c.MaxCapacity - c.CurrentEnrollment
	if left < 0 {
		return 0
	}
	return left
}

// CanBook reports whether a booking attempt should even reach the store.
// The store's conditional update remains the authority under concurrency.
func (c *Class) CanBook(now time.Time) error {
	if !c.IsUpcoming(now) {
		return ErrClassNotOpen
	}
	if c.SeatsLeft() == 0 {
		return ErrClassFull
	}
	return nil
}

// IsValidationError reports whether err is one of the field validation
// errors this package returns, as opposed to a storage failure.
func IsValidationError(err error) bool {
	for _, v := range []error{ErrEmptyName, ErrEmptyTrainer, ErrInvalidSchedule, ErrInvalidDuration, ErrInvalidCapacity, ErrInvalidDifficulty} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

func isValidDifficulty(d string) bool {
	for _, v := range ValidDifficulties {
		if v == d {
			return true
		}
	}
	return false
}
