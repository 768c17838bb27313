package equipment

import (
	"errors"
	"strings"
	"time"
)

// Equipment status constants
const (
	StatusActive      = "active"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
)

// Domain errors
var (
	ErrEmptyName     = errors.New("equipment name cannot be empty")
	ErrInvalidStatus = errors.New("status must be one of: active, maintenance, retired")
	ErrRetired       = errors.New("retired equipment cannot change status")
)

// Equipment tracks a physical asset and its maintenance schedule.
type Equipment struct {
	ID              string
	Name            string
	Brand           string
	PurchaseDate    time.Time
	LastMaintenance time.Time
	NextMaintenance time.Time
	Status          string
	Location        string
}

// Validate checks if the Equipment has valid data.
func (e *Equipment) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if e.Status != StatusActive && e.Status != StatusMaintenance && e.Status != StatusRetired {
		return ErrInvalidStatus
	}
	return nil
}

// IsValidationError reports whether err is one of the field validation
// errors this package returns, as opposed to a storage failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyName) || errors.Is(err, ErrInvalidStatus)
}

// IsMaintenanceDue returns true if the next maintenance date has passed.
// INVARIANT: Equipment fields are not mutated
func (e *Equipment) IsMaintenanceDue(now time.Time) bool {
	if e.Status == StatusRetired || e.NextMaintenance.IsZero() {
		return false
	}
	return !now.Before(e.NextMaintenance)
}

// RecordMaintenance stamps a completed service and schedules the next one.
// PRE: Equipment is not retired
// POST: LastMaintenance=now, NextMaintenance=now+interval, Status=active
func (e *Equipment) RecordMaintenance(now time.Time, interval time.Duration) error {
	if e.Status == StatusRetired {
		return ErrRetired
	}
	e.LastMaintenance = now
	e.NextMaintenance = now.Add(interval)
	e.Status = StatusActive
	return nil
}

// Retire soft-deletes the asset. Retired rows stay for reporting.
func (e *Equipment) Retire() {
	e.Status = StatusRetired
}
