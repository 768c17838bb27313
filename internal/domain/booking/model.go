package booking

import (
	"errors"
	"time"
)

// Booking status constants
const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// Domain errors
var (
	ErrEmptyMemberID    = errors.New("booking must have a member")
	ErrEmptyClassID     = errors.New("booking must have a class")
	ErrInvalidStatus    = errors.New("status must be one of: confirmed, pending, cancelled")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)

// Booking is a member's reservation of a seat in a scheduled class.
type Booking struct {
	ID       string
	MemberID string
	ClassID  string
	Status   string
	BookedAt time.Time
}

// Validate checks if the Booking has valid data.
func (b *Booking) Validate() error {
	if b.MemberID == "" {
		return ErrEmptyMemberID
	}
	if b.ClassID == "" {
		return ErrEmptyClassID
	}
	if b.Status != StatusConfirmed && b.Status != StatusPending && b.Status != StatusCancelled {
		return ErrInvalidStatus
	}
	return nil
}

// Cancel transitions the booking to cancelled.
// POST: Status is cancelled; ErrAlreadyCancelled on re-cancel
func (b *Booking) Cancel() error {
	if b.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	b.Status = StatusCancelled
	return nil
}

// IsLive returns true for bookings that hold a seat (confirmed or pending).
// INVARIANT: Booking fields are not mutated
func (b *Booking) IsLive() bool {
	return b.Status == StatusConfirmed || b.Status == StatusPending
}
