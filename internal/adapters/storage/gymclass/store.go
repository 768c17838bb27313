package gymclass

import (
	"context"
	"time"

	bookingdomain "gymdesk/internal/domain/booking"
	domain "gymdesk/internal/domain/gymclass"
)

// ListFilter narrows and pages class listings. UpcomingAfter, when set,
// restricts results to active classes scheduled after that instant.
type ListFilter struct {
	Limit         int
	Offset        int
	Status        string
	ClassType     string
	Difficulty    string
	TrainerID     string
	UpcomingAfter time.Time
	Search        string
	Sort          string
	Dir           string
}

// Store persists Class state and owns the enrollment counter.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Class, error)
	Save(ctx context.Context, value domain.Class) error
	Count(ctx context.Context, filter ListFilter) (int, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Class, error)

	// ReserveSeat atomically increments enrollment and inserts the booking.
	// Returns gymclass.ErrClassFull when the class is at capacity.
	ReserveSeat(ctx context.Context, b bookingdomain.Booking) error
	// ReleaseSeat cancels the booking and decrements enrollment, never
	// below zero.
	ReleaseSeat(ctx context.Context, bookingID string) error
	// CancelWithBookings cancels the class and every live booking on it.
	// Idempotent: cancelling an already-cancelled class changes nothing.
	CancelWithBookings(ctx context.Context, classID string) error
}
