package booking

import (
	"context"

	domain "gymdesk/internal/domain/booking"
)

// ListFilter narrows and pages booking listings.
type ListFilter struct {
	Limit    int
	Offset   int
	MemberID string
	ClassID  string
	Status   string
	Sort     string
	Dir      string
}

// Store persists Booking state. Seat accounting lives in the class
// store; this store only reads and updates booking rows directly.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Booking, error)
	GetLive(ctx context.Context, memberID, classID string) (domain.Booking, error)
	Save(ctx context.Context, value domain.Booking) error
	Count(ctx context.Context, filter ListFilter) (int, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Booking, error)
}
