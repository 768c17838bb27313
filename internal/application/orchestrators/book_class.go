package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/domain/booking"
	"gymdesk/internal/domain/member"
)

// BookingStoreForBooking defines the booking reads the orchestrators need.
type BookingStoreForBooking interface {
	GetByID(ctx context.Context, id string) (booking.Booking, error)
	GetLive(ctx context.Context, memberID, classID string) (booking.Booking, error)
}

// MemberStoreForBooking resolves the member placing the booking.
type MemberStoreForBooking interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// BookClassInput carries input for the booking orchestrator.
type BookClassInput struct {
	MemberID string
	ClassID  string
}

// BookClassDeps holds dependencies for booking orchestrators.
type BookClassDeps struct {
	ClassStore   ClassStore
	BookingStore BookingStoreForBooking
	MemberStore  MemberStoreForBooking
	Now          func() time.Time
}

var (
	ErrAlreadyBooked  = errors.New("you already have a booking for this class")
	ErrMemberInactive = errors.New("membership is not active")
	ErrNotYourBooking = errors.New("booking belongs to another member")
)

// ExecuteBookClass reserves a seat for a member.
// PRE: MemberID and ClassID exist
// POST: Seat reserved and booking confirmed, or no change at all
// INVARIANT: At most one live booking per (member, class)
func ExecuteBookClass(ctx context.Context, input BookClassInput, deps BookClassDeps) (string, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return "", err
	}
	if !m.IsActive() {
		return "", ErrMemberInactive
	}

	cls, err := deps.ClassStore.GetByID(ctx, input.ClassID)
	if err != nil {
		return "", err
	}
	if err := cls.CanBook(now()); err != nil {
		return "", err
	}

	if _, err := deps.BookingStore.GetLive(ctx, input.MemberID, input.ClassID); err == nil {
		return "", ErrAlreadyBooked
	}

	b := booking.Booking{
		ID:       uuid.New().String(),
		MemberID: input.MemberID,
		ClassID:  input.ClassID,
		Status:   booking.StatusConfirmed,
		BookedAt: now(),
	}
	if err := b.Validate(); err != nil {
		return "", err
	}

	// The store's conditional update settles capacity races; the unique
	// live-booking index settles duplicate races.
	if err := deps.ClassStore.ReserveSeat(ctx, b); err != nil {
		return "", err
	}

	slog.Info("class_booked", "booking_id", b.ID, "member_id", b.MemberID, "class_id", b.ClassID)
	return b.ID, nil
}

// CancelBookingInput carries input for the cancellation orchestrator.
// ActingMemberID is empty when an admin cancels.
type CancelBookingInput struct {
	BookingID      string
	ActingMemberID string
}

// ExecuteCancelBooking cancels a booking and frees its seat.
// PRE: BookingID exists; caller is the owner or an admin
// POST: Booking cancelled, enrollment decremented exactly once
func ExecuteCancelBooking(ctx context.Context, input CancelBookingInput, deps BookClassDeps) error {
	b, err := deps.BookingStore.GetByID(ctx, input.BookingID)
	if err != nil {
		return err
	}
	if input.ActingMemberID != "" && b.MemberID != input.ActingMemberID {
		return ErrNotYourBooking
	}
	if b.Status == booking.StatusCancelled {
		return booking.ErrAlreadyCancelled
	}

	if err := deps.ClassStore.ReleaseSeat(ctx, input.BookingID); err != nil {
		return err
	}

	slog.Info("booking_cancelled", "booking_id", b.ID, "class_id", b.ClassID)
	return nil
}
