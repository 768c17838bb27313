package orchestrators

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"gymdesk/internal/domain/booking"
	"gymdesk/internal/domain/gymclass"
)

// ClassStore defines the store interface for class orchestrators.
type ClassStore interface {
	GetByID(ctx context.Context, id string) (gymclass.Class, error)
	Save(ctx context.Context, c gymclass.Class) error
	ReserveSeat(ctx context.Context, b booking.Booking) error
	ReleaseSeat(ctx context.Context, bookingID string) error
	CancelWithBookings(ctx context.Context, classID string) error
}

// SaveClassInput carries input for creating or editing a class. A blank
// ClassID means create.
type SaveClassInput struct {
	ClassID string
	Class   gymclass.Class
}

// SaveClassDeps holds dependencies for class orchestrators.
type SaveClassDeps struct {
	ClassStore ClassStore
}

// ExecuteSaveClass creates or updates a class.
// PRE: input.Class fields populated; admin-only
// POST: Class persisted; on update the enrollment counter is preserved
func ExecuteSaveClass(ctx context.Context, input SaveClassInput, deps SaveClassDeps) (string, error) {
	c := input.Class

	if input.ClassID == "" {
		c.ID = uuid.New().String()
		c.CurrentEnrollment = 0
		if c.Status == "" {
			c.Status = gymclass.StatusActive
		}
	} else {
		existing, err := deps.ClassStore.GetByID(ctx, input.ClassID)
		if err != nil {
			return "", err
		}
		c.ID = existing.ID
		c.CurrentEnrollment = existing.CurrentEnrollment
		if c.Status == "" {
			c.Status = existing.Status
		}
	}

	if err := c.Validate(); err != nil {
		return "", err
	}
	if err := deps.ClassStore.Save(ctx, c); err != nil {
		return "", err
	}

	slog.Info("class_saved", "class_id", c.ID, "name", c.Name)
	return c.ID, nil
}

// ExecuteCancelClass cancels a class and every live booking on it.
// PRE: classID exists; admin-only
// POST: Class cancelled, bookings cascade-cancelled; idempotent
func ExecuteCancelClass(ctx context.Context, classID string, deps SaveClassDeps) error {
	if err := deps.ClassStore.CancelWithBookings(ctx, classID); err != nil {
		return err
	}
	slog.Info("class_cancelled", "class_id", classID)
	return nil
}
