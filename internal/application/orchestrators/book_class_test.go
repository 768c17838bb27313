package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymdesk/internal/domain/booking"
	"gymdesk/internal/domain/gymclass"
	"gymdesk/internal/domain/member"
)

func bookingDeps() (BookClassDeps, *mockClassStore, *mockMemberStore) {
	classes := newMockClassStore()
	members := newMockMemberStore(nil)
	deps := BookClassDeps{
		ClassStore:   classes,
		BookingStore: bookingReader{store: classes},
		MemberStore:  members,
		Now:          func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) },
	}
	return deps, classes, members
}

func seedBookable(classes *mockClassStore, members *mockMemberStore, capacity int) {
	members.members["m1"] = member.Member{
		ID: "m1", AccountID: "a1", Name: "Jane", Age: 30,
		Plan: member.PlanWarrior, Email: "jane@test.com", Status: member.StatusActive,
	}
	classes.classes["c1"] = gymclass.Class{
		ID: "c1", Name: "Spin", TrainerID: "t1",
		Schedule:        time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
		DurationMinutes: 45, MaxCapacity: capacity,
		Difficulty: gymclass.DifficultyBeginner, Status: gymclass.StatusActive,
	}
}

// TestExecuteBookClass verifies the happy path reserves a seat.
func TestExecuteBookClass(t *testing.T) {
	deps, classes, members := bookingDeps()
	seedBookable(classes, members, 10)

	id, err := ExecuteBookClass(context.Background(), BookClassInput{MemberID: "m1", ClassID: "c1"}, deps)
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}

	b := classes.bookings[id]
	if b.Status != booking.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", b.Status)
	}
	if classes.classes["c1"].CurrentEnrollment != 1 {
		t.Errorf("enrollment = %d, want 1", classes.classes["c1"].CurrentEnrollment)
	}
}

// TestExecuteBookClass_Full verifies capacity is enforced.
func TestExecuteBookClass_Full(t *testing.T) {
	deps, classes, members := bookingDeps()
	seedBookable(classes, members, 1)
	c := classes.classes["c1"]
	c.CurrentEnrollment = 1
	classes.classes["c1"] = c

	_, err := ExecuteBookClass(context.Background(), BookClassInput{MemberID: "m1", ClassID: "c1"}, deps)
	if !errors.Is(err, gymclass.ErrClassFull) {
		t.Errorf("got %v, want ErrClassFull", err)
	}
}

// TestExecuteBookClass_PastOrCancelled verifies only upcoming active
// classes accept bookings.
func TestExecuteBookClass_PastOrCancelled(t *testing.T) {
	deps, classes, members := bookingDeps()
	seedBookable(classes, members, 10)

	past := classes.classes["c1"]
	past.Schedule = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	classes.classes["c1"] = past

	_, err := ExecuteBookClass(context.Background(), BookClassInput{MemberID: "m1", ClassID: "c1"}, deps)
	if !errors.Is(err, gymclass.ErrClassNotOpen) {
		t.Errorf("past class: got %v, want ErrClassNotOpen", err)
	}

	cancelled := classes.classes["c1"]
	cancelled.Schedule = time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	cancelled.Status = gymclass.StatusCancelled
	classes.classes["c1"] = cancelled

	_, err = ExecuteBookClass(context.Background(), BookClassInput{MemberID: "m1", ClassID: "c1"}, deps)
	if !errors.Is(err, gymclass.ErrClassNotOpen) {
		t.Errorf("cancelled class: got %v, want ErrClassNotOpen", err)
	}
}

// TestExecuteBookClass_Duplicate verifies one live booking per member per class.
func TestExecuteBookClass_Duplicate(t *testing.T) {
	deps, classes, members := bookingDeps()
	seedBookable(classes, members, 10)
	ctx := context.Background()

	if _, err := ExecuteBookClass(ctx, BookClassInput{MemberID: "m1", ClassID: "c1"}, deps); err != nil {
		t.Fatalf("first book failed: %v", err)
	}
	if _, err := ExecuteBookClass(ctx, BookClassInput{MemberID: "m1", ClassID: "c1"}, deps); !errors.Is(err, ErrAlreadyBooked) {
		t.Errorf("got %v, want ErrAlreadyBooked", err)
	}
}

// TestExecuteBookClass_InactiveMember verifies inactive members cannot book.
func TestExecuteBookClass_InactiveMember(t *testing.T) {
	deps, classes, members := bookingDeps()
	seedBookable(classes, members, 10)
	m := members.members["m1"]
	m.Status = member.StatusSuspended
	members.members["m1"] = m

	_, err := ExecuteBookClass(context.Background(), BookClassInput{MemberID: "m1", ClassID: "c1"}, deps)
	if !errors.Is(err, ErrMemberInactive) {
		t.Errorf("got %v, want ErrMemberInactive", err)
	}
	if classes.classes["c1"].CurrentEnrollment != 0 {
		t.Error("no seat should be held")
	}
}

// TestExecuteCancelBooking verifies the owner can cancel and rebook.
func TestExecuteCancelBooking(t *testing.T) {
	deps, classes, members := bookingDeps()
	seedBookable(classes, members, 10)
	ctx := context.Background()

	id, _ := ExecuteBookClass(ctx, BookClassInput{MemberID: "m1", ClassID: "c1"}, deps)

	if err := ExecuteCancelBooking(ctx, CancelBookingInput{BookingID: id, ActingMemberID: "m1"}, deps); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if classes.classes["c1"].CurrentEnrollment != 0 {
		t.Errorf("enrollment = %d, want 0", classes.classes["c1"].CurrentEnrollment)
	}

	// Cancelling twice fails.
	if err := ExecuteCancelBooking(ctx, CancelBookingInput{BookingID: id, ActingMemberID: "m1"}, deps); !errors.Is(err, booking.ErrAlreadyCancelled) {
		t.Errorf("got %v, want ErrAlreadyCancelled", err)
	}

	// Seat freed: member can book again.
	if _, err := ExecuteBookClass(ctx, BookClassInput{MemberID: "m1", ClassID: "c1"}, deps); err != nil {
		t.Errorf("rebook after cancel failed: %v", err)
	}
}

// TestExecuteCancelBooking_WrongMember verifies ownership is enforced
// while admins (blank acting member) may cancel anything.
func TestExecuteCancelBooking_WrongMember(t *testing.T) {
	deps, classes, members := bookingDeps()
	seedBookable(classes, members, 10)
	ctx := context.Background()

	id, _ := ExecuteBookClass(ctx, BookClassInput{MemberID: "m1", ClassID: "c1"}, deps)

	if err := ExecuteCancelBooking(ctx, CancelBookingInput{BookingID: id, ActingMemberID: "m2"}, deps); !errors.Is(err, ErrNotYourBooking) {
		t.Errorf("got %v, want ErrNotYourBooking", err)
	}
	if err := ExecuteCancelBooking(ctx, CancelBookingInput{BookingID: id}, deps); err != nil {
		t.Errorf("admin cancel failed: %v", err)
	}
	_ = classes
}

// TestExecuteCancelClass verifies the cascade through the orchestrator.
func TestExecuteCancelClass(t *testing.T) {
	deps, classes, members := bookingDeps()
	seedBookable(classes, members, 10)
	ctx := context.Background()

	id, _ := ExecuteBookClass(ctx, BookClassInput{MemberID: "m1", ClassID: "c1"}, deps)

	if err := ExecuteCancelClass(ctx, "c1", SaveClassDeps{ClassStore: classes}); err != nil {
		t.Fatalf("cancel class failed: %v", err)
	}
	if classes.classes["c1"].Status != gymclass.StatusCancelled {
		t.Error("class should be cancelled")
	}
	if classes.bookings[id].Status != booking.StatusCancelled {
		t.Error("booking should cascade to cancelled")
	}

	// Idempotent.
	if err := ExecuteCancelClass(ctx, "c1", SaveClassDeps{ClassStore: classes}); err != nil {
		t.Errorf("repeat cancel failed: %v", err)
	}
}
