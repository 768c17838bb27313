package booking

import (
	"errors"
	"testing"
	"time"
)

func validBooking() Booking {
	return Booking{
		ID:       "b1",
		MemberID: "m1",
		ClassID:  "c1",
		Status:   StatusConfirmed,
		BookedAt: time.Now(),
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Booking)
		want   error
	}{
		{"valid", func(b *Booking) {}, nil},
		{"missing member", func(b *Booking) { b.MemberID = "" }, ErrEmptyMemberID},
		{"missing class", func(b *Booking) { b.ClassID = "" }, ErrEmptyClassID},
		{"bad status", func(b *Booking) { b.Status = "waitlisted" }, ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := validBooking()
			tc.mutate(&b)
			if err := b.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCancel(t *testing.T) {
	b := validBooking()
	if err := b.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if b.Status != StatusCancelled {
		t.Errorf("status = %q", b.Status)
	}
	if err := b.Cancel(); !errors.Is(err, ErrAlreadyCancelled) {
		t.Errorf("second Cancel = %v, want ErrAlreadyCancelled", err)
	}
}

func TestIsLive(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{StatusConfirmed, true},
		{StatusPending, true},
		{StatusCancelled, false},
	}
	for _, tc := range cases {
		b := validBooking()
		b.Status = tc.status
		if got := b.IsLive(); got != tc.want {
			t.Errorf("IsLive(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}
