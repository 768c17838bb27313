package projections

import (
	"context"
	"time"

	domain "gymdesk/internal/domain/member"
	paymentdomain "gymdesk/internal/domain/payment"
)

// MemberDashboard is the member's own landing page: profile, upcoming
// bookings and payment standing.
type MemberDashboard struct {
	Member          domain.Member
	MonthlyFee      int // cents
	UpcomingCount   int
	Bookings        []BookingRow
	RecentPayments  []PaymentRow
	HasPendingDues  bool
	LastCompletedAt time.Time
}

// GetMemberDashboardDeps holds dependencies for GetMemberDashboard.
type GetMemberDashboardDeps struct {
	MemberStore  MemberStore
	BookingStore BookingStore
	ClassStore   ClassStore
	PaymentStore PaymentStore
	Now          func() time.Time
}

// QueryGetMemberDashboard builds a member's landing page from their
// account id. Bookings and payments shown belong only to this member.
func QueryGetMemberDashboard(ctx context.Context, accountID string, deps GetMemberDashboardDeps) (MemberDashboard, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	m, err := deps.MemberStore.GetByAccountID(ctx, accountID)
	if err != nil {
		return MemberDashboard{}, err
	}

	d := MemberDashboard{Member: m, MonthlyFee: m.MonthlyFee()}

	bookings, err := QueryGetBookingList(ctx, m.ID, dashboardQuery("booked_at", "desc", nil), GetBookingListDeps{
		BookingStore: deps.BookingStore,
		MemberStore:  deps.MemberStore,
		ClassStore:   deps.ClassStore,
		Now:          now,
	})
	if err != nil {
		return MemberDashboard{}, err
	}
	d.Bookings = bookings.Bookings
	for _, b := range d.Bookings {
		if b.Status != "cancelled" && b.Schedule.After(now()) {
			d.UpcomingCount++
		}
	}

	payments, err := QueryGetPaymentList(ctx, m.ID, dashboardQuery("created_at", "desc", nil), GetPaymentListDeps{
		PaymentStore: deps.PaymentStore,
		MemberStore:  deps.MemberStore,
	})
	if err != nil {
		return MemberDashboard{}, err
	}
	d.RecentPayments = payments.Payments
	for _, p := range d.RecentPayments {
		switch p.Status {
		case paymentdomain.StatusPending:
			d.HasPendingDues = true
		case paymentdomain.StatusCompleted:
			if p.PaidAt.After(d.LastCompletedAt) {
				d.LastCompletedAt = p.PaidAt
			}
		}
	}

	return d, nil
}
