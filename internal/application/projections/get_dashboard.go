package projections

import (
	"context"
	"time"

	"gymdesk/internal/adapters/storage/booking"
	"gymdesk/internal/adapters/storage/equipment"
	"gymdesk/internal/adapters/storage/gymclass"
	"gymdesk/internal/adapters/storage/member"
	"gymdesk/internal/adapters/storage/payment"
	"gymdesk/internal/adapters/storage/trainer"
	"gymdesk/internal/application/listutil"
	memberdomain "gymdesk/internal/domain/member"
)

// PlanSlice is one wedge of the plan distribution chart.
type PlanSlice struct {
	Plan  string
	Count int
}

// AdminDashboard aggregates the counters and lists shown on the admin
// landing page.
type AdminDashboard struct {
	ActiveMembers    int
	TotalMembers     int
	TrainerCount     int
	UpcomingClasses  int
	LiveBookings     int
	PendingPayments  int
	RevenueCents     int
	MaintenanceDue   int
	PlanDistribution []PlanSlice
	NextClasses      []ClassRow
	RecentPayments   []PaymentRow
}

// GetDashboardDeps holds every read model the admin dashboard touches.
type GetDashboardDeps struct {
	MemberStore    MemberStore
	TrainerStore   TrainerStore
	ClassStore     ClassStore
	BookingStore   BookingStore
	PaymentStore   PaymentStore
	EquipmentStore EquipmentStore
	AccountStore   AccountStore
	Now            func() time.Time
}

// QueryGetAdminDashboard builds the admin landing page in one pass.
// POST: RevenueCents counts completed payments only; counters and the
// plan distribution are computed over the same stores the list pages use
func QueryGetAdminDashboard(ctx context.Context, deps GetDashboardDeps) (AdminDashboard, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	var d AdminDashboard
	var err error

	if d.TotalMembers, err = deps.MemberStore.Count(ctx, member.ListFilter{}); err != nil {
		return AdminDashboard{}, err
	}
	if d.ActiveMembers, err = deps.MemberStore.Count(ctx, member.ListFilter{Status: memberdomain.StatusActive}); err != nil {
		return AdminDashboard{}, err
	}
	if d.TrainerCount, err = deps.TrainerStore.Count(ctx, trainer.ListFilter{}); err != nil {
		return AdminDashboard{}, err
	}
	if d.UpcomingClasses, err = deps.ClassStore.Count(ctx, gymclass.ListFilter{UpcomingAfter: now()}); err != nil {
		return AdminDashboard{}, err
	}
	if d.LiveBookings, err = deps.BookingStore.Count(ctx, booking.ListFilter{Status: "confirmed"}); err != nil {
		return AdminDashboard{}, err
	}
	if d.PendingPayments, err = deps.PaymentStore.Count(ctx, payment.ListFilter{Status: "pending"}); err != nil {
		return AdminDashboard{}, err
	}
	if d.RevenueCents, err = deps.PaymentStore.CompletedTotal(ctx); err != nil {
		return AdminDashboard{}, err
	}
	if d.MaintenanceDue, err = deps.EquipmentStore.Count(ctx, equipment.ListFilter{DueBefore: now()}); err != nil {
		return AdminDashboard{}, err
	}

	for _, plan := range memberdomain.ValidPlans {
		n, err := deps.MemberStore.Count(ctx, member.ListFilter{Plan: plan, Status: memberdomain.StatusActive})
		if err != nil {
			return AdminDashboard{}, err
		}
		d.PlanDistribution = append(d.PlanDistribution, PlanSlice{Plan: plan, Count: n})
	}

	classes, err := QueryGetClassList(ctx, dashboardQuery("schedule", "asc", map[string]string{"status": "upcoming"}), GetClassListDeps{
		ClassStore:   deps.ClassStore,
		TrainerStore: deps.TrainerStore,
		AccountStore: deps.AccountStore,
		Now:          now,
	})
	if err != nil {
		return AdminDashboard{}, err
	}
	d.NextClasses = classes.Classes

	payments, err := QueryGetPaymentList(ctx, "", dashboardQuery("created_at", "desc", map[string]string{"status": "pending"}), GetPaymentListDeps{
		PaymentStore: deps.PaymentStore,
		MemberStore:  deps.MemberStore,
	})
	if err != nil {
		return AdminDashboard{}, err
	}
	d.RecentPayments = payments.Payments

	return d, nil
}

// dashboardQuery is a fixed five-row page for dashboard panels.
func dashboardQuery(sort, dir string, filters map[string]string) listutil.Query {
	return listutil.Query{Page: 1, PerPage: 5, Sort: sort, Dir: dir, Filters: filters}
}
