package projections

import (
	"context"
	"errors"
	"sort"
	"strings"

	bookingstore "gymdesk/internal/adapters/storage/booking"
	equipmentstore "gymdesk/internal/adapters/storage/equipment"
	classstore "gymdesk/internal/adapters/storage/gymclass"
	memberstore "gymdesk/internal/adapters/storage/member"
	paymentstore "gymdesk/internal/adapters/storage/payment"
	trainerstore "gymdesk/internal/adapters/storage/trainer"
	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/booking"
	"gymdesk/internal/domain/equipment"
	"gymdesk/internal/domain/gymclass"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/payment"
	"gymdesk/internal/domain/report"
	"gymdesk/internal/domain/trainer"
)

var errNotFound = errors.New("not found")

// page slices a filtered result the way LIMIT/OFFSET would.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

type fakeMemberStore struct {
	members []member.Member
	notes   []member.Note
}

func (s *fakeMemberStore) GetByID(_ context.Context, id string) (member.Member, error) {
	for _, m := range s.members {
		if m.ID == id {
			return m, nil
		}
	}
	return member.Member{}, errNotFound
}

func (s *fakeMemberStore) GetByAccountID(_ context.Context, accountID string) (member.Member, error) {
	for _, m := range s.members {
		if m.AccountID == accountID {
			return m, nil
		}
	}
	return member.Member{}, errNotFound
}

func (s *fakeMemberStore) match(filter memberstore.ListFilter) []member.Member {
	var out []member.Member
	for _, m := range s.members {
		if filter.Plan != "" && m.Plan != filter.Plan {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(m.Name+m.Email), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *fakeMemberStore) Count(_ context.Context, filter memberstore.ListFilter) (int, error) {
	return len(s.match(filter)), nil
}

func (s *fakeMemberStore) List(_ context.Context, filter memberstore.ListFilter) ([]member.Member, error) {
	return page(s.match(filter), filter.Limit, filter.Offset), nil
}

func (s *fakeMemberStore) ListNotes(_ context.Context, memberID string) ([]member.Note, error) {
	var out []member.Note
	for _, n := range s.notes {
		if n.MemberID == memberID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeClassStore struct {
	classes []gymclass.Class
}

func (s *fakeClassStore) GetByID(_ context.Context, id string) (gymclass.Class, error) {
	for _, c := range s.classes {
		if c.ID == id {
			return c, nil
		}
	}
	return gymclass.Class{}, errNotFound
}

func (s *fakeClassStore) match(filter classstore.ListFilter) []gymclass.Class {
	var out []gymclass.Class
	for _, c := range s.classes {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.ClassType != "" && c.ClassType != filter.ClassType {
			continue
		}
		if filter.Difficulty != "" && c.Difficulty != filter.Difficulty {
			continue
		}
		if filter.TrainerID != "" && c.TrainerID != filter.TrainerID {
			continue
		}
		if !filter.UpcomingAfter.IsZero() && !c.IsUpcoming(filter.UpcomingAfter) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Schedule.Before(out[j].Schedule) })
	return out
}

func (s *fakeClassStore) Count(_ context.Context, filter classstore.ListFilter) (int, error) {
	return len(s.match(filter)), nil
}

func (s *fakeClassStore) List(_ context.Context, filter classstore.ListFilter) ([]gymclass.Class, error) {
	return page(s.match(filter), filter.Limit, filter.Offset), nil
}

type fakeTrainerStore struct {
	trainers []trainer.Trainer
}

func (s *fakeTrainerStore) GetByID(_ context.Context, id string) (trainer.Trainer, error) {
	for _, t := range s.trainers {
		if t.ID == id {
			return t, nil
		}
	}
	return trainer.Trainer{}, errNotFound
}

func (s *fakeTrainerStore) match(filter trainerstore.ListFilter) []trainer.Trainer {
	var out []trainer.Trainer
	for _, t := range s.trainers {
		if filter.Specialty != "" && t.Specialty != filter.Specialty {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *fakeTrainerStore) Count(_ context.Context, filter trainerstore.ListFilter) (int, error) {
	return len(s.match(filter)), nil
}

func (s *fakeTrainerStore) List(_ context.Context, filter trainerstore.ListFilter) ([]trainer.Trainer, error) {
	return page(s.match(filter), filter.Limit, filter.Offset), nil
}

type fakeAccountStore struct {
	accounts map[string]account.Account
}

func (s *fakeAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return account.Account{}, errNotFound
	}
	return a, nil
}

type fakeBookingStore struct {
	bookings []booking.Booking
}

func (s *fakeBookingStore) GetByID(_ context.Context, id string) (booking.Booking, error) {
	for _, b := range s.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return booking.Booking{}, errNotFound
}

func (s *fakeBookingStore) match(filter bookingstore.ListFilter) []booking.Booking {
	var out []booking.Booking
	for _, b := range s.bookings {
		if filter.MemberID != "" && b.MemberID != filter.MemberID {
			continue
		}
		if filter.ClassID != "" && b.ClassID != filter.ClassID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookedAt.After(out[j].BookedAt) })
	return out
}

func (s *fakeBookingStore) Count(_ context.Context, filter bookingstore.ListFilter) (int, error) {
	return len(s.match(filter)), nil
}

func (s *fakeBookingStore) List(_ context.Context, filter bookingstore.ListFilter) ([]booking.Booking, error) {
	return page(s.match(filter), filter.Limit, filter.Offset), nil
}

type fakePaymentStore struct {
	payments []payment.Payment
}

func (s *fakePaymentStore) GetByID(_ context.Context, id string) (payment.Payment, error) {
	for _, p := range s.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return payment.Payment{}, errNotFound
}

func (s *fakePaymentStore) match(filter paymentstore.ListFilter) []payment.Payment {
	var out []payment.Payment
	for _, p := range s.payments {
		if filter.MemberID != "" && p.MemberID != filter.MemberID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Method != "" && p.Method != filter.Method {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Reference), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *fakePaymentStore) Count(_ context.Context, filter paymentstore.ListFilter) (int, error) {
	return len(s.match(filter)), nil
}

func (s *fakePaymentStore) List(_ context.Context, filter paymentstore.ListFilter) ([]payment.Payment, error) {
	return page(s.match(filter), filter.Limit, filter.Offset), nil
}

func (s *fakePaymentStore) CompletedTotal(_ context.Context) (int, error) {
	total := 0
	for _, p := range s.payments {
		if p.Status == payment.StatusCompleted {
			total += p.Amount
		}
	}
	return total, nil
}

type fakeEquipmentStore struct {
	items []equipment.Equipment
}

func (s *fakeEquipmentStore) GetByID(_ context.Context, id string) (equipment.Equipment, error) {
	for _, e := range s.items {
		if e.ID == id {
			return e, nil
		}
	}
	return equipment.Equipment{}, errNotFound
}

func (s *fakeEquipmentStore) match(filter equipmentstore.ListFilter) []equipment.Equipment {
	var out []equipment.Equipment
	for _, e := range s.items {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if !filter.DueBefore.IsZero() {
			if e.Status == equipment.StatusRetired || e.NextMaintenance.IsZero() || !e.NextMaintenance.Before(filter.DueBefore) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func (s *fakeEquipmentStore) Count(_ context.Context, filter equipmentstore.ListFilter) (int, error) {
	return len(s.match(filter)), nil
}

func (s *fakeEquipmentStore) List(_ context.Context, filter equipmentstore.ListFilter) ([]equipment.Equipment, error) {
	return page(s.match(filter), filter.Limit, filter.Offset), nil
}

type fakeReportStore struct {
	table report.Table
	err   error
}

func (s *fakeReportStore) Build(_ context.Context, _ report.Params) (report.Table, error) {
	return s.table, s.err
}
