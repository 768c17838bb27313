package web

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	bookingStore "gymdesk/internal/adapters/storage/booking"
	equipmentStore "gymdesk/internal/adapters/storage/equipment"
	classStore "gymdesk/internal/adapters/storage/gymclass"
	memberStore "gymdesk/internal/adapters/storage/member"
	paymentStore "gymdesk/internal/adapters/storage/payment"
	trainerStore "gymdesk/internal/adapters/storage/trainer"
	accountDomain "gymdesk/internal/domain/account"
	bookingDomain "gymdesk/internal/domain/booking"
	equipmentDomain "gymdesk/internal/domain/equipment"
	classDomain "gymdesk/internal/domain/gymclass"
	memberDomain "gymdesk/internal/domain/member"
	paymentDomain "gymdesk/internal/domain/payment"
	reportDomain "gymdesk/internal/domain/report"
	trainerDomain "gymdesk/internal/domain/trainer"
)

// Mock implementations for testing

type mockAccountStore struct {
	accounts map[string]accountDomain.Account
	tokens   map[string]accountDomain.RememberToken
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{
		accounts: make(map[string]accountDomain.Account),
		tokens:   make(map[string]accountDomain.RememberToken),
	}
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (accountDomain.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (accountDomain.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (accountDomain.Account, error) {
	for _, a := range m.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) Save(_ context.Context, a accountDomain.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

func (m *mockAccountStore) SaveRememberToken(_ context.Context, t accountDomain.RememberToken) error {
	m.tokens[t.TokenHash] = t
	return nil
}

func (m *mockAccountStore) GetRememberTokenByHash(_ context.Context, hash string) (accountDomain.RememberToken, error) {
	if t, ok := m.tokens[hash]; ok {
		return t, nil
	}
	return accountDomain.RememberToken{}, sql.ErrNoRows
}

func (m *mockAccountStore) DeleteRememberTokensForAccount(_ context.Context, accountID string) error {
	for hash, t := range m.tokens {
		if t.AccountID == accountID {
			delete(m.tokens, hash)
		}
	}
	return nil
}

type mockMemberStore struct {
	members  map[string]memberDomain.Member
	notes    []memberDomain.Note
	accounts *mockAccountStore
}

func newMockMemberStore(accounts *mockAccountStore) *mockMemberStore {
	return &mockMemberStore{members: make(map[string]memberDomain.Member), accounts: accounts}
}

func (m *mockMemberStore) GetByID(_ context.Context, id string) (memberDomain.Member, error) {
	if mem, ok := m.members[id]; ok {
		return mem, nil
	}
	return memberDomain.Member{}, sql.ErrNoRows
}

func (m *mockMemberStore) GetByEmail(_ context.Context, email string) (memberDomain.Member, error) {
	for _, mem := range m.members {
		if mem.Email == email {
			return mem, nil
		}
	}
	return memberDomain.Member{}, sql.ErrNoRows
}

func (m *mockMemberStore) GetByAccountID(_ context.Context, accountID string) (memberDomain.Member, error) {
	for _, mem := range m.members {
		if mem.AccountID == accountID {
			return mem, nil
		}
	}
	return memberDomain.Member{}, sql.ErrNoRows
}

func (m *mockMemberStore) Save(_ context.Context, mem memberDomain.Member) error {
	m.members[mem.ID] = mem
	return nil
}

func (m *mockMemberStore) CreateWithAccount(ctx context.Context, acct accountDomain.Account, mem memberDomain.Member) error {
	if m.accounts != nil {
		m.accounts.accounts[acct.ID] = acct
	}
	m.members[mem.ID] = mem
	return nil
}

func (m *mockMemberStore) match(filter memberStore.ListFilter) []memberDomain.Member {
	var list []memberDomain.Member
	for _, mem := range m.members {
		if filter.Plan != "" && mem.Plan != filter.Plan {
			continue
		}
		if filter.Status != "" && mem.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(mem.Name+mem.Email), strings.ToLower(filter.Search)) {
			continue
		}
		list = append(list, mem)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (m *mockMemberStore) Count(_ context.Context, filter memberStore.ListFilter) (int, error) {
	return len(m.match(filter)), nil
}

func (m *mockMemberStore) List(_ context.Context, filter memberStore.ListFilter) ([]memberDomain.Member, error) {
	return pageSlice(m.match(filter), filter.Limit, filter.Offset), nil
}

func (m *mockMemberStore) SaveNote(_ context.Context, note memberDomain.Note) error {
	m.notes = append(m.notes, note)
	return nil
}

func (m *mockMemberStore) ListNotes(_ context.Context, memberID string) ([]memberDomain.Note, error) {
	var list []memberDomain.Note
	for _, n := range m.notes {
		if n.MemberID == memberID {
			list = append(list, n)
		}
	}
	return list, nil
}

type mockTrainerStore struct {
	trainers map[string]trainerDomain.Trainer
	accounts *mockAccountStore
}

func newMockTrainerStore(accounts *mockAccountStore) *mockTrainerStore {
	return &mockTrainerStore{trainers: make(map[string]trainerDomain.Trainer), accounts: accounts}
}

func (m *mockTrainerStore) GetByID(_ context.Context, id string) (trainerDomain.Trainer, error) {
	if t, ok := m.trainers[id]; ok {
		return t, nil
	}
	return trainerDomain.Trainer{}, sql.ErrNoRows
}

func (m *mockTrainerStore) GetByAccountID(_ context.Context, accountID string) (trainerDomain.Trainer, error) {
	for _, t := range m.trainers {
		if t.AccountID == accountID {
			return t, nil
		}
	}
	return trainerDomain.Trainer{}, sql.ErrNoRows
}

func (m *mockTrainerStore) Save(_ context.Context, t trainerDomain.Trainer) error {
	m.trainers[t.ID] = t
	return nil
}

func (m *mockTrainerStore) CreateWithAccount(_ context.Context, acct accountDomain.Account, t trainerDomain.Trainer) error {
	if m.accounts != nil {
		m.accounts.accounts[acct.ID] = acct
	}
	m.trainers[t.ID] = t
	return nil
}

func (m *mockTrainerStore) DeleteWithDeactivate(_ context.Context, id string) error {
	t, ok := m.trainers[id]
	if !ok {
		return sql.ErrNoRows
	}
	delete(m.trainers, id)
	if m.accounts != nil {
		if a, ok := m.accounts.accounts[t.AccountID]; ok {
			a.IsActive = false
			m.accounts.accounts[t.AccountID] = a
		}
	}
	return nil
}

func (m *mockTrainerStore) Count(_ context.Context, filter trainerStore.ListFilter) (int, error) {
	list, _ := m.List(context.Background(), trainerStore.ListFilter{Specialty: filter.Specialty})
	return len(list), nil
}

func (m *mockTrainerStore) List(_ context.Context, filter trainerStore.ListFilter) ([]trainerDomain.Trainer, error) {
	var list []trainerDomain.Trainer
	for _, t := range m.trainers {
		if filter.Specialty != "" && t.Specialty != filter.Specialty {
			continue
		}
		list = append(list, t)
	}
	return pageSlice(list, filter.Limit, filter.Offset), nil
}

type mockClassStore struct {
	classes  map[string]classDomain.Class
	bookings *mockBookingStore
}

func newMockClassStore(bookings *mockBookingStore) *mockClassStore {
	return &mockClassStore{classes: make(map[string]classDomain.Class), bookings: bookings}
}

func (m *mockClassStore) GetByID(_ context.Context, id string) (classDomain.Class, error) {
	if c, ok := m.classes[id]; ok {
		return c, nil
	}
	return classDomain.Class{}, sql.ErrNoRows
}

func (m *mockClassStore) Save(_ context.Context, c classDomain.Class) error {
	m.classes[c.ID] = c
	return nil
}

func (m *mockClassStore) Count(_ context.Context, filter classStore.ListFilter) (int, error) {
	list, _ := m.List(context.Background(), classStore.ListFilter{
		Status: filter.Status, ClassType: filter.ClassType, UpcomingAfter: filter.UpcomingAfter,
	})
	return len(list), nil
}

func (m *mockClassStore) List(_ context.Context, filter classStore.ListFilter) ([]classDomain.Class, error) {
	var list []classDomain.Class
	for _, c := range m.classes {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.ClassType != "" && c.ClassType != filter.ClassType {
			continue
		}
		if !filter.UpcomingAfter.IsZero() && !c.IsUpcoming(filter.UpcomingAfter) {
			continue
		}
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Schedule.Before(list[j].Schedule) })
	return pageSlice(list, filter.Limit, filter.Offset), nil
}

func (m *mockClassStore) ReserveSeat(ctx context.Context, b bookingDomain.Booking) error {
	c, ok := m.classes[b.ClassID]
	if !ok {
		return sql.ErrNoRows
	}
	if c.Status != classDomain.StatusActive || c.CurrentEnrollment >= c.MaxCapacity {
		return classDomain.ErrClassFull
	}
	if _, err := m.bookings.GetLive(ctx, b.MemberID, b.ClassID); err == nil {
		return sql.ErrNoRows
	}
	c.CurrentEnrollment++
	m.classes[b.ClassID] = c
	m.bookings.bookings[b.ID] = b
	return nil
}

func (m *mockClassStore) ReleaseSeat(_ context.Context, bookingID string) error {
	b, ok := m.bookings.bookings[bookingID]
	if !ok {
		return sql.ErrNoRows
	}
	if b.Status == bookingDomain.StatusCancelled {
		return bookingDomain.ErrAlreadyCancelled
	}
	b.Status = bookingDomain.StatusCancelled
	m.bookings.bookings[bookingID] = b
	if c, ok := m.classes[b.ClassID]; ok && c.CurrentEnrollment > 0 {
		c.CurrentEnrollment--
		m.classes[b.ClassID] = c
	}
	return nil
}

func (m *mockClassStore) CancelWithBookings(_ context.Context, classID string) error {
	c, ok := m.classes[classID]
	if !ok {
		return sql.ErrNoRows
	}
	if c.Status == classDomain.StatusCancelled {
		return nil
	}
	c.Status = classDomain.StatusCancelled
	c.CurrentEnrollment = 0
	m.classes[classID] = c
	for id, b := range m.bookings.bookings {
		if b.ClassID == classID && b.Status != bookingDomain.StatusCancelled {
			b.Status = bookingDomain.StatusCancelled
			m.bookings.bookings[id] = b
		}
	}
	return nil
}

type mockBookingStore struct {
	bookings map[string]bookingDomain.Booking
}

func newMockBookingStore() *mockBookingStore {
	return &mockBookingStore{bookings: make(map[string]bookingDomain.Booking)}
}

func (m *mockBookingStore) GetByID(_ context.Context, id string) (bookingDomain.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		return b, nil
	}
	return bookingDomain.Booking{}, sql.ErrNoRows
}

func (m *mockBookingStore) GetLive(_ context.Context, memberID, classID string) (bookingDomain.Booking, error) {
	for _, b := range m.bookings {
		if b.MemberID == memberID && b.ClassID == classID && b.Status != bookingDomain.StatusCancelled {
			return b, nil
		}
	}
	return bookingDomain.Booking{}, sql.ErrNoRows
}

func (m *mockBookingStore) Save(_ context.Context, b bookingDomain.Booking) error {
	m.bookings[b.ID] = b
	return nil
}

func (m *mockBookingStore) Count(_ context.Context, filter bookingStore.ListFilter) (int, error) {
	list, _ := m.List(context.Background(), bookingStore.ListFilter{
		MemberID: filter.MemberID, ClassID: filter.ClassID, Status: filter.Status,
	})
	return len(list), nil
}

func (m *mockBookingStore) List(_ context.Context, filter bookingStore.ListFilter) ([]bookingDomain.Booking, error) {
	var list []bookingDomain.Booking
	for _, b := range m.bookings {
		if filter.MemberID != "" && b.MemberID != filter.MemberID {
			continue
		}
		if filter.ClassID != "" && b.ClassID != filter.ClassID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].BookedAt.After(list[j].BookedAt) })
	return pageSlice(list, filter.Limit, filter.Offset), nil
}

type mockPaymentStore struct {
	payments map[string]paymentDomain.Payment
}

func newMockPaymentStore() *mockPaymentStore {
	return &mockPaymentStore{payments: make(map[string]paymentDomain.Payment)}
}

func (m *mockPaymentStore) GetByID(_ context.Context, id string) (paymentDomain.Payment, error) {
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return paymentDomain.Payment{}, sql.ErrNoRows
}

func (m *mockPaymentStore) GetByReference(_ context.Context, reference string) (paymentDomain.Payment, error) {
	for _, p := range m.payments {
		if p.Reference == reference {
			return p, nil
		}
	}
	return paymentDomain.Payment{}, sql.ErrNoRows
}

func (m *mockPaymentStore) Save(_ context.Context, p paymentDomain.Payment) error {
	for _, existing := range m.payments {
		if existing.Reference == p.Reference && existing.ID != p.ID {
			return paymentDomain.ErrDuplicateReference
		}
	}
	m.payments[p.ID] = p
	return nil
}

func (m *mockPaymentStore) Count(_ context.Context, filter paymentStore.ListFilter) (int, error) {
	list, _ := m.List(context.Background(), paymentStore.ListFilter{
		MemberID: filter.MemberID, Status: filter.Status, Method: filter.Method,
	})
	return len(list), nil
}

func (m *mockPaymentStore) List(_ context.Context, filter paymentStore.ListFilter) ([]paymentDomain.Payment, error) {
	var list []paymentDomain.Payment
	for _, p := range m.payments {
		if filter.MemberID != "" && p.MemberID != filter.MemberID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Method != "" && p.Method != filter.Method {
			continue
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return pageSlice(list, filter.Limit, filter.Offset), nil
}

func (m *mockPaymentStore) CompletedTotal(_ context.Context) (int, error) {
	total := 0
	for _, p := range m.payments {
		if p.Status == paymentDomain.StatusCompleted {
			total += p.Amount
		}
	}
	return total, nil
}

type mockEquipmentStore struct {
	items map[string]equipmentDomain.Equipment
}

func newMockEquipmentStore() *mockEquipmentStore {
	return &mockEquipmentStore{items: make(map[string]equipmentDomain.Equipment)}
}

func (m *mockEquipmentStore) GetByID(_ context.Context, id string) (equipmentDomain.Equipment, error) {
	if e, ok := m.items[id]; ok {
		return e, nil
	}
	return equipmentDomain.Equipment{}, sql.ErrNoRows
}

func (m *mockEquipmentStore) Save(_ context.Context, e equipmentDomain.Equipment) error {
	m.items[e.ID] = e
	return nil
}

func (m *mockEquipmentStore) Count(_ context.Context, filter equipmentStore.ListFilter) (int, error) {
	list, _ := m.List(context.Background(), equipmentStore.ListFilter{
		Status: filter.Status, DueBefore: filter.DueBefore,
	})
	return len(list), nil
}

func (m *mockEquipmentStore) List(_ context.Context, filter equipmentStore.ListFilter) ([]equipmentDomain.Equipment, error) {
	var list []equipmentDomain.Equipment
	for _, e := range m.items {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if !filter.DueBefore.IsZero() {
			if e.Status == equipmentDomain.StatusRetired || e.NextMaintenance.IsZero() || !e.NextMaintenance.Before(filter.DueBefore) {
				continue
			}
		}
		list = append(list, e)
	}
	return pageSlice(list, filter.Limit, filter.Offset), nil
}

type mockReportStore struct {
	table reportDomain.Table
	err   error
}

func (m *mockReportStore) Build(_ context.Context, _ reportDomain.Params) (reportDomain.Table, error) {
	return m.table, m.err
}

// pageSlice applies LIMIT/OFFSET semantics to a filtered slice.
func pageSlice[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
