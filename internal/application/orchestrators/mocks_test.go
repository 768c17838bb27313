package orchestrators

import (
	"context"
	"errors"

	"gymdesk/internal/adapters/email"
	"gymdesk/internal/domain/account"
	"gymdesk/internal/domain/booking"
	"gymdesk/internal/domain/equipment"
	"gymdesk/internal/domain/gymclass"
	"gymdesk/internal/domain/member"
	"gymdesk/internal/domain/payment"
	"gymdesk/internal/domain/trainer"
)

var errNotFound = errors.New("not found")

// mockAccountStore is an in-memory account store for orchestrator tests.
type mockAccountStore struct {
	accounts map[string]account.Account
	tokens   map[string]account.RememberToken // keyed by hash
	saveErr  error
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{
		accounts: make(map[string]account.Account),
		tokens:   make(map[string]account.RememberToken),
	}
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return account.Account{}, errNotFound
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return account.Account{}, errNotFound
}

func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return account.Account{}, errNotFound
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) SaveRememberToken(_ context.Context, t account.RememberToken) error {
	m.tokens[t.TokenHash] = t
	return nil
}

func (m *mockAccountStore) GetRememberTokenByHash(_ context.Context, hash string) (account.RememberToken, error) {
	if t, ok := m.tokens[hash]; ok {
		return t, nil
	}
	return account.RememberToken{}, errNotFound
}

func (m *mockAccountStore) DeleteRememberTokensForAccount(_ context.Context, accountID string) error {
	for hash, t := range m.tokens {
		if t.AccountID == accountID {
			delete(m.tokens, hash)
		}
	}
	return nil
}

// mockMemberStore is an in-memory member store.
type mockMemberStore struct {
	members   map[string]member.Member
	notes     []member.Note
	accounts  *mockAccountStore // CreateWithAccount writes here too
	createErr error
}

func newMockMemberStore(accounts *mockAccountStore) *mockMemberStore {
	return &mockMemberStore{
		members:  make(map[string]member.Member),
		accounts: accounts,
	}
}

func (m *mockMemberStore) GetByID(_ context.Context, id string) (member.Member, error) {
	if mem, ok := m.members[id]; ok {
		return mem, nil
	}
	return member.Member{}, errNotFound
}

func (m *mockMemberStore) GetByAccountID(_ context.Context, accountID string) (member.Member, error) {
	for _, mem := range m.members {
		if mem.AccountID == accountID {
			return mem, nil
		}
	}
	return member.Member{}, errNotFound
}

func (m *mockMemberStore) GetByEmail(_ context.Context, email string) (member.Member, error) {
	for _, mem := range m.members {
		if mem.Email == email {
			return mem, nil
		}
	}
	return member.Member{}, errNotFound
}

func (m *mockMemberStore) Save(_ context.Context, mem member.Member) error {
	m.members[mem.ID] = mem
	return nil
}

// CreateWithAccount mirrors the real store: both writes or neither.
func (m *mockMemberStore) CreateWithAccount(ctx context.Context, acct account.Account, mem member.Member) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.members[mem.ID]; exists {
		return errors.New("member id already exists")
	}
	if m.accounts != nil {
		if err := m.accounts.Save(ctx, acct); err != nil {
			return err
		}
	}
	m.members[mem.ID] = mem
	return nil
}

func (m *mockMemberStore) SaveNote(_ context.Context, note member.Note) error {
	m.notes = append(m.notes, note)
	return nil
}

// mockClassStore holds classes and bookings together so seat accounting
// can be asserted in one place.
type mockClassStore struct {
	classes  map[string]gymclass.Class
	bookings map[string]booking.Booking
}

func newMockClassStore() *mockClassStore {
	return &mockClassStore{
		classes:  make(map[string]gymclass.Class),
		bookings: make(map[string]booking.Booking),
	}
}

func (m *mockClassStore) GetByID(_ context.Context, id string) (gymclass.Class, error) {
	if c, ok := m.classes[id]; ok {
		return c, nil
	}
	return gymclass.Class{}, errNotFound
}

func (m *mockClassStore) Save(_ context.Context, c gymclass.Class) error {
	m.classes[c.ID] = c
	return nil
}

// ReserveSeat mirrors the real store's conditional update.
func (m *mockClassStore) ReserveSeat(_ context.Context, b booking.Booking) error {
	c, ok := m.classes[b.ClassID]
	if !ok {
		return errNotFound
	}
	if c.Status != gymclass.StatusActive || c.CurrentEnrollment >= c.MaxCapacity {
		return gymclass.ErrClassFull
	}
	for _, existing := range m.bookings {
		if existing.MemberID == b.MemberID && existing.ClassID == b.ClassID && existing.Status != booking.StatusCancelled {
			return errors.New("unique live booking violated")
		}
	}
	c.CurrentEnrollment++
	m.classes[b.ClassID] = c
	m.bookings[b.ID] = b
	return nil
}

func (m *mockClassStore) ReleaseSeat(_ context.Context, bookingID string) error {
	b, ok := m.bookings[bookingID]
	if !ok {
		return errNotFound
	}
	if b.Status == booking.StatusCancelled {
		return booking.ErrAlreadyCancelled
	}
	b.Status = booking.StatusCancelled
	m.bookings[bookingID] = b
	c := m.classes[b.ClassID]
	if c.CurrentEnrollment > 0 {
		c.CurrentEnrollment--
	}
	m.classes[b.ClassID] = c
	return nil
}

func (m *mockClassStore) CancelWithBookings(_ context.Context, classID string) error {
	c, ok := m.classes[classID]
	if !ok {
		return errNotFound
	}
	if c.Status == gymclass.StatusCancelled {
		return nil
	}
	c.Status = gymclass.StatusCancelled
	c.CurrentEnrollment = 0
	m.classes[classID] = c
	for id, b := range m.bookings {
		if b.ClassID == classID && b.Status != booking.StatusCancelled {
			b.Status = booking.StatusCancelled
			m.bookings[id] = b
		}
	}
	return nil
}

// Booking reads over the same map.
func (m *mockClassStore) GetBookingByID(_ context.Context, id string) (booking.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		return b, nil
	}
	return booking.Booking{}, errNotFound
}

func (m *mockClassStore) GetLive(_ context.Context, memberID, classID string) (booking.Booking, error) {
	for _, b := range m.bookings {
		if b.MemberID == memberID && b.ClassID == classID && b.Status != booking.StatusCancelled {
			return b, nil
		}
	}
	return booking.Booking{}, errNotFound
}

// bookingReader adapts mockClassStore to BookingStoreForBooking.
type bookingReader struct{ store *mockClassStore }

func (r bookingReader) GetByID(ctx context.Context, id string) (booking.Booking, error) {
	return r.store.GetBookingByID(ctx, id)
}

func (r bookingReader) GetLive(ctx context.Context, memberID, classID string) (booking.Booking, error) {
	return r.store.GetLive(ctx, memberID, classID)
}

// mockPaymentStore is an in-memory payment store.
type mockPaymentStore struct {
	payments map[string]payment.Payment
}

func newMockPaymentStore() *mockPaymentStore {
	return &mockPaymentStore{payments: make(map[string]payment.Payment)}
}

func (m *mockPaymentStore) GetByID(_ context.Context, id string) (payment.Payment, error) {
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return payment.Payment{}, errNotFound
}

func (m *mockPaymentStore) GetByReference(_ context.Context, ref string) (payment.Payment, error) {
	for _, p := range m.payments {
		if p.Reference == ref {
			return p, nil
		}
	}
	return payment.Payment{}, errNotFound
}

func (m *mockPaymentStore) Save(_ context.Context, p payment.Payment) error {
	for id, existing := range m.payments {
		if existing.Reference == p.Reference && id != p.ID {
			return payment.ErrDuplicateReference
		}
	}
	m.payments[p.ID] = p
	return nil
}

// mockEquipmentStore is an in-memory equipment store.
type mockEquipmentStore struct {
	items map[string]equipment.Equipment
}

func newMockEquipmentStore() *mockEquipmentStore {
	return &mockEquipmentStore{items: make(map[string]equipment.Equipment)}
}

func (m *mockEquipmentStore) GetByID(_ context.Context, id string) (equipment.Equipment, error) {
	if e, ok := m.items[id]; ok {
		return e, nil
	}
	return equipment.Equipment{}, errNotFound
}

func (m *mockEquipmentStore) Save(_ context.Context, e equipment.Equipment) error {
	m.items[e.ID] = e
	return nil
}

// mockTrainerStore is an in-memory trainer store.
type mockTrainerStore struct {
	trainers map[string]trainer.Trainer
	accounts *mockAccountStore
}

func newMockTrainerStore(accounts *mockAccountStore) *mockTrainerStore {
	return &mockTrainerStore{
		trainers: make(map[string]trainer.Trainer),
		accounts: accounts,
	}
}

func (m *mockTrainerStore) GetByID(_ context.Context, id string) (trainer.Trainer, error) {
	if t, ok := m.trainers[id]; ok {
		return t, nil
	}
	return trainer.Trainer{}, errNotFound
}

func (m *mockTrainerStore) Save(_ context.Context, t trainer.Trainer) error {
	m.trainers[t.ID] = t
	return nil
}

func (m *mockTrainerStore) CreateWithAccount(ctx context.Context, acct account.Account, t trainer.Trainer) error {
	if m.accounts != nil {
		if err := m.accounts.Save(ctx, acct); err != nil {
			return err
		}
	}
	m.trainers[t.ID] = t
	return nil
}

func (m *mockTrainerStore) DeleteWithDeactivate(_ context.Context, id string) error {
	t, ok := m.trainers[id]
	if !ok {
		return errNotFound
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

// mockMailer records sent messages.
type mockMailer struct {
	sent    []string // recipient addresses
	sendErr error
}

func (m *mockMailer) Send(_ context.Context, msg email.Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg.To)
	return nil
}
