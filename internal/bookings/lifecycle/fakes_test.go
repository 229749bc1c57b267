package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"camrent/internal/bookings/conflict"
	bookingserrors "camrent/internal/bookings/errors"
	"camrent/internal/bookings/pricing"
	"camrent/pkg/logger"
	"camrent/pkg/model"
)

// memStore is an in-memory stand-in for the Mongo repositories. Records are
// copied on the way in and out so tests can detect unintended writes.
type memStore struct {
	mu         sync.Mutex
	seq        int
	items      map[string]*model.RentalItem
	bookings   map[string]*model.Booking
	payments   map[string]*model.Payment
	extensions map[string]*model.Extension
}

func newMemStore() *memStore {
	return &memStore{
		items:      map[string]*model.RentalItem{},
		bookings:   map[string]*model.Booking{},
		payments:   map[string]*model.Payment{},
		extensions: map[string]*model.Extension{},
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

type memItems struct{ *memStore }

func (m memItems) FindByID(_ context.Context, id string) (*model.RentalItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, bookingserrors.NotFound("item", id)
	}
	cp := *item
	return &cp, nil
}

type memBookings struct{ *memStore }

func (m memBookings) Create(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.nextID("b")
	m.bookings[b.ID] = b.Clone()
	return nil
}

func (m memBookings) FindByID(_ context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.NotFound("booking", id)
	}
	return b.Clone(), nil
}

func (m memBookings) Update(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return bookingserrors.NotFound("booking", b.ID)
	}
	m.bookings[b.ID] = b.Clone()
	return nil
}

func (m memBookings) DeleteExpiredRejections(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, b := range m.bookings {
		if b.RentalStatus == model.RentalRejected && b.RejectionExpiry != nil && b.RejectionExpiry.Before(now) {
			delete(m.bookings, id)
			n++
		}
	}
	return n, nil
}

func (m memBookings) FindCommittedOverlapping(_ context.Context, itemID string, _ model.DateRange) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.ItemID == itemID {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}

type memPayments struct{ *memStore }

func (m memPayments) Create(_ context.Context, p *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID("p")
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m memPayments) FindByID(_ context.Context, id string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, bookingserrors.NotFound("payment", id)
	}
	cp := *p
	return &cp, nil
}

func (m memPayments) Update(_ context.Context, p *model.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m memPayments) FindPrimary(_ context.Context, bookingID string) (*model.Payment, error) {
	return m.find(func(p *model.Payment) bool { return p.BookingID == bookingID && p.IsPrimary() }, bookingID)
}

func (m memPayments) FindByExtension(_ context.Context, extensionID string) (*model.Payment, error) {
	return m.find(func(p *model.Payment) bool { return p.ExtensionID != nil && *p.ExtensionID == extensionID }, extensionID)
}

func (m memPayments) find(match func(*model.Payment) bool, key string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if match(p) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, bookingserrors.NotFound("payment", key)
}

type memExtensions struct{ *memStore }

func (m memExtensions) Create(_ context.Context, e *model.Extension) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.nextID("e")
	cp := *e
	m.extensions[e.ID] = &cp
	return nil
}

func (m memExtensions) FindByID(_ context.Context, id string) (*model.Extension, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.extensions[id]
	if !ok {
		return nil, bookingserrors.NotFound("extension", id)
	}
	cp := *e
	return &cp, nil
}

func (m memExtensions) Update(_ context.Context, e *model.Extension) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.extensions[e.ID] = &cp
	return nil
}

func (m memExtensions) FindOpenByBooking(_ context.Context, bookingID string) (*model.Extension, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.extensions {
		open := e.Status == model.ExtensionPending || (e.Status == model.ExtensionApproved && e.AppliedAt == nil)
		if e.BookingID == bookingID && open {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

// inlineTx runs fn directly. Writes before a failure are not rolled back,
// which keeps the guard-before-write ordering honest in tests.
type inlineTx struct{ calls int }

func (t *inlineTx) ExecuteTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type mockLocker struct {
	mu        sync.Mutex
	held      map[string]bool
	acquired  []string
	confirmed int
	// lost makes Confirm report that another owner took the item over.
	lost bool
}

func newMockLocker() *mockLocker {
	return &mockLocker{held: map[string]bool{}}
}

func (l *mockLocker) Acquire(_ context.Context, itemID string) (ItemLock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[itemID] {
		return nil, bookingserrors.ErrLockHeld
	}
	l.held[itemID] = true
	l.acquired = append(l.acquired, itemID)
	return &mockLock{locker: l, itemID: itemID}, nil
}

type mockLock struct {
	locker *mockLocker
	itemID string
}

func (m *mockLock) Confirm(context.Context) error {
	m.locker.mu.Lock()
	defer m.locker.mu.Unlock()
	m.locker.confirmed++
	if m.locker.lost {
		return bookingserrors.ErrLockLost
	}
	return nil
}

func (m *mockLock) Release(context.Context) error {
	m.locker.mu.Lock()
	defer m.locker.mu.Unlock()
	delete(m.locker.held, m.itemID)
	return nil
}

type recordingNotifier struct {
	events []model.BookingEvent
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, e model.BookingEvent) error {
	n.events = append(n.events, e)
	return n.err
}

func (n *recordingNotifier) types() []model.EventType {
	out := []model.EventType{}
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

var errStore = errors.New("store unavailable")

func intPtr(v int) *int { return &v }

func standardTiers() []model.PricingTier {
	return []model.PricingTier{
		{MinDays: 1, MaxDays: intPtr(3), PricePerDayCents: 10000, Description: "short"},
		{MinDays: 4, MaxDays: intPtr(7), PricePerDayCents: 8000, Description: "mid"},
		{MinDays: 8, MaxDays: nil, PricePerDayCents: 6000, Description: "long"},
	}
}

type harness struct {
	store    *memStore
	tx       *inlineTx
	locks    *mockLocker
	notifier *recordingNotifier
	now      time.Time
	ctrl     *Controller
}

func newHarness() *harness {
	h := &harness{
		store:    newMemStore(),
		tx:       &inlineTx{},
		locks:    newMockLocker(),
		notifier: &recordingNotifier{},
		now:      time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC),
	}
	h.store.items["X"] = &model.RentalItem{ID: "X", Name: "Sony A7 IV", Tiers: standardTiers()}
	h.store.items["Y"] = &model.RentalItem{ID: "Y", Name: "Canon R5", Tiers: standardTiers()}

	bookings := memBookings{h.store}
	h.ctrl = NewController(Dependencies{
		Tx:         h.tx,
		Bookings:   bookings,
		Payments:   memPayments{h.store},
		Extensions: memExtensions{h.store},
		Locks:      h.locks,
		Prices:     pricing.NewResolver(memItems{h.store}),
		Conflicts:  conflict.NewResolver(bookings),
		Notifier:   h.notifier,
	}, Options{
		RejectionRetention: 72 * time.Hour,
		Now:                func() time.Time { return h.now },
	}, logger.Discard())
	return h
}

func day(d int) model.Date { return model.NewDate(2024, 6, d) }

func request(item string, s, e int) model.BookingRequest {
	owner := "user-1"
	return model.BookingRequest{ItemID: item, OwnerRef: &owner, StartDate: day(s), EndDate: day(e)}
}

func (h *harness) stored(id string) *model.Booking {
	return h.store.bookings[id].Clone()
}

func (h *harness) paymentsFor(bookingID string) []*model.Payment {
	var out []*model.Payment
	for _, p := range h.store.payments {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out
}
