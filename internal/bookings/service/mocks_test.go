package service

import (
	"context"

	"camrent/internal/bookings/pricing"
	"camrent/internal/bookings/validator"
	"camrent/pkg/config"
	"camrent/pkg/logger"
	"camrent/pkg/model"
)

func testConfig() *config.Config {
	return &config.Config{Log: logger.Discard(), DefaultPhoneRegion: "US"}
}

func testValidator() *validator.BookingValidator {
	return validator.NewBookingValidator(logger.Discard())
}

// mockLifecycle routes every booking-returning operation through BookingFunc
// so a test can assert which operation ran.
type mockLifecycle struct {
	SubmitFunc     func(ctx context.Context, req model.BookingRequest) (*model.Booking, error)
	StaffEntryFunc func(ctx context.Context, req model.StaffEntryRequest) (*model.Booking, error)
	BookingFunc    func(op, id string) (*model.Booking, error)
	RescheduleFunc func(ctx context.Context, id string, req model.RescheduleRequest) (*model.Booking, error)
	ExtensionFunc  func(op, id string) (*model.Extension, error)
	PaymentFunc    func(op, id, receiptRef string) (*model.Payment, error)

	calls []string
}

func (m *mockLifecycle) booking(op, id string) (*model.Booking, error) {
	m.calls = append(m.calls, op)
	if m.BookingFunc != nil {
		return m.BookingFunc(op, id)
	}
	return &model.Booking{ID: id, RentalStatus: model.RentalConfirmed}, nil
}

func (m *mockLifecycle) extension(op, id string) (*model.Extension, error) {
	m.calls = append(m.calls, op)
	if m.ExtensionFunc != nil {
		return m.ExtensionFunc(op, id)
	}
	return &model.Extension{ID: id}, nil
}

func (m *mockLifecycle) payment(op, id, receiptRef string) (*model.Payment, error) {
	m.calls = append(m.calls, op)
	if m.PaymentFunc != nil {
		return m.PaymentFunc(op, id, receiptRef)
	}
	return &model.Payment{ID: id, ReceiptRef: receiptRef}, nil
}

func (m *mockLifecycle) Submit(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	m.calls = append(m.calls, "submit")
	return m.SubmitFunc(ctx, req)
}

func (m *mockLifecycle) CreateStaffEntry(ctx context.Context, req model.StaffEntryRequest) (*model.Booking, error) {
	m.calls = append(m.calls, "staff_entry")
	return m.StaffEntryFunc(ctx, req)
}

func (m *mockLifecycle) Approve(_ context.Context, id string) (*model.Booking, error) {
	return m.booking("approve", id)
}

func (m *mockLifecycle) Reject(_ context.Context, id string, reason string) (*model.Booking, error) {
	b, err := m.booking("reject", id)
	if b != nil {
		b.RejectionReason = reason
	}
	return b, err
}

func (m *mockLifecycle) MarkReadyToShip(_ context.Context, id string) (*model.Booking, error) {
	return m.booking("mark_ready_to_ship", id)
}

func (m *mockLifecycle) MarkInTransitToCustomer(_ context.Context, id string) (*model.Booking, error) {
	return m.booking("mark_in_transit_to_customer", id)
}

func (m *mockLifecycle) ConfirmDelivered(_ context.Context, id string) (*model.Booking, error) {
	return m.booking("confirm_delivered", id)
}

func (m *mockLifecycle) Activate(_ context.Context, id string) (*model.Booking, error) {
	return m.booking("activate", id)
}

func (m *mockLifecycle) ScheduleReturn(_ context.Context, id string) (*model.Booking, error) {
	return m.booking("schedule_return", id)
}

func (m *mockLifecycle) ConfirmShippedBack(_ context.Context, id string) (*model.Booking, error) {
	return m.booking("confirm_shipped_back", id)
}

func (m *mockLifecycle) ConfirmReturned(_ context.Context, id string) (*model.Booking, error) {
	return m.booking("confirm_returned", id)
}

func (m *mockLifecycle) Cancel(_ context.Context, id string) (*model.Booking, error) {
	return m.booking("cancel", id)
}

func (m *mockLifecycle) AdminCancel(_ context.Context, id string) (*model.Booking, error) {
	return m.booking("admin_cancel", id)
}

func (m *mockLifecycle) Reschedule(ctx context.Context, id string, req model.RescheduleRequest) (*model.Booking, error) {
	m.calls = append(m.calls, "reschedule")
	return m.RescheduleFunc(ctx, id, req)
}

func (m *mockLifecycle) RequestExtension(_ context.Context, bookingID string, req model.ExtensionRequest) (*model.Extension, error) {
	ext, err := m.extension("request_extension", bookingID)
	if ext != nil {
		ext.RequestedEndDate = req.RequestedEndDate
	}
	return ext, err
}

func (m *mockLifecycle) ApproveExtension(_ context.Context, id string) (*model.Extension, error) {
	return m.extension("approve_extension", id)
}

func (m *mockLifecycle) RejectExtension(_ context.Context, id string) (*model.Extension, error) {
	return m.extension("reject_extension", id)
}

func (m *mockLifecycle) ApplyExtension(_ context.Context, id string) (*model.Booking, error) {
	return m.booking("apply_extension", id)
}

func (m *mockLifecycle) SubmitPayment(_ context.Context, id string, receiptRef string) (*model.Payment, error) {
	return m.payment("submit_payment", id, receiptRef)
}

func (m *mockLifecycle) VerifyPayment(_ context.Context, id string) (*model.Payment, error) {
	return m.payment("verify_payment", id, "")
}

func (m *mockLifecycle) RejectPayment(_ context.Context, id string) (*model.Payment, error) {
	return m.payment("reject_payment", id, "")
}

type mockBookingQueries struct {
	FindByIDFunc           func(ctx context.Context, id string) (*model.Booking, error)
	FindByStatusFunc       func(ctx context.Context, status model.RentalStatus, limit int, offset int64) ([]*model.Booking, error)
	CountByStatusFunc      func(ctx context.Context, status model.RentalStatus) (int64, error)
	FindNeedingActionFunc  func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	CountNeedingActionFunc func(ctx context.Context) (int64, error)
}

func (m *mockBookingQueries) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockBookingQueries) FindByStatus(ctx context.Context, status model.RentalStatus, limit int, offset int64) ([]*model.Booking, error) {
	return m.FindByStatusFunc(ctx, status, limit, offset)
}

func (m *mockBookingQueries) CountByStatus(ctx context.Context, status model.RentalStatus) (int64, error) {
	return m.CountByStatusFunc(ctx, status)
}

func (m *mockBookingQueries) FindNeedingAction(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return m.FindNeedingActionFunc(ctx, limit, offset)
}

func (m *mockBookingQueries) CountNeedingAction(ctx context.Context) (int64, error) {
	return m.CountNeedingActionFunc(ctx)
}

type mockPaymentQueries struct {
	FindByBookingFunc func(ctx context.Context, bookingID string) ([]*model.Payment, error)
}

func (m *mockPaymentQueries) FindByBooking(ctx context.Context, bookingID string) ([]*model.Payment, error) {
	if m.FindByBookingFunc == nil {
		return nil, nil
	}
	return m.FindByBookingFunc(ctx, bookingID)
}

type mockExtensionQueries struct {
	FindByBookingFunc func(ctx context.Context, bookingID string) ([]*model.Extension, error)
}

func (m *mockExtensionQueries) FindByBooking(ctx context.Context, bookingID string) ([]*model.Extension, error) {
	if m.FindByBookingFunc == nil {
		return nil, nil
	}
	return m.FindByBookingFunc(ctx, bookingID)
}

type mockItemStore struct {
	CreateFunc      func(ctx context.Context, item *model.RentalItem) error
	FindByIDFunc    func(ctx context.Context, id string) (*model.RentalItem, error)
	UpdateTiersFunc func(ctx context.Context, id string, tiers []model.PricingTier) (*model.RentalItem, error)
}

func (m *mockItemStore) Create(ctx context.Context, item *model.RentalItem) error {
	return m.CreateFunc(ctx, item)
}

func (m *mockItemStore) FindByID(ctx context.Context, id string) (*model.RentalItem, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockItemStore) UpdateTiers(ctx context.Context, id string, tiers []model.PricingTier) (*model.RentalItem, error) {
	return m.UpdateTiersFunc(ctx, id, tiers)
}

type mockPriceResolver struct {
	ResolvePriceFunc func(ctx context.Context, itemID string, start, end model.Date) (pricing.Quote, error)
}

func (m *mockPriceResolver) ResolvePrice(ctx context.Context, itemID string, start, end model.Date) (pricing.Quote, error) {
	return m.ResolvePriceFunc(ctx, itemID, start, end)
}

type mockConflictFinder struct {
	FindConflictsFunc func(ctx context.Context, itemID string, rng model.DateRange, excludeID string) ([]*model.Booking, error)
}

func (m *mockConflictFinder) FindConflicts(ctx context.Context, itemID string, rng model.DateRange, excludeID string) ([]*model.Booking, error) {
	return m.FindConflictsFunc(ctx, itemID, rng, excludeID)
}
