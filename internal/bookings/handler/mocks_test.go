package handler

import (
	"context"

	"camrent/internal/bookings/lifecycle"
	"camrent/internal/bookings/pricing"
	"camrent/internal/bookings/service"
	"camrent/pkg/model"
)

type mockBookingService struct {
	SubmitFunc           func(ctx context.Context, req *model.BookingRequest) (*lifecycle.View, error)
	CreateStaffEntryFunc func(ctx context.Context, req *model.StaffEntryRequest) (*lifecycle.View, error)
	GetByIDFunc          func(ctx context.Context, id string) (*service.BookingDetails, error)
	ListFunc             func(ctx context.Context, status model.RentalStatus, limit int, offset int64) ([]lifecycle.View, int64, error)
	TransitionFunc       func(ctx context.Context, id string, op lifecycle.Operation) (*lifecycle.View, error)
	RescheduleFunc       func(ctx context.Context, id string, req *model.RescheduleRequest) (*lifecycle.View, error)
	RequestExtensionFunc func(ctx context.Context, bookingID string, req *model.ExtensionRequest) (*model.Extension, error)
	DecideExtensionFunc  func(ctx context.Context, id string, op lifecycle.Operation) (*model.Extension, error)
	DecidePaymentFunc    func(ctx context.Context, id string, op lifecycle.Operation) (*model.Payment, error)
}

func (m *mockBookingService) Submit(ctx context.Context, req *model.BookingRequest) (*lifecycle.View, error) {
	return m.SubmitFunc(ctx, req)
}

func (m *mockBookingService) CreateStaffEntry(ctx context.Context, req *model.StaffEntryRequest) (*lifecycle.View, error) {
	return m.CreateStaffEntryFunc(ctx, req)
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*service.BookingDetails, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockBookingService) List(ctx context.Context, status model.RentalStatus, limit int, offset int64) ([]lifecycle.View, int64, error) {
	return m.ListFunc(ctx, status, limit, offset)
}

func (m *mockBookingService) ListNeedingAction(ctx context.Context, limit int, offset int64) ([]lifecycle.View, int64, error) {
	return []lifecycle.View{}, 0, nil
}

func (m *mockBookingService) Transition(ctx context.Context, id string, op lifecycle.Operation) (*lifecycle.View, error) {
	return m.TransitionFunc(ctx, id, op)
}

func (m *mockBookingService) Reject(ctx context.Context, id string, req *model.RejectRequest) (*lifecycle.View, error) {
	v := lifecycle.NewView(&model.Booking{ID: id, RentalStatus: model.RentalRejected, RejectionReason: req.Reason})
	return &v, nil
}

func (m *mockBookingService) Reschedule(ctx context.Context, id string, req *model.RescheduleRequest) (*lifecycle.View, error) {
	return m.RescheduleFunc(ctx, id, req)
}

func (m *mockBookingService) RequestExtension(ctx context.Context, bookingID string, req *model.ExtensionRequest) (*model.Extension, error) {
	return m.RequestExtensionFunc(ctx, bookingID, req)
}

func (m *mockBookingService) DecideExtension(ctx context.Context, id string, op lifecycle.Operation) (*model.Extension, error) {
	return m.DecideExtensionFunc(ctx, id, op)
}

func (m *mockBookingService) ApplyExtension(ctx context.Context, id string) (*lifecycle.View, error) {
	v := lifecycle.NewView(&model.Booking{ID: "b1", RentalStatus: model.RentalActive})
	return &v, nil
}

func (m *mockBookingService) ListPayments(ctx context.Context, bookingID string) ([]*model.Payment, error) {
	return []*model.Payment{}, nil
}

func (m *mockBookingService) SubmitPayment(ctx context.Context, id string, req *model.PaymentSubmission) (*model.Payment, error) {
	return &model.Payment{ID: id, ReceiptRef: req.ReceiptRef, Status: model.PaymentSubmitted}, nil
}

func (m *mockBookingService) DecidePayment(ctx context.Context, id string, op lifecycle.Operation) (*model.Payment, error) {
	return m.DecidePaymentFunc(ctx, id, op)
}

type mockItemService struct {
	CreateFunc    func(ctx context.Context, item *model.RentalItem) error
	QuoteFunc     func(ctx context.Context, id string, start, end model.Date) (pricing.Quote, error)
	ConflictsFunc func(ctx context.Context, id string, start, end model.Date, excludeID string) ([]*model.Booking, error)
}

func (m *mockItemService) Create(ctx context.Context, item *model.RentalItem) error {
	return m.CreateFunc(ctx, item)
}

func (m *mockItemService) GetByID(ctx context.Context, id string) (*model.RentalItem, error) {
	return &model.RentalItem{ID: id}, nil
}

func (m *mockItemService) UpdateTiers(ctx context.Context, id string, update *model.TiersUpdate) (*model.RentalItem, error) {
	return &model.RentalItem{ID: id, Tiers: update.Tiers}, nil
}

func (m *mockItemService) Quote(ctx context.Context, id string, start, end model.Date) (pricing.Quote, error) {
	return m.QuoteFunc(ctx, id, start, end)
}

func (m *mockItemService) Conflicts(ctx context.Context, id string, start, end model.Date, excludeID string) ([]*model.Booking, error) {
	return m.ConflictsFunc(ctx, id, start, end, excludeID)
}
