package service

import (
	"context"
	"fmt"
	"sync"

	bookingserrors "camrent/internal/bookings/errors"
	"camrent/internal/bookings/lifecycle"
	"camrent/internal/bookings/validator"
	"camrent/pkg/config"
	"camrent/pkg/model"
	"camrent/pkg/sanitizer"
)

// Lifecycle is the set of state-changing operations the service exposes.
// *lifecycle.Controller implements it.
type Lifecycle interface {
	Submit(ctx context.Context, req model.BookingRequest) (*model.Booking, error)
	CreateStaffEntry(ctx context.Context, req model.StaffEntryRequest) (*model.Booking, error)
	Approve(ctx context.Context, id string) (*model.Booking, error)
	Reject(ctx context.Context, id string, reason string) (*model.Booking, error)
	MarkReadyToShip(ctx context.Context, id string) (*model.Booking, error)
	MarkInTransitToCustomer(ctx context.Context, id string) (*model.Booking, error)
	ConfirmDelivered(ctx context.Context, id string) (*model.Booking, error)
	Activate(ctx context.Context, id string) (*model.Booking, error)
	ScheduleReturn(ctx context.Context, id string) (*model.Booking, error)
	ConfirmShippedBack(ctx context.Context, id string) (*model.Booking, error)
	ConfirmReturned(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	AdminCancel(ctx context.Context, id string) (*model.Booking, error)
	Reschedule(ctx context.Context, id string, req model.RescheduleRequest) (*model.Booking, error)
	RequestExtension(ctx context.Context, bookingID string, req model.ExtensionRequest) (*model.Extension, error)
	ApproveExtension(ctx context.Context, id string) (*model.Extension, error)
	RejectExtension(ctx context.Context, id string) (*model.Extension, error)
	ApplyExtension(ctx context.Context, id string) (*model.Booking, error)
	SubmitPayment(ctx context.Context, id string, receiptRef string) (*model.Payment, error)
	VerifyPayment(ctx context.Context, id string) (*model.Payment, error)
	RejectPayment(ctx context.Context, id string) (*model.Payment, error)
}

type BookingQueries interface {
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByStatus(ctx context.Context, status model.RentalStatus, limit int, offset int64) ([]*model.Booking, error)
	CountByStatus(ctx context.Context, status model.RentalStatus) (int64, error)
	FindNeedingAction(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	CountNeedingAction(ctx context.Context) (int64, error)
}

type PaymentQueries interface {
	FindByBooking(ctx context.Context, bookingID string) ([]*model.Payment, error)
}

type ExtensionQueries interface {
	FindByBooking(ctx context.Context, bookingID string) ([]*model.Extension, error)
}

// BookingDetails is a booking with everything recorded against it.
type BookingDetails struct {
	lifecycle.View
	Payments   []*model.Payment   `json:"payments"`
	Extensions []*model.Extension `json:"extensions"`
}

type BookingService interface {
	Submit(ctx context.Context, req *model.BookingRequest) (*lifecycle.View, error)
	CreateStaffEntry(ctx context.Context, req *model.StaffEntryRequest) (*lifecycle.View, error)
	GetByID(ctx context.Context, id string) (*BookingDetails, error)
	List(ctx context.Context, status model.RentalStatus, limit int, offset int64) ([]lifecycle.View, int64, error)
	ListNeedingAction(ctx context.Context, limit int, offset int64) ([]lifecycle.View, int64, error)
	Transition(ctx context.Context, id string, op lifecycle.Operation) (*lifecycle.View, error)
	Reject(ctx context.Context, id string, req *model.RejectRequest) (*lifecycle.View, error)
	Reschedule(ctx context.Context, id string, req *model.RescheduleRequest) (*lifecycle.View, error)
	RequestExtension(ctx context.Context, bookingID string, req *model.ExtensionRequest) (*model.Extension, error)
	DecideExtension(ctx context.Context, id string, op lifecycle.Operation) (*model.Extension, error)
	ApplyExtension(ctx context.Context, id string) (*lifecycle.View, error)
	ListPayments(ctx context.Context, bookingID string) ([]*model.Payment, error)
	SubmitPayment(ctx context.Context, id string, req *model.PaymentSubmission) (*model.Payment, error)
	DecidePayment(ctx context.Context, id string, op lifecycle.Operation) (*model.Payment, error)
}

type bookingService struct {
	engine     Lifecycle
	bookings   BookingQueries
	payments   PaymentQueries
	extensions ExtensionQueries
	validator  *validator.BookingValidator
	cfg        *config.Config
}

func NewBookingService(
	engine Lifecycle,
	bookings BookingQueries,
	payments PaymentQueries,
	extensions ExtensionQueries,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		engine:     engine,
		bookings:   bookings,
		payments:   payments,
		extensions: extensions,
		validator:  validator,
		cfg:        cfg,
	}
}

func (s *bookingService) Submit(ctx context.Context, req *model.BookingRequest) (*lifecycle.View, error) {
	s.sanitizeRequest(req)
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "item_id", req.ItemID, "error", err)
		return nil, err
	}
	return view(s.engine.Submit(ctx, *req))
}

func (s *bookingService) CreateStaffEntry(ctx context.Context, req *model.StaffEntryRequest) (*lifecycle.View, error) {
	s.sanitizeRequest(&req.BookingRequest)
	req.ContractRef = sanitizer.TrimAndNormalize(req.ContractRef)
	if err := s.validator.ValidateStaffEntry(req); err != nil {
		s.cfg.Log.Warn("Staff entry validation failed", "item_id", req.ItemID, "error", err)
		return nil, err
	}
	return view(s.engine.CreateStaffEntry(ctx, *req))
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*BookingDetails, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		payments   []*model.Payment
		extensions []*model.Extension
		errPay     error
		errExt     error
		wg         sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		payments, errPay = s.payments.FindByBooking(ctx, id)
	}()
	go func() {
		defer wg.Done()
		extensions, errExt = s.extensions.FindByBooking(ctx, id)
	}()
	wg.Wait()

	if errPay != nil {
		return nil, errPay
	}
	if errExt != nil {
		return nil, errExt
	}
	if payments == nil {
		payments = []*model.Payment{}
	}
	if extensions == nil {
		extensions = []*model.Extension{}
	}

	return &BookingDetails{View: lifecycle.NewView(b), Payments: payments, Extensions: extensions}, nil
}

func (s *bookingService) List(ctx context.Context, status model.RentalStatus, limit int, offset int64) ([]lifecycle.View, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, &bookingserrors.ValidationError{Fields: map[string]string{
			"status": fmt.Sprintf("unknown rental status %q", status),
		}}
	}
	return s.page(
		func() ([]*model.Booking, error) { return s.bookings.FindByStatus(ctx, status, limit, offset) },
		func() (int64, error) { return s.bookings.CountByStatus(ctx, status) },
	)
}

func (s *bookingService) ListNeedingAction(ctx context.Context, limit int, offset int64) ([]lifecycle.View, int64, error) {
	return s.page(
		func() ([]*model.Booking, error) { return s.bookings.FindNeedingAction(ctx, limit, offset) },
		func() (int64, error) { return s.bookings.CountNeedingAction(ctx) },
	)
}

// page runs the find and the count concurrently.
func (s *bookingService) page(find func() ([]*model.Booking, error), count func() (int64, error)) ([]lifecycle.View, int64, error) {
	var (
		bookings []*model.Booking
		total    int64
		errFind  error
		errCount error
		wg       sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		bookings, errFind = find()
	}()
	go func() {
		defer wg.Done()
		total, errCount = count()
	}()
	wg.Wait()

	if errCount != nil {
		s.cfg.Log.Error("Failed to count bookings", "error", errCount)
		return nil, 0, errCount
	}
	if errFind != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", errFind)
		return nil, 0, errFind
	}
	return lifecycle.NewViews(bookings), total, nil
}

// Transition runs one of the operations that need nothing but the booking id.
func (s *bookingService) Transition(ctx context.Context, id string, op lifecycle.Operation) (*lifecycle.View, error) {
	var fn func(context.Context, string) (*model.Booking, error)
	switch op {
	case lifecycle.OpApprove:
		fn = s.engine.Approve
	case lifecycle.OpMarkReadyToShip:
		fn = s.engine.MarkReadyToShip
	case lifecycle.OpMarkInTransitToCustomer:
		fn = s.engine.MarkInTransitToCustomer
	case lifecycle.OpConfirmDelivered:
		fn = s.engine.ConfirmDelivered
	case lifecycle.OpActivate:
		fn = s.engine.Activate
	case lifecycle.OpScheduleReturn:
		fn = s.engine.ScheduleReturn
	case lifecycle.OpConfirmShippedBack:
		fn = s.engine.ConfirmShippedBack
	case lifecycle.OpConfirmReturned:
		fn = s.engine.ConfirmReturned
	case lifecycle.OpCancel:
		fn = s.engine.Cancel
	case lifecycle.OpAdminCancel:
		fn = s.engine.AdminCancel
	default:
		return nil, fmt.Errorf("operation %s needs a request body", op)
	}
	return view(fn(ctx, id))
}

func (s *bookingService) Reject(ctx context.Context, id string, req *model.RejectRequest) (*lifecycle.View, error) {
	req.Reason = sanitizer.TrimAndNormalize(req.Reason)
	if err := s.validator.ValidateReject(req); err != nil {
		return nil, err
	}
	return view(s.engine.Reject(ctx, id, req.Reason))
}

func (s *bookingService) Reschedule(ctx context.Context, id string, req *model.RescheduleRequest) (*lifecycle.View, error) {
	if err := s.validator.ValidateReschedule(req); err != nil {
		return nil, err
	}
	return view(s.engine.Reschedule(ctx, id, *req))
}

func (s *bookingService) RequestExtension(ctx context.Context, bookingID string, req *model.ExtensionRequest) (*model.Extension, error) {
	if err := s.validator.ValidateExtension(req); err != nil {
		return nil, err
	}
	return s.engine.RequestExtension(ctx, bookingID, *req)
}

func (s *bookingService) DecideExtension(ctx context.Context, id string, op lifecycle.Operation) (*model.Extension, error) {
	switch op {
	case lifecycle.OpApproveExtension:
		return s.engine.ApproveExtension(ctx, id)
	case lifecycle.OpRejectExtension:
		return s.engine.RejectExtension(ctx, id)
	}
	return nil, fmt.Errorf("operation %s does not decide an extension", op)
}

func (s *bookingService) ApplyExtension(ctx context.Context, id string) (*lifecycle.View, error) {
	return view(s.engine.ApplyExtension(ctx, id))
}

func (s *bookingService) ListPayments(ctx context.Context, bookingID string) ([]*model.Payment, error) {
	if _, err := s.bookings.FindByID(ctx, bookingID); err != nil {
		return nil, err
	}
	payments, err := s.payments.FindByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []*model.Payment{}
	}
	return payments, nil
}

func (s *bookingService) SubmitPayment(ctx context.Context, id string, req *model.PaymentSubmission) (*model.Payment, error) {
	req.ReceiptRef = sanitizer.TrimAndNormalize(req.ReceiptRef)
	if err := s.validator.ValidatePayment(req); err != nil {
		return nil, err
	}
	return s.engine.SubmitPayment(ctx, id, req.ReceiptRef)
}

func (s *bookingService) DecidePayment(ctx context.Context, id string, op lifecycle.Operation) (*model.Payment, error) {
	switch op {
	case lifecycle.OpVerifyPayment:
		return s.engine.VerifyPayment(ctx, id)
	case lifecycle.OpRejectPayment:
		return s.engine.RejectPayment(ctx, id)
	}
	return nil, fmt.Errorf("operation %s does not decide a payment", op)
}

func (s *bookingService) sanitizeRequest(req *model.BookingRequest) {
	req.ItemID = sanitizer.NormalizeSlug(req.ItemID)
	req.OwnerRef = sanitizer.NormalizeOptional(req.OwnerRef, sanitizer.TrimAndNormalize)
	req.CustomerName = sanitizer.NormalizeName(req.CustomerName)
	req.CustomerContact = sanitizer.NormalizeContact(req.CustomerContact, s.cfg.DefaultPhoneRegion)
	req.CustomerEmail = sanitizer.NormalizeEmail(req.CustomerEmail)
	req.Notes = sanitizer.TrimAndNormalize(req.Notes)
}

func view(b *model.Booking, err error) (*lifecycle.View, error) {
	if err != nil {
		return nil, err
	}
	v := lifecycle.NewView(b)
	return &v, nil
}
