package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	bookingerrors "camrent/internal/bookings/errors"
	"camrent/pkg/logger"
	"camrent/pkg/model"

	"github.com/go-playground/validator/v10"
)

var itemIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_\-]{0,63}$`)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	// report wire names, not Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("item_id", validateItemID); err != nil {
		log.Fatal("Failed to register 'item_id' validator",
			"error", err,
		)
	}

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateItemID(fl validator.FieldLevel) bool {
	return itemIDRegex.MatchString(fl.Field().String())
}

// ValidateRequest checks a customer submission. The date range itself is
// checked by the pricing resolver so that it maps to the range error.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) error {
	fields := v.structFields(req)
	if req.OwnerRef == nil && req.CustomerName == "" {
		fields["customer_name"] = "customer_name is required when owner_ref is absent"
	}
	if req.StartDate.IsZero() {
		fields["start_date"] = "start_date is required"
	}
	if req.EndDate.IsZero() {
		fields["end_date"] = "end_date is required"
	}
	return asError(fields)
}

func (v *BookingValidator) ValidateStaffEntry(req *model.StaffEntryRequest) error {
	fields := map[string]string{}
	if err := v.ValidateRequest(&req.BookingRequest); err != nil {
		var verr *bookingerrors.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		fields = verr.Fields
	}
	v.checkVar(fields, "rental_status", string(req.RentalStatus), "required,oneof=confirmed completed")
	v.checkVar(fields, "contract_ref", req.ContractRef, "max=512")
	return asError(fields)
}

func (v *BookingValidator) ValidateReschedule(req *model.RescheduleRequest) error {
	fields := map[string]string{}
	if req.StartDate.IsZero() {
		fields["start_date"] = "start_date is required"
	}
	if req.EndDate.IsZero() {
		fields["end_date"] = "end_date is required"
	}
	return asError(fields)
}

func (v *BookingValidator) ValidateReject(req *model.RejectRequest) error {
	return asError(v.structFields(req))
}

func (v *BookingValidator) ValidatePayment(req *model.PaymentSubmission) error {
	return asError(v.structFields(req))
}

func (v *BookingValidator) ValidateExtension(req *model.ExtensionRequest) error {
	if req.RequestedEndDate.IsZero() {
		return asError(map[string]string{"requested_end_date": "requested_end_date is required"})
	}
	return nil
}

// ValidateItem checks the item id and its tier table.
func (v *BookingValidator) ValidateItem(item *model.RentalItem) error {
	fields := map[string]string{}
	if !itemIDRegex.MatchString(item.ID) {
		fields["id"] = "id must be a lowercase slug of at most 64 characters"
	}
	if strings.TrimSpace(item.Name) == "" {
		fields["name"] = "name is required"
	}
	if err := v.ValidateTiers(item.Tiers); err != nil {
		var verr *bookingerrors.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for k, msg := range verr.Fields {
			fields[k] = msg
		}
	}
	return asError(fields)
}

// ValidateTiers requires tiers ordered from one day upwards with no gaps or
// overlaps, where only the last tier may be open-ended.
func (v *BookingValidator) ValidateTiers(tiers []model.PricingTier) error {
	fields := v.structFields(&model.TiersUpdate{Tiers: tiers})
	if len(fields) > 0 {
		return asError(fields)
	}

	next := 1
	for i, tier := range tiers {
		key := fmt.Sprintf("tiers[%d]", i)
		switch {
		case tier.MinDays != next:
			fields[key] = fmt.Sprintf("min_days must be %d to continue the previous tier", next)
		case tier.MaxDays == nil && i != len(tiers)-1:
			fields[key] = "only the last tier may omit max_days"
		case tier.MaxDays != nil && *tier.MaxDays < tier.MinDays:
			fields[key] = "max_days must not be below min_days"
		}
		if len(fields) > 0 {
			return asError(fields)
		}
		if tier.MaxDays != nil {
			next = *tier.MaxDays + 1
		}
	}
	return nil
}

func (v *BookingValidator) checkVar(fields map[string]string, name string, value any, tag string) {
	err := v.validate.Var(value, tag)
	if err == nil {
		return
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		// Var errors carry no field name
		fe := validationErrs[0]
		fields[name] = name + " " + strings.TrimSpace(translate(fe))
		return
	}
	fields[name] = err.Error()
}

func (v *BookingValidator) structFields(s any) map[string]string {
	fields := map[string]string{}
	err := v.validate.Struct(s)
	if err == nil {
		return fields
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		v.logger.Warn("struct validation failed unexpectedly", "error", err)
		fields["_"] = err.Error()
		return fields
	}
	for _, fe := range validationErrs {
		fields[fieldPath(fe)] = translate(fe)
	}
	return fields
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func translate(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "item_id":
		return fmt.Sprintf("%s must be a lowercase slug", field)
	}
	return fe.Error()
}

func asError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &bookingerrors.ValidationError{Fields: fields}
}
