package model

// BookingRequest is a customer submission. Either OwnerRef or CustomerName
// must be set.
type BookingRequest struct {
	ItemID          string  `json:"item_id" validate:"required,item_id"`
	OwnerRef        *string `json:"owner_ref" validate:"omitempty,min=1,max=128"`
	CustomerName    string  `json:"customer_name" validate:"max=120"`
	CustomerContact string  `json:"customer_contact" validate:"max=32"`
	CustomerEmail   string  `json:"customer_email" validate:"omitempty,email,max=254"`
	StartDate       Date    `json:"start_date"`
	EndDate         Date    `json:"end_date"`
	Notes           string  `json:"notes" validate:"max=1000"`
}

// StaffEntryRequest records a rental agreed outside the approval flow.
type StaffEntryRequest struct {
	BookingRequest
	RentalStatus RentalStatus `json:"rental_status" validate:"required,oneof=confirmed completed"`
	ContractRef  string       `json:"contract_ref" validate:"max=512"`
}

type RescheduleRequest struct {
	StartDate Date `json:"start_date"`
	EndDate   Date `json:"end_date"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type ExtensionRequest struct {
	RequestedEndDate Date `json:"requested_end_date"`
}

type PaymentSubmission struct {
	ReceiptRef string `json:"receipt_ref" validate:"required,max=512"`
}

type TiersUpdate struct {
	Tiers []PricingTier `json:"tiers" validate:"required,min=1,dive"`
}
