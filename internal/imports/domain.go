// Package imports ingests trip exports from the booking system: CSV
// parsing with header auto-mapping, row validation, duplicate detection,
// and batch insertion.
package imports

import "time"

// Trip is one normalized booking row from a CSV export.
type Trip struct {
	ConfirmationNumber string    `json:"confirmationNumber" validate:"required"`
	PickupDate         string    `json:"pickupDate" validate:"required"`
	PickupTime         string    `json:"pickupTime,omitempty"`
	PickupAddress      string    `json:"pickupAddress" validate:"required"`
	DropoffAddress     string    `json:"dropoffAddress" validate:"required"`
	PassengerName      string    `json:"passengerName,omitempty"`
	VehicleType        string    `json:"vehicleType,omitempty"`
	Passengers         int       `json:"passengers,omitempty"`
	TotalAmountCents   int64     `json:"totalAmountCents" validate:"gte=0"`
	GratuityCents      int64     `json:"gratuityCents,omitempty"`
	PaymentMethod      string    `json:"paymentMethod,omitempty"`
	Status             string    `json:"status,omitempty"`
	OrganizationID     string    `json:"organizationId"`
	ImportBatchID      string    `json:"importBatchId"`
	CreatedAt          time.Time `json:"createdAt"`
}

// RowError describes why one CSV row was rejected.
type RowError struct {
	RowNumber int    `json:"rowNumber"`
	Message   string `json:"message"`
}

// Summary is the outcome of one import batch.
type Summary struct {
	BatchID    string     `json:"batchId"`
	FileHash   string     `json:"fileHash"`
	RowCount   int        `json:"rowCount"`
	Imported   int        `json:"imported"`
	Duplicates int        `json:"duplicates"`
	Errors     []RowError `json:"errors"`
}
