package imports

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// columnSynonyms maps canonical field names to the header spellings seen
// in booking-system exports.
var columnSynonyms = map[string][]string{
	"confirmation_number": {"Trip Conf", "Trip Confirmation", "TripConf", "trip_conf", "Confirmation Number", "Reservation Conf", "Reservation Confirmation"},
	"pickup_date":         {"Pickup Date", "PickupDate", "pickup_date", "Pickup", "Date"},
	"pickup_time":         {"Pickup Time", "PickupTime", "pickup_time", "Time"},
	"pickup_address":      {"Pickup Address", "PickupAddress", "pickup_address", "Pickup Location", "Origin", "From"},
	"dropoff_address":     {"Dropoff Address", "DropoffAddress", "dropoff_address", "Dropoff Location", "Destination", "To"},
	"passenger_name":      {"Passenger Name", "PassengerName", "passenger_name", "Passenger", "Guest Name"},
	"vehicle_type":        {"Vehicle Type", "VehicleType", "vehicle_type", "Car Type"},
	"passengers":          {"Passengers", "passengers", "Passenger Count", "Pax"},
	"total_amount":        {"Total Amount", "TotalAmount", "total_amount", "Total", "Total Price", "Grand Total"},
	"gratuity":            {"Gratuity", "gratuity", "Tip", "Gratuity Amount"},
	"payment_method":      {"Payment Method", "PaymentMethod", "payment_method", "Payment Type"},
	"status":              {"Status", "status", "Status Slug", "StatusSlug"},
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// mapHeaders resolves each canonical field to its column index, or -1.
func mapHeaders(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := normalizeHeader(h)
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	mapping := make(map[string]int, len(columnSynonyms))
	for field, synonyms := range columnSynonyms {
		mapping[field] = -1
		for _, syn := range synonyms {
			if i, ok := index[normalizeHeader(syn)]; ok {
				mapping[field] = i
				break
			}
		}
	}
	return mapping
}

var moneyCleanRe = regexp.MustCompile(`[$,\s]`)

// parseMoneyCents turns "$1,234.50" into 123450. Empty strings are zero.
func parseMoneyCents(raw string) (int64, error) {
	cleaned := moneyCleanRe.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, nil
	}
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.Trim(cleaned, "()")
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	cents := int64(math.Round(value * 100))
	if negative {
		cents = -cents
	}
	return cents, nil
}

func parseIntField(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// ParsedRow pairs a normalized trip with its 1-based CSV position
// (header excluded) for error reporting.
type ParsedRow struct {
	Trip      Trip
	RowNumber int
}

// ParseTrips reads a CSV export and returns the normalized rows plus
// per-row parse errors.
func ParseTrips(r io.Reader) ([]ParsedRow, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("csv file is empty")
		}
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	mapping := mapHeaders(headers)
	if mapping["confirmation_number"] < 0 {
		return nil, nil, fmt.Errorf("csv is missing a confirmation number column")
	}

	var trips []ParsedRow
	var rowErrors []RowError
	rowNumber := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv row: %w", err)
		}
		rowNumber++

		trip := Trip{
			ConfirmationNumber: cell(record, mapping["confirmation_number"]),
			PickupDate:         cell(record, mapping["pickup_date"]),
			PickupTime:         cell(record, mapping["pickup_time"]),
			PickupAddress:      cell(record, mapping["pickup_address"]),
			DropoffAddress:     cell(record, mapping["dropoff_address"]),
			PassengerName:      cell(record, mapping["passenger_name"]),
			VehicleType:        cell(record, mapping["vehicle_type"]),
			Passengers:         parseIntField(cell(record, mapping["passengers"])),
			PaymentMethod:      cell(record, mapping["payment_method"]),
			Status:             cell(record, mapping["status"]),
		}

		total, err := parseMoneyCents(cell(record, mapping["total_amount"]))
		if err != nil {
			rowErrors = append(rowErrors, RowError{RowNumber: rowNumber, Message: err.Error()})
			continue
		}
		trip.TotalAmountCents = total

		gratuity, err := parseMoneyCents(cell(record, mapping["gratuity"]))
		if err != nil {
			rowErrors = append(rowErrors, RowError{RowNumber: rowNumber, Message: err.Error()})
			continue
		}
		trip.GratuityCents = gratuity

		trips = append(trips, ParsedRow{Trip: trip, RowNumber: rowNumber})
	}

	return trips, rowErrors, nil
}
