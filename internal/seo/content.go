package seo

import (
	"fmt"
	"strings"
)

// LocationContent returns boilerplate copy for a location page type.
func LocationContent(location, pageType string) string {
	switch pageType {
	case "suburb":
		return fmt.Sprintf("Serving %s with premium black car service. Whether you need airport transportation from %s to O'Hare or Midway, or corporate travel within %s, our professional chauffeurs ensure a comfortable journey.", location, location, location)
	case "downtown":
		return fmt.Sprintf("%s luxury transportation at its finest. Our black car service covers all of %s, providing executive transportation for business travelers and special occasions.", location, location)
	default:
		return fmt.Sprintf("Professional %s airport transportation service. Our luxury black car service provides reliable, punctual transfers to and from %s. Book your %s limo service today.", location, location, location)
	}
}

// VehicleContent returns boilerplate copy for a vehicle type.
func VehicleContent(vehicle string) string {
	switch strings.ToLower(vehicle) {
	case "sedan":
		return "Our luxury sedans offer comfortable transportation for up to 3 passengers with ample luggage space. Perfect for airport transfers and business meetings."
	case "suv":
		return "Spacious luxury SUVs accommodate up to 6 passengers with generous luggage capacity. Ideal for families and group travel."
	case "limousine":
		return "Experience ultimate luxury in our stretch limousines. Perfect for special occasions, corporate events, and making a lasting impression."
	default:
		return "Premium vehicle options available for your transportation needs."
	}
}
