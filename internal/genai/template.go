package genai

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const bookingPhone = "(224) 801-3090"

// NoLower keeps acronyms like SUV intact.
var titleCaser = cases.Title(language.AmericanEnglish, cases.NoLower)

// templateContent produces deterministic copy without a model. It is the
// fallback when no model endpoint is configured or the call fails.
func templateContent(req Request) GeneratedContent {
	return GeneratedContent{
		Title:           templateTitle(req),
		MetaDescription: templateMetaDescription(req),
		Heading:         templateHeading(req),
		Body:            templateBody(req),
		CTAText:         templateCTA(req),
	}
}

func displayName(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

func templateTitle(req Request) string {
	location := displayName(req.Location)
	vehicle := displayName(req.Vehicle)
	switch {
	case req.PageType == "airport" && location != "":
		return fmt.Sprintf("%s Airport Limo Service | Luxury Black Car Transportation", location)
	case req.PageType == "suburb" && location != "":
		return fmt.Sprintf("%s Limo Service | Airport Transportation to O'Hare & Midway", location)
	case req.PageType == "vehicle" && vehicle != "":
		return fmt.Sprintf("Luxury %s Service | Chicago Airport Transportation", vehicle)
	}
	return "Chicago Airport Limo Service | Professional Black Car Transportation"
}

func templateMetaDescription(req Request) string {
	var b strings.Builder
	b.WriteString("Professional")
	if req.Location != "" {
		b.WriteString(" " + displayName(req.Location))
	}
	b.WriteString(" airport limo service")
	if req.Vehicle != "" {
		fmt.Fprintf(&b, " with luxury %ss", displayName(req.Vehicle))
	}
	b.WriteString(". Reliable black car transportation to O'Hare & Midway. Book online or call " + bookingPhone + ".")

	desc := b.String()
	if len(desc) > 155 {
		desc = desc[:155]
	}
	return desc
}

func templateHeading(req Request) string {
	location := displayName(req.Location)
	vehicle := displayName(req.Vehicle)
	switch {
	case location != "" && vehicle != "":
		return fmt.Sprintf("Premium %s Service for %s", vehicle, location)
	case location != "":
		return fmt.Sprintf("Professional %s Airport Transportation", location)
	case vehicle != "":
		return fmt.Sprintf("Luxury %s Service in Chicago", vehicle)
	}
	return "Chicago Airport Black Car Service"
}

func templateBody(req Request) string {
	location := displayName(req.Location)
	vehicle := displayName(req.Vehicle)

	var b strings.Builder
	b.WriteString("Experience premium airport transportation with Chicago's most trusted black car service. ")
	if location != "" {
		fmt.Fprintf(&b, "Our professional chauffeurs provide reliable service to and from %s, ensuring you arrive on time, every time. ", location)
	}
	if vehicle != "" {
		fmt.Fprintf(&b, "Travel in comfort with our fleet of luxury %ss, featuring leather seating, climate control, and complimentary amenities. ", vehicle)
	}

	b.WriteString("\n\nWhy Choose Our Service:\n")
	b.WriteString("• Professional, licensed chauffeurs with local expertise\n")
	b.WriteString("• Flight monitoring for timely airport pickups\n")
	b.WriteString("• Flat-rate pricing with no hidden fees\n")
	b.WriteString("• Immaculate, late-model luxury vehicles\n")
	b.WriteString("• 24/7 availability and dispatch support\n\n")

	if location != "" {
		fmt.Fprintf(&b, "Serving %s and surrounding areas with dedicated airport transportation. ", location)
	}
	b.WriteString("Book your ride today for a stress-free travel experience. Available 24/7 for reservations and immediate dispatch.")
	return b.String()
}

func templateCTA(req Request) string {
	if req.Tone == "urgent" {
		return "Call " + bookingPhone
	}
	switch req.PageType {
	case "airport":
		return "Book Your Ride Now"
	case "suburb":
		return "Schedule Pickup"
	case "vehicle":
		return "Reserve Your Limo"
	case "pricing":
		return "Get Instant Quote"
	default:
		return "Book Your Ride Now"
	}
}
