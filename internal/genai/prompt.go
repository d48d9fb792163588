package genai

import (
	"fmt"
	"strings"
)

// buildPrompt renders the copywriting instructions for the model.
func buildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString(`You are an expert SEO copywriter for a luxury airport transportation company in Chicago.

Business Context:
- Company: Royal Carriage / Chicago Airport Black Car Service
- Services: Airport transfers, black car service, limousine service
- Areas: Chicago O'Hare Airport, Midway Airport, Downtown Chicago, and 50+ suburbs
- Fleet: Luxury sedans, SUVs, stretch limousines
- Brand: Professional, reliable, luxury positioning

`)
	fmt.Fprintf(&b, "Task: Generate optimized web content for a %s page.\n", req.PageType)

	if req.Location != "" {
		fmt.Fprintf(&b, "\nLocation Focus: %s", req.Location)
	}
	if req.Vehicle != "" {
		fmt.Fprintf(&b, "\nVehicle Focus: %s", req.Vehicle)
	}

	fmt.Fprintf(&b, "\n\nTarget Keywords: %s", strings.Join(req.TargetKeywords, ", "))
	fmt.Fprintf(&b, "\nTone: %s", req.Tone)
	if req.MaxLength > 0 {
		fmt.Fprintf(&b, "\nMax Length: %d words", req.MaxLength)
	}
	if req.CurrentContent != "" {
		current := req.CurrentContent
		if len(current) > 500 {
			current = current[:500]
		}
		fmt.Fprintf(&b, "\n\nCurrent Content (to improve):\n%s...", current)
	}

	b.WriteString(`

Generate the following in this exact format:

TITLE: [SEO-optimized page title with primary keyword]

META_DESCRIPTION: [155-character meta description]

HEADING: [Main H1 heading for the page]

CONTENT:
[Optimized page content with the following structure:
- Opening paragraph with primary keyword
- 2-3 benefit-focused sections
- Location or vehicle-specific details
- Trust elements (licensed, insured, professional)
- Call-to-action language
Keep it concise, professional, and conversion-focused.]

CTA_TEXT: [Compelling call-to-action button text]

Important:
- Use keywords naturally, avoid keyword stuffing
- Write for humans first, search engines second
- Include specific Chicago locations and landmarks
- Emphasize luxury, reliability, and professionalism
- Focus on benefits and value proposition
- Keep sentences clear and readable
`)

	return b.String()
}

// parseGenerated extracts the structured sections from model output. A
// response missing the title, heading, or body is treated as a parse
// failure and ok is false.
func parseGenerated(text string) (GeneratedContent, bool) {
	var out GeneratedContent
	out.CTAText = "Book Now"

	var body strings.Builder
	inContent := false
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "TITLE:"):
			out.Title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
			inContent = false
		case strings.HasPrefix(line, "META_DESCRIPTION:"):
			out.MetaDescription = strings.TrimSpace(strings.TrimPrefix(line, "META_DESCRIPTION:"))
			inContent = false
		case strings.HasPrefix(line, "HEADING:"):
			out.Heading = strings.TrimSpace(strings.TrimPrefix(line, "HEADING:"))
			inContent = false
		case strings.HasPrefix(line, "CONTENT:"):
			inContent = true
		case strings.HasPrefix(line, "CTA_TEXT:"):
			out.CTAText = strings.TrimSpace(strings.TrimPrefix(line, "CTA_TEXT:"))
			inContent = false
		case inContent && strings.TrimSpace(line) != "":
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	out.Body = strings.TrimSpace(body.String())

	if out.Title == "" || out.Heading == "" || out.Body == "" {
		return out, false
	}
	return out, true
}

// buildImagePrompt renders the photography brief for an image model.
func buildImagePrompt(req ImageRequest) string {
	var b strings.Builder
	b.WriteString("Professional photograph, high quality, luxury transportation, ")

	switch req.Purpose {
	case "hero":
		b.WriteString("luxury black ")
		if req.Vehicle != "" {
			b.WriteString(req.Vehicle + " ")
		} else {
			b.WriteString("sedan ")
		}
		if req.Location != "" {
			b.WriteString("at " + req.Location + ", ")
		} else {
			b.WriteString("at modern airport terminal, ")
		}
		b.WriteString("sleek design, nighttime with dramatic lighting, professional chauffeur standing beside vehicle, ")
		b.WriteString("cinematic composition, wide angle, premium quality, Chicago skyline in background")

	case "service_card":
		b.WriteString("luxury ")
		if req.Vehicle != "" {
			b.WriteString(req.Vehicle + " ")
		}
		b.WriteString("on clean modern street, professional service vehicle, ")
		b.WriteString("daytime, clear sky, well-lit, front 3/4 view, commercial photography style")

	case "fleet":
		if req.Vehicle != "" {
			b.WriteString("luxury " + req.Vehicle + ", ")
		}
		b.WriteString("studio lighting, professional product photography, pristine condition, ")
		b.WriteString("black or dark color, leather interior visible through windows, side profile view")

	case "location":
		if req.Location != "" {
			b.WriteString(req.Location + " landmark or airport, ")
		}
		b.WriteString("luxury black car in foreground, professional transportation service, ")
		b.WriteString("golden hour lighting, establishing shot, travel photography style")

	case "testimonial":
		b.WriteString("happy business professional getting into luxury black car, ")
		b.WriteString("professional chauffeur holding door, airport or hotel setting, ")
		b.WriteString("natural candid style, positive atmosphere, professional service")
	}

	if req.Style != "" {
		b.WriteString(", " + req.Style)
	}
	if req.Description != "" {
		b.WriteString(", " + req.Description)
	}
	b.WriteString(", photorealistic, 4K quality, professional photography, no text or logos")

	return b.String()
}

// buildImprovePrompt renders the content-improvement instructions.
func buildImprovePrompt(current string, recommendations []string) string {
	var b strings.Builder
	b.WriteString("You are an expert SEO copywriter. Improve the following website content based on these recommendations:\n\n")
	fmt.Fprintf(&b, "Current Content:\n%s\n\nRecommendations:\n", current)
	for i, r := range recommendations {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	b.WriteString(`
Provide an improved version that:
- Implements the recommendations
- Maintains the original message and tone
- Keeps it concise and professional
- Optimizes for SEO and conversions

Improved Content:`)
	return b.String()
}
