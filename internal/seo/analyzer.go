// Package seo scores page HTML with regex heuristics: keyword usage,
// heading structure, readability, and conversion signals for the
// Chicago airport transportation business.
package seo

import (
	"regexp"
	"strings"
)

// Business context the heuristics score against.
var (
	targetKeywords = []string{
		"airport limo", "black car service", "chicago airport transportation",
		"ohare limo", "midway limo", "luxury car service", "professional driver",
		"airport transfer", "chicago limousine",
	}
	businessLocations = []string{"Chicago", "O'Hare", "Midway", "Downtown Chicago", "Chicago suburbs"}
	businessServices  = []string{"airport transfer", "black car service", "limousine service"}
	businessVehicles  = []string{"sedan", "SUV", "limousine", "luxury vehicle"}
)

var (
	tagRe       = regexp.MustCompile(`<[^>]*>`)
	h1Re        = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	h2Re        = regexp.MustCompile(`(?is)<h2[^>]*>(.*?)</h2>`)
	h3Re        = regexp.MustCompile(`(?is)<h3[^>]*>(.*?)</h3>`)
	spaceRe     = regexp.MustCompile(`\s+`)
	metaDescRe  = regexp.MustCompile(`(?i)<meta\s+name=["']description["']`)
	titleRe     = regexp.MustCompile(`(?i)<title>`)
	phoneRe     = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	ctaRe       = regexp.MustCompile(`(?i)book now|reserve now|get quote`)
	sentenceRe  = regexp.MustCompile(`[.!?]+`)
)

// HeadingStructure lists the text of each heading level.
type HeadingStructure struct {
	H1 []string `json:"h1"`
	H2 []string `json:"h2"`
	H3 []string `json:"h3"`
}

// Metrics are the raw measurements behind the scores.
type Metrics struct {
	WordCount        int              `json:"wordCount"`
	ReadabilityScore int              `json:"readabilityScore"`
	KeywordDensity   map[string]int   `json:"keywordDensity"`
	HeadingStructure HeadingStructure `json:"headingStructure"`
}

// Recommendations group actionable advice by concern.
type Recommendations struct {
	SEO        []string `json:"seo"`
	Content    []string `json:"content"`
	Style      []string `json:"style"`
	Conversion []string `json:"conversion"`
}

// Analysis is the full result for one page.
type Analysis struct {
	SEOScore        int             `json:"seoScore"`
	ContentScore    int             `json:"contentScore"`
	Recommendations Recommendations `json:"recommendations"`
	Metrics         Metrics         `json:"metrics"`
}

// StripHTML removes tags and decodes the common entities, repeating tag
// removal until stable so nested fragments cannot smuggle tags through.
func StripHTML(html string) string {
	if html == "" {
		return ""
	}
	text := html
	for {
		stripped := tagRe.ReplaceAllString(text, "")
		if len(stripped) == len(text) {
			break
		}
		text = stripped
	}
	replacer := strings.NewReplacer(
		"&quot;", `"`,
		"&#039;", "'",
		"&lt;", "<",
		"&gt;", ">",
		"&nbsp;", " ",
	)
	text = replacer.Replace(text)
	// amp last so &amp;lt; cannot double-decode into a tag
	text = strings.ReplaceAll(text, "&amp;", "&")
	return strings.TrimSpace(text)
}

// AnalyzePage scores one page's HTML.
func AnalyzePage(content string) Analysis {
	metrics := calculateMetrics(content)
	seoScore := calculateSEOScore(content, metrics)
	contentScore := calculateContentScore(content, metrics)
	return Analysis{
		SEOScore:        seoScore,
		ContentScore:    contentScore,
		Recommendations: generateRecommendations(content, metrics),
		Metrics:         metrics,
	}
}

func extractHeadings(re *regexp.Regexp, content string) []string {
	matches := re.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, StripHTML(m[1]))
	}
	return out
}

func calculateMetrics(content string) Metrics {
	text := spaceRe.ReplaceAllString(StripHTML(content), " ")
	text = strings.TrimSpace(text)

	wordCount := 0
	if text != "" {
		wordCount = len(strings.Fields(text))
	}

	lower := strings.ToLower(text)
	density := make(map[string]int, len(targetKeywords))
	for _, kw := range targetKeywords {
		density[kw] = strings.Count(lower, kw)
	}

	sentences := 0
	for _, s := range sentenceRe.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}
	avgWordsPerSentence := float64(wordCount) / float64(sentences)
	// Flesch Reading Ease with a fixed 1.5 syllables-per-word estimate.
	readability := 206.835 - 1.015*avgWordsPerSentence - 84.6*1.5
	if readability < 0 {
		readability = 0
	}
	if readability > 100 {
		readability = 100
	}

	return Metrics{
		WordCount:        wordCount,
		ReadabilityScore: int(readability + 0.5),
		KeywordDensity:   density,
		HeadingStructure: HeadingStructure{
			H1: extractHeadings(h1Re, content),
			H2: extractHeadings(h2Re, content),
			H3: extractHeadings(h3Re, content),
		},
	}
}

func totalKeywordMentions(m Metrics) int {
	total := 0
	for _, n := range m.KeywordDensity {
		total += n
	}
	return total
}

func calculateSEOScore(content string, m Metrics) int {
	score := 0

	switch {
	case len(m.HeadingStructure.H1) == 1:
		score += 20
	case len(m.HeadingStructure.H1) > 1:
		score += 10
	}

	h2s := len(m.HeadingStructure.H2)
	switch {
	case h2s >= 2 && h2s <= 6:
		score += 15
	case h2s > 0:
		score += 8
	}

	mentions := totalKeywordMentions(m)
	switch {
	case mentions >= 5 && mentions <= 15:
		score += 25
	case mentions > 0:
		score += 15
	}

	switch {
	case m.WordCount >= 300 && m.WordCount <= 2000:
		score += 20
	case m.WordCount >= 150:
		score += 10
	}

	if metaDescRe.MatchString(content) {
		score += 10
	}
	if titleRe.MatchString(content) {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

func containsAny(content string, needles []string) bool {
	lower := strings.ToLower(content)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func calculateContentScore(content string, m Metrics) int {
	score := 0

	switch {
	case m.ReadabilityScore >= 60:
		score += 30
	case m.ReadabilityScore >= 40:
		score += 20
	default:
		score += 10
	}

	switch {
	case m.WordCount >= 400 && m.WordCount <= 1500:
		score += 25
	case m.WordCount >= 200:
		score += 15
	}

	switch {
	case len(m.HeadingStructure.H2) >= 2:
		score += 20
	case len(m.HeadingStructure.H2) > 0:
		score += 10
	}

	if containsAny(content, businessLocations) {
		score += 15
	}
	if containsAny(content, businessServices) {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

func generateRecommendations(content string, m Metrics) Recommendations {
	var rec Recommendations

	switch {
	case len(m.HeadingStructure.H1) == 0:
		rec.SEO = append(rec.SEO, "Add a single H1 tag with primary keyword")
	case len(m.HeadingStructure.H1) > 1:
		rec.SEO = append(rec.SEO, "Reduce to only one H1 tag per page")
	}
	if len(m.HeadingStructure.H2) < 2 {
		rec.SEO = append(rec.SEO, "Add more H2 subheadings to improve structure")
	}

	mentions := totalKeywordMentions(m)
	if mentions < 3 {
		rec.SEO = append(rec.SEO, "Increase keyword usage naturally throughout content")
	} else if mentions > 20 {
		rec.SEO = append(rec.SEO, "Reduce keyword density to avoid over-optimization")
	}

	if m.WordCount < 300 {
		rec.Content = append(rec.Content, "Expand content to at least 300-500 words for better SEO")
	} else if m.WordCount > 2000 {
		rec.Content = append(rec.Content, "Consider breaking content into multiple pages")
	}
	if m.ReadabilityScore < 40 {
		rec.Content = append(rec.Content, "Simplify sentence structure for better readability")
	}
	if !containsAny(content, businessLocations) {
		rec.Content = append(rec.Content, "Add location-specific content (Chicago, O'Hare, Midway)")
	}
	if !containsAny(content, businessVehicles) {
		rec.Content = append(rec.Content, "Include vehicle types in content (sedan, SUV, limousine)")
	}

	rec.Style = append(rec.Style,
		"Ensure consistent font sizing and spacing",
		"Use professional imagery of luxury vehicles",
		"Maintain brand colors throughout",
	)

	if !phoneRe.MatchString(content) {
		rec.Conversion = append(rec.Conversion, "Add prominent phone number for immediate bookings")
	}
	if !ctaRe.MatchString(content) {
		rec.Conversion = append(rec.Conversion, "Add clear 'Book Now' or 'Get Quote' call-to-action")
	}
	rec.Conversion = append(rec.Conversion,
		"Include trust badges (licensed, insured, certified)",
		"Add customer testimonials or reviews",
		"Display pricing transparency or flat-rate messaging",
	)

	return rec
}
