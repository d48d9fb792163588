// Package genai generates marketing copy and image descriptors for the
// site, through a hosted model when one is configured and through
// deterministic templates when not.
package genai

// Request describes one page whose copy should be generated.
type Request struct {
	PageType       string   `json:"pageType" validate:"required"`
	Location       string   `json:"location,omitempty"`
	Vehicle        string   `json:"vehicle,omitempty"`
	CurrentContent string   `json:"currentContent,omitempty"`
	TargetKeywords []string `json:"targetKeywords" validate:"required,min=1"`
	Tone           string   `json:"tone,omitempty"`
	MaxLength      int      `json:"maxLength,omitempty"`
}

// GeneratedContent is the structured copy for one page.
type GeneratedContent struct {
	Title           string `json:"title"`
	MetaDescription string `json:"metaDescription"`
	Heading         string `json:"heading"`
	Body            string `json:"content"`
	CTAText         string `json:"ctaText"`
}

// ImageRequest describes one image to generate.
type ImageRequest struct {
	Purpose     string `json:"purpose" validate:"required,oneof=hero service_card fleet location testimonial"`
	Location    string `json:"location,omitempty"`
	Vehicle     string `json:"vehicle,omitempty"`
	Style       string `json:"style,omitempty"`
	Description string `json:"description,omitempty"`
}

// ImageResult describes a generated (or placeholder) image.
type ImageResult struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
}

// ImageSpec is the recommended rendition for an image purpose.
type ImageSpec struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	AspectRatio string `json:"aspectRatio"`
	Format      string `json:"format"`
}

var imageSpecs = map[string]ImageSpec{
	"hero":         {Width: 1920, Height: 1080, AspectRatio: "16:9", Format: "webp"},
	"service_card": {Width: 600, Height: 400, AspectRatio: "3:2", Format: "webp"},
	"fleet":        {Width: 800, Height: 600, AspectRatio: "4:3", Format: "webp"},
	"location":     {Width: 1200, Height: 800, AspectRatio: "3:2", Format: "webp"},
	"testimonial":  {Width: 1200, Height: 800, AspectRatio: "3:2", Format: "webp"},
}

// SpecForPurpose returns the recommended rendition for a purpose,
// defaulting to the location spec for unknown purposes.
func SpecForPurpose(purpose string) ImageSpec {
	if spec, ok := imageSpecs[purpose]; ok {
		return spec
	}
	return imageSpecs["location"]
}
