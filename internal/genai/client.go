package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client wraps interactions with the hosted generation API. A client with
// no base URL is valid and serves template content only.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	logger     *slog.Logger
	httpClient *http.Client
}

// NewClient constructs a new client. baseURL may be empty, in which case
// every generation call takes the template path.
func NewClient(baseURL, apiKey, model string, logger *slog.Logger) *Client {
	if model == "" {
		model = "gemini-pro"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether a remote model endpoint is set.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Ping checks if the remote generation service is available.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Configured() {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/health", c.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}
	return nil
}

type completionRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type completionResponse struct {
	Text string `json:"text"`
}

// complete sends one prompt to the model and returns the raw text.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(completionRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/v1/generate", c.baseURL), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("generation failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var out completionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode generation response: %w", err)
	}
	return out.Text, nil
}

// GenerateContent produces structured copy for a page. Model failures and
// unparseable responses fall back to the deterministic templates, so the
// call only errors when the context is done.
func (c *Client) GenerateContent(ctx context.Context, req Request) (GeneratedContent, error) {
	if err := ctx.Err(); err != nil {
		return GeneratedContent{}, err
	}

	if c.Configured() {
		text, err := c.complete(ctx, buildPrompt(req))
		if err == nil {
			if content, ok := parseGenerated(text); ok {
				return content, nil
			}
			c.logger.Warn("model response unparseable, using template", slog.String("page_type", req.PageType))
		} else {
			c.logger.Warn("model generation failed, using template",
				slog.String("page_type", req.PageType),
				slog.Any("error", err))
		}
	}

	return templateContent(req), nil
}

// ImproveContent rewrites existing copy per the given recommendations.
// Without a configured model the content comes back unchanged.
func (c *Client) ImproveContent(ctx context.Context, current string, recommendations []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !c.Configured() || len(recommendations) == 0 {
		return current, nil
	}

	text, err := c.complete(ctx, buildImprovePrompt(current, recommendations))
	if err != nil {
		c.logger.Warn("content improvement failed", slog.Any("error", err))
		return current, nil
	}
	return text, nil
}

// GenerateImage produces an image descriptor. Without a configured model
// (or when generation fails) the descriptor points at a placeholder image
// so pages always have something to render.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error) {
	if err := ctx.Err(); err != nil {
		return ImageResult{}, err
	}

	prompt := buildImagePrompt(req)
	spec := SpecForPurpose(req.Purpose)

	if c.Configured() {
		imageURL, err := c.generateImageRemote(ctx, prompt)
		if err == nil {
			return ImageResult{
				ImageURL: imageURL,
				Prompt:   prompt,
				Width:    spec.Width,
				Height:   spec.Height,
				Format:   spec.Format,
			}, nil
		}
		c.logger.Warn("image generation failed, using placeholder",
			slog.String("purpose", req.Purpose),
			slog.Any("error", err))
	}

	return placeholderImage(req, prompt), nil
}

type imageGenerationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type imageGenerationResponse struct {
	ImageURL string `json:"imageUrl"`
}

func (c *Client) generateImageRemote(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(imageGenerationRequest{Model: "imagegeneration@006", Prompt: prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/v1/images", c.baseURL), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("image generation failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var out imageGenerationResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode image response: %w", err)
	}
	if out.ImageURL == "" {
		return "", fmt.Errorf("image response missing url")
	}
	return out.ImageURL, nil
}

// placeholderImage returns a descriptor for a rendered placeholder, sized
// for the requested purpose.
func placeholderImage(req ImageRequest, prompt string) ImageResult {
	spec := SpecForPurpose(req.Purpose)

	label := req.Vehicle
	if label == "" {
		label = req.Location
	}
	if label == "" {
		label = req.Purpose
	}

	return ImageResult{
		ImageURL: fmt.Sprintf("https://placehold.co/%dx%d/1a1a1a/ffffff?text=%s", spec.Width, spec.Height, url.QueryEscape(label)),
		Prompt:   prompt,
		Width:    spec.Width,
		Height:   spec.Height,
		Format:   "png",
	}
}
