// Package gemini queries the Gemini API for product identification and
// shopping listings, and validates the structured reply.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/dmitrijs2005/snapshop/internal/client/capture"
	"github.com/dmitrijs2005/snapshop/internal/client/models"
	"github.com/dmitrijs2005/snapshop/internal/logging"
)

const DefaultModel = "gemini-2.5-flash"

var ErrAPIKeyRequired = errors.New("gemini API key is required")

// generator is the subset of genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models  generator
	model   string
	timeout time.Duration
	log     logging.Logger
}

// NewClient connects to the Gemini API with apiKey. A zero timeout leaves
// requests bounded only by the caller's context.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration, log logging.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newClient(gc.Models, model, timeout, log), nil
}

func newClient(g generator, model string, timeout time.Duration, log logging.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Client{models: g, model: model, timeout: timeout, log: log.With("component", "gemini")}
}

// IdentifyAndSearch sends img with the image prompt. Malformed replies become
// fallback results; only transport failures are errors.
func (c *Client) IdentifyAndSearch(ctx context.Context, img capture.Image, location string) (*models.SearchResult, error) {
	data, err := img.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to identify and search: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(data, img.MIMEType),
		genai.NewPartFromText(ImagePrompt(location)),
	}

	res, err := c.generate(ctx, "image", parts)
	if err != nil {
		return nil, fmt.Errorf("failed to identify and search: %w", err)
	}
	return res, nil
}

// SearchWithText runs the text prompt for query.
func (c *Client) SearchWithText(ctx context.Context, query, location string) (*models.SearchResult, error) {
	parts := []*genai.Part{genai.NewPartFromText(TextPrompt(query, location))}

	res, err := c.generate(ctx, "text", parts)
	if err != nil {
		return nil, fmt.Errorf("failed to search with text: %w", err)
	}
	return res, nil
}

func (c *Client) generate(ctx context.Context, mode string, parts []*genai.Part) (*models.SearchResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   ResponseSchema(),
		},
	)
	if err != nil {
		c.log.Error(ctx, "generate content failed", "mode", mode, "error", err)
		return nil, err
	}

	var text string
	if resp != nil {
		text = resp.Text()
	}

	out := Parse(text)
	if out.Status != ParseOK {
		c.log.Warn(ctx, "unusable model reply", "mode", mode, "status", out.Status.String())
	}
	c.log.Debug(ctx, "search finished", "mode", mode, "results", len(out.Result.SearchResults),
		"elapsed", time.Since(started))

	return &out.Result, nil
}
