// Package gemini implements the generation boundary against Google's Gemini
// API. A request is an ordered list of segments (inline text or binary media)
// and the result is the model's reply text.
package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/babinc0270-design/mirrormind-bot/internal/config"
)

// Segment is one unit of a generation request: either inline text or binary
// media tagged with its MIME type.
type Segment struct {
	Text     string
	Data     []byte
	MIMEType string
}

// TextSegment builds an inline text segment.
func TextSegment(text string) Segment {
	return Segment{Text: text}
}

// MediaSegment builds a binary media segment.
func MediaSegment(data []byte, mimeType string) Segment {
	return Segment{Data: data, MIMEType: mimeType}
}

// Client defines the generation boundary used by the dispatch router.
// Implementations must treat the segments as an ordered payload: the first
// segment carries system guidance and the rest carry the subject content.
type Client interface {
	Generate(ctx context.Context, segments []Segment) (string, error)
}

type sdkClient struct {
	genaiClient   *genai.Client
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
}

// NewClient creates a new Gemini client with the provided configuration.
// It initializes the connection to the Gemini API and sets up generation
// parameters shared by all requests.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	baseCfg := &genai.GenerateContentConfig{
		Temperature: &cfg.Temperature,

		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		},
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized successfully", "model", cfg.ModelName)
	return &sdkClient{
		genaiClient:   gi,
		log:           logger,
		contentConfig: baseCfg,
		modelName:     cfg.ModelName,
	}, nil
}

// Generate sends the ordered segments to the model and returns the reply
// text. Any API failure is returned as an error for the caller to absorb;
// there is no retry.
func (c *sdkClient) Generate(ctx context.Context, segments []Segment) (string, error) {
	if len(segments) == 0 {
		return "", fmt.Errorf("at least one segment is required")
	}

	contents := make([]*genai.Content, 0, len(segments))
	for _, seg := range segments {
		if len(seg.Data) > 0 {
			if seg.MIMEType == "" {
				return "", fmt.Errorf("media segment requires a MIME type")
			}
			contents = append(contents, genai.NewContentFromParts(
				[]*genai.Part{genai.NewPartFromBytes(seg.Data, seg.MIMEType)}, genai.RoleUser))
			continue
		}
		contents = append(contents, genai.NewContentFromText(seg.Text, genai.RoleUser))
	}

	c.log.DebugContext(ctx, "Generating content", "segment_count", len(segments))

	resp, err := c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, c.contentConfig)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini API call failed", "error", err)
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	return c.extractTextFromResponse(ctx, resp)
}

func (c *sdkClient) extractTextFromResponse(ctx context.Context, resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.ErrorContext(ctx, "Gemini request blocked", "reason", reasonMsg)
		return "", fmt.Errorf("generation blocked by safety filter: %s", reasonMsg)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		c.log.WarnContext(ctx, "Gemini response missing candidates or content", "finish_reason", finishReason)
		return "", fmt.Errorf("generation returned no content, finish reason: %s", finishReason)
	}

	text := resp.Text()
	if text == "" {
		c.log.WarnContext(ctx, "Gemini response text is empty")
		return "", fmt.Errorf("generation returned empty text")
	}

	return text, nil
}
