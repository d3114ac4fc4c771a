package rewrite

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Part is one element of a generation request: either plain text or a
// binary document with a declared media type.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

// TextPart builds a plain-text request part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// PDFPart builds a binary PDF request part.
func PDFPart(data []byte) Part {
	return Part{Data: data, MIMEType: "application/pdf"}
}

// Generator is the external generation capability: given a model identifier
// and an ordered list of parts, it returns generated text or fails with a
// service-level error.
type Generator interface {
	Generate(ctx context.Context, model string, parts []Part) (string, error)
}

// GeminiGenerator implements Generator over the Google Gemini API.
type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

// Generate sends the composed parts to Gemini and returns the generated
// text. A response without text is treated as a failure.
func (g *GeminiGenerator) Generate(ctx context.Context, model string, parts []Part) (string, error) {
	genaiParts := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Data != nil {
			genaiParts = append(genaiParts, genai.NewPartFromBytes(p.Data, p.MIMEType))
		} else {
			genaiParts = append(genaiParts, genai.NewPartFromText(p.Text))
		}
	}

	contents := []*genai.Content{genai.NewContentFromParts(genaiParts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no response generated from Gemini")
	}
	return text, nil
}
