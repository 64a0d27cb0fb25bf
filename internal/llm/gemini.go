package llm

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// geminiProvider talks to the Gemini API through the native SDK, sending
// the file as an inline blob.
type geminiProvider struct {
	client      *genai.Client
	temperature float32
}

func newGeminiProvider(ctx context.Context, apiKey string, temperature float32) (*geminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &geminiProvider{client: client, temperature: temperature}, nil
}

func (p *geminiProvider) Generate(ctx context.Context, modelName string, req Request) (string, error) {
	m := p.client.GenerativeModel(modelName)
	if p.temperature > 0 {
		m.SetTemperature(p.temperature)
	}
	if req.System != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	parts := []genai.Part{genai.Text(req.Prompt)}
	if len(req.File.Data) > 0 {
		parts = append(parts, genai.Blob{MIMEType: req.File.MIMEType, Data: req.File.Data})
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("empty response")
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}
	return "", errors.New("response has no text")
}

func (p *geminiProvider) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	it := p.client.ListModels(ctx)
	for {
		m, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(m.SupportedGenerationMethods) > 0 && !slices.Contains(m.SupportedGenerationMethods, "generateContent") {
			continue
		}
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	return names, nil
}

func (p *geminiProvider) Close() error {
	return p.client.Close()
}
