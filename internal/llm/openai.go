package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// openaiProvider talks to any OpenAI-compatible endpoint, including
// Gemini's compatibility layer. The file travels as a base64 data URL.
type openaiProvider struct {
	api         *openai.Client
	temperature float32
}

func newOpenAIProvider(baseURL, apiKey string, temperature float32) *openaiProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &openaiProvider{
		api:         openai.NewClientWithConfig(config),
		temperature: temperature,
	}
}

func (p *openaiProvider) Generate(ctx context.Context, modelName string, req Request) (string, error) {
	var msgs []openai.ChatCompletionMessage
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}

	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
	}
	if len(req.File.Data) > 0 {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    req.File.DataURL(),
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, MultiContent: parts})

	resp, err := p.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       modelName,
		Messages:    msgs,
		Temperature: p.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("LLM returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *openaiProvider) ListModels(ctx context.Context) ([]string, error) {
	list, err := p.api.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.ID)
	}
	return names, nil
}

func (p *openaiProvider) Close() error {
	return nil
}
