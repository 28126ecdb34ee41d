package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Translator renders agent replies into the ticket's language before
// they are emailed. Disabled when no API key is configured.
type Translator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// New creates a translator. Returns nil when apiKey is empty, which
// callers treat as translation disabled.
func New(apiKey, model string, timeout time.Duration) *Translator {
	if apiKey == "" {
		return nil
	}
	return &Translator{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}
}

// Translate returns text rendered in the language named by langCode.
// English (or unknown) targets return the text unchanged.
func (t *Translator) Translate(ctx context.Context, text, langCode string) (string, error) {
	name := LanguageName(langCode)
	if name == "" || strings.EqualFold(langCode, "en") {
		return text, nil
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf("You are a translator for customer support replies. "+
					"Translate the user's message into %s. Preserve tone and formatting. "+
					"Reply with the translation only.", name),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("translation returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// LanguageName maps a BCP 47 language code to its English display
// name. Returns "" for codes that do not parse.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.English.Languages().Name(tag)
}
