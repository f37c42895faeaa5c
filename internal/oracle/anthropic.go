package oracle

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"grade_desk/internal/prompts"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

const anthropicSystemPrompt = `You are a strict but fair teaching assistant grading student assignments.`

// Anthropic grades via the Messages API.
type Anthropic struct {
	apiKey string
	model  string
}

func NewAnthropic(apiKey, model string) *Anthropic {
	if model == "" {
		model = defaultAnthropicModel
	}
	return &Anthropic{apiKey: apiKey, model: model}
}

func (a *Anthropic) Available() bool {
	return a.apiKey != ""
}

func (a *Anthropic) Grade(ctx context.Context, p Payload) (string, error) {
	client := anthropic.NewClient(option.WithAPIKey(a.apiKey))

	prompt := prompts.Grading(p.Description, p.SupplementaryContext, p.CombinedText)
	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: anthropicSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic call: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in anthropic response")
}
