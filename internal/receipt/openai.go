package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/samantha-blablabla/MyVault-sub000/pkg/logger"
)

const systemPrompt = `You extract expense data from receipt text.
Respond with a single JSON object and nothing else:
{"merchant": string, "amount": number, "date": "YYYY-MM-DD", "notes": string}
Use the receipt total as amount. Leave date empty if none is printed.`

// completionClient is the slice of the OpenAI client the adapter needs
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIParser parses receipts with a chat-completion model. The rules
// parser backs it up when the model reply cannot be used.
type OpenAIParser struct {
	client   completionClient
	model    string
	fallback *RulesParser
	log      *logger.Logger
}

// NewOpenAIParser creates a receipt parser backed by the OpenAI API
func NewOpenAIParser(apiKey string, log *logger.Logger) *OpenAIParser {
	return &OpenAIParser{
		client:   openai.NewClient(apiKey),
		model:    openai.GPT4oMini,
		fallback: NewRulesParser(),
		log:      log.WithField("component", "receipt"),
	}
}

// Parse sends the receipt text to the model and decodes the JSON reply. On
// any model or decode failure it falls back to the rules parser so a scan
// always yields a draft.
func (p *OpenAIParser) Parse(ctx context.Context, text string) (*Draft, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		p.log.Warn("model call failed, using rules parser", "error", err)
		return p.fallback.Parse(ctx, text)
	}

	if len(resp.Choices) == 0 {
		p.log.Warn("model returned no choices, using rules parser")
		return p.fallback.Parse(ctx, text)
	}

	draft, err := decodeDraft(resp.Choices[0].Message.Content)
	if err != nil {
		p.log.Warn("model reply was not usable, using rules parser", "error", err)
		return p.fallback.Parse(ctx, text)
	}

	if draft.Date == "" {
		draft.Date = time.Now().Format("2006-01-02")
	}
	return draft, nil
}

// decodeDraft extracts the JSON object from a model reply, tolerating
// surrounding prose or code fences.
func decodeDraft(reply string) (*Draft, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var draft Draft
	if err := json.Unmarshal([]byte(reply[start:end+1]), &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}

	if draft.Amount <= 0 {
		return nil, fmt.Errorf("draft amount must be positive, got %g", draft.Amount)
	}
	return &draft, nil
}
