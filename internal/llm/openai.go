package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider against the OpenAI API or any
// compatible endpoint via BaseURL.
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a provider from config.
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured.
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Judge classifies one excerpt via the Chat Completions API.
func (p *OpenAIProvider) Judge(ctx context.Context, req JudgeRequest) (*JudgeResponse, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 256
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildJudgePrompt(req.Excerpt),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0, // Deterministic verdicts for reproducible audits.
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	label, rationale, err := parseVerdict(content)
	if err != nil {
		return nil, err
	}

	return &JudgeResponse{
		Label:      label,
		Rationale:  rationale,
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// parseVerdict reads a "LABEL: N" line followed by a justification.
func parseVerdict(content string) (int, string, error) {
	lines := strings.SplitN(content, "\n", 2)
	first := strings.TrimSpace(lines[0])

	rationale := ""
	if len(lines) > 1 {
		rationale = strings.TrimSpace(lines[1])
	}

	switch {
	case strings.HasPrefix(first, "LABEL: 1"):
		if rest := strings.TrimSpace(strings.TrimPrefix(first, "LABEL: 1")); rationale == "" {
			rationale = rest
		}
		return 1, rationale, nil
	case strings.HasPrefix(first, "LABEL: 0"):
		if rest := strings.TrimSpace(strings.TrimPrefix(first, "LABEL: 0")); rationale == "" {
			rationale = rest
		}
		return 0, rationale, nil
	default:
		return 0, "", fmt.Errorf("unparseable verdict: %q", first)
	}
}
