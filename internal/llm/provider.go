// Package llm provides an optional second opinion on dataset labels. The
// audit samples labeled excerpts, asks a model to judge each one, and
// reports disagreements. Labels in the dataset are produced by the rule
// engine alone; the audit never changes them.
package llm

import "context"

// Provider is a model backend that can judge one excerpt.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Judge classifies a single excerpt.
	Judge(ctx context.Context, req JudgeRequest) (*JudgeResponse, error)

	// IsAvailable checks whether the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// JudgeRequest is one excerpt to classify.
type JudgeRequest struct {
	// Excerpt is the dataset text to judge.
	Excerpt string

	// Model overrides the provider's configured model when set.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// JudgeResponse is the model's verdict on one excerpt.
type JudgeResponse struct {
	// Label is the model's classification: 1 when the excerpt reports
	// actual Scope 3 emissions, 0 otherwise.
	Label int

	// Rationale is the model's short explanation, kept for the audit
	// report.
	Rationale string

	// Model is the model that produced the verdict.
	Model string

	// TokensUsed tracks token consumption.
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	// Model name, provider-specific.
	Model string

	// APIKey authenticates against the API.
	APIKey string

	// BaseURL points at an OpenAI-compatible endpoint when set.
	BaseURL string

	// Timeout for API requests, in seconds.
	Timeout int

	// MaxTokens for response generation.
	MaxTokens int
}

const judgePromptPreamble = `You are auditing a dataset of sentences taken from corporate annual reports. Each sentence was labeled 1 if it states that the company currently reports, discloses, or measures its Scope 3 greenhouse gas emissions, and 0 otherwise. Statements of future plans or intentions to report count as 0.

Answer with a single line starting with LABEL: 1 or LABEL: 0, followed by one short sentence of justification.

Excerpt:
`

// BuildJudgePrompt constructs the audit prompt for one excerpt.
func BuildJudgePrompt(excerpt string) string {
	return judgePromptPreamble + excerpt
}
