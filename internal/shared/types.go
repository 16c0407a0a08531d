package shared

import "time"

// TokenUsage carries token counts reported by an LLM provider.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
}

// AgentMeta records metadata for a single LLM-backed execution.
type AgentMeta struct {
	AgentName string
	Model     string
	Usage     TokenUsage
	Latency   time.Duration
}

// Degradation codes disclosed on a weekly plan artifact.
const (
	DegradationRecentUseRelaxed  = "recent_use_relaxed"
	DegradationRecipeRepeated    = "recipe_repeated"
	DegradationPurchaseRounded   = "purchase_rounded"
	DegradationUnpriced          = "unpriced_ingredient"
	DegradationBudgetSubstituted = "budget_substituted"
	DegradationBudgetExceeded    = "budget_exceeded"
)

// Degradation is a soft-constraint relaxation or approximation applied
// during a planning run. Degradations are part of the artifact so the
// caller can disclose them; they are never errors.
type Degradation struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}
