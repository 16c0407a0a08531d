package llm

import (
	"context"

	"concierge-chef/internal/shared"
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Model   string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt. It is
// used only on the catalog import path; the planning core never calls a
// language model.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}
