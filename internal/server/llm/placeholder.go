package llm

import (
	"context"
	"fmt"
)

// PlaceholderGenerator answers without calling any model. It is used when no
// API key is configured so the service stays usable in development.
type PlaceholderGenerator struct{}

func (PlaceholderGenerator) Generate(ctx context.Context, messages []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("This is a placeholder answer. Question: %q, answered as a model would.", LastUserMessage(messages)), nil
}
