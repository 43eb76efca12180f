// Package conversation turns a thread's stored exchanges into the role-tagged
// message history sent to the answer generator.
package conversation

import (
	"sort"

	"github.com/dmitrijs2005/gophchat/internal/server/llm"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
)

const SystemPrompt = "You are a helpful assistant."

// Context is an ordered message history starting with the system prompt.
type Context []llm.Message

// BuildContext returns the system prompt followed by a user/assistant pair
// per exchange in ascending (CreatedAt, ID) order. The input is not modified.
func BuildContext(exchanges []models.Exchange) Context {
	sorted := make([]models.Exchange, len(exchanges))
	copy(sorted, exchanges)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	c := make(Context, 0, 1+2*len(sorted)+1)
	c = append(c, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt})
	for _, e := range sorted {
		c = append(c,
			llm.Message{Role: llm.RoleUser, Content: e.Question},
			llm.Message{Role: llm.RoleAssistant, Content: e.Answer},
		)
	}
	return c
}

// WithQuestion returns a copy of c with question appended as the final user
// message.
func (c Context) WithQuestion(question string) []llm.Message {
	out := make([]llm.Message, len(c), len(c)+1)
	copy(out, c)
	return append(out, llm.Message{Role: llm.RoleUser, Content: question})
}
