package conversation

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/server/llm"
	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContext_Empty(t *testing.T) {
	c := BuildContext(nil)
	require.Len(t, c, 1)
	assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt}, c[0])
}

func TestBuildContext_OrdersAndPairs(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []models.Exchange{
		{ID: 3, Question: "q3", Answer: "a3", CreatedAt: t0.Add(time.Minute)},
		{ID: 2, Question: "q2", Answer: "a2", CreatedAt: t0},
		{ID: 1, Question: "q1", Answer: "a1", CreatedAt: t0},
	}

	c := BuildContext(in)

	want := Context{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: "q1"},
		{Role: llm.RoleAssistant, Content: "a1"},
		{Role: llm.RoleUser, Content: "q2"},
		{Role: llm.RoleAssistant, Content: "a2"},
		{Role: llm.RoleUser, Content: "q3"},
		{Role: llm.RoleAssistant, Content: "a3"},
	}
	assert.Equal(t, want, c)
	assert.Equal(t, int64(3), in[0].ID, "input left untouched")
}

func TestWithQuestion(t *testing.T) {
	c := BuildContext([]models.Exchange{{ID: 1, Question: "q", Answer: "a"}})

	msgs := c.WithQuestion("next")
	require.Len(t, msgs, 4)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "next"}, msgs[3])
	assert.Len(t, c, 3, "receiver not extended")

	other := c.WithQuestion("other")
	assert.Equal(t, "next", msgs[3].Content, "calls do not share backing arrays")
	assert.Equal(t, "other", other[3].Content)
}
