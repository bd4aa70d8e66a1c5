package keywords

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/finsight"
	"github.com/spetersoncode/finsight/tool"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "frequency then first occurrence",
			text: "Revenue grew. Revenue margin improved; margin and revenue held. Cash flow.",
			want: "revenue, margin, grew, improved, held",
		},
		{
			name: "stopwords and short words dropped",
			text: "The firm and the bank have it at an up by go",
			want: "firm, bank",
		},
		{
			name: "case folded",
			text: "Risk RISK risk Audit",
			want: "risk, audit",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
		{
			name: "unicode letters",
			text: "Ümsatz Ümsatz Gewinn",
			want: "ümsatz, gewinn",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestTop(t *testing.T) {
	got := Top("alpha beta gamma delta epsilon zeta eta theta", 3)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, got)
	assert.Empty(t, Top("a b c", 5))
}

func TestTool(t *testing.T) {
	registry := tool.NewRegistry().Add(Tool())

	res, err := registry.Execute(context.Background(), ai.ToolCall{
		ID:        "1",
		Name:      ToolName,
		Arguments: `{"answer":"Revenue revenue margin"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "revenue, margin", res.Content)
}
