package keywords

import (
	"context"

	"github.com/spetersoncode/finsight/tool"
)

// ToolName is the name keyword extraction is offered to models under.
const ToolName = "extract_keywords"

// ToolDescription describes the tool to models.
const ToolDescription = "Extract the top 5 keywords from an answer text"

type extractArgs struct {
	Answer string `json:"answer" desc:"The answer text to extract keywords from" required:"true"`
}

// Tool exposes Extract as a local tool, used when the keyword MCP server is
// not reachable.
func Tool() tool.Registration {
	return tool.Func(ToolName, ToolDescription, func(ctx context.Context, args extractArgs) (string, error) {
		return Extract(args.Answer), nil
	})
}
