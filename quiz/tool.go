package quiz

import (
	"context"

	"github.com/spetersoncode/finsight/tool"
)

// ToolName is the name the parser is offered to models under.
const ToolName = "parse_mcqs"

type parseArgs struct {
	RawText string `json:"raw_text" desc:"The raw multiple choice question text to structure" required:"true"`
}

// Tool exposes ParseJSON as a model-callable tool.
func Tool() tool.Registration {
	return tool.Func(ToolName,
		"Parses raw multiple choice question text into a JSON array of questions with options, correct_answer and explanation",
		func(ctx context.Context, args parseArgs) (string, error) {
			return ParseJSON(args.RawText)
		})
}
