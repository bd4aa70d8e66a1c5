package quiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormed = `Here are your questions.

**Question 1:** What was total revenue in 2023?
A) $1.2 billion
B) $2.4 billion
C) $3.1 billion
D) $4.0 billion
**Correct Answer:** B
**Explanation:** Revenue is reported on page 3.

**Question 2:** Which segment grew fastest?
A) Retail
B) Wholesale
C) Online
D) Services
**Correct Answer:** c
**Explanation:** Online sales grew 40%.
`

func TestParse(t *testing.T) {
	t.Run("well formed blocks", func(t *testing.T) {
		qs := Parse(wellFormed)
		require.Len(t, qs, 2)

		assert.Equal(t, "What was total revenue in 2023?", qs[0].Question)
		assert.Equal(t, map[string]string{
			"A": "$1.2 billion",
			"B": "$2.4 billion",
			"C": "$3.1 billion",
			"D": "$4.0 billion",
		}, qs[0].Options)
		assert.Equal(t, "B", qs[0].CorrectAnswer)
		assert.Equal(t, "Revenue is reported on page 3.", qs[0].Explanation)

		assert.Equal(t, "C", qs[1].CorrectAnswer)
		assert.Equal(t, "Online sales grew 40%.", qs[1].Explanation)
	})

	t.Run("plain markers without bold", func(t *testing.T) {
		qs := Parse("Question 1: Who audits the firm?\nA) KPMG\nB) EY\nC) PwC\nD) Deloitte\n")
		require.Len(t, qs, 1)
		assert.Equal(t, "Who audits the firm?", qs[0].Question)
		assert.Equal(t, "Deloitte", qs[0].Options["D"])
	})

	t.Run("missing answer and explanation use defaults", func(t *testing.T) {
		qs := Parse("**Question 1:** Stem?\nA) one\nB) two\nC) three\nD) four")
		require.Len(t, qs, 1)
		assert.Equal(t, "A", qs[0].CorrectAnswer)
		assert.Equal(t, DefaultExplanation, qs[0].Explanation)
	})

	t.Run("block with three options is dropped", func(t *testing.T) {
		raw := "**Question 1:** Short?\nA) one\nB) two\nC) three\n" +
			"**Question 2:** Full?\nA) one\nB) two\nC) three\nD) four\n**Correct Answer:** D"
		qs := Parse(raw)
		require.Len(t, qs, 1)
		assert.Equal(t, "Full?", qs[0].Question)
		assert.Equal(t, "D", qs[0].CorrectAnswer)
	})

	t.Run("block without stem is dropped", func(t *testing.T) {
		qs := Parse("**Question 1:** A) one\nB) two\nC) three\nD) four")
		assert.Equal(t, []Question{Fallback()}, qs)
	})

	t.Run("unparseable text yields fallback", func(t *testing.T) {
		for _, raw := range []string{"", "no questions here", "Question one: what?"} {
			qs := Parse(raw)
			require.Len(t, qs, 1, raw)
			assert.Equal(t, Fallback(), qs[0])
		}
	})

	t.Run("explanation stops at next question", func(t *testing.T) {
		raw := "Question 1: First?\nA) a\nB) b\nC) c\nD) d\n**Explanation:** because\n**Question 2:** Second?\nA) a\nB) b\nC) c\nD) d"
		qs := Parse(raw)
		require.Len(t, qs, 2)
		assert.Equal(t, "because", qs[0].Explanation)
		assert.Equal(t, "Second?", qs[1].Question)
	})
}

func TestParseNeverEmpty(t *testing.T) {
	inputs := []string{
		"",
		"**Question 1:**",
		"Question 1:\nA)\nB)\nC)\nD)",
		strings.Repeat("Question 9: ", 50),
		"A) B) C) D)",
		"\n\n**Correct Answer:** Z",
	}
	for _, raw := range inputs {
		qs := Parse(raw)
		assert.NotEmpty(t, qs, raw)
		for _, q := range qs {
			assert.Len(t, q.Options, 4)
			assert.Contains(t, []string{"A", "B", "C", "D"}, q.CorrectAnswer)
		}
	}
}

func TestParseJSON(t *testing.T) {
	out, err := ParseJSON(wellFormed)
	require.NoError(t, err)

	qs, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, Parse(wellFormed), qs)
}
