package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"REPORT.PDF", true},
		{"ledger.csv", true},
		{"notes.txt", true},
		{"README.md", true},
		{"deck.pptx", false},
		{"noext", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Supported(tt.name))
		})
	}
}

func TestLoadFile_Text(t *testing.T) {
	path := writeFile(t, "notes.txt", "Revenue rose 12% in Q3.\n\nOperating margin held at 18%.")

	docs, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].PageContent, "Revenue rose")
	assert.Equal(t, "notes.txt", docs[0].Source())
	assert.Equal(t, "txt", docs[0].Type())
	assert.Nil(t, docs[0].Metadata.Page)
}

func TestLoadFile_SplitsLongText(t *testing.T) {
	para := strings.Repeat("cash flow ", 30)
	content := strings.Join([]string{para, para, para, para}, "\n\n")
	path := writeFile(t, "long.md", content)

	docs, err := NewLoader(WithChunking(400, 50)).LoadFile(path)
	require.NoError(t, err)
	assert.Greater(t, len(docs), 1)
	for _, d := range docs {
		assert.LessOrEqual(t, len(d.PageContent), 400)
		assert.Equal(t, "long.md", d.Source())
		assert.Equal(t, "md", d.Type())
	}
}

func TestLoadFile_Unsupported(t *testing.T) {
	path := writeFile(t, "deck.pptx", "binary")

	_, err := NewLoader().LoadFile(path)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLoadFile_TooLarge(t *testing.T) {
	path := writeFile(t, "big.txt", strings.Repeat("x", 2<<20))

	_, err := NewLoader(WithMaxSizeMB(1)).LoadFile(path)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := NewLoader().LoadFile(filepath.Join(t.TempDir(), "gone.txt"))
	assert.Error(t, err)
}

func TestLoadFile_EmptyText(t *testing.T) {
	path := writeFile(t, "empty.txt", "   \n")

	docs, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestReadCSV(t *testing.T) {
	var b strings.Builder
	b.WriteString("quarter,revenue,region\n")
	for i := 0; i < 60; i++ {
		b.WriteString("Q1,100,EMEA\n")
	}

	docs, err := readCSV(strings.NewReader(b.String()), "sales.csv")
	require.NoError(t, err)
	require.Len(t, docs, 3)

	summary := docs[0]
	assert.Equal(t, "csv", summary.Type())
	assert.Contains(t, summary.PageContent, "CSV File: sales.csv")
	assert.Contains(t, summary.PageContent, "Columns: quarter, revenue, region")
	assert.Contains(t, summary.PageContent, "Total Rows: 60")
	assert.Contains(t, summary.PageContent, "100.00")
	assert.Equal(t, 60, summary.Metadata.Extra["rows"])

	assert.Equal(t, "csv_chunk", docs[1].Type())
	assert.True(t, strings.HasPrefix(docs[1].PageContent, "Data from sales.csv (rows 1-50):"))
	assert.True(t, strings.HasPrefix(docs[2].PageContent, "Data from sales.csv (rows 51-60):"))
	assert.Equal(t, 50, docs[2].Metadata.Extra["chunk_start"])
}

func TestSummarizeCSV_Statistics(t *testing.T) {
	rows := [][]string{
		{"Q1", "1", "n/a"},
		{"Q2", "2", "7"},
		{"Q3", "3", ""},
		{"Q4", "4", ""},
	}
	out := summarizeCSV("ledger.csv", []string{"quarter", "revenue", "margin"}, rows)

	lines := strings.Split(out, "\n")
	var header, revenue, margin []string
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "column":
			header = fields
		case "revenue":
			revenue = fields
		case "margin":
			margin = fields
		case "quarter":
			t.Errorf("non-numeric column summarized: %q", line)
		}
	}

	assert.Equal(t, []string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}, header)
	assert.Equal(t, []string{"revenue", "4", "2.50", "1.29", "1.00", "1.75", "2.50", "3.25", "4.00"}, revenue)
	assert.Equal(t, []string{"margin", "1", "7.00", "NaN", "7.00", "7.00", "7.00", "7.00", "7.00"}, margin)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := readCSV(strings.NewReader(""), "empty.csv")
	assert.Error(t, err)
}
