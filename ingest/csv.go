package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"github.com/spetersoncode/finsight/document"
)

// loadCSV returns a summary document describing the columns, followed by
// one document per CSVRowsPerChunk data rows.
func loadCSV(path string) ([]document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()
	return readCSV(f, filepath.Base(path))
}

func readCSV(r io.Reader, source string) ([]document.Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv %s has no header row", source)
	}
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", source, err)
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", source, err)
	}

	docs := []document.Document{{
		PageContent: summarizeCSV(source, header, rows),
		Metadata: document.Metadata{
			Source: source,
			Type:   "csv",
			Extra:  map[string]any{"rows": len(rows), "columns": len(header)},
		},
	}}

	for start := 0; start < len(rows); start += CSVRowsPerChunk {
		end := min(start+CSVRowsPerChunk, len(rows))
		var b strings.Builder
		fmt.Fprintf(&b, "Data from %s (rows %d-%d):\n", source, start+1, end)
		writeTable(&b, header, rows[start:end])
		docs = append(docs, document.Document{
			PageContent: b.String(),
			Metadata: document.Metadata{
				Source: source,
				Type:   "csv_chunk",
				Extra:  map[string]any{"chunk_start": start, "chunk_end": end},
			},
		})
	}
	return docs, nil
}

func summarizeCSV(source string, header []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CSV File: %s\n", source)
	fmt.Fprintf(&b, "Columns: %s\n", strings.Join(header, ", "))
	fmt.Fprintf(&b, "Total Rows: %d\n\n", len(rows))

	values := make([][]float64, len(header))
	for _, row := range rows {
		for i := range header {
			if i >= len(row) {
				break
			}
			v, err := strconv.ParseFloat(strings.ReplaceAll(row[i], ",", ""), 64)
			if err != nil {
				continue
			}
			values[i] = append(values[i], v)
		}
	}

	b.WriteString("Data Summary:\n")
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "column\tcount\tmean\tstd\tmin\t25%\t50%\t75%\tmax")
	for i, xs := range values {
		if len(xs) == 0 {
			continue
		}
		sort.Float64s(xs)
		// std is the sample deviation, NaN for a single value.
		mean, std := stat.MeanStdDev(xs, nil)
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			header[i], len(xs), mean, std, xs[0],
			quantile(xs, 0.25), quantile(xs, 0.5), quantile(xs, 0.75), xs[len(xs)-1])
	}
	tw.Flush()
	return b.String()
}

// quantile interpolates linearly between the closest ranks of sorted xs.
func quantile(xs []float64, p float64) float64 {
	pos := p * float64(len(xs)-1)
	lo := int(math.Floor(pos))
	hi := min(lo+1, len(xs)-1)
	return xs[lo] + (xs[hi]-xs[lo])*(pos-float64(lo))
}

func writeTable(w io.Writer, header []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}
