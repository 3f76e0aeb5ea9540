package analytics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"dealer-insights/internal/model"
)

// Fatal input errors. Everything downstream of loading degrades
// gracefully; only these reject the whole request.
var (
	ErrEmptyTable    = errors.New("the file contains no data rows")
	ErrTooFewColumns = errors.New("the file must have at least two columns")
)

// delimiter candidates checked against the header sample, most frequent wins
var delimiters = []rune{',', ';', '\t', '|'}

const sniffSampleSize = 4096

// DetectDelimiter picks the delimiter by counting occurrences of each
// candidate in a sample of the raw text. Ties keep the earlier
// candidate, so a comma-free file still defaults to comma.
func DetectDelimiter(sample string) rune {
	best := delimiters[0]
	bestCount := 0
	for _, d := range delimiters {
		if n := strings.Count(sample, string(d)); n > bestCount {
			best = d
			bestCount = n
		}
	}
	return best
}

// LoadCSVFile reads a delimited text file into a raw Table. Cells stay
// strings; typing happens in the cleaning pass.
func LoadCSVFile(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return LoadCSV(f)
}

// LoadCSV reads delimited text from r into a raw Table.
func LoadCSV(r io.Reader) (*model.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	sample := string(data)
	if len(sample) > sniffSampleSize {
		sample = sample[:sniffSampleSize]
	}

	csvReader := csv.NewReader(strings.NewReader(string(data)))
	csvReader.Comma = DetectDelimiter(sample)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err == io.EOF {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("invalid CSV format: %w", err)
	}

	for i, h := range headers {
		headers[i] = cleanHeader(h)
	}
	if len(headers) < 2 {
		return nil, ErrTooFewColumns
	}

	table := model.NewTable(headers)
	rowCount := 0
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid CSV format: %w", err)
		}
		for i, h := range headers {
			if i < len(record) {
				table.Cells[h] = append(table.Cells[h], strings.TrimSpace(record[i]))
			} else {
				table.Cells[h] = append(table.Cells[h], nil)
			}
		}
		rowCount++
	}

	if rowCount == 0 {
		return nil, ErrEmptyTable
	}
	return table, nil
}

// cleanHeader trims whitespace, a UTF-8 BOM, and stray quotes from a
// raw header cell.
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.TrimSpace(h)
	return strings.ReplaceAll(h, `"`, "")
}

// WriteCSVFile writes a table back out as comma-delimited text. Numeric
// cells render without exponent notation, dates as 2006-01-02, missing
// cells as empty fields.
func WriteCSVFile(t *model.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	rows := t.RowCount()
	record := make([]string, len(t.Columns))
	for i := 0; i < rows; i++ {
		for j, c := range t.Columns {
			record[j] = formatCell(t.Cells[c][i])
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", val)
	}
}
