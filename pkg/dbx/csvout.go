package dbx

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ToCSV writes column-oriented data as a tab-delimited file: the header row,
// then rows assembled positionally across the columns, shorter columns
// padded with empty fields. Every non-numeric field is quoted; numeric
// fields are written bare.
func ToCSV(columnNames []string, columns [][]any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	header := make([]string, len(columnNames))
	for i, name := range columnNames {
		header[i] = quoteField(name)
	}
	if _, err := w.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}

	length := 0
	for _, c := range columns {
		if len(c) > length {
			length = len(c)
		}
	}
	cells := make([]string, len(columns))
	for i := 0; i < length; i++ {
		for j, c := range columns {
			if i < len(c) {
				cells[j] = formatField(c[i])
			} else {
				cells[j] = quoteField("")
			}
		}
		if _, err := w.WriteString(strings.Join(cells, "\t") + "\n"); err != nil {
			return fmt.Errorf("write csv %s: %w", path, err)
		}
	}
	return w.Flush()
}

// formatField renders numeric values bare and quotes everything else.
func formatField(v any) string {
	switch x := v.(type) {
	case nil:
		return quoteField("")
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	case float32, float64:
		return fmt.Sprint(x)
	case []byte:
		return quoteField(string(x))
	}
	return quoteField(fmt.Sprint(v))
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
