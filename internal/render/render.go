// Package render turns prediction responses into the text shown to users.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"StartupPredictor/internal/domain"
)

// NotAvailable stands in for an absent probability.
const NotAvailable = "N/A"

// Prediction formats a single prediction the way the result element shows it.
func Prediction(res domain.PredictionResult) string {
	return fmt.Sprintf("Prediction: %s, Probability: %s", res.Prediction, Probability(res.Probability))
}

// Probability formats p with two decimals, or N/A when absent.
func Probability(p *float64) string {
	if p == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

// Error formats a submission failure for the result element.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + err.Error()
}

// Table is a batch result flattened to strings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// BatchTable lays a batch out with the first row's keys as header.
func BatchTable(batch domain.BatchResult) Table {
	cols := batch.Columns()
	table := Table{Columns: cols, Rows: make([][]string, 0, len(batch.Rows))}
	for _, row := range batch.Rows {
		cells := make([]string, len(cols))
		for i, col := range cols {
			if raw, ok := row.Lookup(col); ok {
				cells[i] = Cell(raw)
			}
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

// Cell converts a raw JSON value into display text.
func Cell(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	v := gjson.ParseBytes(raw)
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.String()
	case gjson.Number:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case gjson.True, gjson.False:
		return strconv.FormatBool(v.Bool())
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return string(raw)
		}
		return buf.String()
	}
}

// IsRequestFailure reports whether err belongs to the HTTP error taxonomy.
func IsRequestFailure(err error) bool {
	var netErr *domain.NetworkError
	var reqErr *domain.RequestError
	return errors.As(err, &netErr) || errors.As(err, &reqErr)
}
