package domain

import (
	"encoding/json"
	"time"
)

// PredictionResult is the response of the /predict endpoint.
type PredictionResult struct {
	Prediction  string   `json:"prediction"`
	Probability *float64 `json:"probability"`
}

// Cell is a single key/value pair of a batch row; Raw holds the JSON value.
type Cell struct {
	Key string
	Raw json.RawMessage
}

// BatchRow keeps the row's keys in the order the service sent them.
type BatchRow struct {
	Cells []Cell
}

// Keys returns the row's keys in received order.
func (r BatchRow) Keys() []string {
	keys := make([]string, 0, len(r.Cells))
	for _, c := range r.Cells {
		keys = append(keys, c.Key)
	}
	return keys
}

// Lookup returns the raw JSON value stored under key.
func (r BatchRow) Lookup(key string) (json.RawMessage, bool) {
	for _, c := range r.Cells {
		if c.Key == key {
			return c.Raw, true
		}
	}
	return nil, false
}

// BatchResult is the response of the /predict_csv endpoint. ID is assigned
// when the result is retained for download.
type BatchResult struct {
	ID       string
	FileName string
	Rows     []BatchRow
}

// Columns derives the table header from the first row.
func (b BatchResult) Columns() []string {
	if len(b.Rows) == 0 {
		return nil
	}
	return b.Rows[0].Keys()
}

// SubmissionKind distinguishes history records.
type SubmissionKind string

const (
	KindManual SubmissionKind = "manual"
	KindBatch  SubmissionKind = "batch"
)

// HistoryRecord is an audit entry of a single submission.
type HistoryRecord struct {
	ID        string
	Kind      SubmissionKind
	Request   string
	Outcome   string
	Error     string
	CreatedAt time.Time
}
