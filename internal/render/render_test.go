package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"StartupPredictor/internal/domain"
)

func prob(v float64) *float64 { return &v }

func TestPrediction(t *testing.T) {
	t.Parallel()

	got := Prediction(domain.PredictionResult{Prediction: "success", Probability: prob(0.87)})
	if got != "Prediction: success, Probability: 0.87" {
		t.Fatalf("unexpected text: %q", got)
	}

	got = Prediction(domain.PredictionResult{Prediction: "closed", Probability: prob(0.876)})
	if got != "Prediction: closed, Probability: 0.88" {
		t.Fatalf("unexpected rounding: %q", got)
	}
}

func TestPredictionMissingProbability(t *testing.T) {
	t.Parallel()

	got := Prediction(domain.PredictionResult{Prediction: "operating"})
	if got != "Prediction: operating, Probability: N/A" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestError(t *testing.T) {
	t.Parallel()

	if got := Error(domain.ErrNoFileSelected); got != "Error: no file selected" {
		t.Fatalf("unexpected text: %q", got)
	}
	if Error(nil) != "" {
		t.Fatal("nil error should render empty")
	}
	reqErr := fmt.Errorf("submit: %w", &domain.RequestError{StatusCode: 502, Body: "bad gateway"})
	if !IsRequestFailure(reqErr) {
		t.Fatal("wrapped RequestError not detected")
	}
	if IsRequestFailure(domain.ErrNoFileSelected) {
		t.Fatal("sentinel misclassified as request failure")
	}
}

func row(pairs ...string) domain.BatchRow {
	var r domain.BatchRow
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Cells = append(r.Cells, domain.Cell{Key: pairs[i], Raw: json.RawMessage(pairs[i+1])})
	}
	return r
}

func TestBatchTable(t *testing.T) {
	t.Parallel()

	batch := domain.BatchResult{Rows: []domain.BatchRow{
		row("name", `"acme"`, "prediction", `"ipo"`, "probability", `0.9`),
		row("prediction", `"closed"`, "name", `"globex"`, "extra", `{"a": 1}`),
		row("name", `"initech"`, "probability", `null`),
	}}

	want := Table{
		Columns: []string{"name", "prediction", "probability"},
		Rows: [][]string{
			{"acme", "ipo", "0.9"},
			{"globex", "closed", ""},
			{"initech", "", ""},
		},
	}
	if diff := cmp.Diff(want, BatchTable(batch)); diff != "" {
		t.Fatalf("unexpected table (-want +got):\n%s", diff)
	}
}

func TestCell(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		`"text"`:     "text",
		`1`:          "1",
		`2.50`:       "2.5",
		`true`:       "true",
		`null`:       "",
		`[1, 2]`:     "[1,2]",
		`{"k": "v"}`: `{"k":"v"}`,
		``:           "",
	}
	for in, want := range cases {
		if got := Cell(json.RawMessage(in)); got != want {
			t.Fatalf("Cell(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	batch := domain.BatchResult{Rows: []domain.BatchRow{
		row("prediction", `"ipo"`, "probability", `0.9`),
		row("prediction", `"closed"`, "probability", `0.5`),
		row("prediction", `"ipo"`, "probability", `0.7`),
		row("prediction", `"acquired"`, "probability", `null`),
	}}

	s := Summarize(batch)
	if s.Rows != 4 || s.ProbabilityCount != 3 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	wantLabels := []LabelCount{{"ipo", 2}, {"acquired", 1}, {"closed", 1}}
	if diff := cmp.Diff(wantLabels, s.Labels); diff != "" {
		t.Fatalf("unexpected labels (-want +got):\n%s", diff)
	}

	line := s.String()
	for _, part := range []string{"Rows: 4", "ipo=2", "Mean probability: 0.70", "Median probability: 0.70"} {
		if !strings.Contains(line, part) {
			t.Fatalf("summary %q missing %q", line, part)
		}
	}
}

func TestSummarizeConfidenceColumn(t *testing.T) {
	t.Parallel()

	batch := domain.BatchResult{Rows: []domain.BatchRow{
		row("relationships", `3`, "prediction", `"acquired"`, "confidence", `0.8`),
		row("relationships", `1`, "prediction", `"closed"`, "confidence", `0.6`),
	}}

	got := Summarize(batch).String()
	want := "Rows: 2, Predictions: acquired=1 closed=1, Mean probability: 0.70, Median probability: 0.70"
	if got != want {
		t.Fatalf("Summarize() = %q, want %q", got, want)
	}
}

func TestSummarizeWithoutProbabilities(t *testing.T) {
	t.Parallel()

	s := Summarize(domain.BatchResult{Rows: []domain.BatchRow{row("name", `"acme"`)}})
	if got := s.String(); got != "Rows: 1" {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestWriteTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteTable(&buf, Table{
		Columns: []string{"name", "prediction"},
		Rows:    [][]string{{"acme", "ipo"}, {"globex-long", "closed"}},
	})
	if err != nil {
		t.Fatalf("WriteTable error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", buf.String())
	}
	if strings.Index(lines[0], "prediction") != strings.Index(lines[2], "closed") {
		t.Fatalf("columns not aligned:\n%s", buf.String())
	}

	buf.Reset()
	if err := WriteTable(&buf, Table{}); err != nil || buf.String() != "No results\n" {
		t.Fatalf("empty table: %q %v", buf.String(), err)
	}
}
