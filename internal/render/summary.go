package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/tidwall/gjson"

	"StartupPredictor/internal/domain"
)

const labelColumn = "prediction"

// probabilityColumns are checked in order; the batch endpoint names the
// column "confidence", single predictions call it "probability".
var probabilityColumns = []string{"confidence", "probability"}

// LabelCount is the number of rows predicted with a label.
type LabelCount struct {
	Label string
	Count int
}

// Summary aggregates a batch for the line printed under the table.
type Summary struct {
	Rows              int
	Labels            []LabelCount
	ProbabilityCount  int
	MeanProbability   float64
	MedianProbability float64
}

// Summarize counts labels and describes the probability column when present.
func Summarize(batch domain.BatchResult) Summary {
	summary := Summary{Rows: len(batch.Rows)}

	counts := map[string]int{}
	var probs stats.Float64Data
	for _, row := range batch.Rows {
		if raw, ok := row.Lookup(labelColumn); ok {
			if label := Cell(raw); label != "" {
				counts[label]++
			}
		}
		if v, ok := rowProbability(row); ok {
			probs = append(probs, v)
		}
	}

	for label, n := range counts {
		summary.Labels = append(summary.Labels, LabelCount{Label: label, Count: n})
	}
	sort.Slice(summary.Labels, func(i, j int) bool {
		if summary.Labels[i].Count != summary.Labels[j].Count {
			return summary.Labels[i].Count > summary.Labels[j].Count
		}
		return summary.Labels[i].Label < summary.Labels[j].Label
	})

	if len(probs) > 0 {
		summary.ProbabilityCount = len(probs)
		summary.MeanProbability, _ = probs.Mean()
		summary.MedianProbability, _ = probs.Median()
	}

	return summary
}

func rowProbability(row domain.BatchRow) (float64, bool) {
	for _, col := range probabilityColumns {
		raw, ok := row.Lookup(col)
		if !ok {
			continue
		}
		if v := gjson.ParseBytes(raw); v.Type == gjson.Number {
			return v.Float(), true
		}
	}
	return 0, false
}

// String renders the summary as a single line.
func (s Summary) String() string {
	parts := []string{fmt.Sprintf("Rows: %d", s.Rows)}
	if len(s.Labels) > 0 {
		labels := make([]string, 0, len(s.Labels))
		for _, lc := range s.Labels {
			labels = append(labels, fmt.Sprintf("%s=%d", lc.Label, lc.Count))
		}
		parts = append(parts, "Predictions: "+strings.Join(labels, " "))
	}
	if s.ProbabilityCount > 0 {
		parts = append(parts,
			fmt.Sprintf("Mean probability: %.2f", s.MeanProbability),
			fmt.Sprintf("Median probability: %.2f", s.MedianProbability))
	}
	return strings.Join(parts, ", ")
}
