package features

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"StartupPredictor/internal/domain"
)

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumeric converts a free-text input into a feature value.
// It takes the longest leading decimal literal; anything unparsable,
// empty or non-finite yields 0.
func ParseNumeric(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	match := numericPrefix.FindString(s)
	if match == "" {
		return 0
	}

	v, err := strconv.ParseFloat(match, 64)
	// v == 0 also folds -0 into 0 so the JSON body never carries "-0".
	if err != nil || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Encode maps the raw form state onto the fixed-schema feature vector.
// Groups without a recognised selection contribute all zeros.
func Encode(input domain.ManualInput) domain.FeatureVector {
	var vec domain.FeatureVector

	for _, name := range domain.NumericFeatures {
		_ = vec.Set(name, ParseNumeric(input.Numeric[name]))
	}

	for _, group := range domain.Groups {
		feature, ok := group.Feature(input.Selections[group.Name])
		if !ok || feature == "" {
			continue
		}
		_ = vec.Set(feature, 1)
	}

	return vec
}
