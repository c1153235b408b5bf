package features

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"StartupPredictor/internal/domain"
)

func TestParseNumeric(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"42":       42,
		"  7 ":     7,
		"-3.5":     -3.5,
		"+2":       2,
		".5":       0.5,
		"5.":       5,
		"1e3":      1000,
		"2.5E-1":   0.25,
		"12abc":    12,
		"1e":       1,
		"":         0,
		"   ":      0,
		"abc":      0,
		"-":        0,
		".":        0,
		"NaN":      0,
		"Infinity": 0,
		"1e999":    0,
	}

	for in, want := range cases {
		if got := ParseNumeric(in); got != want {
			t.Fatalf("ParseNumeric(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseNumericNegativeZero(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"-0", "-0.0", "-0e5"} {
		got := ParseNumeric(in)
		if got != 0 || math.Signbit(got) {
			t.Fatalf("ParseNumeric(%q) = %v, want positive zero", in, got)
		}
	}

	vec := Encode(domain.ManualInput{Numeric: map[string]string{domain.FeatureRelationships: "-0"}})
	raw, err := json.Marshal(vec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := string(decoded[domain.FeatureRelationships]); got != "0" {
		t.Fatalf("relationships encoded as %s, want 0", got)
	}
}

func TestEncodeSoftwareUSAFlorida(t *testing.T) {
	t.Parallel()

	input := domain.ManualInput{
		Numeric: map[string]string{
			domain.FeatureRelationships:        "3",
			domain.FeatureFundingPerMilestone:  "250000.5",
			domain.FeatureMeanFundingByCountry: "",
			domain.FeatureFoundedYear:          "2008",
			domain.FeatureFoundedMonth:         "june",
			domain.FeatureMilestoneDuration:    "14",
		},
		Selections: map[string]string{
			domain.GroupCategory: "software",
			domain.GroupCountry:  "USA",
			domain.GroupState:    "FL",
		},
	}

	want := domain.FeatureVector{
		Relationships:       3,
		FundingPerMilestone: 250000.5,
		FoundedYear:         2008,
		MilestoneDuration:   14,
		CategorySoftware:    1,
		CountryUSA:          1,
		StateFL:             1,
	}

	if diff := cmp.Diff(want, Encode(input)); diff != "" {
		t.Fatalf("unexpected vector (-want +got):\n%s", diff)
	}
}

func TestEncodeAtMostOnePerGroup(t *testing.T) {
	t.Parallel()

	for _, category := range domain.Groups[0].Choices {
		for _, country := range domain.Groups[1].Choices {
			for _, state := range append(domain.Groups[2].Choices, domain.Choice{Label: "TX"}) {
				vec := Encode(domain.ManualInput{Selections: map[string]string{
					domain.GroupCategory: category.Label,
					domain.GroupCountry:  country.Label,
					domain.GroupState:    state.Label,
				}})

				for _, group := range domain.Groups {
					var ones int
					for _, feature := range group.Features() {
						v, _ := vec.Get(feature)
						if v != 0 && v != 1 {
							t.Fatalf("feature %s has non-binary value %v", feature, v)
						}
						if v == 1 {
							ones++
						}
					}
					if ones > 1 {
						t.Fatalf("group %s has %d active fields for %s/%s/%s",
							group.Name, ones, category.Label, country.Label, state.Label)
					}
					selected := map[string]string{
						domain.GroupCategory: category.Label,
						domain.GroupCountry:  country.Label,
						domain.GroupState:    state.Label,
					}[group.Name]
					wantOnes := 0
					if feature, known := group.Feature(selected); known && feature != "" {
						wantOnes = 1
					}
					if ones != wantOnes {
						t.Fatalf("group %s choice %s: got %d active fields, want %d", group.Name, selected, ones, wantOnes)
					}
				}
			}
		}
	}
}

func TestEncodeEmptyInput(t *testing.T) {
	t.Parallel()

	vec := Encode(domain.ManualInput{})
	for i, v := range vec.Values() {
		if v != 0 {
			t.Fatalf("feature %s = %v, want 0", domain.FeatureOrder[i], v)
		}
	}
}
