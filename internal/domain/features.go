package domain

import "fmt"

// Feature names understood by the prediction model, in request order.
const (
	FeatureRelationships        = "relationships"
	FeatureFundingPerMilestone  = "funding_per_milestone"
	FeatureMeanFundingByCountry = "mean_funding_by_country"
	FeatureFoundedYear          = "founded_year"
	FeatureFoundedMonth         = "founded_month"
	FeatureMilestoneDuration    = "milestone_duration"
	FeatureCategoryConsulting   = "category_code_consulting"
	FeatureCategoryEcommerce    = "category_code_ecommerce"
	FeatureCategoryEnterprise   = "category_code_enterprise"
	FeatureCategorySoftware     = "category_code_software"
	FeatureCountryGBR           = "country_code_GBR"
	FeatureCountryIND           = "country_code_IND"
	FeatureCountryUSA           = "country_code_USA"
	FeatureStateFL              = "state_code_FL"
)

// FeatureOrder is the fixed schema of the model input.
var FeatureOrder = []string{
	FeatureRelationships,
	FeatureFundingPerMilestone,
	FeatureMeanFundingByCountry,
	FeatureFoundedYear,
	FeatureFoundedMonth,
	FeatureMilestoneDuration,
	FeatureCategoryConsulting,
	FeatureCategoryEcommerce,
	FeatureCategoryEnterprise,
	FeatureCategorySoftware,
	FeatureCountryGBR,
	FeatureCountryIND,
	FeatureCountryUSA,
	FeatureStateFL,
}

// NumericFeatures lists the continuous fields read from free-text inputs.
var NumericFeatures = FeatureOrder[:6]

// FeatureVector is the record posted to /predict. Field order matches FeatureOrder,
// so encoding/json emits keys in schema order.
type FeatureVector struct {
	Relationships        float64 `json:"relationships"`
	FundingPerMilestone  float64 `json:"funding_per_milestone"`
	MeanFundingByCountry float64 `json:"mean_funding_by_country"`
	FoundedYear          float64 `json:"founded_year"`
	FoundedMonth         float64 `json:"founded_month"`
	MilestoneDuration    float64 `json:"milestone_duration"`

	CategoryConsulting float64 `json:"category_code_consulting"`
	CategoryEcommerce  float64 `json:"category_code_ecommerce"`
	CategoryEnterprise float64 `json:"category_code_enterprise"`
	CategorySoftware   float64 `json:"category_code_software"`

	CountryGBR float64 `json:"country_code_GBR"`
	CountryIND float64 `json:"country_code_IND"`
	CountryUSA float64 `json:"country_code_USA"`

	StateFL float64 `json:"state_code_FL"`
}

func (v *FeatureVector) field(name string) *float64 {
	switch name {
	case FeatureRelationships:
		return &v.Relationships
	case FeatureFundingPerMilestone:
		return &v.FundingPerMilestone
	case FeatureMeanFundingByCountry:
		return &v.MeanFundingByCountry
	case FeatureFoundedYear:
		return &v.FoundedYear
	case FeatureFoundedMonth:
		return &v.FoundedMonth
	case FeatureMilestoneDuration:
		return &v.MilestoneDuration
	case FeatureCategoryConsulting:
		return &v.CategoryConsulting
	case FeatureCategoryEcommerce:
		return &v.CategoryEcommerce
	case FeatureCategoryEnterprise:
		return &v.CategoryEnterprise
	case FeatureCategorySoftware:
		return &v.CategorySoftware
	case FeatureCountryGBR:
		return &v.CountryGBR
	case FeatureCountryIND:
		return &v.CountryIND
	case FeatureCountryUSA:
		return &v.CountryUSA
	case FeatureStateFL:
		return &v.StateFL
	default:
		return nil
	}
}

// Get returns the value of a named feature.
func (v FeatureVector) Get(name string) (float64, bool) {
	p := v.field(name)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Set assigns a named feature; unknown names are rejected.
func (v *FeatureVector) Set(name string, value float64) error {
	p := v.field(name)
	if p == nil {
		return fmt.Errorf("unknown feature %q", name)
	}
	*p = value
	return nil
}

// Values returns the vector as a slice in FeatureOrder.
func (v FeatureVector) Values() []float64 {
	out := make([]float64, 0, len(FeatureOrder))
	for _, name := range FeatureOrder {
		val, _ := v.Get(name)
		out = append(out, val)
	}
	return out
}
