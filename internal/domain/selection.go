package domain

// ChoiceNone is the default choice of every group; it maps to no one-hot field.
const ChoiceNone = "None"

// Group names shared by the form markup and the encoder.
const (
	GroupCategory = "category"
	GroupCountry  = "country"
	GroupState    = "state"
)

// Choice is one selectable tag of a group.
type Choice struct {
	Label   string
	Feature string // empty for ChoiceNone
}

// Group is a mutually exclusive set of one-hot choices.
type Group struct {
	Name    string
	Choices []Choice
}

// Feature returns the one-hot field a choice maps to.
func (g Group) Feature(label string) (string, bool) {
	for _, c := range g.Choices {
		if c.Label == label {
			return c.Feature, true
		}
	}
	return "", false
}

// Has reports whether label is one of the group's choices.
func (g Group) Has(label string) bool {
	_, ok := g.Feature(label)
	return ok
}

// Features lists the one-hot fields owned by the group.
func (g Group) Features() []string {
	out := make([]string, 0, len(g.Choices))
	for _, c := range g.Choices {
		if c.Feature != "" {
			out = append(out, c.Feature)
		}
	}
	return out
}

// Groups is the ordered set of selection groups rendered on the manual form.
var Groups = []Group{
	{
		Name: GroupCategory,
		Choices: []Choice{
			{Label: ChoiceNone},
			{Label: "consulting", Feature: FeatureCategoryConsulting},
			{Label: "ecommerce", Feature: FeatureCategoryEcommerce},
			{Label: "enterprise", Feature: FeatureCategoryEnterprise},
			{Label: "software", Feature: FeatureCategorySoftware},
		},
	},
	{
		Name: GroupCountry,
		Choices: []Choice{
			{Label: ChoiceNone},
			{Label: "GBR", Feature: FeatureCountryGBR},
			{Label: "IND", Feature: FeatureCountryIND},
			{Label: "USA", Feature: FeatureCountryUSA},
		},
	},
	{
		Name: GroupState,
		Choices: []Choice{
			{Label: ChoiceNone},
			{Label: "FL", Feature: FeatureStateFL},
		},
	},
}

// LookupGroup finds a group by name.
func LookupGroup(name string) (Group, bool) {
	for _, g := range Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// ManualInput is the raw state of the manual prediction form.
type ManualInput struct {
	Numeric    map[string]string
	Selections map[string]string
}
