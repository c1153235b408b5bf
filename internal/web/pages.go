package web

import (
	"StartupPredictor/internal/domain"
	"StartupPredictor/internal/features"
	"StartupPredictor/internal/render"
)

var numericLabels = map[string]string{
	domain.FeatureRelationships:        "Relationships",
	domain.FeatureFundingPerMilestone:  "Funding per milestone",
	domain.FeatureMeanFundingByCountry: "Mean funding by country",
	domain.FeatureFoundedYear:          "Founded year",
	domain.FeatureFoundedMonth:         "Founded month",
	domain.FeatureMilestoneDuration:    "Milestone duration",
}

type numericInput struct {
	Name  string
	Label string
	Value string
}

type choiceView struct {
	Label  string
	Value  string
	Active bool
}

type groupView struct {
	Name     string
	Selected string
	Choices  []choiceView
}

type manualPage struct {
	Inputs  []numericInput
	Groups  []groupView
	Result  string
	IsError bool
}

type uploadPage struct {
	FileName string
	Error    string
	Table    render.Table
	Summary  string
	BatchID  string
	Formats  []string
}

type historyPage struct {
	Enabled bool
	Records []domain.HistoryRecord
	Error   string
}

func newManualPage(form *features.Form) manualPage {
	page := manualPage{
		Inputs: make([]numericInput, 0, len(domain.NumericFeatures)),
		Groups: make([]groupView, 0, len(domain.Groups)),
	}
	for _, name := range domain.NumericFeatures {
		page.Inputs = append(page.Inputs, numericInput{
			Name:  name,
			Label: numericLabels[name],
			Value: form.Numeric(name),
		})
	}
	for _, g := range domain.Groups {
		selected := form.Selected(g.Name)
		view := groupView{Name: g.Name, Selected: selected}
		for _, c := range g.Choices {
			view.Choices = append(view.Choices, choiceView{
				Label:  c.Label,
				Value:  g.Name + ":" + c.Label,
				Active: c.Label == selected,
			})
		}
		page.Groups = append(page.Groups, view)
	}
	return page
}
