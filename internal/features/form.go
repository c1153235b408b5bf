package features

import (
	"fmt"

	"StartupPredictor/internal/domain"
)

// Form holds the editable state of the manual prediction form.
type Form struct {
	numeric    map[string]string
	selections map[string]string
}

// NewForm returns a form in its reset state.
func NewForm() *Form {
	f := &Form{}
	f.Reset()
	return f
}

// FormFromInput rebuilds a form from submitted values. Unknown groups and
// choices are dropped so the group falls back to None.
func FormFromInput(input domain.ManualInput) *Form {
	f := NewForm()
	for _, name := range domain.NumericFeatures {
		f.numeric[name] = input.Numeric[name]
	}
	for group, choice := range input.Selections {
		_ = f.SelectExclusive(group, choice)
	}
	return f
}

// SetNumeric stores the raw text of a numeric input.
func (f *Form) SetNumeric(name, value string) error {
	for _, n := range domain.NumericFeatures {
		if n == name {
			f.numeric[name] = value
			return nil
		}
	}
	return fmt.Errorf("unknown numeric input %q", name)
}

// Numeric returns the raw text of a numeric input.
func (f *Form) Numeric(name string) string {
	return f.numeric[name]
}

// SelectExclusive makes choice the single active tag of group.
func (f *Form) SelectExclusive(group, choice string) error {
	g, ok := domain.LookupGroup(group)
	if !ok {
		return fmt.Errorf("unknown group %q", group)
	}
	if !g.Has(choice) {
		return fmt.Errorf("group %s has no choice %q", group, choice)
	}
	f.selections[g.Name] = choice
	return nil
}

// Selected returns the active choice of group.
func (f *Form) Selected(group string) string {
	if choice, ok := f.selections[group]; ok {
		return choice
	}
	return domain.ChoiceNone
}

// Reset clears every numeric input and restores the None selections.
func (f *Form) Reset() {
	f.numeric = make(map[string]string, len(domain.NumericFeatures))
	f.selections = make(map[string]string, len(domain.Groups))
	for _, g := range domain.Groups {
		f.selections[g.Name] = domain.ChoiceNone
	}
}

// Input snapshots the form for encoding.
func (f *Form) Input() domain.ManualInput {
	input := domain.ManualInput{
		Numeric:    make(map[string]string, len(f.numeric)),
		Selections: make(map[string]string, len(f.selections)),
	}
	for k, v := range f.numeric {
		input.Numeric[k] = v
	}
	for k, v := range f.selections {
		input.Selections[k] = v
	}
	return input
}

// Encode is a shorthand for Encode(f.Input()).
func (f *Form) Encode() domain.FeatureVector {
	return Encode(f.Input())
}
