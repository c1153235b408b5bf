package web

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"StartupPredictor/internal/domain"
	"StartupPredictor/internal/features"
)

// pageContract lists the selectors a rendered page must contain.
type pageContract struct {
	template  string
	data      any
	selectors []string
}

func (s *Server) contracts() []pageContract {
	manual := []string{"#predictionForm", "#predictionResult", "#predictionStatus", "#resetBtn"}
	for _, name := range domain.NumericFeatures {
		manual = append(manual, "#"+name)
	}
	for _, g := range domain.Groups {
		manual = append(manual,
			fmt.Sprintf(`.tags[data-group=%q] .tag`, g.Name),
			fmt.Sprintf(`.tags[data-group=%q] .tag.active`, g.Name),
		)
	}

	return []pageContract{
		{template: "index.html", selectors: []string{"#manualBtn", "#csvBtn"}},
		{template: "manual.html", data: newManualPage(features.NewForm()), selectors: manual},
		{
			template:  "upload.html",
			data:      uploadPage{Formats: s.exporters.Formats()},
			selectors: []string{"#uploadForm", "#csvFile", "#uploadResult", "#uploadStatus", "#resultTable", "#downloadLink"},
		},
	}
}

// verifyContract renders every page once and checks the element ids and
// tag groups scripts and tests rely on.
func (s *Server) verifyContract() error {
	for _, c := range s.contracts() {
		var buf bytes.Buffer
		if err := s.templates.ExecuteTemplate(&buf, c.template, c.data); err != nil {
			return fmt.Errorf("render %s: %w", c.template, err)
		}
		if err := CheckSelectors(&buf, c.selectors...); err != nil {
			return fmt.Errorf("page %s: %w", c.template, err)
		}
	}
	return nil
}

// CheckSelectors parses an HTML document and reports every selector that
// matches nothing.
func CheckSelectors(r io.Reader, selectors ...string) error {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}
	var missing []string
	for _, sel := range selectors {
		if doc.Find(sel).Length() == 0 {
			missing = append(missing, sel)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing elements: %s", strings.Join(missing, ", "))
	}
	return nil
}
