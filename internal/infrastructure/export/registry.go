package export

import (
	"fmt"
	"sort"
	"strings"

	"StartupPredictor/internal/ports"
)

// Registry keeps a mapping from format names to exporters.
type Registry struct {
	exporters map[string]ports.Exporter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{exporters: map[string]ports.Exporter{}}
}

// DefaultRegistry registers the JSON, CSV and XLSX exporters.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(JSONExporter{})
	r.Register(CSVExporter{})
	r.Register(XLSXExporter{})
	return r
}

// Register adds or replaces an exporter.
func (r *Registry) Register(exporter ports.Exporter) {
	if r.exporters == nil {
		r.exporters = map[string]ports.Exporter{}
	}
	r.exporters[strings.ToLower(exporter.Format())] = exporter
}

// Resolve returns an exporter by format or an error if it is absent.
func (r *Registry) Resolve(format string) (ports.Exporter, error) {
	if exporter, ok := r.exporters[strings.ToLower(format)]; ok {
		return exporter, nil
	}
	return nil, fmt.Errorf("export format %s is not registered", format)
}

// Formats lists registered format names in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.exporters))
	for name := range r.exporters {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FileName is the download name for a format.
func FileName(format string) string {
	return "predictions." + strings.ToLower(format)
}
