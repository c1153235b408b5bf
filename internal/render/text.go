package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteTable prints an aligned plain-text table.
func WriteTable(w io.Writer, table Table) error {
	if len(table.Columns) == 0 {
		_, err := fmt.Fprintln(w, "No results")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(table.Columns, "\t")); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
