package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"StartupPredictor/internal/domain"
	"StartupPredictor/internal/render"
)

const sheetName = "Predictions"

// JSONExporter writes rows as an indented JSON array, keys in received order.
type JSONExporter struct{}

func (JSONExporter) Format() string      { return "json" }
func (JSONExporter) ContentType() string { return "application/json" }

// Export writes the batch as JSON.
func (JSONExporter) Export(w io.Writer, batch domain.BatchResult) error {
	var buf bytes.Buffer
	buf.WriteString("[")
	for i, row := range batch.Rows {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		for j, cell := range row.Cells {
			if j > 0 {
				buf.WriteString(", ")
			}
			key, err := json.Marshal(cell.Key)
			if err != nil {
				return fmt.Errorf("encode key: %w", err)
			}
			buf.Write(key)
			buf.WriteString(": ")
			raw := cell.Raw
			if len(raw) == 0 {
				raw = []byte("null")
			}
			buf.Write(raw)
		}
		buf.WriteString("}")
	}
	if len(batch.Rows) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// CSVExporter writes the rendered table as CSV.
type CSVExporter struct{}

func (CSVExporter) Format() string      { return "csv" }
func (CSVExporter) ContentType() string { return "text/csv" }

// Export writes the batch as CSV.
func (CSVExporter) Export(w io.Writer, batch domain.BatchResult) error {
	table := render.BatchTable(batch)
	cw := csv.NewWriter(w)
	if len(table.Columns) > 0 {
		if err := cw.Write(table.Columns); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// XLSXExporter writes the rendered table into a single-sheet workbook.
type XLSXExporter struct{}

func (XLSXExporter) Format() string { return "xlsx" }
func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Export writes the batch as an Excel workbook.
func (XLSXExporter) Export(w io.Writer, batch domain.BatchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	table := render.BatchTable(batch)
	for i, h := range table.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
	}

	for r, row := range batch.Rows {
		for c, col := range table.Columns {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			raw, ok := row.Lookup(col)
			if !ok {
				continue
			}
			value := cellValue(raw)
			if value == "" {
				continue
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func cellValue(raw []byte) any {
	v := gjson.ParseBytes(raw)
	switch v.Type {
	case gjson.Number:
		return v.Float()
	case gjson.True, gjson.False:
		return v.Bool()
	default:
		return render.Cell(raw)
	}
}
