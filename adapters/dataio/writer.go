package dataio

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"scour/domain/core"
	"scour/domain/table"

	"github.com/xuri/excelize/v2"
)

// Write serializes the table to the writer in the given format. Missing cells
// export as empty CSV fields, JSON nulls, empty XLSX cells and empty XML
// elements.
func Write(w io.Writer, t *table.Table, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatXML:
		return WriteXML(w, t)
	}
	return fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, format)
}

// WriteCSV writes a header row followed by the data rows in table order.
func WriteCSV(w io.Writer, t *table.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.ColumnNames); err != nil {
		return err
	}
	record := make([]string, len(t.ColumnNames))
	for _, r := range t.Rows {
		for i, name := range t.ColumnNames {
			record[i] = r[name].Display()
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes a single-sheet workbook with typed cells.
func WriteXLSX(w io.Writer, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(t.ColumnNames))
	for i, name := range t.ColumnNames {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	row := make([]interface{}, len(t.ColumnNames))
	for i, r := range t.Rows {
		for j, name := range t.ColumnNames {
			row[j] = xlsxCell(r[name])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func xlsxCell(v table.Value) interface{} {
	switch v.Kind {
	case table.KindNumber:
		return v.Num
	case table.KindBool:
		return v.Bool
	case table.KindText:
		return v.Text
	}
	return nil
}

// WriteJSON writes an array of objects with fields in table column order;
// missing cells become nulls. Rows are emitted by hand because encoding
// a map sorts its keys, which would discard the column order.
func WriteJSON(w io.Writer, t *table.Table) error {
	var b strings.Builder
	b.WriteString("[\n")
	for i, r := range t.Rows {
		b.WriteString("  {")
		for j, name := range t.ColumnNames {
			if j > 0 {
				b.WriteString(", ")
			}
			key, err := json.Marshal(name)
			if err != nil {
				return err
			}
			val, err := json.Marshal(r[name])
			if err != nil {
				return err
			}
			b.Write(key)
			b.WriteString(": ")
			b.Write(val)
		}
		if i < len(t.Rows)-1 {
			b.WriteString("},\n")
		} else {
			b.WriteString("}\n")
		}
	}
	b.WriteString("]\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteXML writes <rows><row><field>…</field></row></rows>. Column names are
// sanitized into valid element names.
func WriteXML(w io.Writer, t *table.Table) error {
	names := make([]string, len(t.ColumnNames))
	for i, name := range t.ColumnNames {
		names[i] = xmlName(name)
	}

	if _, err := io.WriteString(w, xml.Header+"<rows>\n"); err != nil {
		return err
	}
	var b strings.Builder
	for _, r := range t.Rows {
		b.Reset()
		b.WriteString("  <row>")
		for i, col := range t.ColumnNames {
			b.WriteString("<" + names[i] + ">")
			if !r[col].IsMissing() {
				_ = xml.EscapeText(&b, []byte(r[col].Display()))
			}
			b.WriteString("</" + names[i] + ">")
		}
		b.WriteString("</row>\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</rows>\n")
	return err
}

// xmlName replaces characters that are invalid in element names.
func xmlName(name string) string {
	out := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			return r
		}
		return '_'
	}, name)
	if out == "" || (out[0] >= '0' && out[0] <= '9') {
		out = "_" + out
	}
	return out
}
