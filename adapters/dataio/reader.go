// Package dataio is the thin file-format adapter: it converts bytes into the
// in-memory tabular representation and back. All delimiter handling, sheet
// selection, JSON/XML mapping and NaN/Infinity sanitization happens here;
// the engine never re-parses raw bytes.
package dataio

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"scour/domain/core"
	"scour/domain/table"
	"scour/internal/coerce"

	"github.com/xuri/excelize/v2"
)

// Format identifies a supported file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// DetectFormat maps a filename extension to a format.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".tsv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	case ".xml":
		return FormatXML, nil
	}
	return "", fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, filepath.Ext(filename))
}

// Read materializes a table from the reader in the given format.
func Read(r io.Reader, format Format) (*table.Table, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	case FormatJSON:
		return ReadJSON(r)
	case FormatXML:
		return ReadXML(r)
	}
	return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, format)
}

// ReadCSV parses delimiter-separated text, sniffing the delimiter from the
// header line (comma, semicolon or tab).
func ReadCSV(r io.Reader) (*table.Table, error) {
	buffered := bufio.NewReader(r)
	header, err := buffered.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	reader := csv.NewReader(buffered)
	reader.Comma = sniffDelimiter(string(header))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
	}
	return fromRecords(records)
}

// sniffDelimiter picks the most frequent candidate delimiter on the first line.
func sniffDelimiter(header string) rune {
	if i := strings.IndexByte(header, '\n'); i >= 0 {
		header = header[:i]
	}
	best, bestCount := ',', strings.Count(header, ",")
	for _, c := range []rune{';', '\t'} {
		if n := strings.Count(header, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// ReadXLSX reads the first sheet of an Excel workbook.
func ReadXLSX(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrMalformedInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return fromRecords(rows)
}

// fromRecords converts a header row plus data rows into a coerced table.
func fromRecords(records [][]string) (*table.Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", core.ErrMalformedInput)
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]table.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		raw := make(map[string]string, len(headers))
		for i, cell := range record {
			if i < len(headers) {
				raw[headers[i]] = cell
			}
		}
		rows = append(rows, coerce.Row(headers, raw))
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: header only", core.ErrEmptyTable)
	}
	return table.New(headers, rows), nil
}

// ReadJSON parses an array of flat objects. Objects are walked token by
// token rather than decoded into maps, so column order is the textual
// first-seen key order across the array. NaN and Infinity never survive
// into the table.
func ReadJSON(r io.Reader) (*table.Table, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("%w: expected an array of objects", core.ErrMalformedInput)
	}

	var headers []string
	seen := make(map[string]struct{})
	var rows []table.Row

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, fmt.Errorf("%w: array elements must be objects", core.ErrMalformedInput)
		}
		row := make(table.Row)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("%w: object key is not a string", core.ErrMalformedInput)
			}
			var raw interface{}
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
			}
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				headers = append(headers, key)
			}
			row[key] = jsonValue(raw)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty array", core.ErrEmptyTable)
	}
	return table.New(headers, rows), nil
}

func jsonValue(raw interface{}) table.Value {
	switch v := raw.(type) {
	case nil:
		return table.Missing()
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return table.Missing()
		}
		return table.NewNumber(v)
	case bool:
		return table.NewBool(v)
	case string:
		return coerce.Cell(v)
	}
	return table.NewText(fmt.Sprintf("%v", raw))
}

// ReadXML maps row elements under the document root to table rows; each child
// element of a row becomes a column with its character data as the cell.
func ReadXML(r io.Reader) (*table.Table, error) {
	decoder := xml.NewDecoder(r)

	var headers []string
	seen := make(map[string]struct{})
	var rows []table.Row

	depth := 0
	var currentRow map[string]string
	var currentField string
	var text strings.Builder

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 2:
				currentRow = make(map[string]string)
			case 3:
				currentField = el.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth == 3 {
				text.Write(el)
			}
		case xml.EndElement:
			switch depth {
			case 3:
				currentRow[currentField] = text.String()
				if _, ok := seen[currentField]; !ok {
					seen[currentField] = struct{}{}
					headers = append(headers, currentField)
				}
			case 2:
				row := make(table.Row, len(currentRow))
				for k, v := range currentRow {
					row[k] = coerce.Cell(v)
				}
				rows = append(rows, row)
			}
			depth--
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no row elements found", core.ErrEmptyTable)
	}
	return table.New(headers, rows), nil
}
