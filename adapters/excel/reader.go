// Package excel parses uploaded spreadsheets (xlsx or csv) into the tabular
// dataset the reconciliation engine consumes. Cell values stay strings; the
// engine resolves semantics by header, never by cell type.
package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tabular"
	"github.com/dasinspectionapp/equipment-maintainance-sub003/internal"
)

// DataReader parses one uploaded file's bytes by extension.
type DataReader struct {
	log *internal.Logger
}

// NewDataReader creates a reader.
func NewDataReader() *DataReader {
	return &DataReader{log: internal.NewDefaultLogger("ExcelReader")}
}

// Read parses content named filename into a dataset. ".csv" parses as CSV;
// anything else goes through excelize. The first row is the header row;
// every cell is trimmed.
func (r *DataReader) Read(filename string, content []byte) (tabular.Dataset, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		rows [][]string
		err  error
	)
	if ext == ".csv" {
		rows, err = readCSV(bytes.NewReader(content))
	} else {
		rows, err = readWorkbook(bytes.NewReader(content))
	}
	if err != nil {
		return tabular.Dataset{}, err
	}
	if len(rows) == 0 {
		return tabular.Dataset{}, fmt.Errorf("file %s has no rows", filename)
	}

	ds := buildDataset(rows)
	r.log.Debug("parsed %s: %d columns, %d rows", filename, len(ds.Headers), len(ds.Rows))
	return ds, nil
}

func readCSV(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

func readWorkbook(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	// First sheet, whatever the field team named it.
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func buildDataset(rows [][]string) tabular.Dataset {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	data := make([]tabular.Row, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row := make(tabular.Row, len(headers))
		for j, header := range headers {
			if header == "" {
				continue
			}
			if j < len(raw) {
				row[header] = strings.TrimSpace(raw[j])
			} else {
				row[header] = ""
			}
		}
		data = append(data, row)
	}

	// Blank header cells carry no data; drop them so the uniform-columns
	// invariant holds downstream.
	kept := headers[:0]
	for _, h := range headers {
		if h != "" {
			kept = append(kept, h)
		}
	}
	return tabular.Dataset{Headers: kept, Rows: data}
}
