// Package tabular reads observation, reference and weight tables from
// xlsx and csv files into frames for the estimators.
package tabular

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"goanomaly/domain/table"

	"github.com/xuri/excelize/v2"
)

// Reader loads one tabular file. The first row is the header; every other
// row is data.
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
}

// NewReader creates a reader for an xlsx or csv file, chosen by extension.
func NewReader(filePath string) *Reader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &Reader{filePath: filePath, fileType: fileType, sheet: "Sheet1"}
}

// WithSheet overrides the worksheet read from xlsx files.
func (r *Reader) WithSheet(sheet string) *Reader {
	r.sheet = sheet
	return r
}

// Read loads the file into a Frame. A column becomes numeric when every
// non-empty cell parses as a number, with empty cells as NaN (missing);
// otherwise it becomes a string column. Ragged rows are padded with
// missing cells.
func (r *Reader) Read() (*table.Frame, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	case "xlsx":
		rows, err = r.readXLSX()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("file %s has no header row", r.filePath)
	}

	return framize(rows[0], rows[1:])
}

func (r *Reader) readCSV() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func (r *Reader) readXLSX() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.sheet, err)
	}
	return rows, nil
}

func framize(header []string, rows [][]string) (*table.Frame, error) {
	cols := make([]table.Column, 0, len(header))
	for c, name := range header {
		name = strings.TrimSpace(name)

		raw := make([]string, len(rows))
		for i, row := range rows {
			if c < len(row) {
				raw[i] = strings.TrimSpace(row[c])
			}
		}

		numeric := true
		values := make([]float64, len(raw))
		for i, cell := range raw {
			if cell == "" {
				values[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				numeric = false
				break
			}
			values[i] = v
		}

		if numeric {
			cols = append(cols, table.NumericColumn(name, values...))
		} else {
			cols = append(cols, table.StringColumn(name, raw...))
		}
	}
	return table.New(cols...)
}
