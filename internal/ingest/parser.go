package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MaxUploadSize is the hard cap on uploaded spreadsheet size.
const MaxUploadSize = 5 << 20 // 5MB

// Parse reads a CSV or XLSX upload into generic rows. Each row is a map from
// canonical field name to trimmed cell value, plus a "_row" entry carrying the
// original 1-indexed line number for error reporting.
func Parse(data []byte, filename string) ([]map[string]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(bytes.NewReader(data))
	case ".xlsx":
		return ParseXLSX(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported file format %q, expected .csv or .xlsx", filepath.Ext(filename))
	}
}

// ParseCSV parses a CSV stream into rows.
func ParseCSV(file io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	headers = NormalizeHeaders(headers)

	var rows []map[string]string
	lineNum := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", lineNum+1, err)
		}

		row := make(map[string]string)
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(lineNum + 1) // Track row number for error reporting
		rows = append(rows, row)
		lineNum++
	}

	return rows, nil
}

// ParseXLSX parses an Excel upload into rows. Only the first sheet is read,
// unless a sheet named "Products" exists.
func ParseXLSX(file io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	sheetName := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, "Products") {
			sheetName = name
			break
		}
	}

	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}

	headers := NormalizeHeaders(excelRows[0])

	var rows []map[string]string
	for rowIdx, excelRow := range excelRows[1:] {
		row := make(map[string]string)
		for i, value := range excelRow {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(rowIdx + 2) // 1-indexed, +1 for header
		rows = append(rows, row)
	}

	return rows, nil
}

// RowNumber extracts the tracked line number from a parsed row.
func RowNumber(row map[string]string) int {
	n, _ := strconv.Atoi(row["_row"])
	return n
}
