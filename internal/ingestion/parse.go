package ingestion

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned when an uploaded file is not supported.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}
)

type tableData struct {
	headers        []string
	rows           [][]string
	headerRowIndex int
}

// ParseFile decodes a dataset file into flat rows, choosing the decoder by extension.
func ParseFile(fileName string, payload []byte) ([]map[string]any, error) {
	return parseFile(fileName, payload, nil)
}

func parseFile(fileName string, payload []byte, headerRowIndex *int) ([]map[string]any, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		table, err := parseCSV(payload, headerRowIndex)
		if err != nil {
			return nil, err
		}
		return table.objects(), nil
	case ".xlsx":
		table, err := parseExcel(payload, headerRowIndex)
		if err != nil {
			return nil, err
		}
		return table.objects(), nil
	case ".json":
		return parseJSON(payload)
	case ".yaml", ".yml":
		return parseYAML(payload)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func parseCSV(payload []byte, headerRowIndex *int) (tableData, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return tableData{}, fmt.Errorf("failed to read csv: %w", err)
	}
	return normalizeTable(records, headerRowIndex)
}

func parseExcel(payload []byte, headerRowIndex *int) (tableData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return tableData{}, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return tableData{}, errors.New("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return tableData{}, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}
	return normalizeTable(rows, headerRowIndex)
}

func parseJSON(payload []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(payload, byteOrderMark)))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to read json: expected an array of objects: %w", err)
	}
	return dropNullRows(rows), nil
}

func parseYAML(payload []byte) ([]map[string]any, error) {
	var rows []map[string]any
	if err := yaml.Unmarshal(payload, &rows); err != nil {
		return nil, fmt.Errorf("failed to read yaml: expected a sequence of mappings: %w", err)
	}
	rows = dropNullRows(rows)
	for _, row := range rows {
		for key, value := range row {
			if ts, ok := value.(time.Time); ok {
				row[key] = ts.Format(time.RFC3339)
			}
		}
	}
	return rows, nil
}

func dropNullRows(rows []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			out = append(out, row)
		}
	}
	return out
}

// normalizeTable picks the header row (the first non-blank row unless one is
// given), sanitises it and pads data rows to its width.
func normalizeTable(records [][]string, headerRowIndex *int) (tableData, error) {
	if len(records) == 0 {
		return tableData{}, errors.New("no rows found in file")
	}

	var headerRow []string
	var dataRows [][]string
	headerIndex := -1

	if headerRowIndex != nil {
		if *headerRowIndex < 0 || *headerRowIndex >= len(records) {
			return tableData{}, fmt.Errorf("header row index %d out of range", *headerRowIndex)
		}
		if len(cleanRow(records[*headerRowIndex])) == 0 {
			return tableData{}, fmt.Errorf("selected header row %d is empty", *headerRowIndex+1)
		}
		headerRow = records[*headerRowIndex]
		headerIndex = *headerRowIndex
		dataRows = records[*headerRowIndex+1:]
	} else {
		for idx, row := range records {
			if len(cleanRow(row)) == 0 {
				continue
			}
			if headerRow == nil {
				headerRow = row
				headerIndex = idx
				continue
			}
			dataRows = append(dataRows, row)
		}
	}

	if headerRow == nil {
		return tableData{}, errors.New("header row could not be detected")
	}

	headers := sanitizeHeaders(headerRow)
	padded := make([][]string, 0, len(dataRows))
	for _, row := range dataRows {
		padded = append(padded, padRow(row, len(headers)))
	}

	return tableData{
		headers:        headers,
		rows:           filterEmptyRows(padded),
		headerRowIndex: headerIndex,
	}, nil
}

func (t tableData) objects() []map[string]any {
	out := make([]map[string]any, len(t.rows))
	for i, row := range t.rows {
		object := make(map[string]any, len(t.headers))
		for col, header := range t.headers {
			object[header] = cellValue(row[col])
		}
		out[i] = object
	}
	return out
}

// cellValue keeps a cell as text unless the whole cell is a plain decimal number.
func cellValue(raw string) any {
	value := strings.TrimSpace(raw)
	if looksLikeNumber(value) {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return value
}

// looksLikeNumber rejects hex, inf/nan spellings and zero-padded codes that
// strconv would otherwise accept.
func looksLikeNumber(value string) bool {
	if value == "" || strings.ContainsAny(value, "xXnN_") {
		return false
	}
	digits := strings.TrimLeft(value, "+-")
	if len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return false
	}
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

func cleanRow(row []string) []string {
	var cleaned []string
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			cleaned = append(cleaned, cell)
		}
	}
	return cleaned
}

func sanitizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int)

	for idx, value := range raw {
		name := strings.TrimSpace(value)
		name = strings.ReplaceAll(name, " ", "_")
		name = strings.ReplaceAll(name, ".", "_")
		name = strings.ReplaceAll(name, "-", "_")
		name = strings.Trim(name, "_")
		if name == "" {
			name = fmt.Sprintf("column_%d", idx+1)
		}

		base := name
		count := seen[base]
		if count > 0 {
			name = fmt.Sprintf("%s_%d", base, count+1)
		}
		seen[base] = count + 1

		headers[idx] = name
	}

	return headers
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}

func filterEmptyRows(rows [][]string) [][]string {
	filtered := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(cleanRow(row)) > 0 {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
