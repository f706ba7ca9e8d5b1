// Package export renders query results as downloadable files.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/bookmarks/internal/domain"
	"github.com/rpattn/bookmarks/internal/query"
)

// ErrUnsupportedFormat is returned for export formats other than csv and xlsx.
var ErrUnsupportedFormat = errors.New("unsupported export format")

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const sheetName = "Export"

// ParseFormat accepts "csv" or "xlsx" in any case; empty defaults to csv.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(FormatCSV):
		return FormatCSV, nil
	case string(FormatXLSX):
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Write renders result with a header row of result.Columns().
func Write(w io.Writer, format Format, result query.Result) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, result)
	case FormatXLSX:
		return writeXLSX(w, result)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}

func writeCSV(w io.Writer, result query.Result) error {
	buffered := bufio.NewWriter(w)
	csvWriter := csv.NewWriter(buffered)

	if err := csvWriter.Write(result.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for idx, row := range result.Rows() {
		cells := make([]string, len(row))
		for i, value := range row {
			cells[i] = formatValue(value)
		}
		if err := csvWriter.Write(cells); err != nil {
			return fmt.Errorf("write row %d: %w", idx+1, err)
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return buffered.Flush()
}

func writeXLSX(w io.Writer, result query.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	stream, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("open sheet stream: %w", err)
	}

	columns := result.Columns()
	header := make([]any, len(columns))
	for i, column := range columns {
		header[i] = column
	}
	if err := stream.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for idx, row := range result.Rows() {
		cells := make([]any, len(row))
		for i, value := range row {
			cells[i] = cellValue(value)
		}
		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return err
		}
		if err := stream.SetRow(cell, cells); err != nil {
			return fmt.Errorf("write row %d: %w", idx+1, err)
		}
	}
	if err := stream.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func formatValue(value domain.Value) string {
	if value.IsAbsent() {
		return ""
	}
	return value.String()
}

// cellValue keeps finite numbers numeric in the sheet.
func cellValue(value domain.Value) any {
	if value.IsAbsent() {
		return nil
	}
	if f, ok := value.Float(); ok && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return value.String()
}

func sanitizeFileComponent(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	builder := strings.Builder{}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-' || r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteRune('-')
		}
	}
	result := strings.Trim(builder.String(), "-")
	if result == "" {
		return "export"
	}
	return result
}
