package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/rpattn/bookmarks/internal/domain"
)

// ErrInvalidFile wraps decoding failures of an uploaded file.
var ErrInvalidFile = errors.New("invalid file")

// Writer stores parsed rows as new items of a collection.
type Writer interface {
	CreateBatch(ctx context.Context, collection string, rows []map[string]any) (int, error)
}

// Service imports dataset files into collections.
type Service struct {
	writer Writer
	logger *slog.Logger
}

func NewService(writer Writer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{writer: writer, logger: logger}
}

// Request describes an uploaded file.
type Request struct {
	Collection string
	FileName   string
	Data       io.Reader
	// HeaderRow selects the header row of tabular files; nil picks the first non-blank row.
	HeaderRow *int
}

// Summary reports the outcome of an import.
type Summary struct {
	TotalRows    int      `json:"totalRows"`
	ImportedRows int      `json:"importedRows"`
	Fields       []string `json:"fields"`
}

// Import parses the file and appends its rows to the collection in file order.
func (s *Service) Import(ctx context.Context, req Request) (Summary, error) {
	summary := Summary{Fields: []string{}}

	if strings.TrimSpace(req.Collection) == "" {
		return summary, errors.New("collection is required")
	}
	if req.Data == nil {
		return summary, errors.New("file data is required")
	}

	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return summary, fmt.Errorf("failed to read file: %w", err)
	}

	rows, err := parseFile(req.FileName, payload, req.HeaderRow)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return summary, err
		}
		return summary, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	summary.TotalRows = len(rows)
	summary.Fields = fieldNames(rows)

	if len(rows) == 0 {
		return summary, nil
	}

	imported, err := s.writer.CreateBatch(ctx, req.Collection, rows)
	if err != nil {
		s.logger.ErrorContext(ctx, "import failed",
			slog.String("collection", req.Collection),
			slog.String("file", req.FileName),
			slog.Any("error", err))
		return summary, fmt.Errorf("failed to store rows: %w", err)
	}
	summary.ImportedRows = imported

	s.logger.InfoContext(ctx, "import completed",
		slog.String("collection", req.Collection),
		slog.String("file", req.FileName),
		slog.Int("rows", imported))
	return summary, nil
}

// fieldNames returns the sorted union of row keys, excluding the server-managed Id.
func fieldNames(rows []map[string]any) []string {
	seen := make(map[string]struct{})
	fields := []string{}
	for _, row := range rows {
		for key := range row {
			if _, ok := seen[key]; ok || key == domain.IDField {
				continue
			}
			seen[key] = struct{}{}
			fields = append(fields, key)
		}
	}
	sort.Strings(fields)
	return fields
}
