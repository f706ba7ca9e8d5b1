package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rpattn/bookmarks/internal/collection"
	"github.com/rpattn/bookmarks/internal/domain"
)

// ParamFormat selects the export file format; it never reaches the query engine.
const ParamFormat = "format"

type Handler struct {
	service *collection.Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *collection.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Routes() map[string]http.Handler {
	return map[string]http.Handler{
		"GET /api/{collection}/export": http.HandlerFunc(h.handleExport),
	}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("collection")
	params, err := domain.ParseQueryParams(r.URL.RawQuery)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rawFormat, _ := params.Get(ParamFormat)
	format, err := ParseFormat(rawFormat)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Query(r.Context(), name, params.Without(ParamFormat))
	if err != nil {
		writeError(w, collection.ErrorStatus(err), err.Error())
		return
	}

	var buf bytes.Buffer
	if err := Write(&buf, format, result); err != nil {
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("collection", name), slog.String("format", string(format)), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := sanitizeFileComponent(name) + format.Extension()
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]string{"error": message})
}
