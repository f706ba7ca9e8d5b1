package ingestion

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rpattn/bookmarks/internal/collection"
)

const maxUploadBytes = 32 << 20

// Handler exposes ingestion as an HTTP endpoint.
type Handler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes() map[string]http.Handler {
	return map[string]http.Handler{
		"POST /api/{collection}/import": http.HandlerFunc(h.handleImport),
	}
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid form data: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file required: %v", err))
		return
	}
	defer file.Close()

	req := Request{
		Collection: r.PathValue("collection"),
		FileName:   header.Filename,
		Data:       file,
	}

	if raw := strings.TrimSpace(r.FormValue("headerRow")); raw != "" {
		row, err := strconv.Atoi(raw)
		if err != nil || row < 1 {
			writeError(w, http.StatusBadRequest, "headerRow must be a positive row number")
			return
		}
		index := row - 1
		req.HeaderRow = &index
	}

	summary, err := h.service.Import(r.Context(), req)
	if err != nil {
		writeError(w, importStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func importStatus(err error) int {
	if errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrInvalidFile) {
		return http.StatusBadRequest
	}
	return collection.ErrorStatus(err)
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
