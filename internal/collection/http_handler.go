package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/rpattn/bookmarks/internal/domain"
	"github.com/rpattn/bookmarks/internal/query"
	"github.com/rpattn/bookmarks/internal/repository"
)

const maxBodyBytes = 1 << 20

// QueryObserver receives the size of every successful query result.
type QueryObserver interface {
	ObserveQuery(collection, kind string, count int)
}

type Handler struct {
	service  *Service
	observer QueryObserver
	logger   *slog.Logger
}

func NewHTTPHandler(service *Service, observer QueryObserver, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, observer: observer, logger: logger}
}

// Routes maps ServeMux patterns to handlers.
func (h *Handler) Routes() map[string]http.Handler {
	return map[string]http.Handler{
		"GET /api/{collection}":         http.HandlerFunc(h.handleQuery),
		"POST /api/{collection}":        http.HandlerFunc(h.handleCreate),
		"GET /api/{collection}/{id}":    http.HandlerFunc(h.handleGet),
		"PUT /api/{collection}/{id}":    http.HandlerFunc(h.handleUpdate),
		"DELETE /api/{collection}/{id}": http.HandlerFunc(h.handleDelete),
	}
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	params, err := domain.ParseQueryParams(r.URL.RawQuery)
	if err != nil {
		WriteError(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}

	result, err := h.service.Query(r.Context(), collection, params)
	if err != nil {
		h.logFailure(r, err)
		WriteError(w, err)
		return
	}
	if h.observer != nil {
		h.observer.ObserveQuery(collection, result.Kind.String(), result.Len())
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	item, err := h.service.Get(r.Context(), r.PathValue("collection"), id)
	if err != nil {
		h.logFailure(r, err)
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item.Record())
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	properties, err := decodeProperties(w, r)
	if err != nil {
		WriteError(w, err)
		return
	}
	item, err := h.service.Create(r.Context(), r.PathValue("collection"), properties)
	if err != nil {
		h.logFailure(r, err)
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item.Record())
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	properties, err := decodeProperties(w, r)
	if err != nil {
		WriteError(w, err)
		return
	}
	item, err := h.service.Update(r.Context(), r.PathValue("collection"), id, properties)
	if err != nil {
		h.logFailure(r, err)
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item.Record())
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), r.PathValue("collection"), id); err != nil {
		h.logFailure(r, err)
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logFailure(r *http.Request, err error) {
	if ErrorStatus(err) >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "collection request failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
	}
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		// A malformed id cannot name a stored item.
		return uuid.Nil, repository.ErrNotFound
	}
	return id, nil
}

func decodeProperties(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	var properties map[string]any
	if err := dec.Decode(&properties); err != nil {
		return nil, fmt.Errorf("%w: body must be a JSON object: %v", ErrBadRequest, err)
	}
	if properties == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrBadRequest)
	}
	return properties, nil
}

// ErrBadRequest marks malformed client input.
var ErrBadRequest = errors.New("bad request")

// ErrorStatus maps service and query errors to HTTP status codes.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnknownCollection), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, query.ErrMissingField),
		errors.Is(err, query.ErrInvalidPagination),
		errors.Is(err, query.ErrInvalidSort),
		errors.Is(err, query.ErrInvalidPattern):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a JSON error body with its mapped status.
func WriteError(w http.ResponseWriter, err error) {
	status := ErrorStatus(err)
	message := err.Error()
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
