package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the body of every /api response. A successful envelope carries Data; a failed one
// carries Error and a status >= 400. Data is a pointer so an empty list is still emitted as [].
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Query   string `json:"query,omitempty"`
}

func ok[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: &data}
}

func fail(msg string) Envelope[any] {
	return Envelope[any]{Success: false, Error: msg}
}

func (e Envelope[T]) withCount(n int) Envelope[T] {
	e.Count = &n
	return e
}

func (e Envelope[T]) withQuery(q string) Envelope[T] {
	e.Query = q
	return e
}

func (e Envelope[T]) withMessage(m string) Envelope[T] {
	e.Message = m
	return e
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("err", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, fail(msg), status)
}
