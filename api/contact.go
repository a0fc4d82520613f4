package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/qri-io/jsonschema"

	"github.com/garnizeh/weboff/internal/mailer"
	"github.com/garnizeh/weboff/pkg/models"
	"github.com/garnizeh/weboff/pkg/repository"
)

const maxContactBody = 64 << 10

// contactSchemaJSON only admits an object whose known fields are strings or null. Presence is
// checked after trimming, so an empty or null field is a "missing" error rather than a schema error.
const contactSchemaJSON = `{
	"type": "object",
	"properties": {
		"name": {"type": ["string", "null"]},
		"email": {"type": ["string", "null"]},
		"message": {"type": ["string", "null"]}
	}
}`

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ContactHandler struct {
	sender    mailer.Sender
	inquiries repository.InquiryRepo
	schema    *jsonschema.Schema
}

// NewContactHandler builds the contact handler. A nil sender means the relay is not configured;
// a nil repo skips inquiry bookkeeping.
func NewContactHandler(sender mailer.Sender, inquiries repository.InquiryRepo) (*ContactHandler, error) {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(contactSchemaJSON), rs); err != nil {
		return nil, err
	}
	return &ContactHandler{sender: sender, inquiries: inquiries, schema: rs}, nil
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxContactBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	verrs, err := h.schema.ValidateBytes(ctx, body)
	if err != nil || len(verrs) > 0 {
		logger.Warn("contact body rejected", slog.Any("err", err), slog.Int("schema_errors", len(verrs)))
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var req contactRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	message := strings.TrimSpace(req.Message)
	if name == "" || email == "" || message == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !emailPattern.MatchString(email) {
		writeError(w, http.StatusBadRequest, "Email is invalid")
		return
	}

	if h.sender == nil {
		logger.Error("contact relay is not configured")
		writeError(w, http.StatusInternalServerError, "Contact form is temporarily unavailable")
		return
	}

	id := h.record(ctx, name, email, message)

	if err := h.sender.Send(ctx, mailer.ContactMessage(name, email, message)); err != nil {
		logger.Error("failed to send contact message", slog.Int64("inquiry_id", id), slog.Any("err", err))
		h.mark(ctx, id, models.InquiryFailed, err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to send the message")
		return
	}
	h.mark(ctx, id, models.InquirySent, "")

	writeJSON(w, Envelope[any]{Success: true}, http.StatusOK)
}

// record stores the inquiry as pending and returns its id, or 0 when it could not be stored.
// Losing the record never blocks delivery.
func (h *ContactHandler) record(ctx context.Context, name, email, message string) int64 {
	if h.inquiries == nil {
		return 0
	}
	id, err := h.inquiries.CreateInquiry(ctx, &models.Inquiry{
		Name:    name,
		Email:   email,
		Message: message,
		Status:  models.InquiryPending,
	})
	if err != nil {
		logger.Warn("failed to store inquiry", slog.Any("err", err))
		return 0
	}
	return id
}

func (h *ContactHandler) mark(ctx context.Context, id int64, status, lastError string) {
	if h.inquiries == nil || id == 0 {
		return
	}
	if err := h.inquiries.UpdateInquiryStatus(ctx, id, status, lastError); err != nil {
		logger.Warn("failed to update inquiry", slog.Int64("id", id), slog.String("status", status), slog.Any("err", err))
	}
}
