package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// PreviewAuthHandler trades the shared preview password for a short-lived token that unlocks
// draft projects.
type PreviewAuthHandler struct {
	passwordHash  string
	jwtSecret     string
	tokenDuration time.Duration
	now           func() time.Time
}

func NewPreviewAuthHandler(passwordHash, jwtSecret string, tokenDuration time.Duration) *PreviewAuthHandler {
	return &PreviewAuthHandler{
		passwordHash:  passwordHash,
		jwtSecret:     jwtSecret,
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

type previewRequest struct {
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *PreviewAuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if h.passwordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	expires := h.now().Add(h.tokenDuration).UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"scope": PreviewScope,
		"iat":   h.now().Unix(),
		"exp":   expires.Unix(),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error signing token")
		return
	}

	writeJSON(w, ok(tokenResponse{Token: tokenStr, ExpiresAt: expires}), http.StatusOK)
}
