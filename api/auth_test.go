package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/weboff/api"
)

func TestPreviewAuth_IssueToken(t *testing.T) {
	secret := "testsecret"
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h := api.NewPreviewAuthHandler(string(hash), secret, time.Hour)

	cases := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "InvalidJSON", body: "nope", wantStatus: http.StatusBadRequest, wantError: "Invalid request body"},
		{name: "MissingPassword", body: `{}`, wantStatus: http.StatusBadRequest, wantError: "Missing required fields"},
		{name: "WrongPassword", body: `{"password":"guess"}`, wantStatus: http.StatusUnauthorized, wantError: "Invalid credentials"},
		{name: "Success", body: `{"password":"letmein"}`, wantStatus: http.StatusOK},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.IssueToken(w, httptest.NewRequest(http.MethodPost, "/api/auth/preview", strings.NewReader(c.body)))

			if w.Code != c.wantStatus {
				t.Fatalf("want %d got %d", c.wantStatus, w.Code)
			}
			e := decodeEnvelope(t, w)
			if c.wantError != "" {
				if e.Error != c.wantError {
					t.Fatalf("want %q got %q", c.wantError, e.Error)
				}
				return
			}

			var tr struct {
				Token     string    `json:"token"`
				ExpiresAt time.Time `json:"expiresAt"`
			}
			if err := json.Unmarshal(e.Data, &tr); err != nil {
				t.Fatalf("decode token: %v", err)
			}
			tok, err := jwt.Parse(tr.Token, func(*jwt.Token) (any, error) { return []byte(secret), nil })
			if err != nil || !tok.Valid {
				t.Fatalf("issued token invalid: %v", err)
			}
			claims := tok.Claims.(jwt.MapClaims)
			if claims["scope"] != api.PreviewScope {
				t.Fatalf("unexpected scope %v", claims["scope"])
			}
			if time.Until(tr.ExpiresAt) <= 0 {
				t.Fatalf("token already expired: %v", tr.ExpiresAt)
			}
		})
	}
}

func TestPreviewAuth_NoHashRejectsEverything(t *testing.T) {
	h := api.NewPreviewAuthHandler("", "secret", time.Hour)

	w := httptest.NewRecorder()
	h.IssueToken(w, httptest.NewRequest(http.MethodPost, "/api/auth/preview", strings.NewReader(`{"password":"x"}`)))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401 got %d", w.Code)
	}
}
