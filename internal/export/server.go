package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"concierge-chef/internal/planner"

	"github.com/golang-jwt/jwt/v5"
)

// PlanSource supplies the latest stored plan for a household. The plan
// repository implements it.
type PlanSource interface {
	Latest(ctx context.Context, userID string) (*planner.WeeklyPlan, error)
}

// Server serves weekly plan artifacts to external consumers (display,
// export, calendar tooling). Access is read-only and authenticated with
// HS256 bearer tokens whose subject names the household.
type Server struct {
	source PlanSource
	secret []byte
}

// NewServer creates an export server.
func NewServer(source PlanSource, secret string) *Server {
	return &Server{source: source, secret: []byte(secret)}
}

// RegisterHandlers registers the export routes on the mux.
func (s *Server) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/plans/latest", s.handleLatestPlan)
}

func (s *Server) handleLatestPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, err := s.authenticate(r)
	if err != nil {
		log.Printf("[export] rejected request: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	plan, err := s.source.Latest(r.Context(), userID)
	if err != nil {
		log.Printf("[export] failed to load plan for %s: %v", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if plan == nil {
		http.Error(w, "no plan", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(plan); err != nil {
		log.Printf("[export] failed to encode plan for %s: %v", userID, err)
	}
}

// authenticate validates the bearer token and returns its subject.
func (s *Server) authenticate(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	raw, found := strings.CutPrefix(auth, "Bearer ")
	if !found {
		return "", fmt.Errorf("missing bearer token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}

// MintToken issues a consumer token for a household. Used by the CLI to
// hand out export credentials.
func MintToken(secret, userID string, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
