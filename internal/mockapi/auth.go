package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bazaarku/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokenIssuer(secret string, ttl time.Duration) *tokenIssuer {
	if secret == "" {
		secret = uuid.NewString()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &tokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an HS256 token for the profile.
func (t *tokenIssuer) Issue(p models.UserProfile) (string, error) {
	now := t.now().UTC()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(p.ID, 10),
		"role":  p.Role,
		"email": p.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(t.ttl).Unix(),
		"jti":   uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies signature and expiry and returns the user id.
func (t *tokenIssuer) Parse(token string) (int64, error) {
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, errors.New("invalid subject")
	}
	return id, nil
}

type ctxKey struct{}

func withUser(ctx context.Context, p models.UserProfile) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func userFrom(ctx context.Context) (models.UserProfile, bool) {
	p, ok := ctx.Value(ctxKey{}).(models.UserProfile)
	return p, ok
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// authenticate resolves the bearer token, if any. Tokens listed as expired
// are answered with 402, the backend's session-expired convention; unknown,
// revoked or stale tokens get 401. Requests without a token pass through
// anonymously.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if _, expired := s.expired.Load(token); expired {
			writeError(w, http.StatusPaymentRequired, "session expired")
			return
		}
		if s.store.Revoked(token) {
			writeError(w, http.StatusUnauthorized, "token revoked")
			return
		}
		id, err := s.tokens.Parse(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		profile, ok := s.store.Account(id)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), profile)))
	})
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userFrom(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := userFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !p.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ownerOrAdmin reports whether the caller may modify rec.
func ownerOrAdmin(ctx context.Context, rec Record) bool {
	p, ok := userFrom(ctx)
	if !ok {
		return false
	}
	return p.IsAdmin() || rec.Int("user_id") == p.ID
}
