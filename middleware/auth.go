package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"geo_hierarchy/logger"
	"geo_hierarchy/models"
	"geo_hierarchy/utils"
)

// Claims is the payload of API tokens.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ClaimsFrom returns the claims stored by Authenticate.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok
}

// Auth issues and verifies HS256 bearer tokens.
type Auth struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuth(secret string, ttl time.Duration) *Auth {
	return &Auth{secret: []byte(secret), ttl: ttl, now: time.Now}
}

var ErrNoSecret = errors.New("JWT secret not configured")

// Issue signs a token for u that expires after the configured TTL.
func (a *Auth) Issue(u *models.User) (string, error) {
	if len(a.secret) == 0 {
		return "", ErrNoSecret
	}
	now := a.now()
	claims := Claims{
		ID:   u.ID,
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Authenticate requires "Authorization: Bearer <token>" and stores the
// verified claims in the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if token == "" {
			utils.WriteMessage(w, http.StatusBadRequest, false, "Token not found")
			return
		}
		if len(a.secret) == 0 {
			logger.Log.Errorw("cannot verify token", "error", ErrNoSecret)
			utils.WriteMessage(w, http.StatusInternalServerError, false, "Something went wrong while verifying the token")
			return
		}

		claims := &Claims{}
		_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return a.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token expired"
			}
			logger.Log.Debugw("token rejected", "request_id", RequestID(r.Context()), "error", err)
			utils.WriteJSON(w, http.StatusUnauthorized, map[string]any{
				"success":      false,
				"message":      msg,
				"tokenExpired": true,
			})
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// RequireRole lets through only requests whose claims carry role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				utils.WriteMessage(w, http.StatusUnauthorized, false, "Unauthorized")
				return
			}
			if claims.Role != role {
				utils.WriteMessage(w, http.StatusForbidden, false, "Forbidden: You do not have permission to access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
