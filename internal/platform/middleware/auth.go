package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	id "hireflow/pkg/domain"
	"hireflow/pkg/requestcontext"
	"hireflow/pkg/secrets"
)

// JWTValidator validates a bearer token and returns the claims we rely on.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator.
type JWTClaims struct {
	UserID   string
	TenantID string
	Name     string
	Role     string
}

// HMACValidator validates HS256 tokens signed with a shared key. Identity and
// tenant resolution happen upstream; the token is the carrier.
type HMACValidator struct {
	signingKey []byte
}

func NewHMACValidator(signingKey string) *HMACValidator {
	return &HMACValidator{signingKey: []byte(signingKey)}
}

func (v *HMACValidator) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	str := func(key string) string {
		if v, ok := claims[key].(string); ok {
			return v
		}
		return ""
	}
	return &JWTClaims{
		UserID:   str("sub"),
		TenantID: str("tenant_id"),
		Name:     str("name"),
		Role:     str("role"),
	}, nil
}

// APIKeys holds the bcrypt hashes of the two privileged cross-tenant keys.
// An empty hash disables the corresponding role.
type APIKeys struct {
	PlatformAdminHash string
	SupportHash       string
}

// RequireAuth resolves the acting identity from either a privileged API key
// (X-API-Key header) or a tenant-scoped JWT bearer token, and injects it into
// the request context. Requests without a resolvable identity are rejected.
func RequireAuth(validator JWTValidator, keys APIKeys, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
				role, ok := matchAPIKey(apiKey, keys)
				if !ok {
					logger.WarnContext(ctx, "unauthorized access - invalid api key",
						"request_id", requestcontext.RequestID(ctx),
					)
					writeUnauthorized(w)
					return
				}
				actor := requestcontext.ActingIdentity{
					Name: string(role),
					Role: role,
				}
				next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, actor)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w)
				return
			}

			actor, err := actorFromClaims(claims)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed claims",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, actor)))
		})
	}
}

func matchAPIKey(apiKey string, keys APIKeys) (requestcontext.Role, bool) {
	if keys.PlatformAdminHash != "" && secrets.Verify(apiKey, keys.PlatformAdminHash) == nil {
		return requestcontext.RolePlatformAdmin, true
	}
	if keys.SupportHash != "" && secrets.Verify(apiKey, keys.SupportHash) == nil {
		return requestcontext.RoleSupport, true
	}
	return "", false
}

func actorFromClaims(claims *JWTClaims) (requestcontext.ActingIdentity, error) {
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return requestcontext.ActingIdentity{}, err
	}
	tenantID, err := id.ParseTenantID(claims.TenantID)
	if err != nil {
		return requestcontext.ActingIdentity{}, err
	}
	role := requestcontext.Role(claims.Role)
	if role != requestcontext.RolePlatformAdmin && role != requestcontext.RoleSupport {
		role = requestcontext.RoleMember
	}
	return requestcontext.ActingIdentity{
		UserID:   userID,
		TenantID: tenantID,
		Name:     claims.Name,
		Role:     role,
	}, nil
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Missing or invalid credentials"}`))
}
