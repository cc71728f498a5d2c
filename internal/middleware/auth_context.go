package middleware

import (
	"context"
	"net/http"
	"strings"

	"hotel-reservations/internal/platform/logger"
	"hotel-reservations/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

const (
	HeaderDebugUserID    = "X-Debug-User-ID"
	HeaderDebugUserEmail = "X-Debug-User-Email"
)

// AuthContext resuelve el usuario del request y lo deja en el contexto.
//
// Con verifier, el Bearer token se valida contra el proveedor. Sin verifier (modo dev)
// se aceptan X-Debug-User-ID y X-Debug-User-Email. Un token inválido no corta el
// request: los handlers responden 401 cuando no hay claims.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				claims auth.Claims
				ok     bool
			)
			if verifier == nil {
				claims, ok = devClaims(r)
			} else {
				claims, ok = verifiedClaims(r, verifier)
			}
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func devClaims(r *http.Request) (auth.Claims, bool) {
	uid := strings.TrimSpace(r.Header.Get(HeaderDebugUserID))
	if uid == "" {
		return auth.Claims{}, false
	}
	return auth.Claims{
		UserID: uid,
		Email:  strings.TrimSpace(r.Header.Get(HeaderDebugUserEmail)),
	}, true
}

func verifiedClaims(r *http.Request, verifier auth.AuthVerifier) (auth.Claims, bool) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return auth.Claims{}, false
	}
	claims, err := verifier.Verify(r.Context(), token)
	if err != nil {
		logger.FromContext(r.Context(), nil).Warn("auth: token rejected", map[string]any{"err": err})
		return auth.Claims{}, false
	}
	return claims, true
}

// WithClaims es útil en tests de handlers.
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
